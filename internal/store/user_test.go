package store

import (
	"errors"
	"testing"
)

func TestUserCreate(t *testing.T) {
	db := openTestDB(t)
	us := NewUserStore(db)

	user, err := us.Create("rabbit@example.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.Email != "rabbit@example.com" {
		t.Errorf("email = %q, want %q", user.Email, "rabbit@example.com")
	}
	if user.CarrotBalance != 0 {
		t.Errorf("new user balance = %d, want 0", user.CarrotBalance)
	}
	if user.EquippedHatID != nil || user.EquippedAccessoryID != nil || user.EquippedBackgroundID != nil {
		t.Error("new user should have nothing equipped")
	}
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	db := openTestDB(t)
	us := NewUserStore(db)

	if _, err := us.Create("dup@example.com", "hash"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	_, err := us.Create("dup@example.com", "otherhash")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserGetByEmail(t *testing.T) {
	db := openTestDB(t)
	us := NewUserStore(db)

	created := createTestUser(t, db, "find@example.com")

	got, err := us.GetByEmail("find@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got == nil || got.ID != created.ID {
		t.Fatalf("got %+v, want user %d", got, created.ID)
	}

	missing, err := us.GetByEmail("nobody@example.com")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown email, got %+v", missing)
	}
}

func TestUserGetByIDMissing(t *testing.T) {
	db := openTestDB(t)
	us := NewUserStore(db)

	got, err := us.GetByID(999)
	if err != nil {
		t.Fatalf("get missing user: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for unknown id, got %+v", got)
	}
}

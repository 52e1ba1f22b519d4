package store

import (
	"errors"
	"testing"
)

func TestInventoryGrantAndOwns(t *testing.T) {
	db := openTestDB(t)
	is := NewInventoryStore(db)
	user := createTestUser(t, db, "inv@example.com")

	owned, err := is.Owns(user.ID, 1)
	if err != nil {
		t.Fatalf("owns: %v", err)
	}
	if owned {
		t.Error("new user should not own anything")
	}

	rec, err := is.Grant(user.ID, 1)
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if rec.UserID != user.ID || rec.ItemID != 1 {
		t.Errorf("record = %+v, want user %d item 1", rec, user.ID)
	}
	if rec.IsEquipped {
		t.Error("granted item should start unequipped")
	}

	owned, err = is.Owns(user.ID, 1)
	if err != nil {
		t.Fatalf("owns: %v", err)
	}
	if !owned {
		t.Error("expected item to be owned after grant")
	}
}

func TestInventoryDuplicateGrant(t *testing.T) {
	db := openTestDB(t)
	is := NewInventoryStore(db)
	user := createTestUser(t, db, "dup-grant@example.com")

	if _, err := is.Grant(user.ID, 1); err != nil {
		t.Fatalf("grant: %v", err)
	}

	// The UNIQUE(user_id, item_id) constraint rejects a second copy
	_, err := is.Grant(user.ID, 1)
	if !errors.Is(err, ErrAlreadyOwned) {
		t.Fatalf("expected ErrAlreadyOwned, got %v", err)
	}
}

func TestInventoryListOwned(t *testing.T) {
	db := openTestDB(t)
	is := NewInventoryStore(db)
	user := createTestUser(t, db, "list-inv@example.com")

	entries, err := is.ListOwned(user.ID)
	if err != nil {
		t.Fatalf("list owned: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty inventory, got %d entries", len(entries))
	}

	for _, itemID := range []int64{1, 7} {
		if _, err := is.Grant(user.ID, itemID); err != nil {
			t.Fatalf("grant item %d: %v", itemID, err)
		}
	}

	entries, err = is.ListOwned(user.ID)
	if err != nil {
		t.Fatalf("list owned: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Item.Name != "Straw Hat" {
		t.Errorf("entries[0] = %q, want Straw Hat", entries[0].Item.Name)
	}
	if entries[1].Item.Name != "Heart Charm" {
		t.Errorf("entries[1] = %q, want Heart Charm", entries[1].Item.Name)
	}
	for _, e := range entries {
		if e.IsEquipped {
			t.Errorf("%s should start unequipped", e.Item.Name)
		}
	}
}

package store

import (
	"database/sql"
	"path/filepath"
	"testing"

	"carrotlist/internal/database"
	"carrotlist/internal/model"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// openTestDBFile opens a file-backed database for tests that need multiple
// concurrent connections; a :memory: database is private to its connection.
func openTestDBFile(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *sql.DB, email string) *model.User {
	t.Helper()
	user, err := NewUserStore(db).Create(email, "$2a$10$testhash")
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return user
}

func setBalance(t *testing.T, db *sql.DB, userID int64, balance int) {
	t.Helper()
	if _, err := db.Exec(`UPDATE users SET carrot_balance = ? WHERE id = ?`, balance, userID); err != nil {
		t.Fatalf("set balance: %v", err)
	}
}

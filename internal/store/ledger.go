package store

import (
	"database/sql"
	"fmt"
)

// execQuerier is satisfied by both *sql.DB and *sql.Tx, so balance deltas can
// run standalone or inside a caller's transaction without committing on their own.
type execQuerier interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

// LedgerStore owns a user's carrot balance.
type LedgerStore struct {
	db *sql.DB
}

func NewLedgerStore(db *sql.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

// Balance returns the user's current carrot balance.
func (s *LedgerStore) Balance(userID int64) (int, error) {
	var balance int
	err := s.db.QueryRow(`SELECT carrot_balance FROM users WHERE id = ?`, userID).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return balance, nil
}

// Adjust applies a signed delta to the user's balance and returns the new
// balance. A result below zero is clamped to zero rather than rejected;
// callers that must prevent overdraft (purchase) pre-check the balance
// themselves before debiting.
func (s *LedgerStore) Adjust(userID int64, delta int) (int, error) {
	return applyBalanceDelta(s.db, userID, delta)
}

// applyBalanceDelta is the single write path for carrot balances. The clamp
// happens inside the UPDATE so concurrent writers can never drive the stored
// balance negative.
func applyBalanceDelta(q execQuerier, userID int64, delta int) (int, error) {
	result, err := q.Exec(
		`UPDATE users SET carrot_balance = MAX(0, carrot_balance + ?) WHERE id = ?`,
		delta, userID,
	)
	if err != nil {
		return 0, fmt.Errorf("adjust balance: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return 0, ErrUserNotFound
	}

	var balance int
	if err := q.QueryRow(`SELECT carrot_balance FROM users WHERE id = ?`, userID).Scan(&balance); err != nil {
		return 0, fmt.Errorf("reread balance: %w", err)
	}
	return balance, nil
}

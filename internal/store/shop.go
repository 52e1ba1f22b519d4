package store

import (
	"database/sql"
	"errors"
	"fmt"

	"carrotlist/internal/model"
)

// ShopStore composes catalog, ledger, and inventory into the purchase
// transaction.
type ShopStore struct {
	db *sql.DB
}

func NewShopStore(db *sql.DB) *ShopStore {
	return &ShopStore{db: db}
}

// Purchase validates and executes a purchase as one atomic unit:
// item lookup, user lookup, ownership check, balance check, then debit and
// grant. Every read happens under the transaction, so a balance or ownership
// change racing in from another request is either serialized before us or
// sees our committed writes. On any rejection nothing is mutated; a storage
// failure during the debit, grant, or commit rolls back fully and surfaces
// ErrTransactionFailed.
func (s *ShopStore) Purchase(userID, itemID int64) (*model.User, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	item, err := scanItem(tx.QueryRow(`SELECT `+itemCols+` FROM items WHERE id = ?`, itemID))
	if err == sql.ErrNoRows {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}

	user, err := scanUser(tx.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ?`, userID))
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	var owned int
	err = tx.QueryRow(
		`SELECT COUNT(*) FROM inventory WHERE user_id = ? AND item_id = ?`,
		userID, itemID,
	).Scan(&owned)
	if err != nil {
		return nil, fmt.Errorf("check ownership: %w", err)
	}
	if owned > 0 {
		return nil, ErrAlreadyOwned
	}

	if user.CarrotBalance < item.Price {
		return nil, ErrInsufficientBalance
	}

	newBalance, err := applyBalanceDelta(tx, userID, -item.Price)
	if err != nil {
		return nil, fmt.Errorf("%w: debit balance: %v", ErrTransactionFailed, err)
	}

	// The UNIQUE(user_id, item_id) constraint turns a racing duplicate
	// purchase into ErrAlreadyOwned instead of a second record.
	if _, err := grantIn(tx, userID, itemID); err != nil {
		if errors.Is(err, ErrAlreadyOwned) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: grant item: %v", ErrTransactionFailed, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit purchase: %v", ErrTransactionFailed, err)
	}

	user.CarrotBalance = newBalance
	return user, nil
}

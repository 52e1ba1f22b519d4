package store

import (
	"database/sql"
	"fmt"

	"carrotlist/internal/model"
)

// equippedColumn maps a slot type to the users table pointer column it owns.
// The switch doubles as a whitelist so the column name is never interpolated
// from arbitrary input.
func equippedColumn(itemType string) (string, error) {
	switch itemType {
	case model.ItemTypeHat:
		return "equipped_hat_id", nil
	case model.ItemTypeAccessory:
		return "equipped_accessory_id", nil
	case model.ItemTypeBackground:
		return "equipped_background_id", nil
	}
	return "", fmt.Errorf("unknown item type %q", itemType)
}

// SetEquipped changes the equip state of an owned item. Equipping first
// unequips every other record of the same slot type, so at most one item per
// slot is ever equipped; the user's denormalized equipped_<slot>_id pointer is
// updated in the same transaction. Unequipping clears the pointer only when it
// points at this item, which keeps stale duplicate calls harmless.
func (s *InventoryStore) SetEquipped(userID, itemID int64, equipped bool) (*model.InventoryRecord, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(
		`SELECT `+inventoryCols+` FROM inventory WHERE user_id = ? AND item_id = ?`,
		userID, itemID,
	)
	rec, err := scanInventoryRecord(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotOwned
	}
	if err != nil {
		return nil, fmt.Errorf("get inventory record: %w", err)
	}

	var itemType string
	err = tx.QueryRow(`SELECT item_type FROM items WHERE id = ?`, itemID).Scan(&itemType)
	if err == sql.ErrNoRows {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get item type: %w", err)
	}

	col, err := equippedColumn(itemType)
	if err != nil {
		return nil, err
	}

	if equipped {
		// Unequip siblings of the same slot before equipping this one.
		_, err = tx.Exec(
			`UPDATE inventory SET is_equipped = 0
			 WHERE user_id = ? AND id != ? AND is_equipped = 1
			   AND item_id IN (SELECT id FROM items WHERE item_type = ?)`,
			userID, rec.ID, itemType,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: unequip siblings: %v", ErrTransactionFailed, err)
		}

		if _, err := tx.Exec(`UPDATE inventory SET is_equipped = 1 WHERE id = ?`, rec.ID); err != nil {
			return nil, fmt.Errorf("%w: equip record: %v", ErrTransactionFailed, err)
		}

		if _, err := tx.Exec(`UPDATE users SET `+col+` = ? WHERE id = ?`, itemID, userID); err != nil {
			return nil, fmt.Errorf("%w: update equip pointer: %v", ErrTransactionFailed, err)
		}
	} else {
		if _, err := tx.Exec(`UPDATE inventory SET is_equipped = 0 WHERE id = ?`, rec.ID); err != nil {
			return nil, fmt.Errorf("%w: unequip record: %v", ErrTransactionFailed, err)
		}

		if _, err := tx.Exec(`UPDATE users SET `+col+` = NULL WHERE id = ? AND `+col+` = ?`, userID, itemID); err != nil {
			return nil, fmt.Errorf("%w: clear equip pointer: %v", ErrTransactionFailed, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit equip: %v", ErrTransactionFailed, err)
	}

	rec.IsEquipped = equipped
	return rec, nil
}

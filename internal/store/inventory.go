package store

import (
	"database/sql"
	"fmt"
	"strings"

	"carrotlist/internal/model"
)

// InventoryStore owns the (user, item) ownership records and their equip state.
type InventoryStore struct {
	db *sql.DB
}

func NewInventoryStore(db *sql.DB) *InventoryStore {
	return &InventoryStore{db: db}
}

func scanInventoryRecord(scanner interface{ Scan(...any) error }) (*model.InventoryRecord, error) {
	var r model.InventoryRecord
	var equipped int

	err := scanner.Scan(&r.ID, &r.UserID, &r.ItemID, &equipped, &r.CreatedAt)
	if err != nil {
		return nil, err
	}

	r.IsEquipped = equipped != 0
	return &r, nil
}

const inventoryCols = `id, user_id, item_id, is_equipped, created_at`

// ListOwned returns the user's owned items with their equip state, in
// acquisition order.
func (s *InventoryStore) ListOwned(userID int64) ([]model.InventoryEntry, error) {
	rows, err := s.db.Query(
		`SELECT i.id, i.name, i.price, i.item_type, i.image_url, inv.is_equipped
		 FROM inventory inv
		 JOIN items i ON i.id = inv.item_id
		 WHERE inv.user_id = ?
		 ORDER BY inv.id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	var entries []model.InventoryEntry
	for rows.Next() {
		var e model.InventoryEntry
		var equipped int
		if err := rows.Scan(&e.Item.ID, &e.Item.Name, &e.Item.Price, &e.Item.ItemType, &e.Item.ImageURL, &equipped); err != nil {
			return nil, fmt.Errorf("scan inventory entry: %w", err)
		}
		e.IsEquipped = equipped != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Owns reports whether the user already has an inventory record for the item.
func (s *InventoryStore) Owns(userID, itemID int64) (bool, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM inventory WHERE user_id = ? AND item_id = ?`,
		userID, itemID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check ownership: %w", err)
	}
	return n > 0, nil
}

// Grant creates the ownership record for (user, item), unequipped. The schema's
// UNIQUE(user_id, item_id) backs the AlreadyOwned check, so a racing duplicate
// grant loses cleanly instead of producing two records.
func (s *InventoryStore) Grant(userID, itemID int64) (*model.InventoryRecord, error) {
	rec, err := grantIn(s.db, userID, itemID)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func grantIn(q execQuerier, userID, itemID int64) (*model.InventoryRecord, error) {
	result, err := q.Exec(
		`INSERT INTO inventory (user_id, item_id, is_equipped) VALUES (?, ?, 0)`,
		userID, itemID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyOwned
		}
		return nil, fmt.Errorf("insert inventory record: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	row := q.QueryRow(`SELECT `+inventoryCols+` FROM inventory WHERE id = ?`, id)
	rec, err := scanInventoryRecord(row)
	if err != nil {
		return nil, fmt.Errorf("get inventory record: %w", err)
	}
	return rec, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

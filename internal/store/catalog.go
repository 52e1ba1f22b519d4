package store

import (
	"database/sql"
	"fmt"

	"carrotlist/internal/model"
)

// CatalogStore is a read-only view of the purchasable items. Items are seeded
// by migration and never mutated at runtime.
type CatalogStore struct {
	db *sql.DB
}

func NewCatalogStore(db *sql.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

func scanItem(scanner interface{ Scan(...any) error }) (*model.Item, error) {
	var i model.Item
	err := scanner.Scan(&i.ID, &i.Name, &i.Price, &i.ItemType, &i.ImageURL)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

const itemCols = `id, name, price, item_type, image_url`

func (s *CatalogStore) List() ([]model.Item, error) {
	rows, err := s.db.Query(`SELECT ` + itemCols + ` FROM items ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *i)
	}
	return items, rows.Err()
}

func (s *CatalogStore) GetByID(id int64) (*model.Item, error) {
	row := s.db.QueryRow(`SELECT `+itemCols+` FROM items WHERE id = ?`, id)
	i, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return i, nil
}

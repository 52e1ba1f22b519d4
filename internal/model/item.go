package model

import "time"

// Slot types. A user can have at most one equipped item per slot.
const (
	ItemTypeHat        = "hat"
	ItemTypeAccessory  = "accessory"
	ItemTypeBackground = "background"
)

// Item is an immutable catalog entry. The JSON keys match the client's shop
// contract (item_id / type rather than id / item_type).
type Item struct {
	ID       int64  `json:"item_id"`
	Name     string `json:"name"`
	Price    int    `json:"price"`
	ItemType string `json:"type"`
	ImageURL string `json:"image_url"`
}

// InventoryRecord is the ownership edge between a user and an item.
type InventoryRecord struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	ItemID     int64     `json:"item_id"`
	IsEquipped bool      `json:"is_equipped"`
	CreatedAt  time.Time `json:"created_at"`
}

// InventoryEntry is an owned item with its equip state, as listed to the client.
type InventoryEntry struct {
	Item       Item `json:"item"`
	IsEquipped bool `json:"is_equipped"`
}

package model

import "time"

type User struct {
	ID            int64  `json:"id"`
	Email         string `json:"email"`
	PasswordHash  string `json:"-"`
	CarrotBalance int    `json:"carrot_balance"`

	// Denormalized equip pointers. Each, if set, references the item of the
	// matching slot type whose inventory record is currently equipped. Written
	// only by InventoryStore.SetEquipped, in the same transaction as the flag.
	EquippedHatID        *int64 `json:"equipped_hat_id"`
	EquippedAccessoryID  *int64 `json:"equipped_accessory_id"`
	EquippedBackgroundID *int64 `json:"equipped_background_id"`

	CreatedAt time.Time `json:"created_at"`
}

package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"carrotlist/internal/auth"
	"carrotlist/internal/model"
	"carrotlist/internal/store"
	"carrotlist/internal/websocket"
)

type InventoryHandler struct {
	inventoryStore *store.InventoryStore
	hub            *websocket.Hub
	logger         *slog.Logger
}

func NewInventoryHandler(is *store.InventoryStore, hub *websocket.Hub, logger *slog.Logger) *InventoryHandler {
	return &InventoryHandler{inventoryStore: is, hub: hub, logger: logger}
}

func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	entries, err := h.inventoryStore.ListOwned(userID)
	if err != nil {
		h.logger.Error("list inventory", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list inventory")
		return
	}
	if entries == nil {
		entries = []model.InventoryEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

type equipRequest struct {
	ItemID     int64 `json:"item_id"`
	IsEquipped bool  `json:"is_equipped"`
}

func (h *InventoryHandler) Equip(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	itemID, err := parseIDParam(r, "item_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req equipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.ItemID != itemID {
		writeError(w, http.StatusBadRequest, "item id mismatch")
		return
	}

	rec, err := h.inventoryStore.SetEquipped(userID, itemID, req.IsEquipped)
	switch {
	case errors.Is(err, store.ErrNotOwned):
		writeError(w, http.StatusNotFound, "item not in inventory")
		return
	case errors.Is(err, store.ErrItemNotFound):
		writeError(w, http.StatusNotFound, "item not found")
		return
	case err != nil:
		h.logger.Error("set equipped", "error", err, "item_id", itemID)
		writeError(w, http.StatusInternalServerError, "failed to update equipment")
		return
	}

	action := "equipped"
	if !req.IsEquipped {
		action = "unequipped"
	}
	if h.hub != nil {
		h.hub.Broadcast(userID, websocket.NewMessage("item", action, itemID, nil))
	}

	writeJSON(w, http.StatusOK, rec)
}

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

type ShopHandler struct {
	catalogStore *store.CatalogStore
	ledgerStore  *store.LedgerStore
	shopStore    *store.ShopStore
	hub          *websocket.Hub
	logger       *slog.Logger
}

func NewShopHandler(cs *store.CatalogStore, ls *store.LedgerStore, ss *store.ShopStore, hub *websocket.Hub, logger *slog.Logger) *ShopHandler {
	return &ShopHandler{
		catalogStore: cs,
		ledgerStore:  ls,
		shopStore:    ss,
		hub:          hub,
		logger:       logger,
	}
}

func (h *ShopHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalogStore.List()
	if err != nil {
		h.logger.Error("list items", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ShopHandler) Balance(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	balance, err := h.ledgerStore.Balance(userID)
	if errors.Is(err, store.ErrUserNotFound) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		h.logger.Error("get balance", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get balance")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"carrot_balance": balance})
}

type purchaseRequest struct {
	ItemID int64 `json:"item_id"`
}

func (h *ShopHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	user, err := h.shopStore.Purchase(userID, req.ItemID)
	switch {
	case errors.Is(err, store.ErrItemNotFound):
		writeError(w, http.StatusNotFound, "item not found")
		return
	case errors.Is(err, store.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user not found")
		return
	case errors.Is(err, store.ErrAlreadyOwned):
		writeError(w, http.StatusConflict, "item already owned")
		return
	case errors.Is(err, store.ErrInsufficientBalance):
		writeError(w, http.StatusBadRequest, "insufficient carrot balance")
		return
	case err != nil:
		h.logger.Error("purchase", "error", err, "item_id", req.ItemID)
		writeError(w, http.StatusInternalServerError, "purchase failed")
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(userID, websocket.NewMessage("item", "purchased", req.ItemID, map[string]any{
			"carrot_balance": user.CarrotBalance,
		}))
	}

	writeJSON(w, http.StatusOK, user)
}

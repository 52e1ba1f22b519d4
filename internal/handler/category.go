package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"carrotlist/internal/auth"
	"carrotlist/internal/model"
	"carrotlist/internal/store"
)

type CategoryHandler struct {
	categoryStore *store.CategoryStore
	logger        *slog.Logger
}

func NewCategoryHandler(cs *store.CategoryStore, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{categoryStore: cs, logger: logger}
}

type categoryRequest struct {
	Text string `json:"text"`
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	cat, err := h.categoryStore.Create(userID, req.Text)
	if err != nil {
		h.logger.Error("create category", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create category")
		return
	}

	writeJSON(w, http.StatusCreated, cat)
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	cats, err := h.categoryStore.ListByUser(userID)
	if err != nil {
		h.logger.Error("list categories", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}
	if cats == nil {
		cats = []model.Category{}
	}
	writeJSON(w, http.StatusOK, cats)
}

// getOwned fetches a category by the id path param and enforces ownership.
// On failure it writes the response and returns nil.
func (h *CategoryHandler) getOwned(w http.ResponseWriter, r *http.Request) *model.Category {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil
	}

	cat, err := h.categoryStore.GetByID(id)
	if err != nil {
		h.logger.Error("get category", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get category")
		return nil
	}
	if cat == nil {
		writeError(w, http.StatusNotFound, "category not found")
		return nil
	}
	if cat.UserID != auth.UserID(r.Context()) {
		writeError(w, http.StatusForbidden, "not your category")
		return nil
	}
	return cat
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	existing := h.getOwned(w, r)
	if existing == nil {
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	cat, err := h.categoryStore.Update(existing.ID, req.Text)
	if err != nil {
		h.logger.Error("update category", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update category")
		return
	}

	writeJSON(w, http.StatusOK, cat)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	cat := h.getOwned(w, r)
	if cat == nil {
		return
	}

	if err := h.categoryStore.Delete(cat.ID); err != nil {
		h.logger.Error("delete category", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete category")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

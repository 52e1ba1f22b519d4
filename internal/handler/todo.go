package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"carrotlist/internal/auth"
	"carrotlist/internal/model"
	"carrotlist/internal/store"
	"carrotlist/internal/websocket"
)

type TodoHandler struct {
	todoStore     *store.TodoStore
	categoryStore *store.CategoryStore
	hub           *websocket.Hub
	logger        *slog.Logger
}

func NewTodoHandler(ts *store.TodoStore, cs *store.CategoryStore, hub *websocket.Hub, logger *slog.Logger) *TodoHandler {
	return &TodoHandler{todoStore: ts, categoryStore: cs, hub: hub, logger: logger}
}

func (h *TodoHandler) broadcast(userID int64, msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(userID, msg)
	}
}

type todoRequest struct {
	Title       string  `json:"title"`
	Date        string  `json:"date"`
	AlarmTime   *string `json:"alarm_time"`
	CategoryIDs []int64 `json:"category_ids"`
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func validAlarmTime(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}

// checkCategories verifies every category id exists and belongs to userID.
func (h *TodoHandler) checkCategories(userID int64, ids []int64) (int, string) {
	for _, id := range ids {
		cat, err := h.categoryStore.GetByID(id)
		if err != nil {
			return http.StatusInternalServerError, "failed to check category"
		}
		if cat == nil || cat.UserID != userID {
			return http.StatusBadRequest, "category not found"
		}
	}
	return 0, ""
}

func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req todoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if !validDate(req.Date) {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	if req.AlarmTime != nil && !validAlarmTime(*req.AlarmTime) {
		writeError(w, http.StatusBadRequest, "alarm_time must be HH:MM")
		return
	}
	if status, msg := h.checkCategories(userID, req.CategoryIDs); status != 0 {
		writeError(w, status, msg)
		return
	}

	todo, err := h.todoStore.Create(userID, req.Title, req.Date, req.AlarmTime, req.CategoryIDs)
	if err != nil {
		h.logger.Error("create todo", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create todo")
		return
	}

	h.broadcast(userID, websocket.NewMessage("todo", "created", todo.ID, nil))

	writeJSON(w, http.StatusCreated, todo)
}

// List returns the day view: all of the caller's todos for the given date.
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if !validDate(date) {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	todos, err := h.todoStore.ListByDate(userID, date)
	if err != nil {
		h.logger.Error("list todos", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list todos")
		return
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	writeJSON(w, http.StatusOK, todos)
}

// getOwned fetches a todo by the id path param and enforces ownership.
// On failure it writes the response and returns nil.
func (h *TodoHandler) getOwned(w http.ResponseWriter, r *http.Request) *model.Todo {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil
	}

	todo, err := h.todoStore.GetByID(id)
	if err != nil {
		h.logger.Error("get todo", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get todo")
		return nil
	}
	if todo == nil {
		writeError(w, http.StatusNotFound, "todo not found")
		return nil
	}
	if todo.UserID != auth.UserID(r.Context()) {
		writeError(w, http.StatusForbidden, "not your todo")
		return nil
	}
	return todo
}

func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	todo := h.getOwned(w, r)
	if todo == nil {
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	existing := h.getOwned(w, r)
	if existing == nil {
		return
	}

	var req todoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		req.Title = existing.Title
	}
	if req.Date == "" {
		req.Date = existing.Date
	}
	if !validDate(req.Date) {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	if req.AlarmTime != nil && *req.AlarmTime != "" && !validAlarmTime(*req.AlarmTime) {
		writeError(w, http.StatusBadRequest, "alarm_time must be HH:MM")
		return
	}
	if req.CategoryIDs != nil {
		if status, msg := h.checkCategories(userID, req.CategoryIDs); status != 0 {
			writeError(w, status, msg)
			return
		}
	}

	todo, err := h.todoStore.Update(existing.ID, req.Title, req.Date, req.AlarmTime, req.CategoryIDs)
	if err != nil {
		h.logger.Error("update todo", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update todo")
		return
	}

	h.broadcast(userID, websocket.NewMessage("todo", "updated", todo.ID, nil))

	writeJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	todo := h.getOwned(w, r)
	if todo == nil {
		return
	}

	if err := h.todoStore.Delete(todo.ID); err != nil {
		h.logger.Error("delete todo", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete todo")
		return
	}

	h.broadcast(userID, websocket.NewMessage("todo", "deleted", todo.ID, nil))

	w.WriteHeader(http.StatusNoContent)
}

func (h *TodoHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.setCompleted(w, r, true)
}

func (h *TodoHandler) Uncomplete(w http.ResponseWriter, r *http.Request) {
	h.setCompleted(w, r, false)
}

func (h *TodoHandler) setCompleted(w http.ResponseWriter, r *http.Request, completed bool) {
	userID := auth.UserID(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var user *model.User
	if completed {
		user, err = h.todoStore.Complete(id, userID)
	} else {
		user, err = h.todoStore.Uncomplete(id, userID)
	}

	switch {
	case errors.Is(err, store.ErrTodoNotFound):
		writeError(w, http.StatusNotFound, "todo not found")
		return
	case errors.Is(err, store.ErrForbidden):
		writeError(w, http.StatusForbidden, "not your todo")
		return
	case errors.Is(err, store.ErrAlreadyCompleted):
		writeError(w, http.StatusConflict, "todo already completed")
		return
	case errors.Is(err, store.ErrNotCompleted):
		writeError(w, http.StatusConflict, "todo not completed")
		return
	case err != nil:
		h.logger.Error("set todo completed", "error", err, "completed", completed)
		writeError(w, http.StatusInternalServerError, "failed to update todo")
		return
	}

	action := "completed"
	if !completed {
		action = "uncompleted"
	}
	h.broadcast(userID, websocket.NewMessage("todo", action, id, map[string]any{
		"carrot_balance": user.CarrotBalance,
	}))

	writeJSON(w, http.StatusOK, user)
}

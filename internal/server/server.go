package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"carrotlist/internal/handler"
	"carrotlist/internal/middleware"
	"carrotlist/internal/store"
	ws "carrotlist/internal/websocket"
)

type Server struct {
	db           *sql.DB
	hub          *ws.Hub
	authH        *handler.AuthHandler
	todoH        *handler.TodoHandler
	categoryH    *handler.CategoryHandler
	shopH        *handler.ShopHandler
	inventoryH   *handler.InventoryHandler
	sessionStore *store.SessionStore
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

func New(db *sql.DB, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	todoStore := store.NewTodoStore(db)
	categoryStore := store.NewCategoryStore(db)
	catalogStore := store.NewCatalogStore(db)
	ledgerStore := store.NewLedgerStore(db)
	inventoryStore := store.NewInventoryStore(db)
	shopStore := store.NewShopStore(db)

	return &Server{
		db:           db,
		hub:          hub,
		authH:        handler.NewAuthHandler(userStore, sessionStore, inventoryStore, logger.With("component", "auth")),
		todoH:        handler.NewTodoHandler(todoStore, categoryStore, hub, logger.With("component", "todo")),
		categoryH:    handler.NewCategoryHandler(categoryStore, logger.With("component", "category")),
		shopH:        handler.NewShopHandler(catalogStore, ledgerStore, shopStore, hub, logger.With("component", "shop")),
		inventoryH:   handler.NewInventoryHandler(inventoryStore, hub, logger.With("component", "inventory")),
		sessionStore: sessionStore,
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /signup", s.rateLimitedHandler(s.authH.Signup))
	outerMux.HandleFunc("POST /login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes, wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /logout", s.authH.Logout)
	mux.HandleFunc("GET /users/me", s.authH.Me)

	// Todo API routes
	mux.HandleFunc("POST /api/todos", s.todoH.Create)
	mux.HandleFunc("GET /api/todos", s.todoH.List)
	mux.HandleFunc("GET /api/todos/{id}", s.todoH.Get)
	mux.HandleFunc("PUT /api/todos/{id}", s.todoH.Update)
	mux.HandleFunc("DELETE /api/todos/{id}", s.todoH.Delete)
	mux.HandleFunc("POST /api/todos/{id}/complete", s.todoH.Complete)
	mux.HandleFunc("POST /api/todos/{id}/uncomplete", s.todoH.Uncomplete)

	// Category API routes
	mux.HandleFunc("POST /api/categories", s.categoryH.Create)
	mux.HandleFunc("GET /api/categories", s.categoryH.List)
	mux.HandleFunc("PUT /api/categories/{id}", s.categoryH.Update)
	mux.HandleFunc("DELETE /api/categories/{id}", s.categoryH.Delete)

	// Shop API routes
	mux.HandleFunc("GET /api/shop/items", s.shopH.ListItems)
	mux.HandleFunc("GET /api/shop/balance", s.shopH.Balance)
	mux.HandleFunc("POST /api/shop/purchase", s.shopH.Purchase)

	// Inventory API routes
	mux.HandleFunc("GET /api/inventory", s.inventoryH.List)
	mux.HandleFunc("PUT /api/inventory/{item_id}/equip", s.inventoryH.Equip)

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))
}

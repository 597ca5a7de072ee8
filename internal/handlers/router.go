package handlers

import (
	"net/http"

	"ledger/internal/config"
	"ledger/internal/db"
	"ledger/internal/middleware"
	"ledger/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	gorillaws "github.com/gorilla/websocket"
)

type Handler struct {
	txRunner db.TxRunner
	cfg      config.Config
	users    UserStore
	accounts AccountService
	entries  EntryService
	hub      *websocket.Hub
	upgrader gorillaws.Upgrader
}

func New(txRunner db.TxRunner, cfg config.Config, users UserStore, accounts AccountService, entries EntryService, hub *websocket.Hub) *Handler {
	return &Handler{
		txRunner: txRunner,
		cfg:      cfg,
		users:    users,
		accounts: accounts,
		entries:  entries,
		hub:      hub,
		upgrader: websocket.NewUpgrader(cfg.AllowedOrigins),
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.RequestSize(h.cfg.BodyLimitBytes))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/", h.Health)
	router.Get("/health", h.Health)

	router.Route("/api", func(r chi.Router) {
		r.Post("/user-register", h.Register)
		r.Post("/user-login", h.Login)
		r.Get("/ws/balances", h.WSBalances)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(h.cfg.JWTSecret))
			r.Use(middleware.RequireUser(h.users))

			r.Post("/user-logout", h.Logout)
			r.Get("/get-profile", h.Profile)

			r.Post("/create-account", h.CreateAccount)
			r.Get("/get-all-accounts", h.ListAccounts)
			r.Get("/get-single-account/{accountId}", h.GetAccount)
			r.Post("/update-account/{accountId}", h.UpdateAccount)
			r.Delete("/delete-account/{accountId}", h.DeleteAccount)
			r.Get("/get-account-balance/{accountId}", h.GetAccountBalance)
			r.Get("/reconcile-accounts", h.ReconcileAccounts)

			r.Post("/create-entry", h.CreateEntry)
			r.Get("/get-all-entries", h.GetAllEntries)
			r.Get("/get-entry-by-accounts/{accountId}", h.GetEntriesByAccount)
			r.Get("/get-entry-by-date/{accountId}", h.GetEntriesByDate)
			r.Get("/get-single-entry/{entryId}", h.GetEntry)
			r.Post("/update-entry/{entryId}", h.UpdateEntry)
			r.Delete("/delete-entry/{entryId}", h.DeleteEntry)
		})
	})
	return router
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, "Server is running", map[string]string{"status": "ok"})
}

// ownerID returns the authenticated user id or writes a 401.
func ownerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Access denied. No token provided.")
		return "", false
	}
	return userID, true
}

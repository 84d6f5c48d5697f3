package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/heybori/cashflow/internal/auth"
	"github.com/heybori/cashflow/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// NewRouter constructs and returns an HTTP handler that serves the cash flow
// API. It applies CORS headers and request logging to everything and token
// authentication to the ledger endpoints.
//
// Routes:
//
//	GET  /health                  → liveness probe
//	GET  /api/session             → authHandler.Session (public)
//	POST /api/login               → authHandler.Login (public)
//	GET  /api/ledger/list         → ledgerHandler.List (protected)
//	GET  /api/ledger/summary      → ledgerHandler.Summary (protected)
//	GET  /api/ledger/export.csv   → ledgerHandler.Export (protected)
//	POST /api/ledger/add          → ledgerHandler.Add (protected)
//	POST /api/ledger/delete       → ledgerHandler.Delete (protected)
func NewRouter(
	authHandler *AuthHandler,
	ledgerHandler *LedgerHandler,
	creds *auth.Credentials,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Allow simple cross-origin embedding.
	r.Use(allowCORS)

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Get("/session", authHandler.Session)
		r.Post("/login", authHandler.Login)

		// Protected group: requires a valid X-Auth token unless the
		// server runs in open mode.
		r.Route("/ledger", func(r chi.Router) {
			r.Use(middleware.TokenAuth(creds))
			r.Get("/list", ledgerHandler.List)
			r.Get("/summary", ledgerHandler.Summary)
			r.Get("/export.csv", ledgerHandler.Export)
			r.Post("/add", ledgerHandler.Add)
			r.Post("/delete", ledgerHandler.Delete)
		})
	})

	return r
}

// allowCORS sets permissive headers so the front end can be hosted
// elsewhere.
func allowCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Auth")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

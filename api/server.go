/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, the middleware stack, and the route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. requestLogger: zerolog structured request logging
  4. CORS:       Cross-origin requests for the frontend
  5. requireSession: Bearer-token auth on everything except /api/auth

AUTH MODEL:
  Login/register issue an opaque bearer token bound to a live account
  session. requireSession resolves the token and stashes the session in
  the request context; handlers read it back with sessionFrom.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/stokmaster/stokmaster/core"
	"github.com/stokmaster/stokmaster/logger"
)

type sessionKey struct{}

// NewRouter creates a router with all routes configured.
func NewRouter(h *Handler, log zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.Post("/logout", h.Logout)
		})

		// Everything else is scoped to a logged-in account
		r.Group(func(r chi.Router) {
			r.Use(h.requireSession)

			r.Route("/products", func(r chi.Router) {
				r.Get("/", h.ListProducts)
				r.Post("/", h.CreateProduct)
				r.Get("/categories", h.ListCategories)
			})

			r.Post("/sales", h.ProcessSale)
			r.Post("/stock-entries", h.ProcessStockEntry)
			r.Post("/expenses", h.RecordExpense)
			r.Get("/transactions", h.ListTransactions)

			r.Get("/stats", h.GetStats)
			r.Put("/investment", h.SetInvestment)

			r.Route("/export", func(r chi.Router) {
				r.Get("/stock.csv", h.ExportStockCSV)
				r.Get("/cashflow.csv", h.ExportCashflowCSV)
			})

			r.Route("/scenarios", func(r chi.Router) {
				r.Get("/", h.ListScenarios)
				r.Post("/load", h.LoadScenario)
			})
		})
	})

	return r
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

// requireSession resolves the bearer token to a live session and stashes
// it in the request context.
func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Missing bearer token", nil)
			return
		}
		sess, ok := h.Accounts.Session(token)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Invalid or expired session", nil)
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestLogger emits one structured log line per request and threads the
// logger through the context for handlers.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			reqLog := log.With().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Logger()
			ctx := logger.WithContext(r.Context(), reqLog)

			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLog.Info().
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}

// sessionFrom returns the session placed in the context by
// requireSession. Only reachable on authenticated routes.
func sessionFrom(r *http.Request) *core.Session {
	return r.Context().Value(sessionKey{}).(*core.Session)
}

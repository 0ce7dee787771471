// Package server wires the service layer onto an HTTP mux. Handlers stay
// thin: decode JSON, call the service with the authenticated user, translate
// the error kind into a status code.
package server

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tripsplit/internal/auth"
	"tripsplit/internal/middleware"
	"tripsplit/internal/service"
	"tripsplit/internal/watch"
)

// Server holds the handler dependencies.
type Server struct {
	auth        *service.AuthService
	trips       *service.TripService
	expenses    *service.ExpenseService
	settlements *service.SettlementService
	watcher     *watch.Watcher
	jwtManager  *auth.JWTManager
	logger      *slog.Logger
}

// New creates a Server over the given services.
func New(
	authService *service.AuthService,
	trips *service.TripService,
	expenses *service.ExpenseService,
	settlements *service.SettlementService,
	watcher *watch.Watcher,
	jwtManager *auth.JWTManager,
	logger *slog.Logger,
) *Server {
	return &Server{
		auth:        authService,
		trips:       trips,
		expenses:    expenses,
		settlements: settlements,
		watcher:     watcher,
		jwtManager:  jwtManager,
		logger:      logger,
	}
}

// Handler builds the full route table with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.Handle("GET /api/auth/me", s.protected(s.handleCurrentUser))

	mux.Handle("POST /api/trips", s.protected(s.handleCreateTrip))
	mux.Handle("GET /api/trips/{id}", s.protected(s.handleGetTrip))
	mux.Handle("POST /api/trips/{id}/members", s.protected(s.handleAddMember))
	mux.Handle("GET /api/trips/{id}/members", s.protected(s.handleListMembers))
	mux.Handle("POST /api/trips/{id}/expenses", s.protected(s.handleAddExpense))
	mux.Handle("GET /api/trips/{id}/expenses", s.protected(s.handleListExpenses))
	mux.Handle("GET /api/trips/{id}/balances", s.protected(s.handleBalances))
	mux.Handle("GET /api/trips/{id}/watch", s.protected(s.handleWatchTrip))
	mux.Handle("POST /api/trips/{id}/settlements", s.protected(s.handleCreateSettlement))
	mux.Handle("GET /api/trips/{id}/settlements", s.protected(s.handleListSettlements))

	mux.Handle("DELETE /api/expenses/{id}", s.protected(s.handleDeleteExpense))
	mux.Handle("POST /api/settlements/{id}/confirm", s.protected(s.handleConfirmSettlement))
	mux.Handle("DELETE /api/settlements/{id}", s.protected(s.handleCancelSettlement))

	var handler http.Handler = mux
	handler = middleware.Logging(handler)
	handler = middleware.Metrics(handler)
	handler = middleware.CORS(handler)
	return handler
}

func (s *Server) protected(h http.HandlerFunc) http.Handler {
	return middleware.RequireAuth(s.jwtManager, h)
}

package main

import (
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"tripsplit/internal/auth"
	"tripsplit/internal/config"
	"tripsplit/internal/notify"
	"tripsplit/internal/server"
	"tripsplit/internal/service"
	"tripsplit/internal/storage/sqlite"
	"tripsplit/internal/watch"
	"tripsplit/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup("info").Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.LogLevel)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.DBPath)

	prometheus.MustRegister(collectors.NewDBStatsCollector(store.DB(), "tripsplit"))

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)
	dispatcher := notify.NewLogDispatcher(logger)

	hub := watch.NewHub()
	watcher := watch.NewWatcher(store, hub, logger)

	srv := server.New(
		service.NewAuthService(authenticator, jwtManager, store, logger),
		service.NewTripService(store, logger),
		service.NewExpenseService(store, hub, dispatcher, logger),
		service.NewSettlementService(store, hub, dispatcher, logger),
		watcher,
		jwtManager,
		logger,
	)

	// h2c lets the watch stream multiplex over HTTP/2 without TLS; TLS
	// termination belongs to the proxy in front.
	handler := h2c.NewHandler(srv.Handler(), &http2.Server{})

	logger.Info("Server starting", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

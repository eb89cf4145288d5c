package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/playtoearn/coinserver/internal/api/handler"
	"github.com/playtoearn/coinserver/internal/api/middleware"
	"github.com/playtoearn/coinserver/internal/commands"
	"github.com/playtoearn/coinserver/internal/idle"
	"github.com/playtoearn/coinserver/internal/roster"
)

// RouterConfig holds configuration for the ingest API router
type RouterConfig struct {
	Logger *slog.Logger

	// BaseContext scopes background work started by event handlers;
	// defaults to context.Background()
	BaseContext context.Context

	Roster   *roster.Tracker
	Idles    *idle.Tracker
	Commands *commands.Handler
	Mailbox  *commands.Mailbox
}

// NewRouter creates the ingest API router the hosting game server
// calls into
func NewRouter(cfg RouterConfig) http.Handler {
	baseCtx := cfg.BaseContext
	if baseCtx == nil {
		baseCtx = context.Background()
	}

	r := mux.NewRouter()

	eventHandler := handler.NewEventHandler(baseCtx, cfg.Roster, cfg.Idles, cfg.Mailbox)
	commandHandler := handler.NewCommandHandler(cfg.Commands, cfg.Roster, cfg.Mailbox)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	// Connection and activity events
	api.HandleFunc("/events/join", eventHandler.Join).Methods(http.MethodPost)
	api.HandleFunc("/events/leave", eventHandler.Leave).Methods(http.MethodPost)
	api.HandleFunc("/events/idle", eventHandler.Idle).Methods(http.MethodPost)

	// Player commands
	api.HandleFunc("/commands/wallet", commandHandler.Wallet).Methods(http.MethodPost)
	api.HandleFunc("/commands/balance", commandHandler.Balance).Methods(http.MethodPost)

	// Inspection
	api.HandleFunc("/players", eventHandler.Roster).Methods(http.MethodGet)
	api.HandleFunc("/players/{player_id}/messages", commandHandler.Messages).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

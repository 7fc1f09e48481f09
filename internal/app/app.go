package app

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomchat-server/internal/config"
	"github.com/vovakirdan/roomchat-server/internal/core"
	"github.com/vovakirdan/roomchat-server/internal/session"
	transporthttp "github.com/vovakirdan/roomchat-server/internal/transport/http"
)

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	router          *session.Router
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	registry := core.NewRegistry()
	store := core.NewStore(cfg.HistoryLimit)
	store.GetOrCreateRoom(cfg.DefaultRoom)
	hub := core.NewHub()

	router := session.NewRouter(session.Config{
		DefaultRoom:     cfg.DefaultRoom,
		DefaultPageSize: cfg.DefaultPageSize,
		MaxPageSize:     cfg.MaxPageSize,
		MaxTextLength:   cfg.MaxTextLength,
		MaxAttachments:  cfg.MaxAttachments,
	}, registry, store, hub, logger)

	server := transporthttp.NewServer(router, cfg, logger)

	logger.Info().
		Str("default_room", cfg.DefaultRoom).
		Int("history_limit", store.HistoryLimit()).
		Msg("chat state initialized")

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		router:          router,
		log:             logger,
	}, nil
}

// Handler exposes the HTTP handler, mainly for tests.
func (a *App) Handler() stdhttp.Handler {
	return a.server.Handler
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		a.log.Info().Str("addr", a.server.Addr).Msg("http server listening")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		// Closing client queues ends every write loop, so hijacked websocket
		// connections wind down while Shutdown waits for plain requests.
		a.cleanup()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}

		return <-serverErr
	}
}

// cleanup releases connection state.
func (a *App) cleanup() {
	a.hub.Shutdown()
	a.log.Info().Msg("hub closed")
}

package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomchat-server/internal/config"
	"github.com/vovakirdan/roomchat-server/internal/session"
)

// NewServer builds an HTTP server with the JSON API and the /ws endpoint.
func NewServer(router *session.Router, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery(), LoggerMiddleware(logger))

	api := NewAPIHandlers(router, logger)
	engine.GET("/health", healthHandler)
	engine.GET("/api/health", api.Health)
	engine.GET("/api/users", api.ListUsers)
	engine.GET("/api/rooms", api.ListRooms)
	engine.GET("/api/rooms/:room/messages", api.RoomMessages)
	engine.GET("/ws", gin.WrapH(NewWSHandler(router, cfg, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           newCORS(cfg.AllowedOrigins).Handler(engine),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func newCORS(origins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{stdhttp.MethodGet, stdhttp.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}

package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kondate-app/menu-helper/internal/logger"
)

// Server is the HTTP front for the four owner-scoped operations.
type Server struct {
	engine *gin.Engine
	addr   string
}

func New(port string, jwtSecret []byte, handler *Handler) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery(), RequestID())

	api := engine.Group("/api/v1", JWTAuth(jwtSecret))
	{
		api.POST("/menu/suggest", handler.SuggestMenu)
		api.POST("/history", handler.SaveHistory)
		api.PUT("/profile", handler.UpdateProfile)
		api.GET("/profile", handler.GetProfile)
	}

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return &Server{engine: engine, addr: ":" + port}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	logger.Info("server listening", "addr", s.addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Package server exposes the converter as a local web API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"HeicConvert/internal/config"
	"HeicConvert/internal/logger"
)

const shutdownTimeout = 5 * time.Second

// Server serves the HTTP API on a localhost address.
type Server struct {
	engine *gin.Engine
	addr   string
}

// NewServer builds the gin engine for api. The listener binds to localhost only.
func NewServer(cfg config.ServerConfig, api *API) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestLogger())
	engine.Use(MaxBodySize(api.maxBodyBytes()))
	engine.Use(CORS())
	registerRoutes(engine, api)

	port := cfg.Port
	if port == 0 {
		port = 8765
	}
	return &Server{engine: engine, addr: fmt.Sprintf("localhost:%d", port)}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.engine}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("web server listening", "url", "http://"+s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("web server stopped")
	return nil
}

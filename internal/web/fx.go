package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/orgball2608/tiktok-downloader/internal/migrations"
	"github.com/orgball2608/tiktok-downloader/pkg/config"
	"github.com/orgball2608/tiktok-downloader/pkg/logger"
	"go.uber.org/fx"
)

var Module = fx.Module("web",
	fx.Provide(New),
	fx.Invoke(Register),
)

// Register binds the HTTP listener to the fx lifecycle. It listens only once
// the database schema is up to date.
func Register(lc fx.Lifecycle, srv *Server, cfg *config.Config, log logger.Logger, _ migrations.Applied) {
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", httpServer.Addr)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", httpServer.Addr, err)
			}
			go func() {
				if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("HTTP server stopped unexpectedly", "error", err)
				}
			}()
			log.Info("HTTP server started", "addr", ln.Addr().String())
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down HTTP server")
			return httpServer.Shutdown(ctx)
		},
	})
}

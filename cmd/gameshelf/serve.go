package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meur/gameshelf/internal/api"
)

var addrFlag string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if addrFlag != "" {
			cfg.Server.Addr = addrFlag
		}

		sh, renderer, err := newShelf(cfg, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// The page is served while the catalog loads; a failed load is
		// reported on the page and never retried.
		go func() { _ = sh.Load(context.WithoutCancel(ctx)) }()

		srv := &http.Server{
			Addr: cfg.Server.Addr,
			Handler: api.New(sh, renderer, api.Options{
				AllowedOrigins: cfg.Server.AllowedOrigins,
				AssetsDir:      cfg.Server.AssetsDir,
				Logger:         logger,
			}),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("gameshelf listening",
				zap.String("addr", cfg.Server.Addr),
				zap.String("source", cfg.Catalog.Source))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server failed: %w", err)
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&addrFlag, "addr", "", "listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/user/seo-meta-service/internal/api"
	"github.com/user/seo-meta-service/internal/lifecycle"
	"github.com/user/seo-meta-service/internal/mcp"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (and MCP endpoint)",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().String("port", "", "listen port (overrides SERVER_PORT)")
	cmd.Flags().String("fetch", "", "page fetch mode: off, http, browser (overrides PAGE_FETCH_MODE)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cmd, prometheus.DefaultRegisterer, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	ctrl := lifecycle.NewController(a.pipeline, a.logger, lifecycle.WithMetrics(a.metrics))
	defer ctrl.Close()

	var opts []api.Option
	if a.cfg.MCPEnabled {
		opts = append(opts, api.WithMCP(mcp.NewMCPServer(a.pipeline, a.logger).HTTPHandler()))
	}
	server := api.NewServer(a.cfg, a.pipeline, ctrl, a.metrics, a.logger, opts...)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("server started",
			zap.String("port", a.cfg.ServerPort),
			zap.String("model", a.cfg.GeminiModel),
			zap.Bool("mcp", a.cfg.MCPEnabled),
		)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down server...")

		// Ends open event streams so Shutdown does not wait on them
		ctrl.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("server forced to shutdown", zap.Error(err))
			return err
		}
		a.logger.Info("server exiting")
		return nil
	})
	return g.Wait()
}

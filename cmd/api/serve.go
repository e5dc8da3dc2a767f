package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xiebiao/booknotes/pkg/metrics"
	"github.com/xiebiao/booknotes/pkg/tracing"
)

const (
	shutdownTimeout     = 10 * time.Second
	healthCheckInterval = 15 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (and the gRPC health server when configured)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		metrics.InitMetrics()

		shutdownTracer, err := tracing.InitTracer(tracing.Config{
			Enabled:     cfg.Tracing.Endpoint != "",
			ServiceName: cfg.Tracing.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			SampleRatio: cfg.Tracing.SampleRatio,
		})
		if err != nil {
			return fmt.Errorf("init tracing: %w", err)
		}
		defer func() {
			if err := shutdownTracer(context.Background()); err != nil {
				log.Warn("tracer shutdown", zap.Error(err))
			}
		}()

		app, cleanup, err := InitializeApp(cfg, log)
		if err != nil {
			return fmt.Errorf("initialize app: %w", err)
		}
		defer cleanup()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cfg.Editor.Username != "" && cfg.Editor.Password != "" {
			created, err := app.Sessions.SeedEditor(ctx, cfg.Editor.Username, cfg.Editor.Password)
			if err != nil {
				return fmt.Errorf("seed editor: %w", err)
			}
			if created {
				log.Info("editor credentials seeded from config", zap.String("username", cfg.Editor.Username))
			}
		}

		return run(ctx, app, log)
	},
}

// run serves until ctx is cancelled or a server fails
func run(ctx context.Context, app *App, log *zap.Logger) error {
	cfg := app.Config
	errCh := make(chan error, 2)

	// bind every listener before serving so a failed bind leaves nothing running
	httpLis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.Port))
	if err != nil {
		return fmt.Errorf("listen http: %w", err)
	}
	var grpcLis net.Listener
	if cfg.Server.GRPCPort > 0 {
		grpcLis, err = net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.GRPCPort))
		if err != nil {
			_ = httpLis.Close()
			return fmt.Errorf("listen grpc: %w", err)
		}
	}

	srv := newHTTPServer(httpLis.Addr().String(), app.Engine, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	if grpcLis != nil {
		go app.Health.Watch(ctx, healthCheckInterval)
		go func() {
			log.Info("grpc health server listening", zap.String("addr", grpcLis.Addr().String()))
			if err := app.Health.Server().Serve(grpcLis); err != nil {
				errCh <- fmt.Errorf("grpc server: %w", err)
			}
		}()
		defer app.Health.Shutdown()
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case runErr = <-errCh:
		log.Error("server failed", zap.Error(runErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
	log.Info("booknotes stopped", zap.Int("pid", os.Getpid()))
	return runErr
}

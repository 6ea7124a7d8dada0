package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-volunteerhub/internal/pkg/config"
	"github.com/FACorreiaa/go-volunteerhub/internal/pkg/logger"
	"github.com/FACorreiaa/go-volunteerhub/internal/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web client",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := logger.Init(logger.ParseLevel(cfg.LogLevel), zap.String("service", cfg.Observability.ServiceName)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.Log
	defer func() { _ = log.Sync() }()

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	otelShutdown, err := server.InitObservability(cfg.Observability, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			log.Error("Failed to shutdown OpenTelemetry", zap.Error(err))
		}
	}()

	srv, err := server.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer srv.Close()

	router, err := server.SetupRouter(cfg, srv.Manager(), srv.Client(), log)
	if err != nil {
		return err
	}
	srv.SetRouter(router)

	server.StartPprofServer(cfg.Observability.PprofAddr, log)

	httpServer := srv.HTTPServer()
	done := make(chan struct{})
	go server.GracefulShutdown(ctx, httpServer, log, done)

	log.Info("Server starting", zap.String("port", cfg.ServerPort))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	<-done
	log.Info("Graceful shutdown complete")
	return nil
}

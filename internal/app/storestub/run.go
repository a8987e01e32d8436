package storestub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	itemsmemory "github.com/Apurer/grocery-store-client/internal/domains/items/adapters/memory"
	platformobservability "github.com/Apurer/grocery-store-client/internal/platform/observability"
	stub "github.com/Apurer/grocery-store-client/internal/storestub"
)

const serviceName = "grocery-store-stub"

// Run serves the in-memory item store until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName, platformobservability.Options{
		Environment:  cfg.Environment,
		LogLevel:     cfg.LogLevel,
		OTLPEndpoint: cfg.OTLPEndpoint,
		OTLPInsecure: true,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	gin.SetMode(gin.ReleaseMode)
	opts := []stub.Option{
		stub.WithBasePath(cfg.BasePath),
		stub.WithLogger(logger),
		stub.WithTracerProvider(instruments.TracerProvider),
	}
	if cfg.NoSeed {
		opts = append(opts, stub.WithoutSeed())
	}
	router := stub.NewRouter(ctx, itemsmemory.NewRepository(), opts...)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("item store stub listening", slog.String("addr", srv.Addr), slog.String("base_path", cfg.BasePath))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("item store stub exited", slog.String("addr", srv.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

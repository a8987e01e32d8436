package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	grocery "github.com/Apurer/grocery-store-client/internal/clients/http/grocery"
	itemsobs "github.com/Apurer/grocery-store-client/internal/domains/items/adapters/observability"
	itemsapp "github.com/Apurer/grocery-store-client/internal/domains/items/application"
	itemports "github.com/Apurer/grocery-store-client/internal/domains/items/ports"
	platformobservability "github.com/Apurer/grocery-store-client/internal/platform/observability"
)

const serviceName = "grocery-client"

// App is a fully wired client: instrumented HTTP store client, decorator, and controller.
type App struct {
	Controller *itemsapp.Controller
	Logger     *slog.Logger
	shutdown   func(context.Context) error
}

// Build boots observability and wires the controller against cfg.APIURL.
// Logs and debug spans go to logWriter so stdout stays reserved for output.
func Build(ctx context.Context, cfg Config, logWriter io.Writer) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := platformobservability.Options{
		Environment:  cfg.Environment,
		LogLevel:     cfg.LogLevel,
		LogWriter:    logWriter,
		OTLPEndpoint: cfg.OTLPEndpoint,
		OTLPInsecure: cfg.OTLPInsecure,
	}
	if cfg.Trace {
		opts.TraceWriter = logWriter
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}
	repo, err := NewRepository(cfg, instruments)
	if err != nil {
		return nil, errors.Join(err, shutdown(ctx))
	}
	ctrl := itemsapp.NewController(repo, itemsapp.WithLogger(instruments.Logger))
	instruments.Logger.Debug("grocery client configured", slog.String("api_url", cfg.APIURL), slog.Duration("timeout", cfg.HTTPTimeout))
	return &App{Controller: ctrl, Logger: instruments.Logger, shutdown: shutdown}, nil
}

// Close stops the controller and flushes telemetry.
func (a *App) Close() {
	a.Controller.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.shutdown(shutdownCtx); err != nil {
		a.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
	}
}

// NewRepository returns the remote item store client wrapped with tracing,
// logging, and metrics.
func NewRepository(cfg Config, instruments *platformobservability.Instruments) (itemports.Repository, error) {
	httpClient := NewHTTPClient(cfg.HTTPTimeout, instruments)
	store, err := grocery.NewClient(cfg.APIURL, httpClient)
	if err != nil {
		return nil, err
	}
	var logger *slog.Logger
	if instruments != nil {
		logger = instruments.Logger
	}
	return itemsobs.New(
		store,
		itemsobs.WithLogger(logger),
		itemsobs.WithTracer(instruments.Tracer("internal.items.store")),
		itemsobs.WithMeter(instruments.Meter("internal.items.store")),
	), nil
}

// NewHTTPClient builds an http.Client whose transport emits client spans and
// propagates trace context.
func NewHTTPClient(timeout time.Duration, instruments *platformobservability.Instruments) *http.Client {
	if timeout <= 0 {
		timeout = grocery.DefaultTimeout
	}
	base := http.DefaultTransport.(*http.Transport).Clone()
	opts := []otelhttp.Option{}
	if instruments != nil {
		opts = append(opts,
			otelhttp.WithTracerProvider(instruments.TracerProvider),
			otelhttp.WithMeterProvider(instruments.MeterProvider),
		)
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(base, opts...),
	}
}

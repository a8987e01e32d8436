package observability

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	itemdomain "github.com/Apurer/grocery-store-client/internal/domains/items/domain"
	itemports "github.com/Apurer/grocery-store-client/internal/domains/items/ports"
)

const tracerName = "github.com/Apurer/grocery-store-client/internal/domains/items/adapters/observability"

// Repository decorates the item store port with tracing, logging, and metrics.
type Repository struct {
	inner   itemports.Repository
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics repositoryMetrics
}

type Option func(*Repository)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		r.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(r *Repository) {
		r.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(r *Repository) {
		r.metrics = newRepositoryMetrics(m)
	}
}

// New wraps an item store client.
func New(inner itemports.Repository, opts ...Option) itemports.Repository {
	r := &Repository{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newRepositoryMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.tracer == nil {
		r.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return r
}

func (r *Repository) List(ctx context.Context) ([]itemdomain.Item, error) {
	ctx, span := r.tracer.Start(ctx, "ItemStore.List")
	defer span.End()
	start := time.Now()

	r.logDebug(ctx, "listing items")
	items, err := r.inner.List(ctx)
	r.metrics.record(ctx, "list", err, time.Since(start))
	if err != nil {
		return nil, r.handleError(ctx, span, err, "failed to list items")
	}
	span.SetAttributes(attribute.Int("items.count", len(items)))
	r.logDebug(ctx, "items listed", slog.Int("items.count", len(items)))
	return items, nil
}

func (r *Repository) Create(ctx context.Context, fields itemdomain.Fields) (string, error) {
	ctx, span := r.tracer.Start(ctx, "ItemStore.Create", trace.WithAttributes(attribute.String("item.name", fields.Name)))
	defer span.End()
	start := time.Now()

	r.logDebug(ctx, "creating item", slog.String("item.name", fields.Name))
	id, err := r.inner.Create(ctx, fields)
	r.metrics.record(ctx, "create", err, time.Since(start))
	if err != nil {
		return "", r.handleError(ctx, span, err, "failed to create item", slog.String("item.name", fields.Name))
	}
	span.SetAttributes(attribute.String("item.id", id))
	return id, nil
}

func (r *Repository) Update(ctx context.Context, id string, fields itemdomain.Fields) error {
	ctx, span := r.tracer.Start(ctx, "ItemStore.Update", trace.WithAttributes(attribute.String("item.id", id)))
	defer span.End()
	start := time.Now()

	r.logDebug(ctx, "updating item", slog.String("item.id", id))
	err := r.inner.Update(ctx, id, fields)
	r.metrics.record(ctx, "update", err, time.Since(start))
	if err != nil {
		return r.handleError(ctx, span, err, "failed to update item", slog.String("item.id", id))
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	ctx, span := r.tracer.Start(ctx, "ItemStore.Delete", trace.WithAttributes(attribute.String("item.id", id)))
	defer span.End()
	start := time.Now()

	r.logDebug(ctx, "deleting item", slog.String("item.id", id))
	err := r.inner.Delete(ctx, id)
	r.metrics.record(ctx, "delete", err, time.Since(start))
	if err != nil {
		return r.handleError(ctx, span, err, "failed to delete item", slog.String("item.id", id))
	}
	return nil
}

func (r *Repository) AdjustQuantity(ctx context.Context, id string, direction itemdomain.Direction) error {
	ctx, span := r.tracer.Start(ctx, "ItemStore.AdjustQuantity", trace.WithAttributes(
		attribute.String("item.id", id),
		attribute.String("quantity.direction", direction.String()),
	))
	defer span.End()
	start := time.Now()

	r.logDebug(ctx, "adjusting quantity", slog.String("item.id", id), slog.String("direction", direction.String()))
	err := r.inner.AdjustQuantity(ctx, id, direction)
	r.metrics.record(ctx, "adjust_quantity", err, time.Since(start))
	if err != nil {
		return r.handleError(ctx, span, err, "failed to adjust quantity", slog.String("item.id", id))
	}
	return nil
}

func (r *Repository) logDebug(ctx context.Context, msg string, attrs ...slog.Attr) {
	if r.logger == nil {
		return
	}
	r.logger.LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
}

func (r *Repository) logWarn(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if r.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	r.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
}

// handleError marks the span and logs at warn level; the controller owns the error-level report.
func (r *Repository) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("error.kind", errorKind(err)))
	}
	r.logWarn(ctx, msg, err, append(attrs, slog.String("error.kind", errorKind(err)))...)
	return err
}

func errorKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, itemports.ErrNotFound):
		return "not_found"
	case errors.Is(err, itemports.ErrTransport):
		return "transport"
	case errors.Is(err, itemports.ErrServer):
		return "server"
	default:
		return "client"
	}
}

type repositoryMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

func newRepositoryMetrics(m metric.Meter) repositoryMetrics {
	if m == nil {
		return repositoryMetrics{}
	}
	requests, _ := m.Int64Counter("grocery.client.requests", metric.WithDescription("Number of item store requests by operation and outcome"))
	duration, _ := m.Float64Histogram("grocery.client.duration", metric.WithDescription("Item store request latency"), metric.WithUnit("s"))
	return repositoryMetrics{requests: requests, duration: duration}
}

func (m repositoryMetrics) record(ctx context.Context, op string, err error, elapsed time.Duration) {
	attrs := metric.WithAttributes(attribute.String("operation", op), attribute.String("outcome", errorKind(err)))
	if m.requests != nil {
		m.requests.Add(ctx, 1, attrs)
	}
	if m.duration != nil {
		m.duration.Record(ctx, elapsed.Seconds(), attrs)
	}
}

var _ itemports.Repository = (*Repository)(nil)

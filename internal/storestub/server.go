// Package storestub serves an in-memory Remote Item Store over HTTP for local
// runs and tests of the grocery client.
package storestub

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	itemsmemory "github.com/Apurer/grocery-store-client/internal/domains/items/adapters/memory"
	"github.com/Apurer/grocery-store-client/internal/domains/items/domain"
	"github.com/Apurer/grocery-store-client/internal/domains/items/ports"
	apierrors "github.com/Apurer/grocery-store-client/internal/shared/errors"
)

// SeedItems are stocked when the store starts empty.
var SeedItems = []domain.Fields{
	{Name: "Carrot", Price: 1.5, Quantity: 10},
	{Name: "Broccoli", Price: 2.0, Quantity: 5},
	{Name: "Tomato", Price: 1.2, Quantity: 15},
}

type itemResource struct {
	ID       string  `json:"_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type itemBody struct {
	Name     *string  `json:"name" binding:"required"`
	Price    *float64 `json:"price" binding:"required"`
	Quantity *int     `json:"quantity"`
}

func (b itemBody) fields() domain.Fields {
	f := domain.Fields{Name: *b.Name, Price: *b.Price}
	if b.Quantity != nil {
		f.Quantity = *b.Quantity
	}
	return f
}

type messageResponse struct {
	Message string `json:"message"`
}

type config struct {
	basePath       string
	logger         *slog.Logger
	tracerProvider trace.TracerProvider
	seed           bool
}

type Option func(*config)

// WithBasePath mounts the item routes below prefix, for example "/api".
func WithBasePath(prefix string) Option {
	return func(c *config) {
		c.basePath = "/" + strings.Trim(prefix, "/")
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *config) {
		c.tracerProvider = tp
	}
}

// WithoutSeed starts with whatever the repository holds, even if empty.
func WithoutSeed() Option {
	return func(c *config) {
		c.seed = false
	}
}

type handlers struct {
	repo      *itemsmemory.Repository
	responder *apierrors.Responder
}

// NewRouter builds the gin engine serving the item routes from repo.
func NewRouter(ctx context.Context, repo *itemsmemory.Repository, opts ...Option) *gin.Engine {
	cfg := config{basePath: "/", logger: slog.New(slog.DiscardHandler), seed: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.seed {
		seed(ctx, repo, cfg.logger)
	}

	h := &handlers{repo: repo, responder: apierrors.NewResponder(mapItemError)}
	router := gin.New()
	otelOpts := []otelgin.Option{}
	if cfg.tracerProvider != nil {
		otelOpts = append(otelOpts, otelgin.WithTracerProvider(cfg.tracerProvider))
	}
	router.Use(gin.Recovery(), otelgin.Middleware("grocery-store-stub", otelOpts...), requestLogger(cfg.logger))

	items := router.Group(cfg.basePath).Group("/items")
	items.GET("", h.listItems)
	items.POST("", h.addItem)
	items.PUT("/:id", h.updateItem)
	items.DELETE("/:id", h.deleteItem)
	items.PUT("/:id/quantity", h.updateQuantity)
	return router
}

func seed(ctx context.Context, repo *itemsmemory.Repository, logger *slog.Logger) {
	if repo.Len() > 0 {
		return
	}
	for _, fields := range SeedItems {
		if _, err := repo.Create(ctx, fields); err != nil {
			logger.Error("failed to seed item", slog.String("item.name", fields.Name), slog.String("error", err.Error()))
		}
	}
	logger.Info("seeded empty item store", slog.Int("items.count", len(SeedItems)))
}

// GET /items
func (h *handlers) listItems(c *gin.Context) {
	items, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	out := make([]itemResource, 0, len(items))
	for _, item := range items {
		out = append(out, itemResource{ID: item.ID, Name: item.Name, Price: item.Price, Quantity: item.Quantity})
	}
	c.JSON(http.StatusOK, out)
}

// POST /items
func (h *handlers) addItem(c *gin.Context) {
	var body itemBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.responder.Respond(c, validationProblem(err))
		return
	}
	id, err := h.repo.Create(c.Request.Context(), body.fields())
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// PUT /items/:id
func (h *handlers) updateItem(c *gin.Context) {
	var body itemBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.responder.Respond(c, validationProblem(err))
		return
	}
	if err := h.repo.Update(c.Request.Context(), c.Param("id"), body.fields()); err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Item updated"})
}

// DELETE /items/:id
func (h *handlers) deleteItem(c *gin.Context) {
	if err := h.repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Item deleted"})
}

// PUT /items/:id/quantity?action=add|remove
func (h *handlers) updateQuantity(c *gin.Context) {
	action, ok := c.GetQuery("action")
	if !ok {
		h.responder.Respond(c, apierrors.NewValidationProblem(map[string]string{"action": "required"}))
		return
	}
	var direction domain.Direction
	switch action {
	case domain.Increment.Action():
		direction = domain.Increment
	case domain.Decrement.Action():
		direction = domain.Decrement
	default:
		h.responder.Respond(c, apierrors.ErrBadRequest.WithDetail("Invalid action"))
		return
	}
	if err := h.repo.AdjustQuantity(c.Request.Context(), c.Param("id"), direction); err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Quantity updated"})
}

func mapItemError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, ports.ErrNotFound), errors.Is(err, domain.ErrEmptyID):
		return apierrors.ErrNotFound.WithDetail("Item not found"), true
	default:
		return apierrors.ProblemDetail{}, false
	}
}

func validationProblem(err error) apierrors.ProblemDetail {
	fields := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[strings.ToLower(fe.Field())] = fe.Tag()
		}
		return apierrors.NewValidationProblem(fields)
	}
	return apierrors.ErrUnprocessable.WithDetail(err.Error())
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.LogAttrs(c.Request.Context(), slog.LevelInfo, "request handled",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("elapsed", time.Since(start)),
		)
	}
}

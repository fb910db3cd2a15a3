package health

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/onkoe/direction/internal/shortener"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a single store ping.
const DefaultTimeout = 2 * time.Second

// StoreChecker reports the health of a link store.
type StoreChecker struct {
	store shortener.Store
}

// NewStoreChecker creates a checker for store.
func NewStoreChecker(store shortener.Store) *StoreChecker {
	return &StoreChecker{store: store}
}

// Ping pings the store when it supports it. Stores without a health check
// are assumed healthy.
func (c *StoreChecker) Ping(ctx context.Context) error {
	if pinger, ok := c.store.(shortener.Pinger); ok {
		return pinger.Ping(ctx)
	}

	return nil
}

// Handler handles health check operations.
type Handler struct {
	store   shortener.Pinger
	timeout time.Duration
	logger  *zap.Logger
}

// NewHandler creates a new health handler.
func NewHandler(store shortener.Pinger, logger *zap.Logger) *Handler {
	return &Handler{
		store:   store,
		timeout: DefaultTimeout,
		logger:  logger,
	}
}

// Response is the response for health check endpoint.
type Response struct {
	Body struct {
		Status string `json:"status"`
		Store  string `json:"store"`
	}
}

// Check performs a health check of the application and its dependencies.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	resp := &Response{}
	resp.Body.Status = "ok"

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("store health check failed", zap.Error(err))

		resp.Body.Store = "unhealthy"
		resp.Body.Status = "degraded"
	} else {
		resp.Body.Store = "healthy"
	}

	return resp, nil
}

// RegisterRoutes registers health check routes.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Get(api, "/health", h.Check)
}

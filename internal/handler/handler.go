package handler

import (
	"context"

	"alphabot/internal/index"
	"alphabot/internal/request"
	"alphabot/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type ListingLookup interface {
	Listings(ctx context.Context, h *request.Handler) (*service.Listings, error)
}

type RefreshTrigger interface {
	Trigger() bool
}

type Handler struct {
	tracer    trace.Tracer
	engine    *request.Engine
	index     *index.Index
	listings  ListingLookup
	refresher RefreshTrigger
	apiKey    string
}

func New(tracer trace.Tracer, engine *request.Engine, idx *index.Index, listings ListingLookup, refresher RefreshTrigger, apiKey string) *Handler {
	return &Handler{
		tracer:    tracer,
		engine:    engine,
		index:     idx,
		listings:  listings,
		refresher: refresher,
		apiKey:    apiKey,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	api := r.Group("/api")
	api.GET("/resolve/:kind", h.Resolve)
	api.GET("/listings/:symbol", h.GetListings)
	api.POST("/index/refresh", APIKeyAuth(h.apiKey), h.TriggerIndexRefresh)
}

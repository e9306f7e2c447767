package handler

import (
	"net/http"
	"strings"

	"alphabot/internal/catalog"
	"alphabot/internal/domain"
	"alphabot/internal/request"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetListings godoc
// @Summary      List the exchanges trading an asset
// @Description  Resolves the symbol on the loaded crypto venues and groups them by quote currency
// @Tags         listings
// @Produce      json
// @Param        symbol  path  string  true  "Asset symbol (e.g., BTC, ETH)"
// @Success      200  {object}  service.Listings
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/listings/{symbol} [get]
func (h *Handler) GetListings(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-listings")
	defer span.End()

	symbol := strings.ToLower(c.Param("symbol"))
	span.SetAttributes(attribute.String("symbol", symbol))

	resolved, err := h.engine.Resolve(catalog.KindPrice, symbol, nil, []domain.Platform{domain.PlatformCCXT}, request.Context{Bias: domain.BiasCrypto})
	if err != nil {
		h.writeResolveError(c, resolved, err)
		return
	}

	listings, err := h.listings.Listings(ctx, resolved)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, listings)
}

// TriggerIndexRefresh godoc
// @Summary      Rebuild the resolution index
// @Description  Queues an ad hoc rebuild of coins, market lists and symbol tables. Concurrent triggers are coalesced.
// @Tags         index
// @Produce      json
// @Param        X-API-Key  header  string  false  "API key"
// @Success      202  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/index/refresh [post]
func (h *Handler) TriggerIndexRefresh(c *gin.Context) {
	if h.refresher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "index refresher unavailable"})
		return
	}

	_, span := h.tracer.Start(c.Request.Context(), "handler.trigger-index-refresh")
	defer span.End()

	status := "queued"
	if !h.refresher.Trigger() {
		status = "already queued"
	}
	span.SetAttributes(attribute.String("refresh.status", status))
	c.JSON(http.StatusAccepted, gin.H{"status": status})
}

package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"alphabot/internal/catalog"
	"alphabot/internal/domain"
	"alphabot/internal/index"
	"alphabot/internal/request"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// ResolvedRequest is the JSON view of an arbitrated request.
type ResolvedRequest struct {
	Kind        string           `json:"kind"`
	Platform    string           `json:"platform"`
	Ticker      domain.Ticker    `json:"ticker"`
	Exchange    *domain.Exchange `json:"exchange,omitempty"`
	Timeframes  []string         `json:"timeframes,omitempty"`
	Indicators  []string         `json:"indicators,omitempty"`
	ChartStyles []string         `json:"chart_styles,omitempty"`
	ImageStyles []string         `json:"image_styles,omitempty"`
	Filters     []string         `json:"filters,omitempty"`
	Numerical   []string         `json:"numerical,omitempty"`
	RequiresPro bool             `json:"requires_pro"`
	CanCache    bool             `json:"can_cache"`
	Hash        string           `json:"hash"`
	URL         string           `json:"url"`
	MessageURL  string           `json:"message_url,omitempty"`
}

func newResolvedRequest(h *request.Handler) ResolvedRequest {
	out := ResolvedRequest{
		Kind:        string(h.Kind()),
		Platform:    h.Platform().String(),
		Ticker:      h.Ticker(),
		Exchange:    h.Exchange(),
		Timeframes:  parameterIDs(h.Timeframes()),
		ChartStyles: parameterIDs(h.ChartStyles()),
		ImageStyles: parameterIDs(h.ImageStyles()),
		Filters:     parameterIDs(h.Filters()),
		RequiresPro: h.RequiresPro(),
		CanCache:    h.CanCache(),
		Hash:        h.Hash(),
	}
	for _, ind := range h.Indicators() {
		id := ind.ID
		for _, arg := range ind.Args {
			id += ":" + arg.String()
		}
		out.Indicators = append(out.Indicators, id)
	}
	for _, n := range h.Numerical() {
		out.Numerical = append(out.Numerical, n.String())
	}
	out.URL, out.MessageURL = h.BuildURL(true)
	return out
}

func parameterIDs(params []catalog.Parameter) []string {
	if len(params) == 0 {
		return nil
	}
	ids := make([]string, len(params))
	for i, p := range params {
		ids[i] = p.ID
	}
	return ids
}

// Resolve godoc
// @Summary      Resolve a command against the candidate platforms
// @Description  Parses the arguments for every candidate platform of the request kind and returns the one selected by arbitration
// @Tags         resolve
// @Produce      json
// @Param        kind      path   string  true   "Request kind (chart, price, detail, heatmap, depth, alert)"
// @Param        ticker    query  string  false  "Ticker token (e.g., btc, aapl, eth/btc)"
// @Param        args      query  string  false  "Space separated arguments (e.g., 1h rsi bitmex)"
// @Param        bias      query  string  false  "Parser bias (crypto, traditional)"  default(crypto)
// @Param        exchange  query  string  false  "Default exchange id"
// @Success      200  {object}  ResolvedRequest
// @Failure      400  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/resolve/{kind} [get]
func (h *Handler) Resolve(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.resolve")
	defer span.End()

	kind, ok := catalog.ParseKind(c.Param("kind"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":           "unsupported request kind: " + c.Param("kind"),
			"supported_kinds": catalog.Kinds(),
		})
		return
	}
	ticker := strings.TrimSpace(c.Query("ticker"))
	span.SetAttributes(attribute.String("kind", string(kind)), attribute.String("ticker", ticker))

	rc := request.Context{
		Defaults: domain.Defaults{Exchange: strings.ToLower(c.Query("exchange"))},
		Bias:     domain.ParseBias(c.DefaultQuery("bias", string(domain.BiasCrypto))),
	}
	resolved, err := h.engine.Resolve(kind, ticker, strings.Fields(c.Query("args")), nil, rc)
	if err != nil {
		h.writeResolveError(c, resolved, err)
		return
	}
	c.JSON(http.StatusOK, newResolvedRequest(resolved))
}

func (h *Handler) writeResolveError(c *gin.Context, resolved *request.Handler, err error) {
	var uerr *request.UserError
	switch {
	case errors.As(err, &uerr) && uerr.Muted:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": resolved.NotAvailable()})
	case errors.As(err, &uerr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": uerr.Message})
	case errors.Is(err, index.ErrNotReady):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		log.Printf("resolve error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

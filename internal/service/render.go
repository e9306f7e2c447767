package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"alphabot/internal/cache"
	"alphabot/internal/catalog"
	"alphabot/internal/domain"
	"alphabot/internal/provider"
	"alphabot/internal/request"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var ErrRendererDisabled = errors.New("rendering service is not configured")

// Chart is the reply payload of a visual request. Public platforms only need
// a URL; renderer routes come back as image bytes.
type Chart struct {
	Platform   string `json:"platform"`
	Kind       string `json:"kind"`
	URL        string `json:"url"`
	MessageURL string `json:"message_url,omitempty"`
	Image      []byte `json:"image,omitempty"`
	Caption    string `json:"caption,omitempty"`
	Cached     bool   `json:"-"`
}

type FearGreedSource interface {
	Latest(ctx context.Context) (provider.FearGreedReading, error)
}

// RenderService turns a resolved chart, heatmap or depth request into a Chart.
type RenderService struct {
	tracer      trace.Tracer
	store       *cache.Store
	ttl         time.Duration
	client      *http.Client
	rendererURL string
	fearGreed   FearGreedSource
}

func NewRenderService(tracer trace.Tracer, store *cache.Store, ttl time.Duration, rendererURL string, fearGreed FearGreedSource) *RenderService {
	return &RenderService{
		tracer:      tracer,
		store:       store,
		ttl:         ttl,
		client:      &http.Client{Timeout: 30 * time.Second},
		rendererURL: strings.TrimRight(rendererURL, "/"),
		fearGreed:   fearGreed,
	}
}

// Render produces the chart of the selected request. Results of cacheable
// platforms are memoized by request hash.
func (s *RenderService) Render(ctx context.Context, h *request.Handler) (*Chart, error) {
	ctx, span := s.tracer.Start(ctx, "render-service.render")
	defer span.End()

	if h.Current() == nil {
		return nil, fmt.Errorf("render: no platform selected")
	}
	key := h.Hash()
	span.SetAttributes(
		attribute.String("request.platform", h.Platform().String()),
		attribute.String("request.hash", key),
	)

	if h.CanCache() {
		var cached Chart
		hit, err := s.store.GetJSON(ctx, key, &cached)
		if err != nil {
			log.Printf("render cache read error for %s: %v", key, err)
		}
		if hit {
			cached.Cached = true
			return &cached, nil
		}
	}

	requestURL, messageURL := h.BuildURL(true)
	if requestURL == "" {
		return nil, fmt.Errorf("render: %s has no url for %s requests", h.Platform(), h.Kind())
	}
	chart := &Chart{
		Platform:   h.Platform().String(),
		Kind:       string(h.Kind()),
		URL:        requestURL,
		MessageURL: messageURL,
		Caption:    s.caption(ctx, h),
	}

	if strings.HasPrefix(requestURL, "/") {
		image, err := s.fetchRendered(ctx, requestURL)
		if err != nil {
			return nil, err
		}
		chart.Image = image
		chart.URL = s.rendererURL + requestURL
	}

	if h.CanCache() {
		if err := s.store.SetJSON(ctx, key, chart, s.ttl); err != nil {
			log.Printf("render cache write error for %s: %v", key, err)
		}
	}
	return chart, nil
}

func (s *RenderService) caption(ctx context.Context, h *request.Handler) string {
	switch h.Platform() {
	case domain.PlatformAlternativeMe:
		if s.fearGreed == nil {
			return ""
		}
		reading, err := s.fearGreed.Latest(ctx)
		if err != nil {
			log.Printf("fear & greed caption error: %v", err)
			return ""
		}
		return reading.Caption()
	}

	var parts []string
	if name := h.Ticker().Name; name != "" {
		parts = append(parts, name)
	}
	if h.Kind() != catalog.KindHeatmap {
		if ex := h.Exchange(); ex != nil {
			parts = append(parts, ex.Name)
		}
	}
	for _, tf := range h.Timeframes() {
		parts = append(parts, tf.Name)
	}
	return strings.Join(parts, " | ")
}

func (s *RenderService) fetchRendered(ctx context.Context, path string) ([]byte, error) {
	ctx, span := s.tracer.Start(ctx, "render-service.fetch-rendered")
	defer span.End()

	if s.rendererURL == "" {
		return nil, ErrRendererDisabled
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.rendererURL+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("renderer request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("renderer error %d: %s", resp.StatusCode, string(body))
	}
	return io.ReadAll(resp.Body)
}

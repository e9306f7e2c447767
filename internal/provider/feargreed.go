package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const alternativeMeBaseURL = "https://api.alternative.me"

// FearGreedReading is the latest Alternative.me fear and greed index value
// shown under the index chart.
type FearGreedReading struct {
	Value          int
	Classification string
	Timestamp      time.Time
	NextUpdate     time.Time
}

// Caption formats the reading for the chart reply.
func (r FearGreedReading) Caption() string {
	if r.Classification == "" {
		return fmt.Sprintf("Fear & Greed Index: %d", r.Value)
	}
	return fmt.Sprintf("Fear & Greed Index: %d (%s)", r.Value, r.Classification)
}

// FearGreedProvider reads the index once per publication; renders between
// updates reuse the stored reading.
type FearGreedProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	now     func() time.Time

	mu     sync.Mutex
	latest *FearGreedReading
}

func NewFearGreedProvider(tracer trace.Tracer) *FearGreedProvider {
	return &FearGreedProvider{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: alternativeMeBaseURL,
		tracer:  tracer,
		now:     time.Now,
	}
}

func (p *FearGreedProvider) Latest(ctx context.Context) (FearGreedReading, error) {
	ctx, span := p.tracer.Start(ctx, "alternative-me.fear-greed")
	defer span.End()

	p.mu.Lock()
	cached := p.latest
	p.mu.Unlock()
	if cached != nil && p.now().Before(cached.NextUpdate) {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return *cached, nil
	}

	reading, err := p.fetch(ctx)
	if err != nil {
		span.RecordError(err)
		return FearGreedReading{}, err
	}
	span.SetAttributes(attribute.Int("fear_greed.value", reading.Value))

	p.mu.Lock()
	p.latest = &reading
	p.mu.Unlock()
	return reading, nil
}

func (p *FearGreedProvider) fetch(ctx context.Context) (FearGreedReading, error) {
	endpoint := strings.TrimRight(p.baseURL, "/") + "/fng/?limit=1"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return FearGreedReading{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return FearGreedReading{}, fmt.Errorf("fear & greed caption: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return FearGreedReading{}, fmt.Errorf("alternative.me error %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Data []struct {
			Value           string `json:"value"`
			Classification  string `json:"value_classification"`
			Timestamp       string `json:"timestamp"`
			TimeUntilUpdate string `json:"time_until_update"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return FearGreedReading{}, fmt.Errorf("decode alternative.me response: %w", err)
	}
	if len(payload.Data) == 0 {
		return FearGreedReading{}, fmt.Errorf("alternative.me returned no index value")
	}

	row := payload.Data[0]
	value, err := strconv.Atoi(strings.TrimSpace(row.Value))
	if err != nil {
		return FearGreedReading{}, fmt.Errorf("parse fear & greed value %q: %w", row.Value, err)
	}
	reading := FearGreedReading{Value: value, Classification: row.Classification}
	if ts, err := strconv.ParseInt(strings.TrimSpace(row.Timestamp), 10, 64); err == nil {
		reading.Timestamp = time.Unix(ts, 0).UTC()
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(row.TimeUntilUpdate)); err == nil && secs > 0 {
		reading.NextUpdate = p.now().Add(time.Duration(secs) * time.Second)
	}
	return reading, nil
}

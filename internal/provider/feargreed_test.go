package provider

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
)

func newTestFearGreed(t *testing.T, status int, body string, calls *int) *FearGreedProvider {
	t.Helper()
	p := NewFearGreedProvider(trace.NewNoopTracerProvider().Tracer("test"))
	p.baseURL = "https://example.com"
	p.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		*calls++
		if req.URL.Path != "/fng/" || req.URL.Query().Get("limit") != "1" {
			t.Fatalf("unexpected request: %s", req.URL)
		}
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(bytes.NewBufferString(body)),
			Header:     make(http.Header),
		}, nil
	})}
	return p
}

func TestFearGreedLatest(t *testing.T) {
	var calls int
	body := `{"data":[{"value":"63","value_classification":"Greed","timestamp":"1771009800","time_until_update":"1111"}]}`
	p := newTestFearGreed(t, http.StatusOK, body, &calls)
	now := time.Unix(1771009900, 0)
	p.now = func() time.Time { return now }

	reading, err := p.Latest(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reading.Caption() != "Fear & Greed Index: 63 (Greed)" {
		t.Fatalf("unexpected caption: %q", reading.Caption())
	}
	if !reading.Timestamp.Equal(time.Unix(1771009800, 0)) {
		t.Fatalf("unexpected timestamp: %v", reading.Timestamp)
	}
	if !reading.NextUpdate.Equal(now.Add(1111 * time.Second)) {
		t.Fatalf("unexpected next update: %v", reading.NextUpdate)
	}
}

func TestFearGreedReusesReadingUntilUpdate(t *testing.T) {
	var calls int
	body := `{"data":[{"value":"20","value_classification":"Extreme Fear","timestamp":"1771009800","time_until_update":"60"}]}`
	p := newTestFearGreed(t, http.StatusOK, body, &calls)
	now := time.Unix(1771009800, 0)
	p.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if _, err := p.Latest(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected one fetch before the next update, got %d", calls)
	}

	now = now.Add(2 * time.Minute)
	if _, err := p.Latest(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected a refetch after the update time, got %d", calls)
	}
}

func TestFearGreedAPIError(t *testing.T) {
	var calls int
	p := newTestFearGreed(t, http.StatusServiceUnavailable, "down", &calls)

	_, err := p.Latest(context.Background())
	if err == nil || !strings.Contains(err.Error(), "alternative.me error 503") {
		t.Fatalf("expected api error, got %v", err)
	}
}

func TestFearGreedCaptionWithoutClassification(t *testing.T) {
	if got := (FearGreedReading{Value: 50}).Caption(); got != "Fear & Greed Index: 50" {
		t.Fatalf("unexpected caption: %q", got)
	}
}

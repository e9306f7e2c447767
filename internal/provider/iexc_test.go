package provider

import (
	"context"
	"net/http"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
)

func testIEXC(t *testing.T, routes map[string]string) *IEXCProvider {
	t.Helper()
	p := NewIEXCProvider(trace.NewNoopTracerProvider().Tracer("test"), "secret")
	p.baseURL = "http://example"
	p.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Query().Get("token") != "secret" {
			t.Fatalf("token missing from %s", req.URL)
		}
		body, ok := routes[req.URL.Path]
		if !ok {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		return jsonResponse(body), nil
	})}
	p.limiter = NewRateLimiter(10, time.Millisecond)
	return p
}

func TestIEXCStocks(t *testing.T) {
	t.Parallel()

	p := testIEXC(t, map[string]string{
		"/ref-data/symbols": `[
			{"symbol":"AAPL","name":"Apple Inc.","exchange":"NASDAQ","isEnabled":true},
			{"symbol":"IBM","name":"IBM","exchange":"New York Stock Exchange","isEnabled":true},
			{"symbol":"OLD","name":"Delisted","exchange":"NYS","isEnabled":false}
		]`,
	})

	stocks, err := p.Stocks(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stocks) != 2 {
		t.Fatalf("expected disabled symbols to be skipped, got %+v", stocks)
	}
	if stocks[0].Exchange != "nasdaq" || stocks[1].Exchange != "nyse" {
		t.Fatalf("unexpected exchanges: %+v", stocks)
	}
}

func TestIEXCForex(t *testing.T) {
	t.Parallel()

	p := testIEXC(t, map[string]string{
		"/ref-data/fx/symbols": `{"pairs":[{"fromCurrency":"EUR","toCurrency":"USD","symbol":"EURUSD"}]}`,
		"/fx/latest":           `[{"symbol":"EURUSD","rate":1.09,"timestamp":1700000000000}]`,
	})

	pairs, err := p.Forex(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pairs) != 1 || pairs[0].Base != "EUR" || pairs[0].Quote != "USD" {
		t.Fatalf("unexpected pairs: %+v", pairs)
	}

	quote, err := p.FetchQuote(context.Background(), "EURUSD", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Price != 1.09 || quote.Quote != "USD" || quote.LastUpdatedUnix != 1700000000 {
		t.Fatalf("unexpected quote: %+v", quote)
	}
}

func TestIEXCStockQuote(t *testing.T) {
	t.Parallel()

	p := testIEXC(t, map[string]string{
		"/stock/AAPL/quote": `{"symbol":"AAPL","latestPrice":190.5,"latestVolume":1000,"changePercent":0.012,"latestUpdate":1700000000000}`,
	})

	quote, err := p.FetchQuote(context.Background(), "AAPL", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Price != 190.5 || quote.Change24hPct != 1.2 {
		t.Fatalf("unexpected quote: %+v", quote)
	}
}

func TestIEXCRequiresToken(t *testing.T) {
	t.Parallel()

	p := NewIEXCProvider(trace.NewNoopTracerProvider().Tracer("test"), "")
	if _, err := p.Stocks(context.Background()); err == nil {
		t.Fatal("expected error without token")
	}
}

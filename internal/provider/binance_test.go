package provider

import (
	"context"
	"net/http"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestBinanceLoaderLoadMarkets(t *testing.T) {
	t.Parallel()

	loader := NewBinanceLoader(trace.NewNoopTracerProvider().Tracer("test"), "http://example")
	loader.client.HTTPClient = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/api/v3/exchangeInfo" {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		return jsonResponse(`{"timezone":"UTC","serverTime":1700000000000,"symbols":[
			{"symbol":"BTCUSDT","status":"TRADING","baseAsset":"BTC","quoteAsset":"USDT"},
			{"symbol":"LUNABTC","status":"BREAK","baseAsset":"LUNA","quoteAsset":"BTC"}
		]}`), nil
	})}

	if loader.ExchangeID() != "binance" {
		t.Fatalf("unexpected exchange id: %s", loader.ExchangeID())
	}
	markets, err := loader.LoadMarkets(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(markets) != 2 {
		t.Fatalf("expected 2 markets, got %d", len(markets))
	}
	if markets[0].Symbol != "BTC/USDT" || !markets[0].Active {
		t.Fatalf("unexpected first market: %+v", markets[0])
	}
	if markets[1].Active {
		t.Fatalf("halted market should be inactive: %+v", markets[1])
	}
}

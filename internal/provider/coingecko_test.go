package provider

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sort"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

func testCoinGecko(t *testing.T, routes map[string]string) *CoinGeckoProvider {
	t.Helper()
	provider := NewCoinGeckoProvider(trace.NewNoopTracerProvider().Tracer("test"), "http://example")
	provider.client = &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			body, ok := routes[req.URL.Path]
			if !ok {
				t.Fatalf("unexpected path: %s", req.URL.Path)
			}
			return jsonResponse(body), nil
		}),
	}
	provider.limiter = NewRateLimiter(10, time.Millisecond)
	return provider
}

func TestCoinGeckoProviderCoins(t *testing.T) {
	t.Parallel()

	provider := testCoinGecko(t, map[string]string{
		"/coins/markets": `[{"id":"bitcoin","symbol":"btc","name":"Bitcoin","market_cap_rank":1},{"id":"newcoin","symbol":"new","name":"New","market_cap_rank":null}]`,
	})

	coins, err := provider.Coins(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(coins) != 2 {
		t.Fatalf("expected 2 coins, got %d", len(coins))
	}
	if coins[0].ID != "bitcoin" || coins[0].MarketCapRank != 1 {
		t.Fatalf("unexpected first coin: %+v", coins[0])
	}
	if coins[1].MarketCapRank != 0 {
		t.Fatalf("unranked coin should have rank 0, got %+v", coins[1])
	}
}

func TestCoinGeckoProviderCurrencies(t *testing.T) {
	t.Parallel()

	provider := testCoinGecko(t, map[string]string{
		"/simple/supported_vs_currencies": `["usd","eur","btc"]`,
		"/exchange_rates":                 `{"rates":{"usd":{"type":"fiat"},"eur":{"type":"fiat"},"eth":{"type":"crypto"}}}`,
	})

	vs, err := provider.VsCurrencies(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vs) != 3 {
		t.Fatalf("expected 3 vs currencies, got %v", vs)
	}

	fiat, err := provider.FiatCurrencies(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sort.Strings(fiat)
	if strings.Join(fiat, ",") != "EUR,USD" {
		t.Fatalf("unexpected fiat currencies: %v", fiat)
	}
}

func TestCoinGeckoProviderFetchPrice(t *testing.T) {
	t.Parallel()

	provider := testCoinGecko(t, map[string]string{
		"/simple/price": `{"bitcoin":{"usd":100,"usd_24h_vol":10,"usd_24h_change":1.5,"last_updated_at":1700000000}}`,
	})

	snap, err := provider.FetchPrice(context.Background(), "bitcoin", "USD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Price != 100 || snap.Quote != "USD" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.Volume24h != 10 || snap.Change24hPct != 1.5 || snap.LastUpdatedUnix != 1700000000 {
		t.Fatalf("unexpected snapshot values: %+v", snap)
	}

	if _, err := provider.FetchPrice(context.Background(), "bitcoin", "EUR"); err == nil {
		t.Fatal("expected error for missing quote")
	}
}

func TestCoinGeckoExchangeLoader(t *testing.T) {
	t.Parallel()

	provider := testCoinGecko(t, map[string]string{
		"/exchanges/gdax/tickers": `{"tickers":[
			{"base":"BTC","target":"USD"},
			{"base":"btc","target":"usd"},
			{"base":"ETH","target":"BTC","is_stale":true}
		]}`,
	})

	loader := provider.ExchangeLoader("coinbasepro", "gdax")
	if loader.ExchangeID() != "coinbasepro" {
		t.Fatalf("unexpected exchange id: %s", loader.ExchangeID())
	}
	markets, err := loader.LoadMarkets(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(markets) != 2 {
		t.Fatalf("expected duplicates to collapse, got %+v", markets)
	}
	if markets[0].Symbol != "BTC/USD" || !markets[0].Active {
		t.Fatalf("unexpected first market: %+v", markets[0])
	}
	if markets[1].Active {
		t.Fatalf("stale ticker should be inactive: %+v", markets[1])
	}
}

func TestCoinGeckoExchangeLoaderKnownMapping(t *testing.T) {
	t.Parallel()

	provider := NewCoinGeckoProvider(trace.NewNoopTracerProvider().Tracer("test"), "http://example")
	if got := provider.ExchangeLoader("huobipro", "").coingeckoID; got != "huobi" {
		t.Fatalf("expected huobi, got %s", got)
	}
	if got := provider.ExchangeLoader("kraken", "").coingeckoID; got != "kraken" {
		t.Fatalf("expected kraken, got %s", got)
	}
}

func TestCoinGeckoProviderAPIError(t *testing.T) {
	t.Parallel()

	provider := NewCoinGeckoProvider(trace.NewNoopTracerProvider().Tracer("test"), "http://example")
	provider.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusTooManyRequests,
			Body:       io.NopCloser(bytes.NewBufferString("slow down")),
			Header:     make(http.Header),
		}, nil
	})}
	provider.limiter = NewRateLimiter(10, time.Millisecond)

	_, err := provider.VsCurrencies(context.Background())
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected API error, got %v", err)
	}
}

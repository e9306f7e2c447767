package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"alphabot/internal/domain"

	"github.com/adshao/go-binance/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// BinanceLoader lists Binance spot markets straight from the exchange info
// endpoint, which is more complete than the CoinGecko ticker feed.
type BinanceLoader struct {
	client *binance.Client
	tracer trace.Tracer
}

func NewBinanceLoader(tracer trace.Tracer, baseURL string) *BinanceLoader {
	client := binance.NewClient("", "")
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		client.BaseURL = baseURL
	}
	client.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	return &BinanceLoader{client: client, tracer: tracer}
}

func (l *BinanceLoader) ExchangeID() string { return "binance" }

func (l *BinanceLoader) LoadMarkets(ctx context.Context) ([]domain.Market, error) {
	ctx, span := l.tracer.Start(ctx, "binance.exchange-info")
	defer span.End()

	info, err := l.client.NewExchangeInfoService().Do(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("binance exchange info: %w", err)
	}

	markets := make([]domain.Market, 0, len(info.Symbols))
	for _, s := range info.Symbols {
		if s.BaseAsset == "" || s.QuoteAsset == "" {
			continue
		}
		markets = append(markets, domain.Market{
			ID:     s.Symbol,
			Symbol: s.BaseAsset + "/" + s.QuoteAsset,
			Base:   s.BaseAsset,
			Quote:  s.QuoteAsset,
			Active: s.Status == "TRADING",
		})
	}
	span.SetAttributes(attribute.Int("exchange.markets", len(markets)))
	return markets, nil
}

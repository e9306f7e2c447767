package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"alphabot/internal/cache"
	"alphabot/internal/domain"
	"alphabot/internal/index"
	"alphabot/internal/request"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const priceCacheTTL = 90 * time.Second

type CoinPriceSource interface {
	FetchPrice(ctx context.Context, coinID, quote string) (*domain.PriceSnapshot, error)
}

type SecurityQuoteSource interface {
	FetchQuote(ctx context.Context, symbol string, forex bool) (*domain.PriceSnapshot, error)
}

// QuoteService answers price and detail requests from whichever platform won
// arbitration.
type QuoteService struct {
	tracer      trace.Tracer
	index       *index.Index
	coins       CoinPriceSource
	securities  SecurityQuoteSource
	store       *cache.Store
	client      *http.Client
	rendererURL string
}

func NewQuoteService(
	tracer trace.Tracer,
	idx *index.Index,
	coins CoinPriceSource,
	securities SecurityQuoteSource,
	store *cache.Store,
	rendererURL string,
) *QuoteService {
	return &QuoteService{
		tracer:      tracer,
		index:       idx,
		coins:       coins,
		securities:  securities,
		store:       store,
		client:      &http.Client{Timeout: 15 * time.Second},
		rendererURL: strings.TrimRight(rendererURL, "/"),
	}
}

// Quote fetches the latest value of the selected request. Cacheable
// platforms are served from redis for a short while.
func (s *QuoteService) Quote(ctx context.Context, h *request.Handler) (*domain.PriceSnapshot, error) {
	ctx, span := s.tracer.Start(ctx, "quote-service.quote")
	defer span.End()

	if h.Current() == nil {
		return nil, fmt.Errorf("quote: no platform selected")
	}
	platform := h.Platform()
	ticker := h.Ticker()
	span.SetAttributes(
		attribute.String("request.platform", platform.String()),
		attribute.String("request.ticker", ticker.ID),
	)

	key := h.Hash()
	if h.CanCache() {
		var cached domain.PriceSnapshot
		hit, err := s.store.GetJSON(ctx, key, &cached)
		if err != nil {
			log.Printf("redis cache read error: %v", err)
		}
		if hit {
			return &cached, nil
		}
	}

	var (
		snap *domain.PriceSnapshot
		err  error
	)
	switch platform {
	case domain.PlatformCoinGecko:
		snap, err = s.coinGeckoQuote(ctx, ticker)
	case domain.PlatformIEXC:
		forex := h.Exchange() != nil && h.Exchange().ID == "forex"
		snap, err = s.securityQuote(ctx, ticker, forex)
	case domain.PlatformQuandl:
		requestURL, _ := h.BuildURL(false)
		snap, err = s.quandlQuote(ctx, ticker, requestURL)
	case domain.PlatformCCXT, domain.PlatformLLD:
		requestURL, _ := h.BuildURL(false)
		snap, err = s.rendererQuote(ctx, requestURL)
	default:
		err = fmt.Errorf("quote: %s does not serve prices", platform)
	}
	if err != nil {
		return nil, err
	}
	if snap.Platform == "" {
		snap.Platform = platform.String()
	}

	if h.CanCache() {
		if err := s.store.SetJSON(ctx, key, snap, priceCacheTTL); err != nil {
			log.Printf("redis cache write error for %s: %v", ticker.ID, err)
		}
	}
	return snap, nil
}

func (s *QuoteService) coinGeckoQuote(ctx context.Context, t domain.Ticker) (*domain.PriceSnapshot, error) {
	snapshot, err := s.index.Current()
	if err != nil {
		return nil, err
	}
	base, quote := t.Base, t.Quote
	if t.IsReversed {
		base, quote = quote, base
	}
	coin, ok := snapshot.Coin(base)
	if !ok {
		return nil, fmt.Errorf("unknown coin: %s", base)
	}
	snap, err := s.coins.FetchPrice(ctx, coin.ID, quote)
	if err != nil {
		return nil, err
	}
	snap.Symbol = t.Symbol
	if t.IsReversed && snap.Price != 0 {
		snap.Price = 1 / snap.Price
		snap.Quote = strings.ToUpper(t.Quote)
	}
	return snap, nil
}

// securityQuote fetches the listed instrument behind t and inverts the price
// when t was resolved reversed.
func (s *QuoteService) securityQuote(ctx context.Context, t domain.Ticker, forex bool) (*domain.PriceSnapshot, error) {
	symbol := t.ID
	if t.IsReversed {
		symbol = t.Quote
		if forex {
			symbol = t.Quote + t.Base
		}
	}
	snap, err := s.securities.FetchQuote(ctx, symbol, forex)
	if err != nil {
		return nil, err
	}
	if t.IsReversed && snap.Price != 0 {
		snap.Price = 1 / snap.Price
		snap.Symbol = t.Base + "/" + t.Quote
		snap.Quote = strings.ToUpper(t.Quote)
	}
	return snap, nil
}

func (s *QuoteService) quandlQuote(ctx context.Context, t domain.Ticker, requestURL string) (*domain.PriceSnapshot, error) {
	body, err := s.get(ctx, requestURL)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset for %s: %w", t.ID, err)
	}
	// Response shape: {"dataset": {"data": [["2024-01-02", 2063.5, ...]]}}
	var raw struct {
		Dataset struct {
			Data [][]any `json:"data"`
		} `json:"dataset"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse dataset for %s: %w", t.ID, err)
	}
	if len(raw.Dataset.Data) == 0 || len(raw.Dataset.Data[0]) < 2 {
		return nil, fmt.Errorf("dataset for %s has no rows", t.ID)
	}
	row := raw.Dataset.Data[0]
	value, ok := row[1].(float64)
	if !ok {
		return nil, fmt.Errorf("dataset for %s has no numeric value", t.ID)
	}
	snap := &domain.PriceSnapshot{Symbol: t.ID, Quote: "USD", Price: value}
	if day, ok := row[0].(string); ok {
		if ts, err := time.Parse("2006-01-02", day); err == nil {
			snap.LastUpdatedUnix = ts.Unix()
		}
	}
	return snap, nil
}

func (s *QuoteService) rendererQuote(ctx context.Context, path string) (*domain.PriceSnapshot, error) {
	if s.rendererURL == "" {
		return nil, ErrRendererDisabled
	}
	body, err := s.get(ctx, s.rendererURL+path)
	if err != nil {
		return nil, fmt.Errorf("renderer quote: %w", err)
	}
	var snap domain.PriceSnapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("parse renderer quote: %w", err)
	}
	return &snap, nil
}

func (s *QuoteService) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}
	return io.ReadAll(resp.Body)
}

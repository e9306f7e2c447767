package index

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"alphabot/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// CoinSource provides the market-cap registry and currency universe.
type CoinSource interface {
	Coins(ctx context.Context) ([]domain.Coin, error)
	VsCurrencies(ctx context.Context) ([]string, error)
	FiatCurrencies(ctx context.Context) ([]string, error)
}

// MarketLoader loads the market list of one crypto venue.
type MarketLoader interface {
	ExchangeID() string
	LoadMarkets(ctx context.Context) ([]domain.Market, error)
}

// SecuritySource provides the traditional-market symbol tables.
type SecuritySource interface {
	Stocks(ctx context.Context) ([]domain.Security, error)
	OTC(ctx context.Context) ([]domain.Security, error)
	Forex(ctx context.Context) ([]domain.ForexPair, error)
}

// Builder assembles a fresh Snapshot from its sources.
type Builder struct {
	tracer      trace.Tracer
	coins       CoinSource
	securities  SecuritySource
	loaders     []MarketLoader
	shortcuts   map[string]string
	concurrency int
}

func NewBuilder(tracer trace.Tracer, coins CoinSource, securities SecuritySource, loaders []MarketLoader, shortcuts map[string]string) *Builder {
	return &Builder{
		tracer:      tracer,
		coins:       coins,
		securities:  securities,
		loaders:     loaders,
		shortcuts:   shortcuts,
		concurrency: 4,
	}
}

// Build loads every source concurrently. Only the coin registry is required;
// a failing venue or symbol table is logged and reported in missing so the
// caller can schedule another attempt.
func (b *Builder) Build(ctx context.Context) (snap *Snapshot, missing []string, err error) {
	ctx, span := b.tracer.Start(ctx, "index.build")
	defer span.End()

	src := Sources{
		Markets:   make(map[string][]domain.Market, len(b.loaders)),
		Shortcuts: b.shortcuts,
	}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	g.Go(func() error {
		coins, err := b.coins.Coins(gctx)
		if err != nil {
			return fmt.Errorf("load coins: %w", err)
		}
		src.Coins = coins
		return nil
	})
	g.Go(func() error {
		vs, err := b.coins.VsCurrencies(gctx)
		if err != nil {
			log.Printf("index build: vs currencies unavailable: %v", err)
			return nil
		}
		src.VsCurrencies = vs
		return nil
	})
	g.Go(func() error {
		fiat, err := b.coins.FiatCurrencies(gctx)
		if err != nil {
			log.Printf("index build: fiat currencies unavailable: %v", err)
			return nil
		}
		src.Fiat = fiat
		return nil
	})

	if b.securities != nil {
		g.Go(func() error {
			stocks, err := b.securities.Stocks(gctx)
			if err != nil {
				log.Printf("index build: stock symbols unavailable: %v", err)
				return nil
			}
			src.Stocks = stocks
			return nil
		})
		g.Go(func() error {
			otc, err := b.securities.OTC(gctx)
			if err != nil {
				log.Printf("index build: otc symbols unavailable: %v", err)
				return nil
			}
			src.OTC = otc
			return nil
		})
		g.Go(func() error {
			forex, err := b.securities.Forex(gctx)
			if err != nil {
				log.Printf("index build: forex symbols unavailable: %v", err)
				return nil
			}
			src.Forex = forex
			return nil
		})
	}

	for _, loader := range b.loaders {
		g.Go(func() error {
			id := loader.ExchangeID()
			markets, err := loader.LoadMarkets(gctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil || len(markets) == 0 {
				if err != nil {
					log.Printf("index build: markets for %s unavailable: %v", id, err)
				}
				missing = append(missing, id)
				return nil
			}
			src.Markets[id] = markets
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, nil, err
	}

	sort.Strings(missing)
	snap = NewSnapshot(src)
	stats := snap.Stats()
	span.SetAttributes(
		attribute.Int("index.coins", stats.Coins),
		attribute.Int("index.loaded_exchanges", stats.LoadedExchanges),
		attribute.Int("index.missing_exchanges", len(missing)),
	)
	return snap, missing, nil
}

// Refresh builds a new generation and publishes it on idx. On failure idx
// keeps serving the previous generation.
func (b *Builder) Refresh(ctx context.Context, idx *Index) ([]string, error) {
	snap, missing, err := b.Build(ctx)
	if err != nil {
		return nil, err
	}
	idx.Swap(snap)
	stats := snap.Stats()
	log.Printf("index refreshed: %d coins, %d/%d venues loaded, %d securities, %d forex pairs",
		stats.Coins, stats.LoadedExchanges, stats.Exchanges, stats.Stocks, stats.Forex)
	return missing, nil
}

package index

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"alphabot/internal/domain"
)

func market(base, quote string) domain.Market {
	return domain.Market{ID: base + quote, Base: base, Quote: quote, Active: true}
}

func fixture() *Snapshot {
	return NewSnapshot(Sources{
		Coins: []domain.Coin{
			{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", MarketCapRank: 1},
			{ID: "ethereum", Symbol: "eth", Name: "Ethereum", MarketCapRank: 2},
			{ID: "tether", Symbol: "usdt", Name: "Tether", MarketCapRank: 3},
			{ID: "binancecoin", Symbol: "bnb", Name: "BNB", MarketCapRank: 4},
			{ID: "cardano", Symbol: "ada", Name: "Cardano", MarketCapRank: 9},
			{ID: "chainlink", Symbol: "link", Name: "Chainlink", MarketCapRank: 15},
			{ID: "ethereum-classic", Symbol: "etc", Name: "Ethereum Classic", MarketCapRank: 30},
			{ID: "ethernity", Symbol: "ethn", Name: "Ethernity", MarketCapRank: 900},
		},
		VsCurrencies: []string{"usd", "eur", "btc", "eth"},
		Markets: map[string][]domain.Market{
			"binance": {
				market("BTC", "USDT"), market("ETH", "USDT"), market("ETH", "BTC"),
				market("ADA", "BTC"), market("ADA", "USDT"), market("LINK", "USDT"), market("BNB", "BTC"), market("BNB", "USDT"),
			},
			"bitmex": {
				{ID: "XBTUSD", Base: "BTC", Quote: "USD", Active: true},
			},
			"bitfinex": {market("LINK", "BTC"), market("LINK", "USD"), market("BTC", "USD")},
			"kraken":   {market("ETH", "USD"), market("BTC", "EUR")},
		},
		Stocks: []domain.Security{
			{Symbol: "AAPL", Name: "Apple Inc.", Exchange: "NASDAQ"},
			{Symbol: "IBM", Name: "International Business Machines", Exchange: "NYSE"},
		},
		OTC:   []domain.Security{{Symbol: "TCEHY", Name: "Tencent"}},
		Forex: []domain.ForexPair{{Symbol: "EUR/USD", Base: "EUR", Quote: "USD"}},
	})
}

func TestIndexNotReadyUntilSwap(t *testing.T) {
	t.Parallel()
	idx := New()
	_, err := idx.Current()
	assert.True(t, errors.Is(err, ErrNotReady))
	assert.False(t, idx.Ready())

	snap := fixture()
	assert.Nil(t, idx.Swap(snap))
	got, err := idx.Current()
	require.NoError(t, err)
	assert.Same(t, snap, got)
}

func TestIndexConcurrentReadersSeeWholeGenerations(t *testing.T) {
	t.Parallel()
	first, second := fixture(), fixture()
	idx := NewWithSnapshot(first)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				snap, err := idx.Current()
				if err != nil || (snap != first && snap != second) {
					t.Errorf("unexpected generation %p: %v", snap, err)
					return
				}
			}
		}()
	}
	idx.Swap(second)
	wg.Wait()
}

func TestQuoteRankingHeuristic(t *testing.T) {
	t.Parallel()
	s := fixture()

	// BNB is a top four coin that is not usually dollar quoted.
	assert.Equal(t, []string{"BTC", "USDT"}, s.QuoteRanking(domain.PlatformCCXT, "BNB"))
	// ETH is exempt, so dollars go first.
	assert.Equal(t, []string{"USDT", "USD", "BTC"}, s.QuoteRanking(domain.PlatformCCXT, "ETH"))
	assert.Equal(t, []string{"USDT", "USD", "BTC"}, s.QuoteRanking(domain.PlatformCCXT, "LINK"))
}

func TestFindCCXTQuoteRankOrdering(t *testing.T) {
	t.Parallel()
	s := fixture()
	require.Equal(t, []string{"USDT", "USD", "BTC"}, s.QuoteRanking(domain.PlatformCCXT, "LINK"))

	out, ex, ok := s.FindCCXTCryptoMarket(domain.NewTicker("link"), s.Exchange("bitfinex"), domain.PlatformCCXT, domain.Defaults{})
	require.True(t, ok)
	assert.Equal(t, "bitfinex", ex.ID)
	assert.Equal(t, "LINK", out.Base)
	assert.Equal(t, "USD", out.Quote)
	assert.Equal(t, "LINKUSD", out.ID)
}

func TestFindCCXTDefaultExchangeFirst(t *testing.T) {
	t.Parallel()
	s := fixture()

	_, ex, ok := s.FindCCXTCryptoMarket(domain.NewTicker("btc"), nil, domain.PlatformCCXT, domain.Defaults{})
	require.True(t, ok)
	assert.Equal(t, "binance", ex.ID, "alphabetical venue order without defaults")

	out, ex, ok := s.FindCCXTCryptoMarket(domain.NewTicker("btc"), nil, domain.PlatformCCXT, domain.Defaults{Exchange: "kraken"})
	require.True(t, ok)
	assert.Equal(t, "kraken", ex.ID)
	assert.Equal(t, "EUR", out.Quote)
}

func TestFindCCXTConcatenatedSymbol(t *testing.T) {
	t.Parallel()
	s := fixture()

	out, ex, ok := s.FindCCXTCryptoMarket(domain.NewTicker("adabtc"), s.Exchange("binance"), domain.PlatformCCXT, domain.Defaults{})
	require.True(t, ok)
	assert.Equal(t, "binance", ex.ID)
	assert.Equal(t, "ADA", out.Base)
	assert.Equal(t, "BTC", out.Quote)

	// ADAUS is a partial quote; USDT is the best ranked quote starting with US.
	out, _, ok = s.FindCCXTCryptoMarket(domain.NewTicker("adaus"), s.Exchange("binance"), domain.PlatformCCXT, domain.Defaults{})
	require.True(t, ok)
	assert.Equal(t, "USDT", out.Quote)
}

func TestFindCCXTReversedPair(t *testing.T) {
	t.Parallel()
	s := fixture()

	out, ex, ok := s.FindCCXTCryptoMarket(domain.NewTicker("usdbtc"), s.Exchange("bitfinex"), domain.PlatformCCXT, domain.Defaults{})
	require.True(t, ok)
	assert.Equal(t, "bitfinex", ex.ID)
	assert.True(t, out.IsReversed)
	assert.Equal(t, "USD", out.Base)
	assert.Equal(t, "BTC", out.Quote)
	assert.Equal(t, "BTC/USD", out.Symbol)

	_, _, ok = s.FindCCXTCryptoMarket(domain.NewTicker("usdbtc"), s.Exchange("bitfinex"), domain.PlatformTradingView, domain.Defaults{})
	assert.False(t, ok, "charting platforms do not accept reversed markets")
}

func TestFindCCXTFailureKeepsPinnedExchange(t *testing.T) {
	t.Parallel()
	s := fixture()
	pinned := s.Exchange("kraken")
	out, ex, ok := s.FindCCXTCryptoMarket(domain.NewTicker("doge"), pinned, domain.PlatformCCXT, domain.Defaults{})
	assert.False(t, ok)
	assert.True(t, out.IsZero())
	assert.Same(t, pinned, ex)
}

func TestFindCoinGeckoExactMatchDominates(t *testing.T) {
	t.Parallel()
	s := fixture()

	out, ok := s.FindCoinGeckoCryptoMarket(domain.NewTicker("eth"))
	require.True(t, ok)
	assert.Equal(t, "ETH", out.Base)
	assert.Equal(t, "Ethereum", out.Name)
	assert.Equal(t, 2, out.MCapRank)
}

func TestFindCoinGeckoFallbacks(t *testing.T) {
	t.Parallel()
	s := fixture()

	out, ok := s.FindCoinGeckoCryptoMarket(domain.NewTicker("btc"))
	require.True(t, ok)
	assert.Equal(t, "USD", out.Quote)

	out, ok = s.FindCoinGeckoCryptoMarket(domain.NewTicker("adaeur"))
	require.True(t, ok)
	assert.Equal(t, "ADA", out.Base)
	assert.Equal(t, "EUR", out.Quote)

	_, ok = s.FindCoinGeckoCryptoMarket(domain.NewTicker("chain"))
	require.False(t, ok, "prefix must be a leading part of a symbol, not a name")

	out, ok = s.FindCoinGeckoCryptoMarket(domain.NewTicker("lin"))
	require.True(t, ok)
	assert.Equal(t, "LINK", out.Base)
	assert.Equal(t, "BTC", out.Quote)

	out, ok = s.FindCoinGeckoCryptoMarket(domain.NewTicker("eurada"))
	require.True(t, ok)
	assert.True(t, out.IsReversed)
	assert.Equal(t, "EUR", out.Base)
	assert.Equal(t, "ADA", out.Quote)
}

func TestFindIEXCMarket(t *testing.T) {
	t.Parallel()
	s := fixture()

	out, ex, ok := s.FindIEXCMarket(domain.NewTicker("aapl"))
	require.True(t, ok)
	assert.Equal(t, "AAPL", out.ID)
	assert.Equal(t, "nasdaq", ex.ID)

	out, ex, ok = s.FindIEXCMarket(domain.NewTicker("usdeur"))
	require.True(t, ok)
	assert.True(t, out.IsReversed)
	assert.Equal(t, "forex", ex.ID)

	out, _, ok = s.FindIEXCMarket(domain.NewTicker("$aapl"))
	require.True(t, ok)
	assert.False(t, out.IsReversed)

	out, _, ok = s.FindIEXCMarket(domain.NewTicker("usdibm"))
	require.True(t, ok)
	assert.True(t, out.IsReversed)
	assert.Equal(t, "IBM", out.Quote)

	_, ex, ok = s.FindIEXCMarket(domain.NewTicker("tcehy"))
	require.True(t, ok)
	assert.Equal(t, "otc", ex.ID)

	_, _, ok = s.FindIEXCMarket(domain.NewTicker("zzzz"))
	assert.False(t, ok)
}

func TestFindExchange(t *testing.T) {
	t.Parallel()
	s := fixture()

	ex, native := s.FindExchange("mex", domain.PlatformTradingLite, domain.BiasCrypto)
	require.NotNil(t, ex)
	assert.Equal(t, "bitmex", ex.ID)
	assert.True(t, native)

	ex, native = s.FindExchange("coinbase", domain.PlatformBookmap, domain.BiasCrypto)
	require.NotNil(t, ex)
	assert.Equal(t, "coinbasepro", ex.ID)
	assert.True(t, native)

	ex, native = s.FindExchange("kucoin", domain.PlatformBookmap, domain.BiasCrypto)
	require.NotNil(t, ex)
	assert.Equal(t, "kucoin", ex.ID)
	assert.False(t, native, "known venue outside the platform list")

	ex, _ = s.FindExchange("krak", domain.PlatformCCXT, domain.BiasCrypto)
	require.NotNil(t, ex)
	assert.Equal(t, "kraken", ex.ID)

	ex, _ = s.FindExchange("k", domain.PlatformCCXT, domain.BiasCrypto)
	assert.Nil(t, ex, "too short to match a name")
}

func TestFindExchangeSkipsMissingVenues(t *testing.T) {
	t.Parallel()
	s := fixture()
	delete(s.exchanges, "kucoin")

	var ex *domain.Exchange
	require.NotPanics(t, func() {
		ex, _ = s.FindExchange("kucoin", domain.PlatformBookmap, domain.BiasCrypto)
	})
	if ex != nil {
		assert.NotEqual(t, "kucoin", ex.ID)
	}

	ex, _ = s.FindExchange("krak", domain.PlatformBookmap, domain.BiasCrypto)
	require.NotNil(t, ex)
	assert.Equal(t, "kraken", ex.ID)
}

func TestProcessKnownTickersXBTOverride(t *testing.T) {
	t.Parallel()
	s := fixture()
	for _, p := range []domain.Platform{domain.PlatformTradingView, domain.PlatformTradingLite} {
		out, ex, ok := s.ProcessKnownTickers(domain.NewTicker("xbt"), nil, p, domain.Defaults{}, domain.BiasCrypto)
		require.True(t, ok, p)
		assert.Equal(t, "bitmex", ex.ID, p)
		assert.Equal(t, "BTC", out.Base)
		assert.Equal(t, "USD", out.Quote)
		assert.Equal(t, "XBTUSD", out.ID)
	}
}

func TestProcessKnownTickersIndexAndTraditional(t *testing.T) {
	t.Parallel()
	s := fixture()

	out, ex, ok := s.ProcessKnownTickers(domain.NewTicker("dji"), nil, domain.PlatformTradingView, domain.Defaults{}, domain.BiasCrypto)
	require.True(t, ok)
	assert.Nil(t, ex)
	assert.Equal(t, "DJ:DJI", out.ID)

	// Mixed platforms fall back to stocks when no crypto venue lists the symbol.
	out, ex, ok = s.ProcessKnownTickers(domain.NewTicker("aapl"), nil, domain.PlatformTradingView, domain.Defaults{}, domain.BiasCrypto)
	require.True(t, ok)
	assert.Equal(t, "nasdaq", ex.ID)
	assert.Equal(t, "AAPL", out.ID)

	_, _, ok = s.ProcessKnownTickers(domain.NewTicker("aapl"), nil, domain.PlatformTradingLite, domain.Defaults{}, domain.BiasTraditional)
	assert.False(t, ok)
}

func TestProcessKnownTickersAggregated(t *testing.T) {
	t.Parallel()
	s := fixture()
	out, _, ok := s.ProcessKnownTickers(domain.NewTicker("eth/btc"), nil, domain.PlatformCCXT, domain.Defaults{}, domain.BiasCrypto)
	require.True(t, ok)
	assert.True(t, out.IsAggregated())
	assert.Equal(t, "ETHUSDT/BTCUSDT", out.ID)
}

func TestGetListings(t *testing.T) {
	t.Parallel()
	s := NewSnapshot(Sources{
		Markets: map[string][]domain.Market{
			"bitfinex": {market("ETH", "USD")},
			"kraken":   {market("ETH", "USD")},
			"binance":  {market("ETH", "BTC")},
		},
	})

	listings, total := s.GetListings(domain.Ticker{ID: "ETHUSD", Base: "ETH", Quote: "USD"})
	assert.Equal(t, 3, total)
	assert.Equal(t, []domain.Listing{
		{Quote: "USD", Exchanges: []string{"Bitfinex", "Kraken"}},
		{Quote: "BTC", Exchanges: []string{"Binance"}},
	}, listings)
}

type fakeCoins struct {
	err error
}

func (f fakeCoins) Coins(context.Context) ([]domain.Coin, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []domain.Coin{{Symbol: "btc", Name: "Bitcoin", MarketCapRank: 1}}, nil
}

func (f fakeCoins) VsCurrencies(context.Context) ([]string, error) { return []string{"usd"}, nil }

func (f fakeCoins) FiatCurrencies(context.Context) ([]string, error) {
	return nil, errors.New("unavailable")
}

type fakeLoader struct {
	id      string
	markets []domain.Market
	err     error
}

func (f fakeLoader) ExchangeID() string { return f.id }

func (f fakeLoader) LoadMarkets(context.Context) ([]domain.Market, error) {
	return f.markets, f.err
}

func TestBuilderRefreshSwapsAndReportsMissing(t *testing.T) {
	t.Parallel()
	tracer := trace.NewNoopTracerProvider().Tracer("test")
	b := NewBuilder(tracer, fakeCoins{}, nil, []MarketLoader{
		fakeLoader{id: "binance", markets: []domain.Market{market("BTC", "USDT")}},
		fakeLoader{id: "kraken", err: errors.New("timeout")},
	}, map[string]string{"bnx": "binance"})

	idx := New()
	missing, err := b.Refresh(context.Background(), idx)
	require.NoError(t, err)
	assert.Equal(t, []string{"kraken"}, missing)

	snap, err := idx.Current()
	require.NoError(t, err)
	assert.True(t, snap.Exchange("binance").HasMarkets())
	assert.False(t, snap.Exchange("kraken").HasMarkets())

	ex, _ := snap.FindExchange("bnx", domain.PlatformCCXT, domain.BiasCrypto)
	require.NotNil(t, ex)
	assert.Equal(t, "binance", ex.ID)
}

func TestBuilderKeepsPreviousGenerationOnFailure(t *testing.T) {
	t.Parallel()
	tracer := trace.NewNoopTracerProvider().Tracer("test")
	previous := fixture()
	idx := NewWithSnapshot(previous)

	b := NewBuilder(tracer, fakeCoins{err: errors.New("rate limited")}, nil, nil, nil)
	_, err := b.Refresh(context.Background(), idx)
	require.Error(t, err)

	snap, _ := idx.Current()
	assert.Same(t, previous, snap)
}

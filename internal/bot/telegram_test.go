package bot

import (
	"context"
	"strings"
	"testing"

	"alphabot/internal/domain"
	"alphabot/internal/index"
	"alphabot/internal/request"
	"alphabot/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

func TestStartTelegramBotSkipsWithoutToken(t *testing.T) {
	StartTelegramBot("", nil)
}

func market(base, quote string) domain.Market {
	return domain.Market{ID: base + quote, Base: base, Quote: quote, Active: true}
}

func testIndex() *index.Index {
	return index.NewWithSnapshot(index.NewSnapshot(index.Sources{
		Coins: []domain.Coin{
			{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", MarketCapRank: 1},
			{ID: "ethereum", Symbol: "eth", Name: "Ethereum", MarketCapRank: 2},
		},
		VsCurrencies: []string{"usd", "eur", "btc"},
		Markets: map[string][]domain.Market{
			"binance":  {market("BTC", "USDT"), market("ETH", "USDT"), market("ETH", "BTC")},
			"bitfinex": {market("BTC", "USD")},
			"kucoin":   {market("BTC", "USDT")},
			"kraken":   {market("BTC", "EUR")},
		},
	}))
}

type fakeSettings struct {
	byChat map[int64]domain.GuildSettings
}

func (f *fakeSettings) Get(ctx context.Context, chatID int64, fallback domain.Bias) (domain.GuildSettings, error) {
	if s, ok := f.byChat[chatID]; ok {
		return s, nil
	}
	return domain.GuildSettings{ChatID: chatID, Bias: fallback}, nil
}

func (f *fakeSettings) SetExchange(ctx context.Context, chatID int64, exchangeID string) error {
	s, _ := f.Get(ctx, chatID, domain.BiasCrypto)
	s.Exchange = exchangeID
	f.byChat[chatID] = s
	return nil
}

func (f *fakeSettings) SetBias(ctx context.Context, chatID int64, bias domain.Bias) error {
	s, _ := f.Get(ctx, chatID, domain.BiasCrypto)
	s.Bias = bias
	f.byChat[chatID] = s
	return nil
}

type fakeAlerts struct {
	created []domain.Alert
}

func (f *fakeAlerts) Create(ctx context.Context, alert *domain.Alert) error {
	alert.ID = int64(len(f.created) + 1)
	f.created = append(f.created, *alert)
	return nil
}

type fakeRenderer struct {
	handlers []*request.Handler
}

func (f *fakeRenderer) Render(ctx context.Context, h *request.Handler) (*service.Chart, error) {
	f.handlers = append(f.handlers, h)
	url, _ := h.BuildURL(false)
	return &service.Chart{Platform: h.Platform().String(), URL: url, Caption: h.Ticker().Name}, nil
}

type fakeQuoter struct{}

func (fakeQuoter) Quote(ctx context.Context, h *request.Handler) (*domain.PriceSnapshot, error) {
	return &domain.PriceSnapshot{Symbol: h.Ticker().Symbol, Quote: h.Ticker().Quote, Price: 42.5, Change24hPct: 1.25, Platform: h.Platform().String()}, nil
}

type fixture struct {
	dispatcher *Dispatcher
	settings   *fakeSettings
	alerts     *fakeAlerts
	renderer   *fakeRenderer
}

func newFixture(idx *index.Index) fixture {
	f := fixture{
		settings: &fakeSettings{byChat: make(map[int64]domain.GuildSettings)},
		alerts:   &fakeAlerts{},
		renderer: &fakeRenderer{},
	}
	f.dispatcher = NewDispatcher(testTracer, Deps{
		Engine:   request.NewEngine(idx, nil),
		Index:    idx,
		Settings: f.settings,
		Alerts:   f.alerts,
		Render:   f.renderer,
		Quotes:   fakeQuoter{},
		Listings: service.NewListingService(testTracer, idx),
	})
	return f
}

func TestChartCommand(t *testing.T) {
	t.Parallel()
	f := newFixture(testIndex())

	replies := f.dispatcher.Handle(context.Background(), 1, 2, "c", []string{"BTC", "1H"})
	require.Len(t, replies, 1)
	require.Len(t, f.renderer.handlers, 1)
	assert.Equal(t, domain.PlatformTradingView, f.renderer.handlers[0].Platform())
	assert.Contains(t, replies[0].Text, "https://s.tradingview.com/")
}

func TestChartCommandSplitsRequests(t *testing.T) {
	t.Parallel()
	f := newFixture(testIndex())

	replies := f.dispatcher.Handle(context.Background(), 1, 2, "c", []string{"btc", "1h,", "eth", "4h"})
	require.Len(t, replies, 2)
	require.Len(t, f.renderer.handlers, 2)
	assert.Equal(t, "ETH", f.renderer.handlers[1].Ticker().Base)
}

func TestChartCommandArbitrationMessage(t *testing.T) {
	t.Parallel()
	f := newFixture(testIndex())

	replies := f.dispatcher.Handle(context.Background(), 1, 2, "c", []string{"btc", "notathing"})
	require.Len(t, replies, 1)
	assert.Equal(t, "`notathing` is not a valid argument.", replies[0].Text)
	assert.Empty(t, f.renderer.handlers)
}

func TestCommandsWhileIndexLoading(t *testing.T) {
	t.Parallel()
	f := newFixture(index.New())

	replies := f.dispatcher.Handle(context.Background(), 1, 2, "p", []string{"btc"})
	require.Len(t, replies, 1)
	assert.Equal(t, msgNotReady, replies[0].Text)
}

func TestPriceCommand(t *testing.T) {
	t.Parallel()
	f := newFixture(testIndex())

	replies := f.dispatcher.Handle(context.Background(), 1, 2, "p", []string{"btc"})
	require.Len(t, replies, 1)
	assert.Equal(t, "BTC/USD: 42.5 USD (+1.25% 24h)\nvia CoinGecko", replies[0].Text)
}

func TestAlertCommand(t *testing.T) {
	t.Parallel()
	f := newFixture(testIndex())

	replies := f.dispatcher.Handle(context.Background(), 7, 2, "alert", []string{"btc", "65000"})
	require.Len(t, replies, 1)
	require.Len(t, f.alerts.created, 1)
	alert := f.alerts.created[0]
	assert.Equal(t, int64(7), alert.ChatID)
	assert.Equal(t, "CCXT", alert.Platform)
	assert.Equal(t, "binance", alert.Exchange)
	assert.Equal(t, "65000", alert.Level.String())
	assert.Equal(t, "Alert set for BTC/USDT at 65000 on Binance.", replies[0].Text)

	replies = f.dispatcher.Handle(context.Background(), 7, 2, "alert", []string{"btc"})
	assert.Equal(t, "An alert level must be provided.", replies[0].Text)
	assert.Len(t, f.alerts.created, 1)
}

func TestSettingsCommand(t *testing.T) {
	t.Parallel()
	f := newFixture(testIndex())
	ctx := context.Background()

	replies := f.dispatcher.Handle(ctx, 9, 2, "settings", []string{"exchange", "KuCoin"})
	assert.Equal(t, "Default exchange set to kucoin.", replies[0].Text)

	replies = f.dispatcher.Handle(ctx, 9, 2, "settings", []string{"exchange", "qqq"})
	assert.Equal(t, "`qqq` is not a known exchange.", replies[0].Text)

	replies = f.dispatcher.Handle(ctx, 9, 2, "settings", []string{"bias", "sideways"})
	assert.Equal(t, "Market bias must be `crypto` or `traditional`.", replies[0].Text)

	replies = f.dispatcher.Handle(ctx, 9, 2, "settings", nil)
	assert.Equal(t, "Default exchange: kucoin\nMarket bias: crypto", replies[0].Text)

	f.dispatcher.Handle(ctx, 9, 2, "depth", []string{"btc"})
	require.Len(t, f.renderer.handlers, 1)
	assert.Equal(t, "kucoin", f.renderer.handlers[0].Exchange().ID)
}

func TestMarketsCommand(t *testing.T) {
	t.Parallel()
	f := newFixture(testIndex())

	replies := f.dispatcher.Handle(context.Background(), 1, 2, "mk", []string{"btc"})
	require.Len(t, replies, 1)
	lines := strings.Split(replies[0].Text, "\n")
	assert.Equal(t, "Bitcoin is listed on 4 exchanges:", lines[0])
	assert.Equal(t, "USDT: Binance, KuCoin", lines[1])
}

func TestHeatmapCommand(t *testing.T) {
	t.Parallel()
	f := newFixture(testIndex())

	f.dispatcher.Handle(context.Background(), 1, 2, "hmap", nil)
	require.Len(t, f.renderer.handlers, 1)
	assert.Equal(t, domain.PlatformBitgur, f.renderer.handlers[0].Platform())
}

func TestUnknownCommand(t *testing.T) {
	t.Parallel()
	f := newFixture(testIndex())

	replies := f.dispatcher.Handle(context.Background(), 1, 2, "zz", nil)
	assert.Equal(t, "Unknown command `zz`.", replies[0].Text)
}

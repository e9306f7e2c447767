package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"alphabot/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const coingeckoBaseURL = "https://api.coingecko.com/api/v3"

// CoinGeckoProvider loads the market-cap registry, the currency universe and
// per-venue market lists from the CoinGecko free API.
type CoinGeckoProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
	// pages of 250 coins loaded into the registry.
	pages int
}

// NewCoinGeckoProvider creates a new provider with built-in rate limiting.
// Rate limited to 8 requests per minute (one token every 7.5 seconds).
func NewCoinGeckoProvider(tracer trace.Tracer, baseURL string) *CoinGeckoProvider {
	if baseURL == "" {
		baseURL = coingeckoBaseURL
	}
	return &CoinGeckoProvider{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		tracer:  tracer,
		limiter: NewRateLimiter(8, 7500*time.Millisecond),
		pages:   4,
	}
}

// Coins fetches the top coins by market cap.
func (p *CoinGeckoProvider) Coins(ctx context.Context) ([]domain.Coin, error) {
	ctx, span := p.tracer.Start(ctx, "coingecko.coins")
	defer span.End()

	var coins []domain.Coin
	for page := 1; page <= p.pages; page++ {
		endpoint := fmt.Sprintf("%s/coins/markets?vs_currency=usd&order=market_cap_desc&per_page=250&page=%d", p.baseURL, page)
		body, err := p.doRequest(ctx, endpoint)
		if err != nil {
			return nil, fmt.Errorf("fetch coins page %d: %w", page, err)
		}

		var raw []struct {
			ID            string `json:"id"`
			Symbol        string `json:"symbol"`
			Name          string `json:"name"`
			Image         string `json:"image"`
			MarketCapRank *int   `json:"market_cap_rank"`
		}
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, fmt.Errorf("parse coins page %d: %w", page, err)
		}
		for _, c := range raw {
			coin := domain.Coin{ID: c.ID, Symbol: c.Symbol, Name: c.Name, Image: c.Image}
			if c.MarketCapRank != nil {
				coin.MarketCapRank = *c.MarketCapRank
			}
			coins = append(coins, coin)
		}
		if len(raw) < 250 {
			break
		}
	}
	span.SetAttributes(attribute.Int("coingecko.coins", len(coins)))
	return coins, nil
}

// VsCurrencies fetches the currencies CoinGecko can quote against.
func (p *CoinGeckoProvider) VsCurrencies(ctx context.Context) ([]string, error) {
	ctx, span := p.tracer.Start(ctx, "coingecko.vs-currencies")
	defer span.End()

	body, err := p.doRequest(ctx, p.baseURL+"/simple/supported_vs_currencies")
	if err != nil {
		return nil, fmt.Errorf("fetch vs currencies: %w", err)
	}
	var out []string
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("parse vs currencies: %w", err)
	}
	return out, nil
}

// FiatCurrencies returns the fiat entries of the exchange rate table.
func (p *CoinGeckoProvider) FiatCurrencies(ctx context.Context) ([]string, error) {
	ctx, span := p.tracer.Start(ctx, "coingecko.exchange-rates")
	defer span.End()

	body, err := p.doRequest(ctx, p.baseURL+"/exchange_rates")
	if err != nil {
		return nil, fmt.Errorf("fetch exchange rates: %w", err)
	}
	// Response shape: {"rates": {"usd": {"name": "US Dollar", "unit": "$", "value": 97000, "type": "fiat"}, ...}}
	var raw struct {
		Rates map[string]struct {
			Type string `json:"type"`
		} `json:"rates"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse exchange rates: %w", err)
	}
	out := make([]string, 0, len(raw.Rates))
	for code, rate := range raw.Rates {
		if rate.Type == "fiat" {
			out = append(out, strings.ToUpper(code))
		}
	}
	return out, nil
}

// FetchPrice fetches the latest price of a registry coin in quote.
func (p *CoinGeckoProvider) FetchPrice(ctx context.Context, coinID, quote string) (*domain.PriceSnapshot, error) {
	ctx, span := p.tracer.Start(ctx, "coingecko.fetch-price")
	defer span.End()
	span.SetAttributes(attribute.String("coingecko.coin", coinID))

	vs := strings.ToLower(quote)
	endpoint := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=%s&include_24hr_vol=true&include_24hr_change=true&include_last_updated_at=true",
		p.baseURL, url.QueryEscape(coinID), url.QueryEscape(vs))
	body, err := p.doRequest(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch price for %s: %w", coinID, err)
	}

	// Response shape: {"bitcoin": {"usd": 97000, "usd_24h_vol": 45000000000, "usd_24h_change": 2.34, "last_updated_at": 1700000000}}
	var raw map[string]map[string]float64
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse price for %s: %w", coinID, err)
	}
	data, ok := raw[coinID]
	if !ok {
		return nil, fmt.Errorf("no price for %s", coinID)
	}
	price, ok := data[vs]
	if !ok {
		return nil, fmt.Errorf("no %s price for %s", vs, coinID)
	}
	updated := int64(data["last_updated_at"])
	if updated == 0 {
		updated = time.Now().Unix()
	}
	return &domain.PriceSnapshot{
		Symbol:          coinID,
		Quote:           strings.ToUpper(quote),
		Price:           price,
		Volume24h:       data[vs+"_24h_vol"],
		Change24hPct:    data[vs+"_24h_change"],
		LastUpdatedUnix: updated,
		Platform:        domain.PlatformCoinGecko.String(),
	}, nil
}

// coingeckoExchangeIDs maps index venue ids to CoinGecko's where they differ.
var coingeckoExchangeIDs = map[string]string{
	"coinbasepro": "gdax",
	"huobipro":    "huobi",
	"gateio":      "gate",
	"okex":        "okex",
}

// ExchangeLoader returns a market loader for one CoinGecko exchange id. The
// index id may differ from CoinGecko's own (gdax for coinbasepro); an empty
// coingeckoID picks the known mapping.
func (p *CoinGeckoProvider) ExchangeLoader(indexID, coingeckoID string) *CoinGeckoExchangeLoader {
	if coingeckoID == "" {
		coingeckoID = indexID
		if mapped, ok := coingeckoExchangeIDs[indexID]; ok {
			coingeckoID = mapped
		}
	}
	return &CoinGeckoExchangeLoader{provider: p, indexID: indexID, coingeckoID: coingeckoID, maxPages: 5}
}

// CoinGeckoExchangeLoader lists the markets of one venue from its ticker feed.
type CoinGeckoExchangeLoader struct {
	provider    *CoinGeckoProvider
	indexID     string
	coingeckoID string
	maxPages    int
}

func (l *CoinGeckoExchangeLoader) ExchangeID() string { return l.indexID }

func (l *CoinGeckoExchangeLoader) LoadMarkets(ctx context.Context) ([]domain.Market, error) {
	p := l.provider
	ctx, span := p.tracer.Start(ctx, "coingecko.exchange-markets")
	defer span.End()
	span.SetAttributes(attribute.String("exchange.id", l.indexID))

	seen := make(map[string]bool)
	var markets []domain.Market
	for page := 1; page <= l.maxPages; page++ {
		endpoint := fmt.Sprintf("%s/exchanges/%s/tickers?page=%d", p.baseURL, url.PathEscape(l.coingeckoID), page)
		body, err := p.doRequest(ctx, endpoint)
		if err != nil {
			return nil, fmt.Errorf("fetch %s tickers page %d: %w", l.indexID, page, err)
		}
		var raw struct {
			Tickers []struct {
				Base      string `json:"base"`
				Target    string `json:"target"`
				IsStale   bool   `json:"is_stale"`
				IsAnomaly bool   `json:"is_anomaly"`
			} `json:"tickers"`
		}
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, fmt.Errorf("parse %s tickers: %w", l.indexID, err)
		}
		for _, t := range raw.Tickers {
			base, quote := strings.ToUpper(t.Base), strings.ToUpper(t.Target)
			if base == "" || quote == "" || seen[base+"/"+quote] {
				continue
			}
			seen[base+"/"+quote] = true
			markets = append(markets, domain.Market{
				ID:     base + quote,
				Symbol: base + "/" + quote,
				Base:   base,
				Quote:  quote,
				Active: !t.IsStale && !t.IsAnomaly,
			})
		}
		if len(raw.Tickers) < 100 {
			break
		}
	}
	span.SetAttributes(attribute.Int("exchange.markets", len(markets)))
	return markets, nil
}

func (p *CoinGeckoProvider) doRequest(ctx context.Context, endpoint string) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("coingecko API error %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}

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

const iexcBaseURL = "https://cloud.iexapis.com/stable"

// IEXCProvider loads the traditional-market symbol tables and quotes from
// IEX Cloud.
type IEXCProvider struct {
	client  *http.Client
	baseURL string
	token   string
	tracer  trace.Tracer
	limiter *RateLimiter
}

func NewIEXCProvider(tracer trace.Tracer, token string) *IEXCProvider {
	return &IEXCProvider{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: iexcBaseURL,
		token:   token,
		tracer:  tracer,
		limiter: NewRateLimiter(50, time.Second),
	}
}

type iexcSymbol struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Type     string `json:"type"`
	Enabled  bool   `json:"isEnabled"`
}

func (p *IEXCProvider) Stocks(ctx context.Context) ([]domain.Security, error) {
	ctx, span := p.tracer.Start(ctx, "iexc.symbols")
	defer span.End()
	return p.securities(ctx, span, "/ref-data/symbols")
}

func (p *IEXCProvider) OTC(ctx context.Context) ([]domain.Security, error) {
	ctx, span := p.tracer.Start(ctx, "iexc.otc-symbols")
	defer span.End()
	return p.securities(ctx, span, "/ref-data/otc/symbols")
}

func (p *IEXCProvider) securities(ctx context.Context, span trace.Span, path string) ([]domain.Security, error) {
	body, err := p.doRequest(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	var raw []iexcSymbol
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	out := make([]domain.Security, 0, len(raw))
	for _, s := range raw {
		if !s.Enabled || s.Symbol == "" {
			continue
		}
		out = append(out, domain.Security{Symbol: s.Symbol, Name: s.Name, Exchange: normalizeIEXCExchange(s.Exchange)})
	}
	span.SetAttributes(attribute.Int("iexc.symbols", len(out)))
	return out, nil
}

// normalizeIEXCExchange maps IEX exchange names onto index venue ids.
func normalizeIEXCExchange(name string) string {
	upper := strings.ToUpper(name)
	switch {
	case strings.Contains(upper, "NASDAQ"):
		return "nasdaq"
	case strings.Contains(upper, "ARCA"):
		return "arca"
	case strings.Contains(upper, "AMERICAN"), upper == "AMEX", upper == "ASE":
		return "amex"
	case strings.Contains(upper, "NEW YORK"), upper == "NYS", upper == "NYSE":
		return "nyse"
	case strings.Contains(upper, "BZX"), strings.Contains(upper, "BATS"):
		return "bats"
	case upper == "":
		return ""
	default:
		return "otc"
	}
}

func (p *IEXCProvider) Forex(ctx context.Context) ([]domain.ForexPair, error) {
	ctx, span := p.tracer.Start(ctx, "iexc.fx-symbols")
	defer span.End()

	body, err := p.doRequest(ctx, "/ref-data/fx/symbols", nil)
	if err != nil {
		return nil, fmt.Errorf("fetch fx symbols: %w", err)
	}
	var raw struct {
		Pairs []struct {
			FromCurrency string `json:"fromCurrency"`
			ToCurrency   string `json:"toCurrency"`
			Symbol       string `json:"symbol"`
		} `json:"pairs"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse fx symbols: %w", err)
	}
	out := make([]domain.ForexPair, 0, len(raw.Pairs))
	for _, pair := range raw.Pairs {
		out = append(out, domain.ForexPair{Symbol: pair.FromCurrency + "/" + pair.ToCurrency, Base: pair.FromCurrency, Quote: pair.ToCurrency})
	}
	span.SetAttributes(attribute.Int("iexc.fx_pairs", len(out)))
	return out, nil
}

// FetchQuote fetches the latest stock or forex quote.
func (p *IEXCProvider) FetchQuote(ctx context.Context, symbol string, forex bool) (*domain.PriceSnapshot, error) {
	ctx, span := p.tracer.Start(ctx, "iexc.quote")
	defer span.End()
	span.SetAttributes(attribute.String("iexc.symbol", symbol))

	if forex {
		body, err := p.doRequest(ctx, "/fx/latest", url.Values{"symbols": {symbol}})
		if err != nil {
			return nil, fmt.Errorf("fetch fx rate for %s: %w", symbol, err)
		}
		var raw []struct {
			Symbol    string  `json:"symbol"`
			Rate      float64 `json:"rate"`
			Timestamp int64   `json:"timestamp"`
		}
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, fmt.Errorf("parse fx rate for %s: %w", symbol, err)
		}
		if len(raw) == 0 {
			return nil, fmt.Errorf("no fx rate for %s", symbol)
		}
		return &domain.PriceSnapshot{
			Symbol:          raw[0].Symbol,
			Quote:           strings.ToUpper(symbol[len(symbol)-3:]),
			Price:           raw[0].Rate,
			LastUpdatedUnix: raw[0].Timestamp / 1000,
			Platform:        domain.PlatformIEXC.String(),
		}, nil
	}

	body, err := p.doRequest(ctx, "/stock/"+url.PathEscape(symbol)+"/quote", nil)
	if err != nil {
		return nil, fmt.Errorf("fetch quote for %s: %w", symbol, err)
	}
	var raw struct {
		Symbol        string  `json:"symbol"`
		LatestPrice   float64 `json:"latestPrice"`
		LatestVolume  float64 `json:"latestVolume"`
		ChangePercent float64 `json:"changePercent"`
		LatestUpdate  int64   `json:"latestUpdate"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse quote for %s: %w", symbol, err)
	}
	return &domain.PriceSnapshot{
		Symbol:          raw.Symbol,
		Quote:           "USD",
		Price:           raw.LatestPrice,
		Volume24h:       raw.LatestVolume,
		Change24hPct:    raw.ChangePercent * 100,
		LastUpdatedUnix: raw.LatestUpdate / 1000,
		Platform:        domain.PlatformIEXC.String(),
	}, nil
}

func (p *IEXCProvider) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if p.token == "" {
		return nil, fmt.Errorf("iexc token is not configured")
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	if query == nil {
		query = url.Values{}
	}
	query.Set("token", p.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path+"?"+query.Encode(), nil)
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
		return nil, fmt.Errorf("iexc API error %d: %s", resp.StatusCode, string(body))
	}
	return io.ReadAll(resp.Body)
}

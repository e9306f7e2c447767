package request

import (
	"fmt"
	"net/url"
	"strings"

	"alphabot/internal/catalog"
	"alphabot/internal/domain"
)

type urlBuilder func(r *PlatformRequest, addMessageURL bool) (string, string)

var urlBuilders = map[domain.Platform]urlBuilder{
	tv: tradingViewURL,
	tl: tradingLiteURL,
	bm: bookmapURL,
	gc: goChartingURL,
	fv: finvizURL,
	am: alternativeMeURL,
	wb: woobullURL,
	cg: coinGeckoURL,
	cx: rendererURL,
	ix: iexcURL,
	ql: quandlURL,
	ld: rendererURL,
	bg: bitgurURL,
}

// BuildURL assembles the platform URL for the resolved request.
func (r *PlatformRequest) BuildURL(addMessageURL bool) (string, string) {
	build, ok := urlBuilders[r.platform]
	if !ok {
		return "", ""
	}
	return build(r, addMessageURL)
}

// TradingView exchange prefixes that differ from the upper-cased id.
var tradingViewCodes = map[string]string{
	"coinbasepro": "COINBASE",
	"huobipro":    "HUOBI",
	"arca":        "AMEX",
	"forex":       "FX",
}

func tradingViewSymbol(t domain.Ticker, ex *domain.Exchange) string {
	if t.Literal || ex == nil {
		return t.ID
	}
	code, ok := tradingViewCodes[ex.ID]
	if !ok {
		code = strings.ToUpper(ex.ID)
	}
	return code + ":" + t.ID
}

func (r *PlatformRequest) symbolFor(format func(domain.Ticker, *domain.Exchange) string) string {
	if !r.ticker.IsAggregated() {
		return format(r.ticker, r.exchange)
	}
	var b strings.Builder
	for _, p := range r.ticker.Parts() {
		if p.IsSeparator() {
			b.WriteString(p.Separator)
			continue
		}
		b.WriteString(format(*p.Ticker, r.exchange))
	}
	return b.String()
}

// natives returns the platform encodings of params in order.
func (r *PlatformRequest) natives(params []catalog.Parameter) []string {
	out := make([]string, 0, len(params))
	for _, p := range params {
		if v, ok := p.Native(r.platform); ok && v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (r *PlatformRequest) first(params []catalog.Parameter) string {
	if v := r.natives(params); len(v) > 0 {
		return v[0]
	}
	return ""
}

func (r *PlatformRequest) groupValue(params []catalog.Parameter, group string) string {
	for _, p := range params {
		if p.Group != group {
			continue
		}
		if v, ok := p.Native(r.platform); ok {
			return v
		}
	}
	return ""
}

func tradingViewURL(r *PlatformRequest, addMessageURL bool) (string, string) {
	symbol := r.symbolFor(tradingViewSymbol)
	studies := r.indicatorNatives()
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", r.first(r.timeframes))
	q.Set("style", r.groupValue(r.chartStyles, catalog.GroupChartType))
	q.Set("theme", r.groupValue(r.imageStyles, catalog.GroupTheme))
	q.Set("timezone", "Etc/UTC")
	q.Set("hidesidetoolbar", "1")
	if len(studies) > 0 {
		q.Set("studies", strings.Join(studies, "\x1f"))
	}
	if r.hasParameter(r.imageStyles, "log") {
		q.Set("log", "1")
	}
	if r.hasParameter(r.filters, "extended") {
		q.Set("extended", "1")
	}
	requestURL := "https://s.tradingview.com/widgetembed/?" + q.Encode()
	if !addMessageURL {
		return requestURL, ""
	}
	return requestURL, "https://www.tradingview.com/chart/?symbol=" + url.QueryEscape(symbol)
}

func tradingLiteURL(r *PlatformRequest, _ bool) (string, string) {
	q := url.Values{}
	q.Set("interval", r.first(r.timeframes))
	q.Set("theme", r.groupValue(r.imageStyles, catalog.GroupTheme))
	if v := r.groupValue(r.filters, catalog.GroupHeatmapIntensity); v != "" {
		q.Set("heatmap", v)
	}
	if ids := r.indicatorNatives(); len(ids) > 0 {
		q.Set("indicators", strings.Join(ids, ","))
	}
	return fmt.Sprintf("https://www.tradinglite.com/chart/%s/%s?%s", exchangeID(r.exchange), r.ticker.ID, q.Encode()), ""
}

func bookmapURL(r *PlatformRequest, _ bool) (string, string) {
	q := url.Values{}
	q.Set("exchange", exchangeID(r.exchange))
	q.Set("symbol", r.ticker.ID)
	q.Set("interval", r.first(r.timeframes))
	q.Set("theme", r.groupValue(r.imageStyles, catalog.GroupTheme))
	if v := r.groupValue(r.filters, catalog.GroupHeatmapIntensity); v != "" {
		q.Set("heatmap", v)
	}
	return "https://web.bookmap.com/?" + q.Encode(), ""
}

func goChartingURL(r *PlatformRequest, _ bool) (string, string) {
	q := url.Values{}
	q.Set("ticker", strings.ToUpper(exchangeID(r.exchange))+":"+r.ticker.ID)
	q.Set("interval", r.first(r.timeframes))
	q.Set("theme", r.groupValue(r.imageStyles, catalog.GroupTheme))
	q.Set("chartType", r.groupValue(r.chartStyles, catalog.GroupChartType))
	if studies := r.indicatorNatives(); len(studies) > 0 {
		q.Set("studies", strings.Join(studies, ","))
	}
	return "https://gocharting.com/terminal?" + q.Encode(), ""
}

func (r *PlatformRequest) indicatorNatives() []string {
	out := make([]string, 0, len(r.indicators))
	for _, ind := range r.indicators {
		if v, ok := ind.Native(r.platform); ok {
			out = append(out, v)
		}
	}
	return out
}

func finvizURL(r *PlatformRequest, addMessageURL bool) (string, string) {
	if r.kind == catalog.KindHeatmap {
		q := url.Values{}
		q.Set("t", r.groupValue(r.filters, catalog.GroupHeatmapUniverse))
		if st := r.first(r.timeframes); st != "" {
			q.Set("st", st)
		}
		requestURL := "https://finviz.com/map.ashx?" + q.Encode()
		if addMessageURL {
			return requestURL, requestURL
		}
		return requestURL, ""
	}

	q := url.Values{}
	q.Set("t", r.ticker.ID)
	q.Set("p", r.first(r.timeframes))
	q.Set("ty", r.groupValue(r.chartStyles, catalog.GroupChartType))
	if r.hasParameter(r.chartStyles, "ta") {
		q.Set("ta", "1")
	} else {
		q.Set("ta", "0")
	}
	q.Set("s", "l")
	requestURL := "https://finviz.com/chart.ashx?" + q.Encode()
	if !addMessageURL {
		return requestURL, ""
	}
	return requestURL, "https://finviz.com/quote.ashx?t=" + url.QueryEscape(r.ticker.ID)
}

func alternativeMeURL(_ *PlatformRequest, addMessageURL bool) (string, string) {
	requestURL := "https://alternative.me/crypto/fear-and-greed-index.png"
	if !addMessageURL {
		return requestURL, ""
	}
	return requestURL, "https://alternative.me/crypto/fear-and-greed-index/"
}

var woobullPages = map[string]string{
	"NVT":        "bitcoin-nvt-ratio",
	"NVTS":       "bitcoin-nvt-signal",
	"MVRV":       "bitcoin-mvrv-ratio",
	"RVT":        "bitcoin-rvt-ratio",
	"DIFFICULTY": "bitcoin-difficulty-ribbon",
}

func woobullURL(r *PlatformRequest, addMessageURL bool) (string, string) {
	requestURL := "https://charts.woobull.com/" + woobullPages[r.ticker.ID] + "/"
	if !addMessageURL {
		return requestURL, ""
	}
	return requestURL, requestURL
}

func bitgurURL(r *PlatformRequest, addMessageURL bool) (string, string) {
	universe := r.groupValue(r.filters, catalog.GroupHeatmapUniverse)
	q := url.Values{}
	q.Set("period", r.first(r.timeframes))
	if mode := r.groupValue(r.filters, catalog.GroupHeatmapMode); mode != "" {
		q.Set("mode", mode)
	}
	requestURL := fmt.Sprintf("https://bitgur.com/map/%s?%s", universe, q.Encode())
	if !addMessageURL {
		return requestURL, ""
	}
	return requestURL, "https://bitgur.com/map/" + universe
}

func coinGeckoURL(r *PlatformRequest, addMessageURL bool) (string, string) {
	base := strings.ToLower(r.ticker.Base)
	q := url.Values{}
	q.Set("vs_currency", strings.ToLower(r.ticker.Quote))
	q.Set("symbols", base)
	requestURL := "https://api.coingecko.com/api/v3/coins/markets?" + q.Encode()
	if !addMessageURL {
		return requestURL, ""
	}
	return requestURL, "https://www.coingecko.com/en/search?query=" + url.QueryEscape(base)
}

// rendererURL is a route on the internal rendering service rather than a
// public page.
func rendererURL(r *PlatformRequest, _ bool) (string, string) {
	symbol := r.ticker.Symbol
	if symbol == "" {
		symbol = r.ticker.ID
	}
	q := url.Values{}
	if theme := r.groupValue(r.imageStyles, catalog.GroupTheme); theme != "" {
		q.Set("theme", theme)
	}
	if kind := r.groupValue(r.filters, catalog.GroupDataKind); kind != "" {
		q.Set("data", kind)
	}
	if r.ticker.IsReversed {
		q.Set("reversed", "1")
	}
	path := fmt.Sprintf("/%s/%s/%s/%s", strings.ToLower(r.platform.String()), r.kind, exchangeID(r.exchange), url.PathEscape(symbol))
	if len(q) == 0 {
		return path, ""
	}
	return path + "?" + q.Encode(), ""
}

func iexcURL(r *PlatformRequest, _ bool) (string, string) {
	if r.exchange != nil && r.exchange.ID == "forex" {
		return "https://cloud.iexapis.com/stable/fx/latest?symbols=" + url.QueryEscape(r.ticker.ID), ""
	}
	switch r.kind {
	case catalog.KindDepth:
		return fmt.Sprintf("https://cloud.iexapis.com/stable/deep/book?symbols=%s", url.QueryEscape(r.ticker.ID)), ""
	case catalog.KindDetail:
		return fmt.Sprintf("https://cloud.iexapis.com/stable/stock/%s/company", url.PathEscape(r.ticker.ID)), ""
	default:
		return fmt.Sprintf("https://cloud.iexapis.com/stable/stock/%s/quote", url.PathEscape(r.ticker.ID)), ""
	}
}

func quandlURL(r *PlatformRequest, _ bool) (string, string) {
	return fmt.Sprintf("https://data.nasdaq.com/api/v3/datasets/%s.json?rows=1", quandlDatasets[r.ticker.ID]), ""
}

func exchangeID(ex *domain.Exchange) string {
	if ex == nil {
		return "none"
	}
	return ex.ID
}

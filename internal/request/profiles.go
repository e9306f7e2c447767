package request

import (
	"alphabot/internal/catalog"
	"alphabot/internal/domain"
)

const (
	tv = domain.PlatformTradingView
	tl = domain.PlatformTradingLite
	bm = domain.PlatformBookmap
	gc = domain.PlatformGoCharting
	fv = domain.PlatformFinviz
	am = domain.PlatformAlternativeMe
	wb = domain.PlatformWoobull
	cg = domain.PlatformCoinGecko
	cx = domain.PlatformCCXT
	ix = domain.PlatformIEXC
	ql = domain.PlatformQuandl
	ld = domain.PlatformLLD
	bg = domain.PlatformBitgur
)

type caveat func(r *PlatformRequest)

// profile is the behavior of one platform for one request kind.
type profile struct {
	canCache bool
	// silent platforms only serve a few targets and never surface messages.
	silent bool
	// serves reports whether a silent platform handles the parsed request.
	serves         func(r *PlatformRequest) bool
	specialTickers bool
	defaults       map[catalog.Category][]string
	caveats        []caveat
}

type kindSpec struct {
	noun        string
	needsTicker bool
	exchanges   bool
	numerical   bool
	crypto      []domain.Platform
	traditional []domain.Platform
	platforms   map[domain.Platform]profile
}

var chartDefaults = func(timeframe, style, theme string) map[catalog.Category][]string {
	out := map[catalog.Category][]string{catalog.CategoryTimeframe: {timeframe}}
	if style != "" {
		out[catalog.CategoryChartStyle] = []string{style}
	}
	if theme != "" {
		out[catalog.CategoryImageStyle] = []string{theme}
	}
	return out
}

var kindSpecs = map[catalog.Kind]kindSpec{
	catalog.KindChart: {
		noun:        "chart",
		needsTicker: true,
		exchanges:   true,
		crypto:      []domain.Platform{tv, tl, bm, gc, fv, am, wb},
		traditional: []domain.Platform{tv, fv, gc, tl, bm, am, wb},
		platforms: map[domain.Platform]profile{
			tv: {canCache: true, specialTickers: true,
				defaults: chartDefaults("60", "candles", "dark"),
				caveats:  []caveat{pointAndFigureWithoutLog}},
			tl: {canCache: true,
				defaults: chartDefaults("60", "candles", "dark"),
				caveats:  []caveat{singleInstrument, exchangeRequired}},
			bm: {canCache: true,
				defaults: chartDefaults("60", "", "dark"),
				caveats:  []caveat{singleInstrument, singleTimeframe, exchangeRequired}},
			gc: {canCache: true,
				defaults: chartDefaults("60", "candles", "dark"),
				caveats:  []caveat{singleInstrument, pointAndFigureWithoutLog}},
			fv: {canCache: true,
				defaults: chartDefaults("1440", "candles", "light"),
				caveats:  []caveat{singleInstrument, singleTimeframe, noForex}},
			am: {canCache: true, silent: true, serves: servesTickers("FGI"),
				defaults: chartDefaults("1440", "", "dark"),
				caveats:  []caveat{singleTimeframe}},
			wb: {canCache: true, silent: true, serves: servesTickers(woobullCharts...),
				defaults: chartDefaults("1440", "", "dark"),
				caveats:  []caveat{singleTimeframe}},
		},
	},
	catalog.KindPrice: {
		noun:        "price",
		needsTicker: true,
		exchanges:   true,
		numerical:   true,
		crypto:      []domain.Platform{cg, cx, ix, ql, ld},
		traditional: []domain.Platform{ix, cg, cx, ql, ld},
		platforms: map[domain.Platform]profile{
			cg: {canCache: true, caveats: []caveat{singleInstrument}},
			cx: {caveats: []caveat{singleInstrument}},
			ix: {canCache: true, caveats: []caveat{singleInstrument}},
			ql: {canCache: true, silent: true, serves: servesTickers(quandlTickers()...)},
			ld: {silent: true, serves: servesDataKind, caveats: []caveat{singleInstrument}},
		},
	},
	catalog.KindDetail: {
		noun:        "details",
		needsTicker: true,
		exchanges:   true,
		crypto:      []domain.Platform{cg, ix},
		traditional: []domain.Platform{ix, cg},
		platforms: map[domain.Platform]profile{
			cg: {canCache: true, caveats: []caveat{singleInstrument}},
			ix: {canCache: true, caveats: []caveat{singleInstrument, noForex}},
		},
	},
	catalog.KindHeatmap: {
		noun:        "heatmap",
		crypto:      []domain.Platform{bg, fv},
		traditional: []domain.Platform{fv, bg},
		platforms: map[domain.Platform]profile{
			bg: {canCache: true,
				defaults: map[catalog.Category][]string{
					catalog.CategoryTimeframe:  {"1440"},
					catalog.CategoryFilter:     {"top100", "change"},
					catalog.CategoryImageStyle: {"dark"},
				},
				caveats: []caveat{singleTimeframe}},
			fv: {canCache: true,
				defaults: map[catalog.Category][]string{
					catalog.CategoryTimeframe: {"1440"},
					catalog.CategoryFilter:    {"sp500"},
				},
				caveats: []caveat{singleTimeframe}},
		},
	},
	catalog.KindDepth: {
		noun:        "orderbook visualization",
		needsTicker: true,
		exchanges:   true,
		crypto:      []domain.Platform{cx, ix},
		traditional: []domain.Platform{ix, cx},
		platforms: map[domain.Platform]profile{
			cx: {defaults: map[catalog.Category][]string{catalog.CategoryImageStyle: {"dark"}},
				caveats: []caveat{singleInstrument}},
			ix: {defaults: map[catalog.Category][]string{catalog.CategoryImageStyle: {"dark"}},
				caveats: []caveat{singleInstrument, noForex}},
		},
	},
	catalog.KindAlert: {
		noun:        "alert",
		needsTicker: true,
		exchanges:   true,
		numerical:   true,
		crypto:      []domain.Platform{cx, ix},
		traditional: []domain.Platform{ix, cx},
		platforms: map[domain.Platform]profile{
			cx: {caveats: []caveat{singleInstrument, singleLevel}},
			ix: {caveats: []caveat{singleInstrument, singleLevel}},
		},
	},
}

var woobullCharts = []string{"NVT", "NVTS", "MVRV", "RVT", "DIFFICULTY"}

// Quandl dataset codes by ticker.
var quandlDatasets = map[string]string{
	"GOLD":     "LBMA/GOLD",
	"SILVER":   "LBMA/SILVER",
	"PLATINUM": "LPPM/PLAT",
	"OIL":      "OPEC/ORB",
	"HASHRATE": "BCHAIN/HRATE",
}

func quandlTickers() []string {
	out := make([]string, 0, len(quandlDatasets))
	for k := range quandlDatasets {
		out = append(out, k)
	}
	return out
}

// Platforms returns the candidate platforms of kind in preference order.
func Platforms(kind catalog.Kind, bias domain.Bias) []domain.Platform {
	spec, ok := kindSpecs[kind]
	if !ok {
		return nil
	}
	if bias == domain.BiasTraditional {
		return append([]domain.Platform(nil), spec.traditional...)
	}
	return append([]domain.Platform(nil), spec.crypto...)
}

func servesTickers(ids ...string) func(r *PlatformRequest) bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return func(r *PlatformRequest) bool {
		return !r.ticker.IsAggregated() && set[r.ticker.ID]
	}
}

func servesDataKind(r *PlatformRequest) bool {
	for _, f := range r.filters {
		if f.Group == catalog.GroupDataKind {
			return true
		}
	}
	return false
}

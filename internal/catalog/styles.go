package catalog

// Group keys for mutually exclusive parameters.
const (
	GroupChartType        = "type"
	GroupTheme            = "theme"
	GroupHeatmapIntensity = "heatmapIntensity"
	GroupHeatmapUniverse  = "universe"
	GroupHeatmapMode      = "mode"
	GroupDataKind         = "dataKind"
	GroupSession          = "session"
)

var chartStyles = []Parameter{
	{ID: "candles", Name: "Candles", Group: GroupChartType,
		Phrases: []string{"candles", "candle", "candlestick", "candlesticks", "c"},
		Parsed:  native{tv: "1", tl: "candles", gc: "CANDLE", fv: "c"}},
	{ID: "bars", Name: "Bars", Group: GroupChartType,
		Phrases: []string{"bars", "bar", "ohlc"},
		Parsed:  native{tv: "0", gc: "OHLC"}},
	{ID: "line", Name: "Line", Group: GroupChartType,
		Phrases: []string{"line", "l"},
		Parsed:  native{tv: "2", tl: "line", gc: "LINE", fv: "l"}},
	{ID: "area", Name: "Area", Group: GroupChartType,
		Phrases: []string{"area", "mountain"},
		Parsed:  native{tv: "3", gc: "AREA"}},
	{ID: "renko", Name: "Renko", Group: GroupChartType,
		Phrases: []string{"renko"},
		Parsed:  native{tv: "4", gc: "RENKO"}},
	{ID: "kagi", Name: "Kagi", Group: GroupChartType,
		Phrases: []string{"kagi"},
		Parsed:  native{tv: "5", gc: "KAGI"}},
	{ID: "pnf", Name: "Point & Figure", Group: GroupChartType,
		Phrases: []string{"pnf", "pf", "p&f", "pointandfigure", "point&figure", "pointfigure"},
		Parsed:  native{tv: "6", gc: "POINT_FIGURE"}},
	{ID: "linebreak", Name: "Line Break", Group: GroupChartType,
		Phrases: []string{"linebreak", "lb", "break"},
		Parsed:  native{tv: "7", gc: "LINE_BREAK"}},
	{ID: "heikinashi", Name: "Heikin Ashi", Group: GroupChartType,
		Phrases: []string{"heikinashi", "heikin", "heiken", "heikenashi", "ha", "hk"},
		Parsed:  native{tv: "8", tl: "heikinashi", gc: "HEIKIN_ASHI"}},
	{ID: "hollow", Name: "Hollow Candles", Group: GroupChartType,
		Phrases: []string{"hollow", "hollowcandles", "hollowcandle"},
		Parsed:  native{tv: "9", gc: "HOLLOW_CANDLE"}},
	{ID: "ta", Name: "Technical Analysis", RequiresPro: true,
		Phrases: []string{"ta", "technicalanalysis", "technicals", "patterns"},
		Parsed:  native{fv: "ta=1"}},
}

var chartImageStyles = []Parameter{
	{ID: "light", Name: "Light theme", Group: GroupTheme,
		Phrases: []string{"light", "white"},
		Parsed:  native{tv: "light", tl: "light", bm: "light", gc: "light", fv: "light", am: "light", wb: "light"}},
	{ID: "dark", Name: "Dark theme", Group: GroupTheme,
		Phrases: []string{"dark", "black", "night"},
		Parsed:  native{tv: "dark", tl: "dark", bm: "dark", gc: "dark", am: "dark", wb: "dark"}},
	{ID: "log", Name: "Log scale",
		Phrases: []string{"log", "logarithmic", "logscale"},
		Parsed:  native{tv: "log", tl: "log", gc: "log"}},
	{ID: "wide", Name: "Wide",
		Phrases: []string{"wide", "widescreen"},
		Parsed:  native{tv: "wide", tl: "wide", bm: "wide", gc: "wide", fv: "wide"}},
	{ID: "link", Name: "Link",
		Phrases: []string{"link", "url"},
		Parsed:  native{tv: "link", tl: "link", bm: "link", gc: "link", fv: "link", am: "link", wb: "link"}},
}

var chartFilters = []Parameter{
	{ID: "heatmap0", Name: "Low heatmap intensity", Group: GroupHeatmapIntensity,
		Phrases: []string{"low", "lowintensity", "hm0"},
		Parsed:  native{tl: "0", bm: "0"}},
	{ID: "heatmap1", Name: "Normal heatmap intensity", Group: GroupHeatmapIntensity,
		Phrases: []string{"normal", "normalintensity", "hm1"},
		Parsed:  native{tl: "1", bm: "1"}},
	{ID: "heatmap2", Name: "Medium heatmap intensity", Group: GroupHeatmapIntensity,
		Phrases: []string{"medium", "mediumintensity", "hm2"},
		Parsed:  native{tl: "2", bm: "2"}},
	{ID: "heatmap3", Name: "High heatmap intensity", Group: GroupHeatmapIntensity,
		Phrases: []string{"high", "highintensity", "hm3"},
		Parsed:  native{tl: "3", bm: "3"}},
	{ID: "heatmap4", Name: "Crazy heatmap intensity", Group: GroupHeatmapIntensity,
		Phrases: []string{"crazy", "crazyintensity", "hm4"},
		Parsed:  native{tl: "4", bm: "4"}},
	{ID: "extended", Name: "Extended hours", Group: GroupSession,
		Phrases: []string{"extended", "extendedhours", "eth", "ext", "prepost"},
		Parsed:  native{tv: "extended", gc: "extended"}},
	{ID: "novolume", Name: "No volume",
		Phrases: []string{"novolume", "novol", "nv"},
		Parsed:  native{tv: "novolume", gc: "novolume"}},
}

var depthImageStyles = []Parameter{
	{ID: "light", Name: "Light theme", Group: GroupTheme,
		Phrases: []string{"light", "white"},
		Parsed:  on("light", cx, ix)},
	{ID: "dark", Name: "Dark theme", Group: GroupTheme,
		Phrases: []string{"dark", "black", "night"},
		Parsed:  on("dark", cx, ix)},
}

var heatmapImageStyles = []Parameter{
	{ID: "light", Name: "Light theme", Group: GroupTheme,
		Phrases: []string{"light", "white"},
		Parsed:  native{bg: "light"}},
	{ID: "dark", Name: "Dark theme", Group: GroupTheme,
		Phrases: []string{"dark", "black", "night"},
		Parsed:  native{bg: "dark", fv: ""}},
	{ID: "link", Name: "Link",
		Phrases: []string{"link", "url"},
		Parsed:  on("link", bg, fv)},
}

var heatmapFilters = []Parameter{
	{ID: "top10", Name: "Top 10", Group: GroupHeatmapUniverse,
		Phrases: []string{"top10", "top"},
		Parsed:  native{bg: "top10"}},
	{ID: "top100", Name: "Top 100", Group: GroupHeatmapUniverse,
		Phrases: []string{"top100"},
		Parsed:  native{bg: "top100"}},
	{ID: "tokens", Name: "Tokens", Group: GroupHeatmapUniverse,
		Phrases: []string{"tokens", "token"},
		Parsed:  native{bg: "tokens"}},
	{ID: "coins", Name: "Coins", Group: GroupHeatmapUniverse,
		Phrases: []string{"coins", "coin"},
		Parsed:  native{bg: "coins"}},
	{ID: "gainers", Name: "Gainers", Group: GroupHeatmapUniverse,
		Phrases: []string{"gainers", "gain", "gains"},
		Parsed:  native{bg: "gainers"}},
	{ID: "losers", Name: "Losers", Group: GroupHeatmapUniverse,
		Phrases: []string{"losers", "loss", "losses"},
		Parsed:  native{bg: "losers"}},
	{ID: "sp500", Name: "S&P 500", Group: GroupHeatmapUniverse,
		Phrases: []string{"sp500", "s&p500", "spx"},
		Parsed:  native{fv: "sec"}},
	{ID: "world", Name: "World", Group: GroupHeatmapUniverse,
		Phrases: []string{"world", "global"},
		Parsed:  native{fv: "geo"}},
	{ID: "full", Name: "All stocks", Group: GroupHeatmapUniverse,
		Phrases: []string{"full", "all", "stocks"},
		Parsed:  native{fv: "sec_all"}},
	{ID: "etf", Name: "ETFs", Group: GroupHeatmapUniverse,
		Phrases: []string{"etf", "etfs"},
		Parsed:  native{fv: "etf"}},
	{ID: "change", Name: "Price change", Group: GroupHeatmapMode,
		Phrases: []string{"change", "performance", "perf"},
		Parsed:  native{bg: "change", fv: ""}},
	{ID: "volatility", Name: "Volatility", Group: GroupHeatmapMode,
		Phrases: []string{"volatility", "vola", "vol"},
		Parsed:  native{bg: "volatility"}},
}

// Price data kinds served by LLD. Everything else quotes plain prices.
var priceFilters = []Parameter{
	{ID: "funding", Name: "Funding rate", Group: GroupDataKind,
		Phrases: []string{"funding", "fun", "fund", "fr", "fundingrate"},
		Parsed:  native{ld: "funding"}},
	{ID: "oi", Name: "Open interest", Group: GroupDataKind,
		Phrases: []string{"oi", "openinterest", "ov", "openvalue"},
		Parsed:  native{ld: "oi"}},
	{ID: "ls", Name: "Longs/shorts ratio", Group: GroupDataKind,
		Phrases: []string{"ls", "l/s", "longs/shorts", "longshort"},
		Parsed:  native{ld: "ls"}},
	{ID: "sl", Name: "Shorts/longs ratio", Group: GroupDataKind,
		Phrases: []string{"sl", "s/l", "shorts/longs", "shortlong"},
		Parsed:  native{ld: "sl"}},
	{ID: "dom", Name: "Dominance", Group: GroupDataKind,
		Phrases: []string{"dom", "dominance"},
		Parsed:  native{ld: "dom"}},
	{ID: "mcap", Name: "Market cap", Group: GroupDataKind,
		Phrases: []string{"mcap", "marketcap", "cap", "mc"},
		Parsed:  native{ld: "mcap"}},
}

package catalog

const (
	minutesDay   = 1440
	minutesWeek  = 10080
	minutesMonth = 43829
)

// Chart timeframes, ordered by duration. Range expansion walks this order.
var chartTimeframes = []Parameter{
	{ID: "1", Name: "1m", Minutes: 1,
		Phrases: []string{"1", "1m", "1min", "1mins", "1minute", "1minutes", "min", "m"},
		Parsed:  native{tv: "1", tl: "1", bm: "bm-1m", gc: "1m", fv: "i1"}},
	{ID: "3", Name: "3m", Minutes: 3,
		Phrases: []string{"3", "3m", "3min", "3mins", "3minute", "3minutes"},
		Parsed:  native{tv: "3", tl: "3", gc: "3m", fv: "i3"}},
	{ID: "5", Name: "5m", Minutes: 5,
		Phrases: []string{"5", "5m", "5min", "5mins", "5minute", "5minutes"},
		Parsed:  native{tv: "5", tl: "5", bm: "bm-5m", gc: "5m", fv: "i5"}},
	{ID: "15", Name: "15m", Minutes: 15,
		Phrases: []string{"15", "15m", "15min", "15mins", "15minute", "15minutes"},
		Parsed:  native{tv: "15", tl: "15", bm: "bm-15m", gc: "15m", fv: "i15"}},
	{ID: "30", Name: "30m", Minutes: 30,
		Phrases: []string{"30", "30m", "30min", "30mins", "30minute", "30minutes"},
		Parsed:  native{tv: "30", tl: "30", bm: "bm-30m", gc: "30m", fv: "i30"}},
	{ID: "45", Name: "45m", Minutes: 45,
		Phrases: []string{"45", "45m", "45min", "45mins", "45minute", "45minutes"},
		Parsed:  native{tv: "45"}},
	{ID: "60", Name: "1H", Minutes: 60,
		Phrases: []string{"60", "60m", "60min", "60mins", "60minute", "60minutes", "1h", "1hr", "1hour", "1hours", "hourly", "hour", "hr", "h"},
		Parsed:  native{tv: "60", tl: "60", bm: "bm-1h", gc: "1h", fv: "h"}},
	{ID: "120", Name: "2H", Minutes: 120,
		Phrases: []string{"120", "120m", "120min", "120mins", "120minute", "120minutes", "2", "2h", "2hr", "2hrs", "2hour", "2hours"},
		Parsed:  native{tv: "120", tl: "120", gc: "2h"}},
	{ID: "180", Name: "3H", Minutes: 180,
		Phrases: []string{"180", "180m", "180min", "180mins", "180minute", "180minutes", "3h", "3hr", "3hrs", "3hour", "3hours"},
		Parsed:  native{tv: "180"}},
	{ID: "240", Name: "4H", Minutes: 240,
		Phrases: []string{"240", "240m", "240min", "240mins", "240minute", "240minutes", "4", "4h", "4hr", "4hrs", "4hour", "4hours"},
		Parsed:  native{tv: "240", tl: "240", bm: "bm-4h", gc: "4h"}},
	{ID: "360", Name: "6H", Minutes: 360,
		Phrases: []string{"360", "360m", "360min", "360mins", "360minute", "360minutes", "6", "6h", "6hr", "6hrs", "6hour", "6hours"},
		Parsed:  native{tl: "360"}},
	{ID: "480", Name: "8H", Minutes: 480,
		Phrases: []string{"480", "480m", "480min", "480mins", "480minute", "480minutes", "8", "8h", "8hr", "8hrs", "8hour", "8hours"},
		Parsed:  native{tl: "480"}},
	{ID: "720", Name: "12H", Minutes: 720,
		Phrases: []string{"720", "720m", "720min", "720mins", "720minute", "720minutes", "12", "12h", "12hr", "12hrs", "12hour", "12hours"},
		Parsed:  native{tl: "720"}},
	{ID: "1440", Name: "1D", Minutes: minutesDay,
		Phrases: []string{"24", "24h", "24hr", "24hrs", "24hour", "24hours", "d", "day", "1d", "1day", "daily", "1440", "1440m", "1440min"},
		Parsed:  merge(on("D", tv), native{tl: "1440", bm: "bm-1d", gc: "1d", fv: "d", am: "1D", wb: "1D"})},
	{ID: "4320", Name: "3D", Minutes: 3 * minutesDay,
		Phrases: []string{"3d", "3day", "3days"},
		Parsed:  native{tv: "3D"}},
	{ID: "10080", Name: "1W", Minutes: minutesWeek,
		Phrases: []string{"7d", "7day", "7days", "w", "week", "1w", "1week", "weekly"},
		Parsed:  native{tv: "W", tl: "10080", gc: "1w", fv: "w"}},
	{ID: "43829", Name: "1M", Minutes: minutesMonth,
		Phrases: []string{"30d", "30day", "30days", "1mo", "1month", "mo", "month", "monthly"},
		Parsed:  native{tv: "M", gc: "1M", fv: "m"}},
}

// RangeExcluded holds timeframes that range expansion only emits when they
// are one of the endpoints.
var RangeExcluded = map[string]bool{
	"3":   true,
	"45":  true,
	"180": true,
	"360": true,
	"480": true,
	"720": true,
}

// Heatmap timeframes describe the performance window, not a candle size.
var heatmapTimeframes = []Parameter{
	{ID: "60", Name: "1H", Minutes: 60,
		Phrases: []string{"60", "60m", "1h", "1hr", "1hour", "hourly", "hour", "h"},
		Parsed:  native{bg: "1h"}},
	{ID: "1440", Name: "1D", Minutes: minutesDay,
		Phrases: []string{"24", "24h", "d", "day", "1d", "1day", "daily"},
		Parsed:  native{bg: "24h", fv: ""}},
	{ID: "10080", Name: "1W", Minutes: minutesWeek,
		Phrases: []string{"7d", "w", "week", "1w", "1week", "weekly"},
		Parsed:  native{bg: "7d", fv: "w1"}},
	{ID: "43829", Name: "1M", Minutes: minutesMonth,
		Phrases: []string{"30d", "1mo", "1month", "mo", "month", "monthly"},
		Parsed:  native{bg: "30d", fv: "w4"}},
	{ID: "131487", Name: "3M", Minutes: 3 * minutesMonth,
		Phrases: []string{"90d", "3mo", "3month", "3months", "quarter", "quarterly"},
		Parsed:  native{fv: "w13"}},
	{ID: "262974", Name: "6M", Minutes: 6 * minutesMonth,
		Phrases: []string{"180d", "6mo", "6month", "6months"},
		Parsed:  native{fv: "w26"}},
	{ID: "525949", Name: "1Y", Minutes: 12 * minutesMonth,
		Phrases: []string{"365d", "1y", "1yr", "1year", "year", "yearly"},
		Parsed:  native{fv: "w52"}},
	{ID: "ytd", Name: "YTD", Minutes: 13 * minutesMonth,
		Phrases: []string{"ytd"},
		Parsed:  native{fv: "ytd"}},
}

package index

import (
	"alphabot/internal/domain"
)

type exchangeInfo struct {
	id    string
	name  string
	class domain.MarketClass
}

// Venues the resolver knows about. Crypto venues get market lists from the
// builder; traditional venues are attributed through the symbol tables.
var knownExchanges = []exchangeInfo{
	{"binance", "Binance", domain.ClassCrypto},
	{"bitfinex", "Bitfinex", domain.ClassCrypto},
	{"bitflyer", "bitFlyer", domain.ClassCrypto},
	{"bitmex", "BitMEX", domain.ClassCrypto},
	{"bitstamp", "Bitstamp", domain.ClassCrypto},
	{"bittrex", "Bittrex", domain.ClassCrypto},
	{"bybit", "Bybit", domain.ClassCrypto},
	{"coinbasepro", "Coinbase Pro", domain.ClassCrypto},
	{"deribit", "Deribit", domain.ClassCrypto},
	{"gateio", "Gate.io", domain.ClassCrypto},
	{"gemini", "Gemini", domain.ClassCrypto},
	{"huobipro", "Huobi Pro", domain.ClassCrypto},
	{"kraken", "Kraken", domain.ClassCrypto},
	{"kucoin", "KuCoin", domain.ClassCrypto},
	{"okex", "OKEx", domain.ClassCrypto},
	{"poloniex", "Poloniex", domain.ClassCrypto},
	{"amex", "NYSE American", domain.ClassTraditional},
	{"arca", "NYSE Arca", domain.ClassTraditional},
	{"bats", "Cboe BZX", domain.ClassTraditional},
	{"forex", "Forex", domain.ClassTraditional},
	{"nasdaq", "NASDAQ", domain.ClassTraditional},
	{"nyse", "New York Stock Exchange", domain.ClassTraditional},
	{"otc", "OTC Markets", domain.ClassTraditional},
}

// DefaultShortcuts maps common abbreviations to exchange ids.
var DefaultShortcuts = map[string]string{
	"mex":      "bitmex",
	"bmx":      "bitmex",
	"cbp":      "coinbasepro",
	"gdax":     "coinbasepro",
	"coinbase": "coinbasepro",
	"bfx":      "bitfinex",
	"bin":      "binance",
	"bnc":      "binance",
	"bbt":      "bybit",
	"hbp":      "huobipro",
	"huobi":    "huobipro",
	"stamp":    "bitstamp",
	"krkn":     "kraken",
	"okx":      "okex",
	"gate":     "gateio",
}

// platformExchanges lists, in preference order, the venues each platform can
// chart or quote. CCXT is absent: it serves every loaded crypto venue.
var platformExchanges = map[domain.Platform][]string{
	domain.PlatformTradingView: {
		"binance", "coinbasepro", "bitmex", "bitfinex", "bitstamp", "kraken", "bybit", "huobipro",
		"okex", "kucoin", "gemini", "poloniex", "bittrex", "deribit",
		"nasdaq", "nyse", "amex", "arca", "otc", "forex",
	},
	domain.PlatformTradingLite: {
		"binance", "bitmex", "bitfinex", "coinbasepro", "bitstamp", "bybit", "huobipro", "kraken", "deribit", "okex",
	},
	domain.PlatformBookmap: {
		"binance", "bitmex", "bitfinex", "coinbasepro", "bitstamp", "kraken",
	},
	domain.PlatformGoCharting: {
		"binance", "bitmex", "coinbasepro", "bitfinex", "bybit", "kraken", "nasdaq", "nyse",
	},
	domain.PlatformFinviz: {"nasdaq", "nyse", "amex"},
	domain.PlatformIEXC:   {"nasdaq", "nyse", "amex", "arca", "bats", "otc", "forex"},
	domain.PlatformLLD: {
		"bitmex", "binance", "bitfinex", "bybit", "deribit", "okex", "huobipro",
	},
}

// reversedPlatforms accept a market found with base and quote swapped.
var reversedPlatforms = map[domain.Platform]bool{
	domain.PlatformCoinGecko: true,
	domain.PlatformCCXT:      true,
	domain.PlatformIEXC:      true,
}

// AcceptsReversed reports whether platform can serve an inverted market.
func AcceptsReversed(platform domain.Platform) bool {
	return reversedPlatforms[platform]
}

// usesExchanges reports whether markets on platform are picked per venue.
func usesExchanges(platform domain.Platform) bool {
	if platform == domain.PlatformCCXT {
		return true
	}
	_, ok := platformExchanges[platform]
	return ok
}

// Fiat currencies recognized even before exchange rates are loaded.
var baseFiat = []string{"USD", "EUR", "GBP", "JPY", "CAD", "AUD", "CHF", "CNY", "KRW", "RUB", "TRY", "BRL", "INR", "HKD", "SGD"}

var indexTickers = map[string]domain.Ticker{
	"DJI":   {ID: "DJ:DJI", Name: "Dow Jones Industrial Average", Symbol: "DJ:DJI"},
	"SPX":   {ID: "SP:SPX", Name: "S&P 500", Symbol: "SP:SPX"},
	"NDX":   {ID: "NASDAQ:NDX", Name: "Nasdaq 100", Symbol: "NASDAQ:NDX"},
	"DXY":   {ID: "TVC:DXY", Name: "U.S. Dollar Index", Symbol: "TVC:DXY"},
	"VIX":   {ID: "TVC:VIX", Name: "Volatility Index", Symbol: "TVC:VIX"},
	"US10Y": {ID: "TVC:US10Y", Name: "US 10 Year Treasury", Symbol: "TVC:US10Y"},
	"GOLD":  {ID: "TVC:GOLD", Name: "Gold", Symbol: "TVC:GOLD"},
	"TOTAL": {ID: "CRYPTOCAP:TOTAL", Name: "Crypto Total Market Cap", Symbol: "CRYPTOCAP:TOTAL"},
	"BTC.D": {ID: "CRYPTOCAP:BTC.D", Name: "Bitcoin Dominance", Symbol: "CRYPTOCAP:BTC.D"},
}

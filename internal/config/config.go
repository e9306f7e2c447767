package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"alphabot/internal/domain"
)

// DefaultIndexExchanges are the venues loaded from the CoinGecko ticker feed
// when INDEX_EXCHANGES is unset. Binance has its own loader.
var DefaultIndexExchanges = []string{
	"bitmex", "bitfinex", "coinbasepro", "bitstamp", "kraken", "bybit",
	"huobipro", "okex", "kucoin", "gemini", "poloniex", "bittrex", "deribit",
}

type Config struct {
	TelegramBotToken string
	DatabaseURL      string
	RedisURL         string
	HTTPPort         int
	APIKey           string

	CoinGeckoBaseURL   string
	IEXCToken          string
	BinanceEnabled     bool
	IndexRefreshHours  int
	IndexExchanges     []string
	CatalogOverlayPath string
	DefaultBias        domain.Bias

	RenderServiceURL   string
	RenderCacheTTLSecs int
}

func Load() *Config {
	cfg := &Config{
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		APIKey:           strings.TrimSpace(os.Getenv("API_KEY")),
		CoinGeckoBaseURL: strings.TrimSpace(os.Getenv("COINGECKO_BASE_URL")),
		IEXCToken:        strings.TrimSpace(os.Getenv("IEXC_TOKEN")),
		RenderServiceURL: strings.TrimSpace(os.Getenv("RENDER_SERVICE_URL")),

		CatalogOverlayPath: strings.TrimSpace(os.Getenv("CATALOG_OVERLAY_PATH")),
	}

	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set")
	}
	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL not set")
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, defaulting to localhost:6379")
		cfg.RedisURL = "localhost:6379"
	}
	if cfg.APIKey == "" {
		log.Println("Warning: API_KEY not set, index refresh endpoint is unauthenticated")
	}
	if cfg.IEXCToken == "" {
		log.Println("Warning: IEXC_TOKEN not set, stock and forex symbols will not load")
	}
	if cfg.RenderServiceURL == "" {
		log.Println("Warning: RENDER_SERVICE_URL not set, CCXT and LLD renders are disabled")
	}

	cfg.HTTPPort = 8080
	if v := strings.TrimSpace(os.Getenv("HTTP_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n < 65536 {
			cfg.HTTPPort = n
		}
	}

	cfg.BinanceEnabled = !strings.EqualFold(strings.TrimSpace(os.Getenv("BINANCE_ENABLED")), "false")

	cfg.IndexRefreshHours = 24
	if v := strings.TrimSpace(os.Getenv("INDEX_REFRESH_HOURS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.IndexRefreshHours = n
		}
	}

	cfg.IndexExchanges = DefaultIndexExchanges
	if v := strings.TrimSpace(os.Getenv("INDEX_EXCHANGES")); v != "" {
		var ids []string
		for _, id := range strings.Split(v, ",") {
			if id = strings.ToLower(strings.TrimSpace(id)); id != "" {
				ids = append(ids, id)
			}
		}
		if len(ids) > 0 {
			cfg.IndexExchanges = ids
		}
	}

	cfg.DefaultBias = domain.ParseBias(os.Getenv("DEFAULT_BIAS"))

	cfg.RenderCacheTTLSecs = 300
	if v := strings.TrimSpace(os.Getenv("RENDER_CACHE_TTL_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RenderCacheTTLSecs = n
		}
	}

	return cfg
}

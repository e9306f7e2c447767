package config

import (
	"testing"

	"alphabot/internal/domain"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TELEGRAM_BOT_TOKEN", "DATABASE_URL", "REDIS_URL", "HTTP_PORT", "API_KEY",
		"COINGECKO_BASE_URL", "IEXC_TOKEN", "BINANCE_ENABLED", "RENDER_SERVICE_URL",
		"RENDER_CACHE_TTL_SECS", "INDEX_REFRESH_HOURS", "INDEX_EXCHANGES",
		"CATALOG_OVERLAY_PATH", "DEFAULT_BIAS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	if cfg.RedisURL != "localhost:6379" {
		t.Fatalf("expected default redis url, got %s", cfg.RedisURL)
	}
	if cfg.HTTPPort != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.HTTPPort)
	}
	if !cfg.BinanceEnabled {
		t.Fatal("binance loader should be enabled by default")
	}
	if cfg.IndexRefreshHours != 24 || cfg.RenderCacheTTLSecs != 300 {
		t.Fatalf("unexpected cycle defaults: %+v", cfg)
	}
	if len(cfg.IndexExchanges) != len(DefaultIndexExchanges) {
		t.Fatalf("expected default exchanges, got %v", cfg.IndexExchanges)
	}
	if cfg.DefaultBias != domain.BiasCrypto {
		t.Fatalf("expected crypto bias, got %s", cfg.DefaultBias)
	}
}

func TestLoadWithEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis:6379")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("BINANCE_ENABLED", "false")
	t.Setenv("INDEX_REFRESH_HOURS", "6")
	t.Setenv("INDEX_EXCHANGES", " Kraken, ,bitstamp ")
	t.Setenv("DEFAULT_BIAS", "Traditional")
	t.Setenv("RENDER_CACHE_TTL_SECS", "60")

	cfg := Load()
	if cfg.TelegramBotToken != "token" || cfg.DatabaseURL != "postgres://example" || cfg.RedisURL != "redis:6379" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.HTTPPort != 9090 || cfg.BinanceEnabled || cfg.IndexRefreshHours != 6 || cfg.RenderCacheTTLSecs != 60 {
		t.Fatalf("unexpected numeric config: %+v", cfg)
	}
	if len(cfg.IndexExchanges) != 2 || cfg.IndexExchanges[0] != "kraken" || cfg.IndexExchanges[1] != "bitstamp" {
		t.Fatalf("unexpected exchanges: %v", cfg.IndexExchanges)
	}
	if cfg.DefaultBias != domain.BiasTraditional {
		t.Fatalf("expected traditional bias, got %s", cfg.DefaultBias)
	}

	t.Setenv("HTTP_PORT", "bad")
	t.Setenv("INDEX_REFRESH_HOURS", "-1")
	cfg = Load()
	if cfg.HTTPPort != 8080 || cfg.IndexRefreshHours != 24 {
		t.Fatalf("invalid values should fall back to defaults, got %+v", cfg)
	}
}

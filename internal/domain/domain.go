package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Bias shifts which market class is tried first when a symbol is ambiguous.
type Bias string

const (
	BiasCrypto      Bias = "crypto"
	BiasTraditional Bias = "traditional"
)

// ParseBias returns the matching bias, falling back to crypto.
func ParseBias(s string) Bias {
	if strings.EqualFold(strings.TrimSpace(s), string(BiasTraditional)) {
		return BiasTraditional
	}
	return BiasCrypto
}

// Defaults carries guild or account level preferences used during resolution.
type Defaults struct {
	Exchange string `json:"exchange,omitempty"`
}

// Listing groups the exchanges that list a base asset against one quote.
type Listing struct {
	Quote     string   `json:"quote"`
	Exchanges []string `json:"exchanges"`
}

// PriceSnapshot represents the latest price data for a resolved ticker.
type PriceSnapshot struct {
	Symbol          string  `json:"symbol"`
	Quote           string  `json:"quote"`
	Price           float64 `json:"price"`
	Volume24h       float64 `json:"volume_24h"`
	Change24hPct    float64 `json:"change_24h_pct"`
	LastUpdatedUnix int64   `json:"last_updated_unix"`
	Platform        string  `json:"platform"`
}

// GuildSettings are the per-chat preferences applied to every request.
type GuildSettings struct {
	ChatID    int64     `json:"chat_id"`
	Exchange  string    `json:"exchange,omitempty"`
	Bias      Bias      `json:"bias"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Defaults returns the resolution defaults carried by the settings.
func (g GuildSettings) Defaults() Defaults {
	return Defaults{Exchange: g.Exchange}
}

// Alert is a price level a chat asked to be notified about.
type Alert struct {
	ID        int64           `json:"id"`
	ChatID    int64           `json:"chat_id"`
	Platform  string          `json:"platform"`
	Exchange  string          `json:"exchange,omitempty"`
	TickerID  string          `json:"ticker_id"`
	Symbol    string          `json:"symbol"`
	Level     decimal.Decimal `json:"level"`
	CreatedAt time.Time       `json:"created_at"`
}

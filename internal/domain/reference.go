package domain

// Coin is one entry of the market-cap ranked coin registry.
type Coin struct {
	ID            string `json:"id"`
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Image         string `json:"image,omitempty"`
	MarketCapRank int    `json:"market_cap_rank"`
}

// Security is a traditional-market symbol with its listing venue.
type Security struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
}

// ForexPair is a currency pair such as EUR/USD.
type ForexPair struct {
	Symbol string `json:"symbol"`
	Base   string `json:"base"`
	Quote  string `json:"quote"`
}

package domain

import (
	"sort"
	"strings"
)

// Market is one tradable pair on an exchange.
type Market struct {
	// ID is the venue-native identifier, e.g. "XBTUSD" on BitMEX.
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Base   string `json:"base"`
	Quote  string `json:"quote"`
	Active bool   `json:"active"`
}

// MarketSet is the loaded market list of one venue.
type MarketSet struct {
	markets map[string]Market
	symbols []string
}

func NewMarketSet(markets []Market) *MarketSet {
	set := &MarketSet{markets: make(map[string]Market, len(markets))}
	for _, m := range markets {
		if m.Symbol == "" {
			m.Symbol = m.Base + "/" + m.Quote
		}
		if _, dup := set.markets[m.Symbol]; dup {
			continue
		}
		set.markets[m.Symbol] = m
		set.symbols = append(set.symbols, m.Symbol)
	}
	sort.Strings(set.symbols)
	return set
}

// Symbols returns market symbols in lexical order.
func (s *MarketSet) Symbols() []string {
	if s == nil {
		return nil
	}
	return s.symbols
}

func (s *MarketSet) Market(symbol string) (Market, bool) {
	if s == nil {
		return Market{}, false
	}
	m, ok := s.markets[symbol]
	return m, ok
}

// Active reports whether symbol is listed and currently trading.
func (s *MarketSet) Active(symbol string) bool {
	m, ok := s.Market(symbol)
	return ok && m.Active
}

func (s *MarketSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.markets)
}

// Exchange wraps a trading venue or data source.
type Exchange struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Class      MarketClass `json:"-"`
	Properties *MarketSet  `json:"-"`
}

func (e *Exchange) HasMarkets() bool {
	return e != nil && e.Properties.Len() > 0
}

// WithMarkets returns a copy of the exchange bound to a freshly loaded market list.
func (e *Exchange) WithMarkets(markets *MarketSet) *Exchange {
	cp := *e
	cp.Properties = markets
	return &cp
}

// NameVariants returns the lower-cased display name, its first word and the
// name without spaces.
func (e *Exchange) NameVariants() []string {
	name := strings.ToLower(e.Name)
	first := name
	if fields := strings.Fields(name); len(fields) > 0 {
		first = fields[0]
	}
	return []string{name, first, strings.ReplaceAll(name, " ", "")}
}

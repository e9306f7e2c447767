package domain

import (
	"strconv"
	"strings"
)

// Separators that split an aggregated ticker expression into parts.
const tickerSeparators = "+-*/()"

var quotePairs = map[rune]rune{
	'\'': '\'',
	'"':  '"',
	'‘':  '’',
	'“':  '”',
}

var shorthandQuotes = map[rune]string{
	'$': "USD",
	'€': "EUR",
}

// Ticker is a parsed instrument expression. Aggregated tickers combine several
// instruments (for example synthetic ratios) and only some platforms accept them.
type Ticker struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Base       string `json:"base,omitempty"`
	Quote      string `json:"quote,omitempty"`
	Symbol     string `json:"symbol,omitempty"`
	MCapRank   int    `json:"mcap_rank,omitempty"`
	IsReversed bool   `json:"is_reversed,omitempty"`
	// Literal tickers were typed in quotes or synthesized and bypass resolution.
	Literal bool `json:"literal,omitempty"`

	parts []TickerPart
}

// TickerPart is either a sub-ticker or a separator.
type TickerPart struct {
	Ticker    *Ticker
	Separator string
}

func (p TickerPart) IsSeparator() bool {
	return p.Ticker == nil
}

// TickerKey is the structural identity of a ticker.
type TickerKey struct {
	ID     string
	Base   string
	Quote  string
	Symbol string
}

// NewTicker parses a raw display string.
func NewTicker(raw string) Ticker {
	raw = strings.TrimSpace(raw)
	if lit, ok := unquote(raw); ok {
		return LiteralTicker(lit)
	}

	upper := strings.ToUpper(raw)
	if strings.ContainsAny(upper, tickerSeparators) && len(upper) > 1 {
		if parts := splitParts(upper); len(parts) > 1 {
			return Ticker{}.WithParts(parts)
		}
	}
	return newSimpleTicker(upper)
}

// LiteralTicker builds a ticker that is passed to platforms as typed.
func LiteralTicker(id string) Ticker {
	return Ticker{ID: id, Name: id, Base: id, Quote: id, Symbol: id, Literal: true}
}

func newSimpleTicker(upper string) Ticker {
	if upper == "" {
		return Ticker{}
	}
	first := []rune(upper)[0]
	if quote, ok := shorthandQuotes[first]; ok && len(upper) > len(string(first)) {
		base := strings.TrimPrefix(upper, string(first))
		return Ticker{ID: base + quote, Name: base + quote, Base: base, Quote: quote, Symbol: base + "/" + quote}
	}
	if _, err := strconv.ParseFloat(upper, 64); err == nil {
		return Ticker{ID: upper, Name: upper, Literal: true}
	}
	return Ticker{ID: upper, Name: upper, Base: upper}
}

func unquote(raw string) (string, bool) {
	runes := []rune(raw)
	if len(runes) < 3 {
		return "", false
	}
	closing, ok := quotePairs[runes[0]]
	if !ok || runes[len(runes)-1] != closing {
		return "", false
	}
	return string(runes[1 : len(runes)-1]), true
}

func splitParts(expr string) []TickerPart {
	var parts []TickerPart
	var current strings.Builder
	flush := func() {
		if current.Len() == 0 {
			return
		}
		t := newSimpleTicker(current.String())
		parts = append(parts, TickerPart{Ticker: &t})
		current.Reset()
	}
	for _, r := range expr {
		if strings.ContainsRune(tickerSeparators, r) {
			flush()
			parts = append(parts, TickerPart{Separator: string(r)})
			continue
		}
		if r == ' ' {
			continue
		}
		current.WriteRune(r)
	}
	flush()
	return parts
}

// Parts returns the ordered sub-tickers and separators. A non-aggregated
// ticker has exactly one part equal to itself.
func (t Ticker) Parts() []TickerPart {
	if len(t.parts) == 0 {
		self := t
		return []TickerPart{{Ticker: &self}}
	}
	out := make([]TickerPart, len(t.parts))
	copy(out, t.parts)
	return out
}

func (t Ticker) IsAggregated() bool {
	return len(t.parts) > 1
}

// WithParts returns a new ticker built from parts with its id and name recomputed.
func (t Ticker) WithParts(parts []TickerPart) Ticker {
	out := Ticker{parts: make([]TickerPart, 0, len(parts))}
	var id, name strings.Builder
	for _, p := range parts {
		if p.IsSeparator() {
			out.parts = append(out.parts, p)
			id.WriteString(p.Separator)
			name.WriteString(p.Separator)
			continue
		}
		sub := *p.Ticker
		sub.parts = nil
		out.parts = append(out.parts, TickerPart{Ticker: &sub})
		id.WriteString(sub.ID)
		name.WriteString(sub.Name)
	}
	out.ID = id.String()
	out.Name = name.String()
	if !out.IsAggregated() && len(out.parts) == 1 && !out.parts[0].IsSeparator() {
		return *out.parts[0].Ticker
	}
	return out
}

// Instruments returns the non-separator parts.
func (t Ticker) Instruments() []Ticker {
	var out []Ticker
	for _, p := range t.Parts() {
		if !p.IsSeparator() {
			out = append(out, *p.Ticker)
		}
	}
	return out
}

func (t Ticker) Key() TickerKey {
	return TickerKey{ID: t.ID, Base: t.Base, Quote: t.Quote, Symbol: t.Symbol}
}

// Equal compares tickers structurally so equivalent resolutions dedupe.
func (t Ticker) Equal(other Ticker) bool {
	return t.Key() == other.Key()
}

func (t Ticker) IsZero() bool {
	return t.ID == "" && len(t.parts) == 0
}

func (t Ticker) String() string {
	return t.ID
}

package index

import (
	"math"
	"sort"
	"strings"
	"time"

	"alphabot/internal/domain"
)

// Sources is the raw material of one index generation.
type Sources struct {
	Coins        []domain.Coin
	VsCurrencies []string
	Fiat         []string
	// Markets maps a crypto exchange id to its loaded market list.
	Markets   map[string][]domain.Market
	Stocks    []domain.Security
	OTC       []domain.Security
	Forex     []domain.ForexPair
	Shortcuts map[string]string
}

// Snapshot is one immutable generation of the resolution index.
type Snapshot struct {
	GeneratedAt time.Time

	exchanges    map[string]*domain.Exchange
	exchangeIDs  []string
	cryptoIDs    []string
	shortcuts    map[string]string
	ccxt         map[domain.Platform]map[string][]string
	coins        map[string]domain.Coin
	vsCurrencies []string
	fiat         map[string]bool
	stocks       map[string]domain.Security
	otc          map[string]domain.Security
	forex        map[string]domain.ForexPair
}

// NewSnapshot builds every derived table from src. The result is never
// mutated afterwards.
func NewSnapshot(src Sources) *Snapshot {
	s := &Snapshot{
		GeneratedAt: time.Now().UTC(),
		exchanges:   make(map[string]*domain.Exchange, len(knownExchanges)),
		shortcuts:   make(map[string]string, len(DefaultShortcuts)+len(src.Shortcuts)),
		ccxt:        make(map[domain.Platform]map[string][]string),
		coins:       make(map[string]domain.Coin, len(src.Coins)),
		fiat:        make(map[string]bool),
		stocks:      make(map[string]domain.Security, len(src.Stocks)),
		otc:         make(map[string]domain.Security, len(src.OTC)),
		forex:       make(map[string]domain.ForexPair, len(src.Forex)),
	}

	for _, info := range knownExchanges {
		ex := &domain.Exchange{ID: info.id, Name: info.name, Class: info.class}
		if markets, ok := src.Markets[info.id]; ok && info.class == domain.ClassCrypto {
			ex.Properties = domain.NewMarketSet(markets)
		}
		s.exchanges[info.id] = ex
		s.exchangeIDs = append(s.exchangeIDs, info.id)
		if info.class == domain.ClassCrypto {
			s.cryptoIDs = append(s.cryptoIDs, info.id)
		}
	}
	sort.Strings(s.exchangeIDs)
	sort.Strings(s.cryptoIDs)

	for k, v := range DefaultShortcuts {
		s.shortcuts[k] = v
	}
	for k, v := range src.Shortcuts {
		s.shortcuts[strings.ToLower(k)] = strings.ToLower(v)
	}

	for _, c := range src.Coins {
		sym := strings.ToUpper(c.Symbol)
		if sym == "" {
			continue
		}
		// Symbols are unique; the better ranked coin keeps the ticker.
		if prev, ok := s.coins[sym]; ok && rankOrMax(prev.MarketCapRank) <= rankOrMax(c.MarketCapRank) {
			continue
		}
		c.Symbol = sym
		s.coins[sym] = c
	}

	for _, vs := range src.VsCurrencies {
		s.vsCurrencies = append(s.vsCurrencies, strings.ToUpper(vs))
	}
	// Longer currencies first so USDT is tried before USD.
	sort.SliceStable(s.vsCurrencies, func(i, j int) bool {
		if len(s.vsCurrencies[i]) != len(s.vsCurrencies[j]) {
			return len(s.vsCurrencies[i]) > len(s.vsCurrencies[j])
		}
		return s.vsCurrencies[i] < s.vsCurrencies[j]
	})

	for _, f := range baseFiat {
		s.fiat[f] = true
	}
	for _, f := range src.Fiat {
		s.fiat[strings.ToUpper(f)] = true
	}

	for _, sec := range src.Stocks {
		s.stocks[strings.ToUpper(sec.Symbol)] = sec
	}
	for _, sec := range src.OTC {
		s.otc[strings.ToUpper(sec.Symbol)] = sec
	}
	for _, pair := range src.Forex {
		key := strings.ToUpper(pair.Base + pair.Quote)
		s.forex[key] = pair
	}

	s.buildQuoteRankings()
	return s
}

func (s *Snapshot) buildQuoteRankings() {
	platforms := []domain.Platform{domain.PlatformCCXT}
	for p := range platformExchanges {
		platforms = append(platforms, p)
	}
	for _, p := range platforms {
		quotes := make(map[string]map[string]bool)
		for _, id := range s.SupportedExchanges(p) {
			ex := s.exchanges[id]
			if !ex.HasMarkets() {
				continue
			}
			for _, sym := range ex.Properties.Symbols() {
				m, _ := ex.Properties.Market(sym)
				if quotes[m.Base] == nil {
					quotes[m.Base] = make(map[string]bool)
				}
				quotes[m.Base][m.Quote] = true
			}
		}
		if len(quotes) == 0 {
			continue
		}
		ranking := make(map[string][]string, len(quotes))
		for base, set := range quotes {
			list := make([]string, 0, len(set))
			for q := range set {
				list = append(list, q)
			}
			ranking[base] = s.rankQuotes(base, list)
		}
		s.ccxt[p] = ranking
	}
}

// rankQuotes orders quotes by market-cap rank. USDT and USD go to the front,
// or right after the first quote when base is a top four coin other than the
// ones usually quoted in dollars.
func (s *Snapshot) rankQuotes(base string, quotes []string) []string {
	var stable []string
	var rest []string
	for _, q := range quotes {
		if q == "USDT" || q == "USD" {
			continue
		}
		rest = append(rest, q)
	}
	for _, q := range []string{"USDT", "USD"} {
		for _, candidate := range quotes {
			if candidate == q {
				stable = append(stable, q)
			}
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		ri, rj := s.coinRank(rest[i]), s.coinRank(rest[j])
		if ri != rj {
			return ri < rj
		}
		return rest[i] < rest[j]
	})

	at := 0
	if rank := s.coinRank(base); rank >= 1 && rank <= 4 && !dollarQuotedMajors[base] {
		at = 1
	}
	if at > len(rest) {
		at = len(rest)
	}
	out := make([]string, 0, len(quotes))
	out = append(out, rest[:at]...)
	out = append(out, stable...)
	out = append(out, rest[at:]...)
	return out
}

var dollarQuotedMajors = map[string]bool{"ETH": true, "XRP": true, "BCH": true, "LTC": true}

func (s *Snapshot) coinRank(symbol string) int {
	if c, ok := s.coins[symbol]; ok {
		return rankOrMax(c.MarketCapRank)
	}
	return math.MaxInt32
}

func rankOrMax(rank int) int {
	if rank <= 0 {
		return math.MaxInt32
	}
	return rank
}

// Exchange returns a known exchange by id.
func (s *Snapshot) Exchange(id string) *domain.Exchange {
	return s.exchanges[strings.ToLower(id)]
}

// SupportedExchanges returns the venue ids of platform in preference order.
func (s *Snapshot) SupportedExchanges(platform domain.Platform) []string {
	if platform == domain.PlatformCCXT {
		return s.cryptoIDs
	}
	return platformExchanges[platform]
}

// QuoteRanking returns the precomputed quote order of base on platform.
func (s *Snapshot) QuoteRanking(platform domain.Platform, base string) []string {
	return s.ccxt[platform][strings.ToUpper(base)]
}

func (s *Snapshot) IsFiat(symbol string) bool {
	return s.fiat[strings.ToUpper(symbol)]
}

// Coin returns the registry entry of an upper-cased symbol.
func (s *Snapshot) Coin(symbol string) (domain.Coin, bool) {
	c, ok := s.coins[strings.ToUpper(symbol)]
	return c, ok
}

// Stats summarizes the generation for logs and health output.
type Stats struct {
	Exchanges       int       `json:"exchanges"`
	LoadedExchanges int       `json:"loaded_exchanges"`
	Coins           int       `json:"coins"`
	Stocks          int       `json:"stocks"`
	Forex           int       `json:"forex"`
	GeneratedAt     time.Time `json:"generated_at"`
}

func (s *Snapshot) Stats() Stats {
	st := Stats{
		Exchanges:   len(s.exchanges),
		Coins:       len(s.coins),
		Stocks:      len(s.stocks) + len(s.otc),
		Forex:       len(s.forex),
		GeneratedAt: s.GeneratedAt,
	}
	for _, ex := range s.exchanges {
		if ex.HasMarkets() {
			st.LoadedExchanges++
		}
	}
	return st
}

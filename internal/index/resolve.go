package index

import (
	"math"
	"sort"
	"strings"

	"alphabot/internal/domain"
)

// Fit scores used when a symbol has to be split into base and quote.
const (
	fitExact     = 2
	fitPartial   = 1
	minBaseShare = 0.5
)

// Quote preference for bases without a precomputed ranking.
var preferredQuotes = []string{"USDT", "USD", "BTC", "ETH", "EUR", "BUSD", "USDC"}

// FindExchange matches raw against venue ids, display names and shortcuts.
// It returns nil when nothing matches; native reports whether platform
// supports the matched venue.
func (s *Snapshot) FindExchange(raw string, platform domain.Platform, bias domain.Bias) (*domain.Exchange, bool) {
	token := strings.ToLower(strings.TrimSpace(raw))
	if token == "" {
		return nil, false
	}
	if id, ok := s.shortcuts[token]; ok {
		token = id
	}

	own := s.SupportedExchanges(platform)
	ownSet := make(map[string]bool, len(own))
	for _, id := range own {
		ownSet[id] = true
	}
	others := s.otherExchanges(ownSet, bias)

	for _, match := range []func(*domain.Exchange, string) bool{exactExchangeMatch, fuzzyExchangeMatch} {
		for _, id := range own {
			if ex := s.exchanges[id]; ex != nil && match(ex, token) {
				return ex, true
			}
		}
		for _, id := range others {
			if ex := s.exchanges[id]; ex != nil && match(ex, token) {
				return ex, false
			}
		}
	}
	return nil, false
}

// otherExchanges lists venues outside ownSet, those matching bias first.
func (s *Snapshot) otherExchanges(ownSet map[string]bool, bias domain.Bias) []string {
	preferred := domain.ClassCrypto
	if bias == domain.BiasTraditional {
		preferred = domain.ClassTraditional
	}
	var first, rest []string
	for _, id := range s.exchangeIDs {
		ex := s.exchanges[id]
		if ex == nil || ownSet[id] {
			continue
		}
		if ex.Class == preferred {
			first = append(first, id)
		} else {
			rest = append(rest, id)
		}
	}
	return append(first, rest...)
}

func exactExchangeMatch(ex *domain.Exchange, token string) bool {
	if ex.ID == token {
		return true
	}
	for _, v := range ex.NameVariants() {
		if v == token {
			return true
		}
	}
	return false
}

// fuzzyExchangeMatch accepts prefixes and suffixes that cover at least a third
// of the candidate name.
func fuzzyExchangeMatch(ex *domain.Exchange, token string) bool {
	for _, v := range append([]string{ex.ID}, ex.NameVariants()...) {
		if len(token)*3 < len(v) {
			continue
		}
		if strings.HasPrefix(v, token) || strings.HasSuffix(v, token) {
			return true
		}
	}
	return false
}

// ProcessKnownTickers applies literal overrides and then resolves t with the
// resolver matching the platform class and bias.
func (s *Snapshot) ProcessKnownTickers(t domain.Ticker, ex *domain.Exchange, platform domain.Platform, defaults domain.Defaults, bias domain.Bias) (domain.Ticker, *domain.Exchange, bool) {
	if t.Literal {
		return t, ex, true
	}
	if t.IsAggregated() {
		return s.resolveParts(t, ex, platform, defaults, bias)
	}

	if bias == domain.BiasCrypto && platform.Class() != domain.ClassTraditional && (t.ID == "XBT" || t.ID == "XBTUSD") {
		btc := domain.Ticker{ID: "XBTUSD", Name: "Bitcoin", Base: "BTC", Quote: "USD", Symbol: "BTC/USD", MCapRank: s.coins["BTC"].MarketCapRank}
		if (ex == nil || ex.ID == "bitmex") && s.supports(platform, "bitmex") {
			return btc, s.exchanges["bitmex"], true
		}
		if ex == nil && !usesExchanges(platform) {
			btc.ID = "BTCUSD"
			return btc, nil, true
		}
		t = domain.Ticker{ID: "BTCUSD", Name: "BTCUSD", Base: "BTC", Quote: "USD"}
	}
	if platform == domain.PlatformTradingView && ex == nil {
		if idx, ok := indexTickers[t.ID]; ok {
			idx.Base = t.ID
			return idx, nil, true
		}
	}

	switch platform.Class() {
	case domain.ClassCrypto:
		return s.resolveCrypto(t, ex, platform, defaults)
	case domain.ClassTraditional:
		return s.resolveTraditional(t, ex)
	case domain.ClassMixed:
		cryptoFirst := bias == domain.BiasCrypto
		if ex != nil {
			cryptoFirst = ex.Class == domain.ClassCrypto
			if cryptoFirst {
				return s.resolveCrypto(t, ex, platform, defaults)
			}
			return s.resolveTraditional(t, ex)
		}
		if cryptoFirst {
			if out, outEx, ok := s.resolveCrypto(t, ex, platform, defaults); ok {
				return out, outEx, true
			}
			return s.resolveTraditional(t, ex)
		}
		if out, outEx, ok := s.resolveTraditional(t, ex); ok {
			return out, outEx, true
		}
		return s.resolveCrypto(t, ex, platform, defaults)
	default:
		return t, ex, true
	}
}

func (s *Snapshot) resolveParts(t domain.Ticker, ex *domain.Exchange, platform domain.Platform, defaults domain.Defaults, bias domain.Bias) (domain.Ticker, *domain.Exchange, bool) {
	parts := t.Parts()
	resolved := make([]domain.TickerPart, len(parts))
	var firstEx *domain.Exchange
	for i, p := range parts {
		if p.IsSeparator() || p.Ticker.Literal {
			resolved[i] = p
			continue
		}
		out, partEx, ok := s.ProcessKnownTickers(*p.Ticker, ex, platform, defaults, bias)
		if !ok {
			return domain.Ticker{}, ex, false
		}
		resolved[i] = domain.TickerPart{Ticker: &out}
		if firstEx == nil {
			firstEx = partEx
		}
	}
	if firstEx == nil {
		firstEx = ex
	}
	return t.WithParts(resolved), firstEx, true
}

func (s *Snapshot) resolveCrypto(t domain.Ticker, ex *domain.Exchange, platform domain.Platform, defaults domain.Defaults) (domain.Ticker, *domain.Exchange, bool) {
	if ex != nil && ex.Class != domain.ClassCrypto {
		return domain.Ticker{}, ex, false
	}
	if usesExchanges(platform) {
		return s.FindCCXTCryptoMarket(t, ex, platform, defaults)
	}
	out, ok := s.FindCoinGeckoCryptoMarket(t)
	return out, nil, ok
}

func (s *Snapshot) resolveTraditional(t domain.Ticker, ex *domain.Exchange) (domain.Ticker, *domain.Exchange, bool) {
	if ex != nil && ex.Class != domain.ClassTraditional {
		return domain.Ticker{}, ex, false
	}
	out, venue, ok := s.FindIEXCMarket(t)
	if !ok {
		return domain.Ticker{}, ex, false
	}
	if ex != nil {
		venue = ex
	}
	return out, venue, true
}

func (s *Snapshot) supports(platform domain.Platform, exchangeID string) bool {
	for _, id := range s.SupportedExchanges(platform) {
		if id == exchangeID {
			return true
		}
	}
	return false
}

// FindCCXTCryptoMarket walks the venues of platform (or only the pinned one)
// and returns the first active market matching t. On failure the pinned
// exchange is returned unchanged.
func (s *Snapshot) FindCCXTCryptoMarket(t domain.Ticker, ex *domain.Exchange, platform domain.Platform, defaults domain.Defaults) (domain.Ticker, *domain.Exchange, bool) {
	base := t.Base
	if base == "" {
		base = t.ID
	}
	base = strings.ToUpper(base)
	for _, id := range s.searchOrder(ex, platform, defaults) {
		venue := s.exchanges[id]
		if !venue.HasMarkets() {
			continue
		}
		if out, ok := s.matchOnExchange(t, base, venue.Properties, platform); ok {
			return out, venue, true
		}
	}
	return domain.Ticker{}, ex, false
}

func (s *Snapshot) searchOrder(ex *domain.Exchange, platform domain.Platform, defaults domain.Defaults) []string {
	if ex != nil {
		return []string{ex.ID}
	}
	supported := s.SupportedExchanges(platform)
	preferred := strings.ToLower(defaults.Exchange)
	if preferred == "" || !s.supports(platform, preferred) {
		return supported
	}
	order := make([]string, 0, len(supported))
	order = append(order, preferred)
	for _, id := range supported {
		if id != preferred {
			order = append(order, id)
		}
	}
	return order
}

func (s *Snapshot) matchOnExchange(t domain.Ticker, base string, markets *domain.MarketSet, platform domain.Platform) (domain.Ticker, bool) {
	reversed := AcceptsReversed(platform)
	if t.Quote != "" {
		quote := strings.ToUpper(t.Quote)
		if m, ok := markets.Market(base + "/" + quote); ok && m.Active {
			return s.marketTicker(m, false), true
		}
		if reversed {
			if m, ok := markets.Market(quote + "/" + base); ok && m.Active {
				return s.marketTicker(m, true), true
			}
		}
		return domain.Ticker{}, false
	}

	if ranking := s.QuoteRanking(platform, base); len(ranking) > 0 && !s.IsFiat(base) {
		for _, quote := range ranking {
			if m, ok := markets.Market(base + "/" + quote); ok && m.Active {
				return s.marketTicker(m, false), true
			}
		}
		return domain.Ticker{}, false
	}
	return s.scanMarkets(base, markets, platform, reversed)
}

type marketCandidate struct {
	market   domain.Market
	fit      int
	rank     int
	reversed bool
}

func (c marketCandidate) beats(other marketCandidate) bool {
	if c.fit != other.fit {
		return c.fit > other.fit
	}
	return c.rank < other.rank
}

// scanMarkets splits a concatenated symbol such as ADABTC by scoring every
// market on the venue.
func (s *Snapshot) scanMarkets(token string, markets *domain.MarketSet, platform domain.Platform, reversed bool) (domain.Ticker, bool) {
	var best marketCandidate
	for _, sym := range markets.Symbols() {
		m, _ := markets.Market(sym)
		if !m.Active {
			continue
		}
		if m.Base+m.Quote == token {
			return s.marketTicker(m, false), true
		}
		if reversed && m.Quote+m.Base == token {
			return s.marketTicker(m, true), true
		}

		var candidates []marketCandidate
		if m.Base == token {
			candidates = append(candidates, marketCandidate{market: m, fit: fitExact, rank: s.quoteRank(platform, m.Base, m.Quote)})
		} else if partialFit(token, m.Base, m.Quote) {
			candidates = append(candidates, marketCandidate{market: m, fit: fitPartial, rank: s.quoteRank(platform, m.Base, m.Quote)})
		}
		if reversed && partialFit(token, m.Quote, m.Base) {
			candidates = append(candidates, marketCandidate{market: m, fit: fitPartial, rank: s.quoteRank(platform, m.Quote, m.Base), reversed: true})
		}
		for _, c := range candidates {
			if best.fit == 0 || c.beats(best) {
				best = c
			}
		}
	}
	if best.fit == 0 {
		return domain.Ticker{}, false
	}
	return s.marketTicker(best.market, best.reversed), true
}

// partialFit reports whether token is base followed by the start of quote,
// with base making up at least half of the token.
func partialFit(token, base, quote string) bool {
	if base == "" || len(token) <= len(base) || !strings.HasPrefix(token, base) {
		return false
	}
	rest := token[len(base):]
	if !strings.HasPrefix(quote, rest) {
		return false
	}
	return float64(len(base))/float64(len(token)) >= minBaseShare
}

func (s *Snapshot) quoteRank(platform domain.Platform, base, quote string) int {
	for i, q := range s.QuoteRanking(platform, base) {
		if q == quote {
			return i
		}
	}
	for i, q := range preferredQuotes {
		if q == quote {
			return 100 + i
		}
	}
	return math.MaxInt32
}

func (s *Snapshot) marketTicker(m domain.Market, reversed bool) domain.Ticker {
	coin := s.coins[m.Base]
	name := coin.Name
	if name == "" {
		name = m.Base
	}
	t := domain.Ticker{
		ID:       cleanMarketID(m),
		Name:     name,
		Base:     m.Base,
		Quote:    m.Quote,
		Symbol:   m.Symbol,
		MCapRank: coin.MarketCapRank,
	}
	if reversed {
		t.ID = m.Quote + m.Base
		t.Name = m.Quote + m.Base
		t.Base, t.Quote = m.Quote, m.Base
		t.MCapRank = s.coins[m.Quote].MarketCapRank
		t.IsReversed = true
	}
	return t
}

func cleanMarketID(m domain.Market) string {
	id := strings.NewReplacer("/", "", "-", "", "_", "", ":", "").Replace(strings.ToUpper(m.ID))
	if id == "" {
		return m.Base + m.Quote
	}
	return id
}

// FindCoinGeckoCryptoMarket resolves t against the market-cap registry. An
// exact symbol match always wins over the heuristics that follow it.
func (s *Snapshot) FindCoinGeckoCryptoMarket(t domain.Ticker) (domain.Ticker, bool) {
	sym := strings.ToUpper(t.Base)
	if sym == "" {
		sym = strings.ToUpper(t.ID)
	}
	if t.Quote != "" {
		quote := strings.ToUpper(t.Quote)
		if c, ok := s.coins[sym]; ok && s.isVsCurrency(quote) {
			return s.coinTicker(c, quote, false), true
		}
		return domain.Ticker{}, false
	}

	if c, ok := s.coins[sym]; ok {
		return s.coinTicker(c, s.defaultQuote(sym), false), true
	}

	for _, vs := range s.vsCurrencies {
		if len(sym) > len(vs) && strings.HasSuffix(sym, vs) {
			if c, ok := s.coins[strings.TrimSuffix(sym, vs)]; ok {
				return s.coinTicker(c, vs, false), true
			}
		}
	}

	if c, ok := s.bestPrefixCoin(sym); ok {
		quote := "BTC"
		if c.Symbol == "BTC" {
			quote = "USD"
		}
		return s.coinTicker(c, quote, false), true
	}

	for _, vs := range s.vsCurrencies {
		if len(sym) > len(vs) && strings.HasPrefix(sym, vs) {
			if c, ok := s.coins[strings.TrimPrefix(sym, vs)]; ok {
				return s.coinTicker(c, vs, true), true
			}
		}
	}
	return domain.Ticker{}, false
}

func (s *Snapshot) bestPrefixCoin(sym string) (domain.Coin, bool) {
	var best domain.Coin
	found := false
	for key, c := range s.coins {
		if !strings.HasPrefix(key, sym) {
			continue
		}
		if !found || rankOrMax(c.MarketCapRank) < rankOrMax(best.MarketCapRank) ||
			(rankOrMax(c.MarketCapRank) == rankOrMax(best.MarketCapRank) && key < best.Symbol) {
			best, found = c, true
		}
	}
	return best, found
}

func (s *Snapshot) defaultQuote(sym string) string {
	if sym == "BTC" {
		return "USD"
	}
	for _, q := range s.QuoteRanking(domain.PlatformCCXT, sym) {
		if s.isVsCurrency(q) {
			return q
		}
	}
	return "BTC"
}

func (s *Snapshot) isVsCurrency(symbol string) bool {
	if len(s.vsCurrencies) == 0 {
		return true
	}
	for _, vs := range s.vsCurrencies {
		if vs == symbol {
			return true
		}
	}
	return false
}

func (s *Snapshot) coinTicker(c domain.Coin, quote string, reversed bool) domain.Ticker {
	t := domain.Ticker{
		ID:       c.Symbol + quote,
		Name:     c.Name,
		Base:     c.Symbol,
		Quote:    quote,
		Symbol:   c.Symbol + "/" + quote,
		MCapRank: c.MarketCapRank,
	}
	if reversed {
		t.ID = quote + c.Symbol
		t.Base, t.Quote = quote, c.Symbol
		t.IsReversed = true
	}
	return t
}

// FindIEXCMarket resolves forex pairs in either direction, then stocks, then
// stocks typed with a USD prefix or suffix.
func (s *Snapshot) FindIEXCMarket(t domain.Ticker) (domain.Ticker, *domain.Exchange, bool) {
	sym := strings.ToUpper(t.ID)
	if t.Quote != "" && t.Base != "" {
		sym = strings.ToUpper(t.Base + t.Quote)
	} else if t.Base != "" {
		sym = strings.ToUpper(t.Base)
	}

	if pair, ok := s.forex[sym]; ok {
		return forexTicker(pair, false), s.exchanges["forex"], true
	}
	if len(sym) == 6 {
		if pair, ok := s.forex[sym[3:]+sym[:3]]; ok {
			return forexTicker(pair, true), s.exchanges["forex"], true
		}
	}

	if sec, ok := s.lookupSecurity(sym); ok {
		return stockTicker(sec, false), s.securityExchange(sec), true
	}
	if trimmed := strings.TrimSuffix(sym, "USD"); trimmed != sym && trimmed != "" {
		if sec, ok := s.lookupSecurity(trimmed); ok {
			return stockTicker(sec, false), s.securityExchange(sec), true
		}
	}
	if trimmed := strings.TrimPrefix(sym, "USD"); trimmed != sym && trimmed != "" {
		if sec, ok := s.lookupSecurity(trimmed); ok {
			return stockTicker(sec, true), s.securityExchange(sec), true
		}
	}
	return domain.Ticker{}, nil, false
}

func (s *Snapshot) lookupSecurity(sym string) (domain.Security, bool) {
	if sec, ok := s.stocks[sym]; ok {
		return sec, true
	}
	if sec, ok := s.otc[sym]; ok {
		if sec.Exchange == "" {
			sec.Exchange = "otc"
		}
		return sec, true
	}
	return domain.Security{}, false
}

func (s *Snapshot) securityExchange(sec domain.Security) *domain.Exchange {
	return s.exchanges[strings.ToLower(sec.Exchange)]
}

func forexTicker(pair domain.ForexPair, reversed bool) domain.Ticker {
	base, quote := strings.ToUpper(pair.Base), strings.ToUpper(pair.Quote)
	name := pair.Symbol
	if name == "" {
		name = base + "/" + quote
	}
	t := domain.Ticker{ID: base + quote, Name: name, Base: base, Quote: quote, Symbol: base + "/" + quote}
	if reversed {
		t.ID = quote + base
		t.Base, t.Quote = quote, base
		t.IsReversed = true
	}
	return t
}

func stockTicker(sec domain.Security, reversed bool) domain.Ticker {
	sym := strings.ToUpper(sec.Symbol)
	t := domain.Ticker{ID: sym, Name: sec.Name, Base: sym, Quote: "USD", Symbol: sym}
	if reversed {
		t.ID = "USD" + sym
		t.Base, t.Quote = "USD", sym
		t.IsReversed = true
	}
	return t
}

// GetListings groups the crypto venues listing t's base by quote currency.
// The ticker's own quote comes first, then the base's quote ranking, then the
// rest alphabetically. The count is the number of distinct venues.
func (s *Snapshot) GetListings(t domain.Ticker) ([]domain.Listing, int) {
	base := strings.ToUpper(t.Base)
	if base == "" {
		base = strings.ToUpper(t.ID)
	}
	byQuote := make(map[string][]string)
	venues := make(map[string]bool)
	for _, id := range s.cryptoIDs {
		ex := s.exchanges[id]
		if !ex.HasMarkets() {
			continue
		}
		seen := make(map[string]bool)
		for _, sym := range ex.Properties.Symbols() {
			m, _ := ex.Properties.Market(sym)
			if m.Base != base || !m.Active || seen[m.Quote] {
				continue
			}
			seen[m.Quote] = true
			byQuote[m.Quote] = append(byQuote[m.Quote], ex.Name)
			venues[id] = true
		}
	}

	var order []string
	placed := make(map[string]bool)
	add := func(q string) {
		if _, ok := byQuote[q]; ok && !placed[q] {
			order = append(order, q)
			placed[q] = true
		}
	}
	add(strings.ToUpper(t.Quote))
	for _, q := range s.QuoteRanking(domain.PlatformCCXT, base) {
		add(q)
	}
	var rest []string
	for q := range byQuote {
		if !placed[q] {
			rest = append(rest, q)
		}
	}
	sort.Strings(rest)
	for _, q := range rest {
		add(q)
	}

	listings := make([]domain.Listing, 0, len(order))
	for _, q := range order {
		listings = append(listings, domain.Listing{Quote: q, Exchanges: byQuote[q]})
	}
	return listings, len(venues)
}

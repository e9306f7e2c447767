package request

import (
	"fmt"
	"strings"

	"alphabot/internal/catalog"
	"alphabot/internal/domain"
	"alphabot/internal/index"

	"github.com/shopspring/decimal"
)

// Context carries the caller-side preferences for one command.
type Context struct {
	Defaults  domain.Defaults
	Bias      domain.Bias
	AccountID string
	AuthorID  string
}

// Indicator is a selected indicator with its numeric arguments.
type Indicator struct {
	catalog.Parameter
	Args []decimal.Decimal
}

// PlatformRequest parses one command against a single candidate platform.
// It is not safe for concurrent use; each command builds its own.
type PlatformRequest struct {
	kind     catalog.Kind
	platform domain.Platform
	spec     kindSpec
	profile  profile
	catalog  *catalog.Catalog
	snapshot *index.Snapshot
	ctx      Context

	ticker      domain.Ticker
	exchange    *domain.Exchange
	special     string
	timeframes  []catalog.Parameter
	indicators  []Indicator
	chartStyles []catalog.Parameter
	imageStyles []catalog.Parameter
	filters     []catalog.Parameter
	numerical   []decimal.Decimal

	errors      []errorEntry
	fatal       bool
	finalized   bool
	requiresPro bool
}

type step func(token string) (string, Result)

func newPlatformRequest(kind catalog.Kind, platform domain.Platform, cat *catalog.Catalog, snap *index.Snapshot, tickerToken string, rc Context) *PlatformRequest {
	spec := kindSpecs[kind]
	r := &PlatformRequest{
		kind:     kind,
		platform: platform,
		spec:     spec,
		profile:  spec.platforms[platform],
		catalog:  cat,
		snapshot: snap,
		ctx:      rc,
	}
	if tickerToken != "" {
		r.ticker = domain.NewTicker(tickerToken)
	}
	if _, ok := spec.platforms[platform]; !ok {
		r.setError(fmt.Sprintf("%s does not serve %s requests.", platform, kind), true)
	}
	return r
}

// AddToken offers token to every category in trial order. The first category
// that accepts it wins. A rejection is kept as a candidate error and only
// recorded when no later category accepts the token.
func (r *PlatformRequest) AddToken(token string) {
	if r.fatal {
		return
	}
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return
	}

	var candidate *string
	for _, try := range r.steps() {
		msg, res := try(token)
		switch res {
		case Accepted:
			return
		case Rejected:
			if candidate == nil {
				candidate = &msg
			}
		}
	}
	if candidate != nil {
		r.setError(*candidate, false)
		return
	}
	r.setError(fmt.Sprintf("`%s` is not a valid argument.", token), true)
}

func (r *PlatformRequest) steps() []step {
	return []step{
		r.addTimeframe,
		r.addTimeframeRange,
		r.addIndicator,
		r.categoryStep(catalog.CategoryChartStyle, &r.chartStyles),
		r.categoryStep(catalog.CategoryImageStyle, &r.imageStyles),
		r.categoryStep(catalog.CategoryFilter, &r.filters),
		r.addSpecialTicker,
		r.addExchange,
		r.addNumerical,
	}
}

// setError prepends an error. Silent platforms never surface messages, so
// their errors are recorded muted. An empty message is muted as well.
func (r *PlatformRequest) setError(msg string, fatal bool) {
	entry := errorEntry{message: msg, muted: msg == "" || r.profile.silent}
	r.errors = append([]errorEntry{entry}, r.errors...)
	if fatal {
		r.fatal = true
	}
}

func (r *PlatformRequest) mute() {
	r.setError("", true)
}

func (r *PlatformRequest) addTimeframe(token string) (string, Result) {
	p, ok := r.catalog.Lookup(catalog.CategoryTimeframe, token)
	if !ok {
		return "", Unclaimed
	}
	return r.addParameter(catalog.CategoryTimeframe, p, &r.timeframes)
}

func (r *PlatformRequest) addTimeframeRange(token string) (string, Result) {
	bounds := strings.Split(token, "-")
	if len(bounds) != 2 {
		return "", Unclaimed
	}
	start, ok := r.catalog.Lookup(catalog.CategoryTimeframe, bounds[0])
	if !ok {
		return "", Unclaimed
	}
	end, ok := r.catalog.Lookup(catalog.CategoryTimeframe, bounds[1])
	if !ok {
		return "", Unclaimed
	}

	// "1-4h" means hours, not one minute.
	if start.Minutes == 1 && end.Minutes > 60 {
		if hour, ok := r.catalog.Find(catalog.CategoryTimeframe, "60"); ok {
			start = hour
		}
	} else if end.Minutes == 1 && start.Minutes > 60 {
		if hour, ok := r.catalog.Find(catalog.CategoryTimeframe, "60"); ok {
			end = hour
		}
	}

	reversed := start.Minutes > end.Minutes
	lo, hi := start, end
	if reversed {
		lo, hi = end, start
	}

	var selected []catalog.Parameter
	for _, p := range r.catalog.List(catalog.CategoryTimeframe) {
		if p.Minutes < lo.Minutes || p.Minutes > hi.Minutes {
			continue
		}
		endpoint := p.ID == lo.ID || p.ID == hi.ID
		if !endpoint && catalog.RangeExcluded[p.ID] {
			continue
		}
		if !p.Supports(r.platform) {
			continue
		}
		selected = append(selected, p)
	}
	if len(selected) == 0 {
		return fmt.Sprintf("Timeframe range `%s` is not supported on %s.", token, r.platform), Rejected
	}
	if reversed {
		for i, j := 0, len(selected)-1; i < j; i, j = i+1, j-1 {
			selected[i], selected[j] = selected[j], selected[i]
		}
	}
	for _, p := range selected {
		if !r.has(r.timeframes, p) {
			r.timeframes = append(r.timeframes, p)
		}
	}
	return "", Accepted
}

func (r *PlatformRequest) addIndicator(token string) (string, Result) {
	p, ok := r.catalog.Lookup(catalog.CategoryIndicator, token)
	var args []decimal.Decimal
	if !ok {
		name, suffix := splitNumericSuffix(token)
		if name == "" || suffix == "" {
			return "", Unclaimed
		}
		if p, ok = r.catalog.Lookup(catalog.CategoryIndicator, name); !ok {
			return "", Unclaimed
		}
		value, err := decimal.NewFromString(suffix)
		if err != nil {
			return "", Unclaimed
		}
		args = []decimal.Decimal{value}
	}

	for _, existing := range r.indicators {
		if existing.ID == p.ID {
			return "", Accepted
		}
	}
	if !p.Supports(r.platform) {
		return unsupported(p, catalog.CategoryIndicator, r.platform), Rejected
	}
	if len(args) > 0 {
		if a, ok := p.Arity(r.platform); !ok || len(args) > a.Max {
			return fmt.Sprintf("`%s` indicator does not accept arguments on %s.", p.Name, r.platform), Rejected
		}
	}
	if p.RequiresPro {
		r.requiresPro = true
	}
	r.indicators = append(r.indicators, Indicator{Parameter: p, Args: args})
	return "", Accepted
}

func (r *PlatformRequest) categoryStep(cat catalog.Category, list *[]catalog.Parameter) step {
	return func(token string) (string, Result) {
		p, ok := r.catalog.Lookup(cat, token)
		if !ok {
			return "", Unclaimed
		}
		return r.addParameter(cat, p, list)
	}
}

// addParameter records p unless an entry with the same exclusion key is
// already present, in which case the token is silently ignored.
func (r *PlatformRequest) addParameter(cat catalog.Category, p catalog.Parameter, list *[]catalog.Parameter) (string, Result) {
	if r.has(*list, p) {
		return "", Accepted
	}
	if !p.Supports(r.platform) {
		return unsupported(p, cat, r.platform), Rejected
	}
	if p.RequiresPro {
		r.requiresPro = true
	}
	*list = append(*list, p)
	return "", Accepted
}

func (r *PlatformRequest) has(list []catalog.Parameter, p catalog.Parameter) bool {
	key := p.ExclusionKey()
	for _, existing := range list {
		if existing.ExclusionKey() == key {
			return true
		}
	}
	return false
}

func unsupported(p catalog.Parameter, cat catalog.Category, platform domain.Platform) string {
	return fmt.Sprintf("`%s` %s is not supported on %s.", p.Name, cat, platform)
}

var specialTickers = map[string]bool{
	"dom": true, "mcap": true, "longs": true, "shorts": true, "ls": true, "sl": true,
}

// addSpecialTicker rewrites the ticker into a derived series such as market
// dominance or the margin longs/shorts ratio.
func (r *PlatformRequest) addSpecialTicker(token string) (string, Result) {
	if !r.profile.specialTickers || !specialTickers[token] {
		return "", Unclaimed
	}
	if r.special == token {
		return "", Accepted
	}
	if r.special != "" || r.ticker.IsAggregated() || r.ticker.Literal || r.ticker.IsZero() {
		return fmt.Sprintf("`%s` cannot be applied to `%s`.", token, r.ticker.Name), Rejected
	}

	base := r.ticker.Base
	if base == "" {
		base = r.ticker.ID
	}
	longs := domain.LiteralTicker("BITFINEX:" + base + "USDLONGS")
	shorts := domain.LiteralTicker("BITFINEX:" + base + "USDSHORTS")

	switch token {
	case "dom":
		r.ticker = domain.LiteralTicker("CRYPTOCAP:" + base + ".D")
	case "mcap":
		r.ticker = domain.LiteralTicker("CRYPTOCAP:" + base)
	case "longs":
		r.ticker = longs
	case "shorts":
		r.ticker = shorts
	case "ls":
		r.ticker = ratioTicker(longs, shorts)
	case "sl":
		r.ticker = ratioTicker(shorts, longs)
	}
	if token != "dom" && token != "mcap" {
		r.exchange = r.snapshot.Exchange("bitfinex")
	}
	r.special = token
	return "", Accepted
}

// ratioTicker builds (a/(a+b)).
func ratioTicker(a, b domain.Ticker) domain.Ticker {
	return domain.Ticker{}.WithParts([]domain.TickerPart{
		{Separator: "("},
		{Ticker: &a},
		{Separator: "/"},
		{Separator: "("},
		{Ticker: &a},
		{Separator: "+"},
		{Ticker: &b},
		{Separator: ")"},
		{Separator: ")"},
	})
}

func (r *PlatformRequest) addExchange(token string) (string, Result) {
	if !r.spec.exchanges {
		return "", Unclaimed
	}
	ex, native := r.snapshot.FindExchange(token, r.platform, r.ctx.Bias)
	if ex == nil {
		return "", Unclaimed
	}
	if r.exchange != nil && r.exchange.ID == ex.ID {
		return "", Accepted
	}
	if !native {
		return fmt.Sprintf("`%s` exchange is not supported by %s.", ex.Name, r.platform), Rejected
	}
	if r.exchange != nil {
		return fmt.Sprintf("Only one exchange can be requested, `%s` is already selected.", r.exchange.Name), Rejected
	}
	r.exchange = ex
	return "", Accepted
}

// addNumerical fills the arguments of the last indicator first, then the
// request's own numerical parameters on kinds that take them.
func (r *PlatformRequest) addNumerical(token string) (string, Result) {
	value, err := decimal.NewFromString(token)
	if err != nil {
		return "", Unclaimed
	}
	if n := len(r.indicators); n > 0 {
		last := &r.indicators[n-1]
		if a, ok := last.Arity(r.platform); ok && len(last.Args) < a.Max {
			last.Args = append(last.Args, value)
			return "", Accepted
		}
	}
	if !r.spec.numerical {
		return "", Unclaimed
	}
	r.numerical = append(r.numerical, value)
	return "", Accepted
}

// splitNumericSuffix splits "rsi14" into "rsi" and "14".
func splitNumericSuffix(token string) (string, string) {
	i := len(token)
	for i > 0 && (token[i-1] >= '0' && token[i-1] <= '9' || token[i-1] == '.') {
		i--
	}
	return token[:i], token[i:]
}

// finalize resolves the ticker, runs the platform caveats and fills defaults.
// It runs once, after every token was offered.
func (r *PlatformRequest) finalize() {
	if r.finalized {
		return
	}
	r.finalized = true

	if r.profile.silent && !r.fatal && !r.profile.serves(r) {
		r.mute()
		return
	}
	if r.fatal {
		return
	}

	if r.spec.needsTicker {
		if r.ticker.IsZero() {
			r.setError(fmt.Sprintf("A ticker is required to request a %s.", r.spec.noun), true)
			return
		}
		out, ex, ok := r.snapshot.ProcessKnownTickers(r.ticker, r.exchange, r.platform, r.ctx.Defaults, r.ctx.Bias)
		if !ok {
			r.setError(r.notAvailable(), true)
			return
		}
		r.ticker, r.exchange = out, ex
	}

	for _, check := range r.profile.caveats {
		check(r)
		if r.fatal {
			return
		}
	}
	r.fillDefaults()
}

func (r *PlatformRequest) notAvailable() string {
	if r.exchange != nil {
		return fmt.Sprintf("Requested %s for `%s` is not available on %s.", r.spec.noun, r.ticker.Name, r.exchange.Name)
	}
	return fmt.Sprintf("Requested %s for `%s` is not available.", r.spec.noun, r.ticker.Name)
}

// fillDefaults adds the platform default of every group the user left unset.
// Ungrouped defaults only fill an empty category.
func (r *PlatformRequest) fillDefaults() {
	for _, cat := range catalog.Categories {
		ids := r.profile.defaults[cat]
		list := r.listFor(cat)
		if len(ids) == 0 || list == nil {
			continue
		}
		empty := len(*list) == 0
		for _, id := range ids {
			p, ok := r.catalog.Find(cat, id)
			if !ok || !p.Supports(r.platform) || r.has(*list, p) {
				continue
			}
			if p.Group == "" && !empty {
				continue
			}
			*list = append(*list, p)
		}
	}
}

func (r *PlatformRequest) listFor(cat catalog.Category) *[]catalog.Parameter {
	switch cat {
	case catalog.CategoryTimeframe:
		return &r.timeframes
	case catalog.CategoryChartStyle:
		return &r.chartStyles
	case catalog.CategoryImageStyle:
		return &r.imageStyles
	case catalog.CategoryFilter:
		return &r.filters
	default:
		return nil
	}
}

// errorCount is the arbitration weight. A muted head means the platform opted
// out and ranks below every real contender.
func (r *PlatformRequest) errorCount() int {
	if len(r.errors) > 0 && r.errors[0].muted {
		return maxErrors
	}
	return len(r.errors)
}

func (r *PlatformRequest) Platform() domain.Platform { return r.platform }
func (r *PlatformRequest) Kind() catalog.Kind         { return r.kind }
func (r *PlatformRequest) Ticker() domain.Ticker      { return r.ticker }
func (r *PlatformRequest) Exchange() *domain.Exchange { return r.exchange }
func (r *PlatformRequest) RequiresPro() bool          { return r.requiresPro }
func (r *PlatformRequest) CanCache() bool             { return r.profile.canCache }
func (r *PlatformRequest) Fatal() bool                { return r.fatal }

func (r *PlatformRequest) Timeframes() []catalog.Parameter  { return r.timeframes }
func (r *PlatformRequest) Indicators() []Indicator          { return r.indicators }
func (r *PlatformRequest) ChartStyles() []catalog.Parameter { return r.chartStyles }
func (r *PlatformRequest) ImageStyles() []catalog.Parameter { return r.imageStyles }
func (r *PlatformRequest) Filters() []catalog.Parameter     { return r.filters }
func (r *PlatformRequest) Numerical() []decimal.Decimal     { return r.numerical }

// Errors returns the recorded messages, most recent first. Muted entries are
// returned as empty strings.
func (r *PlatformRequest) Errors() []string {
	out := make([]string, len(r.errors))
	for i, e := range r.errors {
		if !e.muted {
			out[i] = e.message
		}
	}
	return out
}

func (r *PlatformRequest) hasParameter(list []catalog.Parameter, id string) bool {
	for _, p := range list {
		if p.ID == id {
			return true
		}
	}
	return false
}

package request

import (
	"fmt"
	"math"

	"alphabot/internal/catalog"
	"alphabot/internal/domain"
	"alphabot/internal/index"

	"github.com/shopspring/decimal"
)

const maxErrors = math.MaxInt

// Engine builds request handlers against the live index generation and the
// catalog set. It holds no per-command state.
type Engine struct {
	index    *index.Index
	catalogs *catalog.Set
}

func NewEngine(idx *index.Index, catalogs *catalog.Set) *Engine {
	if catalogs == nil {
		catalogs = catalog.Default()
	}
	return &Engine{index: idx, catalogs: catalogs}
}

// NewHandler prepares one PlatformRequest per candidate platform. Every
// request reads the same index generation.
func (e *Engine) NewHandler(kind catalog.Kind, tickerToken string, platforms []domain.Platform, rc Context) (*Handler, error) {
	snap, err := e.index.Current()
	if err != nil {
		return nil, err
	}
	if rc.Bias == "" {
		rc.Bias = domain.BiasCrypto
	}
	if len(platforms) == 0 {
		platforms = Platforms(kind, rc.Bias)
	}
	h := &Handler{kind: kind, tickerToken: tickerToken}
	cat := e.catalogs.For(kind)
	for _, p := range platforms {
		h.requests = append(h.requests, newPlatformRequest(kind, p, cat, snap, tickerToken, rc))
	}
	return h, nil
}

// Resolve parses tokens against every candidate and runs arbitration. A nil
// error means the handler selected a platform; a *UserError carries the one
// message to show.
func (e *Engine) Resolve(kind catalog.Kind, tickerToken string, tokens []string, platforms []domain.Platform, rc Context) (*Handler, error) {
	h, err := e.NewHandler(kind, tickerToken, platforms, rc)
	if err != nil {
		return nil, err
	}
	h.Parse(tokens)
	if uerr := h.PreferredPlatform(); uerr != nil {
		return h, uerr
	}
	return h, nil
}

// Handler owns the candidate requests of one command and, after arbitration,
// exposes the selected one.
type Handler struct {
	kind        catalog.Kind
	tickerToken string
	requests    []*PlatformRequest
	current     *PlatformRequest
}

// Parse feeds the same tokens to every candidate.
func (h *Handler) Parse(tokens []string) {
	for _, token := range tokens {
		for _, r := range h.requests {
			r.AddToken(token)
		}
	}
}

// PreferredPlatform finalizes every candidate and keeps the one with the
// fewest errors, earliest declared on a tie. Every zero-error candidate is
// kept. It returns nil when a zero-error candidate exists.
func (h *Handler) PreferredPlatform() *UserError {
	for _, r := range h.requests {
		r.finalize()
	}

	best := maxErrors
	var contenders []*PlatformRequest
	for _, r := range h.requests {
		n := r.errorCount()
		switch {
		case len(contenders) == 0 || n < best:
			best = n
			contenders = []*PlatformRequest{r}
		case n == best && best == 0:
			contenders = append(contenders, r)
		}
	}
	h.requests = contenders

	if len(contenders) == 0 {
		h.current = nil
		return &UserError{Message: h.NotAvailable()}
	}
	h.current = contenders[0]
	switch {
	case best == 0:
		return nil
	case best == maxErrors:
		return &UserError{Muted: true}
	default:
		return &UserError{Message: h.current.errors[0].message}
	}
}

// NotAvailable is the generic reply used when no candidate can serve the
// command.
func (h *Handler) NotAvailable() string {
	noun := "data"
	if spec, ok := kindSpecs[h.kind]; ok {
		noun = spec.noun
	}
	if h.tickerToken == "" {
		return fmt.Sprintf("Requested %s is not available.", noun)
	}
	return fmt.Sprintf("Requested %s for `%s` is not available.", noun, domain.NewTicker(h.tickerToken).Name)
}

// Current returns the selected request, or nil before arbitration.
func (h *Handler) Current() *PlatformRequest { return h.current }

// Candidates returns the requests still under consideration.
func (h *Handler) Candidates() []*PlatformRequest {
	return append([]*PlatformRequest(nil), h.requests...)
}

func (h *Handler) Kind() catalog.Kind { return h.kind }

func (h *Handler) Platform() domain.Platform {
	if h.current == nil {
		return 0
	}
	return h.current.platform
}

func (h *Handler) Ticker() domain.Ticker {
	if h.current == nil {
		return domain.Ticker{}
	}
	return h.current.ticker
}

func (h *Handler) Exchange() *domain.Exchange {
	if h.current == nil {
		return nil
	}
	return h.current.exchange
}

func (h *Handler) Timeframes() []catalog.Parameter {
	if h.current == nil {
		return nil
	}
	return h.current.timeframes
}

func (h *Handler) Indicators() []Indicator {
	if h.current == nil {
		return nil
	}
	return h.current.indicators
}

func (h *Handler) ChartStyles() []catalog.Parameter {
	if h.current == nil {
		return nil
	}
	return h.current.chartStyles
}

func (h *Handler) ImageStyles() []catalog.Parameter {
	if h.current == nil {
		return nil
	}
	return h.current.imageStyles
}

func (h *Handler) Filters() []catalog.Parameter {
	if h.current == nil {
		return nil
	}
	return h.current.filters
}

func (h *Handler) Numerical() []decimal.Decimal {
	if h.current == nil {
		return nil
	}
	return h.current.numerical
}

func (h *Handler) RequiresPro() bool {
	return h.current != nil && h.current.requiresPro
}

func (h *Handler) CanCache() bool {
	return h.current != nil && h.current.CanCache()
}

// Hash is the structural hash of the selected request.
func (h *Handler) Hash() string {
	if h.current == nil {
		return ""
	}
	return h.current.Hash()
}

// BuildURL returns the platform request URL and, when addMessageURL is set,
// a link suitable for the chat reply.
func (h *Handler) BuildURL(addMessageURL bool) (string, string) {
	if h.current == nil {
		return "", ""
	}
	return h.current.BuildURL(addMessageURL)
}

package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"alphabot/internal/catalog"
	"alphabot/internal/domain"
	"alphabot/internal/index"
	"alphabot/internal/request"
	"alphabot/internal/service"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const maxRequestsPerCommand = 5

const (
	msgNotReady = "The market index is still loading, try again in a minute."
	msgInternal = "Something went wrong while processing your request."
)

type SettingsStore interface {
	Get(ctx context.Context, chatID int64, fallback domain.Bias) (domain.GuildSettings, error)
	SetExchange(ctx context.Context, chatID int64, exchangeID string) error
	SetBias(ctx context.Context, chatID int64, bias domain.Bias) error
}

type AlertStore interface {
	Create(ctx context.Context, alert *domain.Alert) error
}

type Renderer interface {
	Render(ctx context.Context, h *request.Handler) (*service.Chart, error)
}

type Quoter interface {
	Quote(ctx context.Context, h *request.Handler) (*domain.PriceSnapshot, error)
}

type Lister interface {
	Listings(ctx context.Context, h *request.Handler) (*service.Listings, error)
}

// Reply is one message back to the chat. Image takes precedence over Text,
// which then becomes the caption.
type Reply struct {
	Text  string
	Image []byte
}

// Dispatcher maps chat commands onto request handlers and services. It knows
// nothing about the chat transport.
type Dispatcher struct {
	tracer   trace.Tracer
	engine   *request.Engine
	index    *index.Index
	settings SettingsStore
	alerts   AlertStore
	render   Renderer
	quotes   Quoter
	listings Lister
	bias     domain.Bias
}

type Deps struct {
	Engine      *request.Engine
	Index       *index.Index
	Settings    SettingsStore
	Alerts      AlertStore
	Render      Renderer
	Quotes      Quoter
	Listings    Lister
	DefaultBias domain.Bias
}

func NewDispatcher(tracer trace.Tracer, deps Deps) *Dispatcher {
	bias := deps.DefaultBias
	if bias == "" {
		bias = domain.BiasCrypto
	}
	return &Dispatcher{
		tracer:   tracer,
		engine:   deps.Engine,
		index:    deps.Index,
		settings: deps.Settings,
		alerts:   deps.Alerts,
		render:   deps.Render,
		quotes:   deps.Quotes,
		listings: deps.Listings,
		bias:     bias,
	}
}

// Commands lists the verbs Handle understands.
func Commands() []string {
	return []string{"c", "p", "d", "hmap", "depth", "alert", "mk", "settings"}
}

// Handle runs one command and returns the replies to send. User mistakes
// and upstream failures both become replies; the latter are logged.
func (d *Dispatcher) Handle(ctx context.Context, chatID, authorID int64, command string, args []string) []Reply {
	ctx, span := d.tracer.Start(ctx, "bot.handle")
	defer span.End()
	span.SetAttributes(attribute.String("bot.command", command), attribute.Int64("bot.chat_id", chatID))

	settings := d.loadSettings(ctx, chatID)
	rc := request.Context{
		Defaults:  settings.Defaults(),
		Bias:      settings.Bias,
		AccountID: strconv.FormatInt(chatID, 10),
		AuthorID:  strconv.FormatInt(authorID, 10),
	}

	switch command {
	case "c":
		return d.each(args, func(ticker string, tokens []string) Reply {
			return d.chart(ctx, catalog.KindChart, ticker, tokens, rc)
		})
	case "hmap":
		return []Reply{d.chart(ctx, catalog.KindHeatmap, "", lower(args), rc)}
	case "depth":
		return d.each(args, func(ticker string, tokens []string) Reply {
			return d.chart(ctx, catalog.KindDepth, ticker, tokens, rc)
		})
	case "p":
		return d.each(args, func(ticker string, tokens []string) Reply {
			return d.quote(ctx, catalog.KindPrice, ticker, tokens, rc)
		})
	case "d":
		if len(args) == 0 {
			return []Reply{{Text: "Usage: /d <ticker> [exchange]"}}
		}
		return []Reply{d.quote(ctx, catalog.KindDetail, args[0], lower(args[1:]), rc)}
	case "alert":
		return []Reply{d.alert(ctx, chatID, args, rc)}
	case "mk":
		return []Reply{d.markets(ctx, args, rc)}
	case "settings":
		return []Reply{d.updateSettings(ctx, chatID, settings, args)}
	default:
		return []Reply{{Text: fmt.Sprintf("Unknown command `%s`.", command)}}
	}
}

func (d *Dispatcher) loadSettings(ctx context.Context, chatID int64) domain.GuildSettings {
	fallback := domain.GuildSettings{ChatID: chatID, Bias: d.bias}
	if d.settings == nil {
		return fallback
	}
	settings, err := d.settings.Get(ctx, chatID, d.bias)
	if err != nil {
		log.Printf("guild settings read error for %d: %v", chatID, err)
		return fallback
	}
	return settings
}

// each splits comma separated requests, e.g. "/c btc 1h, eth 4h".
func (d *Dispatcher) each(args []string, fn func(ticker string, tokens []string) Reply) []Reply {
	var replies []Reply
	for _, part := range strings.Split(strings.Join(args, " "), ",") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		if len(replies) == maxRequestsPerCommand {
			replies = append(replies, Reply{Text: fmt.Sprintf("Only %d requests are processed per command.", maxRequestsPerCommand)})
			break
		}
		replies = append(replies, fn(fields[0], lower(fields[1:])))
	}
	if len(replies) == 0 {
		return []Reply{{Text: "A ticker is required, e.g. `btc 1h`."}}
	}
	return replies
}

func lower(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = strings.ToLower(t)
	}
	return out
}

// resolve runs arbitration and converts its outcome into either a handler
// or the reply to send instead.
func (d *Dispatcher) resolve(kind catalog.Kind, ticker string, tokens []string, platforms []domain.Platform, rc request.Context) (*request.Handler, *Reply) {
	h, err := d.engine.Resolve(kind, ticker, tokens, platforms, rc)
	if err == nil {
		return h, nil
	}
	var uerr *request.UserError
	switch {
	case errors.As(err, &uerr) && uerr.Muted:
		return nil, &Reply{Text: h.NotAvailable()}
	case errors.As(err, &uerr):
		return nil, &Reply{Text: uerr.Message}
	case errors.Is(err, index.ErrNotReady):
		return nil, &Reply{Text: msgNotReady}
	default:
		log.Printf("resolve %s %q error: %v", kind, ticker, err)
		return nil, &Reply{Text: msgInternal}
	}
}

func (d *Dispatcher) chart(ctx context.Context, kind catalog.Kind, ticker string, tokens []string, rc request.Context) Reply {
	h, reply := d.resolve(kind, ticker, tokens, nil, rc)
	if reply != nil {
		return *reply
	}
	chart, err := d.render.Render(ctx, h)
	if err != nil {
		log.Printf("render %s on %s error: %v", ticker, h.Platform(), err)
		return Reply{Text: fmt.Sprintf("Requested %s could not be rendered on %s.", kind, h.Platform())}
	}
	text := chart.Caption
	link := chart.MessageURL
	if link == "" && chart.Image == nil {
		link = chart.URL
	}
	if link != "" {
		text = strings.TrimSpace(text + "\n" + link)
	}
	return Reply{Text: text, Image: chart.Image}
}

func (d *Dispatcher) quote(ctx context.Context, kind catalog.Kind, ticker string, tokens []string, rc request.Context) Reply {
	h, reply := d.resolve(kind, ticker, tokens, nil, rc)
	if reply != nil {
		return *reply
	}
	snap, err := d.quotes.Quote(ctx, h)
	if err != nil {
		log.Printf("quote %s on %s error: %v", ticker, h.Platform(), err)
		return Reply{Text: h.NotAvailable()}
	}
	t := h.Ticker()
	symbol := t.Symbol
	if symbol == "" {
		symbol = t.ID
	}
	price := decimal.NewFromFloat(snap.Price)
	if kind == catalog.KindDetail {
		var b strings.Builder
		fmt.Fprintf(&b, "%s (%s)\n", t.Name, symbol)
		if t.MCapRank > 0 {
			fmt.Fprintf(&b, "Market cap rank: #%d\n", t.MCapRank)
		}
		fmt.Fprintf(&b, "Price: %s %s\n24h Volume: %s\n24h Change: %.2f%%",
			price.String(), snap.Quote, decimal.NewFromFloat(snap.Volume24h).Round(0).String(), snap.Change24hPct)
		return Reply{Text: b.String()}
	}
	msg := fmt.Sprintf("%s: %s %s", symbol, price.String(), snap.Quote)
	if snap.Change24hPct != 0 {
		msg += fmt.Sprintf(" (%+.2f%% 24h)", snap.Change24hPct)
	}
	return Reply{Text: msg + "\nvia " + snap.Platform}
}

func (d *Dispatcher) alert(ctx context.Context, chatID int64, args []string, rc request.Context) Reply {
	if len(args) == 0 {
		return Reply{Text: "Usage: /alert <ticker> <level> [exchange]"}
	}
	if d.alerts == nil {
		return Reply{Text: "Alerts are unavailable right now."}
	}
	h, reply := d.resolve(catalog.KindAlert, args[0], lower(args[1:]), nil, rc)
	if reply != nil {
		return *reply
	}
	t := h.Ticker()
	alert := &domain.Alert{
		ChatID:   chatID,
		Platform: h.Platform().String(),
		TickerID: t.ID,
		Symbol:   t.Symbol,
		Level:    h.Numerical()[0],
	}
	if alert.Symbol == "" {
		alert.Symbol = t.ID
	}
	venue := h.Platform().String()
	if ex := h.Exchange(); ex != nil {
		alert.Exchange = ex.ID
		venue = ex.Name
	}
	if err := d.alerts.Create(ctx, alert); err != nil {
		log.Printf("alert create error for %d: %v", chatID, err)
		return Reply{Text: msgInternal}
	}
	return Reply{Text: fmt.Sprintf("Alert set for %s at %s on %s.", alert.Symbol, alert.Level.String(), venue)}
}

func (d *Dispatcher) markets(ctx context.Context, args []string, rc request.Context) Reply {
	if len(args) == 0 {
		return Reply{Text: "Usage: /mk <ticker>"}
	}
	h, reply := d.resolve(catalog.KindPrice, args[0], nil, []domain.Platform{domain.PlatformCCXT}, rc)
	if reply != nil {
		return *reply
	}
	listings, err := d.listings.Listings(ctx, h)
	if err != nil {
		return Reply{Text: fmt.Sprintf("No exchange lists `%s`.", strings.ToUpper(args[0]))}
	}
	var b strings.Builder
	name := listings.Ticker.Name
	if name == "" {
		name = listings.Ticker.Base
	}
	fmt.Fprintf(&b, "%s is listed on %d exchanges:", name, listings.Exchanges)
	for _, l := range listings.Quotes {
		fmt.Fprintf(&b, "\n%s: %s", l.Quote, strings.Join(l.Exchanges, ", "))
	}
	return Reply{Text: b.String()}
}

func (d *Dispatcher) updateSettings(ctx context.Context, chatID int64, current domain.GuildSettings, args []string) Reply {
	if len(args) == 0 {
		exchange := current.Exchange
		if exchange == "" {
			exchange = "none"
		}
		return Reply{Text: fmt.Sprintf("Default exchange: %s\nMarket bias: %s", exchange, current.Bias)}
	}
	if d.settings == nil {
		return Reply{Text: "Settings cannot be changed right now."}
	}
	if len(args) < 2 {
		return Reply{Text: "Usage: /settings exchange <name> | /settings bias <crypto|traditional>"}
	}

	value := strings.ToLower(args[1])
	switch strings.ToLower(args[0]) {
	case "exchange":
		exchangeID := ""
		if value != "none" {
			snap, err := d.index.Current()
			if err != nil {
				return Reply{Text: msgNotReady}
			}
			ex, _ := snap.FindExchange(value, domain.PlatformCCXT, current.Bias)
			if ex == nil {
				return Reply{Text: fmt.Sprintf("`%s` is not a known exchange.", value)}
			}
			exchangeID = ex.ID
		}
		if err := d.settings.SetExchange(ctx, chatID, exchangeID); err != nil {
			log.Printf("guild settings write error for %d: %v", chatID, err)
			return Reply{Text: msgInternal}
		}
		if exchangeID == "" {
			return Reply{Text: "Default exchange cleared."}
		}
		return Reply{Text: fmt.Sprintf("Default exchange set to %s.", exchangeID)}
	case "bias":
		if value != string(domain.BiasCrypto) && value != string(domain.BiasTraditional) {
			return Reply{Text: "Market bias must be `crypto` or `traditional`."}
		}
		if err := d.settings.SetBias(ctx, chatID, domain.Bias(value)); err != nil {
			log.Printf("guild settings write error for %d: %v", chatID, err)
			return Reply{Text: msgInternal}
		}
		return Reply{Text: fmt.Sprintf("Market bias set to %s.", value)}
	default:
		return Reply{Text: fmt.Sprintf("Unknown setting `%s`.", args[0])}
	}
}

package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"alphabot/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

type execCall struct {
	sql  string
	args []any
}

type fakePool struct {
	execs   []execCall
	row     fakeRow
	rows    *fakeRows
	lastSQL string
}

func (f *fakePool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, execCall{sql: sql, args: args})
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakePool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.lastSQL = sql
	return f.rows, nil
}

func (f *fakePool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	f.lastSQL = sql
	return f.row
}

// fakeRow scans values positionally into the destination pointers.
type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(r.values, dest)
}

func assign(values []any, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("scan: %d values into %d targets", len(values), len(dest))
	}
	for i, v := range values {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *int64:
			*d = v.(int64)
		case *time.Time:
			*d = v.(time.Time)
		default:
			return fmt.Errorf("scan: unsupported target %T", d)
		}
	}
	return nil
}

type fakeRows struct {
	data [][]any
	pos  int
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return r.data[r.pos-1], nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	return assign(r.data[r.pos-1], dest)
}

func TestGuildSettingsMigrations(t *testing.T) {
	t.Parallel()

	pool := &fakePool{}
	repo := NewGuildSettingsRepository(pool, testTracer)
	if err := repo.RunMigrations(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pool.execs) != 1 || !strings.Contains(pool.execs[0].sql, "guild_settings") {
		t.Fatalf("unexpected migration: %+v", pool.execs)
	}
}

func TestGuildSettingsGetDefaultsWhenMissing(t *testing.T) {
	t.Parallel()

	pool := &fakePool{row: fakeRow{err: pgx.ErrNoRows}}
	repo := NewGuildSettingsRepository(pool, testTracer)

	settings, err := repo.Get(context.Background(), 42, domain.BiasTraditional)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.ChatID != 42 || settings.Exchange != "" || settings.Bias != domain.BiasTraditional {
		t.Fatalf("unexpected defaults: %+v", settings)
	}
}

func TestGuildSettingsGetStored(t *testing.T) {
	t.Parallel()

	updated := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	pool := &fakePool{row: fakeRow{values: []any{"binance", "traditional", updated}}}
	repo := NewGuildSettingsRepository(pool, testTracer)

	settings, err := repo.Get(context.Background(), 7, domain.BiasCrypto)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Exchange != "binance" || settings.Bias != domain.BiasTraditional || !settings.UpdatedAt.Equal(updated) {
		t.Fatalf("unexpected settings: %+v", settings)
	}
	if settings.Defaults().Exchange != "binance" {
		t.Fatalf("defaults should carry the exchange: %+v", settings.Defaults())
	}
}

func TestGuildSettingsUpserts(t *testing.T) {
	t.Parallel()

	pool := &fakePool{}
	repo := NewGuildSettingsRepository(pool, testTracer)

	if err := repo.SetExchange(context.Background(), 7, "kraken"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.SetBias(context.Background(), 7, domain.BiasTraditional); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pool.execs) != 2 {
		t.Fatalf("expected 2 upserts, got %d", len(pool.execs))
	}
	if pool.execs[0].args[1] != "kraken" || pool.execs[1].args[1] != "traditional" {
		t.Fatalf("unexpected upsert args: %+v", pool.execs)
	}
	for _, call := range pool.execs {
		if !strings.Contains(call.sql, "ON CONFLICT (chat_id)") {
			t.Fatalf("expected upsert, got %s", call.sql)
		}
	}
}

func TestAlertRepositoryCreate(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	pool := &fakePool{row: fakeRow{values: []any{int64(9), created}}}
	repo := NewAlertRepository(pool, testTracer)

	alert := &domain.Alert{ChatID: 1, Platform: "CCXT", Exchange: "binance", TickerID: "BTCUSDT", Symbol: "BTC/USDT", Level: decimal.RequireFromString("65000.5")}
	if err := repo.Create(context.Background(), alert); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if alert.ID != 9 || !alert.CreatedAt.Equal(created) {
		t.Fatalf("returning columns not applied: %+v", alert)
	}
	if !strings.Contains(pool.lastSQL, "RETURNING id, created_at") {
		t.Fatalf("unexpected insert: %s", pool.lastSQL)
	}
}

func TestAlertRepositoryListByChat(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	pool := &fakePool{rows: &fakeRows{data: [][]any{
		{int64(2), int64(1), "IEXC", "nasdaq", "AAPL", "AAPL", "190.25", created},
		{int64(1), int64(1), "CCXT", "binance", "BTCUSDT", "BTC/USDT", "65000", created},
	}}}
	repo := NewAlertRepository(pool, testTracer)

	alerts, err := repo.ListByChat(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(alerts))
	}
	if !alerts[0].Level.Equal(decimal.RequireFromString("190.25")) || alerts[1].TickerID != "BTCUSDT" {
		t.Fatalf("unexpected alerts: %+v", alerts)
	}
}

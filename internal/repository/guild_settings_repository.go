package repository

import (
	"context"
	"errors"
	"time"

	"alphabot/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"
)

const createGuildSettingsTable = `
CREATE TABLE IF NOT EXISTS guild_settings (
    chat_id     BIGINT      PRIMARY KEY,
    exchange    TEXT        NOT NULL DEFAULT '',
    bias        TEXT        NOT NULL DEFAULT 'crypto',
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type GuildSettingsRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewGuildSettingsRepository(pool PgxPool, tracer trace.Tracer) *GuildSettingsRepository {
	return &GuildSettingsRepository{pool: pool, tracer: tracer}
}

func (r *GuildSettingsRepository) RunMigrations(ctx context.Context) error {
	_, span := r.tracer.Start(ctx, "guild-settings-repo.run-migrations")
	defer span.End()

	_, err := r.pool.Exec(ctx, createGuildSettingsTable)
	return err
}

// Get returns the chat's settings. Chats that never changed anything get
// the defaults with the given bias.
func (r *GuildSettingsRepository) Get(ctx context.Context, chatID int64, fallback domain.Bias) (domain.GuildSettings, error) {
	_, span := r.tracer.Start(ctx, "guild-settings-repo.get")
	defer span.End()

	settings := domain.GuildSettings{ChatID: chatID, Bias: fallback}
	var bias string
	var ts time.Time
	err := r.pool.QueryRow(ctx,
		`SELECT exchange, bias, updated_at FROM guild_settings WHERE chat_id = $1`,
		chatID,
	).Scan(&settings.Exchange, &bias, &ts)
	if errors.Is(err, pgx.ErrNoRows) {
		return settings, nil
	}
	if err != nil {
		return settings, err
	}
	settings.Bias = domain.ParseBias(bias)
	settings.UpdatedAt = ts.UTC()
	return settings, nil
}

func (r *GuildSettingsRepository) SetExchange(ctx context.Context, chatID int64, exchangeID string) error {
	_, span := r.tracer.Start(ctx, "guild-settings-repo.set-exchange")
	defer span.End()

	_, err := r.pool.Exec(ctx,
		`INSERT INTO guild_settings (chat_id, exchange) VALUES ($1, $2)
		 ON CONFLICT (chat_id) DO UPDATE SET
		     exchange = EXCLUDED.exchange,
		     updated_at = now()`,
		chatID, exchangeID,
	)
	return err
}

func (r *GuildSettingsRepository) SetBias(ctx context.Context, chatID int64, bias domain.Bias) error {
	_, span := r.tracer.Start(ctx, "guild-settings-repo.set-bias")
	defer span.End()

	_, err := r.pool.Exec(ctx,
		`INSERT INTO guild_settings (chat_id, bias) VALUES ($1, $2)
		 ON CONFLICT (chat_id) DO UPDATE SET
		     bias = EXCLUDED.bias,
		     updated_at = now()`,
		chatID, string(bias),
	)
	return err
}

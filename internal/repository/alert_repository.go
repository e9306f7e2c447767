package repository

import (
	"context"
	"fmt"
	"time"

	"alphabot/internal/domain"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"
)

const createAlertsTable = `
CREATE TABLE IF NOT EXISTS price_alerts (
    id          BIGSERIAL   PRIMARY KEY,
    chat_id     BIGINT      NOT NULL,
    platform    TEXT        NOT NULL,
    exchange    TEXT        NOT NULL DEFAULT '',
    ticker_id   TEXT        NOT NULL,
    symbol      TEXT        NOT NULL,
    level       NUMERIC     NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_price_alerts_chat
    ON price_alerts (chat_id, created_at DESC);
`

type AlertRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewAlertRepository(pool PgxPool, tracer trace.Tracer) *AlertRepository {
	return &AlertRepository{pool: pool, tracer: tracer}
}

func (r *AlertRepository) RunMigrations(ctx context.Context) error {
	_, span := r.tracer.Start(ctx, "alert-repo.run-migrations")
	defer span.End()

	_, err := r.pool.Exec(ctx, createAlertsTable)
	return err
}

// Create stores the alert and fills in its id and creation time.
func (r *AlertRepository) Create(ctx context.Context, alert *domain.Alert) error {
	_, span := r.tracer.Start(ctx, "alert-repo.create")
	defer span.End()

	return r.pool.QueryRow(ctx,
		`INSERT INTO price_alerts (chat_id, platform, exchange, ticker_id, symbol, level)
		 VALUES ($1, $2, $3, $4, $5, $6::numeric)
		 RETURNING id, created_at`,
		alert.ChatID, alert.Platform, alert.Exchange, alert.TickerID, alert.Symbol, alert.Level.String(),
	).Scan(&alert.ID, &alert.CreatedAt)
}

func (r *AlertRepository) ListByChat(ctx context.Context, chatID int64, limit int) ([]domain.Alert, error) {
	_, span := r.tracer.Start(ctx, "alert-repo.list-by-chat")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT id, chat_id, platform, exchange, ticker_id, symbol, level::text, created_at
		 FROM price_alerts
		 WHERE chat_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		chatID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []domain.Alert
	for rows.Next() {
		var a domain.Alert
		var level string
		var ts time.Time
		if err := rows.Scan(&a.ID, &a.ChatID, &a.Platform, &a.Exchange, &a.TickerID, &a.Symbol, &level, &ts); err != nil {
			return nil, err
		}
		if a.Level, err = decimal.NewFromString(level); err != nil {
			return nil, fmt.Errorf("parse alert %d level: %w", a.ID, err)
		}
		a.CreatedAt = ts.UTC()
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

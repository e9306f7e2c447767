package job

import (
	"context"
	"log"
	"time"

	"alphabot/internal/index"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const maxMissingRetries = 3

type IndexBuilder interface {
	Refresh(ctx context.Context, idx *index.Index) ([]string, error)
}

// IndexRefresher rebuilds the resolution index on a fixed cycle and on
// demand. Builds never overlap: every refresh runs on the Start goroutine.
type IndexRefresher struct {
	tracer     trace.Tracer
	builder    IndexBuilder
	index      *index.Index
	interval   time.Duration
	retryDelay time.Duration
	trigger    chan struct{}
}

func NewIndexRefresher(tracer trace.Tracer, builder IndexBuilder, idx *index.Index, refreshHours int) *IndexRefresher {
	if refreshHours <= 0 {
		refreshHours = 24
	}
	return &IndexRefresher{
		tracer:     tracer,
		builder:    builder,
		index:      idx,
		interval:   time.Duration(refreshHours) * time.Hour,
		retryDelay: 15 * time.Minute,
		trigger:    make(chan struct{}, 1),
	}
}

// Trigger queues an ad hoc refresh. It reports false when one is already
// queued.
func (r *IndexRefresher) Trigger() bool {
	select {
	case r.trigger <- struct{}{}:
		return true
	default:
		return false
	}
}

// Start builds the first generation immediately, then refreshes on the
// cycle and on triggers. Blocks until ctx is cancelled.
func (r *IndexRefresher) Start(ctx context.Context) {
	log.Println("Index refresher starting...")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	retries := 0
	var retry <-chan time.Time
	run := func(reason string) {
		if r.refresh(ctx, reason) {
			retries = 0
			retry = nil
			return
		}
		if retries >= maxMissingRetries {
			log.Printf("index refresher: giving up on retries until the next cycle")
			retries = 0
			retry = nil
			return
		}
		retries++
		retry = time.After(r.retryDelay)
	}

	run("startup")
	for {
		select {
		case <-ctx.Done():
			log.Println("Index refresher stopped")
			return
		case <-ticker.C:
			run("cycle")
		case <-r.trigger:
			run("trigger")
		case <-retry:
			run("retry")
		}
	}
}

// refresh reports whether the build loaded every configured source.
func (r *IndexRefresher) refresh(ctx context.Context, reason string) bool {
	ctx, span := r.tracer.Start(ctx, "index-refresher.refresh")
	defer span.End()
	span.SetAttributes(attribute.String("refresh.reason", reason))

	missing, err := r.builder.Refresh(ctx, r.index)
	if err != nil {
		span.RecordError(err)
		log.Printf("index refresh (%s) error: %v", reason, err)
		return false
	}
	if len(missing) > 0 {
		log.Printf("index refresh (%s): %d exchanges failed to load: %v", reason, len(missing), missing)
		return false
	}
	return true
}

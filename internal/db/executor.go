package db

import (
	"context"
	"fmt"
	"time"

	"github.com/puzpuzpuz/xsync/v4"
	"go.uber.org/zap"

	"github.com/bzuer/ethnos-api/internal/domain"
	"github.com/bzuer/ethnos-api/internal/metrics"
)

// Querier runs one parameterized query and returns rows as field maps.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) ([]Row, error)
}

// Executor bounds every relational query with a deadline and routes
// schema-class failures to the query's fallback variant. Store-level
// cancellation on a missed deadline is best-effort; the caller always gets
// control back when the deadline passes.
type Executor struct {
	store  Querier
	logger *zap.Logger

	defaultTimeout   time.Duration
	aggregateTimeout time.Duration

	// drifting remembers query names whose primary variant already failed
	// with a schema error, so later calls skip straight to the fallback.
	drifting *xsync.Map[string, bool]
}

// NewExecutor creates a deadline-bounded query executor.
func NewExecutor(store Querier, logger *zap.Logger) *Executor {
	return &Executor{
		store:            store,
		logger:           logger,
		defaultTimeout:   DefaultTimeout,
		aggregateTimeout: AggregateTimeout,
		drifting:         xsync.NewMap[string, bool](),
	}
}

// WithTimeouts overrides the default deadlines for point and aggregate queries.
func (e *Executor) WithTimeouts(def, aggregate time.Duration) *Executor {
	if def > 0 {
		e.defaultTimeout = def
	}
	if aggregate > 0 {
		e.aggregateTimeout = aggregate
	}
	return e
}

// timeout resolves the effective deadline for one query.
func (e *Executor) timeout(q Query) time.Duration {
	if q.Timeout > 0 {
		return q.Timeout
	}
	if q.Aggregate {
		return e.aggregateTimeout
	}
	return e.defaultTimeout
}

// Execute runs q within its deadline. Error classes:
//   - deadline miss wraps domain.ErrQueryTimeout
//   - schema error with no fallback wraps domain.ErrSchemaDrift
//   - anything else wraps domain.ErrStoreUnavailable
func (e *Executor) Execute(ctx context.Context, q Query) ([]Row, error) {
	if q.Fallback != nil {
		if _, known := e.drifting.Load(q.Name); known {
			return e.Execute(ctx, *q.Fallback)
		}
	}

	rows, err := e.run(ctx, q)
	if err == nil {
		return rows, nil
	}

	switch {
	case isTimeout(err):
		return nil, fmt.Errorf("%s: %w", q.Name, domain.ErrQueryTimeout)
	case isSchemaErr(err):
		metrics.SchemaDriftTotal.WithLabelValues(q.Name).Inc()
		if q.Fallback != nil {
			e.drifting.Store(q.Name, true)
			e.logger.Warn("query hit schema drift, switching to fallback variant",
				zap.String("query", q.Name),
				zap.Error(err),
			)
			return e.Execute(ctx, *q.Fallback)
		}
		return nil, fmt.Errorf("%s: %w: %v", q.Name, domain.ErrSchemaDrift, err)
	default:
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, &Error{Op: q.Name, Err: err})
	}
}

func (e *Executor) run(ctx context.Context, q Query) ([]Row, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout(q))
	defer cancel()

	start := time.Now()
	rows, err := e.store.Query(ctx, q.SQL, q.Args...)
	metrics.QueryDuration.WithLabelValues(q.Name).Observe(time.Since(start).Seconds())

	if err != nil {
		// The driver may surface its own wrapper around the context error.
		if ctx.Err() == context.DeadlineExceeded {
			return nil, context.DeadlineExceeded
		}
		return nil, err
	}
	return rows, nil
}

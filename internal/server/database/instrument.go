package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	storeOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filemeta_store_operations_total",
			Help: "Store operations by operation and result (ok, not_found, error).",
		},
		[]string{"op", "result"},
	)

	storeOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filemeta_store_operation_duration_seconds",
			Help:    "Store operation latency in seconds, including time spent waiting for a writer slot.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
)

var tracer = otel.Tracer("filemeta/database")

// run executes fn under the store timeout, inside a span, and records metrics.
// Writes first take a slot from the writer semaphore.
func (db *DB) run(ctx context.Context, op string, write bool, fn func(ctx context.Context) error) error {
	ctx, span := tracer.Start(ctx, "database."+op, trace.WithAttributes(
		attribute.String("db.system", string(db.dialect)),
		attribute.Bool("db.write", write),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, db.timeout)
	defer cancel()

	start := time.Now()
	err := func() error {
		if write {
			if err := db.writeSem.Acquire(ctx, 1); err != nil {
				return &PersistenceError{Op: op, Err: fmt.Errorf("waiting for writer slot: %w", err)}
			}
			defer db.writeSem.Release(1)
		}
		return fn(ctx)
	}()
	storeOperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrFileNotFound):
		result = "not_found"
	default:
		result = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	storeOperationsTotal.WithLabelValues(op, result).Inc()

	return err
}

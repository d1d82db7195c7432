// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/tomtom215/photon/internal/logging"
	"github.com/tomtom215/photon/internal/metrics"
	"github.com/tomtom215/photon/internal/tenant"
)

// BreakerSettings configures BreakerStore.
type BreakerSettings struct {
	// MaxRequests allowed through while half-open.
	MaxRequests uint32

	// Interval after which closed-state counts reset.
	Interval time.Duration

	// Timeout before an open breaker moves to half-open.
	Timeout time.Duration

	// MinRequests before the failure ratio is considered.
	MinRequests uint32

	// FailureRatio at or above which the breaker opens.
	FailureRatio float64
}

// DefaultBreakerSettings returns the settings used in production.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// BreakerStore wraps a Store with a circuit breaker.
// While the breaker is open, calls fail with an error wrapping tenant.ErrStoreUnavailable.
type BreakerStore struct {
	next Store
	cb   *gobreaker.CircuitBreaker[any]
	name string
}

// NewBreakerStore wraps next.
func NewBreakerStore(next Store, settings BreakerSettings) *BreakerStore {
	cbName := "mongodb"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < settings.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= settings.FailureRatio
			if shouldTrip {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		IsSuccessful: func(err error) bool {
			return err == nil || isBenign(err)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &BreakerStore{next: next, cb: cb, name: cbName}
}

// State returns the breaker state.
func (b *BreakerStore) State() gobreaker.State {
	return b.cb.State()
}

// isBenign reports errors that say nothing about the database's health:
// misses, caller cancellation and a store that has not connected yet.
func isBenign(err error) bool {
	return errors.Is(err, tenant.ErrNotFound) ||
		errors.Is(err, tenant.ErrStoreUnavailable) ||
		errors.Is(err, context.Canceled)
}

// execute runs fn through the breaker and records the outcome.
func (b *BreakerStore) execute(fn func() (any, error)) (any, error) {
	result, err := b.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			return nil, fmt.Errorf("%w: %w", tenant.ErrStoreUnavailable, err)
		}
		if isBenign(err) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
			return nil, err
		}
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		counts := b.cb.Counts()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(counts.ConsecutiveFailures))
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
	return result, nil
}

// castResult type-asserts a breaker result.
func castResult[T any](result any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Ready implements Store.
func (b *BreakerStore) Ready() bool {
	return b.next.Ready()
}

// FindMerchantUser implements tenant.StorePort.
func (b *BreakerStore) FindMerchantUser(ctx context.Context, email string) (*tenant.MerchantUser, error) {
	return castResult[*tenant.MerchantUser](b.execute(func() (any, error) {
		return b.next.FindMerchantUser(ctx, email)
	}))
}

// FindMerchant implements tenant.StorePort.
func (b *BreakerStore) FindMerchant(ctx context.Context, merchantID string) (*tenant.Merchant, error) {
	return castResult[*tenant.Merchant](b.execute(func() (any, error) {
		return b.next.FindMerchant(ctx, merchantID)
	}))
}

// Insert implements Documents.
func (b *BreakerStore) Insert(ctx context.Context, merchantID, collection string, doc bson.M) (string, error) {
	return castResult[string](b.execute(func() (any, error) {
		return b.next.Insert(ctx, merchantID, collection, doc)
	}))
}

// Find implements Documents.
func (b *BreakerStore) Find(ctx context.Context, merchantID, collection string, filter bson.M, opts FindOptions) ([]bson.M, error) {
	return castResult[[]bson.M](b.execute(func() (any, error) {
		return b.next.Find(ctx, merchantID, collection, filter, opts)
	}))
}

// UpdateMany implements Documents.
func (b *BreakerStore) UpdateMany(ctx context.Context, merchantID, collection string, filter, set bson.M) (int64, error) {
	return castResult[int64](b.execute(func() (any, error) {
		return b.next.UpdateMany(ctx, merchantID, collection, filter, set)
	}))
}

// DeleteMany implements Documents.
func (b *BreakerStore) DeleteMany(ctx context.Context, merchantID, collection string, filter bson.M) (int64, error) {
	return castResult[int64](b.execute(func() (any, error) {
		return b.next.DeleteMany(ctx, merchantID, collection, filter)
	}))
}

// Aggregate implements Documents.
func (b *BreakerStore) Aggregate(ctx context.Context, merchantID, collection string, pipeline Pipeline) ([]bson.M, error) {
	return castResult[[]bson.M](b.execute(func() (any, error) {
		return b.next.Aggregate(ctx, merchantID, collection, pipeline)
	}))
}

// MarkTracked implements Projects.
func (b *BreakerStore) MarkTracked(ctx context.Context, merchantID, projectID string, at time.Time) error {
	_, err := b.execute(func() (any, error) {
		return nil, b.next.MarkTracked(ctx, merchantID, projectID, at)
	})
	return err
}

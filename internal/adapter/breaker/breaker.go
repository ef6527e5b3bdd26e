// Package breaker guards a sheet store with a circuit breaker. When the
// spreadsheet backend keeps failing, calls fail fast instead of piling up on a
// dead upstream. There are no retries.
package breaker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/pscheid92/waitlist/internal/domain"
)

// ErrOpen is returned (wrapped with domain.ErrSheetStore) while the circuit is open.
var ErrOpen = circuitbreaker.ErrOpen

type Config struct {
	// The circuit opens once Failures of the last Executions calls failed.
	Failures   uint
	Executions uint
	// Delay is how long the circuit stays open before letting a trial call through.
	Delay time.Duration
}

// DefaultConfig: 3 failures out of the last 5 calls, 30s open delay.
func DefaultConfig() Config {
	return Config{
		Failures:   3,
		Executions: 5,
		Delay:      30 * time.Second,
	}
}

// StateObserver is told about every state transition.
type StateObserver func(from, to circuitbreaker.State)

type Breaker struct {
	cb circuitbreaker.CircuitBreaker[any]
}

func New(cfg Config, observers ...StateObserver) *Breaker {
	cb := circuitbreaker.NewBuilder[any]().
		WithFailureThresholdRatio(cfg.Failures, cfg.Executions).
		WithDelay(cfg.Delay).
		WithSuccessThreshold(1).
		OnStateChanged(func(e circuitbreaker.StateChangedEvent) {
			slog.Warn("Circuit breaker state changed",
				"component", "sheet_store",
				"from", e.OldState.String(),
				"to", e.NewState.String(),
			)
			for _, observe := range observers {
				observe(e.OldState, e.NewState)
			}
		}).
		Build()

	return &Breaker{cb: cb}
}

// StateValue maps a state onto a gauge value (0=closed, 1=half-open, 2=open).
func StateValue(state circuitbreaker.State) float64 {
	switch state {
	case circuitbreaker.ClosedState:
		return 0
	case circuitbreaker.HalfOpenState:
		return 1
	case circuitbreaker.OpenState:
		return 2
	default:
		return -1
	}
}

func (b *Breaker) State() circuitbreaker.State {
	return b.cb.State()
}

// Check is a readiness probe: it fails while the circuit is open.
func (b *Breaker) Check(_ context.Context) error {
	if b.cb.IsOpen() {
		return fmt.Errorf("sheet store circuit breaker open: %w: %w", domain.ErrSheetStore, ErrOpen)
	}
	return nil
}

// Connector guards Connect and every call on the stores it returns.
func (b *Breaker) Connector(next domain.SheetConnector) domain.SheetConnector {
	return domain.SheetConnectorFunc(func(ctx context.Context) (domain.SheetStore, error) {
		var store domain.SheetStore
		err := b.guard(func() error {
			var err error
			store, err = next.Connect(ctx)
			return err
		})
		if err != nil {
			return nil, err
		}
		return &guardedStore{next: store, b: b}, nil
	})
}

func (b *Breaker) guard(fn func() error) error {
	if !b.cb.TryAcquirePermit() {
		return fmt.Errorf("sheet store circuit breaker open: %w: %w", domain.ErrSheetStore, ErrOpen)
	}

	err := fn()
	switch {
	case err == nil:
		b.cb.RecordSuccess()
	case errors.Is(err, context.Canceled):
		// The caller gave up; says nothing about the backend.
		b.cb.RecordSuccess()
	default:
		b.cb.RecordError(err)
	}
	return err
}

type guardedStore struct {
	next domain.SheetStore
	b    *Breaker
}

func (s *guardedStore) ReadRows(ctx context.Context, sheet domain.Sheet) ([]domain.Row, error) {
	var rows []domain.Row
	err := s.b.guard(func() error {
		var err error
		rows, err = s.next.ReadRows(ctx, sheet)
		return err
	})
	return rows, err
}

func (s *guardedStore) ReadColumn(ctx context.Context, sheet domain.Sheet, column int) ([]string, error) {
	var values []string
	err := s.b.guard(func() error {
		var err error
		values, err = s.next.ReadColumn(ctx, sheet, column)
		return err
	})
	return values, err
}

func (s *guardedStore) AppendRow(ctx context.Context, sheet domain.Sheet, row domain.Row) error {
	return s.b.guard(func() error {
		return s.next.AppendRow(ctx, sheet, row)
	})
}

func (s *guardedStore) WriteRows(ctx context.Context, sheet domain.Sheet, startRow int, rows []domain.Row) error {
	return s.b.guard(func() error {
		return s.next.WriteRows(ctx, sheet, startRow, rows)
	})
}

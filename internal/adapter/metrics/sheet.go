package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/waitlist/internal/domain"
)

// SheetMetrics holds Prometheus metrics for spreadsheet round trips.
type SheetMetrics struct {
	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	Connects          *prometheus.CounterVec
}

// NewSheetMetrics creates and registers sheet store metrics on the given registry.
func NewSheetMetrics(reg prometheus.Registerer) *SheetMetrics {
	m := &SheetMetrics{
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sheet",
			Name:      "operations_total",
			Help:      "Total number of sheet store operations, by sheet, operation and result.",
		}, []string{"sheet", "operation", "result"}),
		OperationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sheet",
			Name:      "operation_duration_seconds",
			Help:      "Duration of sheet store operations in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"sheet", "operation"}),
		Connects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sheet",
			Name:      "connects_total",
			Help:      "Total number of sheet store connections, by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(m.Operations, m.OperationDuration, m.Connects)
	return m
}

// Connector wraps a connector so every store it hands out is instrumented.
func (m *SheetMetrics) Connector(next domain.SheetConnector) domain.SheetConnector {
	return domain.SheetConnectorFunc(func(ctx context.Context) (domain.SheetStore, error) {
		store, err := next.Connect(ctx)
		m.Connects.WithLabelValues(result(err)).Inc()
		if err != nil {
			return nil, err
		}
		return &instrumentedStore{next: store, m: m}, nil
	})
}

type instrumentedStore struct {
	next domain.SheetStore
	m    *SheetMetrics
}

func (s *instrumentedStore) observe(sheet domain.Sheet, op string) func(error) {
	timer := prometheus.NewTimer(s.m.OperationDuration.WithLabelValues(sheet.String(), op))
	return func(err error) {
		timer.ObserveDuration()
		s.m.Operations.WithLabelValues(sheet.String(), op, result(err)).Inc()
	}
}

func (s *instrumentedStore) ReadRows(ctx context.Context, sheet domain.Sheet) ([]domain.Row, error) {
	done := s.observe(sheet, "read_rows")
	rows, err := s.next.ReadRows(ctx, sheet)
	done(err)
	return rows, err
}

func (s *instrumentedStore) ReadColumn(ctx context.Context, sheet domain.Sheet, column int) ([]string, error) {
	done := s.observe(sheet, "read_column")
	values, err := s.next.ReadColumn(ctx, sheet, column)
	done(err)
	return values, err
}

func (s *instrumentedStore) AppendRow(ctx context.Context, sheet domain.Sheet, row domain.Row) error {
	done := s.observe(sheet, "append_row")
	err := s.next.AppendRow(ctx, sheet, row)
	done(err)
	return err
}

func (s *instrumentedStore) WriteRows(ctx context.Context, sheet domain.Sheet, startRow int, rows []domain.Row) error {
	done := s.observe(sheet, "write_rows")
	err := s.next.WriteRows(ctx, sheet, startRow, rows)
	done(err)
	return err
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

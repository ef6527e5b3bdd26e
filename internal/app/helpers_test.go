package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/waitlist/internal/adapter/memory"
	"github.com/pscheid92/waitlist/internal/domain"
)

var testNow = time.Date(2024, time.March, 5, 14, 7, 0, 0, time.UTC)

type writeCall struct {
	Sheet    domain.Sheet
	StartRow int
	Rows     []domain.Row
}

// recordingStore wraps the memory store and records every write.
type recordingStore struct {
	*memory.Store

	mu       sync.Mutex
	writes   []writeCall
	connects int
}

func newRecordingStore() *recordingStore {
	return &recordingStore{Store: memory.NewStore()}
}

func (r *recordingStore) Connect(_ context.Context) (domain.SheetStore, error) {
	r.mu.Lock()
	r.connects++
	r.mu.Unlock()
	return r, nil
}

func (r *recordingStore) WriteRows(ctx context.Context, sheet domain.Sheet, startRow int, rows []domain.Row) error {
	r.mu.Lock()
	r.writes = append(r.writes, writeCall{Sheet: sheet, StartRow: startRow, Rows: rows})
	r.mu.Unlock()
	return r.Store.WriteRows(ctx, sheet, startRow, rows)
}

func (r *recordingStore) Writes() []writeCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]writeCall(nil), r.writes...)
}

type outcomeRecorder struct {
	mu       sync.Mutex
	outcomes []string
}

func (o *outcomeRecorder) RecordOutcome(operation, outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, operation+":"+outcome)
}

func newTestService(t *testing.T, store *recordingStore, opts ...Option) (*Service, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(testNow)
	return NewService(store, clock, opts...), clock
}

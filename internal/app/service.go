package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/waitlist/internal/domain"
)

const DefaultActor = "anonymous"

// OutcomeRecorder observes the result of each use case (for metrics).
type OutcomeRecorder interface {
	RecordOutcome(operation, outcome string)
}

type noopRecorder struct{}

func (noopRecorder) RecordOutcome(string, string) {}

// Result is the outcome of Enqueue and MarkUsed. Message is the human-readable
// body returned to clients; Status tells whether the name was refused.
type Result struct {
	Status  domain.Status
	Message string
}

// Refused reports whether the operation was skipped because the name was
// already used or queued.
func (r Result) Refused() bool { return !r.Status.Available() }

// Service is the application layer. It owns no sheet state; every use case
// connects, reads and writes through a fresh store handle.
//
// Check-then-act against the store is not atomic. Enqueue, MarkUsed and Clear
// take a per-name lock, so within this process calls for the same normalized
// name run one after another and each sees the previous one's writes. Callers
// in other processes can still interleave.
type Service struct {
	connector    domain.SheetConnector
	clock        clockwork.Clock
	location     *time.Location
	defaultActor string
	outcomes     OutcomeRecorder
	names        nameLocks
}

type Option func(*Service)

// WithLocation sets the time zone used for stored timestamps (default UTC).
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithDefaultActor sets the actor recorded when MarkUsed gets none.
func WithDefaultActor(actor string) Option {
	return func(s *Service) {
		if actor != "" {
			s.defaultActor = actor
		}
	}
}

func WithOutcomeRecorder(r OutcomeRecorder) Option {
	return func(s *Service) {
		if r != nil {
			s.outcomes = r
		}
	}
}

// NewService creates the application layer service.
func NewService(connector domain.SheetConnector, clock clockwork.Clock, opts ...Option) *Service {
	s := &Service{
		connector:    connector,
		clock:        clock,
		location:     time.UTC,
		defaultActor: DefaultActor,
		outcomes:     noopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the time zone timestamps are written in.
func (s *Service) Location() *time.Location {
	return s.location
}

// Enqueue adds name to the queue unless it is already used or queued, then rebuilds the queue.
func (s *Service) Enqueue(ctx context.Context, name string) (Result, error) {
	key := domain.NormalizeName(name)
	if key == "" {
		return Result{}, domain.ErrEmptyName
	}

	unlock, err := s.names.lock(ctx, key)
	if err != nil {
		s.outcomes.RecordOutcome("queue", "error")
		return Result{}, err
	}
	defer unlock()

	result, err := s.enqueue(ctx, name)
	if err != nil {
		s.outcomes.RecordOutcome("queue", "error")
		return Result{}, err
	}
	return result, nil
}

func (s *Service) enqueue(ctx context.Context, name string) (Result, error) {
	ops, err := s.connect(ctx)
	if err != nil {
		return Result{}, err
	}

	status, err := ops.checkUsedAndQueued(ctx, name)
	if err != nil {
		return Result{}, err
	}
	if !status.Available() {
		s.outcomes.RecordOutcome("queue", status.Kind.String())
		return Result{Status: status, Message: status.Message()}, nil
	}

	msg, err := ops.addToQueue(ctx, name)
	if err != nil {
		return Result{}, err
	}
	if _, err := ops.rebuild(ctx); err != nil {
		return Result{}, fmt.Errorf("failed to rebuild queue after enqueue: %w", err)
	}

	slog.InfoContext(ctx, "Name queued", "name", name)
	s.outcomes.RecordOutcome("queue", "queued")
	return Result{Status: status, Message: msg}, nil
}

// MarkUsed records name as used by actor unless it is already used. A queued
// name is cleared from the queue and the queue is rebuilt.
func (s *Service) MarkUsed(ctx context.Context, name, actor string) (Result, error) {
	key := domain.NormalizeName(name)
	if key == "" {
		return Result{}, domain.ErrEmptyName
	}
	if actor == "" {
		actor = s.defaultActor
	}

	unlock, err := s.names.lock(ctx, key)
	if err != nil {
		s.outcomes.RecordOutcome("use", "error")
		return Result{}, err
	}
	defer unlock()

	result, err := s.markUsed(ctx, name, actor)
	if err != nil {
		s.outcomes.RecordOutcome("use", "error")
		return Result{}, err
	}
	return result, nil
}

func (s *Service) markUsed(ctx context.Context, name, actor string) (Result, error) {
	ops, err := s.connect(ctx)
	if err != nil {
		return Result{}, err
	}

	status, err := ops.checkUsed(ctx, name)
	if err != nil {
		return Result{}, err
	}
	if !status.Available() {
		s.outcomes.RecordOutcome("use", status.Kind.String())
		return Result{Status: status, Message: status.Message()}, nil
	}

	msg, err := ops.addToUsed(ctx, name, actor)
	if err != nil {
		return Result{}, err
	}
	clearMsg, _, err := ops.clearFromQueue(ctx, name)
	if err != nil {
		return Result{}, err
	}
	if _, err := ops.rebuild(ctx); err != nil {
		return Result{}, fmt.Errorf("failed to rebuild queue after mark used: %w", err)
	}

	slog.InfoContext(ctx, "Name used", "name", name, "actor", actor, "queue", clearMsg)
	s.outcomes.RecordOutcome("use", "used")
	return Result{Status: status, Message: msg}, nil
}

// Check reports whether name is used, queued or available. It never writes.
func (s *Service) Check(ctx context.Context, name string) (domain.Status, error) {
	if domain.NormalizeName(name) == "" {
		return domain.Status{}, domain.ErrEmptyName
	}

	status, err := s.check(ctx, name)
	if err != nil {
		s.outcomes.RecordOutcome("check", "error")
		return domain.Status{}, err
	}
	s.outcomes.RecordOutcome("check", status.Kind.String())
	return status, nil
}

func (s *Service) check(ctx context.Context, name string) (domain.Status, error) {
	ops, err := s.connect(ctx)
	if err != nil {
		return domain.Status{}, err
	}
	return ops.checkUsedAndQueued(ctx, name)
}

// Clear removes name from the queue without marking it used. The queue is
// rebuilt only when a row was actually cleared.
func (s *Service) Clear(ctx context.Context, name string) (string, error) {
	key := domain.NormalizeName(name)
	if key == "" {
		return "", domain.ErrEmptyName
	}

	unlock, err := s.names.lock(ctx, key)
	if err != nil {
		return "", err
	}
	defer unlock()

	ops, err := s.connect(ctx)
	if err != nil {
		return "", err
	}

	msg, found, err := ops.clearFromQueue(ctx, name)
	if err != nil {
		return "", err
	}
	if !found {
		s.outcomes.RecordOutcome("clear", "not_found")
		return msg, nil
	}
	if _, err := ops.rebuild(ctx); err != nil {
		return "", fmt.Errorf("failed to rebuild queue after clear: %w", err)
	}

	s.outcomes.RecordOutcome("clear", "cleared")
	return msg, nil
}

// Rebuild sorts and compacts the queue on demand.
func (s *Service) Rebuild(ctx context.Context) (RebuildResult, error) {
	ops, err := s.connect(ctx)
	if err != nil {
		return RebuildResult{}, err
	}

	result, err := ops.rebuild(ctx)
	if err != nil {
		return RebuildResult{}, err
	}
	slog.InfoContext(ctx, "Queue rebuilt", "before", result.Before, "after", result.After)
	return result, nil
}

// ListQueue returns the populated queue rows in sheet order.
func (s *Service) ListQueue(ctx context.Context) ([]domain.QueueEntry, error) {
	ops, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	return ops.listQueue(ctx)
}

// UsedHistory returns the Used log in insertion order.
func (s *Service) UsedHistory(ctx context.Context) ([]domain.UsedEntry, error) {
	ops, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	return ops.listUsed(ctx)
}

// Ping connects and performs one cheap read.
func (s *Service) Ping(ctx context.Context) error {
	ops, err := s.connect(ctx)
	if err != nil {
		return err
	}
	if _, err := ops.store.ReadColumn(ctx, domain.SheetQueue, 0); err != nil {
		return fmt.Errorf("failed to read queue: %w", err)
	}
	return nil
}

func (s *Service) connect(ctx context.Context) (sheetOps, error) {
	store, err := s.connector.Connect(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrSheetStore) {
			err = fmt.Errorf("%w: %w", domain.ErrSheetStore, err)
		}
		return sheetOps{}, fmt.Errorf("failed to connect to sheet store: %w", err)
	}
	return sheetOps{store: store, clock: s.clock, loc: s.location}, nil
}

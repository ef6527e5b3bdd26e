package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/pscheid92/waitlist/internal/domain"
)

// Operation names accepted by Fail.
const (
	OpReadRows   = "read_rows"
	OpReadColumn = "read_column"
	OpAppendRow  = "append_row"
	OpWriteRows  = "write_rows"
)

type Store struct {
	mu       sync.Mutex
	sheets   map[domain.Sheet][]domain.Row
	failures map[string]error
}

var _ domain.SheetStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		sheets:   make(map[domain.Sheet][]domain.Row),
		failures: make(map[string]error),
	}
}

// Connect returns the store itself; there is nothing to authenticate.
func (s *Store) Connect(_ context.Context) (domain.SheetStore, error) {
	return s, nil
}

// Seed replaces the raw contents of a sheet.
func (s *Store) Seed(sheet domain.Sheet, rows ...domain.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sheets[sheet] = cloneRows(rows)
}

// Raw returns a copy of the stored rows including blank ones, as a spreadsheet UI would show them.
func (s *Store) Raw(sheet domain.Sheet) []domain.Row {
	s.mu.Lock()
	defer s.mu.Unlock()

	return cloneRows(s.sheets[sheet])
}

// Fail makes every subsequent call of op return err. A nil err clears the failure.
func (s *Store) Fail(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

func (s *Store) ReadRows(_ context.Context, sheet domain.Sheet) ([]domain.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failure(OpReadRows); err != nil {
		return nil, err
	}

	rows := s.sheets[sheet]
	last := lastPopulated(rows)
	out := make([]domain.Row, 0, last+1)
	for _, row := range rows[:last+1] {
		out = append(out, trimRow(row, sheet.Columns()))
	}
	return out, nil
}

func (s *Store) ReadColumn(_ context.Context, sheet domain.Sheet, column int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failure(OpReadColumn); err != nil {
		return nil, err
	}
	if column < 0 || column >= sheet.Columns() {
		return nil, fmt.Errorf("column %d out of range for %s: %w", column, sheet, domain.ErrSheetStore)
	}

	rows := s.sheets[sheet]
	out := make([]string, 0, len(rows))
	last := -1
	for i, row := range rows {
		cell := row.Cell(column)
		if cell != "" {
			last = i
		}
		out = append(out, cell)
	}
	return out[:last+1], nil
}

func (s *Store) AppendRow(_ context.Context, sheet domain.Sheet, row domain.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failure(OpAppendRow); err != nil {
		return err
	}

	rows := s.sheets[sheet]
	next := lastPopulated(rows) + 1
	s.sheets[sheet] = setRow(rows, next, padRow(row, sheet.Columns()))
	return nil
}

func (s *Store) WriteRows(_ context.Context, sheet domain.Sheet, startRow int, rows []domain.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failure(OpWriteRows); err != nil {
		return err
	}
	if startRow < 1 {
		return fmt.Errorf("start row %d must be >= 1: %w", startRow, domain.ErrSheetStore)
	}

	stored := s.sheets[sheet]
	for i, row := range rows {
		stored = setRow(stored, startRow-1+i, padRow(row, sheet.Columns()))
	}
	s.sheets[sheet] = stored
	return nil
}

func (s *Store) failure(op string) error {
	if err, ok := s.failures[op]; ok {
		return fmt.Errorf("memory %s: %w: %w", op, domain.ErrSheetStore, err)
	}
	return nil
}

func lastPopulated(rows []domain.Row) int {
	for i := len(rows) - 1; i >= 0; i-- {
		if !rows[i].Blank() {
			return i
		}
	}
	return -1
}

func setRow(rows []domain.Row, index int, row domain.Row) []domain.Row {
	for len(rows) <= index {
		rows = append(rows, domain.Row{})
	}
	rows[index] = row
	return rows
}

// trimRow drops cells beyond the schema and trailing empty cells.
func trimRow(row domain.Row, width int) domain.Row {
	if len(row) > width {
		row = row[:width]
	}
	end := len(row)
	for end > 0 && row[end-1] == "" {
		end--
	}
	return append(domain.Row{}, row[:end]...)
}

func padRow(row domain.Row, width int) domain.Row {
	out := make(domain.Row, width)
	copy(out, row)
	return out
}

func cloneRows(rows []domain.Row) []domain.Row {
	out := make([]domain.Row, len(rows))
	for i, row := range rows {
		out[i] = append(domain.Row{}, row...)
	}
	return out
}

package pebblestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/pscheid92/waitlist/internal/domain"
)

const rowDigits = 8

// Store is a sheet store persisted in a Pebble database. It is its own
// connector: every Connect hands out the same handle.
type Store struct {
	db *pebble.DB

	// appendMu serializes AppendRow so two appends never pick the same row.
	appendMu sync.Mutex
}

var (
	_ domain.SheetStore     = (*Store)(nil)
	_ domain.SheetConnector = (*Store)(nil)
)

// Open creates or opens the database at dir.
func Open(dir string) (*Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble at %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close pebble: %w", err)
	}
	return nil
}

func (s *Store) Connect(_ context.Context) (domain.SheetStore, error) {
	return s, nil
}

func (s *Store) ReadRows(ctx context.Context, sheet domain.Sheet) ([]domain.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, storeError("read", sheet, err)
	}

	iter, err := s.db.NewIter(sheetBounds(sheet))
	if err != nil {
		return nil, storeError("read", sheet, err)
	}
	defer iter.Close()

	var rows []domain.Row
	for iter.First(); iter.Valid(); iter.Next() {
		n, err := parseRowKey(sheet, iter.Key())
		if err != nil {
			return nil, storeError("read", sheet, err)
		}

		var row domain.Row
		if err := json.Unmarshal(iter.Value(), &row); err != nil {
			return nil, storeError("read", sheet, fmt.Errorf("decode row %d: %w", n, err))
		}

		for len(rows) < n-1 {
			rows = append(rows, domain.Row{})
		}
		rows = append(rows, trimRow(row, sheet))
	}
	if err := iter.Error(); err != nil {
		return nil, storeError("read", sheet, err)
	}
	for len(rows) > 0 && rows[len(rows)-1].Blank() {
		rows = rows[:len(rows)-1]
	}
	return rows, nil
}

func (s *Store) ReadColumn(ctx context.Context, sheet domain.Sheet, column int) ([]string, error) {
	if column < 0 || column >= sheet.Columns() {
		return nil, fmt.Errorf("column %d out of range for %s: %w", column, sheet, domain.ErrSheetStore)
	}

	rows, err := s.ReadRows(ctx, sheet)
	if err != nil {
		return nil, err
	}

	values := make([]string, len(rows))
	for i, row := range rows {
		values[i] = row.Cell(column)
	}
	for len(values) > 0 && values[len(values)-1] == "" {
		values = values[:len(values)-1]
	}
	return values, nil
}

func (s *Store) AppendRow(ctx context.Context, sheet domain.Sheet, row domain.Row) error {
	if err := ctx.Err(); err != nil {
		return storeError("append", sheet, err)
	}

	s.appendMu.Lock()
	defer s.appendMu.Unlock()

	last, err := s.lastRow(sheet)
	if err != nil {
		return storeError("append", sheet, err)
	}

	value, err := encodeRow(row, sheet)
	if err != nil {
		return storeError("append", sheet, err)
	}
	if err := s.db.Set(rowKey(sheet, last+1), value, pebble.Sync); err != nil {
		return storeError("append", sheet, err)
	}
	return nil
}

// WriteRows overwrites rows startRow.. in one atomic batch. Blank rows delete
// their key.
func (s *Store) WriteRows(ctx context.Context, sheet domain.Sheet, startRow int, rows []domain.Row) error {
	if startRow < 1 {
		return fmt.Errorf("start row %d must be >= 1: %w", startRow, domain.ErrSheetStore)
	}
	if err := ctx.Err(); err != nil {
		return storeError("write", sheet, err)
	}
	if len(rows) == 0 {
		return nil
	}

	batch := s.db.NewBatch()
	defer batch.Close()

	for i, row := range rows {
		key := rowKey(sheet, startRow+i)
		trimmed := trimRow(row, sheet)
		if trimmed.Blank() {
			if err := batch.Delete(key, nil); err != nil {
				return storeError("write", sheet, err)
			}
			continue
		}

		value, err := encodeRow(trimmed, sheet)
		if err != nil {
			return storeError("write", sheet, err)
		}
		if err := batch.Set(key, value, nil); err != nil {
			return storeError("write", sheet, err)
		}
	}

	if err := batch.Commit(pebble.Sync); err != nil {
		return storeError("write", sheet, err)
	}
	return nil
}

func (s *Store) lastRow(sheet domain.Sheet) (int, error) {
	iter, err := s.db.NewIter(sheetBounds(sheet))
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	if !iter.Last() {
		return 0, iter.Error()
	}
	return parseRowKey(sheet, iter.Key())
}

func sheetPrefix(sheet domain.Sheet) []byte {
	return []byte(sheet.String() + "/")
}

func sheetBounds(sheet domain.Sheet) *pebble.IterOptions {
	lower := sheetPrefix(sheet)
	upper := append(bytes.Clone(lower[:len(lower)-1]), '/'+1)
	return &pebble.IterOptions{LowerBound: lower, UpperBound: upper}
}

func rowKey(sheet domain.Sheet, row int) []byte {
	return fmt.Appendf(sheetPrefix(sheet), "%0*d", rowDigits, row)
}

func parseRowKey(sheet domain.Sheet, key []byte) (int, error) {
	suffix, ok := strings.CutPrefix(string(key), string(sheetPrefix(sheet)))
	if !ok {
		return 0, fmt.Errorf("key %q outside sheet %s", key, sheet)
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("malformed row key %q", key)
	}
	return n, nil
}

func encodeRow(row domain.Row, sheet domain.Sheet) ([]byte, error) {
	value, err := json.Marshal(trimRow(row, sheet))
	if err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}
	return value, nil
}

// trimRow cuts a row to the sheet width and drops trailing empty cells, the
// same shape the Sheets API returns.
func trimRow(row domain.Row, sheet domain.Sheet) domain.Row {
	if len(row) > sheet.Columns() {
		row = row[:sheet.Columns()]
	}
	for len(row) > 0 && row[len(row)-1] == "" {
		row = row[:len(row)-1]
	}
	if row == nil {
		return domain.Row{}
	}
	return row
}

func storeError(op string, sheet domain.Sheet, err error) error {
	if errors.Is(err, domain.ErrSheetStore) {
		return err
	}
	return fmt.Errorf("pebble %s %s: %w: %w", op, sheet, domain.ErrSheetStore, err)
}

package sheets

import (
	"context"
	"fmt"

	"github.com/pscheid92/waitlist/internal/domain"
	gsheets "google.golang.org/api/sheets/v4"
)

const valueInputRaw = "RAW"

// Store is a sheet store bound to one spreadsheet and one access token.
type Store struct {
	values        *gsheets.SpreadsheetsValuesService
	spreadsheetID string
}

var _ domain.SheetStore = (*Store)(nil)

func (s *Store) ReadRows(ctx context.Context, sheet domain.Sheet) ([]domain.Row, error) {
	resp, err := s.values.Get(s.spreadsheetID, fullRange(sheet)).Context(ctx).Do()
	if err != nil {
		return nil, storeError("read", fullRange(sheet), err)
	}
	return toRows(resp.Values), nil
}

func (s *Store) ReadColumn(ctx context.Context, sheet domain.Sheet, column int) ([]string, error) {
	if column < 0 || column >= sheet.Columns() {
		return nil, fmt.Errorf("column %d out of range for %s: %w", column, sheet, domain.ErrSheetStore)
	}

	rng := columnRange(sheet, column)
	resp, err := s.values.Get(s.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, storeError("read", rng, err)
	}

	rows := toRows(resp.Values)
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = row.Cell(0)
	}
	return out, nil
}

func (s *Store) AppendRow(ctx context.Context, sheet domain.Sheet, row domain.Row) error {
	rng := fullRange(sheet)
	body := &gsheets.ValueRange{Values: toValues([]domain.Row{row})}

	_, err := s.values.Append(s.spreadsheetID, rng, body).
		ValueInputOption(valueInputRaw).
		Context(ctx).
		Do()
	if err != nil {
		return storeError("append", rng, err)
	}
	return nil
}

func (s *Store) WriteRows(ctx context.Context, sheet domain.Sheet, startRow int, rows []domain.Row) error {
	if startRow < 1 {
		return fmt.Errorf("start row %d must be >= 1: %w", startRow, domain.ErrSheetStore)
	}
	if len(rows) == 0 {
		return nil
	}

	padded := make([]domain.Row, len(rows))
	for i, row := range rows {
		padded[i] = make(domain.Row, sheet.Columns())
		copy(padded[i], row)
	}

	rng := rowsRange(sheet, startRow, startRow+len(rows)-1)
	body := &gsheets.ValueRange{Range: rng, Values: toValues(padded)}

	_, err := s.values.Update(s.spreadsheetID, rng, body).
		ValueInputOption(valueInputRaw).
		Context(ctx).
		Do()
	if err != nil {
		return storeError("update", rng, err)
	}
	return nil
}

func storeError(op, rng string, err error) error {
	return fmt.Errorf("sheets %s %s: %w: %w", op, rng, domain.ErrSheetStore, err)
}

func toRows(values [][]interface{}) []domain.Row {
	rows := make([]domain.Row, len(values))
	for i, cells := range values {
		row := make(domain.Row, len(cells))
		for j, cell := range cells {
			row[j] = cellString(cell)
		}
		rows[i] = row
	}
	return rows
}

func toValues(rows []domain.Row) [][]interface{} {
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		values[i] = cells
	}
	return values
}

func cellString(v interface{}) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	default:
		return fmt.Sprint(c)
	}
}

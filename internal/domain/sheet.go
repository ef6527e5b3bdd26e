package domain

import "context"

// Sheet identifies one of the two logical tables of the waitlist workbook.
// Adapters own the mapping to physical ranges.
type Sheet int

const (
	SheetQueue Sheet = iota
	SheetUsed
)

func (s Sheet) String() string {
	switch s {
	case SheetQueue:
		return "Queue"
	case SheetUsed:
		return "Used"
	default:
		return "Unknown"
	}
}

// Columns is the schema width of the sheet: Queue holds name and queued-at,
// Used holds name, used-at and actor.
func (s Sheet) Columns() int {
	if s == SheetUsed {
		return 3
	}
	return 2
}

// Row is one spreadsheet row of cell strings. A wholly blank row is empty.
type Row []string

// Cell returns the i-th cell or "" when the row is shorter.
func (r Row) Cell(i int) string {
	if i < len(r) {
		return r[i]
	}
	return ""
}

// Blank reports whether the row holds no non-empty cell.
func (r Row) Blank() bool {
	for _, c := range r {
		if c != "" {
			return false
		}
	}
	return true
}

// SheetStore is the boundary to the system of record.
//
// ReadRows returns every row up to the last populated one; interior blank rows are
// returned as empty Rows and an empty sheet yields no rows and no error.
// ReadColumn returns a single column with "" for blank cells, same row indexing.
// WriteRows overwrites len(rows) rows starting at the 1-based startRow.
type SheetStore interface {
	ReadRows(ctx context.Context, sheet Sheet) ([]Row, error)
	ReadColumn(ctx context.Context, sheet Sheet, column int) ([]string, error)
	AppendRow(ctx context.Context, sheet Sheet, row Row) error
	WriteRows(ctx context.Context, sheet Sheet, startRow int, rows []Row) error
}

// SheetConnector hands out a store handle scoped to one use case. For remote
// backends every call re-authenticates.
type SheetConnector interface {
	Connect(ctx context.Context) (SheetStore, error)
}

// SheetConnectorFunc adapts a function to SheetConnector.
type SheetConnectorFunc func(ctx context.Context) (SheetStore, error)

func (f SheetConnectorFunc) Connect(ctx context.Context) (SheetStore, error) { return f(ctx) }

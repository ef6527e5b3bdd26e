package sheets

import (
	"fmt"

	"github.com/pscheid92/waitlist/internal/domain"
)

// columnLetter maps a zero-based column index to its A1 letter. The waitlist
// schema never exceeds column C.
func columnLetter(column int) string {
	return string(rune('A' + column))
}

func lastColumn(sheet domain.Sheet) string {
	return columnLetter(sheet.Columns() - 1)
}

// fullRange is the whole schema of a sheet, e.g. "Queue!A:B".
func fullRange(sheet domain.Sheet) string {
	return fmt.Sprintf("%s!A:%s", sheet, lastColumn(sheet))
}

// columnRange is one column of a sheet, e.g. "Queue!A:A".
func columnRange(sheet domain.Sheet, column int) string {
	col := columnLetter(column)
	return fmt.Sprintf("%s!%s:%s", sheet, col, col)
}

// rowsRange spans rows first..last (1-based, inclusive), e.g. "Queue!A3:B5".
func rowsRange(sheet domain.Sheet, first, last int) string {
	return fmt.Sprintf("%s!A%d:%s%d", sheet, first, lastColumn(sheet), last)
}

package sheets

import (
	"testing"

	"github.com/pscheid92/waitlist/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRanges(t *testing.T) {
	assert.Equal(t, "Queue!A:B", fullRange(domain.SheetQueue))
	assert.Equal(t, "Used!A:C", fullRange(domain.SheetUsed))
	assert.Equal(t, "Queue!A:A", columnRange(domain.SheetQueue, 0))
	assert.Equal(t, "Used!B:B", columnRange(domain.SheetUsed, 1))
	assert.Equal(t, "Queue!A3:B5", rowsRange(domain.SheetQueue, 3, 5))
	assert.Equal(t, "Used!A1:C1", rowsRange(domain.SheetUsed, 1, 1))
}

func TestToRows(t *testing.T) {
	rows := toRows([][]interface{}{{"Bob", "t1"}, {}, {"Alice", 42.0, nil}})

	assert.Equal(t, []domain.Row{{"Bob", "t1"}, {}, {"Alice", "42", ""}}, rows)
}

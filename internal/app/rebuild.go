package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/pscheid92/waitlist/internal/domain"
)

// RebuildResult reports the queue size before and after compaction.
type RebuildResult struct {
	Before int
	After  int
}

// rebuild sorts and compacts the queue, then blanks the rows the compacted
// set no longer covers. A failed write aborts without rollback.
func (o sheetOps) rebuild(ctx context.Context) (RebuildResult, error) {
	rows, err := o.store.ReadRows(ctx, domain.SheetQueue)
	if err != nil {
		return RebuildResult{}, fmt.Errorf("failed to read queue: %w", err)
	}

	compacted := compactQueue(rows)
	result := RebuildResult{Before: len(rows), After: len(compacted)}

	if len(compacted) > 0 {
		if err := o.store.WriteRows(ctx, domain.SheetQueue, 1, compacted); err != nil {
			return RebuildResult{}, fmt.Errorf("failed to rewrite queue: %w", err)
		}
	}

	if result.After < result.Before {
		blanks := make([]domain.Row, result.Before-result.After)
		for i := range blanks {
			blanks[i] = blankRow(domain.SheetQueue)
		}
		if err := o.store.WriteRows(ctx, domain.SheetQueue, result.After+1, blanks); err != nil {
			return RebuildResult{}, fmt.Errorf("failed to blank queue rows %d-%d: %w", result.After+1, result.Before, err)
		}
	}

	return result, nil
}

// compactQueue drops wholly blank rows, normalizes the rest to name and
// queued-at, and stable-sorts by normalized name.
func compactQueue(rows []domain.Row) []domain.Row {
	out := make([]domain.Row, 0, len(rows))
	for _, row := range rows {
		if row.Blank() {
			continue
		}
		out = append(out, domain.Row{row.Cell(0), row.Cell(1)})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return domain.NormalizeName(out[i].Cell(0)) < domain.NormalizeName(out[j].Cell(0))
	})
	return out
}

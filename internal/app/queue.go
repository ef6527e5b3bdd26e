package app

import (
	"context"
	"fmt"
	"slices"

	"github.com/pscheid92/waitlist/internal/domain"
)

// addToQueue appends name without checking for duplicates.
func (o sheetOps) addToQueue(ctx context.Context, name string) (string, error) {
	if err := o.store.AppendRow(ctx, domain.SheetQueue, domain.Row{name, o.now()}); err != nil {
		return "", fmt.Errorf("failed to append to queue: %w", err)
	}
	return fmt.Sprintf("%s added to Queue.", name), nil
}

// clearFromQueue blanks the first matching row in place. Later rows keep their
// position until the next rebuild.
func (o sheetOps) clearFromQueue(ctx context.Context, name string) (string, bool, error) {
	names, err := o.store.ReadColumn(ctx, domain.SheetQueue, 0)
	if err != nil {
		return "", false, fmt.Errorf("failed to read queue names: %w", err)
	}

	idx := slices.IndexFunc(names, func(queued string) bool { return domain.SameName(queued, name) })
	if idx < 0 {
		return fmt.Sprintf("%s not found in Queue.", name), false, nil
	}

	row := idx + 1
	if err := o.store.WriteRows(ctx, domain.SheetQueue, row, []domain.Row{blankRow(domain.SheetQueue)}); err != nil {
		return "", false, fmt.Errorf("failed to clear queue row %d: %w", row, err)
	}
	return fmt.Sprintf("%s cleared from Queue row %d.", name, row), true, nil
}

func (o sheetOps) listQueue(ctx context.Context) ([]domain.QueueEntry, error) {
	rows, err := o.store.ReadRows(ctx, domain.SheetQueue)
	if err != nil {
		return nil, fmt.Errorf("failed to read queue: %w", err)
	}

	entries := make([]domain.QueueEntry, 0, len(rows))
	for _, row := range rows {
		if row.Blank() {
			continue
		}
		entries = append(entries, domain.QueueEntry{Name: row.Cell(0), QueuedAt: row.Cell(1)})
	}
	return entries, nil
}

func blankRow(sheet domain.Sheet) domain.Row {
	return make(domain.Row, sheet.Columns())
}

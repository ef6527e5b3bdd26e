package app

import (
	"context"
	"fmt"

	"github.com/pscheid92/waitlist/internal/domain"
)

func (o sheetOps) addToUsed(ctx context.Context, name, actor string) (string, error) {
	at := o.now()
	if err := o.store.AppendRow(ctx, domain.SheetUsed, domain.Row{name, at, actor}); err != nil {
		return "", fmt.Errorf("failed to append to used: %w", err)
	}
	return fmt.Sprintf("%s Used by %s at %s.", name, actor, at), nil
}

func (o sheetOps) listUsed(ctx context.Context) ([]domain.UsedEntry, error) {
	rows, err := o.store.ReadRows(ctx, domain.SheetUsed)
	if err != nil {
		return nil, fmt.Errorf("failed to read used sheet: %w", err)
	}

	entries := make([]domain.UsedEntry, 0, len(rows))
	for _, row := range rows {
		if row.Blank() {
			continue
		}
		entries = append(entries, domain.UsedEntry{Name: row.Cell(0), UsedAt: row.Cell(1), UsedBy: row.Cell(2)})
	}
	return entries, nil
}

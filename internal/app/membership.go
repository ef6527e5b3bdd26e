package app

import (
	"context"
	"fmt"
	"slices"

	"github.com/pscheid92/waitlist/internal/domain"
)

// checkUsed looks name up in the Used sheet. The first matching row wins.
func (o sheetOps) checkUsed(ctx context.Context, name string) (domain.Status, error) {
	rows, err := o.store.ReadRows(ctx, domain.SheetUsed)
	if err != nil {
		return domain.Status{}, fmt.Errorf("failed to read used sheet: %w", err)
	}

	for _, row := range rows {
		if domain.SameName(row.Cell(0), name) {
			return domain.Status{Kind: domain.AlreadyUsed, Name: name, UsedAt: row.Cell(1)}, nil
		}
	}
	return domain.Status{Kind: domain.Available, Name: name}, nil
}

// checkUsedAndQueued reports AlreadyUsed before AlreadyQueued.
func (o sheetOps) checkUsedAndQueued(ctx context.Context, name string) (domain.Status, error) {
	status, err := o.checkUsed(ctx, name)
	if err != nil || !status.Available() {
		return status, err
	}

	names, err := o.store.ReadColumn(ctx, domain.SheetQueue, 0)
	if err != nil {
		return domain.Status{}, fmt.Errorf("failed to read queue names: %w", err)
	}

	if slices.ContainsFunc(names, func(queued string) bool { return domain.SameName(queued, name) }) {
		return domain.Status{Kind: domain.AlreadyQueued, Name: name}, nil
	}
	return status, nil
}

package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pscheid92/waitlist/internal/domain"
)

var (
	availableStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	refusedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	headerStyle    = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle      = lipgloss.NewStyle().Padding(0, 1)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func queueTable(entries []domain.QueueEntry) string {
	t := newTable("NAME", "QUEUED AT")
	for _, e := range entries {
		t.Row(e.Name, e.QueuedAt)
	}
	return t.String()
}

func usedTable(entries []domain.UsedEntry) string {
	t := newTable("NAME", "USED AT", "BY")
	for _, e := range entries {
		t.Row(e.Name, e.UsedAt, e.UsedBy)
	}
	return t.String()
}

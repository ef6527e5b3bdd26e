package app

import (
	"sort"
	"time"

	"github.com/pscheid92/waitlist/internal/domain"
)

const unknownDateLabel = "Unknown date"

// DateGroup is the set of Used entries recorded on one calendar day.
// Date is zero for the group of unparseable timestamps.
type DateGroup struct {
	Date    time.Time
	Label   string
	Entries []domain.UsedEntry
}

// GroupUsedByDate buckets entries by the day of their stored timestamp, newest
// day first. Entries keep their insertion order within a day; entries whose
// timestamp cannot be parsed are collected in a trailing group.
func GroupUsedByDate(entries []domain.UsedEntry, loc *time.Location) []DateGroup {
	byDay := make(map[string]*DateGroup)
	var unknown *DateGroup

	for _, e := range entries {
		ts, err := domain.ParseTimestamp(e.UsedAt, loc)
		if err != nil {
			if unknown == nil {
				unknown = &DateGroup{Label: unknownDateLabel}
			}
			unknown.Entries = append(unknown.Entries, e)
			continue
		}

		day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, loc)
		key := day.Format(time.DateOnly)
		g, ok := byDay[key]
		if !ok {
			g = &DateGroup{Date: day, Label: day.Format("Monday, January 2, 2006")}
			byDay[key] = g
		}
		g.Entries = append(g.Entries, e)
	}

	groups := make([]DateGroup, 0, len(byDay)+1)
	for _, g := range byDay {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Date.After(groups[j].Date) })

	if unknown != nil {
		groups = append(groups, *unknown)
	}
	return groups
}

package domain

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the display format stored in the Queue and Used sheets.
const TimestampLayout = "Mon Jan _2 2006 3:04 PM"

// FormatTimestamp renders t the way it is written to the sheet.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// ParseTimestamp parses a stored display timestamp in loc.
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(TimestampLayout, strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized timestamp %q: %w", value, err)
	}
	return t, nil
}

type QueueEntry struct {
	Name     string `json:"name"`
	QueuedAt string `json:"queued_at"`
}

type UsedEntry struct {
	Name   string `json:"name"`
	UsedAt string `json:"used_at"`
	UsedBy string `json:"used_by"`
}

// StatusKind classifies a membership check result.
type StatusKind int

const (
	Available StatusKind = iota
	AlreadyUsed
	AlreadyQueued
)

func (k StatusKind) String() string {
	switch k {
	case Available:
		return "available"
	case AlreadyUsed:
		return "already_used"
	case AlreadyQueued:
		return "already_queued"
	default:
		return "unknown"
	}
}

// Status is the computed membership of a name. UsedAt is only set for AlreadyUsed.
type Status struct {
	Kind   StatusKind
	Name   string
	UsedAt string
}

func (s Status) Available() bool { return s.Kind == Available }

// Message renders the human-readable refusal. Available has no message.
func (s Status) Message() string {
	switch s.Kind {
	case AlreadyUsed:
		return fmt.Sprintf("%s already Used at %s.", s.Name, s.UsedAt)
	case AlreadyQueued:
		return fmt.Sprintf("%s is already Queued.", s.Name)
	default:
		return ""
	}
}

package app

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/waitlist/internal/domain"
)

// sheetOps binds the waitlist components to one connected store.
type sheetOps struct {
	store domain.SheetStore
	clock clockwork.Clock
	loc   *time.Location
}

func (o sheetOps) now() string {
	return domain.FormatTimestamp(o.clock.Now().In(o.loc))
}

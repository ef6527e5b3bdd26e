package domain

import "errors"

var (
	// ErrSheetStore marks a failure reported by the backing sheet store
	// (network, auth or API error). Adapters wrap their errors with it.
	ErrSheetStore = errors.New("sheet store failure")
	ErrEmptyName  = errors.New("name is required")
)

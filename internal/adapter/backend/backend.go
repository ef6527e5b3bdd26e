// Package backend opens the sheet store selected by SHEET_BACKEND.
package backend

import (
	"fmt"

	"github.com/pscheid92/waitlist/internal/adapter/memory"
	pebblestore "github.com/pscheid92/waitlist/internal/adapter/pebble"
	"github.com/pscheid92/waitlist/internal/adapter/sheets"
	"github.com/pscheid92/waitlist/internal/domain"
	"github.com/pscheid92/waitlist/internal/platform/config"
)

type Backend struct {
	Name      string
	Connector domain.SheetConnector
	close     func() error
}

// Close releases local resources (the pebble database). Remote backends hold none.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

func Open(cfg *config.Config) (*Backend, error) {
	switch cfg.SheetBackend {
	case config.BackendGoogle:
		conn := sheets.NewConnector(sheets.Config{
			SpreadsheetID: cfg.SheetID,
			ClientID:      cfg.GoogleClientID,
			ClientSecret:  cfg.GoogleClientSecret,
			RefreshToken:  cfg.RefreshToken,
			TokenURL:      cfg.GoogleTokenURL,
			Endpoint:      cfg.SheetsEndpoint,
		})
		return &Backend{Name: cfg.SheetBackend, Connector: conn}, nil

	case config.BackendPebble:
		store, err := pebblestore.Open(cfg.PebblePath)
		if err != nil {
			return nil, err
		}
		return &Backend{Name: cfg.SheetBackend, Connector: store, close: store.Close}, nil

	case config.BackendMemory:
		return &Backend{Name: cfg.SheetBackend, Connector: memory.NewStore()}, nil

	default:
		return nil, fmt.Errorf("unknown sheet backend %q", cfg.SheetBackend)
	}
}

package sheets

import (
	"context"
	"fmt"

	"github.com/pscheid92/waitlist/internal/domain"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// Config holds what is needed to reach one spreadsheet on behalf of one Google account.
type Config struct {
	SpreadsheetID string
	ClientID      string
	ClientSecret  string
	RefreshToken  string
	TokenURL      string
	// Endpoint overrides the Sheets API base URL (tests, proxies).
	Endpoint string
}

type Connector struct {
	cfg   Config
	oauth *oauth2.Config
}

var _ domain.SheetConnector = (*Connector)(nil)

func NewConnector(cfg Config) *Connector {
	return &Connector{
		cfg: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
			Scopes: []string{gsheets.SpreadsheetsScope},
		},
	}
}

// Connect refreshes the access token and builds a Sheets client around it.
// The handle is meant to live for one request.
func (c *Connector) Connect(ctx context.Context) (domain.SheetStore, error) {
	token, err := c.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: c.cfg.RefreshToken}).Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh access token: %w: %w", domain.ErrSheetStore, err)
	}

	opts := []option.ClientOption{option.WithTokenSource(oauth2.StaticTokenSource(token))}
	if c.cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.cfg.Endpoint))
	}

	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w: %w", domain.ErrSheetStore, err)
	}

	return &Store{values: svc.Spreadsheets.Values, spreadsheetID: c.cfg.SpreadsheetID}, nil
}

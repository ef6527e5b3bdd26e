package httpserver

import (
	"crypto/subtle"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	apperrors "github.com/pscheid92/waitlist/internal/platform/errors"
)

const passphraseParam = "passphrase"

// requirePassphrase rejects requests whose passphrase (query or form) does not
// match the configured secret. It runs before any sheet access.
func (s *Server) requirePassphrase(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !passphraseMatches(c.FormValue(passphraseParam), s.config.Passphrase) {
			return apperrors.UnauthorizedError("unauthorized")
		}
		return next(c)
	}
}

func passphraseMatches(given, expected string) bool {
	if given == "" || expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(given), []byte(expected)) == 1
}

// redactPassphrase keeps the secret out of request logs.
func redactPassphrase(uri string) string {
	path, rawQuery, ok := strings.Cut(uri, "?")
	if !ok {
		return uri
	}

	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return path
	}
	if !query.Has(passphraseParam) {
		return uri
	}

	query.Set(passphraseParam, "REDACTED")
	return path + "?" + query.Encode()
}

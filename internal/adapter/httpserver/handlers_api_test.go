package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/pscheid92/waitlist/internal/app"
	"github.com/pscheid92/waitlist/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const unauthorizedBody = `{"error":"unauthorized","type":"unauthorized"}`

// --- Passphrase ---

func TestAPI_MissingPassphrase(t *testing.T) {
	var called bool
	svc := &mockAppService{
		enqueueFn: func(_ context.Context, _ string) (app.Result, error) {
			called = true
			return app.Result{}, nil
		},
	}
	srv := newTestServer(t, svc)

	rec := serve(srv, http.MethodPost, "/api/queue", url.Values{"name": {"Alice"}})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, unauthorizedBody, rec.Body.String())
	assert.False(t, called, "core logic must not run without a passphrase")
}

func TestAPI_WrongPassphrase(t *testing.T) {
	srv := newTestServer(t, &mockAppService{})

	for _, path := range []string{"/api/check", "/api/queue"} {
		rec := serve(srv, http.MethodGet, path, url.Values{"name": {"Alice"}, "passphrase": {"guess"}})

		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.JSONEq(t, unauthorizedBody, rec.Body.String(), path)
	}
}

func TestAPI_PassphraseInQueryOnPost(t *testing.T) {
	svc := &mockAppService{
		enqueueFn: func(_ context.Context, name string) (app.Result, error) {
			return app.Result{Message: name + " added to Queue."}, nil
		},
	}
	srv := newTestServer(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/api/queue?name=Alice&passphrase="+testPassphrase, nil)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"Alice added to Queue."`, rec.Body.String())
}

func TestPassphraseMatches(t *testing.T) {
	assert.True(t, passphraseMatches("secret", "secret"))
	assert.False(t, passphraseMatches("Secret", "secret"))
	assert.False(t, passphraseMatches("", "secret"))
	assert.False(t, passphraseMatches("", ""))
}

func TestRedactPassphrase(t *testing.T) {
	assert.Equal(t, "/api/check?name=Alice&passphrase=REDACTED", redactPassphrase("/api/check?name=Alice&passphrase=secret"))
	assert.Equal(t, "/api/rebuild", redactPassphrase("/api/rebuild"))
	assert.Equal(t, "/?x=1", redactPassphrase("/?x=1"))
}

// --- Queue ---

func TestHandleEnqueue_Success(t *testing.T) {
	var gotName string
	svc := &mockAppService{
		enqueueFn: func(_ context.Context, name string) (app.Result, error) {
			gotName = name
			return app.Result{Message: name + " added to Queue."}, nil
		},
	}
	srv := newTestServer(t, svc)

	rec := serve(srv, http.MethodPost, "/api/queue", authed("name", "Alice Smith"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"Alice Smith added to Queue."`, rec.Body.String())
	assert.Equal(t, "Alice Smith", gotName)
}

func TestHandleEnqueue_AlreadyQueuedIsNotAnError(t *testing.T) {
	svc := &mockAppService{
		enqueueFn: func(_ context.Context, name string) (app.Result, error) {
			status := domain.Status{Kind: domain.AlreadyQueued, Name: name}
			return app.Result{Status: status, Message: status.Message()}, nil
		},
	}
	srv := newTestServer(t, svc)

	rec := serve(srv, http.MethodPost, "/api/queue", authed("name", "alice"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"alice is already Queued."`, rec.Body.String())
}

func TestHandleEnqueue_EmptyName(t *testing.T) {
	svc := &mockAppService{
		enqueueFn: func(_ context.Context, _ string) (app.Result, error) {
			return app.Result{}, domain.ErrEmptyName
		},
	}
	srv := newTestServer(t, svc)

	rec := serve(srv, http.MethodPost, "/api/queue", authed("name", "   "))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"type":"validation"`)
}

func TestHandleEnqueue_StoreFailure(t *testing.T) {
	svc := &mockAppService{
		enqueueFn: func(_ context.Context, _ string) (app.Result, error) {
			return app.Result{}, fmt.Errorf("append: %w: quota exceeded", domain.ErrSheetStore)
		},
	}
	srv := newTestServer(t, svc)

	rec := serve(srv, http.MethodPost, "/api/queue", authed("name", "Alice"))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), `"type":"external"`)
	assert.NotContains(t, rec.Body.String(), "quota exceeded", "causes stay in logs")
}

func TestHandleListQueue(t *testing.T) {
	svc := &mockAppService{
		listQueueFn: func(_ context.Context) ([]domain.QueueEntry, error) {
			return []domain.QueueEntry{{Name: "Alice", QueuedAt: "Tue Mar  5 2024 2:07 PM"}}, nil
		},
	}
	srv := newTestServer(t, svc)

	rec := serve(srv, http.MethodGet, "/api/queue", authed())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"name":"Alice","queued_at":"Tue Mar  5 2024 2:07 PM"}]`, rec.Body.String())
}

func TestHandleListQueue_Empty(t *testing.T) {
	srv := newTestServer(t, &mockAppService{})

	rec := serve(srv, http.MethodGet, "/api/queue", authed())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

// --- Use ---

func TestHandleMarkUsed_PassesActor(t *testing.T) {
	var gotName, gotActor string
	svc := &mockAppService{
		markUsedFn: func(_ context.Context, name, actor string) (app.Result, error) {
			gotName, gotActor = name, actor
			return app.Result{Message: name + " Used by " + actor + " at Tue Mar  5 2024 2:07 PM."}, nil
		},
	}
	srv := newTestServer(t, svc)

	rec := serve(srv, http.MethodPost, "/api/use", authed("name", "Alice", "by", "cb"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"Alice Used by cb at Tue Mar  5 2024 2:07 PM."`, rec.Body.String())
	assert.Equal(t, "Alice", gotName)
	assert.Equal(t, "cb", gotActor)
}

func TestHandleMarkUsed_AlreadyUsed(t *testing.T) {
	svc := &mockAppService{
		markUsedFn: func(_ context.Context, name, _ string) (app.Result, error) {
			status := domain.Status{Kind: domain.AlreadyUsed, Name: name, UsedAt: "Mon Mar  4 2024 9:00 AM"}
			return app.Result{Status: status, Message: status.Message()}, nil
		},
	}
	srv := newTestServer(t, svc)

	rec := serve(srv, http.MethodPost, "/api/use", authed("name", "Alice"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"Alice already Used at Mon Mar  4 2024 9:00 AM."`, rec.Body.String())
}

// --- Check ---

func TestHandleCheck_AvailableIsNull(t *testing.T) {
	svc := &mockAppService{
		checkFn: func(_ context.Context, name string) (domain.Status, error) {
			return domain.Status{Kind: domain.Available, Name: name}, nil
		},
	}
	srv := newTestServer(t, svc)

	rec := serve(srv, http.MethodGet, "/api/check", authed("name", "Zed"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `null`, rec.Body.String())
}

func TestHandleCheck_Queued(t *testing.T) {
	svc := &mockAppService{
		checkFn: func(_ context.Context, name string) (domain.Status, error) {
			return domain.Status{Kind: domain.AlreadyQueued, Name: name}, nil
		},
	}
	srv := newTestServer(t, svc)

	rec := serve(srv, http.MethodGet, "/api/check", authed("name", "BOB"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"BOB is already Queued."`, rec.Body.String())
}

func TestHandleCheck_DirectCall(t *testing.T) {
	svc := &mockAppService{
		checkFn: func(_ context.Context, _ string) (domain.Status, error) {
			return domain.Status{}, domain.ErrEmptyName
		},
	}
	srv := newTestServer(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/check", nil)
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)

	err := callHandler(srv.handleCheck, c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// --- Clear / Rebuild ---

func TestHandleClear(t *testing.T) {
	svc := &mockAppService{
		clearFn: func(_ context.Context, name string) (string, error) {
			return name + " cleared from Queue row 2.", nil
		},
	}
	srv := newTestServer(t, svc)

	rec := serve(srv, http.MethodPost, "/api/clear", authed("name", "Bob"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"Bob cleared from Queue row 2."`, rec.Body.String())
}

func TestHandleClear_NotFoundIsInformational(t *testing.T) {
	svc := &mockAppService{
		clearFn: func(_ context.Context, name string) (string, error) {
			return name + " not found in Queue.", nil
		},
	}
	srv := newTestServer(t, svc)

	rec := serve(srv, http.MethodPost, "/api/clear", authed("name", "Nobody"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"Nobody not found in Queue."`, rec.Body.String())
}

func TestHandleRebuild(t *testing.T) {
	svc := &mockAppService{
		rebuildFn: func(_ context.Context) (app.RebuildResult, error) {
			return app.RebuildResult{Before: 3, After: 2}, nil
		},
	}
	srv := newTestServer(t, svc)

	rec := serve(srv, http.MethodPost, "/api/rebuild", authed())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"Queue rebuilt: 2 rows (was 3)."`, rec.Body.String())
}

func TestHandleRebuild_StoreFailure(t *testing.T) {
	svc := &mockAppService{
		rebuildFn: func(_ context.Context) (app.RebuildResult, error) {
			return app.RebuildResult{}, fmt.Errorf("update: %w", domain.ErrSheetStore)
		},
	}
	srv := newTestServer(t, svc)

	rec := serve(srv, http.MethodPost, "/api/rebuild", authed())

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

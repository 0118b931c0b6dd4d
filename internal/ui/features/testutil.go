// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/metaview-labs/metaview/internal/auth"
	"github.com/metaview-labs/metaview/internal/cms"
	"github.com/metaview-labs/metaview/internal/session"
	"github.com/metaview-labs/metaview/internal/testutil"
	"github.com/metaview-labs/metaview/internal/ui/notifier"
)

// TestShop is the shop installed by SetupTestFixture.
const TestShop = "demo.myshopify.com"

// FakeQuerier serves canned metaobject results and records the calls it gets.
type FakeQuerier struct {
	mu sync.Mutex

	Lists   map[string]*cms.ListResult // keyed by cursor
	Details map[string]*cms.DetailEntry
	Err     error

	ListCalls   []ListCall
	DetailCalls []string
}

// ListCall records the arguments of one ListMetaobjects call.
type ListCall struct {
	Type   string
	Cursor string
	First  int
}

// ListMetaobjects implements cms.Querier.
func (q *FakeQuerier) ListMetaobjects(_ context.Context, typ, cursor string, first int) (*cms.ListResult, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.ListCalls = append(q.ListCalls, ListCall{Type: typ, Cursor: cursor, First: first})
	if q.Err != nil {
		return nil, q.Err
	}
	if res, ok := q.Lists[cursor]; ok {
		return res, nil
	}
	return &cms.ListResult{}, nil
}

// GetMetaobject implements cms.Querier.
func (q *FakeQuerier) GetMetaobject(_ context.Context, gid string) (*cms.DetailEntry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.DetailCalls = append(q.DetailCalls, gid)
	if q.Err != nil {
		return nil, q.Err
	}
	if entry, ok := q.Details[gid]; ok {
		return entry, nil
	}
	return nil, cms.ErrNotFound
}

// SetErr replaces the error every subsequent call returns.
func (q *FakeQuerier) SetErr(err error) {
	q.mu.Lock()
	q.Err = err
	q.mu.Unlock()
}

// ListCallCount returns how many list queries were issued.
func (q *FakeQuerier) ListCallCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ListCalls)
}

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Sessions      session.Store
	Cookies       *sessions.CookieStore
	Notifier      *notifier.Notifier
	Querier       *FakeQuerier
	Authenticator *auth.Authenticator
}

// SetupTestFixture creates an in-memory session store with TestShop installed
// and an authenticator whose clients all resolve to the fixture's FakeQuerier.
func SetupTestFixture(t *testing.T) *TestFixture {
	t.Helper()

	logger := testutil.NewTestLogger(t)
	ctx := context.Background()

	store := session.NewSQLiteStore(logger)
	require.NoError(t, store.Open(ctx, ":memory:"))
	require.NoError(t, store.Migrate(ctx))
	t.Cleanup(func() {
		_ = store.Close()
	})

	require.NoError(t, store.Store(ctx, &session.Session{
		ID:          session.OfflineID(TestShop),
		Shop:        TestShop,
		State:       "state",
		Scope:       "read_metaobjects,read_metaobject_definitions",
		AccessToken: "shpat_test",
	}))

	querier := &FakeQuerier{
		Lists:   map[string]*cms.ListResult{},
		Details: map[string]*cms.DetailEntry{},
	}
	cookies := NewTestSessionStore()

	authn := auth.New(auth.Config{
		Sessions: store,
		Cookies:  cookies,
		Scopes:   []string{"read_metaobjects"},
		Logger:   logger,
		NewClient: func(_, _ string) (cms.Querier, error) {
			return querier, nil
		},
	})

	return &TestFixture{
		Sessions:      store,
		Cookies:       cookies,
		Notifier:      notifier.New(),
		Querier:       querier,
		Authenticator: authn,
	}
}

// ShopRequest adds the fixture shop to a request's query string.
func ShopRequest(r *http.Request) *http.Request {
	q := r.URL.Query()
	q.Set("shop", TestShop)
	r.URL.RawQuery = q.Encode()
	return r
}

// RequestWithPathParam wraps a request with chi URL params.
func RequestWithPathParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// RequestWithTimeout wraps a request with a context timeout.
func RequestWithTimeout(t *testing.T, r *http.Request, timeout time.Duration) *http.Request {
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	t.Cleanup(cancel)
	return r.WithContext(ctx)
}

// NewTestSessionStore creates a cookie store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
}

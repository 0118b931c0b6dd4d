package metaobjects

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metaview-labs/metaview/internal/cms"
	"github.com/metaview-labs/metaview/internal/testutil"
	"github.com/metaview-labs/metaview/internal/ui/features"
	"github.com/metaview-labs/metaview/internal/ui/notifier"
)

// =============================================================================
// Test Setup Helpers
// =============================================================================

func setupTestHandlers(t *testing.T) (*Handlers, *features.TestFixture) {
	t.Helper()

	fixture := features.SetupTestFixture(t)
	handlers := NewHandlers(fixture.Authenticator, fixture.Notifier, testutil.NewTestLogger(t), false)

	return handlers, fixture
}

func bookPage(hasNext bool, cursor string) *cms.ListResult {
	return &cms.ListResult{
		FieldDefinitions: []cms.FieldDefinition{
			{Key: "title", Name: "Title"},
			{Key: "author", Name: "Author"},
		},
		Entries: []cms.Entry{
			{
				ID: "gid://shopify/Metaobject/1", Handle: "dune", Type: "book",
				Fields: []cms.Field{
					{Key: "author", Value: "Frank Herbert", Type: "single_line_text_field"},
					{Key: "title", Value: "Dune", Type: "single_line_text_field"},
				},
			},
			{
				ID: "gid://shopify/Metaobject/2", Handle: "untitled", Type: "book",
				Fields: []cms.Field{
					{Key: "author", Value: "<Anon>", Type: "single_line_text_field"},
				},
			},
		},
		PageInfo: cms.PageInfo{HasNextPage: hasNext, EndCursor: cursor},
	}
}

func listRequest(handle, query string, accept string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/app/cms/"+handle+query, nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	req = features.ShopRequest(req)
	return features.RequestWithPathParam(req, "handle", handle)
}

func detailRequest(handle, id string, accept string) *http.Request {
	req := listRequest(handle, "/"+id, accept)
	return features.RequestWithPathParam(req, "id", id)
}

// =============================================================================
// ListPage
// =============================================================================

func TestListPage_HTML(t *testing.T) {
	tests := []struct {
		name       string
		page       *cms.ListResult
		wantBody   []string
		wantAbsent []string
	}{
		{
			name: "renders projected table with next control",
			page: bookPage(true, "c1"),
			wantBody: []string{
				"<!doctype html>",
				"<title>book Metaobjects - Metaview</title>",
				"<th>Title</th><th>Author</th>",
				"<td>Dune</td><td>Frank Herbert</td>",
				"<td data-absent></td><td>&lt;Anon&gt;</td>",
				`href="/app/cms/book/1"`,
				`href="/app/cms/book?cursor=c1"`,
				"/app/cms/book/rows?cursor=c1",
				"/app/cms/book/updates",
			},
			wantAbsent: []string{"No metaobjects found"},
		},
		{
			name:     "disables next on the last page",
			page:     bookPage(false, "c1"),
			wantBody: []string{`<button type="button" disabled>Next</button>`},
			wantAbsent: []string{
				"?cursor=c1",
			},
		},
		{
			name:     "renders empty state",
			page:     &cms.ListResult{FieldDefinitions: []cms.FieldDefinition{{Key: "title", Name: "Title"}}},
			wantBody: []string{"No metaobjects found for type: book"},
			wantAbsent: []string{
				"<table",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, fixture := setupTestHandlers(t)
			fixture.Querier.Lists[""] = tt.page

			rec := httptest.NewRecorder()
			h.ListPage(rec, listRequest("book", "", ""))

			assert.Equal(t, http.StatusOK, rec.Code)
			body := rec.Body.String()
			for _, want := range tt.wantBody {
				assert.Contains(t, body, want)
			}
			for _, absent := range tt.wantAbsent {
				assert.NotContains(t, body, absent)
			}

			require.Len(t, fixture.Querier.ListCalls, 1)
			assert.Equal(t, features.ListCall{Type: "book", Cursor: "", First: cms.PageSize}, fixture.Querier.ListCalls[0])
		})
	}
}

func TestListPage_PassesCursor(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	fixture.Querier.Lists["c1"] = bookPage(false, "c2")

	rec := httptest.NewRecorder()
	h.ListPage(rec, listRequest("book", "?cursor=c1", ""))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, fixture.Querier.ListCalls, 1)
	assert.Equal(t, "c1", fixture.Querier.ListCalls[0].Cursor)
	assert.Contains(t, rec.Body.String(), "/app/cms/book/updates?cursor=c1")
}

func TestListPage_JSON(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	fixture.Querier.Lists[""] = bookPage(true, "c1")

	rec := httptest.NewRecorder()
	h.ListPage(rec, listRequest("book", "", "application/json"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "book", got.Type)
	assert.Len(t, got.FieldDefinitions, 2)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, []string{"Dune", "Frank Herbert"}, got.Rows[0].Values)
	assert.Equal(t, []string{"", "<Anon>"}, got.Rows[1].Values)
	assert.Equal(t, []bool{false, true}, got.Rows[1].Present)
	assert.Equal(t, cms.PageInfo{HasNextPage: true, EndCursor: "c1"}, got.PageInfo)
}

func TestListPage_Errors(t *testing.T) {
	tests := []struct {
		name       string
		upstream   error
		noShop     bool
		accept     string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "upstream failure is a 500 with the load message",
			upstream:   errors.New("graphql: throttled"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "Failed to load metaobjects: graphql: throttled",
		},
		{
			name:       "upstream failure as JSON",
			upstream:   errors.New("graphql: throttled"),
			accept:     "application/json",
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Failed to load metaobjects: graphql: throttled"}`,
		},
		{
			name:       "malformed response is a 500",
			upstream:   cms.Malformed("metaobjects.pageInfo"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "Failed to load metaobjects: malformed upstream response: missing metaobjects.pageInfo",
		},
		{
			name:       "missing shop is a 401",
			noShop:     true,
			wantStatus: http.StatusUnauthorized,
			wantBody:   "no shop in request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, fixture := setupTestHandlers(t)
			fixture.Querier.SetErr(tt.upstream)

			req := listRequest("book", "", tt.accept)
			if tt.noShop {
				req.URL.RawQuery = ""
			}

			rec := httptest.NewRecorder()
			h.ListPage(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			if tt.noShop {
				assert.Empty(t, fixture.Querier.ListCalls, "no upstream call without auth")
			}
		})
	}
}

// =============================================================================
// DetailPage
// =============================================================================

func detailEntry() *cms.DetailEntry {
	return &cms.DetailEntry{
		ID:     "gid://shopify/Metaobject/1",
		Handle: "dune",
		Type:   "book",
		Fields: []cms.DetailField{
			{Key: "title", Value: "Dune", Type: "single_line_text_field", Definition: cms.Definition{Name: "Title", Type: "single_line_text_field"}},
			{Key: "pages", Value: "412", Type: "number_integer", Definition: cms.Definition{Name: "Pages", Type: "number_integer"}},
		},
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt: time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC),
	}
}

func TestDetailPage_HTML(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	fixture.Querier.Details["gid://shopify/Metaobject/1"] = detailEntry()

	rec := httptest.NewRecorder()
	h.DetailPage(rec, detailRequest("book", "1", ""))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, want := range []string{
		"<h1>dune</h1>",
		`href="/app/cms/book">Back</a>`,
		"Type: book",
		"Created: 2024-01-02 03:04:05 UTC",
		"Updated: 2024-02-03 04:05:06 UTC",
		"<h4>Title</h4><p>Type: single_line_text_field</p><p>Value: Dune</p>",
		"<h4>Pages</h4><p>Type: number_integer</p><p>Value: 412</p>",
	} {
		assert.Contains(t, body, want)
	}
	assert.Less(t, strings.Index(body, "Title"), strings.Index(body, "Pages"), "field order is preserved")
	assert.Equal(t, []string{"gid://shopify/Metaobject/1"}, fixture.Querier.DetailCalls)
}

func TestDetailPage_JSON(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	fixture.Querier.Details["gid://shopify/Metaobject/1"] = detailEntry()

	rec := httptest.NewRecorder()
	h.DetailPage(rec, detailRequest("book", "1", "application/json, text/plain"))

	assert.Equal(t, http.StatusOK, rec.Code)

	var got DetailResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotNil(t, got.Metaobject)
	assert.Equal(t, "dune", got.Metaobject.Handle)
	assert.Equal(t, []cms.DisplayField{
		{Key: "title", Label: "Title", DeclaredType: "single_line_text_field", Value: "Dune"},
		{Key: "pages", Label: "Pages", DeclaredType: "number_integer", Value: "412"},
	}, got.Fields)
}

func TestDetailPage_Errors(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		upstream   error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "unknown entry is a 404",
			id:         "999",
			wantStatus: http.StatusNotFound,
			wantBody:   "Failed to load metaobject: metaobject not found",
		},
		{
			name:       "upstream failure is a 500",
			id:         "1",
			upstream:   errors.New("graphql: server returned a non-200 status code: 502"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "Failed to load metaobject: graphql: server returned a non-200 status code: 502",
		},
		{
			name:       "foreign gid is a 400",
			id:         "gid://shopify/Product/1",
			wantStatus: http.StatusBadRequest,
			wantBody:   "Failed to load metaobject: invalid metaobject id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, fixture := setupTestHandlers(t)
			fixture.Querier.SetErr(tt.upstream)

			rec := httptest.NewRecorder()
			h.DetailPage(rec, detailRequest("book", tt.id, "application/json"))

			assert.Equal(t, tt.wantStatus, rec.Code)

			var got ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Contains(t, got.Error, tt.wantBody)
		})
	}
}

// =============================================================================
// SSE endpoints
// =============================================================================

func TestListRows(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	fixture.Querier.Lists["c1"] = bookPage(false, "")

	rec := httptest.NewRecorder()
	h.ListRows(rec, listRequest("book", "/rows?cursor=c1", ""))

	body := rec.Body.String()
	assert.Equal(t, 1, strings.Count(body, "event:"), "one patch for the live wrapper")
	assert.Contains(t, body, `<div id="cms-live"`)
	assert.Contains(t, body, `<tbody id="cms-rows">`)
	assert.Contains(t, body, `<nav id="cms-pager"`)
	assert.Contains(t, body, "Dune")
	require.Len(t, fixture.Querier.ListCalls, 1)
	assert.Equal(t, "c1", fixture.Querier.ListCalls[0].Cursor)
}

func TestListRows_RefreshFollowsShownPage(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	fixture.Querier.Lists[""] = bookPage(true, "c2")
	fixture.Querier.Lists["c2"] = bookPage(false, "")

	rec := httptest.NewRecorder()
	h.ListRows(rec, listRequest("book", "/rows?cursor=c2", ""))

	body := rec.Body.String()
	assert.Contains(t, body, "/app/cms/book/updates?cursor=c2", "wrapper resubscribes at the new cursor")

	// The patched wrapper opens its update stream at c2; a webhook must
	// reload that page, not the first one.
	req := features.RequestWithTimeout(t, listRequest("book", "/updates?cursor=c2", ""), 300*time.Millisecond)
	stream := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.ListUpdates(stream, req)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return fixture.Notifier.Listeners() == 1
	}, 200*time.Millisecond, 5*time.Millisecond)
	assert.Equal(t, 1, fixture.Notifier.Broadcast(notifier.Change{Shop: features.TestShop, Type: "book"}))

	<-done

	calls := fixture.Querier.ListCalls
	require.Len(t, calls, 2)
	assert.Equal(t, "c2", calls[1].Cursor)
	assert.Contains(t, stream.Body.String(), `id="cms-list"`)
}

func TestListRows_ErrorPatchesBanner(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	fixture.Querier.SetErr(errors.New("boom"))

	rec := httptest.NewRecorder()
	h.ListRows(rec, listRequest("book", "/rows?cursor=c1", ""))

	body := rec.Body.String()
	assert.Contains(t, body, `id="banner"`)
	assert.Contains(t, body, "Failed to load metaobjects: boom")
	assert.NotContains(t, body, "cms-rows")
}

func TestListUpdates_SendsOnBroadcast(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	fixture.Querier.Lists[""] = bookPage(false, "")

	req := features.RequestWithTimeout(t, listRequest("book", "/updates", ""), 300*time.Millisecond)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.ListUpdates(rec, req)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		fixture.Notifier.Broadcast(notifier.Change{Shop: features.TestShop, Type: "book"})
		return fixture.Querier.ListCallCount() > 0
	}, 250*time.Millisecond, 10*time.Millisecond)

	<-done

	body := rec.Body.String()
	assert.GreaterOrEqual(t, strings.Count(body, "event:"), 1)
	assert.Contains(t, body, `id="cms-list"`)
	assert.Contains(t, body, "Frank Herbert")
}

func TestListUpdates_NoInitialState(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	fixture.Querier.Lists[""] = bookPage(false, "")

	req := features.RequestWithTimeout(t, listRequest("book", "/updates", ""), 50*time.Millisecond)
	rec := httptest.NewRecorder()
	h.ListUpdates(rec, req)

	assert.Equal(t, 0, strings.Count(rec.Body.String(), "event:"))
	assert.Zero(t, fixture.Querier.ListCallCount())
}

func TestListUpdates_IgnoresOtherTypes(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	fixture.Querier.Lists[""] = bookPage(false, "")

	req := features.RequestWithTimeout(t, listRequest("book", "/updates", ""), 150*time.Millisecond)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.ListUpdates(rec, req)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return fixture.Notifier.Listeners() == 1
	}, 100*time.Millisecond, 5*time.Millisecond)
	assert.Zero(t, fixture.Notifier.Broadcast(notifier.Change{Shop: features.TestShop, Type: "author"}))
	assert.Zero(t, fixture.Notifier.Broadcast(notifier.Change{Shop: "other.myshopify.com", Type: "book"}))

	<-done
	assert.Zero(t, fixture.Querier.ListCallCount())
	assert.Zero(t, fixture.Notifier.Listeners(), "stream unsubscribes when it ends")
}

func TestWantsJSON(t *testing.T) {
	tests := []struct {
		accept string
		want   bool
	}{
		{"", false},
		{"text/html", false},
		{"application/json", true},
		{"text/html, application/json;q=0.9", true},
		{"application/jsonx", false},
	}
	for _, tt := range tests {
		t.Run(tt.accept, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Accept", tt.accept)
			assert.Equal(t, tt.want, wantsJSON(req))
		})
	}
}

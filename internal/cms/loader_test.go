package cms

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQuerier struct {
	list    *ListResult
	detail  *DetailEntry
	err     error
	calls   int
	gotType string
	gotCur  string
	gotN    int
	gotGID  string
}

func (f *fakeQuerier) ListMetaobjects(_ context.Context, typ, cursor string, first int) (*ListResult, error) {
	f.calls++
	f.gotType, f.gotCur, f.gotN = typ, cursor, first
	if f.err != nil {
		return nil, f.err
	}
	return f.list, nil
}

func (f *fakeQuerier) GetMetaobject(_ context.Context, gid string) (*DetailEntry, error) {
	f.calls++
	f.gotGID = gid
	if f.err != nil {
		return nil, f.err
	}
	return f.detail, nil
}

func TestLoadList(t *testing.T) {
	q := &fakeQuerier{list: &ListResult{
		Entries: []Entry{
			{ID: "gid://shopify/Metaobject/1", Handle: "hello", Fields: []Field{{Key: "title", Value: "Hello"}}},
			{ID: "gid://shopify/Metaobject/2", Handle: "empty"},
		},
		FieldDefinitions: []FieldDefinition{{Key: "title", Name: "Title"}},
		PageInfo:         PageInfo{HasNextPage: true, EndCursor: "abc"},
	}}

	table, err := LoadList(context.Background(), q, "blog_post", "")
	require.NoError(t, err)

	assert.Equal(t, 1, q.calls)
	assert.Equal(t, "blog_post", q.gotType)
	assert.Equal(t, "", q.gotCur)
	assert.Equal(t, PageSize, q.gotN)

	assert.Equal(t, "blog_post", table.Type)
	assert.Equal(t, [][]string{{"Hello"}, {""}}, table.Values())
	assert.True(t, table.HasNext)
	assert.Equal(t, "abc", table.NextCursor)

	// the next page is requested with the returned cursor
	_, err = LoadList(context.Background(), q, "blog_post", table.NextCursor)
	require.NoError(t, err)
	assert.Equal(t, "abc", q.gotCur)
}

func TestLoadList_Errors(t *testing.T) {
	upstream := errors.New("connection refused")

	tests := []struct {
		name      string
		typ       string
		err       error
		wantIs    error
		wantMsg   string
		wantCalls int
	}{
		{
			name:      "upstream failure",
			typ:       "blog_post",
			err:       upstream,
			wantIs:    upstream,
			wantMsg:   "Failed to load metaobjects: connection refused",
			wantCalls: 1,
		},
		{
			name:      "malformed response",
			typ:       "blog_post",
			err:       Malformed("metaobjects.pageInfo"),
			wantIs:    ErrMalformedResponse,
			wantMsg:   "Failed to load metaobjects: malformed upstream response: missing metaobjects.pageInfo",
			wantCalls: 1,
		},
		{
			name:      "nil result without error",
			typ:       "blog_post",
			wantIs:    ErrMalformedResponse,
			wantMsg:   "Failed to load metaobjects: malformed upstream response: missing metaobjects",
			wantCalls: 1,
		},
		{
			name:      "empty type is rejected before the call",
			typ:       "  ",
			wantIs:    ErrInvalidType,
			wantMsg:   "Failed to load metaobjects: metaobject type is required",
			wantCalls: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &fakeQuerier{err: tt.err}
			table, err := LoadList(context.Background(), q, tt.typ, "")
			require.Error(t, err)
			assert.Nil(t, table)
			assert.ErrorIs(t, err, tt.wantIs)
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.Equal(t, tt.wantCalls, q.calls)

			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, "metaobjects", loadErr.Target)
		})
	}
}

func TestLoadDetail(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	q := &fakeQuerier{detail: &DetailEntry{
		ID:        "gid://shopify/Metaobject/42",
		Handle:    "red-shirt",
		Type:      "product_info",
		CreatedAt: created,
		UpdatedAt: created.Add(time.Hour),
		Fields: []DetailField{
			{Key: "color", Value: "red", Type: "single_line_text_field", Definition: Definition{Name: "Color", Type: "single_line_text_field"}},
		},
	}}

	view, err := LoadDetail(context.Background(), q, "42")
	require.NoError(t, err)

	assert.Equal(t, "gid://shopify/Metaobject/42", q.gotGID)
	assert.Equal(t, "red-shirt", view.Entry.Handle)
	assert.Equal(t, []DisplayField{
		{Key: "color", Label: "Color", DeclaredType: "single_line_text_field", Value: "red"},
	}, view.Fields)
}

func TestLoadDetail_Errors(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		q         *fakeQuerier
		wantIs    error
		wantMsg   string
		wantCalls int
	}{
		{
			name:      "upstream failure",
			id:        "42",
			q:         &fakeQuerier{err: errors.New("graphql: Throttled")},
			wantMsg:   "Failed to load metaobject: graphql: Throttled",
			wantCalls: 1,
		},
		{
			name:      "null metaobject",
			id:        "42",
			q:         &fakeQuerier{},
			wantIs:    ErrNotFound,
			wantMsg:   "Failed to load metaobject: metaobject not found",
			wantCalls: 1,
		},
		{
			name:      "invalid id",
			id:        "a/b",
			q:         &fakeQuerier{},
			wantIs:    ErrInvalidID,
			wantCalls: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := LoadDetail(context.Background(), tt.q, tt.id)
			require.Error(t, err)
			assert.Nil(t, view)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, err.Error())
			}
			assert.Contains(t, err.Error(), "Failed to load metaobject: ")
			assert.Equal(t, tt.wantCalls, tt.q.calls)
		})
	}
}

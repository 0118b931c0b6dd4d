package shopify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metaview-labs/metaview/internal/cms"
	"github.com/metaview-labs/metaview/internal/testutil"
)

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// newTestServer returns a client pointed at a server that records the last
// request and replies with the given status and body.
func newTestServer(t *testing.T, status int, body string) (*Client, *gqlRequest, *http.Header) {
	t.Helper()

	var got gqlRequest
	var headers http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &got))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		Shop:        "demo.myshopify.com",
		AccessToken: "shpat_test",
		Endpoint:    srv.URL,
		HTTPClient:  srv.Client(),
		Logger:      testutil.NewTestLogger(t),
	})
	require.NoError(t, err)

	return client, &got, &headers
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{name: "missing shop", cfg: Config{AccessToken: "x"}, wantErr: ErrMissingShop},
		{name: "blank shop", cfg: Config{Shop: "  ", AccessToken: "x"}, wantErr: ErrMissingShop},
		{name: "missing token", cfg: Config{Shop: "demo.myshopify.com"}, wantErr: ErrMissingToken},
		{name: "valid", cfg: Config{Shop: "demo.myshopify.com", AccessToken: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(tt.cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "demo.myshopify.com", c.Shop())
			assert.Equal(t, "https://demo.myshopify.com/admin/api/2024-10/graphql.json", c.endpoint)
		})
	}
}

func TestEndpoint(t *testing.T) {
	assert.Equal(t, "https://a.myshopify.com/admin/api/2025-01/graphql.json", Endpoint("a.myshopify.com", "2025-01"))
	assert.Equal(t, "https://a.myshopify.com/admin/api/"+DefaultAPIVersion+"/graphql.json", Endpoint("a.myshopify.com", ""))
}

func TestListMetaobjects(t *testing.T) {
	body := `{"data":{
		"metaobjects":{
			"nodes":[
				{"id":"gid://shopify/Metaobject/1","handle":"hello","type":"blog_post","fields":[
					{"key":"title","value":"Hello","type":"single_line_text_field"},
					{"key":"body","value":null,"type":"multi_line_text_field"}
				]},
				{"id":null,"handle":null,"type":null,"fields":[]}
			],
			"pageInfo":{"hasNextPage":true,"endCursor":"abc"}
		},
		"metaobjectDefinitionByType":{"fieldDefinitions":[
			{"key":"title","name":"Title"},
			{"key":"body","name":"Body"}
		]}
	}}`

	client, req, headers := newTestServer(t, http.StatusOK, body)

	res, err := client.ListMetaobjects(context.Background(), "blog_post", "", cms.PageSize)
	require.NoError(t, err)

	assert.Equal(t, "shpat_test", headers.Get("X-Shopify-Access-Token"))
	assert.Contains(t, req.Query, "metaobjects(type: $type, first: $first, after: $cursor)")
	assert.Equal(t, "blog_post", req.Variables["type"])
	assert.EqualValues(t, 10, req.Variables["first"])
	assert.Nil(t, req.Variables["cursor"], "first page sends a null cursor")

	require.Len(t, res.Entries, 2)
	assert.Equal(t, cms.Entry{
		ID:     "gid://shopify/Metaobject/1",
		Handle: "hello",
		Type:   "blog_post",
		Fields: []cms.Field{
			{Key: "title", Value: "Hello", Type: "single_line_text_field"},
			{Key: "body", Value: "", Type: "multi_line_text_field"},
		},
	}, res.Entries[0])
	assert.Equal(t, "", res.Entries[1].ID, "null id becomes empty")
	assert.Equal(t, []cms.FieldDefinition{{Key: "title", Name: "Title"}, {Key: "body", Name: "Body"}}, res.FieldDefinitions)
	assert.Equal(t, cms.PageInfo{HasNextPage: true, EndCursor: "abc"}, res.PageInfo)
}

func TestListMetaobjects_SendsCursor(t *testing.T) {
	body := `{"data":{"metaobjects":{"nodes":[],"pageInfo":{"hasNextPage":false,"endCursor":null}},"metaobjectDefinitionByType":{"fieldDefinitions":[]}}}`
	client, req, _ := newTestServer(t, http.StatusOK, body)

	res, err := client.ListMetaobjects(context.Background(), "blog_post", "abc", cms.PageSize)
	require.NoError(t, err)

	assert.Equal(t, "abc", req.Variables["cursor"])
	assert.Empty(t, res.Entries)
	assert.False(t, res.PageInfo.HasNextPage)
}

func TestListMetaobjects_Errors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantIs      error
		wantContain string
	}{
		{
			name:        "graphql errors",
			status:      http.StatusOK,
			body:        `{"errors":[{"message":"Throttled"}]}`,
			wantContain: "graphql: Throttled",
		},
		{
			name:        "non-200 status",
			status:      http.StatusBadGateway,
			body:        `upstream unavailable`,
			wantContain: "non-200",
		},
		{
			name:   "null metaobjects",
			status: http.StatusOK,
			body:   `{"data":{"metaobjects":null,"metaobjectDefinitionByType":{"fieldDefinitions":[]}}}`,
			wantIs: cms.ErrMalformedResponse,
		},
		{
			name:        "unknown type has no definition",
			status:      http.StatusOK,
			body:        `{"data":{"metaobjects":{"nodes":[],"pageInfo":{"hasNextPage":false}},"metaobjectDefinitionByType":null}}`,
			wantIs:      cms.ErrMalformedResponse,
			wantContain: "metaobjectDefinitionByType",
		},
		{
			name:        "missing pageInfo",
			status:      http.StatusOK,
			body:        `{"data":{"metaobjects":{"nodes":[]},"metaobjectDefinitionByType":{"fieldDefinitions":[]}}}`,
			wantIs:      cms.ErrMalformedResponse,
			wantContain: "pageInfo",
		},
		{
			name:        "field without key",
			status:      http.StatusOK,
			body:        `{"data":{"metaobjects":{"nodes":[{"fields":[{"key":null,"value":"x"}]}],"pageInfo":{"hasNextPage":false}},"metaobjectDefinitionByType":{"fieldDefinitions":[]}}}`,
			wantIs:      cms.ErrMalformedResponse,
			wantContain: "nodes[0].fields[0].key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _, _ := newTestServer(t, tt.status, tt.body)

			res, err := client.ListMetaobjects(context.Background(), "blog_post", "", cms.PageSize)
			require.Error(t, err)
			assert.Nil(t, res)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			if tt.wantContain != "" {
				assert.Contains(t, err.Error(), tt.wantContain)
			}
		})
	}
}

func TestGetMetaobject(t *testing.T) {
	body := `{"data":{"metaobject":{
		"id":"gid://shopify/Metaobject/42",
		"handle":"red-shirt",
		"type":"product_info",
		"fields":[
			{"key":"color","value":"red","type":"single_line_text_field","definition":{"name":"Color","type":"single_line_text_field"}}
		],
		"createdAt":"2024-05-01T10:00:00Z",
		"updatedAt":"2024-05-02T11:30:00Z"
	}}}`

	client, req, _ := newTestServer(t, http.StatusOK, body)

	entry, err := client.GetMetaobject(context.Background(), "gid://shopify/Metaobject/42")
	require.NoError(t, err)

	assert.Equal(t, "gid://shopify/Metaobject/42", req.Variables["id"])
	assert.Equal(t, "red-shirt", entry.Handle)
	assert.Equal(t, "product_info", entry.Type)
	assert.True(t, entry.CreatedAt.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)))
	assert.True(t, entry.UpdatedAt.Equal(time.Date(2024, 5, 2, 11, 30, 0, 0, time.UTC)))
	assert.Equal(t, []cms.DetailField{{
		Key:        "color",
		Value:      "red",
		Type:       "single_line_text_field",
		Definition: cms.Definition{Name: "Color", Type: "single_line_text_field"},
	}}, entry.Fields)
}

func TestGetMetaobject_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		wantIs error
	}{
		{
			name:   "null metaobject",
			body:   `{"data":{"metaobject":null}}`,
			wantIs: cms.ErrNotFound,
		},
		{
			name:   "field without definition",
			body:   `{"data":{"metaobject":{"id":"gid://shopify/Metaobject/1","fields":[{"key":"a","value":"b","definition":null}],"createdAt":"2024-05-01T10:00:00Z","updatedAt":"2024-05-01T10:00:00Z"}}}`,
			wantIs: cms.ErrMalformedResponse,
		},
		{
			name:   "missing timestamps",
			body:   `{"data":{"metaobject":{"id":"gid://shopify/Metaobject/1","fields":[]}}}`,
			wantIs: cms.ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _, _ := newTestServer(t, http.StatusOK, tt.body)

			entry, err := client.GetMetaobject(context.Background(), "gid://shopify/Metaobject/1")
			assert.Nil(t, entry)
			assert.ErrorIs(t, err, tt.wantIs)
		})
	}
}

// Package components renders the metaobject list and detail views.
package components

import (
	"net/url"

	"github.com/metaview-labs/metaview/internal/cms"
)

// ListPath is the list page URL for a type, optionally at a cursor.
func ListPath(handle, cursor string) string {
	return withCursor("/app/cms/"+url.PathEscape(handle), cursor)
}

// RowsPath is the SSE endpoint that swaps in another page of rows.
func RowsPath(handle, cursor string) string {
	return withCursor("/app/cms/"+url.PathEscape(handle)+"/rows", cursor)
}

// UpdatesPath is the long-lived SSE endpoint for live list refreshes.
func UpdatesPath(handle, cursor string) string {
	return withCursor("/app/cms/"+url.PathEscape(handle)+"/updates", cursor)
}

// DetailPath is the detail page URL for an entry.
func DetailPath(handle, gid string) string {
	return "/app/cms/" + url.PathEscape(handle) + "/" + url.PathEscape(cms.RouteID(gid))
}

func withCursor(path, cursor string) string {
	if cursor == "" {
		return path
	}
	return path + "?cursor=" + url.QueryEscape(cursor)
}

package home

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/metaview-labs/metaview/internal/ui/features/common/components"
)

// Handlers provides HTTP handlers for the home feature.
type Handlers struct {
	isDev bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(isDev bool) *Handlers {
	return &Handlers{isDev: isDev}
}

// Root sends embedded-app launches to /app, keeping the query string.
func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	target := "/app"
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// LandingPage renders the type picker.
func (h *Handlers) LandingPage(w http.ResponseWriter, r *http.Request) {
	data := LandingData{
		Shop: r.URL.Query().Get("shop"),
		Type: r.URL.Query().Get("type"),
	}
	if err := components.Page("Metaobjects", h.isDev, Landing(data)).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// OpenType redirects the type picker form to the list page for that type.
func (h *Handlers) OpenType(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	typ := strings.TrimSpace(q.Get("type"))
	if typ == "" {
		http.Redirect(w, r, "/app", http.StatusFound)
		return
	}

	target := "/app/cms/" + url.PathEscape(typ)
	if shop := q.Get("shop"); shop != "" {
		target += "?" + url.Values{"shop": {shop}}.Encode()
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// Landing is the type picker form.
func Landing(data LandingData) templ.Component {
	return components.Component(func(_ context.Context, h *components.HTML) {
		h.Raw(`<section id="landing" class="card"><h1>Metaobjects</h1>`)
		h.Raw(`<p>Enter a metaobject type handle to browse its entries.</p>`)
		h.Raw(`<form method="get" action="/app/cms">`)
		if data.Shop != "" {
			h.Raw(`<input type="hidden" name="shop"`)
			h.Attr("value", data.Shop)
			h.Raw(">")
		}
		h.Raw(`<label for="type">Type</label><input id="type" name="type" required placeholder="book"`)
		h.Attr("value", data.Type)
		h.Raw(`><button type="submit">Open</button></form></section>`)
	})
}

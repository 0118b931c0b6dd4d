package components

import (
	"context"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/metaview-labs/metaview/internal/ui/resources"
)

// DatastarScript is the client bundle that drives SSE patching.
const DatastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"

// Page renders a full HTML document around body.
func Page(title string, isDev bool, body templ.Component) templ.Component {
	return Component(func(ctx context.Context, h *HTML) {
		h.Raw("<!doctype html><html lang=\"en\"><head><meta charset=\"utf-8\">")
		h.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.Raw("<title>")
		h.Text(title + " - Metaview")
		h.Raw("</title>")
		h.Raw(`<link rel="stylesheet"`)
		h.Attr("href", resources.StaticPath("app.css"))
		h.Raw(">")
		h.Raw(`<script type="module"`)
		h.Attr("src", DatastarScript)
		h.Raw("></script></head><body>")
		if isDev {
			h.Raw(`<div id="hot-reload" data-init="@get('/reload')"></div>`)
		}
		h.Raw(`<main class="page">`)
		h.Render(ctx, body)
		h.Raw("</main></body></html>")
	})
}

// Banner renders a critical message box. Its id lets SSE responses replace it.
func Banner(message string) templ.Component {
	return Component(func(_ context.Context, h *HTML) {
		h.Raw(`<div id="banner"`)
		if message == "" {
			h.Raw("></div>")
			return
		}
		h.Raw(` class="banner critical" role="alert"><p>`)
		h.Text(message)
		h.Raw("</p></div>")
	})
}

// ErrorPage renders a full page containing only the error banner.
func ErrorPage(status int, message string, isDev bool) templ.Component {
	title := strconv.Itoa(status) + " " + http.StatusText(status)
	return Page(title, isDev, Banner(message))
}

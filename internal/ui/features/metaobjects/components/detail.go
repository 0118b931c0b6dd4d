package components

import (
	"context"
	"time"

	"github.com/a-h/templ"
	"github.com/metaview-labs/metaview/internal/cms"
	common "github.com/metaview-labs/metaview/internal/ui/features/common/components"
)

const timeLayout = "2006-01-02 15:04:05 MST"

// DetailPage renders one entry with its flattened fields.
func DetailPage(handle string, view *cms.DetailView, isDev bool) templ.Component {
	entry := view.Entry
	body := common.Component(func(_ context.Context, h *common.HTML) {
		h.Raw(`<section id="cms-detail" class="cms-detail"><a class="back"`)
		h.Attr("href", ListPath(handle, ""))
		h.Raw(">Back</a><h1>")
		h.Text(entry.Handle)
		h.Raw("</h1>")

		h.Raw(`<div class="card"><h3>Details</h3><p>Type: `)
		h.Text(entry.Type)
		h.Raw("</p><p>Created: ")
		h.Text(formatTime(entry.CreatedAt))
		h.Raw("</p><p>Updated: ")
		h.Text(formatTime(entry.UpdatedAt))
		h.Raw("</p></div>")

		h.Raw(`<div class="card"><h3>Fields</h3>`)
		for _, f := range view.Fields {
			h.Raw(`<div class="field"`)
			h.Attr("data-key", f.Key)
			h.Raw("><h4>")
			h.Text(f.Label)
			h.Raw("</h4><p>Type: ")
			h.Text(f.DeclaredType)
			h.Raw("</p><p>Value: ")
			h.Text(f.Value)
			h.Raw("</p></div>")
		}
		h.Raw("</div></section>")
	})
	return common.Page(entry.Handle, isDev, body)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

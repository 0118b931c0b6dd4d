package components

import (
	"context"

	"github.com/a-h/templ"
	"github.com/metaview-labs/metaview/internal/cms"
	common "github.com/metaview-labs/metaview/internal/ui/features/common/components"
)

// ListPage renders the full list document.
func ListPage(table *cms.Table, cursor string, isDev bool) templ.Component {
	return common.Page(table.Type+" Metaobjects", isDev, LiveList(table, cursor))
}

// LiveList wraps the list view in an element subscribed to live updates for
// the page at cursor. Patching it with a new cursor moves the subscription.
func LiveList(table *cms.Table, cursor string) templ.Component {
	return common.Component(func(ctx context.Context, h *common.HTML) {
		h.Raw(`<div id="cms-live"`)
		h.Attr("data-init", "@get('"+UpdatesPath(table.Type, cursor)+"')")
		h.Raw(">")
		h.Render(ctx, ListView(table))
		h.Raw("</div>")
	})
}

// ListView is the patchable list body: heading, table and pager.
func ListView(table *cms.Table) templ.Component {
	return common.Component(func(ctx context.Context, h *common.HTML) {
		h.Raw(`<section id="cms-list" class="cms-list"><h1>`)
		h.Text(table.Type + " Metaobjects")
		h.Raw("</h1>")
		h.Render(ctx, common.Banner(""))

		if len(table.Rows) == 0 {
			h.Raw(`<p class="empty">No metaobjects found for type: `)
			h.Text(table.Type)
			h.Raw("</p></section>")
			return
		}

		h.Raw(`<table class="cms-table"><thead><tr>`)
		for _, heading := range table.Headings() {
			h.Raw("<th>")
			h.Text(heading)
			h.Raw("</th>")
		}
		h.Raw("<th></th></tr></thead>")
		h.Render(ctx, TableBody(table))
		h.Raw("</table>")
		h.Render(ctx, Pager(table))
		h.Raw("</section>")
	})
}

// TableBody renders the rows of one page.
func TableBody(table *cms.Table) templ.Component {
	return common.Component(func(_ context.Context, h *common.HTML) {
		h.Raw(`<tbody id="cms-rows">`)
		for _, row := range table.Rows {
			h.Raw("<tr")
			h.Attr("data-id", row.ID)
			h.Raw(">")
			for i, value := range row.Values {
				if i < len(row.Present) && !row.Present[i] {
					h.Raw("<td data-absent></td>")
					continue
				}
				h.Raw("<td>")
				h.Text(value)
				h.Raw("</td>")
			}
			h.Raw("<td>")
			if row.ID != "" {
				h.Raw("<a")
				h.Attr("href", DetailPath(table.Type, row.ID))
				h.Raw(">View</a>")
			}
			h.Raw("</td></tr>")
		}
		h.Raw("</tbody>")
	})
}

// Pager renders the Next control. Clicking it swaps in the next page over SSE;
// the href keeps it working without scripts.
func Pager(table *cms.Table) templ.Component {
	return common.Component(func(_ context.Context, h *common.HTML) {
		h.Raw(`<nav id="cms-pager" class="pager">`)
		if table.HasNext {
			h.Raw("<a")
			h.Attr("href", ListPath(table.Type, table.NextCursor))
			h.Attr("data-on:click__prevent", "@get('"+RowsPath(table.Type, table.NextCursor)+"')")
			h.Raw(">Next</a>")
		} else {
			h.Raw(`<button type="button" disabled>Next</button>`)
		}
		h.Raw("</nav>")
	})
}

package articles

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"inspire-bytes/internal/features/blog/listview"
	"inspire-bytes/views"
)

// Detail renders the metadata page of a single article
func Detail(chrome views.Chrome, item listview.Item, canEdit bool) templ.Component {
	return views.Layout(chrome, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := views.NewHTML(w)
		h.Raw(`<article class="placeholder"><h1 data-testid="article-title">`).Text(item.Title).Raw(`</h1>`).
			Raw(`<p class="article-meta">`).Text(item.Date).Raw(` · 作者: `).Text(item.Author).Raw(`</p>`)
		if canEdit {
			navButton(h, listview.ActionEdit, item.ID, "edit-article", "编辑", views.ButtonClass())
		}
		return h.Raw(`<a href="/">返回文章列表</a></article>`).Err()
	}))
}

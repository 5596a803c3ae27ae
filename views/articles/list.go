package articles

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"inspire-bytes/internal/features/blog/listview"
	"inspire-bytes/views"
)

// List renders one page of the article list. The pagination bar is drawn in every state.
func List(chrome views.Chrome, page listview.Page) templ.Component {
	return views.Layout(chrome, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := views.NewHTML(w)

		h.Raw(`<div class="list-header"><h1>所有文章</h1>`)
		if page.ShowAdminControls {
			navButton(h, listview.ActionCreate, "", "create-article", "新建文章", views.ButtonClass())
		}
		h.Raw(`</div>`)

		switch {
		case page.Loading():
			h.Raw(`<div class="loading" data-testid="loading">加载中...</div>`)
		case page.Empty:
			h.Raw(`<div class="empty"><p>还没有写过文章</p>`)
			navButton(h, listview.ActionCreate, "", "empty-cta", "创建第一篇文章", views.ButtonClass("px-4 py-2"))
			h.Raw(`</div>`)
		default:
			articleItems(h, page)
		}
		pagination(h, page)

		return h.Err()
	}))
}

func articleItems(h *views.HTML, page listview.Page) {
	h.Raw(`<ul class="article-list">`)
	for _, item := range page.Items {
		h.Raw(`<li data-testid="article-item">`).
			Raw(`<form method="post" action="/articles/nav" class="open">`).
			Raw(`<input type="hidden" name="action"`).Attr("value", string(listview.ActionOpen)).Raw(`>`).
			Raw(`<input type="hidden" name="id"`).Attr("value", item.ID).Raw(`>`).
			Raw(`<button type="submit"><span class="article-title">`).Text(item.Title).Raw(`</span>`).
			Raw(`<span class="article-meta">`).Text(item.Date).Raw(` · 作者: `).Text(item.Author).Raw(`</span>`).
			Raw(`</button></form>`)
		if page.ShowAdminControls {
			navButton(h, listview.ActionEdit, item.ID, "edit-article", "编辑", views.ButtonClass("bg-gray-600 hover:bg-gray-700"))
		}
		h.Raw(`</li>`)
	}
	h.Raw(`</ul>`)
}

func pagination(h *views.HTML, page listview.Page) {
	h.Raw(`<form method="post" action="/articles/page" class="pagination">`).
		Raw(`<input type="hidden" name="page"`).Attr("value", strconv.Itoa(page.CurrentPage)).Raw(`>`)
	pageButton(h, "prev", "prev-page", "上一页", page.PrevDisabled)
	h.Raw(`<span data-testid="current-page">当前页：`).Text(strconv.Itoa(page.CurrentPage)).Raw(`</span>`)
	pageButton(h, "next", "next-page", "下一页", page.NextDisabled)
	h.Raw(`</form>`)
}

func pageButton(h *views.HTML, dir, testID, label string, disabled bool) {
	class := views.ButtonClass()
	if disabled {
		class = views.DisabledButtonClass()
	}
	h.Raw(`<button type="submit" name="dir"`).Attr("value", dir).Attr("data-testid", testID).Attr("class", class)
	if disabled {
		h.Raw(` disabled`)
	}
	h.Raw(`>`).Text(label).Raw(`</button>`)
}

func navButton(h *views.HTML, action listview.Action, id, testID, label, class string) {
	h.Raw(`<form method="post" action="/articles/nav">`).
		Raw(`<input type="hidden" name="action"`).Attr("value", string(action)).Raw(`>`)
	if id != "" {
		h.Raw(`<input type="hidden" name="id"`).Attr("value", id).Raw(`>`)
	}
	h.Raw(`<button type="submit"`).Attr("data-testid", testID).Attr("class", class).Raw(`>`).
		Text(label).
		Raw(`</button></form>`)
}

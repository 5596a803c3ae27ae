package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// SiteName is shown when no page title has been set
const SiteName = "Inspire Bytes"

// Chrome is the per-request state of the surrounding page frame
type Chrome struct {
	Title    string
	Username string
	SignedIn bool
}

// DisplayTitle returns the title to show in the frame
func (c Chrome) DisplayTitle() string {
	if c.Title == "" {
		return SiteName
	}
	return c.Title
}

// Layout wraps body in the HTML document and header chrome
func Layout(chrome Chrome, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := NewHTML(w)
		h.Raw(`<!DOCTYPE html><html lang="zh-CN"><head><meta charset="utf-8">`).
			Raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`).
			Raw(`<title>`).Text(chrome.DisplayTitle()).Raw(`</title>`).
			Raw(`<link rel="stylesheet" href="/assets/app.css"></head><body>`).
			Raw(`<header class="site-header"><a href="/" class="site-name">`).Text(SiteName).Raw(`</a>`).
			Raw(`<span class="page-title" data-testid="page-title">`).Text(chrome.DisplayTitle()).Raw(`</span>`)

		if chrome.SignedIn {
			h.Raw(`<form method="post" action="/auth/logout" class="session">`).
				Raw(`<span>`).Text(chrome.Username).Raw(`</span>`).
				Raw(`<button type="submit"`).Attr("class", ButtonClass("bg-transparent text-blue-700 hover:bg-blue-50")).Raw(`>退出</button></form>`)
		} else {
			h.Raw(`<a href="/auth/login" class="session">登录</a>`)
		}
		h.Raw(`</header><main class="container">`)
		if err := h.Err(); err != nil {
			return err
		}

		if err := body.Render(ctx, w); err != nil {
			return err
		}

		return h.Raw(`</main></body></html>`).Err()
	})
}

// Placeholder renders a page for routes whose screens live outside this portal
func Placeholder(chrome Chrome, heading, message string) templ.Component {
	return Layout(chrome, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return NewHTML(w).
			Raw(`<section class="placeholder"><h2>`).Text(heading).Raw(`</h2><p>`).Text(message).
			Raw(`</p><a href="/">返回文章列表</a></section>`).
			Err()
	}))
}

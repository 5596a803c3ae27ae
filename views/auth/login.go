package auth

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"inspire-bytes/views"
)

// LoginPage renders the sign-in and registration forms
func LoginPage(chrome views.Chrome, message string) templ.Component {
	return views.Layout(chrome, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := views.NewHTML(w)
		h.Raw(`<section class="placeholder">`)
		if message != "" {
			h.Raw(`<p class="error" data-testid="login-error">`).Text(message).Raw(`</p>`)
		}

		h.Raw(`<h2>登录</h2><form method="post" action="/auth/login">`).
			Raw(`<label>用户名 <input name="username" required></label>`).
			Raw(`<label>密码 <input type="password" name="password" required></label>`).
			Raw(`<button type="submit"`).Attr("class", views.ButtonClass()).Raw(`>登录</button></form>`)

		h.Raw(`<h2>注册</h2><form method="post" action="/auth/register">`).
			Raw(`<label>用户名 <input name="username" required></label>`).
			Raw(`<label>昵称 <input name="nickname"></label>`).
			Raw(`<label>密码 <input type="password" name="password" minlength="8" required></label>`).
			Raw(`<button type="submit"`).Attr("class", views.ButtonClass("bg-green-600 hover:bg-green-700")).Raw(`>注册</button></form>`)

		return h.Raw(`</section>`).Err()
	}))
}

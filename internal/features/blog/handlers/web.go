package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"inspire-bytes/internal/auth"
	"inspire-bytes/internal/core"
	"inspire-bytes/internal/features/blog/listview"
	"inspire-bytes/internal/features/blog/models"
	"inspire-bytes/internal/site"
	"inspire-bytes/views"
	articleviews "inspire-bytes/views/articles"
)

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := component.Render(r.Context(), w); err != nil {
		h.logger.WithContext(r.Context()).Error("Failed to render page", "error", err)
	}
}

func (h *Handlers) renderMessage(w http.ResponseWriter, r *http.Request, status int, heading, message string) {
	h.render(w, r, status, views.Placeholder(h.chrome(r), heading, message))
}

func pageParam(value string) int {
	page, err := strconv.Atoi(value)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// ListPage renders the article list at ?page=N
func (h *Handlers) ListPage(w http.ResponseWriter, r *http.Request) {
	view := h.mountView(r)
	defer view.Unmount()

	view.Restore(pageParam(r.URL.Query().Get("page")))
	h.render(w, r, http.StatusOK, articleviews.List(h.chrome(r), view.Snapshot(h.format)))
}

// Paginate moves one page forward or back from the posted page and redirects to it
func (h *Handlers) Paginate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderMessage(w, r, http.StatusBadRequest, "请求无效", "无法解析表单")
		return
	}

	view := h.newView(r)
	view.Restore(pageParam(r.PostFormValue("page")))

	switch r.PostFormValue("dir") {
	case "next":
		view.Advance()
	case "prev":
		view.Retreat()
	default:
		h.renderMessage(w, r, http.StatusBadRequest, "请求无效", "未知的翻页方向")
		return
	}
	h.countNavigation("page_" + r.PostFormValue("dir"))

	http.Redirect(w, r, "/articles?page="+strconv.Itoa(view.CurrentPage()), http.StatusSeeOther)
}

// Navigate runs a list action: create, open or edit
func (h *Handlers) Navigate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderMessage(w, r, http.StatusBadRequest, "请求无效", "无法解析表单")
		return
	}

	action := listview.Action(r.PostFormValue("action"))
	nav := site.NewHTTPNavigator(w, r, h.titles)

	if action == listview.ActionCreate {
		view := h.newView(r)
		view.CreateArticle(nav)
		h.countNavigation(string(action))
		return
	}

	if action != listview.ActionOpen && action != listview.ActionEdit {
		h.renderMessage(w, r, http.StatusBadRequest, "请求无效", "未知的操作")
		return
	}

	view := h.mountView(r)
	defer view.Unmount()

	article, ok := view.Find(r.PostFormValue("id"))
	if !ok {
		h.renderMessage(w, r, http.StatusNotFound, "文章不存在", "找不到这篇文章")
		return
	}

	if action == listview.ActionEdit {
		if !view.IsAdmin() {
			h.renderMessage(w, r, http.StatusForbidden, "没有权限", "只有管理员可以编辑文章")
			return
		}
		view.EditArticle(nav, article)
	} else {
		view.OpenArticle(nav, article)
	}
	h.countNavigation(string(action))
}

// ArticlePage renders an article's metadata
func (h *Handlers) ArticlePage(w http.ResponseWriter, r *http.Request) {
	article, err := h.source.GetArticle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, models.ErrArticleNotFound) {
			h.renderMessage(w, r, http.StatusNotFound, "文章不存在", "找不到这篇文章")
			return
		}
		h.logger.WithContext(r.Context()).Error("Failed to load article", "error", err)
		h.renderMessage(w, r, http.StatusBadGateway, "加载失败", "暂时无法加载文章")
		return
	}

	canEdit := auth.GetUserFromContext(r).CurrentRole().CanManageArticles()
	h.render(w, r, http.StatusOK, articleviews.Detail(h.chrome(r), listview.NewItem(*article, h.format), canEdit))
}

// requireManager renders a 403 page for users who cannot manage articles
func (h *Handlers) requireManager(w http.ResponseWriter, r *http.Request) bool {
	if auth.GetUserFromContext(r).CurrentRole().CanManageArticles() {
		return true
	}
	h.renderMessage(w, r, http.StatusForbidden, "没有权限", "只有管理员可以管理文章")
	return false
}

// NewArticlePage is the landing page of the article editor
func (h *Handlers) NewArticlePage(w http.ResponseWriter, r *http.Request) {
	if !h.requireManager(w, r) {
		return
	}
	h.renderMessage(w, r, http.StatusOK, listview.TitleNewArticle, "文章编辑器由编辑后台提供，也可以通过 POST /api/articles 创建文章。")
}

// EditArticlePage is the landing page of the editor for an existing article
func (h *Handlers) EditArticlePage(w http.ResponseWriter, r *http.Request) {
	if !h.requireManager(w, r) {
		return
	}

	article, err := h.source.GetArticle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, models.ErrArticleNotFound) {
			h.renderMessage(w, r, http.StatusNotFound, "文章不存在", "找不到这篇文章")
			return
		}
		core.HandleError(w, appError(err))
		return
	}
	h.renderMessage(w, r, http.StatusOK, listview.TitleEditArticle, "正在编辑：「"+article.Title+"」。文章编辑器由编辑后台提供。")
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inspire-bytes/internal/auth"
	"inspire-bytes/internal/core"
	"inspire-bytes/internal/features/blog/listview"
	"inspire-bytes/internal/features/blog/models"
	"inspire-bytes/internal/site"
)

type fakeSource struct {
	articles []models.Article
	err      error
	created  []models.ArticleCreate
}

func (f *fakeSource) ListArticles(ctx context.Context) (models.ArticleList, error) {
	if f.err != nil {
		return models.ArticleList{}, f.err
	}
	return models.ArticleList{Data: f.articles}, nil
}

func (f *fakeSource) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	for _, a := range f.articles {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, models.ErrArticleNotFound
}

func (f *fakeSource) CreateArticle(ctx context.Context, create *models.ArticleCreate) (*models.Article, error) {
	if err := create.Validate(); err != nil {
		return nil, err
	}
	f.created = append(f.created, *create)
	return &models.Article{ID: strconv.Itoa(len(f.created) + 100), Title: create.Title}, nil
}

func makeArticles(n int) []models.Article {
	articles := make([]models.Article, n)
	for i := range articles {
		articles[i] = models.Article{
			ID:        strconv.Itoa(i + 1),
			Title:     fmt.Sprintf("文章 %d", i+1),
			CreatedAt: 1700000000,
		}
	}
	return articles
}

var (
	admin  = &auth.User{ID: 1, Username: "root", Role: auth.RoleAdmin}
	reader = &auth.User{ID: 2, Username: "reader", Role: auth.RoleUser}
)

type testEnv struct {
	router  http.Handler
	titles  *site.TitleStore
	metrics *core.Metrics
	source  *fakeSource
}

func newTestEnv(t *testing.T, source *fakeSource, user *auth.User) *testEnv {
	t.Helper()
	titles := site.NewTitleStore()
	metrics := core.NewMetrics()

	h := NewHandlers(core.NewLoggerWithWriter(io.Discard, slog.LevelError), Options{
		Source:      source,
		Writer:      source,
		SourceName:  "test",
		Titles:      titles,
		Metrics:     metrics,
		DateFormat:  listview.DateFormat{Location: time.UTC, Layout: "2006/1/2 15:04:05"},
		LoadTimeout: time.Second,
	})

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := site.WithSessionID(req.Context(), "session-1")
			ctx = auth.ContextWithUser(ctx, user)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Get("/", h.ListPage)
	r.Get("/articles", h.ListPage)
	r.Post("/articles/page", h.Paginate)
	r.Post("/articles/nav", h.Navigate)
	r.Get("/articles/new", h.NewArticlePage)
	r.Get("/articles/{id}", h.ArticlePage)
	r.Get("/articles/{id}/edit", h.EditArticlePage)
	r.Get("/api/articles", h.ListArticles)
	r.Get("/api/articles/{id}", h.GetArticle)
	r.Post("/api/articles", h.CreateArticle)

	return &testEnv{router: r, titles: titles, metrics: metrics, source: source}
}

func (e *testEnv) get(path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func (e *testEnv) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func counterValue(t *testing.T, metrics *core.Metrics, name, label string) float64 {
	t.Helper()
	families, err := metrics.Registry.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, m := range family.GetMetric() {
			for _, pair := range m.GetLabel() {
				if pair.GetValue() == label {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestListPageAdminControls(t *testing.T) {
	source := &fakeSource{articles: makeArticles(5)}

	body := newTestEnv(t, source, admin).get("/").Body.String()
	assert.Contains(t, body, `data-testid="create-article"`)
	assert.Equal(t, 4, strings.Count(body, `data-testid="edit-article"`))

	for _, user := range []*auth.User{reader, auth.AnonymousUser} {
		body := newTestEnv(t, source, user).get("/").Body.String()
		assert.NotContains(t, body, `data-testid="create-article"`)
		assert.NotContains(t, body, `data-testid="edit-article"`)
		assert.Equal(t, 4, strings.Count(body, `data-testid="article-item"`))
	}
}

func TestListPageRendersItems(t *testing.T) {
	articles := makeArticles(2)
	articles[0].Author = &models.Author{Username: "alice"}
	env := newTestEnv(t, &fakeSource{articles: articles}, reader)

	rec := env.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "所有文章")
	assert.Contains(t, body, "文章 1")
	assert.Contains(t, body, "2023/11/14 22:13:20")
	assert.Contains(t, body, "作者: alice")
	assert.Contains(t, body, "作者: 未知")
}

func TestListPagePagination(t *testing.T) {
	env := newTestEnv(t, &fakeSource{articles: makeArticles(10)}, reader)

	body := env.get("/articles?page=3").Body.String()
	assert.Contains(t, body, "当前页：3")
	assert.Equal(t, 2, strings.Count(body, `data-testid="article-item"`))
	assert.Contains(t, body, `data-testid="next-page"`)
	assert.Regexp(t, `data-testid="next-page"[^>]* disabled`, body)
	assert.NotRegexp(t, `data-testid="prev-page"[^>]* disabled`, body)

	body = env.get("/articles?page=bogus").Body.String()
	assert.Contains(t, body, "当前页：1")
	assert.Regexp(t, `data-testid="prev-page"[^>]* disabled`, body)
}

func TestListPageHugePageNumbers(t *testing.T) {
	env := newTestEnv(t, &fakeSource{articles: makeArticles(10)}, reader)

	for _, page := range []int{1<<62 + 1, math.MaxInt} {
		rec := env.get("/articles?page=" + strconv.Itoa(page))
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Equal(t, 0, strings.Count(body, `data-testid="article-item"`))
		assert.Contains(t, body, "当前页："+strconv.Itoa(page))
		assert.Regexp(t, `data-testid="next-page"[^>]* disabled`, body)
	}

	rec := env.postForm("/articles/page", url.Values{"page": {strconv.Itoa(math.MaxInt)}, "dir": {"next"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/articles?page="+strconv.Itoa(math.MaxInt), rec.Header().Get("Location"))
}

func TestListPageEmptyStateForEveryone(t *testing.T) {
	for _, user := range []*auth.User{admin, reader, auth.AnonymousUser} {
		body := newTestEnv(t, &fakeSource{}, user).get("/").Body.String()
		assert.Contains(t, body, "还没有写过文章")
		assert.Contains(t, body, `data-testid="empty-cta"`)
		assert.Regexp(t, `data-testid="next-page"[^>]* disabled`, body)
	}
}

func TestListPageFetchFailure(t *testing.T) {
	env := newTestEnv(t, &fakeSource{err: errors.New("db locked")}, reader)

	rec := env.get("/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-testid="empty-cta"`)
	assert.Equal(t, 1.0, counterValue(t, env.metrics, "inspire_bytes_article_fetch_failures_total", "test"))
}

func TestPaginate(t *testing.T) {
	env := newTestEnv(t, &fakeSource{articles: makeArticles(10)}, reader)

	rec := env.postForm("/articles/page", url.Values{"page": {"2"}, "dir": {"next"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/articles?page=3", rec.Header().Get("Location"))

	rec = env.postForm("/articles/page", url.Values{"page": {"1"}, "dir": {"prev"}})
	assert.Equal(t, "/articles?page=1", rec.Header().Get("Location"))

	rec = env.postForm("/articles/page", url.Values{"page": {"1"}, "dir": {"sideways"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNavigateOpenSetsTitle(t *testing.T) {
	env := newTestEnv(t, &fakeSource{articles: makeArticles(3)}, reader)

	rec := env.postForm("/articles/nav", url.Values{"action": {"open"}, "id": {"2"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/articles/2", rec.Header().Get("Location"))
	assert.Equal(t, "文章 2", env.titles.Get("session-1"))

	body := env.get("/articles/2").Body.String()
	assert.Contains(t, body, "<title>文章 2</title>")
	assert.Equal(t, 1.0, counterValue(t, env.metrics, "inspire_bytes_navigations_total", "open"))
}

func TestNavigateCreate(t *testing.T) {
	env := newTestEnv(t, &fakeSource{}, auth.AnonymousUser)

	rec := env.postForm("/articles/nav", url.Values{"action": {"new"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/articles/new", rec.Header().Get("Location"))
	assert.Equal(t, listview.TitleNewArticle, env.titles.Get("session-1"))

	// The editor itself stays closed to non-admins
	assert.Equal(t, http.StatusForbidden, env.get("/articles/new").Code)
}

func TestNavigateEdit(t *testing.T) {
	source := &fakeSource{articles: makeArticles(3)}

	env := newTestEnv(t, source, reader)
	rec := env.postForm("/articles/nav", url.Values{"action": {"edit"}, "id": {"1"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "", env.titles.Get("session-1"))

	env = newTestEnv(t, source, admin)
	rec = env.postForm("/articles/nav", url.Values{"action": {"edit"}, "id": {"1"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/articles/1/edit", rec.Header().Get("Location"))
	assert.Equal(t, listview.TitleEditArticle, env.titles.Get("session-1"))

	assert.Equal(t, http.StatusOK, env.get("/articles/1/edit").Code)
	assert.Equal(t, http.StatusNotFound, env.get("/articles/99/edit").Code)
}

func TestNavigateUnknown(t *testing.T) {
	env := newTestEnv(t, &fakeSource{articles: makeArticles(1)}, admin)

	assert.Equal(t, http.StatusNotFound, env.postForm("/articles/nav", url.Values{"action": {"open"}, "id": {"42"}}).Code)
	assert.Equal(t, http.StatusBadRequest, env.postForm("/articles/nav", url.Values{"action": {"delete"}}).Code)
}

func TestArticlePage(t *testing.T) {
	env := newTestEnv(t, &fakeSource{articles: makeArticles(1)}, admin)

	rec := env.get("/articles/1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-testid="article-title"`)
	assert.Contains(t, rec.Body.String(), `data-testid="edit-article"`)

	assert.Equal(t, http.StatusNotFound, env.get("/articles/404").Code)
}

func TestAPIListArticles(t *testing.T) {
	env := newTestEnv(t, &fakeSource{articles: makeArticles(2)}, auth.AnonymousUser)

	rec := env.get("/api/articles")
	require.Equal(t, http.StatusOK, rec.Code)

	var list models.ArticleList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Data, 2)

	env = newTestEnv(t, &fakeSource{err: errors.New("down")}, auth.AnonymousUser)
	assert.Equal(t, http.StatusInternalServerError, env.get("/api/articles").Code)
}

func TestAPIGetArticle(t *testing.T) {
	env := newTestEnv(t, &fakeSource{articles: makeArticles(1)}, auth.AnonymousUser)

	assert.Equal(t, http.StatusOK, env.get("/api/articles/1").Code)
	assert.Equal(t, http.StatusNotFound, env.get("/api/articles/2").Code)
}

func TestAPICreateArticle(t *testing.T) {
	source := &fakeSource{}
	env := newTestEnv(t, source, admin)

	req := httptest.NewRequest(http.MethodPost, "/api/articles", strings.NewReader(`{"title":"  新文章  "}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, source.created, 1)
	assert.Equal(t, "新文章", source.created[0].Title)
	require.NotNil(t, source.created[0].AuthorID)
	assert.Equal(t, admin.ID, *source.created[0].AuthorID)

	req = httptest.NewRequest(http.MethodPost, "/api/articles", strings.NewReader(`{"title":""}`))
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

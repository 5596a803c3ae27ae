package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inspire-bytes/internal/core"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	config := &core.Config{
		Server:   core.ServerConfig{Host: "127.0.0.1", Port: 4000},
		Database: core.DatabaseConfig{Path: ":memory:"},
		Auth: core.AuthConfig{
			JWTSecret:  "test-secret",
			TokenTTL:   time.Hour,
			LoginRate:  100,
			LoginBurst: 100,
		},
		Features: core.FeatureConfig{Blog: core.BlogConfig{
			Enabled:    true,
			TimeZone:   "UTC",
			DateLayout: "2006/1/2 15:04:05",
		}},
	}
	require.NoError(t, config.Validate())

	ctx := context.Background()
	srv, err := New(ctx, config, core.NewLoggerWithWriter(io.Discard, slog.LevelError))
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })

	require.NoError(t, srv.Migrate(ctx))
	require.NoError(t, srv.registry.InitAll(ctx))
	return srv
}

func do(t *testing.T, srv *Server, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, srv *Server, username string) string {
	t.Helper()
	rec := do(t, srv, http.MethodPost, "/auth/login", `{"username":"`+username+`","password":"password123"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token
}

func TestPortalFlow(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/auth/register", `{"username":"root","password":"password123"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"role":"admin"`)

	rec = do(t, srv, http.MethodPost, "/auth/register", `{"username":"reader","password":"password123"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"user"`)

	adminToken := login(t, srv, "root")
	readerToken := login(t, srv, "reader")

	// Empty portal shows the create prompt to everyone
	assert.Contains(t, do(t, srv, http.MethodGet, "/", "", "").Body.String(), `data-testid="empty-cta"`)

	assert.Equal(t, http.StatusUnauthorized, do(t, srv, http.MethodPost, "/api/articles", `{"title":"x"}`, "").Code)
	assert.Equal(t, http.StatusForbidden, do(t, srv, http.MethodPost, "/api/articles", `{"title":"x"}`, readerToken).Code)

	for _, title := range []string{"一", "二", "三", "四", "五"} {
		rec := do(t, srv, http.MethodPost, "/api/articles", `{"title":"`+title+`"}`, adminToken)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec = do(t, srv, http.MethodGet, "/api/articles", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Data []struct {
			Title  string `json:"title"`
			Author *struct {
				Username string `json:"username"`
			} `json:"author"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Data, 5)
	require.NotNil(t, list.Data[0].Author)
	assert.Equal(t, "root", list.Data[0].Author.Username)

	adminPage := do(t, srv, http.MethodGet, "/", "", adminToken).Body.String()
	assert.Contains(t, adminPage, `data-testid="create-article"`)
	assert.Equal(t, 4, strings.Count(adminPage, `data-testid="edit-article"`))

	readerPage := do(t, srv, http.MethodGet, "/", "", readerToken).Body.String()
	assert.NotContains(t, readerPage, `data-testid="create-article"`)
	assert.NotContains(t, readerPage, `data-testid="edit-article"`)

	page2 := do(t, srv, http.MethodGet, "/articles?page=2", "", "").Body.String()
	assert.Equal(t, 1, strings.Count(page2, `data-testid="article-item"`))

	rec = do(t, srv, http.MethodGet, "/api/users", "", readerToken)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, srv, http.MethodGet, "/api/users", "", "").Code)

	// Logout revokes the token
	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/auth/logout", `{}`, readerToken).Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, srv, http.MethodGet, "/api/users", "", readerToken).Code)
}

func TestNavigationTitleFollowsSession(t *testing.T) {
	srv := newTestServer(t)
	require.NoError(t, srv.Seed(context.Background(), 3, "", ""))

	rec := do(t, srv, http.MethodGet, "/", "", "")
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodPost, "/articles/nav", strings.NewReader("action=new"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/articles/new", rec.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Contains(t, rec.Body.String(), "<title>新建文章</title>")

	// Another browser session keeps the default title
	assert.Contains(t, do(t, srv, http.MethodGet, "/", "", "").Body.String(), "<title>Inspire Bytes</title>")

	// Anonymous visitors are sent to log in before reaching the editor
	rec = do(t, srv, http.MethodGet, "/articles/new", "", "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/login", rec.Header().Get("Location"))
}

func TestOperationalEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	do(t, srv, http.MethodGet, "/", "", "")
	rec = do(t, srv, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "inspire_bytes_article_list_size")

	rec = do(t, srv, http.MethodGet, "/assets/app.css", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")
}

func TestRollback(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, srv.Rollback(ctx, "blog"))
	assert.Error(t, srv.Rollback(ctx, "blog"))
	assert.Error(t, srv.Rollback(ctx, "nope"))
	require.NoError(t, srv.Migrate(ctx))
}

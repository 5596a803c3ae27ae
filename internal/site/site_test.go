package site

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTitleStoreLastWriteWins(t *testing.T) {
	store := NewTitleStore()
	assert.Equal(t, "", store.Get("s1"))

	store.Set("s1", "新建文章")
	store.Set("s1", "编辑")
	store.Set("s2", "Other")

	assert.Equal(t, "编辑", store.Get("s1"))
	assert.Equal(t, "Other", store.Get("s2"))

	store.Forget("s1")
	assert.Equal(t, "", store.Get("s1"))
}

func TestTitleStoreExpiresWithSession(t *testing.T) {
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewTitleStore()
	store.now = func() time.Time { return clock }

	store.Set("old", "编辑")
	clock = clock.Add(SessionTTL - time.Second)
	assert.Equal(t, "编辑", store.Get("old"))

	clock = clock.Add(time.Second)
	assert.Equal(t, "", store.Get("old"))

	// The next new session sweeps the expired one out
	store.Set("new", "新建文章")
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, "新建文章", store.Get("new"))
}

func TestTitleStoreIsBounded(t *testing.T) {
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewTitleStore()
	store.now = func() time.Time { return clock }
	store.limit = 10

	for i := 0; i < 1000; i++ {
		clock = clock.Add(time.Millisecond)
		store.Set("s"+strconv.Itoa(i), "新建文章")
	}

	assert.Equal(t, 10, store.Len())
	assert.Equal(t, "", store.Get("s0"))
	assert.Equal(t, "新建文章", store.Get("s999"))

	// Rewriting an existing session never evicts another
	store.Set("s999", "编辑")
	assert.Equal(t, 10, store.Len())
	assert.Equal(t, "新建文章", store.Get("s990"))
}

func TestSessionMiddlewareIssuesCookie(t *testing.T) {
	var seen string
	handler := SessionMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.Equal(t, seen, cookies[0].Value)

	// An existing session is kept
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, cookies[0].Value, seen)
	assert.Empty(t, rec.Result().Cookies())

	// A forged session id is replaced
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "not-a-uuid"})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.NotEqual(t, "not-a-uuid", seen)
	assert.Len(t, rec.Result().Cookies(), 1)
}

func TestNavigator(t *testing.T) {
	store := NewTitleStore()
	req := httptest.NewRequest(http.MethodPost, "/articles/nav", nil)
	req = req.WithContext(WithSessionID(req.Context(), "session-1"))
	rec := httptest.NewRecorder()

	nav := NewHTTPNavigator(rec, req, store)
	nav.SetTitle("编辑")
	nav.GoTo("/articles/3/edit")
	nav.GoTo("/ignored")

	assert.Equal(t, "编辑", store.Get("session-1"))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/articles/3/edit", rec.Header().Get("Location"))
	assert.Equal(t, "/articles/3/edit", nav.Target)
}

func TestChromeFor(t *testing.T) {
	store := NewTitleStore()
	store.Set("session-1", "Go 并发")

	req := httptest.NewRequest(http.MethodGet, "/articles/1", nil)
	req = req.WithContext(WithSessionID(req.Context(), "session-1"))

	chrome := store.ChromeFor(req, "alice", true)
	assert.Equal(t, "Go 并发", chrome.Title)
	assert.Equal(t, "alice", chrome.Username)
	assert.True(t, chrome.SignedIn)
}

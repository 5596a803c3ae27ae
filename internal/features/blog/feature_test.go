package blog

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inspire-bytes/internal/core"
	"inspire-bytes/internal/site"
)

func testConfig(t *testing.T, articlesURL string) *Config {
	t.Helper()
	config, err := NewConfig(&core.Config{Features: core.FeatureConfig{Blog: core.BlogConfig{
		Enabled:     true,
		ArticlesURL: articlesURL,
		TimeZone:    "UTC",
		DateLayout:  "2006/1/2 15:04:05",
	}}})
	require.NoError(t, err)
	return config
}

func newTestFeature(t *testing.T, config *Config) *Feature {
	t.Helper()
	logger := core.NewLoggerWithWriter(io.Discard, slog.LevelError)
	db, err := core.OpenDatabase(":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewFeature(logger, db, config, site.NewTitleStore(), core.NewMetrics())
}

func hasRoute(routes []core.Route, method, path string) bool {
	for _, r := range routes {
		if r.Method == method && r.Path == path {
			return true
		}
	}
	return false
}

func TestLocalFeatureRoutes(t *testing.T) {
	feature := newTestFeature(t, testConfig(t, ""))

	require.NoError(t, feature.Init(context.Background()))
	assert.Equal(t, "blog", feature.Name())
	assert.NotEmpty(t, feature.Migrations())

	routes := feature.Routes()
	for _, want := range [][2]string{
		{http.MethodGet, "/"},
		{http.MethodGet, "/articles"},
		{http.MethodPost, "/articles/page"},
		{http.MethodPost, "/articles/nav"},
		{http.MethodGet, "/articles/new"},
		{http.MethodGet, "/articles/{id}"},
		{http.MethodGet, "/articles/{id}/edit"},
		{http.MethodGet, "/api/articles"},
		{http.MethodPost, "/api/articles"},
	} {
		assert.True(t, hasRoute(routes, want[0], want[1]), "%s %s", want[0], want[1])
	}
}

func TestRemoteFeatureIsReadOnly(t *testing.T) {
	feature := newTestFeature(t, testConfig(t, "https://portal.example.com"))

	require.NoError(t, feature.Init(context.Background()))
	assert.False(t, hasRoute(feature.Routes(), http.MethodPost, "/api/articles"))
}

func TestConfigValidation(t *testing.T) {
	config := testConfig(t, "ftp://portal.example.com")
	assert.Error(t, config.Validate())

	config = testConfig(t, "")
	config.DateLayout = ""
	assert.Error(t, config.Validate())

	_, err := NewConfig(&core.Config{Features: core.FeatureConfig{Blog: core.BlogConfig{TimeZone: "Mars/Olympus"}}})
	assert.Error(t, err)
}

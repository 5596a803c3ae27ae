// Package blog is the article list feature: the paginated list page, the article pages it
// navigates to, and the JSON API that serves the list.
package blog

import (
	"context"
	"net/http"

	"inspire-bytes/internal/auth"
	"inspire-bytes/internal/core"
	"inspire-bytes/internal/features/blog/client"
	"inspire-bytes/internal/features/blog/handlers"
	"inspire-bytes/internal/features/blog/listview"
	"inspire-bytes/internal/features/blog/migrations"
	"inspire-bytes/internal/features/blog/services"
	"inspire-bytes/internal/site"
)

// Feature represents the blog feature
type Feature struct {
	*core.BaseFeature
	config         *Config
	articleService *services.ArticleService
	handlers       *handlers.Handlers
}

// NewFeature creates a new blog feature. Articles are read from the portal database,
// or from the remote portal at config.ArticlesURL when one is configured.
func NewFeature(logger *core.Logger, db *core.Database, config *Config, titles *site.TitleStore, metrics *core.Metrics) *Feature {
	articleService := services.NewArticleService(db, logger.ForFeature("blog"))

	opts := handlers.Options{
		Source:     articleService,
		Writer:     articleService,
		SourceName: "database",
		Titles:     titles,
		Metrics:    metrics,
		DateFormat: listview.DateFormat{Location: config.Location, Layout: config.DateLayout},
	}
	if config.Remote() {
		opts.Source = client.NewHTTPArticleClient(config.ArticlesURL, logger.ForFeature("blog"))
		opts.Writer = nil
		opts.SourceName = "remote"
	}

	return &Feature{
		BaseFeature:    core.NewBaseFeature("blog", "Article list and article API", config.Enabled, logger, db),
		config:         config,
		articleService: articleService,
		handlers:       handlers.NewHandlers(logger.ForFeature("blog"), opts),
	}
}

// Migrations returns the blog schema migrations
func (f *Feature) Migrations() []core.Migration {
	return migrations.All()
}

// Init initializes the blog feature
func (f *Feature) Init(ctx context.Context) error {
	if err := f.BaseFeature.Init(ctx); err != nil {
		return err
	}

	if err := f.config.Validate(); err != nil {
		return err
	}

	if f.config.Remote() {
		f.Logger().Info("Reading articles from remote portal", "url", f.config.ArticlesURL)
	}
	return nil
}

// Routes returns the HTTP routes for the blog feature
func (f *Feature) Routes() []core.Route {
	h := f.handlers
	routes := []core.Route{
		// Web interface
		{Method: http.MethodGet, Path: "/", Handler: h.ListPage},
		{Method: http.MethodGet, Path: "/articles", Handler: h.ListPage},
		{Method: http.MethodPost, Path: "/articles/page", Handler: h.Paginate},
		{Method: http.MethodPost, Path: "/articles/nav", Handler: h.Navigate},
		{Method: http.MethodGet, Path: "/articles/new", Handler: h.NewArticlePage,
			Middleware: []func(http.Handler) http.Handler{auth.RequireAuthentication}},
		{Method: http.MethodGet, Path: "/articles/{id}", Handler: h.ArticlePage},
		{Method: http.MethodGet, Path: "/articles/{id}/edit", Handler: h.EditArticlePage,
			Middleware: []func(http.Handler) http.Handler{auth.RequireAuthentication}},

		// JSON API
		{Method: http.MethodGet, Path: "/api/articles", Handler: h.ListArticles},
		{Method: http.MethodGet, Path: "/api/articles/{id}", Handler: h.GetArticle},
	}

	if h.CanCreate() {
		routes = append(routes, core.Route{
			Method:     http.MethodPost,
			Path:       "/api/articles",
			Handler:    h.CreateArticle,
			Middleware: []func(http.Handler) http.Handler{auth.RequireArticleManager},
		})
	}

	return routes
}

// ArticleService returns the local article service
func (f *Feature) ArticleService() *services.ArticleService {
	return f.articleService
}

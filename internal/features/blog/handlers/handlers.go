package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"inspire-bytes/internal/auth"
	"inspire-bytes/internal/core"
	"inspire-bytes/internal/features/blog/listview"
	"inspire-bytes/internal/features/blog/models"
	"inspire-bytes/internal/site"
	"inspire-bytes/views"
)

// ArticleSource is where the handlers read articles from: the local database or a remote portal
type ArticleSource interface {
	listview.DataService
	GetArticle(ctx context.Context, id string) (*models.Article, error)
}

// ArticleWriter stores new articles. Only the local database provides one.
type ArticleWriter interface {
	CreateArticle(ctx context.Context, create *models.ArticleCreate) (*models.Article, error)
}

// Options configures the blog handlers
type Options struct {
	Source      ArticleSource
	Writer      ArticleWriter
	SourceName  string
	Titles      *site.TitleStore
	Metrics     *core.Metrics
	DateFormat  listview.DateFormat
	LoadTimeout time.Duration
}

// Handlers contains all blog HTTP handlers
type Handlers struct {
	logger      *core.Logger
	source      ArticleSource
	writer      ArticleWriter
	titles      *site.TitleStore
	metrics     *core.Metrics
	reporter    *listview.MetricsReporter
	format      listview.DateFormat
	loadTimeout time.Duration
}

// NewHandlers creates a new handlers instance
func NewHandlers(logger *core.Logger, opts Options) *Handlers {
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = 10 * time.Second
	}
	return &Handlers{
		logger:      logger,
		source:      opts.Source,
		writer:      opts.Writer,
		titles:      opts.Titles,
		metrics:     opts.Metrics,
		reporter:    listview.NewMetricsReporter(logger, opts.Metrics, opts.SourceName),
		format:      opts.DateFormat,
		loadTimeout: opts.LoadTimeout,
	}
}

// CanCreate reports whether new articles can be stored
func (h *Handlers) CanCreate() bool {
	return h.writer != nil
}

// observedSource records the size of every successful fetch
type observedSource struct {
	listview.DataService
	sizes prometheus.Observer
}

func (s observedSource) ListArticles(ctx context.Context) (models.ArticleList, error) {
	list, err := s.DataService.ListArticles(ctx)
	if err == nil {
		s.sizes.Observe(float64(len(list.Data)))
	}
	return list, err
}

func (h *Handlers) dataService() listview.DataService {
	if h.metrics == nil {
		return h.source
	}
	return observedSource{DataService: h.source, sizes: h.metrics.ArticlesDelivered}
}

// newView creates an unmounted list view for the requesting user
func (h *Handlers) newView(r *http.Request) *listview.View {
	return listview.New(h.dataService(), auth.GetUserFromContext(r), h.reporter)
}

// mountView mounts a view for the request and waits for its fetch, up to the load timeout.
// The caller unmounts it.
func (h *Handlers) mountView(r *http.Request) *listview.View {
	view := h.newView(r)
	view.Mount(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), h.loadTimeout)
	defer cancel()
	if err := view.Wait(ctx); err != nil {
		h.logger.WithContext(r.Context()).Warn("Article list still loading", "timeout", h.loadTimeout)
	}
	return view
}

func (h *Handlers) chrome(r *http.Request) views.Chrome {
	user := auth.GetUserFromContext(r)
	return h.titles.ChromeFor(r, user.Username, !user.IsAnonymous())
}

func (h *Handlers) countNavigation(action string) {
	if h.metrics != nil {
		h.metrics.Navigations.WithLabelValues(action).Inc()
	}
}

// appError maps blog errors onto application errors
func appError(err error) error {
	switch {
	case errors.Is(err, models.ErrArticleNotFound):
		return core.NewNotFoundError("Article not found", err)
	case errors.Is(err, models.ErrTitleRequired), errors.Is(err, models.ErrTitleTooLong):
		return core.NewValidationError(err.Error(), err)
	default:
		return err
	}
}

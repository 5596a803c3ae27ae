// Package listview holds the state of the paginated article list: a single fetch per mount,
// fixed-size pages, and the navigation actions offered from each page.
package listview

import (
	"context"
	"sync"

	"inspire-bytes/internal/auth"
	"inspire-bytes/internal/features/blog/models"
)

// PageSize is the number of articles shown per page
const PageSize = 4

// LoadState tracks the single fetch of a mounted view
type LoadState int

const (
	Loading LoadState = iota
	Loaded
)

func (s LoadState) String() string {
	if s == Loaded {
		return "loaded"
	}
	return "loading"
}

// DataService supplies the article collection
type DataService interface {
	ListArticles(ctx context.Context) (models.ArticleList, error)
}

// Identity exposes the role of the current user
type Identity interface {
	CurrentRole() auth.Role
}

// Navigator receives route changes and the page title that goes with them
type Navigator interface {
	SetTitle(text string)
	GoTo(path string)
}

// FailureReporter records fetch failures. The view never surfaces them.
type FailureReporter interface {
	FetchFailed(ctx context.Context, err error)
}

// View is one mounted article list. Mount starts the fetch, Unmount discards it.
// Pagination and actions are safe to call from any goroutine.
type View struct {
	data     DataService
	identity Identity
	reporter FailureReporter

	mu       sync.Mutex
	state    LoadState
	articles []models.Article
	page     int
	mounted  bool
	cancel   context.CancelFunc
	done     chan struct{}
}

// New creates an unmounted view on page 1
func New(data DataService, identity Identity, reporter FailureReporter) *View {
	return &View{
		data:     data,
		identity: identity,
		reporter: reporter,
		state:    Loading,
		page:     1,
		done:     make(chan struct{}),
	}
}

// Mount starts the fetch. Calls after the first are no-ops.
func (v *View) Mount(ctx context.Context) {
	v.mu.Lock()
	if v.mounted || v.cancel != nil {
		v.mu.Unlock()
		return
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	v.mounted = true
	v.cancel = cancel
	v.state = Loading
	v.mu.Unlock()

	go v.fetch(fetchCtx)
}

func (v *View) fetch(ctx context.Context) {
	defer close(v.done)

	list, err := v.data.ListArticles(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()

	// Unmounted while in flight: the result belongs to nobody.
	if !v.mounted {
		return
	}

	if err != nil {
		if v.reporter != nil {
			v.reporter.FetchFailed(ctx, err)
		}
	} else {
		v.articles = list.Data
	}
	v.state = Loaded
}

// Unmount cancels an in-flight fetch. A result arriving afterwards is dropped.
func (v *View) Unmount() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.mounted = false
	if v.cancel != nil {
		v.cancel()
	}
}

// Done is closed once the fetch has finished, whether or not its result was kept
func (v *View) Done() <-chan struct{} {
	return v.done
}

// Wait blocks until the fetch finishes or ctx ends
func (v *View) Wait(ctx context.Context) error {
	select {
	case <-v.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns the load state
func (v *View) State() LoadState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Articles returns the fetched collection in service order
func (v *View) Articles() []models.Article {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]models.Article(nil), v.articles...)
}

// IsAdmin reports whether the current identity may manage articles
func (v *View) IsAdmin() bool {
	if v.identity == nil {
		return false
	}
	return v.identity.CurrentRole().CanManageArticles()
}

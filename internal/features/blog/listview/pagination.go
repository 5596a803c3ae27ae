package listview

import (
	"math"

	"inspire-bytes/internal/features/blog/models"
)

// visibleSlice returns the half-open window [(page-1)*size, (page-1)*size+size) clipped to articles.
// Pages past the last one are empty; the bound is checked before multiplying so huge pages cannot wrap.
func visibleSlice(articles []models.Article, page int) []models.Article {
	if page < 1 || page > PageCount(len(articles)) {
		return []models.Article{}
	}
	start := (page - 1) * PageSize
	end := min(start+PageSize, len(articles))
	return articles[start:end]
}

// PageCount is the number of pages holding at least one article
func PageCount(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + PageSize - 1) / PageSize
}

// CurrentPage returns the current page, starting at 1
func (v *View) CurrentPage() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

// VisibleSlice returns the articles on the current page
func (v *View) VisibleSlice() []models.Article {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]models.Article(nil), visibleSlice(v.articles, v.page)...)
}

// Advance moves one page forward. The next control is disabled once a page comes up
// short; the page number itself only stops at math.MaxInt.
func (v *View) Advance() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.page < math.MaxInt {
		v.page++
	}
}

// Retreat moves one page back, never below page 1
func (v *View) Retreat() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.page = max(v.page-1, 1)
}

// Restore jumps to page, clamped to 1. Used to rebuild a view from a request.
func (v *View) Restore(page int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.page = max(page, 1)
}

// NextDisabled reports whether the current page holds fewer than PageSize articles.
// A full last page leaves next enabled; the page after it is empty and disables it.
func (v *View) NextDisabled() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(visibleSlice(v.articles, v.page)) < PageSize
}

// PrevDisabled reports whether the view is on the first page
func (v *View) PrevDisabled() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page == 1
}

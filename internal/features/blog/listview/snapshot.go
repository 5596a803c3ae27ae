package listview

import (
	"time"

	"inspire-bytes/internal/features/blog/models"
)

// UnknownAuthor is shown for articles without an author
const UnknownAuthor = "未知"

// DateFormat controls how creation times are rendered
type DateFormat struct {
	Location *time.Location
	Layout   string
}

// Format renders a Unix timestamp in seconds
func (f DateFormat) Format(unix int64) string {
	loc := f.Location
	if loc == nil {
		loc = time.Local
	}
	return time.Unix(unix, 0).In(loc).Format(f.Layout)
}

// Item is one rendered row of the list
type Item struct {
	ID     string
	Title  string
	Date   string
	Author string
}

// Page is everything a renderer needs to draw the view at one instant
type Page struct {
	State        LoadState
	Items        []Item
	CurrentPage  int
	NextDisabled bool
	PrevDisabled bool

	// ShowAdminControls gates the header create action and the per-item edit action
	ShowAdminControls bool

	// Empty is set once loading finished with no articles at all.
	// The create-first-article prompt is then shown to every role.
	Empty bool
}

// Loading reports whether the fetch is still outstanding
func (p Page) Loading() bool {
	return p.State == Loading
}

// Snapshot captures the current page for rendering
func (v *View) Snapshot(format DateFormat) Page {
	v.mu.Lock()
	defer v.mu.Unlock()

	visible := visibleSlice(v.articles, v.page)
	items := make([]Item, 0, len(visible))
	for _, a := range visible {
		items = append(items, NewItem(a, format))
	}

	admin := false
	if v.identity != nil {
		admin = v.identity.CurrentRole().CanManageArticles()
	}

	return Page{
		State:             v.state,
		Items:             items,
		CurrentPage:       v.page,
		NextDisabled:      len(visible) < PageSize,
		PrevDisabled:      v.page == 1,
		ShowAdminControls: admin,
		Empty:             v.state == Loaded && len(v.articles) == 0,
	}
}

// NewItem renders one article for display
func NewItem(a models.Article, format DateFormat) Item {
	author := UnknownAuthor
	if a.Author != nil {
		author = a.Author.Username
	}
	return Item{
		ID:     a.ID,
		Title:  a.Title,
		Date:   format.Format(a.CreatedAt),
		Author: author,
	}
}

package listview

import (
	"inspire-bytes/internal/features/blog/models"
)

// Titles set on the navigator before each route change
const (
	TitleNewArticle  = "新建文章"
	TitleEditArticle = "编辑"
)

// Action names the navigation actions offered by the list
type Action string

const (
	ActionCreate Action = "new"
	ActionOpen   Action = "open"
	ActionEdit   Action = "edit"
)

// NewArticlePath is the route of the article editor for a new article
func NewArticlePath() string {
	return "/articles/new"
}

// ArticlePath is the detail route of an article
func ArticlePath(id string) string {
	return "/articles/" + id
}

// EditArticlePath is the editor route of an article
func EditArticlePath(id string) string {
	return "/articles/" + id + "/edit"
}

// CreateArticle opens the editor for a new article
func (v *View) CreateArticle(nav Navigator) {
	nav.SetTitle(TitleNewArticle)
	nav.GoTo(NewArticlePath())
}

// OpenArticle opens the detail page of a
func (v *View) OpenArticle(nav Navigator, a models.Article) {
	nav.SetTitle(a.Title)
	nav.GoTo(ArticlePath(a.ID))
}

// EditArticle opens the editor for a
func (v *View) EditArticle(nav Navigator, a models.Article) {
	nav.SetTitle(TitleEditArticle)
	nav.GoTo(EditArticlePath(a.ID))
}

// Find returns the fetched article with the given id
func (v *View) Find(id string) (models.Article, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, a := range v.articles {
		if a.ID == id {
			return a, true
		}
	}
	return models.Article{}, false
}

package site

import (
	"net/http"
)

// HTTPNavigator is the navigation sink for a single request.
// SetTitle writes the session's title; GoTo answers the request with a redirect.
type HTTPNavigator struct {
	w      http.ResponseWriter
	r      *http.Request
	titles *TitleStore

	// Target is the last path passed to GoTo
	Target string
}

// NewHTTPNavigator binds a navigator to a request
func NewHTTPNavigator(w http.ResponseWriter, r *http.Request, titles *TitleStore) *HTTPNavigator {
	return &HTTPNavigator{w: w, r: r, titles: titles}
}

// SetTitle implements the navigation sink
func (n *HTTPNavigator) SetTitle(text string) {
	n.titles.Set(SessionID(n.r.Context()), text)
}

// GoTo implements the navigation sink. Only the first call writes a response.
func (n *HTTPNavigator) GoTo(path string) {
	if n.Target != "" {
		return
	}
	n.Target = path
	http.Redirect(n.w, n.r, path, http.StatusSeeOther)
}

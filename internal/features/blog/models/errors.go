package models

import "errors"

// MaxTitleLength bounds article titles, in characters
const MaxTitleLength = 200

var (
	ErrArticleNotFound = errors.New("article not found")
	ErrTitleRequired   = errors.New("title is required")
	ErrTitleTooLong    = errors.New("title is too long")
)

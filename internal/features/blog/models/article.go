package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Author is the public identity attached to an article
type Author struct {
	Username string `json:"username"`
}

// Article is a blog post's metadata as delivered to the list view.
// CreatedAt is a Unix timestamp in seconds; Author is nil when the writer is unknown.
type Article struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	CreatedAt int64   `json:"created_at"`
	Author    *Author `json:"author,omitempty"`
}

// UnmarshalJSON accepts the id as either a JSON string or a JSON number
func (a *Article) UnmarshalJSON(data []byte) error {
	type plain Article
	var raw struct {
		plain
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, err := decodeID(raw.ID)
	if err != nil {
		return err
	}
	*a = Article(raw.plain)
	a.ID = id
	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var id string
		if err := json.Unmarshal(raw, &id); err != nil {
			return "", err
		}
		return id, nil
	}

	var number json.Number
	if err := json.Unmarshal(raw, &number); err != nil {
		return "", fmt.Errorf("article id must be a string or a number: %w", err)
	}
	return number.String(), nil
}

// ArticleList is the response envelope of the article list endpoint
type ArticleList struct {
	Data []Article `json:"data"`
}

// ArticleCreate is the payload used to create an article
type ArticleCreate struct {
	Title    string `json:"title"`
	AuthorID *int   `json:"-"`
}

// Validate checks the create payload
func (c *ArticleCreate) Validate() error {
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" {
		return ErrTitleRequired
	}
	if len([]rune(c.Title)) > MaxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

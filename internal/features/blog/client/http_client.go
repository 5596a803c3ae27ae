// Package client reads articles from a remote portal over its JSON API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"inspire-bytes/internal/core"
	"inspire-bytes/internal/features/blog/models"
)

// HTTPArticleClient is a data service backed by another portal's /api/articles endpoint
type HTTPArticleClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *core.Logger
}

// NewHTTPArticleClient creates a client for the portal at baseURL
func NewHTTPArticleClient(baseURL string, logger *core.Logger) *HTTPArticleClient {
	return &HTTPArticleClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

// ListArticles fetches GET {base}/api/articles and decodes the envelope
func (c *HTTPArticleClient) ListArticles(ctx context.Context) (models.ArticleList, error) {
	var list models.ArticleList
	if err := c.get(ctx, "/api/articles", &list); err != nil {
		return models.ArticleList{}, err
	}
	if list.Data == nil {
		list.Data = []models.Article{}
	}
	return list, nil
}

// GetArticle fetches GET {base}/api/articles/{id}
func (c *HTTPArticleClient) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	var envelope struct {
		Data *models.Article `json:"data"`
	}
	if err := c.get(ctx, "/api/articles/"+url.PathEscape(id), &envelope); err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		return nil, models.ErrArticleNotFound
	}
	return envelope.Data, nil
}

func (c *HTTPArticleClient) get(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return core.NewUpstreamError("article service unreachable", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Article service response", "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return models.ErrArticleNotFound
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return core.NewUpstreamError(fmt.Sprintf("article service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return core.NewUpstreamError("invalid article service response", err)
	}
	return nil
}

package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"inspire-bytes/internal/core"
	"inspire-bytes/internal/features/blog/models"
)

// ArticleService reads and writes articles in the portal database
type ArticleService struct {
	db     *core.Database
	logger *core.Logger
	now    func() time.Time
}

// NewArticleService creates a new article service
func NewArticleService(db *core.Database, logger *core.Logger) *ArticleService {
	return &ArticleService{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

const articleColumns = `
	SELECT a.id, a.title, a.created_at, u.username
	FROM articles a
	LEFT JOIN users u ON u.id = a.author_id
`

// ListArticles returns every article, newest first
func (s *ArticleService) ListArticles(ctx context.Context) (models.ArticleList, error) {
	rows, cancel, err := s.db.QueryWithTimeout(ctx, articleColumns+` ORDER BY a.created_at DESC, a.id DESC`)
	if err != nil {
		return models.ArticleList{}, fmt.Errorf("failed to query articles: %w", err)
	}
	defer cancel()
	defer rows.Close()

	list := models.ArticleList{Data: []models.Article{}}
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return models.ArticleList{}, fmt.Errorf("failed to scan article: %w", err)
		}
		list.Data = append(list.Data, *article)
	}
	if err := rows.Err(); err != nil {
		return models.ArticleList{}, fmt.Errorf("failed to iterate articles: %w", err)
	}

	return list, nil
}

// GetArticle retrieves an article by ID
func (s *ArticleService) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	numericID, err := strconv.ParseInt(id, 10, 64)
	if err != nil || numericID <= 0 {
		return nil, models.ErrArticleNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	article, err := scanArticle(s.db.QueryRowContext(ctx, articleColumns+` WHERE a.id = ?`, numericID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrArticleNotFound
		}
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	return article, nil
}

// CreateArticle stores a new article and returns it with its author resolved
func (s *ArticleService) CreateArticle(ctx context.Context, create *models.ArticleCreate) (*models.Article, error) {
	if err := create.Validate(); err != nil {
		return nil, err
	}

	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO articles (title, author_id, created_at) VALUES (?, ?, ?) RETURNING id`,
		create.Title, create.AuthorID, s.now().Unix(),
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create article: %w", err)
	}

	s.logger.Info("Created article", "id", id, "title", create.Title)
	return s.GetArticle(ctx, strconv.FormatInt(id, 10))
}

// CountArticles returns the number of stored articles
func (s *ArticleService) CountArticles(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return count, nil
}

// Seed inserts count sample articles attributed to authorID (nil for no author),
// spaced one hour apart ending now.
func (s *ArticleService) Seed(ctx context.Context, count int, authorID *int) error {
	start := s.now().Add(-time.Duration(count) * time.Hour)
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		for i := 1; i <= count; i++ {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO articles (title, author_id, created_at) VALUES (?, ?, ?)`,
				fmt.Sprintf("示例文章 %d", i), authorID, start.Add(time.Duration(i)*time.Hour).Unix(),
			)
			if err != nil {
				return fmt.Errorf("failed to seed article %d: %w", i, err)
			}
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (*models.Article, error) {
	var (
		id       int64
		article  models.Article
		username sql.NullString
	)
	if err := row.Scan(&id, &article.Title, &article.CreatedAt, &username); err != nil {
		return nil, err
	}

	article.ID = strconv.FormatInt(id, 10)
	if username.Valid {
		article.Author = &models.Author{Username: username.String}
	}
	return &article, nil
}

package migrations

import (
	"inspire-bytes/internal/core"
)

// Scope is the migration scope owned by the blog feature
const Scope = "blog"

// Migration001CreateArticles creates the article table
var Migration001CreateArticles = core.Migration{
	Scope:       Scope,
	Version:     1,
	Name:        "create_articles",
	Description: "Create the blog article table",
	UpSQL: `
		CREATE TABLE IF NOT EXISTS articles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			author_id INTEGER REFERENCES users(id) ON DELETE SET NULL,
			created_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_articles_created_at ON articles(created_at DESC);
	`,
	DownSQL: `
		DROP INDEX IF EXISTS idx_articles_created_at;
		DROP TABLE IF EXISTS articles;
	`,
}

// All returns the blog migrations in order
func All() []core.Migration {
	return []core.Migration{
		Migration001CreateArticles,
	}
}

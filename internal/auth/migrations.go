package auth

import "inspire-bytes/internal/core"

// Migrations returns the schema owned by the auth package
func Migrations() []core.Migration {
	return []core.Migration{
		{
			Scope:       "auth",
			Version:     1,
			Name:        "create_users",
			Description: "Create the users table",
			UpSQL: `
				CREATE TABLE IF NOT EXISTS users (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					username TEXT NOT NULL UNIQUE,
					nickname TEXT NOT NULL DEFAULT '',
					role TEXT NOT NULL DEFAULT 'user',
					password_hash BLOB NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				);
				CREATE INDEX IF NOT EXISTS idx_users_role ON users(role);
			`,
			DownSQL: `
				DROP INDEX IF EXISTS idx_users_role;
				DROP TABLE IF EXISTS users;
			`,
		},
	}
}

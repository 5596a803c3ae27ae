package core

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Migration represents a database migration owned by a scope (a feature or core package)
type Migration struct {
	Scope       string
	Version     int
	Name        string
	Description string
	UpSQL       string
	DownSQL     string
	AppliedAt   time.Time
}

// MigrationService handles database migrations
type MigrationService struct {
	db     *Database
	logger *Logger
}

// NewMigrationService creates a new migration service
func NewMigrationService(db *Database, logger *Logger) *MigrationService {
	return &MigrationService{
		db:     db,
		logger: logger,
	}
}

// InitMigrations initializes the migrations table
func (m *MigrationService) InitMigrations(ctx context.Context) error {
	createMigrationsTable := `
	CREATE TABLE IF NOT EXISTS migrations (
		scope TEXT NOT NULL,
		version INTEGER NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (scope, version)
	);`

	if _, err := m.db.ExecWithTimeout(ctx, createMigrationsTable); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	return nil
}

// GetAppliedMigrations returns the applied migrations of a scope, oldest first
func (m *MigrationService) GetAppliedMigrations(ctx context.Context, scope string) ([]Migration, error) {
	query := `SELECT scope, version, name, description, applied_at FROM migrations WHERE scope = ? ORDER BY version`

	rows, cancel, err := m.db.QueryWithTimeout(ctx, query, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer cancel()
	defer rows.Close()

	var migrations []Migration
	for rows.Next() {
		var migration Migration
		var description sql.NullString
		if err := rows.Scan(&migration.Scope, &migration.Version, &migration.Name, &description, &migration.AppliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan migration: %w", err)
		}
		migration.Description = description.String
		migrations = append(migrations, migration)
	}

	return migrations, rows.Err()
}

// IsMigrationApplied checks if a migration has been applied
func (m *MigrationService) IsMigrationApplied(ctx context.Context, migration Migration) (bool, error) {
	query := `SELECT COUNT(*) FROM migrations WHERE scope = ? AND version = ?`

	var count int
	if err := m.db.QueryRowContext(ctx, query, migration.Scope, migration.Version).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}

	return count > 0, nil
}

// ApplyMigration applies a single migration
func (m *MigrationService) ApplyMigration(ctx context.Context, migration Migration) error {
	applied, err := m.IsMigrationApplied(ctx, migration)
	if err != nil {
		return err
	}
	if applied {
		m.logger.Debug("Migration already applied", "scope", migration.Scope, "version", migration.Version)
		return nil
	}

	err = m.db.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, migration.UpSQL); err != nil {
			return fmt.Errorf("failed to execute migration %s/%d (%s): %w", migration.Scope, migration.Version, migration.Name, err)
		}

		insertQuery := `INSERT INTO migrations (scope, version, name, description) VALUES (?, ?, ?, ?)`
		if _, err := tx.ExecContext(ctx, insertQuery, migration.Scope, migration.Version, migration.Name, migration.Description); err != nil {
			return fmt.Errorf("failed to record migration %s/%d: %w", migration.Scope, migration.Version, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Info("Applied migration", "scope", migration.Scope, "version", migration.Version, "name", migration.Name)
	return nil
}

// RollbackMigration rolls back a single migration
func (m *MigrationService) RollbackMigration(ctx context.Context, migration Migration) error {
	applied, err := m.IsMigrationApplied(ctx, migration)
	if err != nil {
		return err
	}
	if !applied {
		m.logger.Info("Migration not applied, cannot rollback", "scope", migration.Scope, "version", migration.Version)
		return nil
	}

	err = m.db.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, migration.DownSQL); err != nil {
			return fmt.Errorf("failed to rollback migration %s/%d (%s): %w", migration.Scope, migration.Version, migration.Name, err)
		}

		deleteQuery := `DELETE FROM migrations WHERE scope = ? AND version = ?`
		if _, err := tx.ExecContext(ctx, deleteQuery, migration.Scope, migration.Version); err != nil {
			return fmt.Errorf("failed to remove migration record %s/%d: %w", migration.Scope, migration.Version, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Info("Rolled back migration", "scope", migration.Scope, "version", migration.Version, "name", migration.Name)
	return nil
}

// Migrate applies every migration of a set in order
func (m *MigrationService) Migrate(ctx context.Context, migrations []Migration) error {
	if err := m.InitMigrations(ctx); err != nil {
		return err
	}

	for _, migration := range migrations {
		if err := m.ApplyMigration(ctx, migration); err != nil {
			return err
		}
	}

	return nil
}

// RollbackLast rolls back the most recently applied migration of a set
func (m *MigrationService) RollbackLast(ctx context.Context, migrations []Migration) error {
	if len(migrations) == 0 {
		return fmt.Errorf("no migrations to rollback")
	}
	if err := m.InitMigrations(ctx); err != nil {
		return err
	}

	applied, err := m.GetAppliedMigrations(ctx, migrations[0].Scope)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		return fmt.Errorf("no %s migrations have been applied", migrations[0].Scope)
	}

	last := applied[len(applied)-1]
	for _, migration := range migrations {
		if migration.Version == last.Version {
			return m.RollbackMigration(ctx, migration)
		}
	}

	return fmt.Errorf("applied migration %s/%d is unknown", last.Scope, last.Version)
}

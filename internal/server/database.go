package server

import (
	"context"
	"fmt"

	"inspire-bytes/internal/auth"
	"inspire-bytes/internal/core"
)

func (s *Server) migrator() *core.MigrationService {
	return core.NewMigrationService(s.db, s.logger)
}

// Migrate applies the auth schema and then the schema of every enabled feature
func (s *Server) Migrate(ctx context.Context) error {
	migrator := s.migrator()
	if err := migrator.InitMigrations(ctx); err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}

	if err := migrator.Migrate(ctx, auth.Migrations()); err != nil {
		return fmt.Errorf("failed to migrate auth: %w", err)
	}

	return s.registry.MigrateAll(ctx, migrator)
}

// Rollback reverts the most recently applied migration of a feature.
// Scope "auth" addresses the user schema.
func (s *Server) Rollback(ctx context.Context, scope string) error {
	migrator := s.migrator()
	if err := migrator.InitMigrations(ctx); err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}

	if scope == "auth" {
		return migrator.RollbackLast(ctx, auth.Migrations())
	}

	feature, ok := s.registry.Get(scope)
	if !ok {
		return core.NewValidationError("unknown migration scope "+scope, nil)
	}
	return migrator.RollbackLast(ctx, feature.Migrations())
}

// Seed creates the admin account when missing and inserts count sample articles
func (s *Server) Seed(ctx context.Context, count int, username, password string) error {
	if err := s.Migrate(ctx); err != nil {
		return err
	}

	var authorID *int
	if username != "" {
		user, err := s.authService.Register(ctx, auth.Registration{Username: username, Password: password})
		if err != nil {
			existing, lookupErr := s.authService.FindByUsername(ctx, username)
			if lookupErr != nil {
				return fmt.Errorf("failed to create seed user: %w", err)
			}
			user = existing
		}
		authorID = &user.ID
		s.logger.Info("Seed author ready", "username", user.Username, "role", user.Role)
	}

	if err := s.blog.ArticleService().Seed(ctx, count, authorID); err != nil {
		return err
	}
	s.logger.Info("Seeded articles", "count", count)
	return nil
}

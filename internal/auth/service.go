package auth

import (
	"context"
	"errors"
	"fmt"

	"inspire-bytes/internal/core"
)

// Common authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

// Service provides authentication functionality
type Service struct {
	users     *UserModel
	issuer    *TokenIssuer
	blacklist Blacklist
	logger    *core.Logger
}

// NewService creates a new authentication service
func NewService(db *core.Database, logger *core.Logger, issuer *TokenIssuer, blacklist Blacklist) *Service {
	return &Service{
		users:     NewUserModel(db),
		issuer:    issuer,
		blacklist: blacklist,
		logger:    logger.ForFeature("auth"),
	}
}

// Register creates an account. The first account becomes the administrator.
func (s *Service) Register(ctx context.Context, reg Registration) (*User, error) {
	if err := reg.Validate(); err != nil {
		return nil, core.NewValidationError(err.Error(), err)
	}

	user := &User{
		Username: reg.Username,
		Nickname: reg.Nickname,
	}
	if user.Nickname == "" {
		user.Nickname = reg.Username
	}

	if err := user.Password.Set(reg.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.InsertWithRole(ctx, user, true); err != nil {
		if errors.Is(err, ErrDuplicateUsername) {
			return nil, core.NewConflictError("username already taken", err)
		}
		return nil, core.NewDatabaseError("failed to create user", err)
	}

	s.logger.Info("Registered user", "user_id", user.ID, "username", user.Username, "role", user.Role)
	return user, nil
}

// AuthenticateUser checks a username and password
func (s *Service) AuthenticateUser(ctx context.Context, username, password string) (*User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		switch {
		case errors.Is(err, ErrRecordNotFound):
			return nil, ErrInvalidCredentials
		default:
			return nil, err
		}
	}

	match, err := user.Password.Matches(password)
	if err != nil {
		return nil, err
	}
	if !match {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Login authenticates and issues a session token
func (s *Service) Login(ctx context.Context, username, password string) (*User, *Token, error) {
	user, err := s.AuthenticateUser(ctx, username, password)
	if err != nil {
		return nil, nil, err
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("Created session token", "user_id", user.ID)
	return user, token, nil
}

// ValidateToken resolves a token to its user. The role is re-read from storage so
// demotions take effect on the next request.
func (s *Service) ValidateToken(ctx context.Context, tokenPlaintext string) (*User, *Claims, error) {
	claims, err := s.issuer.Parse(tokenPlaintext)
	if err != nil {
		return nil, nil, err
	}

	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, nil, err
	}
	if revoked {
		return nil, nil, ErrTokenRevoked
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, nil, ErrInvalidToken
		}
		return nil, nil, err
	}

	return user, claims, nil
}

// Logout revokes the token identified by claims
func (s *Service) Logout(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return ErrInvalidToken
	}
	if err := s.blacklist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return err
	}

	s.logger.Info("User logged out", "user_id", claims.UserID)
	return nil
}

// GetUser returns a user by id
func (s *Service) GetUser(ctx context.Context, id int) (*User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, core.NewNotFoundError(fmt.Sprintf("user %d not found", id), err)
		}
		return nil, core.NewDatabaseError("failed to get user", err)
	}
	return user, nil
}

// ListUsers returns every registered user
func (s *Service) ListUsers(ctx context.Context) ([]*User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, core.NewDatabaseError("failed to list users", err)
	}
	return users, nil
}

// FindByUsername returns the account with the given username
func (s *Service) FindByUsername(ctx context.Context, username string) (*User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, core.NewNotFoundError("user "+username+" not found", err)
		}
		return nil, core.NewDatabaseError("failed to get user", err)
	}
	return user, nil
}

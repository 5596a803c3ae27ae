package auth

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role is the capability class of a user
type Role int

const (
	RoleAnonymous Role = iota
	RoleUser
	RoleAdmin
)

// ParseRole maps the stored role name to a Role. Unknown names map to RoleAnonymous
// so a typo can never grant admin capabilities.
func ParseRole(name string) Role {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "admin":
		return RoleAdmin
	case "user":
		return RoleUser
	default:
		return RoleAnonymous
	}
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleUser:
		return "user"
	default:
		return "anonymous"
	}
}

// CanManageArticles reports whether the role may create and edit articles
func (r Role) CanManageArticles() bool {
	return r == RoleAdmin
}

// MarshalText implements encoding.TextMarshaler
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (r *Role) UnmarshalText(text []byte) error {
	*r = ParseRole(string(text))
	return nil
}

// User represents a registered account
type User struct {
	ID        int       `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Username  string    `json:"username"`
	Nickname  string    `json:"nickname"`
	Role      Role      `json:"role"`
	Password  Password  `json:"-"`
}

// AnonymousUser stands in for unauthenticated requests
var AnonymousUser = &User{Role: RoleAnonymous}

// IsAnonymous checks if the user is anonymous
func (u *User) IsAnonymous() bool {
	return u == nil || u == AnonymousUser
}

// CurrentRole returns the user's role; a nil or anonymous user has RoleAnonymous
func (u *User) CurrentRole() Role {
	if u.IsAnonymous() {
		return RoleAnonymous
	}
	return u.Role
}

// Password represents a hashed password
type Password struct {
	plaintext *string
	hash      []byte
}

// Set hashes and stores a plaintext password
func (p *Password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), bcryptCost)
	if err != nil {
		return err
	}

	p.plaintext = &plaintextPassword
	p.hash = hash
	return nil
}

// Matches checks if a plaintext password matches the hash
func (p *Password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(p.hash, []byte(plaintextPassword))
	if err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, err
		}
	}
	return true, nil
}

// bcryptCost is lowered by tests
var bcryptCost = 12

// Registration is the payload accepted by the register endpoint
type Registration struct {
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

// Validate checks the registration fields
func (r Registration) Validate() error {
	switch {
	case strings.TrimSpace(r.Username) == "":
		return errors.New("username is required")
	case len(r.Username) > 64:
		return errors.New("username must be at most 64 characters")
	case len(r.Password) < 8:
		return errors.New("password must be at least 8 characters")
	case len(r.Password) > 72:
		return errors.New("password must be at most 72 bytes")
	}
	return nil
}

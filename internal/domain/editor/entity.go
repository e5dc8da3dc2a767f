package editor

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role is the access level of a session
type Role string

const (
	RoleGuest  Role = "guest"
	RoleEditor Role = "editor"
)

// IsEditor reports whether the role may change the catalog
func (r Role) IsEditor() bool {
	return r == RoleEditor
}

// Editor is the single credential record allowed to edit the catalog.
// Username is stored lowercased; matching is case-insensitive.
type Editor struct {
	ID        uint
	Username  string
	Password  string // bcrypt hash
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewEditor creates an editor from a username and an already-hashed password
func NewEditor(username, hashedPassword string) *Editor {
	now := time.Now()
	return &Editor{
		Username:  NormalizeUsername(username),
		Password:  hashedPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CheckPassword compares plain against the stored hash
func (e *Editor) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(e.Password), []byte(plain)) == nil
}

// NormalizeUsername is the canonical form used for storage and lookup
func NormalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

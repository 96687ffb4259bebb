package core

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// User ID constraints for WFC accounts.
const (
	MinUserIDLength = 6
	MaxUserIDLength = 16

	// MaxPasswordLength is the longest password bcrypt accepts, in bytes.
	MaxPasswordLength = 72
)

var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// User represents an authenticated principal returned to handlers.
type User struct {
	ID           string
	PasswordHash string
	CreatedAt    time.Time
}

var (
	// ErrInvalidCredentials is returned when the user does not exist or the password is wrong.
	// The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidUserID is returned when a user id fails the syntax check.
	ErrInvalidUserID = errors.New("invalid user id")
	// ErrInvalidPassword is returned when a password cannot be stored.
	ErrInvalidPassword = errors.New("invalid password")
	// ErrUserExists is returned when registering an id that is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrNotFound is returned by repositories when a record does not exist.
	ErrNotFound = errors.New("not found")
)

// IsValidUserID reports whether id is syntactically acceptable. It never touches storage.
func IsValidUserID(id string) bool {
	if len(id) < MinUserIDLength || len(id) > MaxUserIDLength {
		return false
	}
	return userIDPattern.MatchString(id)
}

// userKey is the case-folded form used for uniqueness and lookups.
func userKey(id string) string {
	return strings.ToLower(id)
}

// FormattedID returns the id for log output, masking all but the last
// three characters when redact is set.
func (u User) FormattedID(redact bool) string {
	if !redact {
		return u.ID
	}
	if len(u.ID) <= 3 {
		return strings.Repeat("*", len(u.ID))
	}
	return strings.Repeat("*", len(u.ID)-3) + u.ID[len(u.ID)-3:]
}

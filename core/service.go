package core

import (
	"context"
	"errors"
	"time"

	"github.com/samber/oops"
	"golang.org/x/crypto/bcrypt"
)

// Registry owns WFC user identities: syntax checks, registration and password authentication.
type Registry struct {
	users UserRepository
	cost  int
	now   func() time.Time
}

// NewRegistry wraps a repository with bcrypt hashing at the given cost.
// A cost of zero selects bcrypt.DefaultCost.
func NewRegistry(users UserRepository, cost int) *Registry {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Registry{users: users, cost: cost, now: time.Now}
}

// Exists reports whether a user with the given id exists, ignoring case.
// Malformed ids are reported as absent without a lookup.
func (r *Registry) Exists(ctx context.Context, id string) (bool, error) {
	if !IsValidUserID(id) {
		return false, nil
	}
	_, err := r.users.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Register creates a user. It fails with ErrInvalidUserID for malformed ids,
// ErrInvalidPassword for passwords bcrypt cannot hash and ErrUserExists when
// the id (in any case) is already taken.
func (r *Registry) Register(ctx context.Context, id, password string) (User, error) {
	if !IsValidUserID(id) {
		return User{}, oops.Code("USER_INVALID_ID").With("user_id", id).Wrap(ErrInvalidUserID)
	}

	if len(password) > MaxPasswordLength {
		return User{}, oops.Code("USER_PASSWORD_TOO_LONG").With("user_id", id).With("length", len(password)).Wrap(ErrInvalidPassword)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), r.cost)
	if err != nil {
		return User{}, oops.Code("USER_HASH_FAILED").Wrap(err)
	}

	user := User{ID: id, PasswordHash: string(hash), CreatedAt: r.now().UTC()}
	if err := r.users.Create(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Authenticate returns the user when id exists and password matches.
// Unknown ids and wrong passwords both yield ErrInvalidCredentials; storage
// failures are returned as-is.
//
// The comparison is not constant-time with respect to user existence.
func (r *Registry) Authenticate(ctx context.Context, id, password string) (User, error) {
	if !IsValidUserID(id) {
		return User{}, ErrInvalidCredentials
	}

	u, err := r.users.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return *u, nil
}

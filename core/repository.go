package core

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"
)

// UserRepository defines persistence operations for users.
// Lookups are case-insensitive and Create must reject duplicates at the write.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user User) error
}

// pgxQuerier is the subset of pgxpool.Pool used by PgUserRepository.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgUserRepository implements UserRepository using PostgreSQL.
type PgUserRepository struct {
	db pgxQuerier
}

func NewPgUserRepository(db pgxQuerier) *PgUserRepository {
	return &PgUserRepository{db: db}
}

// Migrate creates the users table and its case-insensitive unique index.
func (r *PgUserRepository) Migrate(ctx context.Context) error {
	const table = `CREATE TABLE IF NOT EXISTS wfc_users (
	user_id TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
)`
	const index = `CREATE UNIQUE INDEX IF NOT EXISTS wfc_users_user_id_lower ON wfc_users (LOWER(user_id))`
	if _, err := r.db.Exec(ctx, table); err != nil {
		return oops.Code("USER_MIGRATE_FAILED").With("operation", "create table").Wrap(err)
	}
	if _, err := r.db.Exec(ctx, index); err != nil {
		return oops.Code("USER_MIGRATE_FAILED").With("operation", "create index").Wrap(err)
	}
	return nil
}

func (r *PgUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	const q = `SELECT user_id, password_hash, created_at FROM wfc_users WHERE LOWER(user_id) = LOWER($1)`
	var u User
	err := r.db.QueryRow(ctx, q, id).Scan(&u.ID, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").With("user_id", id).Wrap(ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_FIND_FAILED").With("user_id", id).Wrap(err)
	}
	return &u, nil
}

func (r *PgUserRepository) Create(ctx context.Context, user User) error {
	const q = `INSERT INTO wfc_users (user_id, password_hash, created_at) VALUES ($1, $2, $3)`
	if _, err := r.db.Exec(ctx, q, user.ID, user.PasswordHash, user.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("USER_EXISTS").With("user_id", user.ID).Wrap(ErrUserExists)
		}
		return oops.Code("USER_CREATE_FAILED").With("user_id", user.ID).Wrap(err)
	}
	return nil
}

// MemoryUserRepository keeps users for the lifetime of the process.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]User)}
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[userKey(id)]
	if !ok {
		return nil, oops.Code("USER_NOT_FOUND").With("user_id", id).Wrap(ErrNotFound)
	}
	return &u, nil
}

func (r *MemoryUserRepository) Create(_ context.Context, user User) error {
	key := userKey(user.ID)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[key]; ok {
		return oops.Code("USER_EXISTS").With("user_id", user.ID).Wrap(ErrUserExists)
	}
	r.users[key] = user
	return nil
}

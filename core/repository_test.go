package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPgUserRepository_FindByID(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		want      *User
		wantErr   error
	}{
		{
			name: "found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"user_id", "password_hash", "created_at"}).
					AddRow("Trainer01", "hash", created)
				mock.ExpectQuery(`SELECT user_id, password_hash, created_at FROM wfc_users`).
					WithArgs("trainer01").
					WillReturnRows(rows)
			},
			want: &User{ID: "Trainer01", PasswordHash: "hash", CreatedAt: created},
		},
		{
			name: "not found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT user_id, password_hash, created_at FROM wfc_users`).
					WithArgs("trainer01").
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "database error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT user_id, password_hash, created_at FROM wfc_users`).
					WithArgs("trainer01").
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: errors.New("connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()
			tt.setupMock(mock)

			repo := NewPgUserRepository(mock)
			got, err := repo.FindByID(context.Background(), "trainer01")

			switch {
			case tt.wantErr == nil:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			case errors.Is(tt.wantErr, ErrNotFound):
				require.ErrorIs(t, err, ErrNotFound)
			default:
				require.Error(t, err)
				assert.NotErrorIs(t, err, ErrNotFound)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPgUserRepository_Create(t *testing.T) {
	user := User{ID: "trainer01", PasswordHash: "hash", CreatedAt: time.Now().UTC()}

	t.Run("inserts", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		mock.ExpectExec(`INSERT INTO wfc_users`).
			WithArgs(user.ID, user.PasswordHash, pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, NewPgUserRepository(mock).Create(context.Background(), user))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation maps to ErrUserExists", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		mock.ExpectExec(`INSERT INTO wfc_users`).
			WithArgs(user.ID, user.PasswordHash, pgxmock.AnyArg()).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

		err = NewPgUserRepository(mock).Create(context.Background(), user)
		require.ErrorIs(t, err, ErrUserExists)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("other errors are not duplicates", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		mock.ExpectExec(`INSERT INTO wfc_users`).
			WithArgs(user.ID, user.PasswordHash, pgxmock.AnyArg()).
			WillReturnError(errors.New("disk full"))

		err = NewPgUserRepository(mock).Create(context.Background(), user)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrUserExists)
	})
}

func TestPgUserRepository_Migrate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS wfc_users`).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectExec(`CREATE UNIQUE INDEX IF NOT EXISTS wfc_users_user_id_lower`).
		WillReturnResult(pgxmock.NewResult("CREATE INDEX", 0))

	require.NoError(t, NewPgUserRepository(mock).Migrate(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	_, err := repo.FindByID(ctx, "trainer01")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Create(ctx, User{ID: "Trainer01", PasswordHash: "h"}))
	require.ErrorIs(t, repo.Create(ctx, User{ID: "TRAINER01", PasswordHash: "h2"}), ErrUserExists)

	got, err := repo.FindByID(ctx, "trainer01")
	require.NoError(t, err)
	assert.Equal(t, "Trainer01", got.ID)
	assert.Equal(t, "h", got.PasswordHash)
}

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlibekovAA/user-auth/internal/user/domain"
)

type fakeRow struct {
	scanFunc func(dest ...interface{}) error
}

func (r fakeRow) Scan(dest ...interface{}) error {
	return r.scanFunc(dest...)
}

type fakeQuerier struct {
	queryRowFunc func(ctx context.Context, sql string, args ...interface{}) pgx.Row
	lastArgs     []interface{}
}

func (q *fakeQuerier) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	q.lastArgs = args
	return q.queryRowFunc(ctx, sql, args...)
}

type fixedIDGenerator struct {
	id string
}

func (g fixedIDGenerator) NewID() (string, error) {
	return g.id, nil
}

func TestPgRepository_Add(t *testing.T) {
	createdAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	q := &fakeQuerier{
		queryRowFunc: func(_ context.Context, _ string, _ ...interface{}) pgx.Row {
			return fakeRow{scanFunc: func(dest ...interface{}) error {
				*(dest[0].(*time.Time)) = createdAt
				return nil
			}}
		},
	}
	repo := NewPgRepository(q, fixedIDGenerator{id: "8c1f0c9e-1f43-4a4b-9a57-1d3f6c2b7a10"})

	saved, err := repo.Add(context.Background(), domain.NewUser{
		Username:     "alice",
		PasswordHash: "hash",
		Profile:      map[string]any{"city": "Paris"},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ID("8c1f0c9e-1f43-4a4b-9a57-1d3f6c2b7a10"), saved.ID)
	assert.Equal(t, "Paris", saved.Profile["city"])
	assert.Equal(t, createdAt, saved.CreatedAt)
	require.Len(t, q.lastArgs, 4)
	assert.JSONEq(t, `{"city":"Paris"}`, string(q.lastArgs[3].([]byte)))
}

func TestPgRepository_Add_UniqueViolation(t *testing.T) {
	q := &fakeQuerier{
		queryRowFunc: func(_ context.Context, _ string, _ ...interface{}) pgx.Row {
			return fakeRow{scanFunc: func(...interface{}) error {
				return &pgconn.PgError{Code: "23505"}
			}}
		},
	}
	repo := NewPgRepository(q, fixedIDGenerator{id: "id"})

	_, err := repo.Add(context.Background(), domain.NewUser{Username: "alice", PasswordHash: "hash"})
	assert.ErrorIs(t, err, ErrUsernameAlreadyExists)
}

func TestPgRepository_Add_OtherError(t *testing.T) {
	boom := errors.New("connection reset")
	q := &fakeQuerier{
		queryRowFunc: func(_ context.Context, _ string, _ ...interface{}) pgx.Row {
			return fakeRow{scanFunc: func(...interface{}) error { return boom }}
		},
	}
	repo := NewPgRepository(q, fixedIDGenerator{id: "id"})

	_, err := repo.Add(context.Background(), domain.NewUser{Username: "alice", PasswordHash: "hash"})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrUsernameAlreadyExists)
}

func TestPgRepository_FindByUsername(t *testing.T) {
	createdAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	q := &fakeQuerier{
		queryRowFunc: func(_ context.Context, _ string, args ...interface{}) pgx.Row {
			return fakeRow{scanFunc: func(dest ...interface{}) error {
				*(dest[0].(*string)) = "user-1"
				*(dest[1].(*string)) = args[0].(string)
				*(dest[2].(*string)) = "hash"
				*(dest[3].(*[]byte)) = []byte(`{"city":"Paris"}`)
				*(dest[4].(*time.Time)) = createdAt
				return nil
			}}
		},
	}
	repo := NewPgRepository(q, fixedIDGenerator{id: "unused"})

	user, err := repo.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.User{
		ID:           "user-1",
		Username:     "alice",
		PasswordHash: "hash",
		Profile:      map[string]any{"city": "Paris"},
		CreatedAt:    createdAt,
	}, user)
}

func TestPgRepository_FindByUsername_NotFound(t *testing.T) {
	q := &fakeQuerier{
		queryRowFunc: func(_ context.Context, _ string, _ ...interface{}) pgx.Row {
			return fakeRow{scanFunc: func(...interface{}) error { return pgx.ErrNoRows }}
		},
	}
	repo := NewPgRepository(q, fixedIDGenerator{id: "unused"})

	_, err := repo.FindByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

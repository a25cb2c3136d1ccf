package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	pgx "github.com/jackc/pgx/v4"

	commoncrypto "github.com/AlibekovAA/user-auth/internal/common/crypto"
	"github.com/AlibekovAA/user-auth/internal/common/db"
	"github.com/AlibekovAA/user-auth/internal/user/domain"
)

const driverPostgres = "postgres"

// Querier is the part of *pgxpool.Pool the repository needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type PgRepository struct {
	pool        Querier
	idGenerator commoncrypto.IDGenerator
}

var _ Repository = (*PgRepository)(nil)

func NewPgRepository(pool Querier, idGenerator commoncrypto.IDGenerator) *PgRepository {
	return &PgRepository{pool: pool, idGenerator: idGenerator}
}

func (r *PgRepository) Add(ctx context.Context, user domain.NewUser) (stored domain.User, err error) {
	start := time.Now()
	defer func() { db.ObserveQuery(driverPostgres, "add_user", start, err) }()

	profile, err := encodeProfile(user.Profile)
	if err != nil {
		return domain.User{}, err
	}

	id, err := r.idGenerator.NewID()
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to generate user id: %w", err)
	}

	var createdAt time.Time
	err = r.pool.QueryRow(
		ctx,
		`INSERT INTO users (id, username, password_hash, profile)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		id,
		user.Username,
		user.PasswordHash,
		profile,
	).Scan(&createdAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return domain.User{}, ErrUsernameAlreadyExists
		}
		return domain.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	decoded, err := decodeProfile(profile)
	if err != nil {
		return domain.User{}, err
	}

	return domain.User{
		ID:           domain.ID(id),
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		Profile:      decoded,
		CreatedAt:    createdAt.UTC(),
	}, nil
}

func (r *PgRepository) FindByUsername(ctx context.Context, username string) (user domain.User, err error) {
	start := time.Now()
	defer func() {
		if errors.Is(err, ErrUserNotFound) {
			db.ObserveQuery(driverPostgres, "find_user_by_username", start, nil)
			return
		}
		db.ObserveQuery(driverPostgres, "find_user_by_username", start, err)
	}()

	var (
		id      string
		profile []byte
	)
	err = r.pool.QueryRow(
		ctx,
		`SELECT id::text, username, password_hash, profile, created_at FROM users WHERE username = $1`,
		username,
	).Scan(&id, &user.Username, &user.PasswordHash, &profile, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("failed to find user by username: %w", err)
	}

	user.ID = domain.ID(id)
	user.CreatedAt = user.CreatedAt.UTC()
	user.Profile, err = decodeProfile(profile)
	if err != nil {
		return domain.User{}, err
	}

	return user, nil
}

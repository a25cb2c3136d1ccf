package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/AlibekovAA/user-auth/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/user-auth/internal/common/crypto"
	"github.com/AlibekovAA/user-auth/internal/common/db"
	"github.com/AlibekovAA/user-auth/internal/user/domain"
)

const driverSQLite = "sqlite"

type SQLiteRepository struct {
	db          *sql.DB
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	writeLock   sync.Mutex // sqlite allows a single writer
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(conn *sql.DB, idGenerator commoncrypto.IDGenerator, clock clock.Clock) *SQLiteRepository {
	return &SQLiteRepository{
		db:          conn,
		idGenerator: idGenerator,
		clock:       clock,
	}
}

func (r *SQLiteRepository) Add(ctx context.Context, user domain.NewUser) (stored domain.User, err error) {
	start := time.Now()
	defer func() { db.ObserveQuery(driverSQLite, "add_user", start, err) }()

	profile, err := encodeProfile(user.Profile)
	if err != nil {
		return domain.User{}, err
	}

	id, err := r.idGenerator.NewID()
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to generate user id: %w", err)
	}

	createdAt := r.clock.Now().UTC().Truncate(time.Second)

	r.writeLock.Lock()
	defer r.writeLock.Unlock()

	_, err = r.db.ExecContext(
		ctx,
		`INSERT INTO users (id, username, password_hash, profile, created_at) VALUES (?, ?, ?, ?, ?)`,
		id,
		user.Username,
		user.PasswordHash,
		string(profile),
		createdAt.Unix(),
	)
	if err != nil {
		var liteErr *sqlite.Error
		if errors.As(err, &liteErr) {
			switch liteErr.Code() {
			case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
				return domain.User{}, ErrUsernameAlreadyExists
			}
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
		CreatedAt:    createdAt,
	}, nil
}

func (r *SQLiteRepository) FindByUsername(ctx context.Context, username string) (user domain.User, err error) {
	start := time.Now()
	defer func() {
		if errors.Is(err, ErrUserNotFound) {
			db.ObserveQuery(driverSQLite, "find_user_by_username", start, nil)
			return
		}
		db.ObserveQuery(driverSQLite, "find_user_by_username", start, err)
	}()

	var (
		id        string
		profile   string
		createdAt int64
	)
	err = r.db.QueryRowContext(
		ctx,
		`SELECT id, username, password_hash, profile, created_at FROM users WHERE username = ?`,
		username,
	).Scan(&id, &user.Username, &user.PasswordHash, &profile, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("failed to find user by username: %w", err)
	}

	user.ID = domain.ID(id)
	user.CreatedAt = time.Unix(createdAt, 0).UTC()
	user.Profile, err = decodeProfile([]byte(profile))
	if err != nil {
		return domain.User{}, err
	}

	return user, nil
}

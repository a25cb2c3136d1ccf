package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/AlibekovAA/user-auth/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/user-auth/internal/common/crypto"
	"github.com/AlibekovAA/user-auth/internal/user/domain"
)

// MemoryRepository keeps users in process memory. Nothing survives a restart.
type MemoryRepository struct {
	mu          sync.RWMutex
	byUsername  map[string]domain.User
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository(idGenerator commoncrypto.IDGenerator, clock clock.Clock) *MemoryRepository {
	return &MemoryRepository{
		byUsername:  make(map[string]domain.User),
		idGenerator: idGenerator,
		clock:       clock,
	}
}

func (r *MemoryRepository) Add(ctx context.Context, user domain.NewUser) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}

	profile, err := cloneProfile(user.Profile)
	if err != nil {
		return domain.User{}, err
	}

	id, err := r.idGenerator.NewID()
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to generate user id: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUsername[user.Username]; exists {
		return domain.User{}, ErrUsernameAlreadyExists
	}

	stored := domain.User{
		ID:           domain.ID(id),
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		Profile:      profile,
		CreatedAt:    r.clock.Now().UTC().Truncate(time.Microsecond),
	}
	r.byUsername[user.Username] = stored

	return copyUser(stored), nil
}

func (r *MemoryRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byUsername[username]
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	return copyUser(user), nil
}

func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUsername)
}

// cloneProfile round-trips through JSON so the stored profile has the same
// shape the SQL stores return and shares nothing with the caller.
func cloneProfile(profile map[string]any) (map[string]any, error) {
	data, err := encodeProfile(profile)
	if err != nil {
		return nil, err
	}
	return decodeProfile(data)
}

func copyUser(user domain.User) domain.User {
	out := user
	if user.Profile != nil {
		data, _ := json.Marshal(user.Profile)
		out.Profile, _ = decodeProfile(data)
	}
	return out
}

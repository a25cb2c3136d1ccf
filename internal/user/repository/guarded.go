package repository

import (
	"context"
	"errors"

	"github.com/AlibekovAA/user-auth/internal/common/resilience"
	"github.com/AlibekovAA/user-auth/internal/user/domain"
)

// GuardedRepository runs every call of the wrapped store through a circuit
// breaker, which also bounds each call with its timeout.
type GuardedRepository struct {
	next    Repository
	breaker *resilience.CircuitBreaker
}

var _ Repository = (*GuardedRepository)(nil)

func NewGuardedRepository(next Repository, config resilience.CircuitBreakerConfig) *GuardedRepository {
	config.IsFailure = IsStoreFailure
	return &GuardedRepository{
		next:    next,
		breaker: resilience.NewCircuitBreaker(config),
	}
}

// IsStoreFailure reports whether err points at an unhealthy store rather
// than an expected lookup or uniqueness outcome. A caller that went away
// says nothing about the store; a deadline hit still does.
func IsStoreFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return !errors.Is(err, ErrUserNotFound) && !errors.Is(err, ErrUsernameAlreadyExists)
}

func (r *GuardedRepository) Add(ctx context.Context, user domain.NewUser) (domain.User, error) {
	var stored domain.User
	err := r.breaker.Call(ctx, func(ctx context.Context) error {
		var err error
		stored, err = r.next.Add(ctx, user)
		return err
	})
	return stored, err
}

func (r *GuardedRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	var user domain.User
	err := r.breaker.Call(ctx, func(ctx context.Context) error {
		var err error
		user, err = r.next.FindByUsername(ctx, username)
		return err
	})
	return user, err
}

package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/AlibekovAA/user-auth/internal/auth/service"
	"github.com/AlibekovAA/user-auth/internal/common/clock"
	"github.com/AlibekovAA/user-auth/internal/common/logger"
	userdomain "github.com/AlibekovAA/user-auth/internal/user/domain"
	userrepo "github.com/AlibekovAA/user-auth/internal/user/repository"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type mockUserRepo struct {
	addFunc            func(ctx context.Context, user userdomain.NewUser) (userdomain.User, error)
	findByUsernameFunc func(ctx context.Context, username string) (userdomain.User, error)
	addCalls           int
	findCalls          int
}

func (m *mockUserRepo) Add(ctx context.Context, user userdomain.NewUser) (userdomain.User, error) {
	m.addCalls++
	if m.addFunc != nil {
		return m.addFunc(ctx, user)
	}
	return userdomain.User{
		ID:           "user-123",
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		Profile:      user.Profile,
	}, nil
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (userdomain.User, error) {
	m.findCalls++
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

type mockHasher struct {
	hashFunc    func(password string) (string, error)
	verifyFunc  func(password, hash string) bool
	hashCalls   int
	verifyCalls int
}

func (m *mockHasher) Hash(password string) (string, error) {
	m.hashCalls++
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed_" + password, nil
}

func (m *mockHasher) Verify(password, hash string) bool {
	m.verifyCalls++
	if m.verifyFunc != nil {
		return m.verifyFunc(password, hash)
	}
	return hash == "hashed_"+password
}

type mockIssuer struct {
	issueFunc func(user userdomain.User) (string, error)
}

func (m *mockIssuer) Issue(user userdomain.User) (string, error) {
	if m.issueFunc != nil {
		return m.issueFunc(user)
	}
	return "token-for-" + string(user.ID), nil
}

var testNow = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func setupAuthService(t *testing.T) (*service.AuthService, *mockUserRepo, *mockHasher, *clock.MockClock) {
	t.Helper()
	repo := &mockUserRepo{}
	hasher := &mockHasher{}
	mockClock := clock.NewMockClock(testNow)
	issuer := service.NewTokenIssuer(testSecret, 7*24*time.Hour, mockClock)
	return service.NewAuthService(repo, hasher, issuer, logger.NewNop()), repo, hasher, mockClock
}

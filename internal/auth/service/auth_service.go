package service

import (
	"context"
	"errors"
	"sync"

	commoncrypto "github.com/AlibekovAA/user-auth/internal/common/crypto"
	"github.com/AlibekovAA/user-auth/internal/common/logger"
	userdomain "github.com/AlibekovAA/user-auth/internal/user/domain"
	userrepo "github.com/AlibekovAA/user-auth/internal/user/repository"
)

// reservedProfileKeys never reach the stored profile.
var reservedProfileKeys = []string{"id", "username", "password", "created_at"}

const dummyPassword = "dummy-password-for-unknown-users"

type AuthService struct {
	repo      userrepo.Repository
	hasher    commoncrypto.PasswordHasher
	issuer    Issuer
	validator CredentialValidator
	log       *logger.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(
	repo userrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	issuer Issuer,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		issuer:    issuer,
		validator: NewCredentialValidator(),
		log:       log,
	}
}

type RegisterInput struct {
	Username string
	Password string
	Profile  map[string]any
}

type LoginInput struct {
	Username string
	Password string
}

type AuthResult struct {
	User  userdomain.User
	Token string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "register_attempt",
	}).Info("register attempt")

	if err := s.validator.ValidateRegistration(input.Username, input.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_validation_failed",
		}).Warnf("register validation failed: %v", err)
		recordRegistration("invalid")
		return AuthResult{}, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		recordRegistration("error")
		return AuthResult{}, newInternalError("PASSWORD_HASH_FAILED", "failed to hash password", err)
	}

	user, err := s.repo.Add(ctx, userdomain.NewUser{
		Username:     input.Username,
		PasswordHash: hash,
		Profile:      profileFields(input.Profile),
	})
	if err != nil {
		if errors.Is(err, userrepo.ErrUsernameAlreadyExists) {
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "register_username_exists",
			}).Warn("register failed: already exists")
			recordRegistration("duplicate")
		} else {
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "register_create_failed",
			}).Errorf("register failed: %v", err)
			recordRegistration("error")
		}
		return AuthResult{}, storeError(err)
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"user_id":  string(user.ID),
			"action":   "register_token_issue_failed",
		}).Errorf("register failed: token issue error: %v", err)
		recordRegistration("error")
		return AuthResult{}, newInternalError("TOKEN_ISSUE_FAILED", "failed to issue session token", err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "register_success",
	}).Info("register success")
	recordRegistration("success")

	return AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "login_attempt",
	}).Info("login attempt")

	if err := s.validator.Validate(input.Username, input.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "login_validation_failed",
		}).Warnf("login validation failed: %v", err)
		recordLogin("invalid")
		return AuthResult{}, err
	}

	user, err := s.repo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			s.hasher.Verify(input.Password, s.dummyPasswordHash())
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "login_user_not_found",
			}).Warn("login failed: not found")
			recordLogin("invalid_credentials")
			return AuthResult{}, ErrInvalidCredentials
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		recordLogin("error")
		return AuthResult{}, storeError(err)
	}

	if !s.hasher.Verify(input.Password, user.PasswordHash) {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"user_id":  string(user.ID),
			"action":   "login_invalid_password",
		}).Warn("login failed: invalid password")
		recordLogin("invalid_credentials")
		return AuthResult{}, ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"user_id":  string(user.ID),
			"action":   "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		recordLogin("error")
		return AuthResult{}, newInternalError("TOKEN_ISSUE_FAILED", "failed to issue session token", err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "login_success",
	}).Info("login success")
	recordLogin("success")

	return AuthResult{User: user, Token: token}, nil
}

// dummyPasswordHash is compared against on unknown usernames so both login
// failures cost one bcrypt comparison.
func (s *AuthService) dummyPasswordHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(dummyPassword)
		if err != nil {
			s.log.Warnf("failed to prepare dummy password hash: %v", err)
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func profileFields(profile map[string]any) map[string]any {
	out := make(map[string]any, len(profile))
	for k, v := range profile {
		out[k] = v
	}
	for _, k := range reservedProfileKeys {
		delete(out, k)
	}
	return out
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/AlibekovAA/user-auth/internal/user/domain"
)

type Repository interface {
	Add(ctx context.Context, user domain.NewUser) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
}

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUsernameAlreadyExists = errors.New("username already exists")
)

func encodeProfile(profile map[string]any) ([]byte, error) {
	if profile == nil {
		profile = map[string]any{}
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to encode profile: %w", err)
	}
	return data, nil
}

func decodeProfile(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return map[string]any{}, nil
	}
	profile := map[string]any{}
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return profile, nil
}

package mapper

import (
	authdto "github.com/AlibekovAA/user-auth/internal/auth/service/dto"
	userdomain "github.com/AlibekovAA/user-auth/internal/user/domain"
)

// UserToDTO drops the password hash unless exposeHash is set.
func UserToDTO(user userdomain.User, exposeHash bool) authdto.User {
	out := authdto.User{
		ID:        string(user.ID),
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
		Profile:   user.Profile,
	}
	if exposeHash {
		out.PasswordHash = user.PasswordHash
	}
	return out
}

package dto

import (
	"github.com/avolkov/task-manager-api/internal/models"
)

// UserDTO represents a user embedded in API responses.
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

// LoginResponse is the payload returned on successful authentication.
type LoginResponse struct {
	Token    string   `json:"token"`
	ID       uint64   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

// ToUserDTO converts a User model to UserDTO.
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
	}
}

// ToLoginResponse builds the login payload for an authenticated user.
func ToLoginResponse(token string, user models.User) LoginResponse {
	return LoginResponse{
		Token:    token,
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Roles:    user.RoleNames(),
	}
}

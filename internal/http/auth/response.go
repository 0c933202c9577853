package auth

import (
	"time"

	"github.com/MrJamesThe3rd/stockroom/internal/auth"
)

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Role      auth.Role `json:"role"`
	Federated bool      `json:"federated,omitempty"`
}

type tokenResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

type registerResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type pendingResponse struct {
	PendingID string `json:"pending_id"`
	Username  string `json:"username"`
}

func toUserResponse(u *auth.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		Federated: u.Federated,
	}
}

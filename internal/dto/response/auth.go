package response

import (
	"time"

	"sauvini-api/internal/data/entity"
	"sauvini-api/pkg/token"
)

type TokenResponse struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	TokenType        string    `json:"token_type"`
	ExpiresIn        int64     `json:"expires_in"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

type LoginUser struct {
	ID            string                 `json:"id"`
	FirstName     string                 `json:"first_name,omitempty"`
	LastName      string                 `json:"last_name,omitempty"`
	Email         string                 `json:"email"`
	Role          entity.UserRole        `json:"role"`
	EmailVerified bool                   `json:"email_verified"`
	Status        *entity.ApprovalStatus `json:"status,omitempty"`
}

type LoginResponse struct {
	Token TokenResponse `json:"token"`
	User  LoginUser     `json:"user"`
}

type RefreshResponse struct {
	Token TokenResponse `json:"token"`
}

func PairToResponse(pair *token.Pair, now time.Time) TokenResponse {
	return TokenResponse{
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		TokenType:        "Bearer",
		ExpiresIn:        int64(pair.AccessExpiresAt.Sub(now).Seconds()),
		AccessExpiresAt:  pair.AccessExpiresAt,
		RefreshExpiresAt: pair.RefreshExpiresAt,
	}
}

func LoginToResponse(user *entity.User, pair *token.Pair, now time.Time) LoginResponse {
	resp := LoginResponse{
		Token: PairToResponse(pair, now),
		User: LoginUser{
			ID:            user.ID.String(),
			FirstName:     user.FirstName,
			LastName:      user.LastName,
			Email:         user.Email,
			Role:          user.Role,
			EmailVerified: user.EmailVerified,
		},
	}
	if user.Professor != nil {
		status := user.Professor.ApprovalStatus
		resp.User.Status = &status
	}
	return resp
}

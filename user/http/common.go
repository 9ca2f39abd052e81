package http

import "github.com/royal-judge/backend/user"

type ContestResult struct {
	ContestID string `json:"contestId"`
	Rank      int    `json:"rank"`
}

type User struct {
	ID             string          `json:"id"`
	Username       string          `json:"username"`
	Email          string          `json:"email"`
	Role           string          `json:"role"`
	Verified       bool            `json:"verified"`
	ContestHistory []ContestResult `json:"contestHistory"`
}

type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

func mapUser(u *user.User) User {
	history := make([]ContestResult, 0, len(u.ContestHistory))
	for _, h := range u.ContestHistory {
		history = append(history, ContestResult{ContestID: h.ContestID, Rank: h.Rank})
	}
	return User{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Role:           string(u.Role),
		Verified:       u.Verified,
		ContestHistory: history,
	}
}

package user

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type ContestResult struct {
	ContestID string `json:"contestId"`
	Rank      int    `json:"rank"`
}

type User struct {
	ID             string          `json:"id"`
	Username       string          `json:"username"`
	Email          string          `json:"email"`
	Role           Role            `json:"role"`
	Verified       bool            `json:"verified"`
	ContestHistory []ContestResult `json:"contestHistory"`

	bcryptPwd []byte
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) clone() *User {
	out := *u
	out.ContestHistory = append(make([]ContestResult, 0, len(u.ContestHistory)), u.ContestHistory...)
	return &out
}

type SignupParams struct {
	Username string
	Email    string
	Password string
}

// SeedUser describes an already verified account loaded at startup.
type SeedUser struct {
	ID             string
	Username       string
	Email          string
	Password       string
	Role           Role
	ContestHistory []ContestResult
}

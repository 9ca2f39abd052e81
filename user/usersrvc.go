package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/crypto/bcrypt"
)

// DemoVerificationCode is handed out to every signup; no mail is sent.
const DemoVerificationCode = "123456"

type pendingUser struct {
	user *User
	code string
}

type UserSrvc struct {
	mu    sync.RWMutex
	users []*User // verified accounts

	pending *xsync.MapOf[string, pendingUser] // keyed by normalized email

	newCode func() string
	newID   func() string
	logger  *slog.Logger
}

type Option func(*UserSrvc)

// WithCodeGenerator replaces the fixed demo verification code.
func WithCodeGenerator(f func() string) Option {
	return func(s *UserSrvc) { s.newCode = f }
}

func WithIDGenerator(f func() string) Option {
	return func(s *UserSrvc) { s.newID = f }
}

func NewUserSrvc(opts ...Option) *UserSrvc {
	s := &UserSrvc{
		pending: xsync.NewMapOf[string, pendingUser](),
		newCode: func() string { return DemoVerificationCode },
		newID:   func() string { return "user-" + uuid.NewString() },
		logger:  slog.Default().With("module", "user"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func normEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Import adds an already verified user, used for seed data.
func (s *UserSrvc) Import(u SeedUser) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password of %s: %w", u.ID, err)
	}
	role := u.Role
	if role == "" {
		role = RoleUser
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findByEmail(u.Email) != nil || s.findByID(u.ID) != nil {
		return fmt.Errorf("user %s (%s) already exists", u.ID, u.Email)
	}
	s.users = append(s.users, &User{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Role:           role,
		Verified:       true,
		ContestHistory: u.ContestHistory,
		bcryptPwd:      hash,
	})
	return nil
}

// GetUser returns nil, nil when no verified user has the id.
func (s *UserSrvc) GetUser(ctx context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u := s.findByID(id)
	if u == nil {
		return nil, nil
	}
	return u.clone(), nil
}

func (s *UserSrvc) ListUsers(ctx context.Context) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]User, 0, len(s.users))
	for _, u := range s.users {
		res = append(res, *u.clone())
	}
	return res, nil
}

func (s *UserSrvc) findByID(id string) *User {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (s *UserSrvc) findByEmail(email string) *User {
	email = normEmail(email)
	for _, u := range s.users {
		if normEmail(u.Email) == email {
			return u
		}
	}
	return nil
}

package user

import (
	"context"
	"fmt"
	"net/mail"

	"golang.org/x/crypto/bcrypt"
)

const SignupSuccessMsg = "Signup successful. Please verify your email."

// Signup parks a new account until its email is verified.
func (s *UserSrvc) Signup(ctx context.Context, p SignupParams) (string, error) {
	if err := validateUsername(p.Username); err != nil {
		return "", err
	}
	if err := validateEmail(p.Email); err != nil {
		return "", err
	}
	if err := validatePassword(p.Password); err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", newErrInternalSE().SetDebug(fmt.Errorf("failed to hash password: %w", err))
	}

	s.mu.RLock()
	exists := s.findByEmail(p.Email) != nil
	s.mu.RUnlock()
	if exists {
		return "", newErrEmailExists()
	}

	code := s.newCode()
	entry := pendingUser{
		user: &User{
			ID:             s.newID(),
			Username:       p.Username,
			Email:          p.Email,
			Role:           RoleUser,
			ContestHistory: []ContestResult{},
			bcryptPwd:      hash,
		},
		code: code,
	}
	if _, loaded := s.pending.LoadOrStore(normEmail(p.Email), entry); loaded {
		return "", newErrEmailExists()
	}

	s.logger.Info("verification code issued", "email", p.Email, "code", code)
	return SignupSuccessMsg, nil
}

// VerifyEmail activates a pending account.
func (s *UserSrvc) VerifyEmail(ctx context.Context, email string, code string) (*User, error) {
	key := normEmail(email)
	entry, ok := s.pending.Load(key)
	if !ok {
		return nil, newErrVerificationNotPending()
	}
	if entry.code != code {
		return nil, newErrInvalidVerificationCode()
	}
	if _, ok := s.pending.LoadAndDelete(key); !ok {
		return nil, newErrVerificationNotPending()
	}

	u := entry.user
	u.Verified = true

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, u)
	s.logger.Info("user verified", "user-id", u.ID, "username", u.Username)
	return u.clone(), nil
}

func validateUsername(username string) error {
	const minUsernameLength = 2
	const maxUsernameLength = 32
	if len(username) < minUsernameLength {
		return newErrUsernameTooShort(minUsernameLength)
	}
	if len(username) > maxUsernameLength {
		return newErrUsernameTooLong(maxUsernameLength)
	}
	return nil
}

func validateEmail(email string) error {
	const maxEmailLength = 320
	if len(email) == 0 || len(email) > maxEmailLength {
		return newErrEmailInvalid()
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return newErrEmailInvalid()
	}
	return nil
}

func validatePassword(password string) error {
	const minPasswordLength = 8
	if len(password) < minPasswordLength {
		return newErrPasswordTooShort(minPasswordLength)
	}
	// bcrypt ignores everything past 72 bytes
	if len(password) > 72 {
		return newErrPasswordTooLong()
	}
	return nil
}

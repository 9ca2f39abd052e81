package user

import (
	"context"

	"golang.org/x/crypto/bcrypt"
)

func (s *UserSrvc) Login(ctx context.Context, email string, password string) (*User, error) {
	s.mu.RLock()
	u := s.findByEmail(email)
	s.mu.RUnlock()

	if u == nil {
		if entry, ok := s.pending.Load(normEmail(email)); ok {
			if bcrypt.CompareHashAndPassword(entry.user.bcryptPwd, []byte(password)) == nil {
				return nil, newErrEmailNotVerified()
			}
		}
		return nil, newErrInvalidCredentials()
	}

	if err := bcrypt.CompareHashAndPassword(u.bcryptPwd, []byte(password)); err != nil {
		return nil, newErrInvalidCredentials()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return u.clone(), nil
}

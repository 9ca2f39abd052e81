package user

import (
	"fmt"
	"net/http"

	"github.com/royal-judge/backend/srvcerror"
)

const ErrCodeUsernameTooShort = "username_too_short"

func newErrUsernameTooShort(minLength int) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeUsernameTooShort,
		fmt.Sprintf("Username must be at least %d characters long.", minLength),
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeUsernameTooLong = "username_too_long"

func newErrUsernameTooLong(maxLength int) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeUsernameTooLong,
		fmt.Sprintf("Username must be at most %d characters long.", maxLength),
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeEmailAlreadyExists = "email_exists"

func newErrEmailExists() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeEmailAlreadyExists,
		"Email already exists",
	).SetHttpStatusCode(http.StatusConflict)
}

const ErrCodeEmailInvalid = "email_invalid"

func newErrEmailInvalid() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeEmailInvalid,
		"Email is invalid.",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodePasswordTooShort = "password_too_short"

func newErrPasswordTooShort(minLength int) *srvcerror.Error {
	return srvcerror.New(
		ErrCodePasswordTooShort,
		fmt.Sprintf("Password must be at least %d characters long.", minLength),
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodePasswordTooLong = "password_too_long"

func newErrPasswordTooLong() *srvcerror.Error {
	return srvcerror.New(
		ErrCodePasswordTooLong,
		"Password is too long.",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeVerificationNotPending = "verification_not_pending"

func newErrVerificationNotPending() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeVerificationNotPending,
		"User not found or already verified.",
	).SetHttpStatusCode(http.StatusNotFound)
}

const ErrCodeInvalidVerificationCode = "invalid_verification_code"

func newErrInvalidVerificationCode() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidVerificationCode,
		"Invalid verification code.",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeEmailNotVerified = "email_not_verified"

func newErrEmailNotVerified() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeEmailNotVerified,
		"Email not verified. Please check your inbox.",
	).SetHttpStatusCode(http.StatusForbidden)
}

const ErrCodeInvalidCredentials = "invalid_credentials"

func newErrInvalidCredentials() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidCredentials,
		"Invalid credentials",
	).SetHttpStatusCode(http.StatusUnauthorized)
}

const ErrCodeUserNotFound = "user_not_found"

func ErrUserNotFound() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeUserNotFound,
		"User not found",
	).SetHttpStatusCode(http.StatusNotFound)
}

func newErrInternalSE() *srvcerror.Error {
	return srvcerror.ErrInternalSE()
}

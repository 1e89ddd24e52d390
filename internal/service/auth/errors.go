package auth

import "errors"

// Token and password errors. The API maps every token error to 401.
var (
	ErrInvalidToken     = errors.New("invalid authentication token") // malformed or bad signature
	ErrExpiredToken     = errors.New("authentication token has expired")
	ErrTokenNotYetValid = errors.New("authentication token not yet valid") // nbf in the future
	ErrMissingToken     = errors.New("authentication token is missing")

	// ErrPasswordMismatch is returned by PasswordVerifier.Compare.
	ErrPasswordMismatch = errors.New("password does not match")
)

package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already in use")
	ErrUserNotFound       = errors.New("user not found")
	ErrPendingNotFound    = errors.New("pending sign-in not found")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidRole        = errors.New("invalid role")
)

// Package common defines shared constants and sentinel errors used across
// repositories, services and the HTTP layer. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound    = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors.
	ErrValidation       = errors.New("validation error")
	ErrAvatarRequired   = errors.New("avatar file is required")
	ErrInvalidPassword  = errors.New("invalid old password")
	ErrPasswordMismatch = errors.New("new password and confirm password must match")
	ErrSamePassword     = errors.New("new password must differ from the old one")
	ErrSelfSubscription = errors.New("cannot subscribe to own channel")
	ErrNotAnImage       = errors.New("only image files are accepted")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired         = errors.New("token expired")
	ErrTokenBlacklisted     = errors.New("token blacklisted")
	ErrRefreshTokenMismatch = errors.New("refresh token is expired or used")
)

package auth

import (
	"errors"
	"time"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation error")
)

type AccessClaims struct {
	UserID    string
	ExpiresAt time.Time
}

package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateContact   = errors.New("contact already registered")
	ErrInvalidCredentials = errors.New("invalid contact or password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
)

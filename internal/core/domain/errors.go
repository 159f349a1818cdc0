package domain

import "errors"

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidLogin        = errors.New("invalid login")
	ErrAccountNotActive    = errors.New("account not active")
	ErrTokenInvalid        = errors.New("verification token not valid")
	ErrOldPasswordMismatch = errors.New("old password does not match")
	ErrPasswordReused      = errors.New("password was used recently")
	ErrInvalidRole         = errors.New("invalid account role")
	ErrTemplateNotFound    = errors.New("email template not found")
	ErrTemplateExists      = errors.New("email template code already in use")
)

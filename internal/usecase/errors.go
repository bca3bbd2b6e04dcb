package usecase

import "errors"

// Error definitions for prediction
var (
	ErrInvalidInput     = errors.New("message is empty after normalization")
	ErrTranslation      = errors.New("translation failed")
	ErrInference        = errors.New("inference failed")
	ErrMissingThreshold = errors.New("threshold not configured")
	ErrInvalidThreshold = errors.New("invalid threshold")
)

// Error definitions for administration and authentication
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrRoleNotFound    = errors.New("role not found")
	ErrSettingNotFound = errors.New("setting not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrProtectedRole   = errors.New("role is protected")
)

package account

import "errors"

var (
	ErrMissingFields       = errors.New("required fields missing")
	ErrMissingAvatar       = errors.New("avatar file is required")
	ErrUserExists          = errors.New("username or email already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	ErrUploadFailed        = errors.New("media upload failed")
	ErrInternal            = errors.New("internal error")
)

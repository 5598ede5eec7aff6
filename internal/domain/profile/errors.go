package profile

import "errors"

var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrServiceNotFound    = errors.New("service not found")
	ErrNotPilot           = errors.New("only pilots can manage a profile")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidUpload      = errors.New("invalid portfolio upload")
	ErrStorageUnavailable = errors.New("file storage is not configured")
)

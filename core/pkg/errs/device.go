package errs

import "errors"

var (
	ErrDeviceNotFound error = errors.New("device not found")
	ErrUserNotFound   error = errors.New("user not found")

	ErrUserAlreadyExists error = errors.New("user already exists")
	ErrUserProtected     error = errors.New("admin users can not be modified")
)

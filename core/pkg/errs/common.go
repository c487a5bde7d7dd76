package errs

import "errors"

var (
	ErrValidateBadRequest error = errors.New("struct validation error")
	ErrPersistence        error = errors.New("storage engine error")
)

package repository

import "errors"

var (
	ErrNotFound          = errors.New("snapshot not found")
	ErrMalformedSnapshot = errors.New("snapshot data is malformed")
	ErrConnectionFailed  = errors.New("storage connection failed")
	ErrWriteFailed       = errors.New("snapshot write failed")
)

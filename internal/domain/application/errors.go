package application

import "errors"

var (
	ErrNotFound      = errors.New("application not found")
	ErrStaleVersion  = errors.New("application was modified concurrently")
	ErrInvalidStatus = errors.New("invalid application status")
)

package domain

import "errors"

var (
	ErrInvalidName     = errors.New("invalid name")
	ErrDuplicateRecord = errors.New("duplicate record name")
)

package app

import "errors"

// ErrDuplicateName and related errors describe validation and runtime failures.
var (
	ErrDuplicateName  = errors.New("duplicate name")
	ErrNoListSelected = errors.New("no list selected")
	ErrNoTaskSelected = errors.New("no task selected")
	ErrStorageCorrupt = errors.New("storage corrupt")
	ErrPersist        = errors.New("persist lists")
)

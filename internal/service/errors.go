package service

import (
	"errors"
	"strings"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrForbidden         = errors.New("forbidden: user does not have permission for this action")
	ErrInvalidFileFormat = errors.New("invalid file format")
	ErrFileSizeExceeded  = errors.New("file size exceeds limit")
	ErrEmptyFile         = errors.New("uploaded file is empty")
	ErrNoProfileImage    = errors.New("user has no profile image")
)

// ValidationError lists every problem found in a form, in field order
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

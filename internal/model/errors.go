package model

import "errors"

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyCompleted is returned when completing a milestone twice.
	ErrAlreadyCompleted = errors.New("milestone already completed")

	// ErrMissingRecipient is returned when a client has no usable email address.
	ErrMissingRecipient = errors.New("client has no email address")

	// ErrInvalidStatus is returned on a disallowed lifecycle transition.
	ErrInvalidStatus = errors.New("invalid status transition")
)

package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a resource already exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotValid is returned when a resource is not valid.
	ErrNotValid = errors.New("not valid")
	// ErrInvalidStatus is returned when a task status is not one of the known statuses.
	ErrInvalidStatus = fmt.Errorf("invalid task status: %w", ErrNotValid)
	// ErrTransport is returned when a task gateway could not complete a network or storage operation.
	ErrTransport = errors.New("transport error")
)

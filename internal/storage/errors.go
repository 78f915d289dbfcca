package storage

import "errors"

// Every backend translates its driver errors into these two so services can match them with errors.Is.
var (
	// ErrNotFound means the document or row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict covers unique violations (duplicate email, second submission for the same job)
	// and conditional writes whose precondition no longer holds.
	ErrConflict = errors.New("record conflict")
)

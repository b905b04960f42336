package services

import "fmt"

// ValidationError reports a malformed or missing input field. Nothing is
// persisted when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: field %q %s", e.Field, e.Reason)
}

// StorageError reports a read or write failure against the selected backend.
// There is no retry and no mid-process failover to the other backend.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ClassificationError reports a classifier failure on a well-formed record.
// The random fallback cannot fail, but a real model artifact can.
type ClassificationError struct {
	Err error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classification failed: %v", e.Err)
}

func (e *ClassificationError) Unwrap() error { return e.Err }

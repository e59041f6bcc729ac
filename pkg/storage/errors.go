// Package storage implements directory-backed JSON document collections
package storage

import "errors"

var (
	// ErrNotFound indicates the record file does not exist
	ErrNotFound = errors.New("storage: record not found")

	// ErrCorrupted indicates the record file exists but is not valid JSON
	ErrCorrupted = errors.New("storage: corrupted record")
)

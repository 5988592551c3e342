// Package store holds the errors shared by every link storage backend.
package store

import "errors"

var (
	ErrNotFound = errors.New("link not found")
	ErrConflict = errors.New("link id already exists")
)

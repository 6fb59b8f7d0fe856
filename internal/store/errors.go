package store

import "errors"

var (
	ErrNotFound  = errors.New("store: resource not found")
	ErrDuplicate = errors.New("store: duplicate resource")
	// ErrIndexExists is returned by EnsureTextIndex when another caller already created the index.
	ErrIndexExists = errors.New("store: index already exists")
)

// Package storage provides path-addressed document storage used by the local
// process-engine repositories.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested path does not exist in storage.
var ErrNotFound = errors.New("not found")

// Storage provides an abstraction over key-value style file storage.
type Storage interface {
	Read(ctx context.Context, path string) ([]byte, error)
	Write(ctx context.Context, path string, data []byte) error
	Delete(ctx context.Context, path string) error
	// List returns the paths of the documents directly under prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
	Exists(ctx context.Context, path string) (bool, error)
}

// Move copies the document at from to to and deletes the original.
func Move(ctx context.Context, s Storage, from, to string) error {
	data, err := s.Read(ctx, from)
	if err != nil {
		return err
	}
	if err := s.Write(ctx, to, data); err != nil {
		return err
	}
	return s.Delete(ctx, from)
}

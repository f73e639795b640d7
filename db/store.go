package db

import (
	"context"
	"fmt"

	"simple-blog/models"
)

// PostStore persists blog posts.
type PostStore interface {
	// Create assigns a new id and stores the post exactly as given.
	Create(ctx context.Context, title, content string, imagePath *string) (*models.Post, error)
	// ListAllDescending returns every post, most recently created first.
	ListAllDescending(ctx context.Context) ([]models.Post, error)
	Close(ctx context.Context) error
}

// StorageError reports a failure of the persistence medium.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

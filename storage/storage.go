// Package storage keeps uploaded images, either on local disk or in an
// S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

var ErrNotFound = errors.New("upload not found")

// Object is an opened upload. Callers must close Body.
type Object struct {
	Body        io.ReadSeekCloser
	Size        int64
	ModTime     time.Time
	ContentType string
}

type Storage interface {
	// Put writes the upload synchronously; the object is readable once Put returns.
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	// Get opens a stored upload. Missing uploads return ErrNotFound.
	Get(ctx context.Context, name string) (*Object, error)
}

// UploadError reports a failure to persist an upload.
type UploadError struct {
	Name string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("failed to store upload %q: %v", e.Name, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

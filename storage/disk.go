package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log"
	"mime"
	"os"
	"path/filepath"
)

// Disk stores uploads as plain files in a single directory.
type Disk struct {
	dir string
}

// NewDisk creates dir if it does not exist yet.
func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	log.Printf("Upload directory ready at %s", dir)
	return &Disk{dir: dir}, nil
}

func (d *Disk) path(name string) (string, bool) {
	base := filepath.Base(name)
	if base != name || base == "." || base == ".." {
		return "", false
	}
	return filepath.Join(d.dir, base), true
}

func (d *Disk) Put(_ context.Context, name string, r io.Reader, _ int64, _ string) error {
	path, ok := d.path(name)
	if !ok {
		return &UploadError{Name: name, Err: errors.New("invalid file name")}
	}

	out, err := os.Create(path)
	if err != nil {
		return &UploadError{Name: name, Err: err}
	}

	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		return &UploadError{Name: name, Err: err}
	}
	if err := out.Close(); err != nil {
		return &UploadError{Name: name, Err: err}
	}
	return nil
}

func (d *Disk) Get(_ context.Context, name string) (*Object, error) {
	path, ok := d.path(name)
	if !ok {
		return nil, ErrNotFound
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, ErrNotFound
	}

	return &Object{
		Body:        f,
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		ContentType: mime.TypeByExtension(filepath.Ext(name)),
	}, nil
}

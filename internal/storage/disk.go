package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DiskBackend keeps assets as plain files in one content directory.
type DiskBackend struct {
	dir string
}

// NewDiskBackend creates dir if needed.
func NewDiskBackend(dir string) (*DiskBackend, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create content directory: %w", err)
	}
	return &DiskBackend{dir: dir}, nil
}

// Dir returns the content directory.
func (d *DiskBackend) Dir() string {
	return d.dir
}

func (d *DiskBackend) path(name string) string {
	return filepath.Join(d.dir, name)
}

func (d *DiskBackend) Put(ctx context.Context, name string, r io.Reader, size int64) error {
	dst, err := os.OpenFile(d.path(name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return fmt.Errorf("close %s: %w", name, err)
	}
	return nil
}

func (d *DiskBackend) Open(ctx context.Context, name string) (*Object, error) {
	f, err := os.Open(d.path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", name, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, ErrNotFound
	}
	return &Object{Name: name, Size: info.Size(), ModTime: info.ModTime(), Body: f}, nil
}

func (d *DiskBackend) Exists(ctx context.Context, name string) (bool, error) {
	info, err := os.Stat(d.path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

func (d *DiskBackend) Delete(ctx context.Context, name string) error {
	if err := os.Remove(d.path(name)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

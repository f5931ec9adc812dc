package nvstore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// File is a Store backed by a single file. The whole image is rewritten on
// Commit through a temp file and rename, so a crash leaves either the old or
// the new image on disk.
type File struct {
	path string
	im   image
}

// OpenFile loads the image at path, creating an erased image of size bytes
// when the file does not exist. A short file is padded with erased bytes.
func OpenFile(path string, size int) (*File, error) {
	if size <= 0 {
		return nil, fmt.Errorf("nvstore size must be positive, got %d", size)
	}
	f := &File{path: path, im: newImage(size)}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return f, nil
		}
		return nil, fmt.Errorf("open nvstore: %w", err)
	}
	defer func() { _ = file.Close() }()

	if _, err := io.ReadFull(file, f.im.buf); err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read nvstore: %w", err)
	}
	return f, nil
}

// Read implements Store.
func (f *File) Read(off, n int) ([]byte, error) { return f.im.read(off, n) }

// Write implements Store.
func (f *File) Write(off int, p []byte) error { return f.im.write(off, p) }

// Size implements Store.
func (f *File) Size() int { return len(f.im.buf) }

// Commit implements Store.
func (f *File) Commit() error {
	if !f.im.dirty {
		return nil
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create nvstore dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp image: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(f.im.buf); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write image: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close image: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("replace image: %w", err)
	}
	f.im.dirty = false
	return nil
}

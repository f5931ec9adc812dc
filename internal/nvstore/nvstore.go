// Package nvstore provides byte-addressable non-volatile storage with an
// explicit commit, modelled on flash-backed EEPROM emulation: writes land in
// a RAM image and only reach the medium on Commit.
package nvstore

import (
	"errors"
	"fmt"
)

// ErasedByte is the value of never-written storage.
const ErasedByte = 0xFF

// ErrOutOfRange is returned for accesses past the end of the store.
var ErrOutOfRange = errors.New("nvstore: access out of range")

// Store is the raw storage driver consumed by the persistent cache.
type Store interface {
	// Read returns n bytes starting at off.
	Read(off, n int) ([]byte, error)
	// Write stages p at off. Nothing is durable until Commit.
	Write(off int, p []byte) error
	// Commit flushes staged writes to the medium.
	Commit() error
	// Size is the capacity in bytes.
	Size() int
}

// image is the RAM copy shared by the implementations.
type image struct {
	buf   []byte
	dirty bool
}

func newImage(size int) image {
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = ErasedByte
	}
	return image{buf: buf}
}

func (im *image) read(off, n int) ([]byte, error) {
	if off < 0 || n < 0 || off+n > len(im.buf) {
		return nil, fmt.Errorf("read %d bytes at %d of %d: %w", n, off, len(im.buf), ErrOutOfRange)
	}
	out := make([]byte, n)
	copy(out, im.buf[off:off+n])
	return out, nil
}

func (im *image) write(off int, p []byte) error {
	if off < 0 || off+len(p) > len(im.buf) {
		return fmt.Errorf("write %d bytes at %d of %d: %w", len(p), off, len(im.buf), ErrOutOfRange)
	}
	copy(im.buf[off:], p)
	im.dirty = true
	return nil
}

// Memory is a volatile Store used by tests and simulations. Committed holds
// the last committed image so tests can observe what would survive a power
// cut.
type Memory struct {
	im        image
	committed []byte
	Commits   int
	// FailCommit makes Commit return an error when set.
	FailCommit error
}

// NewMemory returns an erased Memory store of the given size.
func NewMemory(size int) *Memory {
	m := &Memory{im: newImage(size)}
	m.committed = append([]byte(nil), m.im.buf...)
	return m
}

// Read implements Store.
func (m *Memory) Read(off, n int) ([]byte, error) { return m.im.read(off, n) }

// Write implements Store.
func (m *Memory) Write(off int, p []byte) error { return m.im.write(off, p) }

// Size implements Store.
func (m *Memory) Size() int { return len(m.im.buf) }

// Commit implements Store.
func (m *Memory) Commit() error {
	if m.FailCommit != nil {
		return m.FailCommit
	}
	if !m.im.dirty {
		return nil
	}
	m.committed = append(m.committed[:0], m.im.buf...)
	m.im.dirty = false
	m.Commits++
	return nil
}

// PowerCycle discards uncommitted writes, as a reset would.
func (m *Memory) PowerCycle() {
	copy(m.im.buf, m.committed)
	m.im.dirty = false
}

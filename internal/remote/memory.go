package remote

import (
	"context"
	"fmt"
	"strconv"
	"sync"
)

// MemorySource is an in-process Source for simulations and tests. Values
// are strings keyed by path; GetInt parses them.
type MemorySource struct {
	mu     sync.Mutex
	values map[string]string
	fail   map[string]error
	reads  map[string]int
}

// NewMemorySource returns an empty MemorySource.
func NewMemorySource() *MemorySource {
	return &MemorySource{
		values: make(map[string]string),
		fail:   make(map[string]error),
		reads:  make(map[string]int),
	}
}

// Set stores a value; an empty value deletes the node.
func (m *MemorySource) Set(path, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if value == "" {
		delete(m.values, path)
		return
	}
	m.values[path] = value
}

// SetInt stores an integer value.
func (m *MemorySource) SetInt(path string, v int) {
	m.Set(path, strconv.Itoa(v))
}

// Fail makes reads of path return err until cleared with a nil err.
func (m *MemorySource) Fail(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.fail, path)
		return
	}
	m.fail[path] = err
}

// Reads returns how many times path was read.
func (m *MemorySource) Reads(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads[path]
}

// TotalReads returns the number of reads across all paths.
func (m *MemorySource) TotalReads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.reads {
		total += n
	}
	return total
}

// GetString implements Source.
func (m *MemorySource) GetString(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads[path]++
	if err := m.fail[path]; err != nil {
		return "", err
	}
	return m.values[path], nil
}

// GetInt implements Source.
func (m *MemorySource) GetInt(ctx context.Context, path string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads[path]++
	if err := m.fail[path]; err != nil {
		return 0, err
	}
	v, ok := m.values[path]
	if !ok {
		return 0, fmt.Errorf("%s: %w", path, ErrNoValue)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s is not an integer: %w", path, err)
	}
	return n, nil
}

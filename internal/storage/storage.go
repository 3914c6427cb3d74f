package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrInvalidPath is returned for paths that escape the storage root
var ErrInvalidPath = errors.New("invalid storage path")

// localStorage stores artifacts on the local filesystem under basePath.
// Paths passed to its methods are slash-separated and relative to basePath.
type localStorage struct {
	basePath string
}

// NewLocalStorage creates a new localStorage instance
func NewLocalStorage(basePath string) *localStorage {
	return &localStorage{
		basePath: basePath,
	}
}

// resolve converts a relative slash path into a full filesystem path
func (s *localStorage) resolve(relPath string) (string, error) {
	if relPath == "" || !fs.ValidPath(relPath) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, relPath)
	}
	return filepath.Join(s.basePath, filepath.FromSlash(relPath)), nil
}

// Create creates the file at relPath and returns a WriteCloser.
// Data goes to a temporary sibling that replaces the target on Close,
// so readers never see a half-written file and re-creating overwrites.
func (s *localStorage) Create(relPath string) (io.WriteCloser, error) {
	path, err := s.resolve(relPath)
	if err != nil {
		return nil, err
	}

	// Ensure the directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	tmpPath := filepath.Join(dir, "."+GenerateFileName(filepath.Ext(path)+".tmp"))
	file, err := os.Create(tmpPath)
	if err != nil {
		return nil, err
	}

	return &atomicFile{File: file, target: path}, nil
}

// Open opens a file for reading
func (s *localStorage) Open(relPath string) (*os.File, error) {
	path, err := s.resolve(relPath)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// atomicFile renames the temporary file onto its target on Close
type atomicFile struct {
	*os.File
	target string
}

func (f *atomicFile) Close() error {
	if err := f.File.Close(); err != nil {
		os.Remove(f.File.Name())
		return err
	}
	if err := os.Rename(f.File.Name(), f.target); err != nil {
		os.Remove(f.File.Name())
		return fmt.Errorf("failed to move file into place: %w", err)
	}
	return nil
}

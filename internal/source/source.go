package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sync"
)

var (
	// ErrInvalidName indicates the requested file name escapes the source root.
	ErrInvalidName = errors.New("file name must be a bare name inside the source directory")
)

// Source provides read access to the configuration files of one directory.
type Source interface {
	// ReadFile returns the contents of the named file.
	ReadFile(name string) ([]byte, error)
	// Path returns the display path of the named file, used in diagnostics.
	Path(name string) string
}

// DirSource reads files from a directory on disk.
type DirSource struct {
	dir  string
	fsys fs.FS
}

// NewDirSource returns a source rooted at dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{
		dir:  dir,
		fsys: os.DirFS(dir),
	}
}

// ReadFile reads name relative to the source directory.
func (s *DirSource) ReadFile(name string) ([]byte, error) {
	if !fs.ValidPath(name) || path.Base(name) != name {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Path joins name onto the source directory.
func (s *DirSource) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// MemorySource keeps files in-memory and records every read attempt.
// Access is guarded with a RWMutex.
type MemorySource struct {
	dir string

	mu    sync.RWMutex
	files map[string][]byte
	reads map[string]int
}

// NewMemorySource initialises a source with a copy of files. dir is only used
// to build display paths.
func NewMemorySource(dir string, files map[string]string) *MemorySource {
	s := &MemorySource{
		dir:   dir,
		files: make(map[string][]byte, len(files)),
		reads: make(map[string]int),
	}
	for name, content := range files {
		s.files[name] = []byte(content)
	}
	return s
}

// ReadFile returns a copy of the stored file. Missing files yield an error
// matching fs.ErrNotExist. The attempt is counted either way.
func (s *MemorySource) ReadFile(name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reads[name]++
	data, ok := s.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: s.path(name), Err: fs.ErrNotExist}
	}
	return cloneBytes(data), nil
}

// Path joins name onto the source directory.
func (s *MemorySource) Path(name string) string {
	return s.path(name)
}

// SetFile stores or replaces a file.
func (s *MemorySource) SetFile(name, content string) {
	s.mu.Lock()
	s.files[name] = []byte(content)
	s.mu.Unlock()
}

// Reads reports how many times name has been requested.
func (s *MemorySource) Reads(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.reads[name]
}

// TotalReads reports the number of read attempts across all names.
func (s *MemorySource) TotalReads() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, n := range s.reads {
		total += n
	}
	return total
}

func (s *MemorySource) path(name string) string {
	return filepath.Join(s.dir, name)
}

func cloneBytes(src []byte) []byte {
	out := make([]byte, len(src))
	copy(out, src)
	return out
}

package refstore

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

// refFileExt is the extension appended to every sanitized title.
const refFileExt = ".txt"

// StoreError represents a failure to persist a reference list.
type StoreError struct {
	// Title is the page title whose references were being saved.
	Title string

	// Path is the destination file path.
	Path string

	// Cause is the underlying filesystem error.
	Cause error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("failed to write references for %q to %s: %v", e.Title, e.Path, e.Cause)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// Store writes reference lists into a single output directory.
//
// Design decision: Store holds only the directory path, not an open
// handle. Each Write opens and closes its own file, which keeps the
// type safe to share across goroutines and trivially serializable for
// worker processes (the path travels, not the descriptor).
type Store struct {
	dir string
}

// New creates a Store rooted at dir. The directory is not created
// until Ensure is called.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the output directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Ensure creates the output directory if it does not exist, including
// any missing parents. Calling it on an existing directory is a no-op,
// so every worker can call it without coordination.
func (s *Store) Ensure() error {
	if err := os.MkdirAll(s.dir, 0750); err != nil {
		return &StoreError{Title: "", Path: s.dir, Cause: err}
	}
	return nil
}

// Write saves one reference list to "<sanitized title>.txt" inside the
// output directory, one reference per line, and returns the file path.
// An existing file with the same name is overwritten. Two titles that
// sanitize to the same filename therefore end as last-writer-wins,
// which is accepted behavior rather than an error.
func (s *Store) Write(title string, refs []string) (string, error) {
	path := filepath.Join(s.dir, SafeFilename(title)+refFileExt)

	// 0644 rather than 0600: reference lists are public-wiki URLs meant
	// to be shared, not secrets
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644) //nolint:gosec // Reference lists are public data
	if err != nil {
		return "", &StoreError{Title: title, Path: path, Cause: err}
	}

	w := bufio.NewWriter(f)
	for _, ref := range refs {
		if _, err := w.WriteString(ref + "\n"); err != nil {
			_ = f.Close()
			return "", &StoreError{Title: title, Path: path, Cause: err}
		}
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return "", &StoreError{Title: title, Path: path, Cause: err}
	}
	if err := f.Close(); err != nil {
		return "", &StoreError{Title: title, Path: path, Cause: err}
	}
	return path, nil
}

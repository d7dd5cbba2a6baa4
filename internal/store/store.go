// Package store reads and writes buffer content as line-oriented text files.
package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// MaxFileSize is the largest file Load and Save will touch.
const MaxFileSize = 100 * 1024 * 1024

// ErrInvalidName is returned for file names Validate rejects.
var ErrInvalidName = errors.New("invalid filename or path")

// PersistenceError is a recoverable load or save failure.
type PersistenceError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Reason returns the short text shown to the user for err: the innermost
// path error cause when there is one.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var pe *os.PathError
	if errors.As(err, &pe) && pe.Err != nil {
		return pe.Err.Error()
	}
	var perr *PersistenceError
	if errors.As(err, &perr) && perr.Err != nil {
		return perr.Err.Error()
	}
	return err.Error()
}

// Normalize expands a leading "~" to the user's home directory.
func Normalize(name string) (string, error) {
	if name == "~" || strings.HasPrefix(name, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if name == "~" {
			return home, nil
		}
		return filepath.Join(home, name[2:]), nil
	}
	return name, nil
}

// Validate reports whether name is acceptable as an edit target. Any path
// the file system accepts is allowed, except names carrying control bytes
// and existing targets that are not regular files or are too large.
func Validate(name string) error {
	if name == "" || len(name) > 4096 {
		return ErrInvalidName
	}
	for i := 0; i < len(name); i++ {
		if name[i] < 0x20 || name[i] == 0x7f {
			return ErrInvalidName
		}
	}
	if st, err := os.Stat(name); err == nil {
		if !st.Mode().IsRegular() {
			return fmt.Errorf("%w: not a regular file", ErrInvalidName)
		}
		if st.Size() > MaxFileSize {
			return fmt.Errorf("%w: file too large", ErrInvalidName)
		}
	}
	return nil
}

// Load reads path into lines. An empty path or a file that does not exist
// yet yields a single empty line.
func Load(path string) ([]string, error) {
	if path == "" {
		return []string{""}, nil
	}
	if err := Validate(path); err != nil {
		return nil, &PersistenceError{Op: "load", Path: path, Err: err}
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{""}, nil
		}
		return nil, &PersistenceError{Op: "load", Path: path, Err: err}
	}
	defer f.Close()
	lines, err := ReadLines(f)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Path: path, Err: err}
	}
	return lines, nil
}

// ReadLines splits r on '\n', dropping a trailing '\r' from each line. A
// final terminator does not start an extra line. Empty input yields one
// empty line.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			if line[len(line)-1] == '\n' {
				line = line[:len(line)-1]
				line = strings.TrimSuffix(line, "\r")
			}
			lines = append(lines, line)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	if len(lines) == 0 {
		lines = append(lines, "")
	}
	return lines, nil
}

// Save writes data to path, creating or truncating it.
func Save(path string, data []byte) error {
	if err := Validate(path); err != nil {
		return &PersistenceError{Op: "save", Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &PersistenceError{Op: "save", Path: path, Err: err}
	}
	return nil
}

// Disk is the file system backed persistence used by the editor.
type Disk struct{}

func (Disk) Load(path string) ([]string, error) { return Load(path) }
func (Disk) Save(path string, data []byte) error { return Save(path, data) }

package dusort

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
)

// Kind is the type of a top-level entry.
type Kind uint8

const (
	// KindFile is a regular file or any other non-directory node.
	KindFile Kind = iota
	// KindDirectory is a directory, sized recursively.
	KindDirectory
	// KindSymlink is a symbolic link, sized by the link itself.
	KindSymlink
)

func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindSymlink:
		return "symlink"
	default:
		return "file"
	}
}

// MarshalJSON renders the kind by name.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// kindOf maps a file mode to a Kind.
func kindOf(mode fs.FileMode) Kind {
	switch {
	case mode&fs.ModeSymlink != 0:
		return KindSymlink
	case mode.IsDir():
		return KindDirectory
	default:
		return KindFile
	}
}

// Cause classifies why a node could not be read.
type Cause uint8

const (
	// CauseOther is any I/O failure not covered below.
	CauseOther Cause = iota
	// CausePermissionDenied means the node exists but may not be read.
	CausePermissionDenied
	// CauseNotFound means the node vanished between listing and reading.
	CauseNotFound
)

func (c Cause) String() string {
	switch c {
	case CausePermissionDenied:
		return "permission denied"
	case CauseNotFound:
		return "not found"
	default:
		return "i/o error"
	}
}

// MarshalJSON renders the cause by name.
func (c Cause) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// classify derives a Cause from an error returned by the filesystem.
func classify(err error) Cause {
	switch {
	case errors.Is(err, fs.ErrPermission):
		return CausePermissionDenied
	case errors.Is(err, fs.ErrNotExist):
		return CauseNotFound
	default:
		return CauseOther
	}
}

// ScanError is a non-fatal failure to read a single node.
type ScanError struct {
	// Path is the slash-separated path relative to the scan root.
	Path string `json:"path"`
	// Cause is the classified failure.
	Cause Cause `json:"cause"`
	// Err is the underlying error.
	Err error `json:"-"`
}

func (e ScanError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Path, e.Cause)
	}

	return fmt.Sprintf("%s: %s: %v", e.Path, e.Cause, e.Err)
}

func (e ScanError) Unwrap() error {
	return e.Err
}

// Entry is one immediate child of the scan root with its total size.
type Entry struct {
	// Name is the path segment relative to the scan root.
	Name string `json:"name"`
	// Kind tells files, directories and symlinks apart.
	Kind Kind `json:"kind"`
	// Size is the apparent size in bytes, recursive for directories.
	Size int64 `json:"size"`
	// Errors holds the failures encountered below this entry.
	Errors []ScanError `json:"errors,omitempty"`
}

// Complete reports whether every node below the entry was read.
func (e Entry) Complete() bool {
	return len(e.Errors) == 0
}

// Result is the outcome of walking one node: a best-effort size together
// with every failure met on the way.
type Result struct {
	Size   int64
	Errors []ScanError
}

// add folds other into r.
func (r *Result) add(other Result) {
	r.Size += other.Size
	r.Errors = append(r.Errors, other.Errors...)
}

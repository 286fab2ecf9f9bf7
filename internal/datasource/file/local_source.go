// Package file opens local CSV inputs as datasources.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Stdin is the path that selects standard input instead of a file.
const Stdin = "-"

// Local reads one file from the local disk.
type Local struct {
	path  string
	stdin io.Reader
}

// NewLocal binds a Local source to path. The path "-" reads standard input.
func NewLocal(path string) *Local { return &Local{path: path, stdin: os.Stdin} }

// Path returns the configured path.
func (l *Local) Path() string { return l.path }

// Open returns the file for reading.
//
// A context that is already done short-circuits with its error. Filesystem
// errors are wrapped with the path and stay matchable with errors.Is (for
// example os.ErrNotExist). Directories are rejected up front so callers do not
// see a confusing read error later.
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.path == Stdin {
		return io.NopCloser(l.stdin), nil
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat %s: %w", l.path, err)
	}
	if fi.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("open %s: is a directory", l.path)
	}
	return f, nil
}

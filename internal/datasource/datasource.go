// Package datasource defines where raw input bytes come from. Implementations
// live in the file and httpds subpackages.
package datasource

import (
	"context"
	"io"
)

// Source opens a fresh stream of the input. The caller closes it.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Package datasource defines the contract between the pipeline and whatever
// supplies the raw catch/effort bytes. Implementations live in subpackages.
package datasource

import (
	"context"
	"io"
)

// Source supplies the raw input stream for one run.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

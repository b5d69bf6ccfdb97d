package ports

import (
	"context"
	"io"
)

type RestoreOptions struct {
	// Clean drops database objects before recreating them.
	Clean bool
}

// DatabaseDumper produces and consumes custom-format PostgreSQL archives.
type DatabaseDumper interface {
	Dump(ctx context.Context, w io.Writer) error
	Restore(ctx context.Context, r io.Reader, opts RestoreOptions) error
}

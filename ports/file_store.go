package ports

import (
	"context"
	"io"
)

// FileStore keeps uploaded attachments
type FileStore interface {
	// Save writes r under name and returns the number of bytes stored
	Save(ctx context.Context, name string, r io.Reader) (int64, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

package object

import (
	"context"
	"io"
)

// ObjectStore defines the contract for saving and retrieving binary objects.
// Keys are opaque to callers; only the metadata recorded alongside them is
// interpreted by the rest of the system.
type ObjectStore interface {
	Save(ctx context.Context, invitationCode string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}

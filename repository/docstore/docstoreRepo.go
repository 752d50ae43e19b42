package docstore

import (
	"context"
	"io"
)

// Client talks to the external blob store holding identity documents. The
// store is write-mostly from our side; documents are viewed through the
// returned public URL.
type Client interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (url string, err error)
}

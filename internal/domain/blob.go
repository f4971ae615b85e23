package domain

import (
	"context"
	"io"
)

// BlobWriter uploads objects to blob storage.
type BlobWriter interface {
	// Put uploads data to the given path with the given content type.
	Put(ctx context.Context, path string, data io.Reader, contentType string) error

	// PutMultipart uploads data in parts of partSize bytes. Implementations
	// may raise partSize to their backend's minimum. Intended for payloads
	// too large to buffer through a single Put.
	PutMultipart(ctx context.Context, path string, data io.Reader, partSize int64) error
}

// WagerArchiver writes a finalized wager and its final breakdown to
// long-term storage once the wager leaves the primary store's hot path.
type WagerArchiver interface {
	ArchiveWager(ctx context.Context, w Wager, b RoundRobinBreakdown) error
}

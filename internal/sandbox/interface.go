// Package sandbox defines the narrow contract the sync engine uses to talk
// to the execution environment's filesystem, and a local-directory
// implementation of it. The engine never assumes a listing is complete or
// that the sandbox is reachable; failures are classified through
// internal/errors so callers can react per kind.
package sandbox

import (
	"context"

	"workbench/pkg/types"
)

// Client is the file access surface of a sandbox. Implementations must
// return errors classified by internal/errors: IsUnreachable when the
// channel is down, IsNotFound when a path is missing, IsWriteRejected when
// a write is refused.
type Client interface {
	// List returns the current file listing of the sandbox. A returned
	// error means "no information", never "no files".
	List(ctx context.Context) ([]types.RemoteEntry, error)

	// Read returns the full content of the file at path.
	Read(ctx context.Context, path string) (string, error)

	// Write persists content to the file at path, creating it if needed.
	// On success it returns the modification stamp of the persisted
	// version when the sandbox can report it, or "" when it cannot; the
	// stamp lets the sync engine recognize its own write in the next
	// listing instead of flagging it as a remote change.
	Write(ctx context.Context, path string, content string) (string, error)

	// Delete removes the file at path. Best-effort cleanup; callers log
	// failures rather than treating them as fatal.
	Delete(ctx context.Context, path string) error
}

// Notifier is implemented by clients that can report out-of-band changes to
// the sandbox filesystem, letting the poller reconcile promptly instead of
// waiting for the next tick.
type Notifier interface {
	// Changes returns a channel that receives a signal whenever the
	// sandbox content may have changed. The channel is closed when the
	// client shuts down.
	Changes() <-chan struct{}
}

// Verify that DirClient implements Client and Notifier at compile time.
var (
	_ Client   = (*DirClient)(nil)
	_ Notifier = (*DirClient)(nil)
)

package types

import (
	"fmt"
	"path/filepath"
)

// RemoteEntry is one item of a sandbox directory listing: the path of a file
// together with the metadata the sandbox reports for it. It carries no
// content; content is pulled separately and only on demand.
type RemoteEntry struct {
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	ModStamp string `json:"mod_stamp"` // opaque modification stamp, compared by equality only
}

// Name returns the base name of the entry's path.
func (e *RemoteEntry) Name() string {
	return filepath.Base(e.Path)
}

// Valid reports whether the entry carries enough information to be merged.
// Listings from a live sandbox can contain partially-populated entries;
// those are skipped rather than failing the whole batch.
func (e *RemoteEntry) Valid() bool {
	return e.Path != ""
}

// String returns a human-readable representation.
func (e *RemoteEntry) String() string {
	return fmt.Sprintf("%s (%d bytes, stamp %s)", e.Path, e.Size, e.ModStamp)
}

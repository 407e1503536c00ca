package workspace

import (
	"workbench/internal/log"
	"workbench/pkg/types"

	"github.com/google/uuid"
)

// Reconcile merges a sandbox listing into the collection and reports
// whether anything changed, so callers can skip notification and re-render
// work after a no-op poll.
//
// The merge is deliberately asymmetric: entries present remotely update or
// create local entities, but a local entity whose path is absent from the
// listing is left untouched. Listings can be partial (mid-write races,
// directory creation races, truncated responses), so remote absence is
// never treated as authoritative. Removal happens only through an explicit
// Delete.
//
// Malformed entries are skipped and the rest of the batch still processes;
// an empty listing therefore mutates nothing.
func (w *Workspace) Reconcile(listing []types.RemoteEntry) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	changed := false
	skipped := 0

	for i := range listing {
		entry := &listing[i]
		if !entry.Valid() {
			skipped++
			continue
		}

		id, known := w.byPath[entry.Path]
		if !known {
			// A path we have never seen: track it as an unloaded
			// entity. Content stays empty until the loader pulls it.
			ent := &FileEntity{
				ID:              uuid.NewString(),
				Path:            entry.Path,
				RemoteSize:      entry.Size,
				RemoteModStamp:  entry.ModStamp,
				LastSyncedStamp: entry.ModStamp,
			}
			w.entities[ent.ID] = ent
			w.byPath[ent.Path] = ent.ID
			changed = true
			continue
		}

		ent := w.entities[id]
		outdated := entry.ModStamp != ent.LastSyncedStamp && !ent.Dirty
		if ent.RemoteSize != entry.Size || ent.RemoteModStamp != entry.ModStamp || ent.Outdated != outdated {
			ent.RemoteSize = entry.Size
			ent.RemoteModStamp = entry.ModStamp
			ent.Outdated = outdated
			changed = true
		}
	}

	if skipped > 0 {
		log.LogWithFields(log.F("skipped", skipped)).Warn("ignored malformed listing entries")
	}
	return changed
}

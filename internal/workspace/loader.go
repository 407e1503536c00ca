package workspace

import (
	"context"

	"workbench/internal/errors"
	"workbench/internal/sandbox"

	"golang.org/x/sync/singleflight"
)

// Loader pulls file content from the sandbox into entities on demand.
// Entities discovered by reconciliation start unloaded; the loader fills
// them in when the user first needs the content. It never overwrites an
// unsaved local edit, and it never retries on its own; retry cadence
// belongs to the caller.
type Loader struct {
	ws     *Workspace
	client sandbox.Client

	// Coalesces concurrent loads for the same entity into one fetch.
	sf singleflight.Group
}

// NewLoader creates a loader reading through the given client.
func NewLoader(ws *Workspace, client sandbox.Client) *Loader {
	return &Loader{ws: ws, client: client}
}

// Load returns the entity's content, fetching it from the sandbox when it
// has not been pulled yet or when force is set. A dirty entity is returned
// as-is without touching the sandbox, whatever force says. A successful
// pull counts as synchronization: it clears the outdated flag and advances
// the sync high-water mark to the stamp last observed for the entity.
func (l *Loader) Load(ctx context.Context, id string, force bool) (string, error) {
	ent, ok := l.ws.Get(id)
	if !ok {
		return "", errors.Newf("unknown entity: %s", id)
	}
	if ent.Dirty {
		// The local edit is the version of record.
		return ent.Content, nil
	}
	if ent.Loaded && !force {
		return ent.Content, nil
	}

	content, err, _ := l.sf.Do(id, func() (interface{}, error) {
		return l.fetch(ctx, id)
	})
	if err != nil {
		return "", err
	}
	return content.(string), nil
}

func (l *Loader) fetch(ctx context.Context, id string) (string, error) {
	ent, ok := l.ws.Get(id)
	if !ok {
		return "", errors.Newf("unknown entity: %s", id)
	}

	content, err := l.client.Read(ctx, ent.Path)
	if err != nil {
		// Entity stays unloaded in its last-known-good state.
		return "", err
	}

	l.ws.mu.Lock()
	defer l.ws.mu.Unlock()
	cur, ok := l.ws.entities[id]
	if !ok {
		// Deleted while the read was in flight.
		return content, nil
	}
	if cur.Dirty {
		// Edited while the read was in flight; the edit wins and the
		// fetched content is discarded.
		return cur.Content, nil
	}
	cur.Content = content
	cur.Loaded = true
	cur.Outdated = false
	cur.LastSyncedStamp = cur.RemoteModStamp
	return content, nil
}

// Package workspace implements the file-state synchronization core: the
// in-memory entity collection, reconciliation against sandbox listings,
// lazy content loading, and autosave write-back. The collection is the
// single source of truth for what the user sees and edits; the sandbox is
// an independently-mutable peer that is merged in, never trusted to be
// complete. Two rules hold everywhere: unsaved local edits are never
// silently discarded, and a file absent from a listing is never deleted
// locally because of that absence alone.
package workspace

import (
	"sort"
	"sync"

	"workbench/internal/errors"

	"github.com/google/uuid"
)

// FileEntity is the canonical in-memory record for one file.
type FileEntity struct {
	// ID is assigned at creation and never changes or gets reused.
	// Renames change Path, not ID.
	ID   string
	Path string

	// Content is the full text body. Meaningless until Loaded is true,
	// unless the entity was created locally.
	Content string

	// Dirty is true iff Content differs from the last known persisted
	// value.
	Dirty bool

	// Loaded is true iff Content reflects an actual pull from the
	// sandbox rather than a placeholder.
	Loaded bool

	// RemoteSize and RemoteModStamp are the last-observed sandbox
	// metadata. Used for change detection only, never for content.
	RemoteSize     int64
	RemoteModStamp string

	// LastSyncedStamp is the RemoteModStamp as of the last successful
	// synchronization for this entity.
	LastSyncedStamp string

	// Outdated is true when the sandbox has a newer version than what
	// was last synced and there is no unsaved local edit. Dirty always
	// wins: a dirty entity is never flagged outdated.
	Outdated bool
}

// Workspace holds the entity collection and the active-entity pointer.
// It is safe for concurrent use.
type Workspace struct {
	mu       sync.RWMutex
	entities map[string]*FileEntity // keyed by ID
	byPath   map[string]string      // path -> ID
	activeID string

	autosave *Scheduler
}

// New creates an empty workspace.
func New() *Workspace {
	return &Workspace{
		entities: make(map[string]*FileEntity),
		byPath:   make(map[string]string),
	}
}

// AttachAutosave connects an autosave scheduler. Edit and SetActive report
// their triggers to it. Must be called before editing begins.
func (w *Workspace) AttachAutosave(s *Scheduler) {
	w.mu.Lock()
	w.autosave = s
	w.mu.Unlock()
}

// NewFile creates an entity for a file that does not exist in the sandbox
// yet. The new entity starts dirty so the autosave machinery persists it.
func (w *Workspace) NewFile(path string, content string) (FileEntity, error) {
	if path == "" {
		return FileEntity{}, errors.New("file path must not be empty")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.byPath[path]; exists {
		return FileEntity{}, errors.Newf("file already exists: %s", path)
	}

	ent := &FileEntity{
		ID:      uuid.NewString(),
		Path:    path,
		Content: content,
		Dirty:   true,
		Loaded:  true,
	}
	w.entities[ent.ID] = ent
	w.byPath[path] = ent.ID
	return *ent, nil
}

// Get returns a copy of the entity with the given ID.
func (w *Workspace) Get(id string) (FileEntity, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ent, ok := w.entities[id]
	if !ok {
		return FileEntity{}, false
	}
	return *ent, true
}

// GetByPath returns a copy of the entity with the given path.
func (w *Workspace) GetByPath(path string) (FileEntity, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	id, ok := w.byPath[path]
	if !ok {
		return FileEntity{}, false
	}
	return *w.entities[id], true
}

// Files returns copies of all entities, ordered by path.
func (w *Workspace) Files() []FileEntity {
	w.mu.RLock()
	defer w.mu.RUnlock()

	files := make([]FileEntity, 0, len(w.entities))
	for _, ent := range w.entities {
		files = append(files, *ent)
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return files
}

// Len returns the number of entities.
func (w *Workspace) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.entities)
}

// Active returns a copy of the active entity, if any.
func (w *Workspace) Active() (FileEntity, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.activeID == "" {
		return FileEntity{}, false
	}
	ent, ok := w.entities[w.activeID]
	if !ok {
		return FileEntity{}, false
	}
	return *ent, true
}

// ActiveID returns the ID of the active entity, or "" when none is active.
func (w *Workspace) ActiveID() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.activeID
}

// Edit replaces the entity's content with a local, unsaved version. The
// entity becomes dirty and its outdated flag drops: a local edit always
// takes primacy over remote staleness signaling.
func (w *Workspace) Edit(id string, content string) error {
	w.mu.Lock()
	ent, ok := w.entities[id]
	if !ok {
		w.mu.Unlock()
		return errors.Newf("unknown entity: %s", id)
	}
	ent.Content = content
	ent.Dirty = true
	ent.Outdated = false
	isActive := w.activeID == id
	autosave := w.autosave
	w.mu.Unlock()

	if isActive && autosave != nil {
		autosave.noteEdit(id)
	}
	return nil
}

// SetActive moves the active pointer to the given entity, or clears it when
// id is "". Moving away from a dirty entity triggers an immediate write for
// that entity; any pending debounce is cancelled either way.
func (w *Workspace) SetActive(id string) error {
	w.mu.Lock()
	if id != "" {
		if _, ok := w.entities[id]; !ok {
			w.mu.Unlock()
			return errors.Newf("unknown entity: %s", id)
		}
	}
	prevID := w.activeID
	w.activeID = id

	prevDirty := false
	if prevID != "" && prevID != id {
		if prev, ok := w.entities[prevID]; ok {
			prevDirty = prev.Dirty
		}
	}
	autosave := w.autosave
	w.mu.Unlock()

	if autosave != nil && prevID != id {
		autosave.noteSwitch(prevID, prevDirty)
	}
	return nil
}

// Rename changes the entity's path. The ID stays, so edits, dirtiness, and
// sync metadata carry over.
func (w *Workspace) Rename(id string, newPath string) error {
	if newPath == "" {
		return errors.New("file path must not be empty")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	ent, ok := w.entities[id]
	if !ok {
		return errors.Newf("unknown entity: %s", id)
	}
	if other, exists := w.byPath[newPath]; exists && other != id {
		return errors.Newf("file already exists: %s", newPath)
	}
	delete(w.byPath, ent.Path)
	ent.Path = newPath
	w.byPath[newPath] = id
	return nil
}

// Delete removes the entity. This is the only way an entity leaves the
// collection; reconciliation never removes entities. Deleting the active
// entity clears the active pointer.
func (w *Workspace) Delete(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	ent, ok := w.entities[id]
	if !ok {
		return errors.Newf("unknown entity: %s", id)
	}
	delete(w.byPath, ent.Path)
	delete(w.entities, id)
	if w.activeID == id {
		w.activeID = ""
	}
	return nil
}

package workspace

import (
	"context"
	"sync"
	"time"

	"workbench/internal/config"
	"workbench/internal/errors"
	"workbench/internal/log"
	"workbench/internal/sandbox"
)

// Scheduler owns the autosave write-back policy for one workspace.
//
// Three triggers lead to a write: the debounce timer expiring after an idle
// period on a dirty active entity, the active pointer switching away from a
// dirty entity, and teardown. At most one write is in flight at any time
// for the whole workspace; a trigger that arrives while a write is running
// is dropped, and the next trigger re-evaluates dirtiness. A write that
// fails leaves the entity dirty, which is the retry signal: the next idle
// period attempts it again.
//
// The debounce timer is an explicit handle owned here. It is cancelled and
// restarted by edits, superseded by a switch trigger, and stopped at
// teardown.
type Scheduler struct {
	ws     *Workspace
	client sandbox.Client

	debounce        time.Duration
	teardownTimeout time.Duration

	mu       sync.Mutex
	timer    *time.Timer
	inFlight bool
	closed   bool
}

// NewScheduler creates a scheduler writing through the given client, with
// timing taken from cfg. Attach it to the workspace with AttachAutosave.
func NewScheduler(ws *Workspace, client sandbox.Client, cfg *config.Config) *Scheduler {
	return &Scheduler{
		ws:              ws,
		client:          client,
		debounce:        time.Duration(cfg.Sync.DebounceSeconds) * time.Second,
		teardownTimeout: time.Duration(cfg.Sync.TeardownTimeout) * time.Second,
	}
}

// noteEdit (re)starts the debounce timer for the active entity. Called by
// Workspace.Edit for every edit of the active entity, so a steady stream of
// edits keeps pushing the save out until a quiet period.
func (s *Scheduler) noteEdit(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.stopTimerLocked()
	s.timer = time.AfterFunc(s.debounce, func() {
		s.debounceExpired(id)
	})
}

// noteSwitch handles the active pointer moving away from prevID. Any
// pending debounce belonged to the previous entity and is cancelled; if
// that entity is dirty it is written immediately rather than waiting out
// a timer that no longer applies.
func (s *Scheduler) noteSwitch(prevID string, prevDirty bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.stopTimerLocked()
	if prevID == "" || !prevDirty {
		return
	}
	s.attemptLocked(prevID)
}

// debounceExpired fires when the idle period elapsed with no further edit.
func (s *Scheduler) debounceExpired(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.timer = nil
	if s.ws.ActiveID() != id {
		// A switch has superseded this timer; the switch trigger
		// already dealt with the entity.
		return
	}
	s.attemptLocked(id)
}

// attemptLocked starts a write for the entity if one can start now.
// Callers must hold s.mu. Dropping rather than queueing when a write is
// already in flight keeps write order trivially serial; dirtiness is
// re-evaluated by whichever trigger comes next.
func (s *Scheduler) attemptLocked(id string) {
	if s.inFlight {
		log.Debugf("autosave already in flight, dropping trigger for %s", id)
		return
	}
	ent, ok := s.ws.Get(id)
	if !ok || !ent.Dirty {
		return
	}

	s.inFlight = true
	path, content := ent.Path, ent.Content
	go func() {
		stamp, err := s.client.Write(context.Background(), path, content)
		s.complete(id, content, stamp, err)
	}()
}

// complete finishes a write: on success the entity is marked clean, unless
// it was edited again while the write was in flight, in which case the
// newer content stays dirty and a later trigger persists it.
func (s *Scheduler) complete(id string, written string, stamp string, err error) {
	s.mu.Lock()
	s.inFlight = false
	closed := s.closed
	s.mu.Unlock()

	if err != nil {
		if errors.IsUnreachable(err) {
			// Not an error worth shouting about: the entity stays
			// dirty and a natural future trigger retries.
			log.Debugf("autosave deferred, sandbox unreachable: %v", err)
		} else {
			log.LogWithFields(log.F("entity", id)).Warnf("autosave failed: %v", err)
		}
	} else {
		s.applyWrite(id, written, stamp)
	}

	if closed {
		return
	}
	// If the entity is still (or again) dirty and still active, re-arm
	// the idle timer so the next quiet period retries exactly once.
	if ent, ok := s.ws.Get(id); ok && ent.Dirty && s.ws.ActiveID() == id {
		s.noteEdit(id)
	}
}

// applyWrite records a successful persist on the entity. Dirty clears only
// when the content is still byte-identical to what was written; an edit
// that raced the write must not be marked saved.
func (s *Scheduler) applyWrite(id string, written string, stamp string) {
	s.ws.mu.Lock()
	defer s.ws.mu.Unlock()

	ent, ok := s.ws.entities[id]
	if !ok {
		return
	}
	if ent.Content != written {
		return
	}
	ent.Dirty = false
	ent.Outdated = false
	if stamp != "" {
		ent.LastSyncedStamp = stamp
	} else {
		ent.LastSyncedStamp = ent.RemoteModStamp
	}
}

// Close performs teardown: the debounce timer stops, no further triggers
// are accepted, and the active entity gets one best-effort write attempt if
// it is dirty. The attempt is bounded by the teardown timeout and carries
// no completion guarantee; if a write is already in flight, it is left to
// finish or fail on its own and no new attempt starts.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.stopTimerLocked()
	if s.inFlight {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	activeID := s.ws.ActiveID()
	if activeID == "" {
		return
	}
	ent, ok := s.ws.Get(activeID)
	if !ok || !ent.Dirty {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.teardownTimeout)
	defer cancel()
	stamp, err := s.client.Write(ctx, ent.Path, ent.Content)
	if err != nil {
		log.Debugf("teardown save failed for %s: %v", ent.Path, err)
		return
	}
	s.applyWrite(activeID, ent.Content, stamp)
}

// stopTimerLocked cancels a pending debounce timer. Callers must hold s.mu.
func (s *Scheduler) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

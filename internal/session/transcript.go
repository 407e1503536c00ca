// Package session implements the interactive session transcript: a bounded
// terminal-style log of command and output lines, plus command-history
// recall. The visible line buffer and the command history are independent
// pieces of state; clearing the screen does not forget past commands.
package session

import (
	"sync"

	"workbench/internal/config"
	"workbench/pkg/types"
)

// Direction selects where history navigation moves.
type Direction int

const (
	// Up moves one step toward older commands.
	Up Direction = iota
	// Down moves one step back toward the in-progress input.
	Down
)

// notBrowsing is the cursor value meaning "not navigating history"; the
// staging buffer holds whatever the user is currently typing.
const notBrowsing = -1

// Transcript is the session log. It is safe for concurrent use.
type Transcript struct {
	mu sync.RWMutex

	// Ring buffer of visible lines, oldest evicted first.
	lines    []types.SessionLine
	start    int
	count    int
	capacity int

	// Issued commands, most recent first.
	commands   []string
	historyCap int
	cursor     int
	staging    string
}

// New creates an empty transcript with capacities from cfg.
func New(cfg *config.Config) *Transcript {
	return &Transcript{
		lines:      make([]types.SessionLine, cfg.Session.TranscriptCapacity),
		capacity:   cfg.Session.TranscriptCapacity,
		historyCap: cfg.Session.HistoryCapacity,
		cursor:     notBrowsing,
	}
}

// Append pushes a line onto the buffer, evicting the oldest line once the
// capacity is reached.
func (t *Transcript) Append(line types.SessionLine) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.appendLocked(line)
}

func (t *Transcript) appendLocked(line types.SessionLine) {
	if t.count < t.capacity {
		t.lines[(t.start+t.count)%t.capacity] = line
		t.count++
		return
	}
	t.lines[t.start] = line
	t.start = (t.start + 1) % t.capacity
}

// Lines returns the visible lines in order, oldest first.
func (t *Transcript) Lines() []types.SessionLine {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]types.SessionLine, t.count)
	for i := 0; i < t.count; i++ {
		out[i] = t.lines[(t.start+i)%t.capacity]
	}
	return out
}

// Len returns the number of visible lines.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.count
}

// Clear replaces the visible buffer with a single system marker line. The
// command history deliberately survives: "clear screen" is not "clear
// memory".
func (t *Transcript) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.start = 0
	t.count = 0
	t.appendLocked(types.SessionLine{Kind: types.LineSystem, Text: "session cleared"})
}

// RecordCommand adds an issued command to the history and leaves history
// browsing mode. Empty commands are not recorded.
func (t *Transcript) RecordCommand(text string) {
	if text == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	t.commands = append([]string{text}, t.commands...)
	if len(t.commands) > t.historyCap {
		t.commands = t.commands[:t.historyCap]
	}
	t.cursor = notBrowsing
	t.staging = ""
}

// CommandHistory returns the issued commands, most recent first.
func (t *Transcript) CommandHistory() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, len(t.commands))
	copy(out, t.commands)
	return out
}

// SetStaging stores the in-progress input so it can be restored when the
// user navigates back down past the most recent command.
func (t *Transcript) SetStaging(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.staging = text
}

// Staging returns the in-progress input buffer.
func (t *Transcript) Staging() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.staging
}

// Navigate moves the history cursor one step and returns the text the
// input line should now show. Up walks toward older commands and clamps at
// the oldest; Down walks toward newer and, past the most recent command,
// returns the staging buffer. Navigation never mutates the command list.
func (t *Transcript) Navigate(dir Direction) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch dir {
	case Up:
		if len(t.commands) == 0 {
			return t.staging
		}
		if t.cursor < len(t.commands)-1 {
			t.cursor++
		}
		return t.commands[t.cursor]
	case Down:
		if t.cursor > notBrowsing {
			t.cursor--
		}
		if t.cursor == notBrowsing {
			return t.staging
		}
		return t.commands[t.cursor]
	}
	return t.staging
}

// Browsing reports whether the user is currently navigating history.
func (t *Transcript) Browsing() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cursor != notBrowsing
}

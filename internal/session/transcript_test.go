package session_test

import (
	"fmt"
	"testing"

	"workbench/internal/config"
	"workbench/internal/session"
	"workbench/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTranscript(lineCap, histCap int) *session.Transcript {
	cfg := config.New()
	cfg.Session.TranscriptCapacity = lineCap
	cfg.Session.HistoryCapacity = histCap
	return session.New(cfg)
}

func outputLine(text string) types.SessionLine {
	return types.SessionLine{Kind: types.LineOutput, Text: text}
}

func TestAppendEvictsOldestAtCapacity(t *testing.T) {
	tr := newTranscript(500, 100)

	for i := 0; i < 501; i++ {
		tr.Append(outputLine(fmt.Sprintf("line %d", i)))
	}

	lines := tr.Lines()
	require.Len(t, lines, 500, "the buffer never exceeds its capacity")
	assert.Equal(t, "line 1", lines[0].Text, "the oldest line was evicted")
	assert.Equal(t, "line 500", lines[499].Text)
}

func TestAppendKeepsOrder(t *testing.T) {
	tr := newTranscript(3, 100)

	tr.Append(outputLine("a"))
	tr.Append(outputLine("b"))
	require.Equal(t, 2, tr.Len())

	tr.Append(outputLine("c"))
	tr.Append(outputLine("d"))
	tr.Append(outputLine("e"))

	lines := tr.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, "c", lines[0].Text)
	assert.Equal(t, "d", lines[1].Text)
	assert.Equal(t, "e", lines[2].Text)
}

func TestClearLeavesSingleSystemMarker(t *testing.T) {
	tr := newTranscript(500, 100)
	tr.Append(outputLine("some output"))
	tr.RecordCommand("ls")
	tr.RecordCommand("cat a.py")

	tr.Clear()

	lines := tr.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, types.LineSystem, lines[0].Kind)

	assert.Len(t, tr.CommandHistory(), 2, "clearing the screen must not clear command memory")
}

func TestRecordCommandCapsHistory(t *testing.T) {
	tr := newTranscript(500, 3)

	for i := 0; i < 5; i++ {
		tr.RecordCommand(fmt.Sprintf("cmd %d", i))
	}

	history := tr.CommandHistory()
	require.Len(t, history, 3)
	assert.Equal(t, "cmd 4", history[0], "most recent first")
	assert.Equal(t, "cmd 2", history[2])

	tr.RecordCommand("")
	assert.Len(t, tr.CommandHistory(), 3, "empty commands are not recorded")
}

func TestNavigateClampsAtOldest(t *testing.T) {
	tr := newTranscript(500, 100)
	tr.RecordCommand("first")
	tr.RecordCommand("second")
	tr.RecordCommand("third")

	assert.Equal(t, "third", tr.Navigate(session.Up))
	assert.Equal(t, "second", tr.Navigate(session.Up))
	assert.Equal(t, "first", tr.Navigate(session.Up))

	// Past the oldest: further ups are idempotent, no index overflow.
	for i := 0; i < 10; i++ {
		assert.Equal(t, "first", tr.Navigate(session.Up))
	}

	assert.Len(t, tr.CommandHistory(), 3, "navigation never mutates the command list")
}

func TestNavigateDownReturnsStagingBuffer(t *testing.T) {
	tr := newTranscript(500, 100)
	tr.RecordCommand("older")
	tr.RecordCommand("newer")
	tr.SetStaging("half-typed input")

	assert.Equal(t, "newer", tr.Navigate(session.Up))
	assert.Equal(t, "older", tr.Navigate(session.Up))
	assert.Equal(t, "newer", tr.Navigate(session.Down))
	assert.Equal(t, "half-typed input", tr.Navigate(session.Down))
	assert.False(t, tr.Browsing())

	// Clamped at the staging buffer; down does not wrap.
	assert.Equal(t, "half-typed input", tr.Navigate(session.Down))
}

func TestNavigateUpWithEmptyHistory(t *testing.T) {
	tr := newTranscript(500, 100)
	tr.SetStaging("typing")

	assert.Equal(t, "typing", tr.Navigate(session.Up))
	assert.False(t, tr.Browsing())
}

func TestRecordCommandResetsCursor(t *testing.T) {
	tr := newTranscript(500, 100)
	tr.RecordCommand("one")
	tr.RecordCommand("two")

	tr.Navigate(session.Up)
	tr.Navigate(session.Up)
	require.True(t, tr.Browsing())

	tr.RecordCommand("three")
	assert.False(t, tr.Browsing())
	assert.Equal(t, "three", tr.Navigate(session.Up), "navigation restarts from the most recent command")
}

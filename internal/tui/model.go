// Package tui is the interactive harness over the sync core: a file pane
// showing entity state (dirty and outdated markers), a session transcript
// pane, and a command line with history recall. It drives the core only
// through its public surface; all sync behavior lives in the workspace
// packages.
package tui

import (
	"context"
	"fmt"
	"strings"

	"workbench/internal/sandbox"
	"workbench/internal/session"
	"workbench/internal/workspace"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// RefreshMsg asks the model to re-read workspace state. The poller's
// change callback sends it whenever reconciliation changed something.
type RefreshMsg struct{}

// loadedMsg reports a finished content load for the newly active file.
type loadedMsg struct {
	id  string
	err error
}

// Model is the bubbletea model for the workbench session.
type Model struct {
	ws         *workspace.Workspace
	loader     *workspace.Loader
	transcript *session.Transcript
	client     sandbox.Client

	files  []workspace.FileEntity
	cursor int

	input          textinput.Model
	transcriptView viewport.Model
	inputFocused   bool

	width  int
	height int
	ready  bool

	statusMsg string
}

// New creates the session model.
func New(ws *workspace.Workspace, loader *workspace.Loader, transcript *session.Transcript, client sandbox.Client) *Model {
	input := textinput.New()
	input.Placeholder = "command (try: help)"
	input.Prompt = "> "
	input.Focus()

	return &Model{
		ws:           ws,
		loader:       loader,
		transcript:   transcript,
		client:       client,
		input:        input,
		inputFocused: true,
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	m.refresh()
	return textinput.Blink
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.transcriptView = viewport.New(msg.Width-filePaneWidth-6, msg.Height-5)
		m.ready = true
		m.renderTranscript()
		return m, nil

	case RefreshMsg:
		m.refresh()
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("load failed: %v", msg.err)
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.inputFocused = !m.inputFocused
		if m.inputFocused {
			m.input.Focus()
		} else {
			m.input.Blur()
		}
		return m, nil
	}

	if m.inputFocused {
		return m.handleInputKeys(msg)
	}
	return m.handleFilePaneKeys(msg)
}

// handleInputKeys routes keys to the command line. Up and down walk the
// command history; anything the user was mid-typing is parked in the
// staging buffer and comes back when they navigate past the newest entry.
func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up":
		if !m.transcript.Browsing() {
			m.transcript.SetStaging(m.input.Value())
		}
		m.input.SetValue(m.transcript.Navigate(session.Up))
		m.input.CursorEnd()
		return m, nil
	case "down":
		m.input.SetValue(m.transcript.Navigate(session.Down))
		m.input.CursorEnd()
		return m, nil
	case "enter":
		text := strings.TrimSpace(m.input.Value())
		m.input.SetValue("")
		if text == "" {
			return m, nil
		}
		cmd := m.runCommand(text)
		m.refresh()
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleFilePaneKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.files)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if m.cursor < len(m.files) {
			return m, m.activateFile(m.files[m.cursor].ID)
		}
	}
	return m, nil
}

// activateFile switches the active pointer (which may trigger an immediate
// autosave of the previous file) and kicks off a content load for the new
// one.
func (m *Model) activateFile(id string) tea.Cmd {
	if err := m.ws.SetActive(id); err != nil {
		m.statusMsg = err.Error()
		return nil
	}
	m.refresh()
	loader := m.loader
	return func() tea.Msg {
		_, err := loader.Load(context.Background(), id, false)
		return loadedMsg{id: id, err: err}
	}
}

// refresh re-reads workspace state into the view.
func (m *Model) refresh() {
	m.files = m.ws.Files()
	if m.cursor >= len(m.files) {
		m.cursor = len(m.files) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.renderTranscript()
}

const filePaneWidth = 32

// View implements tea.Model
func (m *Model) View() string {
	if !m.ready {
		return "loading..."
	}

	filePane := PaneStyle.Width(filePaneWidth).Render(m.renderFilePane())
	sessionPane := PaneStyle.Render(m.transcriptView.View() + "\n" + m.input.View())
	panes := lipgloss.JoinHorizontal(lipgloss.Top, filePane, sessionPane)

	return panes + "\n" + m.renderStatusBar()
}

func (m *Model) renderFilePane() string {
	var s strings.Builder
	s.WriteString(TitleStyle.Render("Files") + "\n")

	if len(m.files) == 0 {
		s.WriteString(StatusStyle.Render("no files yet"))
		return s.String()
	}

	activeID := m.ws.ActiveID()
	for i, f := range m.files {
		marker := "  "
		if f.Dirty {
			marker = DirtyStyle.Render("* ")
		} else if f.Outdated {
			marker = OutdatedStyle.Render("! ")
		}

		name := f.Path
		if f.ID == activeID {
			name = name + " (active)"
		}

		line := marker + name
		if i == m.cursor && !m.inputFocused {
			line = SelectedStyle.Render(line)
		}
		s.WriteString(line + "\n")
	}
	return s.String()
}

func (m *Model) renderTranscript() {
	if !m.ready {
		return
	}
	var s strings.Builder
	for _, line := range m.transcript.Lines() {
		s.WriteString(renderLine(line) + "\n")
	}
	m.transcriptView.SetContent(s.String())
	m.transcriptView.GotoBottom()
}

func (m *Model) renderStatusBar() string {
	active, ok := m.ws.Active()
	status := "no active file"
	if ok {
		flags := ""
		if active.Dirty {
			flags = " [modified]"
		} else if active.Outdated {
			flags = " [outdated]"
		}
		status = active.Path + flags
	}
	if m.statusMsg != "" {
		status = status + "  |  " + m.statusMsg
	}
	return StatusStyle.Render(status)
}

package tui

import (
	"context"
	"fmt"
	"strings"

	"workbench/internal/log"
	"workbench/pkg/types"

	tea "github.com/charmbracelet/bubbletea"
)

// runCommand executes one command line: echo it into the transcript,
// record it for history recall, then dispatch. Commands here only drive
// the workspace surface; they do not execute anything in the sandbox.
func (m *Model) runCommand(text string) tea.Cmd {
	m.transcript.Append(types.SessionLine{Kind: types.LineCommand, Text: text})
	m.transcript.RecordCommand(text)

	fields := strings.Fields(text)
	name, args := fields[0], fields[1:]

	switch name {
	case "help":
		m.output("commands: ls, open <path>, new <path>, append <text>, rm <path>, clear, help")
	case "ls":
		m.commandList()
	case "open":
		if len(args) != 1 {
			m.outputError("usage: open <path>")
			break
		}
		return m.commandOpen(args[0])
	case "new":
		if len(args) != 1 {
			m.outputError("usage: new <path>")
			break
		}
		m.commandNew(args[0])
	case "append":
		if len(args) == 0 {
			m.outputError("usage: append <text>")
			break
		}
		m.commandAppend(strings.Join(args, " "))
	case "rm":
		if len(args) != 1 {
			m.outputError("usage: rm <path>")
			break
		}
		m.commandRemove(args[0])
	case "clear":
		m.transcript.Clear()
	default:
		m.outputError(fmt.Sprintf("unknown command: %s", name))
	}
	return nil
}

func (m *Model) commandList() {
	files := m.ws.Files()
	if len(files) == 0 {
		m.output("no files")
		return
	}
	for _, f := range files {
		flags := ""
		if f.Dirty {
			flags = " *"
		} else if f.Outdated {
			flags = " !"
		}
		m.output(fmt.Sprintf("%s%s", f.Path, flags))
	}
}

func (m *Model) commandOpen(path string) tea.Cmd {
	ent, ok := m.ws.GetByPath(path)
	if !ok {
		m.outputError(fmt.Sprintf("no such file: %s", path))
		return nil
	}
	return m.activateFile(ent.ID)
}

func (m *Model) commandNew(path string) {
	ent, err := m.ws.NewFile(path, "")
	if err != nil {
		m.outputError(err.Error())
		return
	}
	if err := m.ws.SetActive(ent.ID); err != nil {
		m.outputError(err.Error())
		return
	}
	m.output(fmt.Sprintf("created %s", path))
}

func (m *Model) commandAppend(text string) {
	active, ok := m.ws.Active()
	if !ok {
		m.outputError("no active file")
		return
	}
	if err := m.ws.Edit(active.ID, active.Content+text+"\n"); err != nil {
		m.outputError(err.Error())
		return
	}
	m.output(fmt.Sprintf("appended to %s", active.Path))
}

func (m *Model) commandRemove(path string) {
	ent, ok := m.ws.GetByPath(path)
	if !ok {
		m.outputError(fmt.Sprintf("no such file: %s", path))
		return
	}
	if err := m.ws.Delete(ent.ID); err != nil {
		m.outputError(err.Error())
		return
	}
	// Remote removal is best-effort cleanup; a failure leaves a stray
	// file in the sandbox, not an inconsistent workspace.
	if err := m.client.Delete(context.Background(), path); err != nil {
		log.Warnf("sandbox delete failed for %s: %v", path, err)
	}
	m.output(fmt.Sprintf("removed %s", path))
}

func (m *Model) output(text string) {
	m.transcript.Append(types.SessionLine{Kind: types.LineOutput, Text: text})
}

func (m *Model) outputError(text string) {
	m.transcript.Append(types.SessionLine{Kind: types.LineError, Text: text})
}

// renderLine renders a transcript line with the style of its kind.
func renderLine(line types.SessionLine) string {
	switch line.Kind {
	case types.LineCommand:
		return CommandStyle.Render("> " + line.Text)
	case types.LineError:
		return ErrorStyle.Render(line.Text)
	case types.LineSystem:
		return SystemStyle.Render("-- " + line.Text + " --")
	default:
		return line.Text
	}
}

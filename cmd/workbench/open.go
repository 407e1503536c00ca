package main

import (
	"fmt"

	"workbench/internal/config"
	"workbench/internal/sandbox"
	"workbench/internal/session"
	"workbench/internal/tui"
	"workbench/internal/watch"
	"workbench/internal/workspace"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// NewOpenCmd creates the open command, which runs the interactive session.
func NewOpenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open",
		Short: "Open an interactive session on the sandbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cfg)
		},
	}
}

// runSession wires the subsystem together for one session: sandbox client,
// workspace, loader, autosave scheduler, poller, transcript, and the TUI on
// top. Everything is torn down when the TUI exits; teardown includes one
// best-effort save of the active file.
func runSession(cfg *config.Config) error {
	client, err := sandbox.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to open sandbox: %w", err)
	}
	defer client.Close()

	ws := workspace.New()
	loader := workspace.NewLoader(ws, client)
	scheduler := workspace.NewScheduler(ws, client, cfg)
	ws.AttachAutosave(scheduler)
	defer scheduler.Close()

	transcript := session.New(cfg)

	poller := watch.NewPoller(ws, client, cfg)
	if err := poller.Start(); err != nil {
		return err
	}
	defer poller.Stop()

	model := tui.New(ws, loader, transcript, client)
	program := tea.NewProgram(model, tea.WithAltScreen())
	poller.SetOnChange(func() {
		program.Send(tui.RefreshMsg{})
	})

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("session ended with error: %w", err)
	}
	return nil
}

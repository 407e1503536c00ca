package main

import (
	"fmt"

	"workbench/internal/sandbox"
	"workbench/internal/watch"
	"workbench/internal/workspace"

	"github.com/spf13/cobra"
)

// NewSyncCmd creates the sync command: one reconciliation pass against the
// sandbox, reporting what it found.
func NewSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run a single reconciliation pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := sandbox.New(cfg)
			if err != nil {
				return fmt.Errorf("failed to open sandbox: %w", err)
			}
			defer client.Close()

			ws := workspace.New()
			poller := watch.NewPoller(ws, client, cfg)

			poller.PollNow()
			status := poller.Status()
			if status.Failures > 0 {
				return fmt.Errorf("sandbox unavailable at %s", client.Root())
			}

			fmt.Printf("reconciled %d files from %s\n", ws.Len(), client.Root())
			for _, f := range ws.Files() {
				flag := " "
				if f.Outdated {
					flag = "!"
				}
				fmt.Printf("  %s %-40s %8d  %s\n", flag, f.Path, f.RemoteSize, f.RemoteModStamp)
			}
			return nil
		},
	}
}

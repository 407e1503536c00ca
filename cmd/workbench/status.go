package main

import (
	"context"
	"fmt"

	"workbench/internal/sandbox"
	"workbench/internal/workspace"

	"github.com/spf13/cobra"
)

// NewStatusCmd creates the status command, a one-shot listing of the
// sandbox as the sync engine sees it.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the sandbox file listing",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := sandbox.New(cfg)
			if err != nil {
				return fmt.Errorf("failed to open sandbox: %w", err)
			}
			defer client.Close()

			listing, err := client.List(context.Background())
			if err != nil {
				return fmt.Errorf("sandbox unavailable: %w", err)
			}

			ws := workspace.New()
			ws.Reconcile(listing)

			files := ws.Files()
			if len(files) == 0 {
				fmt.Println("sandbox is empty")
				return nil
			}

			fmt.Printf("%d files in %s\n\n", len(files), client.Root())
			for _, f := range files {
				fmt.Printf("  %-40s %8d  %s\n", f.Path, f.RemoteSize, f.RemoteModStamp)
			}
			return nil
		},
	}
}

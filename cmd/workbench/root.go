package main

import (
	"fmt"

	"workbench/internal/config"
	"workbench/internal/log"

	"github.com/spf13/cobra"
)

var (
	cfgFile     string
	sandboxRoot string
	debug       bool
	cfg         *config.Config
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "workbench",
		Short: "A project workspace synced with a sandbox filesystem",
		Long: `Workbench keeps an editable in-memory view of a project's files in
sync with a sandbox filesystem. Local edits are autosaved back after an
idle period or when you switch files, and changes made inside the sandbox
are surfaced without ever clobbering unsaved work.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetDebug(debug)

			var configErr error
			if cfgFile != "" {
				cfg, configErr = config.LoadConfigFile(cfgFile)
			} else {
				cfg, configErr = config.LoadConfig()
			}
			if configErr != nil {
				fmt.Printf("warning: %v\n", configErr)
				fmt.Println("using default settings")
				cfg = config.New()
			}

			if sandboxRoot != "" {
				cfg.Sandbox.Root = sandboxRoot
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/workbench/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&sandboxRoot, "sandbox", "", "sandbox root directory (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(NewOpenCmd())
	rootCmd.AddCommand(NewStatusCmd())
	rootCmd.AddCommand(NewSyncCmd())

	return rootCmd
}

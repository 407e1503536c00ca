package main

import (
	"os"
)

var (
	version = "dev"
)

// Entry point for the application
func main() {
	rootCmd := NewRootCmd()
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

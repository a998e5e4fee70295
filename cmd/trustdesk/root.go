package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "trustdesk",
	Short: "Trustdesk - compliance document-management service",
	Long: `Trustdesk is Paythru's compliance document-management service.

It provides:
  - A registry of compliance documents, risks, controls, assets, and suppliers
  - An append-only audit trail of every registry mutation
  - A public trust center portal for published documents and artifacts
  - Scheduled review sweeps and audit retention`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

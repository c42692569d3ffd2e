package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "clippy-sidecar",
	Short: "Clippy sidecar process",
	Long:  "Clippy sidecar — the local agent process behind the Clippy desktop clipboard assistant: archival memory, Grok-backed chat and vision, and tool-call delegation to the host app.",
}

func Execute() error {
	return rootCmd.Execute()
}

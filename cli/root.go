// Package cli implements the giftwise commands.
package cli

import (
	"github.com/spf13/cobra"
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "giftwise",
	Short: "Conversational gift planning assistant",
	Long: "Tracks gift recipients, occasions, and budgets through an LLM-driven\n" +
		"tool-calling assistant. Sessions are in-memory and ephemeral by design.",
}

func init() {
	RootCmd.AddCommand(serveCmd)
	RootCmd.AddCommand(menuCmd)
}

package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/templui/goalnudge/cmd/nudge/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "nudge",
		Short:         "Operator tools for the goal nudge service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.TriggerCmd())
	rootCmd.AddCommand(cmd.ReplyCmd())
	rootCmd.AddCommand(cmd.UserCmd())
	rootCmd.AddCommand(cmd.ObjectiveCmd())
	rootCmd.AddCommand(cmd.StepCmd())
	rootCmd.AddCommand(cmd.HistoryCmd())
	rootCmd.AddCommand(cmd.TokenCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

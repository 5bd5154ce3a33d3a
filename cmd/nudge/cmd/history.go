package cmd

import (
	"github.com/spf13/cobra"
	"github.com/templui/goalnudge/internal/app"
)

func HistoryCmd() *cobra.Command {
	var limit int

	c := &cobra.Command{
		Use:   "history <user-id>",
		Short: "Show a user's recent nudges and how they were answered",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				actions, err := a.NudgeService.History(cmd.Context(), args[0], limit)
				if err != nil {
					return err
				}
				return printJSON(actions)
			})
		},
	}

	c.Flags().IntVar(&limit, "limit", 20, "number of entries")

	return c
}

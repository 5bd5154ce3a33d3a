package cmd

import (
	"github.com/spf13/cobra"
	"github.com/templui/goalnudge/internal/app"
)

func ReplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reply <user-id> <text>",
		Short: "Process a reply as if the user had sent it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				result := a.ReplyService.HandleReply(cmd.Context(), args[0], args[1])
				return printJSON(result)
			})
		},
	}
}

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/templui/goalnudge/internal/app"
	"github.com/templui/goalnudge/internal/model"
)

func TriggerCmd() *cobra.Command {
	var (
		slotIndex int
		userIDs   []string
	)

	c := &cobra.Command{
		Use:       "trigger <morning|midday|evening>",
		Short:     "Build and deliver the nudge for a slot",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"morning", "midday", "evening"},
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := model.ParseSlot(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("index") {
				slotIndex = slot.Index()
			}

			return withApp(cmd, func(a *app.App) error {
				results, err := a.NudgeService.Trigger(cmd.Context(), slot, slotIndex, userIDs)
				if err != nil {
					return err
				}
				return printJSON(results)
			})
		},
	}

	c.Flags().IntVar(&slotIndex, "index", 0, "rotation index (defaults to the slot position)")
	c.Flags().StringSliceVar(&userIDs, "user", nil, "limit to these user IDs (default: every user)")

	return c
}

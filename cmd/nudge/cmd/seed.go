package cmd

import (
	"github.com/spf13/cobra"
	"github.com/templui/goalnudge/internal/app"
	"github.com/templui/goalnudge/internal/config"
)

func UserCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	var (
		name      string
		utcOffset string
	)

	add := &cobra.Command{
		Use:   "add <email>",
		Short: "Create a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				offset := a.UserService.DefaultOffsetMinutes()
				if utcOffset != "" {
					parsed, err := config.ParseUTCOffset(utcOffset)
					if err != nil {
						return err
					}
					offset = parsed
				}

				user, err := a.UserService.Create(cmd.Context(), args[0], name, offset)
				if err != nil {
					return err
				}
				return printJSON(user)
			})
		},
	}
	add.Flags().StringVar(&name, "name", "", "display name")
	add.Flags().StringVar(&utcOffset, "utc-offset", "", "UTC offset such as -05:00 (default: DEFAULT_UTC_OFFSET)")

	c.AddCommand(add)
	return c
}

func ObjectiveCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "objective",
		Short: "Manage objectives",
	}

	var (
		description string
		status      string
	)

	add := &cobra.Command{
		Use:   "add <user-id> <title>",
		Short: "Create an objective",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				objective, err := a.ObjectiveService.Create(cmd.Context(), args[0], args[1], description, status)
				if err != nil {
					return err
				}
				return printJSON(objective)
			})
		},
	}
	add.Flags().StringVar(&description, "description", "", "objective description")
	add.Flags().StringVar(&status, "status", "", "queued, building, testing or adjusting (default building)")

	list := &cobra.Command{
		Use:   "list <user-id>",
		Short: "List a user's objectives",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				objectives, err := a.ObjectiveService.Objectives(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(objectives)
			})
		},
	}

	c.AddCommand(add, list)
	return c
}

func StepCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "step",
		Short: "Manage steps",
	}

	var (
		description string
		effort      string
	)

	add := &cobra.Command{
		Use:   "add <objective-id> <title>",
		Short: "Queue a step on an objective",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				step, err := a.ObjectiveService.AddStep(cmd.Context(), args[0], args[1], description, effort)
				if err != nil {
					return err
				}
				return printJSON(step)
			})
		},
	}
	add.Flags().StringVar(&description, "description", "", "step description")
	add.Flags().StringVar(&effort, "effort", "", "tiny, small or medium (default small)")

	c.AddCommand(add)
	return c
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/templui/goalnudge/internal/config"
	"github.com/templui/goalnudge/internal/service"
)

func TokenCmd() *cobra.Command {
	var subject string

	c := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the /internal endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			authService := service.NewAuthService(cfg.SchedulerSecret, cfg.SchedulerTokenExpiry)

			token, err := authService.GenerateJWT(subject)
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}

			fmt.Println(token)
			return nil
		},
	}

	c.Flags().StringVar(&subject, "subject", "scheduler", "token subject")

	return c
}

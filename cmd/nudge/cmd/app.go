package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/templui/goalnudge/internal/app"
	"github.com/templui/goalnudge/internal/config"
	"github.com/templui/goalnudge/internal/logger"
)

// withApp loads config, opens the database and runs fn with the wired app.
func withApp(cmd *cobra.Command, fn func(a *app.App) error) error {
	cfg := config.Load()
	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN, cfg.AppName, cfg.AppEnv)
	defer logger.Flush()

	a, err := app.New(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(a)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	err := enc.Encode(v)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

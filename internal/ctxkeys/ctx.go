package ctxkeys

import (
	"context"

	"github.com/templui/goalnudge/internal/config"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	SchedulerKey contextKey = "scheduler"
	ConfigKey    contextKey = "config"
)

// Scheduler returns the subject of the verified scheduler token, if any.
func Scheduler(ctx context.Context) string {
	subject, _ := ctx.Value(SchedulerKey).(string)
	return subject
}

func WithScheduler(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, SchedulerKey, subject)
}

func Config(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(ConfigKey).(*config.Config)
	return cfg
}

func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, ConfigKey, cfg)
}

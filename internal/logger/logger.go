package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// Options selects the output of New.
type Options struct {
	Dev       bool
	AppName   string
	AppEnv    string
	SentryDSN string
}

// New builds a logger writing to w: debug text in development, info JSON
// otherwise. Error records also go to Sentry when a DSN is set and the
// client starts.
func New(w io.Writer, opts Options) *slog.Logger {
	var local slog.Handler
	if opts.Dev {
		local = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		local = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	}

	handler := local
	if sentryHandler, err := newSentryHandler(opts); err != nil {
		slog.New(local).Warn("sentry disabled", "error", err)
	} else if sentryHandler != nil {
		handler = slogmulti.Fanout(local, sentryHandler)
	}

	return slog.New(handler).With("app", opts.AppName, "env", opts.AppEnv)
}

func newSentryHandler(opts Options) (slog.Handler, error) {
	if opts.SentryDSN == "" {
		return nil, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              opts.SentryDSN,
		Environment:      opts.AppEnv,
		TracesSampleRate: 0.2,
	})
	if err != nil {
		return nil, err
	}

	return slogsentry.Option{Level: slog.LevelError}.NewSentryHandler(), nil
}

// Init installs New(os.Stdout, ...) as the slog default.
func Init(isDev bool, sentryDSN, appName, appEnv string) {
	slog.SetDefault(New(os.Stdout, Options{
		Dev:       isDev,
		AppName:   appName,
		AppEnv:    appEnv,
		SentryDSN: sentryDSN,
	}))
}

// Flush waits for buffered Sentry events. Call it before exit.
func Flush() {
	sentry.Flush(2 * time.Second)
}

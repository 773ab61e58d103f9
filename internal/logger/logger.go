// Package logger sets up the process-wide slog logger. Errors are fanned out
// to Sentry when a DSN is configured.
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

// Options selects the output format and the optional Sentry sink.
type Options struct {
	Development bool
	SentryDSN   string
	Environment string
	Output      io.Writer // defaults to os.Stdout
}

// New builds a logger: text at debug level in development, JSON at info
// level otherwise. The returned flush drains buffered Sentry events and is
// a no-op without a DSN.
func New(opts Options) (*slog.Logger, func()) {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	var console slog.Handler
	if opts.Development {
		console = slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		console = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo})
	}

	flush := func() {}
	if opts.SentryDSN == "" {
		return slog.New(console), flush
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         opts.SentryDSN,
		Environment: opts.Environment,
	})
	if err != nil {
		l := slog.New(console)
		l.Warn("sentry disabled", "error", err)
		return l, flush
	}

	reporter := slogsentry.Option{Level: slog.LevelError}.NewSentryHandler()
	flush = func() { sentry.Flush(2 * time.Second) }
	return slog.New(slogmulti.Fanout(console, reporter)), flush
}

// Init installs New(opts) as the slog default and returns its flush.
func Init(opts Options) func() {
	l, flush := New(opts)
	slog.SetDefault(l)
	return flush
}

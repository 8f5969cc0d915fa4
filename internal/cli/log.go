// Package cli implements the floorgen command-line interface.
//
// The CLI resolves a list of room names against the room catalog, builds
// the constraint graph between them and drives the layout model through
// the refinement loop. It is built using cobra; output is styled with
// lipgloss and logged with charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - rooms: List the room catalog
//   - graph: Build and draw the constraint graph for a request
//   - generate: Generate a floor plan layout
//   - pick: Compose a request interactively, then generate
//   - serve: Run the HTTP API
//   - cache: Manage the local graph cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a leveled logger on w with short wall-clock timestamps
// ("14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// stage times one step of a command and logs it at Info when done.
type stage struct {
	logger *log.Logger
	name   string
	start  time.Time
}

func startStage(l *log.Logger, name string) stage {
	return stage{logger: l, name: name, start: time.Now()}
}

// done logs the stage name with its elapsed time and any extra key-values.
func (s stage) done(keyvals ...any) {
	kv := append([]any{"took", time.Since(s.start).Round(time.Millisecond)}, keyvals...)
	s.logger.Info(s.name, kv...)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the command logger, or log.Default() outside a
// command.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

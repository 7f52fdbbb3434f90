package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/ratlist/internal/reorder"
	"github.com/roach88/ratlist/internal/store"
)

// session is one open database plus the engine and output for a command.
type session struct {
	store  *store.Store
	engine *reorder.Engine
	logger *slog.Logger
	out    *OutputFormatter
}

// newFormatter builds the formatter for cmd from the global flags.
func newFormatter(cmd *cobra.Command, opts *RootOptions) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// newLogger returns a text logger on w at Info, or Debug when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

// openSession opens the database named by --db. A failure has already been
// reported through the formatter when the returned error is non-nil.
func openSession(cmd *cobra.Command, opts *RootOptions) (*session, error) {
	out := newFormatter(cmd, opts)
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)

	logger.Debug("opening database", "path", opts.Database)
	st, err := store.Open(opts.Database, store.WithBusyTimeout(opts.BusyTimeout))
	if err != nil {
		if writeErr := out.Error(ErrCodeStoreOpen, err.Error(), map[string]string{"path": opts.Database}); writeErr != nil {
			return nil, writeErr
		}
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	return &session{
		store:  st,
		engine: reorder.New(st, logger),
		logger: logger,
		out:    out,
	}, nil
}

// Close closes the database and logs rather than returns a close failure.
func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		s.logger.Error("error closing database", "error", err)
	}
}

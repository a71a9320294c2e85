package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tutor-web/quizclient/internal/api"
	"github.com/tutor-web/quizclient/internal/quiz"
	"github.com/tutor-web/quizclient/internal/store"
	"github.com/tutor-web/quizclient/internal/syncer"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Store   string // path to the SQLite replica
	Server  string // base URL of the tutor-web server
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the quizclient CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "quizclient",
		Short: "tutor-web quiz client",
		Long: `Work through tutor-web lectures from a local replica.

Lectures, questions and your answer history live in a local SQLite
store, so questions can be answered offline; "sync" reconciles the
store with the server when a connection is available.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			configureLogging(opts.Verbose)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Store, "store", defaultStorePath(), "path to the SQLite replica")
	cmd.PersistentFlags().StringVar(&opts.Server, "server", "https://tutor-web.net", "base URL of the tutor-web server")

	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewSubscribeCommand(opts))
	cmd.AddCommand(NewUnsubscribeCommand(opts))
	cmd.AddCommand(NewLecturesCommand(opts))
	cmd.AddCommand(NewNextCommand(opts))
	cmd.AddCommand(NewAnswerCommand(opts))
	cmd.AddCommand(NewSummaryCommand(opts))
	cmd.AddCommand(NewGCCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// configureLogging routes slog output to stderr, at debug level when
// verbose.
func configureLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

// defaultStorePath puts the replica under the user's config directory,
// falling back to the working directory.
func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "quizclient.db"
	}
	return filepath.Join(dir, "quizclient", "quizclient.db")
}

// openStore opens (creating if needed) the SQLite replica.
func openStore(opts *RootOptions) (*store.SQLite, error) {
	if dir := filepath.Dir(opts.Store); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to create store directory", err)
		}
	}
	st, err := store.Open(opts.Store)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open replica store", err)
	}
	return st, nil
}

// openSession opens the replica and builds a session over it. The
// returned store must be closed by the caller.
func openSession(opts *RootOptions) (*quiz.Session, *store.SQLite, error) {
	st, err := openStore(opts)
	if err != nil {
		return nil, nil, err
	}
	client, err := serverClient(opts)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return quiz.NewSession(st, client), st, nil
}

// openSyncer opens the replica and builds a syncer over it.
func openSyncer(opts *RootOptions) (*syncer.Syncer, *store.SQLite, error) {
	st, err := openStore(opts)
	if err != nil {
		return nil, nil, err
	}
	client, err := serverClient(opts)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return syncer.New(st, client), st, nil
}

func serverClient(opts *RootOptions) (api.Client, error) {
	client, err := api.NewHTTPClient(opts.Server,
		api.WithRetry(api.Retry{Attempts: 3, Backoff: 250 * time.Millisecond}))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid server URL", err)
	}
	return client, nil
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tutor-web/quizclient/internal/syncer"
)

// SyncOptions holds flags for the sync command.
type SyncOptions struct {
	*RootOptions
	Force       bool
	SkipCleanup bool
}

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SyncOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sync [lecture-uri]",
		Short: "Reconcile the replica with the server",
		Long: `Upload answered questions and download fresh lectures and questions.

Without arguments every subscribed lecture is synced; with a lecture
URI only that lecture is.

Example:
  quizclient sync
  quizclient sync /api/stage?path=math101.0 --force`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			lecURI := ""
			if len(args) > 0 {
				lecURI = args[0]
			}
			return runSync(opts, lecURI, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "sync even when nothing is pending")
	cmd.Flags().BoolVar(&opts.SkipCleanup, "skip-cleanup", false, "skip the garbage-collection pass")

	return cmd
}

func runSync(opts *SyncOptions, lecURI string, cmd *cobra.Command) error {
	return runSubscriptionSync(opts.RootOptions, lecURI, syncer.Options{
		Force:       opts.Force,
		SkipCleanup: opts.SkipCleanup,
	}, cmd)
}

// runSubscriptionSync drives a sync, printing progress in text mode.
func runSubscriptionSync(rootOpts *RootOptions, lecURI string, opts syncer.Options, cmd *cobra.Command) error {
	sy, st, err := openSyncer(rootOpts)
	if err != nil {
		return err
	}
	defer st.Close()

	out := formatter(rootOpts, cmd.OutOrStdout())
	progress := func(done, total int, message string) {
		if rootOpts.Format == "text" {
			fmt.Fprintf(cmd.OutOrStdout(), "[%d/%d] %s\n", done, total, message)
		}
	}

	if lecURI != "" {
		err = sy.SyncLecture(cmd.Context(), lecURI, syncer.LectureOptions{
			Force:       opts.Force,
			SkipCleanup: opts.SkipCleanup,
		}, progress)
	} else {
		err = sy.SyncSubscriptions(cmd.Context(), opts, progress)
	}
	if err != nil {
		out.Error(err.Error(), nil)
		return WrapExitError(ExitFailure, "sync failed", err)
	}

	if rootOpts.Format == "json" {
		return out.Success(map[string]string{"result": "synced"})
	}
	return nil
}

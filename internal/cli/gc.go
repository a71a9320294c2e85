package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tutor-web/quizclient/internal/quiz"
)

// NewGCCommand creates the gc command.
func NewGCCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "gc",
		Short: "Remove unreferenced objects from the replica",
		Long: `Delete every stored lecture and question nothing references any
more. Sync runs this automatically; running it by hand only matters
after a sync was interrupted or run with --skip-cleanup.

Example:
  quizclient gc`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGC(rootOpts, cmd)
		},
	}
}

func runGC(rootOpts *RootOptions, cmd *cobra.Command) error {
	st, err := openStore(rootOpts)
	if err != nil {
		return err
	}
	defer st.Close()

	out := formatter(rootOpts, cmd.OutOrStdout())
	removed, err := quiz.RemoveUnusedObjects(st)
	if err != nil {
		out.Error(err.Error(), nil)
		return WrapExitError(ExitFailure, "garbage collection failed", err)
	}

	if rootOpts.Format == "json" {
		return out.Success(map[string]any{"removed": removed})
	}

	if len(removed) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing to remove.")
		return nil
	}
	for _, key := range removed {
		fmt.Fprintln(cmd.OutOrStdout(), "removed", key)
	}
	return nil
}

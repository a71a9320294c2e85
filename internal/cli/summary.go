package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSummaryCommand creates the summary command.
func NewSummaryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <lecture-uri>",
		Short: "Show the grade summary for a lecture",
		Long: `Show the between-questions status panel for a lecture: answer
counts, the current grade once enough questions are answered, and a
nudge about what the next correct answer is worth.

Example:
  quizclient summary /api/stage?path=math101.0`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(rootOpts, args[0], cmd)
		},
	}
}

func runSummary(rootOpts *RootOptions, lecURI string, cmd *cobra.Command) error {
	session, st, err := openSession(rootOpts)
	if err != nil {
		return err
	}
	defer st.Close()

	out := formatter(rootOpts, cmd.OutOrStdout())
	summary, err := session.LectureGradeSummary(lecURI)
	if err != nil {
		out.Error(err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to summarise lecture", err)
	}

	if rootOpts.Format == "json" {
		return out.Success(summary)
	}

	for _, line := range []string{
		summary.Practice,
		summary.PracticeStats,
		summary.Stats,
		summary.Grade,
		summary.Encouragement,
	} {
		if line != "" {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
	}
	return nil
}

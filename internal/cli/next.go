package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tutor-web/quizclient/internal/iaa"
	"github.com/tutor-web/quizclient/internal/lecture"
)

// NextOptions holds flags for the next command.
type NextOptions struct {
	*RootOptions
	Practice bool
	Question string
}

// NewNextCommand creates the next command.
func NewNextCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NextOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "next <lecture-uri>",
		Short: "Get the next question of a lecture",
		Long: `Allocate the next question of the lecture and print it. If a
question is already open it is shown again; nothing is lost by running
next twice.

Example:
  quizclient next /api/stage?path=math101.0
  quizclient next /api/stage?path=math101.0 --practice`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNext(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Practice, "practice", false, "ask a practice question (ungraded)")
	cmd.Flags().StringVar(&opts.Question, "question", "", "ask this question instead of drawing one")

	return cmd
}

func runNext(opts *NextOptions, lecURI string, cmd *cobra.Command) error {
	session, st, err := openSession(opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	out := formatter(opts.RootOptions, cmd.OutOrStdout())
	if _, err := session.SetCurrentLecture(lecURI); err != nil {
		out.Error(err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to select lecture", err)
	}

	a, qn, err := session.GetNewQuestion(cmd.Context(), iaa.AllocationOptions{
		Practice:    opts.Practice,
		QuestionURI: opts.Question,
	})
	if err != nil {
		out.Error(err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to get a question", err)
	}

	if opts.Format == "json" {
		return out.Success(map[string]any{
			"answer":   a,
			"question": publicQuestion(qn),
		})
	}

	if a.Practice() {
		fmt.Fprintln(cmd.OutOrStdout(), "(practice question)")
	}
	fmt.Fprintln(cmd.OutOrStdout(), qn.Content)
	for i, choice := range qn.Choices {
		fmt.Fprintf(cmd.OutOrStdout(), "  %d) %s\n", i, choice)
	}
	if a.RemainingTime > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Time remaining: %ds\n", a.RemainingTime)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Answer with: quizclient answer", lecURI, "<value>")
	return nil
}

// publicQuestion strips the answer spec before a question leaves the
// process, so json output cannot be used to cheat.
func publicQuestion(qn *lecture.Question) *lecture.Question {
	pub := *qn
	pub.Correct = nil
	return &pub
}

package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// AnswerOptions holds flags for the answer command.
type AnswerOptions struct {
	*RootOptions
	Data string
}

// NewAnswerCommand creates the answer command.
func NewAnswerCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AnswerOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "answer <lecture-uri> [value]",
		Short: "Answer the open question of a lecture",
		Long: `Submit an answer to the lecture's open question. A bare value is
submitted as the "answer" form field; --data submits a full form as
JSON for multi-field questions.

Example:
  quizclient answer /api/stage?path=math101.0 2
  quizclient answer /api/stage?path=math101.0 --data '{"answer":"2","text":"because"}'`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			value := ""
			if len(args) > 1 {
				value = args[1]
			}
			return runAnswer(opts, args[0], value, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Data, "data", "", "full answer form as JSON")

	return cmd
}

func runAnswer(opts *AnswerOptions, lecURI, value string, cmd *cobra.Command) error {
	formData := map[string]any{}
	switch {
	case opts.Data != "":
		if err := json.Unmarshal([]byte(opts.Data), &formData); err != nil {
			return WrapExitError(ExitCommandError, "invalid --data JSON", err)
		}
	case value != "":
		formData["answer"] = value
	default:
		return NewExitError(ExitCommandError, "an answer value or --data is required")
	}

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

	state, err := session.SetQuestionAnswer(cmd.Context(), formData)
	if err != nil {
		out.Error(err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to submit answer", err)
	}

	if opts.Format == "json" {
		return out.Success(state.Answer)
	}

	a := state.Answer
	switch {
	case a.Correct == nil:
		fmt.Fprintln(cmd.OutOrStdout(), "Answer recorded.")
	case *a.Correct:
		fmt.Fprintln(cmd.OutOrStdout(), "Correct!")
	default:
		fmt.Fprintln(cmd.OutOrStdout(), "Wrong.")
	}
	if a.GradeAfter != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Grade: %g\n", *a.GradeAfter)
	}
	if a.ExplanationDelay > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Explanation available in %.0fs\n", a.ExplanationDelay)
	}
	return nil
}

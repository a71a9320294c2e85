package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLecturesCommand creates the lectures command.
func NewLecturesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lectures",
		Short: "List subscribed lectures and their standing",
		Long: `List every subscribed lecture held in the replica with its grade,
answer counts and whether it can be worked offline.

Example:
  quizclient lectures
  quizclient lectures --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLectures(rootOpts, cmd)
		},
	}
}

func runLectures(rootOpts *RootOptions, cmd *cobra.Command) error {
	session, st, err := openSession(rootOpts)
	if err != nil {
		return err
	}
	defer st.Close()

	out := formatter(rootOpts, cmd.OutOrStdout())
	_, infos, err := session.AvailableLectures()
	if err != nil {
		out.Error(err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to list lectures", err)
	}

	if rootOpts.Format == "json" {
		return out.Success(infos)
	}

	if len(infos) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No lectures downloaded yet. Run 'quizclient subscribe <path>' first.")
		return nil
	}
	for _, info := range infos {
		offline := ""
		if info.Offline {
			offline = " [offline]"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-40s grade %.2f%s\n", info.Title, info.Grade, offline)
		fmt.Fprintf(cmd.OutOrStdout(), "  %s  %s\n", info.URI, info.Stats)
	}
	return nil
}

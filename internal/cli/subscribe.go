package cli

import (
	"github.com/spf13/cobra"

	"github.com/tutor-web/quizclient/internal/syncer"
)

// NewSubscribeCommand creates the subscribe command.
func NewSubscribeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "subscribe <path>",
		Short: "Subscribe to a tutorial or lecture and sync it",
		Long: `Subscribe to the tutorial or lecture at the given path, then sync
every subscription so the new material is available offline.

Example:
  quizclient subscribe math101.0`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubscriptionSync(rootOpts, "", syncer.Options{Add: args[0]}, cmd)
		},
	}
}

// NewUnsubscribeCommand creates the unsubscribe command.
func NewUnsubscribeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "unsubscribe <path>",
		Short: "Remove a subscription and its replicated material",
		Long: `Unsubscribe from the tutorial or lecture at the given path. Its
lectures and questions are removed from the replica during the sync's
cleanup pass.

Example:
  quizclient unsubscribe math101.0`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubscriptionSync(rootOpts, "", syncer.Options{Del: args[0]}, cmd)
		},
	}
}

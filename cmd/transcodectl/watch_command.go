package main

import (
	"github.com/spf13/cobra"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <job-id>",
		Short: "Follow an already-submitted job until it finishes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			listener := newWatchListener(cmd.OutOrStdout())
			coord, err := ctx.newCoordinator(listener)
			if err != nil {
				return err
			}
			if err := coord.Watch(args[0]); err != nil {
				return err
			}
			return waitForOutcome(cmd, coord, listener)
		},
	}
}

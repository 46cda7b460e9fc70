package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"transcodectl/internal/transcode"
)

func newStartCommand(ctx *commandContext) *cobra.Command {
	var opts transcode.Options
	var detach bool

	cmd := &cobra.Command{
		Use:   "start <file>",
		Short: "Submit a transcode job and follow it until it finishes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			listener := newWatchListener(cmd.OutOrStdout())
			coord, err := ctx.newCoordinator(listener)
			if err != nil {
				return err
			}

			jobID, err := coord.Submit(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Submitted job %s\n", jobID)

			if detach {
				coord.Abandon()
				fmt.Fprintf(cmd.OutOrStdout(), "Follow it later with: transcodectl watch %s\n", jobID)
				return nil
			}

			return waitForOutcome(cmd, coord, listener)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format key from the catalog (required)")
	cmd.Flags().StringVarP(&opts.Quality, "quality", "q", "", "Quality preset key from the catalog (required)")
	cmd.Flags().StringVarP(&opts.SpeedPreset, "speed", "s", "fast", "Speed preset key from the catalog")
	cmd.Flags().BoolVar(&detach, "detach", false, "Print the job ID and exit instead of watching")
	_ = cmd.MarkFlagRequired("format")
	_ = cmd.MarkFlagRequired("quality")

	return cmd
}

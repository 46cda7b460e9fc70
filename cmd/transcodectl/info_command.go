package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"transcodectl/internal/media"
	"transcodectl/internal/textutil"
)

func newInfoCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Probe a source file on the worker and show its media details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.workerClient()
			if err != nil {
				return err
			}
			info, err := client.VideoInfo(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("probe %s: %w", args[0], err)
			}

			if asJSON {
				return writeJSON(cmd, info)
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, infoRows(info)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the probe result as JSON")
	return cmd
}

func infoRows(info media.Info) [][]string {
	rows := [][]string{
		{"Container", info.FormatName},
		{"Duration", textutil.FormatClock(info.DurationSeconds)},
		{"Size", textutil.FormatBytes(info.SizeBytes)},
		{"Bitrate", fmt.Sprintf("%d b/s", info.BitrateBps)},
	}
	if info.HasVideo() {
		rows = append(rows,
			[]string{"Video codec", info.Video.Codec},
			[]string{"Resolution", info.Resolution()},
			[]string{"Frame rate", strconv.FormatFloat(info.Video.FPS, 'f', -1, 64)},
		)
	}
	if info.Audio.Codec != "" {
		rows = append(rows,
			[]string{"Audio codec", info.Audio.Codec},
			[]string{"Channels", strconv.Itoa(info.Audio.Channels)},
			[]string{"Sample rate", fmt.Sprintf("%d Hz", info.Audio.SampleRateHz)},
		)
	}
	return rows
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"transcodectl/internal/transcode"
)

func newFormatsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "formats",
		Short: "List the worker's supported formats, qualities, and speed presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := ctx.catalogLoader()
			if err != nil {
				return err
			}
			cat, err := loader.Get(cmd.Context())
			if err != nil {
				return fmt.Errorf("the worker's capability catalog is not available: %w", err)
			}

			if asJSON {
				return writeJSON(cmd, catalogView(cat))
			}

			out := cmd.OutOrStdout()

			formatRows := make([][]string, 0, len(cat.Formats))
			for _, key := range cat.FormatKeys() {
				spec := cat.Formats[key]
				formatRows = append(formatRows, []string{key, spec.Extension, spec.Description})
			}
			fmt.Fprintln(out, "Output formats")
			fmt.Fprintln(out, renderTable([]string{"Key", "Extension", "Description"}, formatRows))

			qualityRows := make([][]string, 0, len(cat.Qualities))
			for _, key := range cat.QualityKeys() {
				spec := cat.Qualities[key]
				qualityRows = append(qualityRows, []string{key, spec.Resolution, spec.Description})
			}
			fmt.Fprintln(out, "Quality presets")
			fmt.Fprintln(out, renderTable([]string{"Key", "Resolution", "Description"}, qualityRows))

			speedRows := make([][]string, 0, len(cat.SpeedPresets))
			for _, key := range cat.SpeedPresetKeys() {
				speedRows = append(speedRows, []string{key, cat.SpeedPresets[key]})
			}
			fmt.Fprintln(out, "Speed presets")
			fmt.Fprintln(out, renderTable([]string{"Key", "Description"}, speedRows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the catalog as JSON")
	return cmd
}

type catalogJSON struct {
	Formats      map[string]transcode.FormatSpec  `json:"formats"`
	Qualities    map[string]transcode.QualitySpec `json:"qualities"`
	SpeedPresets map[string]string                `json:"speed_presets"`
}

func catalogView(cat transcode.Catalog) catalogJSON {
	return catalogJSON{
		Formats:      cat.Formats,
		Qualities:    cat.Qualities,
		SpeedPresets: cat.SpeedPresets,
	}
}

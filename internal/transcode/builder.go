package transcode

import (
	"fmt"
	"strings"

	"transcodectl/internal/services"
	"transcodectl/internal/workerapi"
)

// BuildRequest validates a selection against the catalog and packages it
// into a submission payload. Pure: no I/O, no side effects. Selections are
// expected to come from the catalog already, but free text must never reach
// the worker, so every key is checked here again.
func BuildRequest(fileRef string, opts Options, cat Catalog) (workerapi.SubmitRequest, error) {
	if strings.TrimSpace(fileRef) == "" {
		return workerapi.SubmitRequest{}, services.Wrap(services.ErrValidation, "builder", "check file", "file reference is empty", nil)
	}
	if cat.Empty() {
		return workerapi.SubmitRequest{}, services.Wrap(services.ErrUnavailable, "builder", "check catalog", "capability catalog is empty", nil)
	}
	if !cat.HasFormat(opts.Format) {
		return workerapi.SubmitRequest{}, services.Wrap(services.ErrValidation, "builder", "check options",
			fmt.Sprintf("output format %q is not in the catalog", opts.Format), nil)
	}
	if !cat.HasQuality(opts.Quality) {
		return workerapi.SubmitRequest{}, services.Wrap(services.ErrValidation, "builder", "check options",
			fmt.Sprintf("quality %q is not in the catalog", opts.Quality), nil)
	}
	if !cat.HasSpeedPreset(opts.SpeedPreset) {
		return workerapi.SubmitRequest{}, services.Wrap(services.ErrValidation, "builder", "check options",
			fmt.Sprintf("speed preset %q is not in the catalog", opts.SpeedPreset), nil)
	}
	return workerapi.SubmitRequest{
		FilePath:     fileRef,
		OutputFormat: opts.Format,
		Quality:      opts.Quality,
		SpeedPreset:  opts.SpeedPreset,
	}, nil
}

package transcode

import (
	"sort"
	"strings"

	"transcodectl/internal/workerapi"
)

// State represents the lifecycle of a tracked transcode job.
type State string

const (
	StateQueued    State = "queued"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateError     State = "error"
	StateCancelled State = "cancelled"
	// StateNotFound means the worker no longer recognizes the job ID: it
	// finished and was reaped, or never existed. Terminal, but the outcome
	// is unknown, so it must not be presented as completed or failed.
	StateNotFound State = "not_found"
)

var terminalStates = map[State]struct{}{
	StateCompleted: {},
	StateError:     {},
	StateCancelled: {},
	StateNotFound:  {},
}

// IsTerminal reports whether no further progress updates are expected.
func (s State) IsTerminal() bool {
	_, ok := terminalStates[s]
	return ok
}

// stateFromWire normalizes the worker's wire status into a State. The worker
// reports "starting" before the encode process produces output and
// "transcoding" afterwards.
func stateFromWire(status string) (State, bool) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "starting", "queued":
		return StateQueued, true
	case "transcoding", "running":
		return StateRunning, true
	case "completed":
		return StateCompleted, true
	case "error":
		return StateError, true
	case "cancelled":
		return StateCancelled, true
	default:
		return "", false
	}
}

// Options is a validated selection of catalog keys.
type Options struct {
	Format      string
	Quality     string
	SpeedPreset string
}

// Job is a point-in-time snapshot of one tracked transcode job. Zero
// SpeedFactor and ETASeconds mean unknown.
type Job struct {
	ID                 string
	FileRef            string
	Options            Options
	State              State
	ProgressPercent    float64
	SpeedFactor        float64
	ETASeconds         float64
	DurationSeconds    float64
	CurrentTimeSeconds float64
	OutputFile         string
	ErrorMessage       string
}

// JobFromSnapshot builds a Job from a worker progress snapshot. An
// unrecognized wire status is reported as ok=false so the caller can treat
// the observation as a protocol failure rather than a transition.
func JobFromSnapshot(id, fileRef string, opts Options, snap workerapi.ProgressSnapshot) (Job, bool) {
	state, ok := stateFromWire(snap.Status)
	if !ok {
		return Job{}, false
	}
	progress := snap.Progress
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	return Job{
		ID:                 id,
		FileRef:            fileRef,
		Options:            opts,
		State:              state,
		ProgressPercent:    progress,
		SpeedFactor:        max(snap.Speed, 0),
		ETASeconds:         max(snap.ETA, 0),
		DurationSeconds:    max(snap.Duration, 0),
		CurrentTimeSeconds: max(snap.CurrentTime, 0),
		OutputFile:         snap.OutputFile,
		ErrorMessage:       snap.Error,
	}, true
}

// FormatSpec describes one supported output container.
type FormatSpec struct {
	Extension   string
	Description string
}

// QualitySpec describes one quality preset.
type QualitySpec struct {
	Resolution  string
	Description string
}

// Catalog holds the capability descriptor fetched from the worker. Option
// selections are only valid when their keys are present here.
type Catalog struct {
	Formats      map[string]FormatSpec
	Qualities    map[string]QualitySpec
	SpeedPresets map[string]string
}

// CatalogFromWire converts the worker payload into the domain catalog.
func CatalogFromWire(payload workerapi.CatalogPayload) Catalog {
	cat := Catalog{
		Formats:      make(map[string]FormatSpec, len(payload.Formats)),
		Qualities:    make(map[string]QualitySpec, len(payload.Qualities)),
		SpeedPresets: make(map[string]string, len(payload.SpeedPresets)),
	}
	for key, format := range payload.Formats {
		cat.Formats[key] = FormatSpec{Extension: format.Extension, Description: format.Description}
	}
	for key, quality := range payload.Qualities {
		cat.Qualities[key] = QualitySpec{Resolution: quality.Resolution, Description: quality.Description}
	}
	for key, description := range payload.SpeedPresets {
		cat.SpeedPresets[key] = description
	}
	return cat
}

// Empty reports whether the catalog carries no usable selections. An empty
// catalog is a fetch defect, never a degraded mode.
func (c Catalog) Empty() bool {
	return len(c.Formats) == 0 || len(c.Qualities) == 0 || len(c.SpeedPresets) == 0
}

// HasFormat reports whether key names a supported output format.
func (c Catalog) HasFormat(key string) bool {
	_, ok := c.Formats[key]
	return ok
}

// HasQuality reports whether key names a supported quality preset.
func (c Catalog) HasQuality(key string) bool {
	_, ok := c.Qualities[key]
	return ok
}

// HasSpeedPreset reports whether key names a supported speed preset.
func (c Catalog) HasSpeedPreset(key string) bool {
	_, ok := c.SpeedPresets[key]
	return ok
}

// FormatKeys returns the format keys in sorted order for stable rendering.
func (c Catalog) FormatKeys() []string {
	return sortedKeys(c.Formats)
}

// QualityKeys returns the quality keys in sorted order.
func (c Catalog) QualityKeys() []string {
	return sortedKeys(c.Qualities)
}

// SpeedPresetKeys returns the speed preset keys in sorted order.
func (c Catalog) SpeedPresetKeys() []string {
	return sortedKeys(c.SpeedPresets)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

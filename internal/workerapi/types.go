package workerapi

// envelope is the discriminated response wrapper returned by every worker
// endpoint. Status is "ok", "not found", or an error indicator with the
// detail in Message.
type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

const (
	statusOK       = "ok"
	statusNotFound = "not found"
)

// FormatPayload describes one supported output container.
type FormatPayload struct {
	Extension   string `json:"extension"`
	Description string `json:"description"`
}

// QualityPayload describes one quality preset.
type QualityPayload struct {
	Resolution  string `json:"resolution"`
	Description string `json:"description"`
}

// CatalogPayload is the capability descriptor returned by the worker.
type CatalogPayload struct {
	Formats      map[string]FormatPayload  `json:"formats"`
	Qualities    map[string]QualityPayload `json:"qualities"`
	SpeedPresets map[string]string         `json:"speed_presets"`
}

// SubmitRequest is the job submission payload.
type SubmitRequest struct {
	FilePath     string `json:"file_path"`
	OutputFormat string `json:"output_format"`
	Quality      string `json:"quality"`
	SpeedPreset  string `json:"speed_preset"`
}

// ProgressSnapshot is one observation of a running job as reported by the
// worker. Speed is a realtime multiple; zero means unknown.
type ProgressSnapshot struct {
	Status      string  `json:"status"`
	Progress    float64 `json:"progress"`
	Duration    float64 `json:"duration"`
	CurrentTime float64 `json:"current_time"`
	Speed       float64 `json:"speed"`
	ETA         float64 `json:"eta"`
	OutputFile  string  `json:"output_file"`
	Error       string  `json:"error,omitempty"`
}

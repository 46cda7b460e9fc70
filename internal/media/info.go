package media

import "fmt"

// VideoStream describes the primary video stream of a probed file.
type VideoStream struct {
	Codec      string  `json:"codec"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	FPS        float64 `json:"fps"`
	BitrateBps int64   `json:"bitrate"`
}

// AudioStream describes the primary audio stream of a probed file.
type AudioStream struct {
	Codec        string `json:"codec"`
	SampleRateHz int    `json:"sample_rate"`
	Channels     int    `json:"channels"`
	BitrateBps   int64  `json:"bitrate"`
}

// Info is the read-only probe result for a source file.
type Info struct {
	DurationSeconds float64     `json:"duration"`
	SizeBytes       int64       `json:"size"`
	BitrateBps      int64       `json:"bitrate"`
	FormatName      string      `json:"format_name"`
	Video           VideoStream `json:"video"`
	Audio           AudioStream `json:"audio"`
}

// HasVideo reports whether the probe found a video stream.
func (i Info) HasVideo() bool {
	return i.Video.Width > 0 && i.Video.Height > 0
}

// Resolution renders the video dimensions as WxH, or empty when unknown.
func (i Info) Resolution() string {
	if !i.HasVideo() {
		return ""
	}
	return fmt.Sprintf("%dx%d", i.Video.Width, i.Video.Height)
}

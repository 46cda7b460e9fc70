package textutil

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatClock renders a duration in seconds as M:SS, or H:MM:SS from one
// hour up. Negative and NaN inputs render as 0:00.
func FormatClock(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// FormatETA renders a remaining-time estimate compactly, e.g. "1h2m5s",
// "2m5s", "45s". Zero or unknown estimates render as empty.
func FormatETA(seconds float64) string {
	if math.IsNaN(seconds) || seconds <= 0 {
		return ""
	}
	d := time.Duration(seconds * float64(time.Second)).Round(time.Second)
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	secs := d / time.Second
	parts := make([]string, 0, 3)
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || hours > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if secs > 0 || (hours == 0 && minutes == 0) {
		parts = append(parts, fmt.Sprintf("%ds", secs))
	}
	return strings.Join(parts, "")
}

// FormatPercent renders a progress ratio as a whole percentage.
func FormatPercent(percent float64) string {
	if math.IsNaN(percent) || percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return fmt.Sprintf("%.0f%%", percent)
}

// FormatSpeed renders an encode speed as a realtime multiple, e.g. "1.4x".
// Zero or unknown speeds render as empty.
func FormatSpeed(factor float64) string {
	if math.IsNaN(factor) || factor <= 0 {
		return ""
	}
	return fmt.Sprintf("%.1fx", factor)
}

// FormatBytes renders a byte count human-readably ("1.0 MB").
func FormatBytes(size int64) string {
	if size < 0 {
		size = 0
	}
	return humanize.Bytes(uint64(size))
}

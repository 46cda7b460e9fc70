package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"transcodectl/internal/textutil"
	"transcodectl/internal/transcode"
)

// progressLine renders one non-terminal observation, e.g.
// "t1 running 42% · 1.4x · ETA 2m5s · 0:42 / 1:40".
func progressLine(job transcode.Job) string {
	parts := []string{
		fmt.Sprintf("%s %s %s", job.ID, job.State, textutil.FormatPercent(job.ProgressPercent)),
	}
	if speed := textutil.FormatSpeed(job.SpeedFactor); speed != "" {
		parts = append(parts, speed)
	}
	if eta := textutil.FormatETA(job.ETASeconds); eta != "" {
		parts = append(parts, "ETA "+eta)
	}
	if job.DurationSeconds > 0 {
		parts = append(parts, fmt.Sprintf("%s / %s",
			textutil.FormatClock(job.CurrentTimeSeconds),
			textutil.FormatClock(job.DurationSeconds)))
	}
	return strings.Join(parts, " · ")
}

// terminalLine renders the outcome of a tracked job.
func terminalLine(job transcode.Job, colorize bool) string {
	switch job.State {
	case transcode.StateCompleted:
		line := fmt.Sprintf("Completed: %s", job.ID)
		if job.OutputFile != "" {
			line += " -> " + job.OutputFile
		}
		return paint(line, text.FgGreen, colorize)
	case transcode.StateError:
		message := strings.TrimSpace(job.ErrorMessage)
		if message == "" {
			message = "worker reported an error"
		}
		return paint(fmt.Sprintf("Failed: %s: %s", job.ID, message), text.FgRed, colorize)
	case transcode.StateCancelled:
		return paint(fmt.Sprintf("Cancelled: %s", job.ID), text.FgYellow, colorize)
	case transcode.StateNotFound:
		return paint(fmt.Sprintf("Unknown outcome: the worker no longer recognizes %s (it may have finished and been cleaned up)", job.ID), text.FgYellow, colorize)
	default:
		return fmt.Sprintf("%s: %s", job.State, job.ID)
	}
}

func paint(line string, color text.Color, colorize bool) string {
	if !colorize {
		return line
	}
	return color.Sprint(line)
}

func shouldColorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

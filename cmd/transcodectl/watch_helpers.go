package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"transcodectl/internal/coordinator"
	"transcodectl/internal/transcode"
)

// watchListener prints progress lines and hands the terminal snapshot back
// to the waiting command goroutine.
type watchListener struct {
	out      io.Writer
	terminal chan transcode.Job
}

func newWatchListener(out io.Writer) *watchListener {
	return &watchListener{out: out, terminal: make(chan transcode.Job, 1)}
}

func (w *watchListener) OnProgress(job transcode.Job) {
	fmt.Fprintln(w.out, progressLine(job))
}

func (w *watchListener) OnTerminal(job transcode.Job) {
	select {
	case w.terminal <- job:
	default:
	}
}

// waitForOutcome blocks until the tracked job reaches a terminal state. An
// interrupt requests worker-side cancellation; if the worker rejects it,
// tracking is abandoned and the command fails.
func waitForOutcome(cmd *cobra.Command, coord *coordinator.Coordinator, listener *watchListener) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case job := <-listener.terminal:
		return reportTerminal(cmd, job)
	case <-ctx.Done():
	}
	stop()

	fmt.Fprintln(cmd.OutOrStdout(), "Requesting cancellation...")
	cancelCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	cancelled, err := coord.Cancel(cancelCtx)
	if err != nil {
		coord.Abandon()
		return fmt.Errorf("cancel job: %w", err)
	}
	if !cancelled {
		// The job reached a terminal state before the cancel was issued.
		select {
		case job := <-listener.terminal:
			return reportTerminal(cmd, job)
		default:
			return nil
		}
	}

	select {
	case job := <-listener.terminal:
		return reportTerminal(cmd, job)
	case <-time.After(5 * time.Second):
		return errors.New("cancel acknowledged but no terminal update arrived")
	}
}

func reportTerminal(cmd *cobra.Command, job transcode.Job) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, terminalLine(job, shouldColorize(out)))
	if job.State == transcode.StateError {
		return fmt.Errorf("job %s failed", job.ID)
	}
	return nil
}

package coordinator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"transcodectl/internal/logging"
	"transcodectl/internal/services"
	"transcodectl/internal/transcode"
	"transcodectl/internal/workerapi"
)

// ErrNoActiveJob is returned by Cancel when no job is tracked.
var ErrNoActiveJob = errors.New("no active job")

// Listener receives job observations. Methods are invoked from the polling
// goroutine (or the cancelling goroutine for an acked cancel) and must not
// call back into the poller or coordinator synchronously.
type Listener interface {
	// OnProgress fires for every non-terminal observation.
	OnProgress(job transcode.Job)
	// OnTerminal fires exactly once per tracked job.
	OnTerminal(job transcode.Job)
}

// StatusClient is the worker surface the poller depends on.
type StatusClient interface {
	Progress(ctx context.Context, jobID string) (workerapi.ProgressSnapshot, error)
	Cancel(ctx context.Context, jobID string) error
}

// Poller owns at most one tracked job ID and fetches its status on a fixed
// cadence until a terminal state is observed. Tracking a new job while one
// is tracked stops the previous loop; observations from a superseded loop
// are discarded, so a stale in-flight response never reaches the listener.
type Poller struct {
	client   StatusClient
	listener Listener
	interval time.Duration
	logger   *slog.Logger

	// mu guards the tracking state. generation increments on every Track,
	// Stop, terminal transition, and acked cancel; dispatch paths compare
	// generations so only the current loop can emit.
	mu         sync.Mutex
	generation uint64
	jobID      string
	fileRef    string
	opts       transcode.Options
	stopLoop   context.CancelFunc

	// emitMu serializes listener dispatch so a cancel terminal can never
	// interleave with a progress emission.
	emitMu sync.Mutex
}

// NewPoller constructs a poller. A non-positive interval falls back to the
// reference cadence of two seconds.
func NewPoller(client StatusClient, listener Listener, interval time.Duration, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Poller{
		client:   client,
		listener: listener,
		interval: interval,
		logger:   logging.WithComponent(logger, "poller"),
	}
}

// Active returns the currently tracked job ID, if any.
func (p *Poller) Active() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.jobID, p.jobID != ""
}

// Track starts polling the given job ID, stopping any previous loop first.
// Tracking does not cancel the superseded job on the worker side.
func (p *Poller) Track(jobID, fileRef string, opts transcode.Options) {
	p.mu.Lock()
	if p.stopLoop != nil {
		p.stopLoop()
		p.stopLoop = nil
	}
	p.generation++
	gen := p.generation
	p.jobID = jobID
	p.fileRef = fileRef
	p.opts = opts

	ctx, cancel := context.WithCancel(context.Background())
	p.stopLoop = cancel
	p.mu.Unlock()

	p.logger.Debug("tracking started", logging.String("job_id", jobID), logging.Duration("interval", p.interval))
	go p.run(ctx, gen, jobID, fileRef, opts)
}

// Stop abandons tracking without emitting a terminal. Used when the caller
// walks away from a job without cancelling it.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.jobID == "" {
		return
	}
	p.logger.Debug("tracking abandoned", logging.String("job_id", p.jobID))
	p.clearLocked()
}

// Cancel requests worker-side cancellation of the tracked job. On
// acknowledgement tracking stops immediately and a cancelled terminal is
// emitted without waiting for the next poll. If the worker rejects the
// request, polling continues and the error is returned.
func (p *Poller) Cancel(ctx context.Context) error {
	p.mu.Lock()
	jobID := p.jobID
	fileRef := p.fileRef
	opts := p.opts
	gen := p.generation
	p.mu.Unlock()

	if jobID == "" {
		return ErrNoActiveJob
	}

	if err := p.client.Cancel(ctx, jobID); err != nil {
		p.logger.Warn("cancel request rejected; still tracking",
			logging.String("job_id", jobID), logging.Error(err))
		return err
	}

	p.mu.Lock()
	if p.generation != gen {
		// A terminal or a newer Track won the race; nothing left to stop.
		p.mu.Unlock()
		return nil
	}
	p.clearLocked()
	p.mu.Unlock()

	p.logger.Info("job cancelled", logging.String("job_id", jobID))
	p.emit(func(l Listener) {
		l.OnTerminal(transcode.Job{
			ID:      jobID,
			FileRef: fileRef,
			Options: opts,
			State:   transcode.StateCancelled,
		})
	})
	return nil
}

// clearLocked stops the loop and resets tracking state. Callers hold p.mu.
func (p *Poller) clearLocked() {
	if p.stopLoop != nil {
		p.stopLoop()
		p.stopLoop = nil
	}
	p.jobID = ""
	p.fileRef = ""
	p.opts = transcode.Options{}
	p.generation++
}

func (p *Poller) run(ctx context.Context, gen uint64, jobID, fileRef string, opts transcode.Options) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		snap, err := p.client.Progress(ctx, jobID)
		switch {
		case errors.Is(err, services.ErrNotFound):
			if !p.finish(gen) {
				return
			}
			p.logger.Warn("worker no longer recognizes job", logging.String("job_id", jobID))
			p.emit(func(l Listener) {
				l.OnTerminal(transcode.Job{
					ID:      jobID,
					FileRef: fileRef,
					Options: opts,
					State:   transcode.StateNotFound,
				})
			})
			return
		case err != nil:
			// Transient poll failures are tolerated without a state change;
			// the next tick retries. There is no failure cap.
			failures++
			p.logger.Debug("progress poll failed; retrying on next tick",
				logging.String("job_id", jobID),
				logging.Int("consecutive_failures", failures),
				logging.Error(err))
			continue
		}
		failures = 0

		job, ok := transcode.JobFromSnapshot(jobID, fileRef, opts, snap)
		if !ok {
			p.logger.Warn("unrecognized job status; retrying on next tick",
				logging.String("job_id", jobID), logging.String("status", snap.Status))
			continue
		}

		if job.State.IsTerminal() {
			if !p.finish(gen) {
				return
			}
			p.logger.Info("job reached terminal state",
				logging.String("job_id", jobID), logging.String("state", string(job.State)))
			p.emit(func(l Listener) { l.OnTerminal(job) })
			return
		}

		p.emitCurrent(gen, func(l Listener) { l.OnProgress(job) })
	}
}

// finish commits a terminal transition for the given generation. It returns
// false when the generation was superseded, in which case the observation is
// stale and must be discarded.
func (p *Poller) finish(gen uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.generation != gen {
		return false
	}
	p.clearLocked()
	return true
}

func (p *Poller) emit(fn func(Listener)) {
	if p.listener == nil {
		return
	}
	p.emitMu.Lock()
	defer p.emitMu.Unlock()
	fn(p.listener)
}

// emitCurrent dispatches only while gen is still the live generation,
// holding the emit lock across the check so a concurrent cancel terminal
// cannot be followed by this progress update.
func (p *Poller) emitCurrent(gen uint64, fn func(Listener)) {
	if p.listener == nil {
		return
	}
	p.emitMu.Lock()
	defer p.emitMu.Unlock()
	p.mu.Lock()
	current := p.generation == gen
	p.mu.Unlock()
	if current {
		fn(p.listener)
	}
}

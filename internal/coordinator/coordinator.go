package coordinator

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"transcodectl/internal/catalog"
	"transcodectl/internal/logging"
	"transcodectl/internal/services"
	"transcodectl/internal/transcode"
	"transcodectl/internal/workerapi"
)

// Client is the full worker surface the coordinator depends on.
type Client interface {
	StatusClient
	Submit(ctx context.Context, req workerapi.SubmitRequest) (string, error)
}

// Coordinator wraps submission and the poller into the job lifecycle
// contract: submit, track, cancel, abandon. One coordinator tracks at most
// one job; submitting while a job is tracked abandons the previous tracking
// without cancelling it on the worker.
type Coordinator struct {
	client Client
	loader *catalog.Loader
	poller *Poller
	logger *slog.Logger
}

// New constructs a coordinator. interval is the poll cadence; non-positive
// falls back to the poller default.
func New(client Client, loader *catalog.Loader, listener Listener, interval time.Duration, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Coordinator{
		client: client,
		loader: loader,
		poller: NewPoller(client, listener, interval, logger),
		logger: logging.WithComponent(logger, "coordinator"),
	}
}

// Submit validates the selection against the catalog, submits the job, and
// begins tracking the returned ID. On any failure no job is tracked.
func (c *Coordinator) Submit(ctx context.Context, fileRef string, opts transcode.Options) (string, error) {
	cat, err := c.loader.Get(ctx)
	if err != nil {
		return "", err
	}

	req, err := transcode.BuildRequest(fileRef, opts, cat)
	if err != nil {
		return "", err
	}

	ctx, requestID := services.WithNewRequestID(ctx)
	jobID, err := c.client.Submit(ctx, req)
	if err != nil {
		c.logger.Error("submit failed",
			logging.String("file", fileRef),
			logging.String("request_id", requestID),
			logging.Error(err))
		return "", err
	}

	if previous, ok := c.poller.Active(); ok {
		c.logger.Warn("abandoning previously tracked job", logging.String("job_id", previous))
	}

	c.logger.Info("job submitted",
		logging.String("job_id", jobID),
		logging.String("file", fileRef),
		logging.String("format", opts.Format),
		logging.String("quality", opts.Quality),
		logging.String("speed_preset", opts.SpeedPreset),
		logging.String("request_id", requestID))

	c.poller.Track(jobID, fileRef, opts)
	return jobID, nil
}

// Watch begins tracking an already-submitted job ID without submitting.
func (c *Coordinator) Watch(jobID string) error {
	if jobID == "" {
		return services.Wrap(services.ErrValidation, "coordinator", "watch", "job id is empty", nil)
	}
	c.poller.Track(jobID, "", transcode.Options{})
	return nil
}

// Cancel requests cancellation of the tracked job. Cancelling with no
// tracked job is a no-op, reported as cancelled=false with a nil error.
func (c *Coordinator) Cancel(ctx context.Context) (bool, error) {
	err := c.poller.Cancel(ctx)
	if errors.Is(err, ErrNoActiveJob) {
		c.logger.Debug("cancel requested with no tracked job")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Abandon stops tracking without cancelling the job on the worker and
// without emitting a terminal.
func (c *Coordinator) Abandon() {
	c.poller.Stop()
}

// Active returns the currently tracked job ID, if any.
func (c *Coordinator) Active() (string, bool) {
	return c.poller.Active()
}

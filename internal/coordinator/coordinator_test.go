package coordinator_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"transcodectl/internal/catalog"
	"transcodectl/internal/coordinator"
	"transcodectl/internal/services"
	"transcodectl/internal/transcode"
	"transcodectl/internal/workerapi"
)

const testInterval = 5 * time.Millisecond

type pollResult struct {
	snap workerapi.ProgressSnapshot
	err  error
}

// fakeWorker scripts per-job progress responses; the last entry repeats
// once the script is exhausted.
type fakeWorker struct {
	mu        sync.Mutex
	scripts   map[string][]pollResult
	indexes   map[string]int
	polls     map[string]int
	submitID  string
	submitErr error
	cancelErr error
	cancelled []string
}

func newFakeWorker(submitID string) *fakeWorker {
	return &fakeWorker{
		scripts:  make(map[string][]pollResult),
		indexes:  make(map[string]int),
		polls:    make(map[string]int),
		submitID: submitID,
	}
}

func (f *fakeWorker) script(jobID string, results ...pollResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scripts[jobID] = results
}

func (f *fakeWorker) Catalog(ctx context.Context) (workerapi.CatalogPayload, error) {
	return workerapi.CatalogPayload{
		Formats:      map[string]workerapi.FormatPayload{"mp4": {Extension: ".mp4"}},
		Qualities:    map[string]workerapi.QualityPayload{"high": {}, "720p": {}},
		SpeedPresets: map[string]string{"fast": "Fast"},
	}, nil
}

func (f *fakeWorker) Submit(ctx context.Context, req workerapi.SubmitRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitID, f.submitErr
}

func (f *fakeWorker) Progress(ctx context.Context, jobID string) (workerapi.ProgressSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polls[jobID]++
	script := f.scripts[jobID]
	if len(script) == 0 {
		return workerapi.ProgressSnapshot{}, services.Wrap(services.ErrTransient, "fake", "poll", "no script", nil)
	}
	idx := f.indexes[jobID]
	if idx >= len(script) {
		idx = len(script) - 1
	} else {
		f.indexes[jobID]++
	}
	return script[idx].snap, script[idx].err
}

func (f *fakeWorker) Cancel(ctx context.Context, jobID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelled = append(f.cancelled, jobID)
	return nil
}

func (f *fakeWorker) pollCount(jobID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.polls[jobID]
}

type recordingListener struct {
	progress chan transcode.Job
	terminal chan transcode.Job
}

func newRecordingListener() *recordingListener {
	return &recordingListener{
		progress: make(chan transcode.Job, 64),
		terminal: make(chan transcode.Job, 8),
	}
}

func (r *recordingListener) OnProgress(job transcode.Job) { r.progress <- job }
func (r *recordingListener) OnTerminal(job transcode.Job) { r.terminal <- job }

func (r *recordingListener) waitTerminal(t *testing.T) transcode.Job {
	t.Helper()
	select {
	case job := <-r.terminal:
		return job
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for terminal")
		return transcode.Job{}
	}
}

func (r *recordingListener) waitProgress(t *testing.T) transcode.Job {
	t.Helper()
	select {
	case job := <-r.progress:
		return job
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for progress")
		return transcode.Job{}
	}
}

func newCoordinator(worker *fakeWorker, listener coordinator.Listener) *coordinator.Coordinator {
	loader := catalog.NewLoader(worker, nil)
	return coordinator.New(worker, loader, listener, testInterval, nil)
}

func running(progress float64) pollResult {
	return pollResult{snap: workerapi.ProgressSnapshot{Status: "transcoding", Progress: progress}}
}

func completed() pollResult {
	return pollResult{snap: workerapi.ProgressSnapshot{Status: "completed", Progress: 100}}
}

func transientFailure() pollResult {
	return pollResult{err: services.Wrap(services.ErrTransient, "fake", "poll", "connection reset", nil)}
}

func notFound() pollResult {
	return pollResult{err: services.Wrap(services.ErrNotFound, "fake", "poll", "", nil)}
}

func TestSubmitTracksThroughCompletion(t *testing.T) {
	worker := newFakeWorker("t1")
	worker.script("t1", running(42), completed())
	listener := newRecordingListener()
	coord := newCoordinator(worker, listener)

	jobID, err := coord.Submit(context.Background(), "a.mp4", transcode.Options{
		Format: "mp4", Quality: "high", SpeedPreset: "fast",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if jobID != "t1" {
		t.Fatalf("unexpected job id: %q", jobID)
	}

	progress := listener.waitProgress(t)
	if progress.State != transcode.StateRunning || progress.ProgressPercent != 42 {
		t.Fatalf("unexpected progress: %+v", progress)
	}

	terminal := listener.waitTerminal(t)
	if terminal.State != transcode.StateCompleted || terminal.ProgressPercent != 100 {
		t.Fatalf("unexpected terminal: %+v", terminal)
	}

	if _, active := coord.Active(); active {
		t.Fatal("tracking should stop after terminal")
	}

	// The ticker must be stopped: no further polls after the terminal.
	count := worker.pollCount("t1")
	time.Sleep(10 * testInterval)
	if worker.pollCount("t1") != count {
		t.Fatalf("polling continued after terminal: %d -> %d", count, worker.pollCount("t1"))
	}

	select {
	case job := <-listener.terminal:
		t.Fatalf("second terminal emitted: %+v", job)
	default:
	}
}

func TestTransientPollFailuresAreRetried(t *testing.T) {
	worker := newFakeWorker("t1")
	worker.script("t1", transientFailure(), transientFailure(), transientFailure(), running(10))
	listener := newRecordingListener()
	coord := newCoordinator(worker, listener)

	if _, err := coord.Submit(context.Background(), "a.mp4", transcode.Options{
		Format: "mp4", Quality: "high", SpeedPreset: "fast",
	}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	progress := listener.waitProgress(t)
	if progress.ProgressPercent != 10 {
		t.Fatalf("unexpected progress after recovery: %+v", progress)
	}

	select {
	case job := <-listener.terminal:
		t.Fatalf("terminal emitted during transient failures: %+v", job)
	default:
	}
	coord.Abandon()
}

func TestNotFoundIsDistinctTerminal(t *testing.T) {
	worker := newFakeWorker("t1")
	worker.script("t1", notFound())
	listener := newRecordingListener()
	coord := newCoordinator(worker, listener)

	if _, err := coord.Submit(context.Background(), "a.mp4", transcode.Options{
		Format: "mp4", Quality: "high", SpeedPreset: "fast",
	}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	terminal := listener.waitTerminal(t)
	if terminal.State != transcode.StateNotFound {
		t.Fatalf("expected not_found terminal, got %+v", terminal)
	}
	if terminal.State == transcode.StateCompleted || terminal.State == transcode.StateError {
		t.Fatal("not_found must not masquerade as a known outcome")
	}
	if _, active := coord.Active(); active {
		t.Fatal("tracking should stop on not_found")
	}
}

func TestCancelIdleIsNoop(t *testing.T) {
	worker := newFakeWorker("t1")
	coord := newCoordinator(worker, newRecordingListener())

	cancelled, err := coord.Cancel(context.Background())
	if err != nil {
		t.Fatalf("idle cancel returned error: %v", err)
	}
	if cancelled {
		t.Fatal("idle cancel should report a no-op")
	}
}

func TestCancelStopsTrackingImmediately(t *testing.T) {
	worker := newFakeWorker("t1")
	worker.script("t1", running(5), running(6), running(7), running(8))
	listener := newRecordingListener()
	coord := newCoordinator(worker, listener)

	if _, err := coord.Submit(context.Background(), "a.mp4", transcode.Options{
		Format: "mp4", Quality: "high", SpeedPreset: "fast",
	}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	listener.waitProgress(t)

	cancelled, err := coord.Cancel(context.Background())
	if err != nil || !cancelled {
		t.Fatalf("Cancel = %v, %v", cancelled, err)
	}

	terminal := listener.waitTerminal(t)
	if terminal.State != transcode.StateCancelled {
		t.Fatalf("expected cancelled terminal, got %+v", terminal)
	}
	if terminal.ID != "t1" {
		t.Fatalf("unexpected terminal job id: %q", terminal.ID)
	}

	if len(worker.cancelled) != 1 || worker.cancelled[0] != "t1" {
		t.Fatalf("worker cancel not issued: %v", worker.cancelled)
	}
	if _, active := coord.Active(); active {
		t.Fatal("tracking should stop on acked cancel")
	}

	count := worker.pollCount("t1")
	time.Sleep(10 * testInterval)
	if worker.pollCount("t1") > count+1 {
		t.Fatalf("polling continued after cancel: %d -> %d", count, worker.pollCount("t1"))
	}
}

func TestCancelRejectionKeepsTracking(t *testing.T) {
	worker := newFakeWorker("t1")
	worker.cancelErr = errors.New("worker refused")
	worker.script("t1", running(5))
	listener := newRecordingListener()
	coord := newCoordinator(worker, listener)

	if _, err := coord.Submit(context.Background(), "a.mp4", transcode.Options{
		Format: "mp4", Quality: "high", SpeedPreset: "fast",
	}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	listener.waitProgress(t)

	if _, err := coord.Cancel(context.Background()); err == nil {
		t.Fatal("expected cancel rejection error")
	}
	if _, active := coord.Active(); !active {
		t.Fatal("rejected cancel must keep tracking")
	}

	// Polling continues after the rejected cancel.
	listener.waitProgress(t)
	coord.Abandon()
}

func TestResubmitAbandonsPreviousTracking(t *testing.T) {
	worker := newFakeWorker("t1")
	worker.script("t1", running(10), running(11), running(12), running(13))
	listener := newRecordingListener()
	coord := newCoordinator(worker, listener)

	opts := transcode.Options{Format: "mp4", Quality: "high", SpeedPreset: "fast"}
	if _, err := coord.Submit(context.Background(), "a.mp4", opts); err != nil {
		t.Fatalf("first Submit failed: %v", err)
	}
	listener.waitProgress(t)

	worker.mu.Lock()
	worker.submitID = "t2"
	worker.mu.Unlock()
	worker.script("t2", running(1), completed())

	if _, err := coord.Submit(context.Background(), "b.mp4", opts); err != nil {
		t.Fatalf("second Submit failed: %v", err)
	}

	terminal := listener.waitTerminal(t)
	if terminal.ID != "t2" || terminal.State != transcode.StateCompleted {
		t.Fatalf("unexpected terminal: %+v", terminal)
	}

	// The abandoned job never produces a terminal and its poll loop stops.
	count := worker.pollCount("t1")
	time.Sleep(10 * testInterval)
	if worker.pollCount("t1") > count+1 {
		t.Fatal("abandoned job is still being polled")
	}
	select {
	case job := <-listener.terminal:
		t.Fatalf("terminal emitted for abandoned job: %+v", job)
	default:
	}
}

func TestAbandonEmitsNoTerminal(t *testing.T) {
	worker := newFakeWorker("t1")
	worker.script("t1", running(10))
	listener := newRecordingListener()
	coord := newCoordinator(worker, listener)

	if _, err := coord.Submit(context.Background(), "a.mp4", transcode.Options{
		Format: "mp4", Quality: "high", SpeedPreset: "fast",
	}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	listener.waitProgress(t)

	coord.Abandon()
	if _, active := coord.Active(); active {
		t.Fatal("abandon should clear tracking")
	}

	time.Sleep(10 * testInterval)
	select {
	case job := <-listener.terminal:
		t.Fatalf("abandon must not emit a terminal: %+v", job)
	default:
	}
}

func TestSubmitFailureTracksNothing(t *testing.T) {
	worker := newFakeWorker("")
	worker.submitErr = errors.New("worker down")
	coord := newCoordinator(worker, newRecordingListener())

	if _, err := coord.Submit(context.Background(), "a.mp4", transcode.Options{
		Format: "mp4", Quality: "high", SpeedPreset: "fast",
	}); err == nil {
		t.Fatal("expected submit error")
	}
	if _, active := coord.Active(); active {
		t.Fatal("failed submit must not track")
	}
}

func TestSubmitRejectsInvalidSelection(t *testing.T) {
	worker := newFakeWorker("t1")
	coord := newCoordinator(worker, newRecordingListener())

	_, err := coord.Submit(context.Background(), "a.mp4", transcode.Options{
		Format: "avi", Quality: "high", SpeedPreset: "fast",
	})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

type failingCatalog struct{}

func (failingCatalog) Catalog(ctx context.Context) (workerapi.CatalogPayload, error) {
	return workerapi.CatalogPayload{}, errors.New("worker unreachable")
}

func TestSubmitWithoutCatalogFails(t *testing.T) {
	worker := newFakeWorker("t1")
	loader := catalog.NewLoader(failingCatalog{}, nil)
	coord := coordinator.New(worker, loader, newRecordingListener(), testInterval, nil)

	_, err := coord.Submit(context.Background(), "a.mp4", transcode.Options{
		Format: "mp4", Quality: "high", SpeedPreset: "fast",
	})
	if !errors.Is(err, services.ErrUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
	if _, active := coord.Active(); active {
		t.Fatal("no job may be tracked without a catalog")
	}
}

func TestWatchExistingJob(t *testing.T) {
	worker := newFakeWorker("ignored")
	worker.script("t9", completed())
	listener := newRecordingListener()
	coord := newCoordinator(worker, listener)

	if err := coord.Watch("t9"); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	terminal := listener.waitTerminal(t)
	if terminal.ID != "t9" || terminal.State != transcode.StateCompleted {
		t.Fatalf("unexpected terminal: %+v", terminal)
	}
}

func TestWatchRejectsEmptyID(t *testing.T) {
	coord := newCoordinator(newFakeWorker(""), newRecordingListener())
	if err := coord.Watch(""); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

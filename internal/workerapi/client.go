package workerapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"transcodectl/internal/config"
	"transcodectl/internal/logging"
	"transcodectl/internal/media"
	"transcodectl/internal/services"
)

const userAgent = "transcodectl/0.1.0"

// HTTPDoer describes the HTTP client used by the worker client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client calls the remote transcode worker's JSON API.
type Client struct {
	baseURL  string
	password string
	client   HTTPDoer
	logger   *slog.Logger
}

// New constructs a worker client. A nil doer falls back to
// http.DefaultClient; a nil logger discards records.
func New(baseURL, password string, doer HTTPDoer, logger *slog.Logger) *Client {
	if doer == nil {
		doer = http.DefaultClient
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Client{
		baseURL:  strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		password: password,
		client:   doer,
		logger:   logging.WithComponent(logger, "workerapi"),
	}
}

// NewFromConfig constructs a worker client with a timeout-bounded HTTP client.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) *Client {
	timeout := time.Duration(cfg.Worker.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return New(cfg.Worker.URL, cfg.Worker.Password, &http.Client{Timeout: timeout}, logger)
}

// Catalog fetches the worker's capability descriptor.
func (c *Client) Catalog(ctx context.Context) (CatalogPayload, error) {
	var resp struct {
		envelope
		Data CatalogPayload `json:"data"`
	}
	body := struct {
		Password string `json:"password"`
	}{c.password}
	if err := c.post(ctx, "/api/getTranscodeFormats", body, &resp); err != nil {
		return CatalogPayload{}, err
	}
	if err := c.checkEnvelope(resp.envelope, "load catalog"); err != nil {
		return CatalogPayload{}, err
	}
	return resp.Data, nil
}

// VideoInfo probes a source file. One shot: no retry, no caching.
func (c *Client) VideoInfo(ctx context.Context, fileRef string) (media.Info, error) {
	var resp struct {
		envelope
		Data media.Info `json:"data"`
	}
	body := struct {
		Password string `json:"password"`
		FilePath string `json:"file_path"`
	}{c.password, fileRef}
	if err := c.post(ctx, "/api/getVideoInfo", body, &resp); err != nil {
		return media.Info{}, err
	}
	if err := c.checkEnvelope(resp.envelope, "probe media"); err != nil {
		return media.Info{}, err
	}
	return resp.Data, nil
}

// Submit starts a transcode job and returns the worker-assigned job ID.
func (c *Client) Submit(ctx context.Context, req SubmitRequest) (string, error) {
	var resp struct {
		envelope
		TranscodeID string `json:"transcode_id"`
	}
	body := struct {
		Password string `json:"password"`
		SubmitRequest
	}{c.password, req}
	if err := c.post(ctx, "/api/startTranscode", body, &resp); err != nil {
		return "", err
	}
	if err := c.checkEnvelope(resp.envelope, "submit job"); err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.TranscodeID) == "" {
		return "", services.Wrap(services.ErrTransient, "workerapi", "submit job", "worker returned no job id", nil)
	}
	return resp.TranscodeID, nil
}

// Progress fetches one status snapshot for a job. An unrecognized job ID
// returns an error matching services.ErrNotFound.
func (c *Client) Progress(ctx context.Context, jobID string) (ProgressSnapshot, error) {
	var resp struct {
		envelope
		Data ProgressSnapshot `json:"data"`
	}
	body := struct {
		Password    string `json:"password"`
		TranscodeID string `json:"transcode_id"`
	}{c.password, jobID}
	if err := c.post(ctx, "/api/getTranscodeProgress", body, &resp); err != nil {
		return ProgressSnapshot{}, err
	}
	if err := c.checkEnvelope(resp.envelope, "poll progress"); err != nil {
		return ProgressSnapshot{}, err
	}
	return resp.Data, nil
}

// Cancel requests cancellation of a job. The worker acks without waiting for
// the encode to actually stop.
func (c *Client) Cancel(ctx context.Context, jobID string) error {
	var resp struct {
		envelope
	}
	body := struct {
		Password    string `json:"password"`
		TranscodeID string `json:"transcode_id"`
	}{c.password, jobID}
	if err := c.post(ctx, "/api/cancelTranscode", body, &resp); err != nil {
		return err
	}
	return c.checkEnvelope(resp.envelope, "cancel job")
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build worker request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTransient, "workerapi", path, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return services.Wrap(services.ErrTransient, "workerapi", path, fmt.Sprintf("worker returned HTTP %d", resp.StatusCode), nil)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return services.Wrap(services.ErrTransient, "workerapi", path, "read response", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return services.Wrap(services.ErrTransient, "workerapi", path, "decode response", err)
	}
	return nil
}

// checkEnvelope maps the response discriminator onto the error taxonomy.
func (c *Client) checkEnvelope(env envelope, operation string) error {
	switch env.Status {
	case statusOK:
		return nil
	case statusNotFound:
		return services.Wrap(services.ErrNotFound, "workerapi", operation, "worker does not recognize the job", nil)
	default:
		message := strings.TrimSpace(env.Message)
		if message == "" {
			message = strings.TrimSpace(env.Status)
		}
		if message == "" {
			message = "worker reported an unspecified error"
		}
		c.logger.Debug("worker rejected request", logging.String("operation", operation), logging.String("reason", message))
		return fmt.Errorf("worker: %s: %s", operation, message)
	}
}

// Package client is the Go client for a bindr-server instance: a fluent
// builder for model configs plus HTTP wrappers for the model, run,
// trajectory and notifier endpoints.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/alanderos91/BindrTest/internal/lattice"
)

// ModelBuilder provides a fluent API for assembling a ModelConfig. Rules
// are plain rule text (`A + B --> C + D, rate_name`); parameters are bound
// in the order Param is called.
type ModelBuilder struct {
	cfg lattice.ModelConfig
}

// NewModel creates a model builder with the given name.
func NewModel(name string) *ModelBuilder {
	return &ModelBuilder{cfg: lattice.ModelConfig{Name: name}}
}

// Rule appends one interaction rule line.
func (b *ModelBuilder) Rule(text string) *ModelBuilder {
	b.cfg.Rules = append(b.cfg.Rules, text)
	return b
}

// Param declares the next rate parameter and its value. Call order defines
// the parameter order rules are checked against.
func (b *ModelBuilder) Param(name string, value float64) *ModelBuilder {
	b.cfg.RateNames = append(b.cfg.RateNames, name)
	b.cfg.Params = append(b.cfg.Params, value)
	return b
}

// Topology selects the neighborhood shape ("nearest-neighbor" or
// "hexagonal") and dimensionality.
func (b *ModelBuilder) Topology(shape string, dim int) *ModelBuilder {
	b.cfg.Topology = lattice.TopologyConfig{Shape: shape, Dim: dim}
	return b
}

// Bounds declares an inclusive domain limit.
func (b *ModelBuilder) Bounds(minX, minY, minZ, maxX, maxY, maxZ int) *ModelBuilder {
	b.cfg.Bounds = &lattice.BoundsConfig{
		Min: lattice.CoordConfig{X: minX, Y: minY, Z: minZ},
		Max: lattice.CoordConfig{X: maxX, Y: maxY, Z: maxZ},
	}
	return b
}

// Site places a symbol at a coordinate of the initial condition.
func (b *ModelBuilder) Site(x, y, z int, symbol string) *ModelBuilder {
	b.cfg.Initial = append(b.cfg.Initial, lattice.SiteConfig{
		CoordConfig: lattice.CoordConfig{X: x, Y: y, Z: z},
		Symbol:      symbol,
	})
	return b
}

// Barrier pins a coordinate permanently to a barrier symbol.
func (b *ModelBuilder) Barrier(x, y, z int, symbol string) *ModelBuilder {
	b.cfg.Barriers = append(b.cfg.Barriers, lattice.SiteConfig{
		CoordConfig: lattice.CoordConfig{X: x, Y: y, Z: z},
		Symbol:      symbol,
	})
	return b
}

// Algorithm selects "direct" or "first-reaction".
func (b *ModelBuilder) Algorithm(name string) *ModelBuilder {
	b.cfg.Algorithm = name
	return b
}

// FinalTime sets the simulation horizon.
func (b *ModelBuilder) FinalTime(t float64) *ModelBuilder {
	b.cfg.FinalTime = t
	return b
}

// SampleCount requests n uniform checkpoints over (0, final_time].
func (b *ModelBuilder) SampleCount(n int) *ModelBuilder {
	b.cfg.SampleCount = n
	return b
}

// SampleTimes requests explicit checkpoint times.
func (b *ModelBuilder) SampleTimes(times ...float64) *ModelBuilder {
	b.cfg.SampleTimes = append(b.cfg.SampleTimes, times...)
	return b
}

// Seed fixes the random seed for reproducible runs.
func (b *ModelBuilder) Seed(seed int64) *ModelBuilder {
	b.cfg.Seed = &seed
	return b
}

// MaxEvents bounds the number of events per run.
func (b *ModelBuilder) MaxEvents(n int) *ModelBuilder {
	b.cfg.MaxEvents = n
	return b
}

// Build returns the assembled config.
func (b *ModelBuilder) Build() lattice.ModelConfig {
	return b.cfg
}

// StartRunRequest starts a run of a registered model with optional
// overrides.
type StartRunRequest struct {
	Model       string    `json:"model"`
	Algorithm   string    `json:"algorithm,omitempty"`
	FinalTime   float64   `json:"final_time,omitempty"`
	SampleTimes []float64 `json:"sample_times,omitempty"`
	SampleCount int       `json:"sample_count,omitempty"`
	Seed        *int64    `json:"seed,omitempty"`
	Notify      []string  `json:"notify,omitempty"`
}

// RunInfo is the status of one run as reported by the server.
type RunInfo struct {
	RunID     string  `json:"run_id"`
	Model     string  `json:"model"`
	Status    string  `json:"status"`
	Events    int     `json:"events,omitempty"`
	FinalTime float64 `json:"final_time,omitempty"`
	Error     string  `json:"error,omitempty"`
}

// Terminal reports whether the run status is a terminal outcome.
func (ri RunInfo) Terminal() bool {
	switch ri.Status {
	case "completed", "sample-exhausted", "cancelled", "failed":
		return true
	}
	return false
}

// Client talks to a bindr-server instance.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the server at baseURL (e.g.
// "http://localhost:8080").
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// Health checks the server's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

// RegisterModel validates and stores a model config on the server.
func (c *Client) RegisterModel(ctx context.Context, cfg lattice.ModelConfig) error {
	return c.do(ctx, http.MethodPost, "/models", cfg, nil)
}

// ListModels returns the registered model names.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	var out struct {
		Models []string `json:"models"`
	}
	if err := c.do(ctx, http.MethodGet, "/models", nil, &out); err != nil {
		return nil, err
	}
	return out.Models, nil
}

// StartRun starts a run and returns its ID.
func (c *Client) StartRun(ctx context.Context, req StartRunRequest) (string, error) {
	var out struct {
		RunID string `json:"run_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/runs", req, &out); err != nil {
		return "", err
	}
	return out.RunID, nil
}

// GetRun returns the status of one run.
func (c *Client) GetRun(ctx context.Context, runID string) (RunInfo, error) {
	var out RunInfo
	if err := c.do(ctx, http.MethodGet, "/runs/"+runID, nil, &out); err != nil {
		return RunInfo{}, err
	}
	return out, nil
}

// ListRuns returns the status of every run the server knows about.
func (c *Client) ListRuns(ctx context.Context) ([]RunInfo, error) {
	var out struct {
		Runs []RunInfo `json:"runs"`
	}
	if err := c.do(ctx, http.MethodGet, "/runs", nil, &out); err != nil {
		return nil, err
	}
	return out.Runs, nil
}

// CancelRun requests cooperative cancellation; the partial trajectory stays
// available.
func (c *Client) CancelRun(ctx context.Context, runID string) error {
	return c.do(ctx, http.MethodPost, "/runs/"+runID+"/cancel", nil, nil)
}

// DeleteRun cancels (if needed) and removes a run.
func (c *Client) DeleteRun(ctx context.Context, runID string) error {
	return c.do(ctx, http.MethodDelete, "/runs/"+runID, nil, nil)
}

// Trajectory fetches the recorded samples of a terminal run.
func (c *Client) Trajectory(ctx context.Context, runID string) ([]lattice.Sample, error) {
	var out struct {
		Samples []lattice.Sample `json:"samples"`
	}
	if err := c.do(ctx, http.MethodGet, "/runs/"+runID+"/trajectory", nil, &out); err != nil {
		return nil, err
	}
	return out.Samples, nil
}

// RegisterWebhook registers a webhook notifier on the server.
func (c *Client) RegisterWebhook(ctx context.Context, id, url string) error {
	body := map[string]string{"type": "webhook", "id": id, "url": url}
	return c.do(ctx, http.MethodPost, "/notifiers", body, nil)
}

// ListNotifiers returns the registered notifier IDs.
func (c *Client) ListNotifiers(ctx context.Context) ([]string, error) {
	var out struct {
		Notifiers []string `json:"notifiers"`
	}
	if err := c.do(ctx, http.MethodGet, "/notifiers", nil, &out); err != nil {
		return nil, err
	}
	return out.Notifiers, nil
}

// WaitForRun polls until the run reaches a terminal status or the context
// is cancelled.
func (c *Client) WaitForRun(ctx context.Context, runID string, poll time.Duration) (RunInfo, error) {
	if poll <= 0 {
		poll = 200 * time.Millisecond
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()
	for {
		info, err := c.GetRun(ctx, runID)
		if err != nil {
			return RunInfo{}, err
		}
		if info.Terminal() {
			return info, nil
		}
		select {
		case <-ctx.Done():
			return info, ctx.Err()
		case <-ticker.C:
		}
	}
}

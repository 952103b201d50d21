package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"log/slog"

	"github.com/ollama/ollama/api"

	"github.com/communityforge/sprint/internal/config"
)

var ErrCircuitOpen = errors.New("ollama circuit open")

// Client wraps the Ollama API client and adds retries, timeout, and circuit breaker.
type Client struct {
	api    *api.Client
	cfg    config.OllamaConfig
	client *http.Client

	// simple circuit breaker state
	failures  int32
	openUntil int64 // unix nano
	closed    int32 // atomic flag for Close()
}

// GenerateResult is a typed representation of a model response.
type GenerateResult struct {
	Text string         `json:"text"`
	Meta map[string]any `json:"meta,omitempty"`
}

// NewClient creates a new Ollama client wrapper.
func NewClient(cfg config.OllamaConfig, httpClient *http.Client) (*Client, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	u, err := url.ParseRequestURI(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	c := &Client{
		api:    api.NewClient(u, httpClient),
		cfg:    cfg,
		client: httpClient,
	}
	logger.Info("ollama: client created", slog.String("base_url", cfg.BaseURL), slog.Duration("timeout", cfg.Timeout))
	return c, nil
}

func NewDefaultClient(cfg config.OllamaConfig) (*Client, error) {
	defaultClient := &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 15 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}

	return NewClient(cfg, defaultClient)
}

// package-level logger for pkg/ollama; can be replaced by callers
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger sets the logger used by pkg/ollama. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

func (c *Client) isCircuitOpen() bool {
	if atomic.LoadInt32(&c.failures) < int32(c.cfg.CircuitFailureThreshold) {
		return false
	}

	if time.Now().UnixNano() < atomic.LoadInt64(&c.openUntil) {
		return true
	}

	// attempt half-open: reset failures and allow a request
	atomic.StoreInt32(&c.failures, 0)
	return false
}

func (c *Client) recordFailure() {
	v := atomic.AddInt32(&c.failures, 1)
	if v >= int32(c.cfg.CircuitFailureThreshold) {
		atomic.StoreInt64(&c.openUntil, time.Now().Add(c.cfg.CircuitReset).UnixNano())
	}
}

// Close releases any resources held by the client. It closes idle
// connections on the underlying HTTP transport when supported and is
// idempotent.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return nil
	}
	if c.client != nil && c.client.Transport != nil {
		if tr, ok := c.client.Transport.(interface{ CloseIdleConnections() }); ok {
			tr.CloseIdleConnections()
		}
	}
	return nil
}

// Generate sends a prompt to the model and returns the concatenated response
// text. Transient failures are retried with linear backoff; repeated
// failures open the circuit.
func (c *Client) Generate(ctx context.Context, model string, prompt string) (GenerateResult, error) {
	var lastErr error
	var empty GenerateResult
	if c.isCircuitOpen() {
		return empty, ErrCircuitOpen
	}

	for attempt := 0; attempt <= c.cfg.Retries; attempt++ {
		ctxReq, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
		req := &api.GenerateRequest{Model: model, Prompt: prompt}
		var sb strings.Builder
		start := time.Now()
		err := c.api.Generate(ctxReq, req, func(r api.GenerateResponse) error {
			sb.WriteString(r.Response)
			return nil
		})
		cancel()
		latency := time.Since(start)

		if err == nil {
			atomic.StoreInt32(&c.failures, 0)
			meta := map[string]any{"model": model, "latency_ms": latency.Milliseconds()}
			return GenerateResult{Text: sb.String(), Meta: meta}, nil
		}

		lastErr = err
		c.recordFailure()

		time.Sleep(c.cfg.Backoff * time.Duration(attempt+1))
		if c.isCircuitOpen() {
			return empty, ErrCircuitOpen
		}
	}

	return empty, fmt.Errorf("generate failed after retries: %w", lastErr)
}

// Health pings the Ollama instance by requesting info about models.
func (c *Client) Health(ctx context.Context) error {
	if c.isCircuitOpen() {
		return ErrCircuitOpen
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	models, err := c.ListModels(ctx)
	if err != nil {
		c.recordFailure()
		return fmt.Errorf("health check failed: %w", err)
	}
	if len(models) == 0 {
		c.recordFailure()
		return fmt.Errorf("health check failed: no models returned")
	}

	atomic.StoreInt32(&c.failures, 0)
	return nil
}

// ModelInfo is a lightweight model descriptor returned by ListModels.
type ModelInfo struct {
	Name string `json:"name"`
}

// ListModels calls the Ollama tags endpoint and returns basic model info.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	if c.isCircuitOpen() {
		return nil, ErrCircuitOpen
	}

	base, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	u := base.ResolveReference(&url.URL{Path: "/api/tags"})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		c.recordFailure()
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.recordFailure()
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.recordFailure()
		return nil, fmt.Errorf("list models: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Models []ModelInfo `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.recordFailure()
		return nil, err
	}

	atomic.StoreInt32(&c.failures, 0)
	return body.Models, nil
}

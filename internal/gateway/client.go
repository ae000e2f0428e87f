// Package gateway runs schema-constrained completions against the AI gateway:
// the model is forced to answer by calling exactly one declared tool.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"fitness-insights-go/internal/logger"
	"fitness-insights-go/internal/prompt"
	"fitness-insights-go/internal/telemetry"
)

const (
	defaultTimeout = 30 * time.Second
	maxBodyLog     = 512
)

type Config struct {
	URL     string
	APIKey  string
	Model   string
	Timeout time.Duration
	// MaxRetries > 0 retries transport errors and 5xx replies with
	// exponential backoff. Zero means a single attempt.
	MaxRetries uint64
}

// ToolCall is the decoded invocation returned by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]any
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *logger.Logger
}

func NewClient(cfg Config, log *logger.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.WithComponent("gateway"),
	}
}

// Call sends p and returns the model's invocation of p.Tool.
func (c *Client) Call(ctx context.Context, p prompt.Prompt) (*ToolCall, error) {
	log := c.log.WithField("tool", p.Tool.Name)

	if c.cfg.APIKey == "" {
		c.record(p.Tool.Name, ErrNotConfigured)
		return nil, ErrNotConfigured
	}

	data, err := json.Marshal(buildChatRequest(c.cfg.Model, p))
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	log.WithField("payload_len", len(data)).Debug("sending structured completion")

	start := time.Now()
	var call *ToolCall
	op := func() error {
		var err error
		call, err = c.do(ctx, data, p.Tool.Name, log)
		return err
	}
	notify := func(err error, wait time.Duration) {
		log.WithField("retry_in", wait.String()).WithField("error", err.Error()).Warn("gateway call failed, retrying")
	}

	err = backoff.RetryNotify(op, c.backoff(ctx), notify)
	telemetry.Observe(telemetry.GatewayLatency, prometheus.Labels{"tool": p.Tool.Name}, time.Since(start).Seconds())
	c.record(p.Tool.Name, err)
	if err != nil {
		log.WithField("duration_ms", time.Since(start).Milliseconds()).WithField("error", err.Error()).Warn("gateway call failed")
		return nil, err
	}

	log.WithField("duration_ms", time.Since(start).Milliseconds()).Info("structured result received")
	return call, nil
}

func (c *Client) do(ctx context.Context, data []byte, tool string, log *logrus.Entry) (*ToolCall, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(data))
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("%w: build request: %v", ErrGateway, err))
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(fmt.Errorf("%w: %v", ErrGateway, err))
		}
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrGateway, err)
	}
	log.WithField("http_status", resp.StatusCode).Debug("gateway replied")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), maxBodyLog)}
		if resp.StatusCode >= 500 {
			return nil, statusErr
		}
		return nil, backoff.Permanent(statusErr)
	}

	call, err := parseToolCall(body, tool)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	return call, nil
}

func (c *Client) backoff(ctx context.Context) backoff.BackOff {
	var b backoff.BackOff = &backoff.StopBackOff{}
	if c.cfg.MaxRetries > 0 {
		exp := backoff.NewExponentialBackOff()
		exp.MaxElapsedTime = c.cfg.Timeout * time.Duration(c.cfg.MaxRetries+1)
		b = backoff.WithMaxRetries(exp, c.cfg.MaxRetries)
	}
	return backoff.WithContext(b, ctx)
}

func (c *Client) record(tool string, err error) {
	telemetry.Inc(telemetry.GatewayCalls, prometheus.Labels{"tool": tool, "outcome": Outcome(err)})
}

// Outcome is a short label for err, used in metrics.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrQuotaExhausted):
		return "quota_exhausted"
	case errors.Is(err, ErrNoToolCall):
		return "no_tool_call"
	case errors.Is(err, ErrMalformedResult):
		return "malformed"
	default:
		return "error"
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

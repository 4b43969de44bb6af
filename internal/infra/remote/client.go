package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"appship/internal/domain"
	"appship/internal/infra/telemetry"
)

const maxErrorBodyBytes = 64 * 1024

// CredentialResolver supplies the active credential for each request.
type CredentialResolver interface {
	Resolve() (domain.Credential, bool)
}

type ClientConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Client talks to the Appship HTTP API.
type Client struct {
	baseURL     string
	userAgent   string
	http        *http.Client
	credentials CredentialResolver
	logger      *zap.Logger
	metrics     domain.Metrics
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

func WithMetrics(metrics domain.Metrics) Option {
	return func(c *Client) {
		if metrics != nil {
			c.metrics = metrics
		}
	}
}

func NewClient(cfg ClientConfig, credentials CredentialResolver, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = domain.DefaultAPIBaseURL
	}
	c := &Client{
		baseURL:     baseURL,
		userAgent:   cfg.UserAgent,
		http:        &http.Client{Timeout: cfg.Timeout},
		credentials: credentials,
		logger:      logger.Named("remote"),
		metrics:     domain.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

type request struct {
	op       string
	method   string
	endpoint string
	body     any
	// required lists the top-level fields a success body must carry.
	required []string
}

// call sends an authenticated request and decodes the success body into out.
func (c *Client) call(ctx context.Context, req request, out any) error {
	cred, ok := c.resolve()
	if !ok {
		return domain.E(domain.CodeUnauthenticated, req.op, "Not authenticated. Run 'appship login' first.", domain.ErrNotAuthenticated)
	}
	resp, err := c.send(ctx, req, cred.SecretKey)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.applicationError(req, resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.E(domain.CodeUnavailable, req.op, "", fmt.Errorf("read response: %w", err))
	}
	if err := decodeStrict(data, out, req.required...); err != nil {
		c.logger.Warn("malformed response",
			telemetry.EventField(telemetry.EventRemoteFailure),
			telemetry.EndpointField(req.endpoint),
			zap.Error(err),
		)
		return domain.E(domain.CodeProtocol, req.op, "", err)
	}
	return nil
}

func (c *Client) resolve() (domain.Credential, bool) {
	if c.credentials == nil {
		return domain.Credential{}, false
	}
	cred, ok := c.credentials.Resolve()
	if !ok || cred.IsZero() {
		return domain.Credential{}, false
	}
	return cred, true
}

func (c *Client) send(ctx context.Context, req request, secret string) (*http.Response, error) {
	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return nil, domain.E(domain.CodeUnexpected, req.op, "", fmt.Errorf("encode request: %w", err))
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.endpoint, body)
	if err != nil {
		return nil, domain.E(domain.CodeUnexpected, req.op, "", fmt.Errorf("build request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(domain.APIKeyHeader, secret)
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	if requestID, ok := telemetry.RequestIDFromContext(ctx); ok {
		httpReq.Header.Set(domain.RequestIDHeader, requestID)
	}

	logger := telemetry.LoggerForCall(ctx, c.logger)
	start := time.Now()
	resp, err := c.http.Do(httpReq)
	duration := time.Since(start)
	if err != nil {
		c.metrics.ObserveRemoteRequest(req.endpoint, "error", duration)
		logger.Warn("remote request failed",
			telemetry.EventField(telemetry.EventRemoteFailure),
			telemetry.EndpointField(req.endpoint),
			telemetry.DurationField(duration),
			zap.Error(err),
		)
		code := domain.CodeUnavailable
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			code = domain.CodeCanceled
		}
		return nil, domain.E(code, req.op, "", err)
	}
	c.metrics.ObserveRemoteRequest(req.endpoint, strconv.Itoa(resp.StatusCode), duration)
	logger.Debug("remote request",
		telemetry.EventField(telemetry.EventRemoteRequest),
		telemetry.EndpointField(req.endpoint),
		telemetry.StatusField(resp.StatusCode),
		telemetry.DurationField(duration),
	)
	return resp, nil
}

// applicationError builds the error for a non-success status, preferring the
// remote "error" field and falling back to the HTTP status text.
func (c *Client) applicationError(req request, resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	message := statusText(resp)
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
		message = payload.Error
	}
	return &domain.Error{
		Code:      domain.CodeApplication,
		Op:        req.op,
		Message:   message,
		Status:    resp.StatusCode,
		Retryable: resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500,
	}
}

func statusText(resp *http.Response) string {
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", resp.StatusCode)
}

// decodeStrict requires a JSON object carrying every required field with a
// non-null value before decoding it into out.
func decodeStrict(data []byte, out any, required ...string) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if fields == nil {
		return errors.New("decode response: body is null")
	}
	var missing []string
	for _, name := range required {
		raw, ok := fields[name]
		if !ok || string(raw) == "null" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("response missing required fields: %s", strings.Join(missing, ", "))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

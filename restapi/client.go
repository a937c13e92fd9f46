// Package restapi wraps the bridge server's REST surface. It shares endpoint
// configuration with bridgeclient but talks plain HTTP: the API key travels
// as a bearer header, requests take a per-call context, and idempotent reads
// retry transient failures with backoff.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/c360/bridgelink/bridgeclient"
	"github.com/c360/bridgelink/errors"
	"github.com/c360/bridgelink/pkg/retry"
)

const (
	// DefaultTimeout bounds one request round trip, body read included.
	DefaultTimeout = 15 * time.Second

	// DefaultStreamRedialDelay is the pause before reopening a dropped
	// stats stream.
	DefaultStreamRedialDelay = 2 * time.Second
)

// Client issues requests against one bridge server's REST API.
type Client struct {
	cfg     bridgeclient.Config
	baseURL *url.URL
	logger  *slog.Logger

	// httpClient carries the request timeout. streamClient is the same
	// transport without it; an SSE response stays open indefinitely.
	httpClient   *http.Client
	streamClient *http.Client

	retryCfg    retry.Config
	redialDelay time.Duration
}

// Option configures a Client during construction.
type Option func(*Client) error

// WithLogger sets the logger. A nil logger selects slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// WithHTTPClient replaces the underlying HTTP client. Nil keeps the default.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc != nil {
			c.httpClient = hc
		}
		return nil
	}
}

// WithTimeout sets the per-request timeout. Non-positive values keep the
// default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d > 0 {
			c.httpClient.Timeout = d
		}
		return nil
	}
}

// WithRetry sets the backoff policy for GET requests. MaxAttempts 1 disables
// retries. Negative durations are treated as unset.
func WithRetry(cfg retry.Config) Option {
	return func(c *Client) error {
		if cfg.MaxAttempts < 1 {
			cfg.MaxAttempts = 1
		}
		if cfg.InitialDelay < 0 {
			cfg.InitialDelay = 0
		}
		if cfg.MaxDelay < 0 {
			cfg.MaxDelay = 0
		}
		c.retryCfg = cfg
		return nil
	}
}

// WithStreamRedialDelay sets the pause before a dropped stats stream is
// reopened. Non-positive values keep the default.
func WithStreamRedialDelay(d time.Duration) Option {
	return func(c *Client) error {
		if d > 0 {
			c.redialDelay = d
		}
		return nil
	}
}

// New builds a REST client for the bridge endpoint described by cfg.
func New(cfg bridgeclient.Config, opts ...Option) (*Client, error) {
	if cfg.Port == 0 {
		cfg.Port = bridgeclient.DefaultPort
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base, err := url.Parse(cfg.HTTPURL())
	if err != nil {
		return nil, errors.WrapInvalid(err, "restapi", "New", "parse base URL")
	}

	c := &Client{
		cfg:     cfg,
		baseURL: base,
		logger:  slog.Default(),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		retryCfg: retry.Config{
			MaxAttempts:  3,
			InitialDelay: 200 * time.Millisecond,
			MaxDelay:     2 * time.Second,
			Multiplier:   2.0,
			AddJitter:    true,
		},
		redialDelay: DefaultStreamRedialDelay,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, errors.WrapInvalid(err, "restapi", "New", "apply option")
		}
	}

	c.logger = c.logger.With("bridge", net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)))

	sc := *c.httpClient
	sc.Timeout = 0
	c.streamClient = &sc

	return c, nil
}

// Config returns the endpoint configuration the client was built with.
func (c *Client) Config() bridgeclient.Config {
	return c.cfg
}

// get issues a GET and retries transient failures per the client's retry
// policy. Auth and client errors fail on the first attempt.
func (c *Client) get(ctx context.Context, op, path string, query url.Values, out any) error {
	err := retry.Do(ctx, c.retryCfg, func() error {
		if err := c.do(ctx, op, http.MethodGet, path, query, nil, out); err != nil {
			if !errors.IsTransient(err) {
				return retry.NonRetryable(err)
			}
			return err
		}
		return nil
	})
	var nre *retry.NonRetryableError
	if stderrors.As(err, &nre) {
		return nre.Err
	}
	return err
}

// post issues a POST exactly once. Bridge actions are not idempotent.
func (c *Client) post(ctx context.Context, op, path string, body, out any) error {
	return c.do(ctx, op, http.MethodPost, path, nil, body, out)
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, reqBody, out any) error {
	ref, err := url.Parse(path)
	if err != nil {
		return errors.WrapInvalid(err, "restapi", op, "build request URL")
	}
	if len(query) > 0 {
		ref.RawQuery = query.Encode()
	}
	endpoint := c.baseURL.ResolveReference(ref)

	var body io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return errors.WrapInvalid(err, "restapi", op, "encode request body")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return errors.WrapInvalid(err, "restapi", op, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.WrapTransient(err, "restapi", op, method+" "+path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapTransient(err, "restapi", op, "read response")
	}

	c.logger.Debug("Bridge API response",
		"method", method,
		"path", path,
		"status", resp.StatusCode)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return statusError(op, resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.WrapInvalid(err, "restapi", op, "decode response")
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
}

// statusError maps a non-2xx answer onto the sentinel the status code
// implies, carrying the server's error text. 5xx answers classify as
// transient so reads get retried; everything else fails fast.
func statusError(op string, code int, body []byte) error {
	msg := serverMessage(code, body)
	switch {
	case code == http.StatusUnauthorized:
		return errors.WrapFatal(
			fmt.Errorf("%w: %s", errors.ErrUnauthorized, msg),
			"restapi", op, "authorize")
	case code == http.StatusForbidden:
		return errors.WrapFatal(
			fmt.Errorf("%w: %s", errors.ErrFeatureDisabled, msg),
			"restapi", op, "request")
	case code == http.StatusNotFound:
		return errors.WrapInvalid(
			fmt.Errorf("%w: %s", errors.ErrRecordNotFound, msg),
			"restapi", op, "request")
	case code >= http.StatusInternalServerError:
		return errors.WrapTransient(
			fmt.Errorf("%w (HTTP %d): %s", errors.ErrRequestFailed, code, msg),
			"restapi", op, "request")
	default:
		return errors.WrapInvalid(
			fmt.Errorf("%w (HTTP %d): %s", errors.ErrRequestFailed, code, msg),
			"restapi", op, "request")
	}
}

// serverMessage extracts the description from the bridge's {"error": ...}
// body, falling back to the raw body or the status text.
func serverMessage(code int, body []byte) string {
	var eb struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &eb); err == nil && eb.Error != "" {
		return eb.Error
	}
	if len(bytes.TrimSpace(body)) > 0 {
		return string(bytes.TrimSpace(body))
	}
	return http.StatusText(code)
}

// Package tarsapi is the HTTP client for the TARS backend service. Each
// method performs exactly one outbound request and reports failures as
// *Error.
package tarsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const DefaultTimeout = 30 * time.Second

// Observer is notified after every outbound call.
type Observer interface {
	ObserveCall(op, outcome string, elapsed time.Duration)
}

// Call outcomes reported to the Observer.
const (
	OutcomeSuccess        = "success"
	OutcomeUpstreamError  = "upstream_error"
	OutcomeTransportError = "transport_error"
	OutcomeDecodeError    = "decode_error"
)

type Client struct {
	baseURL  string
	http     *http.Client
	timeout  time.Duration
	observer Observer
	log      zerolog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New returns a Client for the backend at baseURL. Trailing slashes are
// stripped so paths can be appended verbatim.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{},
		timeout: DefaultTimeout,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalized backend address.
func (c *Client) BaseURL() string { return c.baseURL }

// Ping checks that the backend answers its index route.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Index(ctx)
	return err
}

// request describes one outbound call.
type request struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
}

// do sends req and decodes a 2xx response into out. out may be *string for
// plain-text endpoints, *json.RawMessage for passthrough, or any JSON target.
func (c *Client) do(ctx context.Context, req request, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	outcome := OutcomeSuccess
	defer func() {
		if c.observer != nil {
			c.observer.ObserveCall(req.op, outcome, time.Since(start))
		}
	}()

	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			outcome = OutcomeTransportError
			return &Error{Op: req.op, Message: err.Error(), Err: err}
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		outcome = OutcomeTransportError
		return &Error{Op: req.op, Message: err.Error(), Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		outcome = OutcomeTransportError
		c.log.Warn().Err(err).Str("op", req.op).Str("url", target).Msg("backend request failed")
		return &Error{Op: req.op, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		outcome = OutcomeTransportError
		return &Error{Op: req.op, StatusCode: resp.StatusCode, Message: err.Error(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		outcome = OutcomeUpstreamError
		apiErr := &Error{Op: req.op, StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, raw)}
		c.log.Warn().
			Str("op", req.op).
			Str("method", req.method).
			Str("url", target).
			Int("status", resp.StatusCode).
			Str("error", apiErr.Message).
			Msg("backend returned error")
		return apiErr
	}

	if err := decode(raw, out); err != nil {
		outcome = OutcomeDecodeError
		return &Error{Op: req.op, StatusCode: resp.StatusCode, Message: fmt.Sprintf("invalid response body: %v", err), Err: err}
	}

	c.log.Debug().
		Str("op", req.op).
		Str("method", req.method).
		Str("url", target).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("backend call")
	return nil
}

func decode(raw []byte, out any) error {
	switch v := out.(type) {
	case nil:
		return nil
	case *string:
		*v = text(raw)
		return nil
	case *json.RawMessage:
		*v = loose(raw)
		return nil
	default:
		if len(bytes.TrimSpace(raw)) == 0 {
			return nil
		}
		return json.Unmarshal(raw, out)
	}
}

// text unquotes a JSON string body and returns anything else verbatim.
func text(raw []byte) string {
	trimmed := bytes.TrimSpace(raw)
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	return string(trimmed)
}

// loose keeps valid JSON as is and turns anything else into a JSON string.
func loose(raw []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return json.RawMessage("null")
	}
	if json.Valid(trimmed) {
		return json.RawMessage(trimmed)
	}
	quoted, _ := json.Marshal(string(trimmed))
	return quoted
}

func segment(v any) string {
	return url.PathEscape(fmt.Sprint(v))
}

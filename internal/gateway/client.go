// Package gateway is the REST client for the rental platform backend.
//
// Every endpoint answers with the same envelope: {success, message, data}.
// A well-formed envelope with success=false is a logical failure and is
// returned to the caller as a value; anything else that goes wrong (network,
// non-2xx status, unparseable body) is returned as an error.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultTimeout  = 30 * time.Second
	maxBodyBytes    = 8 << 20
	requestIDHeader = "X-Request-ID"
)

// Envelope is the uniform response shape of the backend.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data,omitempty"`
}

// TokenSource supplies the bearer token for each request.
type TokenSource interface {
	Token() (string, error)
}

type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Tokens    TokenSource
}

// Client is the connection to the backend API. All requests go through do.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	tokens     TokenSource
	logger     *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "homeadmin"
	}

	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		tokens: cfg.Tokens,
		logger: logger.Named("gateway"),
	}
}

// BaseURL returns the API root every path is resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do sends an authenticated JSON request and decodes a 2xx response body
// into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	return c.send(ctx, method, path, body, out, true)
}

func (c *Client) send(ctx context.Context, method, path string, body, out any, withAuth bool) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if withAuth && c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return err
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	log := c.logger.With(
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("request failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: fmt.Errorf("read response: %w", err)}
	}
	log.Debug("request completed",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
		zap.Int("bytes", len(payload)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(method, path, resp.StatusCode, payload)
		log.Warn("request rejected", zap.Int("status", resp.StatusCode), zap.String("server_message", apiErr.ServerMessage))
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &TransportError{Method: method, Path: path, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// errorBody is the shape of error payloads. The backend puts the human
// readable reason in msg; some handlers use message instead.
type errorBody struct {
	Msg     string `json:"msg"`
	Message string `json:"message"`
}

func newAPIError(method, path string, status int, payload []byte) *APIError {
	apiErr := &APIError{Method: method, Path: path, StatusCode: status}
	var body errorBody
	if err := json.Unmarshal(payload, &body); err == nil {
		switch {
		case strings.TrimSpace(body.Msg) != "":
			apiErr.ServerMessage = body.Msg
		case strings.TrimSpace(body.Message) != "":
			apiErr.ServerMessage = body.Message
		}
	}
	return apiErr
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

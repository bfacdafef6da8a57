// Package client is the single point of HTTP egress for the LMS API: a typed
// request client that attaches the caller's session token, unwraps the
// {message, data} envelope, surfaces messages through a Notifier and keeps an
// optimistically patched local copy of course progress.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sahilchouksey/lms-api/model"
)

// ErrCodeFetch classifies transport-level failures (DNS, refused connection,
// timeout) as distinct from HTTP error statuses.
const ErrCodeFetch = "FETCH_ERROR"

// TokenProvider yields the current session token. An empty token is not an
// error; the request proceeds unauthenticated and the server decides.
type TokenProvider func(ctx context.Context) (string, error)

// Notifier receives user-facing messages: the server's message on any failed
// call, and on successful mutations that carry one.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}

// Error is the structured failure the client returns. Transport failures
// carry Code ErrCodeFetch and no status; HTTP failures carry the status and
// the server-supplied message.
type Error struct {
	Code    string `json:"code,omitempty"`
	Status  int    `json:"status,omitempty"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("status %d: %s", e.Status, e.Message)
}

// Config holds the injected collaborators. Everything is explicit; the
// package keeps no global state, so tests can run several differently
// configured clients side by side.
type Config struct {
	BaseURL       string
	TokenProvider TokenProvider
	Notifier      Notifier
	HTTPClient    *http.Client
}

// Client wraps every backend endpoint.
type Client struct {
	baseURL       string
	tokenProvider TokenProvider
	notifier      Notifier
	httpClient    *http.Client

	mu       sync.Mutex
	progress map[string]*model.UserCourseProgress
}

// New creates a new API client
func New(cfg Config) *Client {
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = NopNotifier{}
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		tokenProvider: cfg.TokenProvider,
		notifier:      notifier,
		httpClient:    httpClient,
		progress:      make(map[string]*model.UserCourseProgress),
	}
}

// envelope mirrors the server's response wrapper.
type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// do issues one request and decodes the envelope into out. It returns the
// envelope message; all failures come back as *Error.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) (string, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return "", &Error{Code: ErrCodeFetch, Message: err.Error()}
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return "", &Error{Code: ErrCodeFetch, Message: err.Error()}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokenProvider != nil {
		if token, err := c.tokenProvider(ctx); err == nil && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		apiErr := &Error{Code: ErrCodeFetch, Message: err.Error()}
		c.notifier.Error(apiErr.Message)
		return "", apiErr
	}
	defer resp.Body.Close()

	// 204 is the one status normalized to a success with empty data.
	if resp.StatusCode == http.StatusNoContent {
		return "", nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		apiErr := &Error{Code: ErrCodeFetch, Message: err.Error()}
		c.notifier.Error(apiErr.Message)
		return "", apiErr
	}

	var env envelope
	_ = json.Unmarshal(raw, &env)

	if resp.StatusCode >= http.StatusBadRequest {
		message := env.Message
		if message == "" {
			message = fmt.Sprintf("%d", resp.StatusCode)
		}
		c.notifier.Error(message)
		return "", &Error{Status: resp.StatusCode, Message: message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return "", &Error{Code: ErrCodeFetch, Message: err.Error()}
		}
	}

	if method != http.MethodGet && env.Message != "" {
		c.notifier.Success(env.Message)
	}

	return env.Message, nil
}

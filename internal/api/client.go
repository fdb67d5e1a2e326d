// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jeranaias/nextai-tui/internal/provider"
)

// Configuration constants for upstream requests.
const (
	// DefaultTimeout bounds non-streaming requests.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize caps non-streaming response bodies.
	MaxResponseSize = 10 * 1024 * 1024

	// streamReadSize is the buffer size for streaming body reads.
	streamReadSize = 4 * 1024
)

var (
	// Shared HTTP client with connection pooling for all request/response calls.
	sharedHTTPClient = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		Timeout: DefaultTimeout,
	}

	// sharedStreamingClient has no client timeout; streaming requests are
	// bounded by their context instead.
	sharedStreamingClient = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
)

// Error variables for common upstream failures.
var (
	// ErrNoProvider indicates no provider is selected or enabled.
	ErrNoProvider = errors.New("no API provider configured")

	// ErrMissingKey indicates the selected provider requires a key that
	// has not been set.
	ErrMissingKey = errors.New("API key not set")

	// ErrAuthFailed indicates the provider rejected the credential.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrRateLimited indicates too many requests.
	ErrRateLimited = errors.New("rate limited")
)

// APIError is a non-2xx response that maps to no sentinel.
type APIError struct {
	Provider string
	Status   int
	Code     string
	Message  string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s error [%s] (HTTP %d): %s", e.Provider, e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("%s error (HTTP %d): %s", e.Provider, e.Status, e.Message)
}

// apiErrorResponse is the common error body shape.
type apiErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ChatMessage is one message in the request payload.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the wire payload for chat completions.
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Stream      bool          `json:"stream"`
}

// FrameCallback receives classified frames as they are decoded.
type FrameCallback func(Frame)

// =============================================================================
// CLIENT
// =============================================================================

// Client speaks the OpenAI-compatible chat completions protocol to one
// provider.
type Client struct {
	provider  *provider.Provider
	apiKey    string
	streaming *http.Client
	plain     *http.Client
}

// NewClient creates a client for the given provider and credential. A
// nil provider is allowed; requests will fail with ErrNoProvider.
func NewClient(p *provider.Provider, apiKey string) *Client {
	return &Client{
		provider:  p,
		apiKey:    strings.TrimSpace(apiKey),
		streaming: sharedStreamingClient,
		plain:     sharedHTTPClient,
	}
}

// withHTTPClients overrides the transport, for tests.
func (c *Client) withHTTPClients(streaming, plain *http.Client) *Client {
	c.streaming = streaming
	c.plain = plain
	return c
}

func (c *Client) checkConfigured() error {
	if c.provider == nil {
		return ErrNoProvider
	}
	if c.provider.RequiresKey && c.apiKey == "" {
		return fmt.Errorf("%w for %s", ErrMissingKey, c.provider.Name)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	for k, v := range c.provider.RenderHeaders(c.apiKey) {
		req.Header.Set(k, v)
	}
}

// ChatStream performs a streaming chat completion, invoking onFrame for
// every decoded frame. Context cancellation surfaces as ctx.Err() so an
// abort is never confused with a transport failure; frames delivered
// before the cancellation stand.
func (c *Client) ChatStream(ctx context.Context, req ChatRequest, onFrame FrameCallback) error {
	if err := c.checkConfigured(); err != nil {
		return err
	}

	req.Stream = true
	bodyBytes, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.provider.BaseURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(httpReq)
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Cache-Control", "no-cache")

	resp, err := c.streaming.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
		return c.handleErrorResponse(resp.StatusCode, body)
	}

	return c.processStream(ctx, resp.Body, onFrame)
}

// processStream feeds body chunks through a FrameDecoder until [DONE],
// EOF, or cancellation.
func (c *Client) processStream(ctx context.Context, body io.Reader, onFrame FrameCallback) error {
	decoder := NewFrameDecoder()
	buf := make([]byte, streamReadSize)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := body.Read(buf)
		if n > 0 {
			for _, frame := range decoder.Feed(buf[:n]) {
				onFrame(frame)
			}
			if decoder.Done() {
				return nil
			}
		}
		if err != nil {
			if err == io.EOF {
				for _, frame := range decoder.Flush() {
					onFrame(frame)
				}
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("stream read failed: %w", err)
		}
	}
}

// handleErrorResponse converts HTTP error responses to Go errors.
func (c *Client) handleErrorResponse(statusCode int, body []byte) error {
	var apiErr apiErrorResponse
	message := ""
	code := ""
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		message = apiErr.Error.Message
		code = apiErr.Error.Code
	}

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		if message != "" {
			return fmt.Errorf("%w: %s", ErrAuthFailed, message)
		}
		return ErrAuthFailed
	case http.StatusTooManyRequests:
		if message != "" {
			return fmt.Errorf("%w: %s", ErrRateLimited, message)
		}
		return ErrRateLimited
	}

	if message == "" {
		message = strings.TrimSpace(string(body))
	}
	return &APIError{Provider: c.provider.Name, Status: statusCode, Code: code, Message: message}
}

// =============================================================================
// CREDENTIAL VALIDATION
// =============================================================================

// ValidateCredential probes the provider's models endpoint with the
// configured key. Providers whose base URL does not follow the
// /chat/completions convention are reported as unsupported.
func (c *Client) ValidateCredential(ctx context.Context) error {
	if err := c.checkConfigured(); err != nil {
		return err
	}
	const suffix = "/chat/completions"
	if !strings.HasSuffix(c.provider.BaseURL, suffix) {
		return fmt.Errorf("credential validation not supported for %s", c.provider.Name)
	}
	url := strings.TrimSuffix(c.provider.BaseURL, suffix) + "/models"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.plain.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
		return c.handleErrorResponse(resp.StatusCode, body)
	}
	return nil
}

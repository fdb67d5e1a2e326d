// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/jeranaias/nextai-tui/internal/provider"
)

// ErrNoImageURL indicates the provider responded 200 but the body
// carried no recognizable image URL.
var ErrNoImageURL = errors.New("no image URL in response")

// ImageRequest holds one image generation request.
type ImageRequest struct {
	Prompt        string  `json:"prompt"`
	Model         string  `json:"model"`
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	Steps         int     `json:"steps,omitempty"`
	GuidanceScale float64 `json:"guidance_scale,omitempty"`
}

// imageResponse covers the URL shapes the POST providers return.
type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
	URL      string `json:"url"`
	ImageURL string `json:"image_url"`
}

func (r *imageResponse) firstURL() string {
	if len(r.Data) > 0 && r.Data[0].URL != "" {
		return r.Data[0].URL
	}
	if r.URL != "" {
		return r.URL
	}
	return r.ImageURL
}

// ImageClient generates images through one image provider.
type ImageClient struct {
	provider *provider.Provider
	apiKey   string
	plain    *http.Client
}

// NewImageClient creates a client for the given image provider.
func NewImageClient(p *provider.Provider, apiKey string) *ImageClient {
	return &ImageClient{provider: p, apiKey: apiKey, plain: sharedHTTPClient}
}

// withHTTPClient overrides the transport, for tests.
func (c *ImageClient) withHTTPClient(client *http.Client) *ImageClient {
	c.plain = client
	return c
}

// Generate produces an image and returns its URL.
//
// GET providers encode the prompt into the request URL and respond with
// the image bytes themselves, so the request URL is the result and no
// body is parsed. POST providers return JSON carrying the URL under
// data[0].url, url, or image_url.
func (c *ImageClient) Generate(ctx context.Context, req ImageRequest) (string, error) {
	if c.provider == nil {
		return "", ErrNoProvider
	}
	if c.provider.RequiresKey && c.apiKey == "" {
		return "", fmt.Errorf("%w for %s", ErrMissingKey, c.provider.Name)
	}

	if c.provider.Method == http.MethodGet {
		return c.generateGET(ctx, req)
	}
	return c.generatePOST(ctx, req)
}

// GenerateURL returns the GET request URL for the given request without
// issuing it. The TUI uses this to show a link immediately.
func (c *ImageClient) GenerateURL(req ImageRequest) string {
	params := url.Values{}
	params.Set("prompt", req.Prompt)
	params.Set("model", req.Model)
	params.Set("width", fmt.Sprintf("%d", req.Width))
	params.Set("height", fmt.Sprintf("%d", req.Height))
	return c.provider.BaseURL + "/" + url.PathEscape(req.Prompt) + "?" + params.Encode()
}

func (c *ImageClient) generateGET(ctx context.Context, req ImageRequest) (string, error) {
	reqURL := c.GenerateURL(req)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range c.provider.RenderHeaders(c.apiKey) {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.plain.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	// The body is the image; drain it so the connection can be reused.
	io.Copy(io.Discard, io.LimitReader(resp.Body, MaxResponseSize))

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{Provider: c.provider.Name, Status: resp.StatusCode, Message: "image generation failed"}
	}
	return reqURL, nil
}

func (c *ImageClient) generatePOST(ctx context.Context, req ImageRequest) (string, error) {
	bodyBytes, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.provider.BaseURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range c.provider.RenderHeaders(c.apiKey) {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.plain.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return "", ErrAuthFailed
		}
		return "", &APIError{Provider: c.provider.Name, Status: resp.StatusCode, Message: string(body)}
	}

	var parsed imageResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if u := parsed.firstURL(); u != "" {
		return u, nil
	}
	return "", ErrNoImageURL
}

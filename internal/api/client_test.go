// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/nextai-tui/internal/provider"
)

func testProvider(baseURL string) *provider.Provider {
	return &provider.Provider{
		ID:           "test",
		Name:         "Test",
		BaseURL:      baseURL,
		Method:       http.MethodPost,
		DefaultModel: "test-model",
		Models:       []provider.Model{{ID: "test-model", Label: "Test Model"}},
		Headers: map[string]string{
			"Content-Type":  "application/json",
			"Authorization": "Bearer " + provider.APIKeyPlaceholder,
		},
		RequiresKey: true,
	}
}

func testClient(p *provider.Provider, key string) *Client {
	plain := &http.Client{Timeout: 5 * time.Second}
	return NewClient(p, key).withHTTPClients(plain, plain)
}

func TestChatStreamNilProvider(t *testing.T) {
	err := testClient(nil, "key").ChatStream(context.Background(), ChatRequest{}, func(Frame) {})
	if !errors.Is(err, ErrNoProvider) {
		t.Errorf("err = %v, want ErrNoProvider", err)
	}
}

func TestChatStreamMissingKey(t *testing.T) {
	p := testProvider("https://example.invalid/v1/chat/completions")
	err := testClient(p, "").ChatStream(context.Background(), ChatRequest{}, func(Frame) {})
	if !errors.Is(err, ErrMissingKey) {
		t.Errorf("err = %v, want ErrMissingKey", err)
	}
	if !strings.Contains(err.Error(), "Test") {
		t.Errorf("error should name the provider: %v", err)
	}
}

func TestChatStreamDeliversFrames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("Accept"); got != "text/event-stream" {
			t.Errorf("Accept = %q", got)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte("data: {\"choices\":[{\"delta\":{\"reasoning\":\"think \"}}]}\n"))
		w.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"Hello\"}}]}\n"))
		w.Write([]byte("data: [DONE]\n"))
	}))
	defer srv.Close()

	var content, reasoning strings.Builder
	err := testClient(testProvider(srv.URL), "sk-test").ChatStream(context.Background(), ChatRequest{Model: "test-model"}, func(f Frame) {
		switch f.Kind {
		case FrameContent:
			content.WriteString(f.Text)
		case FrameReasoning:
			reasoning.WriteString(f.Text)
		}
	})
	if err != nil {
		t.Fatalf("ChatStream: %v", err)
	}
	if content.String() != "Hello" {
		t.Errorf("content = %q", content.String())
	}
	if reasoning.String() != "think " {
		t.Errorf("reasoning = %q", reasoning.String())
	}
}

func TestChatStreamAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":"invalid_api_key","message":"bad key"}}`))
	}))
	defer srv.Close()

	err := testClient(testProvider(srv.URL), "sk-wrong").ChatStream(context.Background(), ChatRequest{}, func(Frame) {})
	if !errors.Is(err, ErrAuthFailed) {
		t.Errorf("err = %v, want ErrAuthFailed", err)
	}
	if !strings.Contains(err.Error(), "bad key") {
		t.Errorf("error should carry provider message: %v", err)
	}
}

func TestChatStreamRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	err := testClient(testProvider(srv.URL), "sk-test").ChatStream(context.Background(), ChatRequest{}, func(Frame) {})
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("err = %v, want ErrRateLimited", err)
	}
}

func TestChatStreamServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"overloaded"}}`))
	}))
	defer srv.Close()

	err := testClient(testProvider(srv.URL), "sk-test").ChatStream(context.Background(), ChatRequest{}, func(Frame) {})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusInternalServerError || apiErr.Message != "overloaded" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestChatStreamCancelReturnsContextError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"partial\"}}]}\n"))
		w.(http.Flusher).Flush()
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	var got string
	err := testClient(testProvider(srv.URL), "sk-test").ChatStream(ctx, ChatRequest{}, func(f Frame) {
		got += f.Text
		cancel()
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	// Frames delivered before the cancel stand.
	if got != "partial" {
		t.Errorf("content before cancel = %q", got)
	}
}

func TestValidateCredential(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk-good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"data":[]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := testProvider(srv.URL + "/v1/chat/completions")

	if err := testClient(p, "sk-good").ValidateCredential(context.Background()); err != nil {
		t.Errorf("valid key: %v", err)
	}
	if err := testClient(p, "sk-bad").ValidateCredential(context.Background()); !errors.Is(err, ErrAuthFailed) {
		t.Errorf("invalid key: err = %v, want ErrAuthFailed", err)
	}
}

func TestValidateCredentialUnsupportedShape(t *testing.T) {
	p := testProvider("https://example.invalid/custom/endpoint")
	err := testClient(p, "sk-test").ValidateCredential(context.Background())
	if err == nil || !strings.Contains(err.Error(), "not supported") {
		t.Errorf("err = %v, want unsupported", err)
	}
}

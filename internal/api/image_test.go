// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/nextai-tui/internal/provider"
)

func imageProvider(baseURL, method string, requiresKey bool) *provider.Provider {
	return &provider.Provider{
		ID:           "img",
		Name:         "Img",
		BaseURL:      baseURL,
		Method:       method,
		DefaultModel: "img-model",
		Models:       []provider.Model{{ID: "img-model", Label: "Img Model"}},
		Headers:      map[string]string{"Authorization": "Bearer " + provider.APIKeyPlaceholder},
		RequiresKey:  requiresKey,
	}
}

func imageClient(p *provider.Provider, key string) *ImageClient {
	return NewImageClient(p, key).withHTTPClient(&http.Client{Timeout: 5 * time.Second})
}

func TestImageGenerateGETReturnsRequestURL(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte("fake png bytes"))
	}))
	defer srv.Close()

	req := ImageRequest{Prompt: "a red fox", Model: "turbo", Width: 512, Height: 512}
	got, err := imageClient(imageProvider(srv.URL, http.MethodGet, false), "").Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	// The request URL itself is the image result.
	if !strings.HasPrefix(got, srv.URL+"/") {
		t.Errorf("url = %q", got)
	}
	if !strings.Contains(gotPath, "a%20red%20fox") {
		t.Errorf("path = %q, prompt not escaped into path", gotPath)
	}
	for _, want := range []string{"model=turbo", "width=512", "height=512"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestImageGenerateGETErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := imageClient(imageProvider(srv.URL, http.MethodGet, false), "").Generate(context.Background(), ImageRequest{Prompt: "x"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadGateway {
		t.Errorf("err = %v, want APIError 502", err)
	}
}

func TestImageGeneratePOSTURLShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"data array", `{"data":[{"url":"https://img.example/one.png"}]}`, "https://img.example/one.png"},
		{"top-level url", `{"url":"https://img.example/two.png"}`, "https://img.example/two.png"},
		{"image_url", `{"image_url":"https://img.example/three.png"}`, "https://img.example/three.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var req ImageRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Errorf("decode request: %v", err)
				}
				if req.Prompt != "castle" {
					t.Errorf("prompt = %q", req.Prompt)
				}
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			got, err := imageClient(imageProvider(srv.URL, http.MethodPost, true), "sk-img").Generate(context.Background(), ImageRequest{Prompt: "castle", Model: "img-model", Width: 1024, Height: 1024})
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if got != tt.want {
				t.Errorf("url = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestImageGeneratePOSTNoURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"queued"}`))
	}))
	defer srv.Close()

	_, err := imageClient(imageProvider(srv.URL, http.MethodPost, true), "sk-img").Generate(context.Background(), ImageRequest{Prompt: "x"})
	if !errors.Is(err, ErrNoImageURL) {
		t.Errorf("err = %v, want ErrNoImageURL", err)
	}
}

func TestImageGeneratePOSTAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := imageClient(imageProvider(srv.URL, http.MethodPost, true), "sk-img").Generate(context.Background(), ImageRequest{Prompt: "x"})
	if !errors.Is(err, ErrAuthFailed) {
		t.Errorf("err = %v, want ErrAuthFailed", err)
	}
}

func TestImageGenerateMissingKey(t *testing.T) {
	p := imageProvider("https://example.invalid", http.MethodPost, true)
	_, err := imageClient(p, "").Generate(context.Background(), ImageRequest{Prompt: "x"})
	if !errors.Is(err, ErrMissingKey) {
		t.Errorf("err = %v, want ErrMissingKey", err)
	}
	_, err = NewImageClient(nil, "").Generate(context.Background(), ImageRequest{Prompt: "x"})
	if !errors.Is(err, ErrNoProvider) {
		t.Errorf("nil provider: err = %v, want ErrNoProvider", err)
	}
}

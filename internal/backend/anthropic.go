// Copyright 2026 The Platewise Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"

	"github.com/platewise/platewise/internal/config"
)

// AnthropicAdapter serves the high-capability slot via the Anthropic
// messages API.
type AnthropicAdapter struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewAnthropicAdapter creates the adapter from configuration.
func NewAnthropicAdapter(cfg config.BackendConfig) *AnthropicAdapter {
	baseURL := "https://api.anthropic.com/v1"
	if cfg.BaseURL != "" {
		baseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	model := "claude-sonnet-4-5"
	if cfg.Model != "" {
		model = cfg.Model
	}
	return &AnthropicAdapter{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{},
	}
}

func (a *AnthropicAdapter) ID() ID { return Claude }

// Invoke sends one messages-API request and returns the first text block.
func (a *AnthropicAdapter) Invoke(ctx context.Context, systemPrompt, userText string) (string, error) {
	if a.apiKey == "" {
		return "", ErrMissingCredential
	}

	body := map[string]any{
		"model":      a.model,
		"max_tokens": 1024,
		"system":     systemPrompt,
		"messages": []map[string]string{
			{"role": "user", "content": userText},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", &CallError{Backend: Claude, Err: fmt.Errorf("marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/messages", bytes.NewReader(payload))
	if err != nil {
		return "", &CallError{Backend: Claude, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", a.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	start := time.Now()
	resp, err := a.client.Do(httpReq)
	if err != nil {
		return "", &CallError{Backend: Claude, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", &CallError{Backend: Claude, Status: resp.StatusCode, Err: fmt.Errorf("%s", strings.TrimSpace(string(raw)))}
	}

	var out struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &CallError{Backend: Claude, Err: fmt.Errorf("decode response: %w", err)}
	}
	log.Debugf("anthropic call took %s", time.Since(start))

	for _, block := range out.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", &CallError{Backend: Claude, Err: fmt.Errorf("response contains no text block")}
}

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

	"github.com/goccy/go-json"

	"github.com/platewise/platewise/internal/config"
)

// OpenAIAdapter serves the standard slot via the OpenAI-compatible chat
// completions API.
type OpenAIAdapter struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewOpenAIAdapter creates the adapter from configuration.
func NewOpenAIAdapter(cfg config.BackendConfig) *OpenAIAdapter {
	baseURL := "https://api.openai.com/v1"
	if cfg.BaseURL != "" {
		baseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	model := "gpt-4o"
	if cfg.Model != "" {
		model = cfg.Model
	}
	return &OpenAIAdapter{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{},
	}
}

func (a *OpenAIAdapter) ID() ID { return GPT }

// Invoke sends one chat-completions request and returns the first choice.
func (a *OpenAIAdapter) Invoke(ctx context.Context, systemPrompt, userText string) (string, error) {
	if a.apiKey == "" {
		return "", ErrMissingCredential
	}

	body := map[string]any{
		"model": a.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userText},
		},
		"response_format": map[string]string{"type": "json_object"},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", &CallError{Backend: GPT, Err: fmt.Errorf("marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", &CallError{Backend: GPT, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return "", &CallError{Backend: GPT, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", &CallError{Backend: GPT, Status: resp.StatusCode, Err: fmt.Errorf("%s", strings.TrimSpace(string(raw)))}
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &CallError{Backend: GPT, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(out.Choices) == 0 {
		return "", &CallError{Backend: GPT, Err: fmt.Errorf("response contains no choices")}
	}
	return out.Choices[0].Message.Content, nil
}

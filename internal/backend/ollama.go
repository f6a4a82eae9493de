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
	log "github.com/sirupsen/logrus"

	"github.com/platewise/platewise/internal/config"
)

// OllamaAdapter serves the low-cost slot against a locally running Ollama
// instance (default http://localhost:11434). It needs no credential, which
// is what makes it the designated fallback target.
type OllamaAdapter struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllamaAdapter creates the adapter from configuration.
func NewOllamaAdapter(cfg config.BackendConfig) *OllamaAdapter {
	baseURL := "http://localhost:11434"
	if cfg.BaseURL != "" {
		baseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	model := "llama3.2"
	if cfg.Model != "" {
		model = cfg.Model
	}
	return &OllamaAdapter{
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{},
	}
}

func (a *OllamaAdapter) ID() ID { return Ollama }

// Invoke sends one non-streaming chat request to the Ollama API.
func (a *OllamaAdapter) Invoke(ctx context.Context, systemPrompt, userText string) (string, error) {
	body := map[string]any{
		"model": a.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userText},
		},
		"stream": false,
		"format": "json",
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", &CallError{Backend: Ollama, Err: fmt.Errorf("marshal request: %w", err)}
	}

	log.Debugf("ollama request: %s", string(payload))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", &CallError{Backend: Ollama, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return "", &CallError{Backend: Ollama, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", &CallError{Backend: Ollama, Status: resp.StatusCode, Err: fmt.Errorf("%s", strings.TrimSpace(string(raw)))}
	}

	var out struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &CallError{Backend: Ollama, Err: fmt.Errorf("decode response: %w", err)}
	}
	return out.Message.Content, nil
}

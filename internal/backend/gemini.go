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

// GeminiAdapter serves the long-context slots via the Gemini generateContent
// API. One adapter type covers both the pro (long-context) and flash
// (mid-tier long-context) backends; they differ only in ID and model name.
type GeminiAdapter struct {
	id      ID
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewGeminiAdapter creates the adapter for the given slot.
func NewGeminiAdapter(id ID, cfg config.GeminiConfig) *GeminiAdapter {
	baseURL := "https://generativelanguage.googleapis.com/v1beta"
	if cfg.BaseURL != "" {
		baseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	model := cfg.ProModel
	if id == GeminiFlash {
		model = cfg.FlashModel
	}
	if model == "" {
		if id == GeminiFlash {
			model = "gemini-2.0-flash"
		} else {
			model = "gemini-1.5-pro"
		}
	}
	return &GeminiAdapter{
		id:      id,
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{},
	}
}

func (a *GeminiAdapter) ID() ID { return a.id }

// Invoke sends one generateContent request and returns the first candidate's
// text.
func (a *GeminiAdapter) Invoke(ctx context.Context, systemPrompt, userText string) (string, error) {
	if a.apiKey == "" {
		return "", ErrMissingCredential
	}

	body := map[string]any{
		"system_instruction": map[string]any{
			"parts": []map[string]string{{"text": systemPrompt}},
		},
		"contents": []map[string]any{
			{"role": "user", "parts": []map[string]string{{"text": userText}}},
		},
		"generationConfig": map[string]any{
			"responseMimeType": "application/json",
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", &CallError{Backend: a.id, Err: fmt.Errorf("marshal request: %w", err)}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", a.baseURL, a.model, a.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", &CallError{Backend: a.id, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return "", &CallError{Backend: a.id, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", &CallError{Backend: a.id, Status: resp.StatusCode, Err: fmt.Errorf("%s", strings.TrimSpace(string(raw)))}
	}

	var out struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &CallError{Backend: a.id, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", &CallError{Backend: a.id, Err: fmt.Errorf("response contains no candidates")}
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}

// Copyright 2026 The Platewise Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package backend defines the closed set of generative backends, the uniform
// adapter contract they implement, and the dispatcher that invokes them with
// a single bounded fallback reroute.
package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/tidwall/sjson"
)

// ID names a generative backend. The enumeration is closed; exactly one
// backend is selected per request.
type ID string

const (
	// Claude is the high-capability backend.
	Claude ID = "claude"
	// GPT is the standard backend.
	GPT ID = "gpt"
	// GeminiPro is the long-context backend.
	GeminiPro ID = "gemini-pro"
	// GeminiFlash is the mid-tier long-context backend.
	GeminiFlash ID = "gemini-flash"
	// Ollama is the low-cost backend and the dispatcher's designated
	// fallback target.
	Ollama ID = "ollama"
	// Mistral is declared but not wired into the routing table. Reserved.
	Mistral ID = "mistral"
)

// All lists every declared backend identifier, routed or not.
func All() []ID {
	return []ID{Claude, GPT, GeminiPro, GeminiFlash, Ollama, Mistral}
}

// Adapter is the uniform contract every backend implements: build the
// backend-specific request for (systemPrompt, userText) and return the raw
// response text. Adapters return typed errors rather than encoding failures
// themselves; the Dispatcher pattern-matches on the error and owns the
// fallback-payload convention.
type Adapter interface {
	ID() ID
	Invoke(ctx context.Context, systemPrompt, userText string) (string, error)
}

// ErrMissingCredential signals that an adapter has no API key configured.
// It is handled by the Dispatcher, never surfaced to the pipeline.
var ErrMissingCredential = errors.New("backend: missing credential")

// CallError is a transport-level failure during an adapter invocation.
type CallError struct {
	Backend ID
	Status  int
	Err     error
}

func (e *CallError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("backend %s: status %d: %v", e.Backend, e.Status, e.Err)
	}
	return fmt.Sprintf("backend %s: %v", e.Backend, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }

// FallbackPayload builds a self-describing fallback response in the same
// structured format real backends return, so the parser treats synthesized
// failures and model output uniformly.
func FallbackPayload(message string) string {
	raw := `{}`
	raw, _ = sjson.Set(raw, "response_type", "fallback")
	raw, _ = sjson.Set(raw, "intent", "unknown")
	raw, _ = sjson.Set(raw, "message", message)
	return raw
}

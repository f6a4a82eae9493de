// Copyright 2026 The Platewise Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package inference

import (
	"strings"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

// Parse messages for the two fallback shapes. Tests and callers match on
// the "failed to parse" wording for the malformed case.
const (
	parseFailureMessage = "failed to parse model response"
	shapeFailureMessage = "the model returned an unexpected response"
)

// Parse turns raw backend output into a ParsedPayload. Output that is not
// valid JSON, or that lacks a response_type, degrades to a fallback payload;
// unknown fields are tolerated. Models occasionally wrap JSON in a markdown
// fence, which is stripped first.
func Parse(raw string) ParsedPayload {
	raw = stripFence(raw)

	if !gjson.Valid(raw) {
		return fallbackPayload(parseFailureMessage)
	}
	if !gjson.Get(raw, "response_type").Exists() {
		return fallbackPayload(shapeFailureMessage)
	}

	var payload ParsedPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return fallbackPayload(parseFailureMessage)
	}
	switch payload.ResponseType {
	case ResponseTypeAnswer, ResponseTypeRecommendation, ResponseTypeNotification,
		ResponseTypeFallback, ResponseTypeMultiIntent:
		return payload
	default:
		return fallbackPayload(shapeFailureMessage)
	}
}

func fallbackPayload(msg string) ParsedPayload {
	return ParsedPayload{
		ResponseType: ResponseTypeFallback,
		Message:      msg,
	}
}

// stripFence removes a surrounding markdown code fence, if any.
func stripFence(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	return strings.TrimSpace(raw)
}

// Copyright 2026 The Platewise Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package inference

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// systemPromptTemplate instructs every backend to answer in the structured
// format the parser expects. The session context is appended as JSON.
const systemPromptTemplate = `You are the recommendation engine for a home-cooked food marketplace.
Given the session context below, decide whether to answer the user directly,
recommend dishes, or send a notification.

Respond with a single JSON object, no prose, using exactly this shape:
{
  "response_type": "answer" | "recommendation" | "notification" | "multi_intent",
  "intent": "<short intent label>",
  "message": "<one friendly sentence for the user>",
  "answer": "<direct answer, when response_type is answer>",
  "recommendations": [{"item_name": "<dish>", "reason": "<why>", "tags": ["<tag>"]}],
  "followup_suggestions": ["<short suggestion>"]
}

Keep recommendations to dishes that plausibly exist on a food marketplace.
Session context:
%s`

// BuildSystemPrompt renders the system prompt for a request.
func BuildSystemPrompt(c Context, intent string) string {
	ctxJSON, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		ctxJSON = []byte("{}")
	}
	prompt := fmt.Sprintf(systemPromptTemplate, ctxJSON)
	if intent = strings.TrimSpace(intent); intent != "" {
		prompt += "\nDeclared intent: " + intent
	}
	return prompt
}

// defaultUserText stands in when the caller supplied no free-text query, so
// backends still get an actionable instruction.
const defaultUserText = "Suggest something I would enjoy right now."

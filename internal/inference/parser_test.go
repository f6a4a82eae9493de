// Copyright 2026 The Platewise Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecommendation(t *testing.T) {
	raw := `{"response_type":"recommendation","intent":"mood_food_suggestion","message":"Try a light meal!"}`
	payload := Parse(raw)

	assert.Equal(t, ResponseTypeRecommendation, payload.ResponseType)
	assert.Equal(t, "mood_food_suggestion", payload.Intent)
	assert.Equal(t, "Try a light meal!", payload.Message)
}

func TestParseNotJSON(t *testing.T) {
	payload := Parse("not a json")

	assert.Equal(t, ResponseTypeFallback, payload.ResponseType)
	assert.Contains(t, payload.Message, "failed to parse")
}

func TestParseMissingResponseType(t *testing.T) {
	payload := Parse(`{"intent":"x","message":"y"}`)

	assert.Equal(t, ResponseTypeFallback, payload.ResponseType)
}

func TestParseUnknownResponseType(t *testing.T) {
	payload := Parse(`{"response_type":"haiku","message":"y"}`)

	assert.Equal(t, ResponseTypeFallback, payload.ResponseType)
}

func TestParseToleratesUnknownFields(t *testing.T) {
	raw := `{"response_type":"answer","message":"hi","answer":"yes","confidence":0.92,"debug":{"x":1}}`
	payload := Parse(raw)

	assert.Equal(t, ResponseTypeAnswer, payload.ResponseType)
	assert.Equal(t, "yes", payload.Answer)
}

func TestParseRecommendationList(t *testing.T) {
	raw := `{
		"response_type": "recommendation",
		"intent": "dinner",
		"message": "Here you go",
		"recommendations": [
			{"item_name": "Chicken Biryani", "reason": "comforting", "tags": ["high protein"]},
			{"item_name": "Lentil Soup"}
		]
	}`
	payload := Parse(raw)

	require.Len(t, payload.Recommendations, 2)
	assert.Equal(t, "Chicken Biryani", payload.Recommendations[0].ItemName)
	assert.Equal(t, []string{"high protein"}, payload.Recommendations[0].Tags)
}

func TestParseStripsMarkdownFence(t *testing.T) {
	raw := "```json\n{\"response_type\":\"answer\",\"message\":\"hi\"}\n```"
	payload := Parse(raw)

	assert.Equal(t, ResponseTypeAnswer, payload.ResponseType)
}

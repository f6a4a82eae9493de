// Copyright 2026 The Platewise Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package inference

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/platewise/platewise/internal/backend"
)

func TestChoosePrecedence(t *testing.T) {
	tests := []struct {
		name     string
		tier     string
		mood     int
		inputLen int
		hasInput bool
		priority bool
		want     backend.ID
	}{
		{"free tier wins over everything", "free", 1, 5000, true, true, backend.Ollama},
		{"free tier case-insensitive", "Free", 3, 10, true, false, backend.Ollama},
		{"very long input", "premium", 3, 3001, true, false, backend.GeminiPro},
		{"long input boundary not crossed", "premium", 3, 3000, true, false, backend.GPT},
		{"priority flag", "premium", 3, 10, true, true, backend.Claude},
		{"low mood", "premium", 2, 10, true, false, backend.Claude},
		{"low mood beats empty input", "premium", 1, 0, false, false, backend.Claude},
		{"empty input", "premium", 3, 0, false, false, backend.Ollama},
		{"mid-length input", "premium", 3, 1501, true, false, backend.GeminiFlash},
		{"default", "premium", 3, 100, true, false, backend.GPT},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Choose(tt.tier, tt.mood, tt.inputLen, tt.hasInput, tt.priority)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChooseLongInputPremium(t *testing.T) {
	input := strings.Repeat("a", 3001)
	got := Choose("premium", 3, len(input), true, false)
	assert.Equal(t, backend.GeminiPro, got)
}

// referenceChain re-states the precedence chain independently so the
// property test can detect a rule being satisfied but skipped.
func referenceChain(tier string, mood, inputLen int, hasInput, priority bool) backend.ID {
	if strings.EqualFold(tier, "free") {
		return backend.Ollama
	}
	if inputLen > 3000 {
		return backend.GeminiPro
	}
	if priority || mood <= 2 {
		return backend.Claude
	}
	if !hasInput {
		return backend.Ollama
	}
	if inputLen > 1500 {
		return backend.GeminiFlash
	}
	return backend.GPT
}

func TestProperty_ChooseMatchesFirstRule(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("exactly the first matching rule decides", prop.ForAll(
		func(tier string, mood, inputLen int, hasInput, priority bool) bool {
			return Choose(tier, mood, inputLen, hasInput, priority) ==
				referenceChain(tier, mood, inputLen, hasInput, priority)
		},
		gen.OneConstOf("free", "premium", "plus", ""),
		gen.IntRange(0, 5),
		gen.IntRange(0, 5000),
		gen.Bool(),
		gen.Bool(),
	))

	properties.Property("free tier always routes to the low-cost backend", prop.ForAll(
		func(mood, inputLen int, hasInput, priority bool) bool {
			return Choose("free", mood, inputLen, hasInput, priority) == backend.Ollama
		},
		gen.IntRange(0, 5),
		gen.IntRange(0, 10000),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

// Copyright 2026 The Platewise Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package inference

import (
	"strings"

	"github.com/platewise/platewise/internal/backend"
)

// Input length thresholds for routing to the long-context backends.
const (
	longInputChars = 3000
	midInputChars  = 1500
)

// Choose maps request attributes to a backend. It is pure and total, and is
// evaluated as an ordered precedence chain: the first matching rule wins and
// later rules are never reached. Free-tier callers are always served by the
// low-cost backend regardless of mood, priority, or input length.
func Choose(tier string, moodScore, inputLen int, hasInput, priority bool) backend.ID {
	switch {
	case strings.EqualFold(tier, "free"):
		return backend.Ollama
	case inputLen > longInputChars:
		return backend.GeminiPro
	case priority || moodScore <= 2:
		return backend.Claude
	case !hasInput:
		return backend.Ollama
	case inputLen > midInputChars:
		return backend.GeminiFlash
	default:
		return backend.GPT
	}
}

// HasUserInput reports whether input is non-empty after trimming whitespace.
func HasUserInput(input string) bool {
	return strings.TrimSpace(input) != ""
}

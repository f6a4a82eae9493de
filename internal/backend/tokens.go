// Copyright 2026 The Platewise Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package backend

import (
	"sync"

	"github.com/tiktoken-go/tokenizer"
)

// TokenEstimator estimates prompt token counts for dispatch accounting.
// The "simple" method approximates with word count * 1.3; "tiktoken" uses
// the cl100k_base vocabulary for an exact count.
type TokenEstimator struct {
	method string

	once  sync.Once
	codec tokenizer.Codec
}

// NewTokenEstimator creates an estimator for the given method. Unknown
// methods fall back to "simple".
func NewTokenEstimator(method string) *TokenEstimator {
	if method != "simple" && method != "tiktoken" {
		method = "simple"
	}
	return &TokenEstimator{method: method}
}

// Estimate returns the estimated token count for content.
func (te *TokenEstimator) Estimate(content string) int {
	if content == "" {
		return 0
	}
	if te.method == "tiktoken" {
		te.once.Do(func() {
			codec, err := tokenizer.Get(tokenizer.Cl100kBase)
			if err == nil {
				te.codec = codec
			}
		})
		if te.codec != nil {
			if ids, _, err := te.codec.Encode(content); err == nil {
				return len(ids)
			}
		}
		// Vocabulary unavailable; degrade to the approximation.
	}
	return simpleEstimate(content)
}

// simpleEstimate approximates tokenizer output as words * 1.3, which is the
// average subword expansion for English text.
func simpleEstimate(content string) int {
	words := 0
	inWord := false
	for _, r := range content {
		space := r == ' ' || r == '\t' || r == '\n' || r == '\r'
		if space {
			inWord = false
		} else if !inWord {
			words++
			inWord = true
		}
	}
	return int(float64(words) * 1.3)
}

// Copyright 2026 The Platewise Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimpleEstimate(t *testing.T) {
	est := NewTokenEstimator("simple")

	assert.Equal(t, 0, est.Estimate(""))
	assert.Equal(t, 1, est.Estimate("hello"))
	// 10 words * 1.3 = 13.
	assert.Equal(t, 13, est.Estimate("one two three four five six seven eight nine ten"))
	// Runs of whitespace count once.
	assert.Equal(t, 2, est.Estimate("  spaced \t\n out  "))
}

func TestUnknownMethodFallsBackToSimple(t *testing.T) {
	est := NewTokenEstimator("quantum")
	assert.Equal(t, "simple", est.method)
}

func TestTiktokenEstimateIsPositive(t *testing.T) {
	est := NewTokenEstimator("tiktoken")
	n := est.Estimate("suggest a warm dinner for a rainy evening")
	assert.Greater(t, n, 0)
}

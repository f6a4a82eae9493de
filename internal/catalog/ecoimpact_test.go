// Copyright 2026 The Platewise Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEcoImpactGatedByClearanceTag(t *testing.T) {
	item := Item{Name: "Brisket", Category: "meat"}

	assert.Equal(t, "Saves ~3.2 kg CO2e", EcoImpact(item, ClearanceTag))
	assert.Equal(t, "", EcoImpact(item, ""))
	assert.Equal(t, "", EcoImpact(item, "vegan"))
}

func TestEcoImpactCategoryFallbacks(t *testing.T) {
	// Unknown category falls back to the first tag.
	byTag := Item{Name: "Chowder", Category: "special", Tags: []string{"seafood"}}
	assert.Equal(t, "Saves ~2.4 kg CO2e", EcoImpact(byTag, ClearanceTag))

	// No usable category or tag falls back to the generic meal rate.
	generic := Item{Name: "Mystery Box", Category: "unknown"}
	assert.Equal(t, "Saves ~1.1 kg CO2e", EcoImpact(generic, ClearanceTag))
}

func TestEcoImpactTagFilterCaseInsensitive(t *testing.T) {
	item := Item{Name: "Croissants", Category: "baked"}
	assert.NotEmpty(t, EcoImpact(item, "Rescue-Deal"))
}

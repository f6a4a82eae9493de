// Copyright 2026 The Platewise Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package catalog

import (
	"fmt"
	"strings"
)

// ClearanceTag is the reserved tag filter marking near-expiry/clearance
// listings. Eco-impact annotations are computed only under this filter.
const ClearanceTag = "rescue-deal"

// co2SavingsKg estimates kilograms of CO2e saved by rescuing one unit of a
// dish in the given category instead of letting it go to waste.
var co2SavingsKg = map[string]float64{
	"meat":    3.2,
	"seafood": 2.4,
	"dairy":   1.6,
	"baked":   0.9,
	"dessert": 0.9,
	"produce": 0.5,
	"meal":    1.1,
}

// EcoImpact returns the sustainability-savings display string for an item,
// or "" when the active tag filter is not the clearance marker or no rate
// can be derived. The category key falls back to the item's first tag, then
// to the generic "meal" rate, for a fixed quantity of one unit.
func EcoImpact(item Item, tagFilter string) string {
	if !strings.EqualFold(strings.TrimSpace(tagFilter), ClearanceTag) {
		return ""
	}
	rate, ok := co2SavingsKg[strings.ToLower(item.Category)]
	if !ok && len(item.Tags) > 0 {
		rate, ok = co2SavingsKg[strings.ToLower(item.Tags[0])]
	}
	if !ok {
		rate = co2SavingsKg["meal"]
	}
	if rate <= 0 {
		return ""
	}
	const units = 1
	return fmt.Sprintf("Saves ~%.1f kg CO2e", rate*units)
}

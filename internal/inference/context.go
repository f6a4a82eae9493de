// Copyright 2026 The Platewise Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package inference

import (
	"context"

	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"

	"github.com/platewise/platewise/internal/catalog"
	"github.com/platewise/platewise/internal/metrics"
)

// Aggregator merges the ephemeral UI-supplied context with profile-derived
// context into one canonical Context. UI fields always win on key collision.
type Aggregator struct {
	store          catalog.Store
	defaultCuisine string
	metrics        *metrics.Metrics
}

// NewAggregator creates an aggregator reading profiles from store.
func NewAggregator(store catalog.Store, defaultCuisine string, m *metrics.Metrics) *Aggregator {
	if defaultCuisine == "" {
		defaultCuisine = "italian"
	}
	return &Aggregator{store: store, defaultCuisine: defaultCuisine, metrics: m}
}

// profileBaseDefaults are the attributes the profile store does not model.
// They seed the merge base so the canonical context is always fully shaped;
// the UI overlay replaces any of them it supplies.
func profileBaseDefaults() map[string]any {
	return map[string]any{
		"mood_score":    3,
		"location":      "",
		"time_of_day":   "evening",
		"active_screen": "home",
		"device_type":   "mobile",
		"user_tier":     "free",
	}
}

// Aggregate builds the canonical context. With no identity the UI context is
// returned verbatim and profile-only fields stay unset. With an identity the
// profile forms the base, nearbyCuisines are injected, and the UI overlay is
// applied last so it can override anything. A profile fetch failure is never
// propagated: a minimal default base is substituted instead.
func (a *Aggregator) Aggregate(ctx context.Context, ui map[string]any, identity string, nearbyCuisines []string) Context {
	if identity == "" {
		return decodeContext(ui)
	}

	base := profileBaseDefaults()
	profile, err := a.store.Profile(ctx, identity)
	if err != nil {
		log.WithError(err).Warnf("profile fetch failed for %s, using defaults", identity)
		if a.metrics != nil {
			a.metrics.RecordProfileError()
		}
		base["recent_orders"] = []string{}
		base["preferred_cuisine"] = a.defaultCuisine
	} else {
		base["diet_type"] = profile.Dietary
		base["recent_orders"] = flattenOrders(profile.RecentOrders)
		base["preferred_cuisine"] = topCuisine(profile.FavoriteCuisines, a.defaultCuisine)
		base["dietary_tags"] = profile.Tags
		base["allergies"] = profile.Allergies
	}

	if len(nearbyCuisines) > 0 {
		base["nearby_cuisines"] = nearbyCuisines
	}
	for k, v := range ui {
		base[k] = v
	}
	return decodeContext(base)
}

// flattenOrders collects item names across order history, most recent first.
func flattenOrders(orders []catalog.Order) []string {
	var names []string
	for _, o := range orders {
		names = append(names, o.Items...)
	}
	return names
}

func topCuisine(cuisines []string, fallback string) string {
	if len(cuisines) > 0 && cuisines[0] != "" {
		return cuisines[0]
	}
	return fallback
}

// decodeContext converts a merged key/value map into the canonical Context.
// Unknown keys are dropped; missing keys stay zero.
func decodeContext(m map[string]any) Context {
	var c Context
	raw, err := json.Marshal(m)
	if err != nil {
		return c
	}
	_ = json.Unmarshal(raw, &c)
	return c
}

// Copyright 2026 The Platewise Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package inference

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/platewise/platewise/internal/catalog"
)

// failingStore errors on every call.
type failingStore struct{}

func (failingStore) CatalogItems(context.Context, string, int) ([]catalog.Item, error) {
	return nil, errors.New("boom")
}

func (failingStore) Profile(context.Context, string) (*catalog.Profile, error) {
	return nil, errors.New("boom")
}

func TestAggregateNoIdentity(t *testing.T) {
	agg := NewAggregator(catalog.NewMemoryStore(nil), "italian", nil)

	ui := map[string]any{
		"mood_score":  4,
		"location":    "berlin",
		"time_of_day": "lunch",
		"user_tier":   "premium",
	}
	got := agg.Aggregate(context.Background(), ui, "", []string{"thai"})

	assert.Equal(t, 4, got.MoodScore)
	assert.Equal(t, "berlin", got.Location)
	assert.Equal(t, "lunch", got.TimeOfDay)
	assert.Equal(t, "premium", got.UserTier)
	// Profile-only fields stay unset without an identity.
	assert.Empty(t, got.DietType)
	assert.Empty(t, got.RecentOrders)
	assert.Empty(t, got.PreferredCuisine)
}

func TestAggregateMergesProfile(t *testing.T) {
	store := catalog.NewMemoryStore(nil)
	store.Profiles["u1"] = &catalog.Profile{
		Dietary: "vegetarian",
		RecentOrders: []catalog.Order{
			{ID: "o1", Items: []string{"Paneer Tikka", "Naan"}},
			{ID: "o2", Items: []string{"Dal Makhani"}},
		},
		FavoriteCuisines: []string{"indian", "thai"},
		Tags:             []string{"vegetarian"},
	}
	agg := NewAggregator(store, "italian", nil)

	got := agg.Aggregate(context.Background(), map[string]any{"mood_score": 5}, "u1", nil)

	assert.Equal(t, "vegetarian", got.DietType)
	assert.Equal(t, []string{"Paneer Tikka", "Naan", "Dal Makhani"}, got.RecentOrders)
	assert.Equal(t, "indian", got.PreferredCuisine)
	// Defaults fill attributes the profile store does not model.
	assert.Equal(t, "mobile", got.DeviceType)
	// UI overlay wins.
	assert.Equal(t, 5, got.MoodScore)
}

func TestAggregateUIWinsOverProfile(t *testing.T) {
	store := catalog.NewMemoryStore(nil)
	store.Profiles["u1"] = &catalog.Profile{Dietary: "vegan", FavoriteCuisines: []string{"korean"}}
	agg := NewAggregator(store, "italian", nil)

	ui := map[string]any{"diet_type": "pescatarian", "preferred_cuisine": "japanese"}
	got := agg.Aggregate(context.Background(), ui, "u1", nil)

	assert.Equal(t, "pescatarian", got.DietType)
	assert.Equal(t, "japanese", got.PreferredCuisine)
}

func TestAggregateProfileFailureUsesDefaults(t *testing.T) {
	agg := NewAggregator(failingStore{}, "italian", nil)

	got := agg.Aggregate(context.Background(), map[string]any{"mood_score": 2}, "u1", nil)

	assert.Equal(t, 2, got.MoodScore)
	assert.Empty(t, got.RecentOrders)
	assert.Empty(t, got.DietType)
	assert.Equal(t, "italian", got.PreferredCuisine)
}

func TestAggregateNearbyCuisinesInjectedBeforeUIOverlay(t *testing.T) {
	store := catalog.NewMemoryStore(nil)
	store.Profiles["u1"] = &catalog.Profile{}
	agg := NewAggregator(store, "italian", nil)

	// Without a UI override, injected nearby cuisines survive.
	got := agg.Aggregate(context.Background(), nil, "u1", []string{"kebab", "turkish"})
	assert.Equal(t, []string{"kebab", "turkish"}, got.NearbyCuisines)

	// A UI-supplied value for the same key overrides the injection.
	ui := map[string]any{"nearby_cuisines": []string{"thai"}}
	got = agg.Aggregate(context.Background(), ui, "u1", []string{"kebab"})
	assert.Equal(t, []string{"thai"}, got.NearbyCuisines)
}

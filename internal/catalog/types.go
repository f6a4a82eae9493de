// Copyright 2026 The Platewise Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package catalog provides read access to the dish catalog and user profiles,
// and the matching/ranking logic that reconciles free-text item mentions
// against concrete catalog records.
package catalog

import "context"

// Item is a single catalog record. The inference core treats it as read-only.
type Item struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Cuisines    []string `json:"cuisines"`
	Tags        []string `json:"tags"`
	Price       float64  `json:"price"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"review_count"`
	DietaryTags []string `json:"dietary_tags"`
	ChefID      string   `json:"chef_id"`
	ChefName    string   `json:"chef_name"`
	ImageURL    string   `json:"image_url"`
}

// Order is one historical order from a user profile.
type Order struct {
	ID    string   `json:"id"`
	Items []string `json:"items"`
}

// Profile holds the profile-store view of a user.
type Profile struct {
	Dietary          string   `json:"dietary"`
	RecentOrders     []Order  `json:"recent_orders"`
	FavoriteCuisines []string `json:"favorite_cuisines"`
	Tags             []string `json:"tags"`
	Allergies        []string `json:"allergies"`
}

// DishRecommendation is a catalog item resolved against a free-text mention
// or an explicit filter, ready to be returned to the caller. Lists of these
// are ordered by RelevanceScore descending with Rating breaking ties.
type DishRecommendation struct {
	DishID         string   `json:"dish_id"`
	Name           string   `json:"name"`
	Price          float64  `json:"price"`
	ImageURL       string   `json:"image_url"`
	Description    string   `json:"description"`
	ChefName       string   `json:"chef_name"`
	ChefID         string   `json:"chef_id"`
	Badge          string   `json:"badge,omitempty"`
	RelevanceScore float64  `json:"relevance_score"`
	DietaryTags    []string `json:"dietary_tags"`
	Rating         float64  `json:"rating"`
	ReviewCount    int      `json:"review_count"`
	EcoImpact      string   `json:"eco_impact,omitempty"`
}

// Store is the external catalog/profile collaborator consumed by the
// inference core. Implementations must be safe for concurrent use.
type Store interface {
	// CatalogItems returns up to limit items, optionally scoped to the
	// requesting identity. limit <= 0 means no bound.
	CatalogItems(ctx context.Context, identity string, limit int) ([]Item, error)

	// Profile returns the profile for the given identity.
	Profile(ctx context.Context, identity string) (*Profile, error)
}

// Copyright 2026 The Platewise Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
)

// PostgresStore reads the dish catalog and user profiles from Postgres via
// the pgx database/sql driver. It is read-only from the pipeline's point of
// view; writes belong to the surrounding application.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres opens a connection pool for the given DSN and verifies it.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("catalog: open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("catalog: ping postgres: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// NewPostgresStore wraps an existing database handle. Used by tests.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Close releases the underlying pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

const catalogItemsQuery = `SELECT d.id, d.name, d.description, d.category, d.cuisines, d.tags,
       d.price, d.rating, d.review_count, d.dietary_tags, d.image_url,
       c.id, c.display_name
FROM dishes d
JOIN chefs c ON c.id = d.chef_id
WHERE d.active AND ($1 = '' OR d.region = (SELECT region FROM users WHERE id = $1))
ORDER BY d.rating DESC, d.review_count DESC
LIMIT $2`

// CatalogItems returns up to limit active dishes, scoped to the identity's
// region when an identity is supplied. limit <= 0 falls back to a server-side
// bound rather than an unbounded scan.
func (s *PostgresStore) CatalogItems(ctx context.Context, identity string, limit int) ([]Item, error) {
	if limit <= 0 {
		limit = 500
	}
	rows, err := s.db.QueryContext(ctx, catalogItemsQuery, identity, limit)
	if err != nil {
		return nil, fmt.Errorf("catalog: query items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		var cuisines, tags, dietary string
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.Category,
			&cuisines, &tags, &it.Price, &it.Rating, &it.ReviewCount,
			&dietary, &it.ImageURL, &it.ChefID, &it.ChefName); err != nil {
			return nil, fmt.Errorf("catalog: scan item: %w", err)
		}
		it.Cuisines = splitList(cuisines)
		it.Tags = splitList(tags)
		it.DietaryTags = splitList(dietary)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate items: %w", err)
	}
	return items, nil
}

const profileQuery = `SELECT dietary, favorite_cuisines, tags, allergies
FROM user_profiles WHERE user_id = $1`

const recentOrdersQuery = `SELECT o.id, o.item_names
FROM orders o WHERE o.user_id = $1
ORDER BY o.placed_at DESC LIMIT 10`

// Profile returns the dietary preferences, recent order history, and
// favorite cuisines for an identity.
func (s *PostgresStore) Profile(ctx context.Context, identity string) (*Profile, error) {
	var p Profile
	var cuisines, tags, allergies string
	err := s.db.QueryRowContext(ctx, profileQuery, identity).
		Scan(&p.Dietary, &cuisines, &tags, &allergies)
	if err != nil {
		return nil, fmt.Errorf("catalog: query profile: %w", err)
	}
	p.FavoriteCuisines = splitList(cuisines)
	p.Tags = splitList(tags)
	p.Allergies = splitList(allergies)

	rows, err := s.db.QueryContext(ctx, recentOrdersQuery, identity)
	if err != nil {
		return nil, fmt.Errorf("catalog: query orders: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var o Order
		var names string
		if err := rows.Scan(&o.ID, &names); err != nil {
			return nil, fmt.Errorf("catalog: scan order: %w", err)
		}
		o.Items = splitList(names)
		p.RecentOrders = append(p.RecentOrders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate orders: %w", err)
	}
	return &p, nil
}

// splitList parses the comma-separated list columns used by the dishes
// schema into a clean slice.
func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

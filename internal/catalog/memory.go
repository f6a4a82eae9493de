// Copyright 2026 The Platewise Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package catalog

import (
	"context"
	"errors"
)

// ErrProfileNotFound is returned by stores when no profile exists for an
// identity.
var ErrProfileNotFound = errors.New("catalog: profile not found")

// MemoryStore is an in-process Store used for tests and for running the
// server without a database.
type MemoryStore struct {
	Items    []Item
	Profiles map[string]*Profile
}

// NewMemoryStore builds a MemoryStore over the given items.
func NewMemoryStore(items []Item) *MemoryStore {
	return &MemoryStore{Items: items, Profiles: make(map[string]*Profile)}
}

// CatalogItems returns up to limit items.
func (s *MemoryStore) CatalogItems(_ context.Context, _ string, limit int) ([]Item, error) {
	items := s.Items
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	out := make([]Item, len(items))
	copy(out, items)
	return out, nil
}

// Profile returns the stored profile or ErrProfileNotFound.
func (s *MemoryStore) Profile(_ context.Context, identity string) (*Profile, error) {
	if p, ok := s.Profiles[identity]; ok {
		return p, nil
	}
	return nil, ErrProfileNotFound
}

// Copyright 2026 The Platewise Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package catalog

import (
	"sort"
	"strings"
)

const (
	// MaxResolvedDishes caps dish lists resolved from backend recommendations.
	MaxResolvedDishes = 5

	// MaxDirectSearchDishes caps dish lists served by the direct-search branch.
	MaxDirectSearchDishes = 20
)

// cuisineAliasGroups maps a broad cuisine label to the narrower cuisine tags
// it should match. The table is applied bidirectionally: a query for the
// broad label matches items tagged with any member, and a query for a member
// matches items tagged with the broad label.
var cuisineAliasGroups = map[string][]string{
	"middle eastern": {"kebab", "turkish", "arabic", "lebanese"},
	"south asian":    {"indian", "pakistani", "bengali", "sri lankan"},
	"east asian":     {"chinese", "japanese", "korean"},
	"latin":          {"mexican", "peruvian", "brazilian"},
}

// cuisineAliases is the flattened bidirectional lookup built from
// cuisineAliasGroups at init.
var cuisineAliases = buildAliasTable(cuisineAliasGroups)

func buildAliasTable(groups map[string][]string) map[string][]string {
	table := make(map[string][]string, len(groups)*4)
	for broad, members := range groups {
		table[broad] = append(table[broad], members...)
		for _, m := range members {
			table[m] = append(table[m], broad)
		}
	}
	return table
}

// Filters restrict catalog candidates. Empty fields are ignored.
type Filters struct {
	Category string
	Tag      string
	Cuisine  string
}

// Empty reports whether no filter is set.
func (f Filters) Empty() bool {
	return f.Category == "" && f.Tag == "" && f.Cuisine == ""
}

// matchesTerm is the single free-text predicate shared by recommendation
// resolution and direct search. It reports whether the item's name,
// description, or cuisine set contains the term (or vice versa), widening
// cuisine comparisons through the alias table.
func matchesTerm(item Item, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return false
	}
	if containsEither(strings.ToLower(item.Name), term) {
		return true
	}
	if containsEither(strings.ToLower(item.Description), term) {
		return true
	}
	for _, c := range item.Cuisines {
		c = strings.ToLower(c)
		if containsEither(c, term) {
			return true
		}
		for _, alias := range cuisineAliases[term] {
			if containsEither(c, alias) {
				return true
			}
		}
		for _, alias := range cuisineAliases[c] {
			if containsEither(alias, term) {
				return true
			}
		}
	}
	return false
}

// containsEither checks substring containment in both directions.
func containsEither(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// matchesFilters applies the optional category/tag/cuisine constraints.
// Category matches against the item's category field, cuisine set, name, or
// description; tag matches against the tag set, name, or description;
// cuisine reuses the shared term predicate so aliases apply.
func matchesFilters(item Item, f Filters) bool {
	if f.Category != "" {
		cat := strings.ToLower(f.Category)
		ok := containsEither(strings.ToLower(item.Category), cat) ||
			containsEither(strings.ToLower(item.Name), cat) ||
			containsEither(strings.ToLower(item.Description), cat)
		if !ok {
			for _, c := range item.Cuisines {
				if containsEither(strings.ToLower(c), cat) {
					ok = true
					break
				}
			}
		}
		if !ok {
			return false
		}
	}
	if f.Tag != "" {
		tag := strings.ToLower(f.Tag)
		ok := containsEither(strings.ToLower(item.Name), tag) ||
			containsEither(strings.ToLower(item.Description), tag)
		if !ok {
			for _, t := range item.Tags {
				if containsEither(strings.ToLower(t), tag) {
					ok = true
					break
				}
			}
		}
		if !ok {
			return false
		}
	}
	if f.Cuisine != "" && !matchesTerm(item, f.Cuisine) {
		return false
	}
	return true
}

// relevance scores an item against a free-text term: exact lowercase name
// equality is 1.0, substring containment either way is 0.8. An empty term
// (filter-only search, nothing to rank against) scores 1.0.
func relevance(item Item, term string) float64 {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return 1.0
	}
	if strings.ToLower(item.Name) == term {
		return 1.0
	}
	return 0.8
}

// badgeFor picks a display badge. An explicit badge from the backend wins;
// otherwise a protein signal from the recommendation tags or the item's own
// tags yields HIGH PROTEIN; otherwise a rating of 4.5 or better yields
// BUSSIN. Direct search has no recommendation tags, so there the protein
// signal comes solely from the item.
func badgeFor(explicit string, recTags []string, item Item) string {
	if explicit != "" {
		return strings.ToUpper(explicit)
	}
	for _, t := range recTags {
		if strings.Contains(strings.ToLower(t), "protein") {
			return "HIGH PROTEIN"
		}
	}
	for _, t := range append(item.Tags, item.DietaryTags...) {
		if strings.Contains(strings.ToLower(t), "protein") {
			return "HIGH PROTEIN"
		}
	}
	if item.Rating >= 4.5 {
		return "BUSSIN"
	}
	return ""
}

// toDish converts a matched item into the outward recommendation shape.
func toDish(item Item, score float64, badge string) DishRecommendation {
	return DishRecommendation{
		DishID:         item.ID,
		Name:           item.Name,
		Price:          item.Price,
		ImageURL:       item.ImageURL,
		Description:    item.Description,
		ChefName:       item.ChefName,
		ChefID:         item.ChefID,
		Badge:          badge,
		RelevanceScore: score,
		DietaryTags:    item.DietaryTags,
		Rating:         item.Rating,
		ReviewCount:    item.ReviewCount,
	}
}

// sortDishes orders by relevance descending, rating breaking ties.
func sortDishes(dishes []DishRecommendation) {
	sort.SliceStable(dishes, func(i, j int) bool {
		if dishes[i].RelevanceScore != dishes[j].RelevanceScore {
			return dishes[i].RelevanceScore > dishes[j].RelevanceScore
		}
		return dishes[i].Rating > dishes[j].Rating
	})
}

// MentionedItem is a free-text dish mention to resolve against the catalog.
type MentionedItem struct {
	Name  string
	Tags  []string
	Badge string
}

// ResolveMentions resolves backend-emitted item mentions against the catalog.
// At most one catalog item is taken per mention, the first whose name,
// description, or cuisine set matches; optional filters further restrict
// candidates. The result is capped at MaxResolvedDishes and ordered by
// relevance then rating. Items flagged under the clearance tag filter get an
// eco-impact annotation.
func ResolveMentions(items []Item, mentions []MentionedItem, f Filters) []DishRecommendation {
	dishes := make([]DishRecommendation, 0, len(mentions))
	seen := make(map[string]bool, len(mentions))
	for _, m := range mentions {
		for _, item := range items {
			if seen[item.ID] || !matchesTerm(item, m.Name) || !matchesFilters(item, f) {
				continue
			}
			seen[item.ID] = true
			dish := toDish(item, relevance(item, m.Name), badgeFor(m.Badge, m.Tags, item))
			dish.EcoImpact = EcoImpact(item, f.Tag)
			dishes = append(dishes, dish)
			break
		}
	}
	sortDishes(dishes)
	if len(dishes) > MaxResolvedDishes {
		dishes = dishes[:MaxResolvedDishes]
	}
	return dishes
}

// DirectSearch serves the short-circuit branch: explicit filters, with or
// without a free-text query, matched straight against the catalog without
// any backend call. Capped at MaxDirectSearchDishes.
func DirectSearch(items []Item, query string, f Filters) []DishRecommendation {
	query = strings.TrimSpace(query)
	dishes := make([]DishRecommendation, 0, 16)
	for _, item := range items {
		if !matchesFilters(item, f) {
			continue
		}
		if query != "" && !matchesTerm(item, query) {
			continue
		}
		dish := toDish(item, relevance(item, query), badgeFor("", nil, item))
		dish.EcoImpact = EcoImpact(item, f.Tag)
		dishes = append(dishes, dish)
	}
	sortDishes(dishes)
	if len(dishes) > MaxDirectSearchDishes {
		dishes = dishes[:MaxDirectSearchDishes]
	}
	return dishes
}

// Copyright 2026 The Platewise Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kebabItem() Item {
	return Item{
		ID: "k1", Name: "Adana Kebab", Description: "grilled minced lamb",
		Category: "grill", Cuisines: []string{"kebab"}, Rating: 4.6,
	}
}

func middleEasternItem() Item {
	return Item{
		ID: "m1", Name: "Mezze Platter", Description: "assorted dips",
		Category: "starter", Cuisines: []string{"middle eastern"}, Rating: 4.1,
	}
}

func TestMatchesTermAliasBidirectional(t *testing.T) {
	// Broad label matches an item tagged with a member cuisine.
	assert.True(t, matchesTerm(kebabItem(), "middle eastern"))
	// Member cuisine matches an item tagged with the broad label.
	assert.True(t, matchesTerm(middleEasternItem(), "kebab"))
	// Unrelated terms stay unmatched.
	assert.False(t, matchesTerm(kebabItem(), "sushi"))
}

func TestMatchesTermNameAndDescription(t *testing.T) {
	item := kebabItem()
	assert.True(t, matchesTerm(item, "adana kebab"))
	assert.True(t, matchesTerm(item, "Adana"))
	assert.True(t, matchesTerm(item, "minced lamb"))
	// Mention longer than the name still matches via containment.
	assert.True(t, matchesTerm(item, "spicy adana kebab skewer"))
	assert.False(t, matchesTerm(item, ""))
}

func TestResolveMentionsScoringAndOrder(t *testing.T) {
	items := []Item{
		{ID: "1", Name: "Pad Thai", Rating: 4.0, Cuisines: []string{"thai"}},
		{ID: "2", Name: "Green Curry", Description: "thai classic", Rating: 4.9, Cuisines: []string{"thai"}},
	}
	mentions := []MentionedItem{
		{Name: "green curry"}, // exact name match, 1.0
		{Name: "pad"},         // substring, 0.8
	}
	dishes := ResolveMentions(items, mentions, Filters{})

	require.Len(t, dishes, 2)
	assert.Equal(t, "Green Curry", dishes[0].Name)
	assert.Equal(t, 1.0, dishes[0].RelevanceScore)
	assert.Equal(t, "Pad Thai", dishes[1].Name)
	assert.Equal(t, 0.8, dishes[1].RelevanceScore)
}

func TestResolveMentionsCapAtFive(t *testing.T) {
	var items []Item
	var mentions []MentionedItem
	for i := 0; i < 8; i++ {
		name := fmt.Sprintf("Dish %c", 'A'+i)
		items = append(items, Item{ID: fmt.Sprintf("d%d", i), Name: name, Rating: 4.0})
		mentions = append(mentions, MentionedItem{Name: name})
	}
	dishes := ResolveMentions(items, mentions, Filters{})
	assert.Len(t, dishes, MaxResolvedDishes)
}

func TestResolveMentionsTakesOneItemPerMention(t *testing.T) {
	items := []Item{
		{ID: "1", Name: "Butter Chicken", Rating: 4.1},
		{ID: "2", Name: "Butter Chicken Deluxe", Rating: 4.9},
	}
	dishes := ResolveMentions(items, []MentionedItem{{Name: "butter chicken"}}, Filters{})

	require.Len(t, dishes, 1)
	assert.Equal(t, "1", dishes[0].DishID)
}

func TestBadgePrecedence(t *testing.T) {
	highRated := Item{Name: "Tres Leches", Rating: 4.7}
	protein := Item{Name: "Grilled Chicken", Rating: 4.0, Tags: []string{"high protein"}}
	plain := Item{Name: "Plain Rice", Rating: 3.9}

	// Explicit badge wins and is uppercased.
	assert.Equal(t, "CHEF'S PICK", badgeFor("chef's pick", nil, highRated))
	// Recommendation tag with protein.
	assert.Equal(t, "HIGH PROTEIN", badgeFor("", []string{"high-protein"}, plain))
	// Item's own tags carry the protein signal in direct search.
	assert.Equal(t, "HIGH PROTEIN", badgeFor("", nil, protein))
	// Rating threshold.
	assert.Equal(t, "BUSSIN", badgeFor("", nil, highRated))
	// Nothing applies.
	assert.Equal(t, "", badgeFor("", nil, plain))
}

func TestDirectSearchFilters(t *testing.T) {
	items := []Item{
		{ID: "1", Name: "Veggie Bowl", Category: "bowl", Tags: []string{"vegan"}, Rating: 4.4},
		{ID: "2", Name: "Beef Bowl", Category: "bowl", Tags: []string{"hearty"}, Rating: 4.8},
		{ID: "3", Name: "Miso Soup", Category: "soup", Tags: []string{"vegan"}, Rating: 4.1},
	}

	dishes := DirectSearch(items, "", Filters{Category: "bowl", Tag: "vegan"})
	require.Len(t, dishes, 1)
	assert.Equal(t, "Veggie Bowl", dishes[0].Name)
	// Filter-only search has nothing to rank against.
	assert.Equal(t, 1.0, dishes[0].RelevanceScore)
}

func TestDirectSearchCapAtTwenty(t *testing.T) {
	var items []Item
	for i := 0; i < 30; i++ {
		items = append(items, Item{
			ID:       fmt.Sprintf("d%d", i),
			Name:     fmt.Sprintf("Bowl %d", i),
			Category: "bowl",
			Rating:   4.0,
		})
	}
	dishes := DirectSearch(items, "", Filters{Category: "bowl"})
	assert.Len(t, dishes, MaxDirectSearchDishes)
}

func TestDirectSearchWithQueryOrdering(t *testing.T) {
	items := []Item{
		{ID: "1", Name: "Ramen", Category: "soup", Rating: 4.2},
		{ID: "2", Name: "Spicy Ramen", Category: "soup", Rating: 4.9},
	}
	dishes := DirectSearch(items, "ramen", Filters{Category: "soup"})

	require.Len(t, dishes, 2)
	// Exact name beats substring even with a lower rating.
	assert.Equal(t, "Ramen", dishes[0].Name)
	assert.Equal(t, 1.0, dishes[0].RelevanceScore)
	assert.Equal(t, 0.8, dishes[1].RelevanceScore)
}

func TestDirectSearchEcoImpactOnlyUnderClearanceTag(t *testing.T) {
	items := []Item{
		{ID: "1", Name: "Day-old Bagels", Category: "baked", Tags: []string{"rescue-deal"}, Rating: 4.0},
	}

	with := DirectSearch(items, "", Filters{Tag: ClearanceTag})
	require.Len(t, with, 1)
	assert.NotEmpty(t, with[0].EcoImpact)

	without := DirectSearch(items, "", Filters{Tag: "rescue"})
	require.Len(t, without, 1)
	assert.Empty(t, without[0].EcoImpact)
}

// Copyright 2026 The Platewise Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package inference implements the recommendation inference pipeline: context
// aggregation, backend selection, dispatch with fallback, response parsing,
// and catalog reconciliation. The only entry point exposed to the rest of the
// application is Pipeline.RunInference, which always returns a well-formed
// InferenceResponse and never returns an error.
package inference

import (
	"github.com/platewise/platewise/internal/catalog"
)

// Response types a parsed backend payload may carry. Anything outside this
// set, or a payload that cannot be parsed at all, degrades to fallback.
const (
	ResponseTypeAnswer         = "answer"
	ResponseTypeRecommendation = "recommendation"
	ResponseTypeNotification   = "notification"
	ResponseTypeFallback       = "fallback"
	ResponseTypeMultiIntent    = "multi_intent"
)

// Context is the canonical session context assembled by the Aggregator from
// the UI-supplied overlay and (when an identity is present) the profile store.
// UI-supplied fields always win over profile-derived fields of the same name.
type Context struct {
	MoodScore        int      `json:"mood_score"`
	Location         string   `json:"location"`
	TimeOfDay        string   `json:"time_of_day"`
	ActiveScreen     string   `json:"active_screen"`
	DeviceType       string   `json:"device_type"`
	UserTier         string   `json:"user_tier"`
	Weather          string   `json:"weather,omitempty"`
	DietType         string   `json:"diet_type,omitempty"`
	RecentOrders     []string `json:"recent_orders,omitempty"`
	PreferredCuisine string   `json:"preferred_cuisine,omitempty"`
	NearbyCuisines   []string `json:"nearby_cuisines,omitempty"`
	DietaryTags      []string `json:"dietary_tags,omitempty"`
	Allergies        []string `json:"allergies,omitempty"`
}

// InferenceRequest is the immutable input to one pipeline run. UIContext is
// the raw key/value context supplied by the client; it is merged over the
// profile-derived base by the Aggregator.
type InferenceRequest struct {
	UIContext      map[string]any `json:"context"`
	UserInput      string         `json:"user_input,omitempty"`
	Priority       bool           `json:"priority,omitempty"`
	Intent         string         `json:"intent,omitempty"`
	Category       string         `json:"category,omitempty"`
	Tag            string         `json:"tag,omitempty"`
	Cuisine        string         `json:"cuisine,omitempty"`
	Identity       string         `json:"identity,omitempty"`
	NearbyCuisines []string       `json:"nearby_cuisines,omitempty"`
}

// HasFilters reports whether the request carries explicit catalog filters,
// which route it down the direct-search branch.
func (r *InferenceRequest) HasFilters() bool {
	return r.Category != "" || r.Tag != "" || r.Cuisine != ""
}

// Recommendation is a single free-text item mention emitted by a backend.
type Recommendation struct {
	ItemName string   `json:"item_name"`
	Reason   string   `json:"reason,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Badge    string   `json:"badge,omitempty"`
}

// ParsedPayload is the structured form of a raw backend response.
type ParsedPayload struct {
	ResponseType        string           `json:"response_type"`
	Intent              string           `json:"intent,omitempty"`
	Recommendations     []Recommendation `json:"recommendations,omitempty"`
	Message             string           `json:"message"`
	Answer              string           `json:"answer,omitempty"`
	FollowupSuggestions []string         `json:"followup_suggestions,omitempty"`
	Actions             []string         `json:"actions,omitempty"`
}

// ResponseData is the payload section of an InferenceResponse: the parsed
// backend payload plus resolved catalog dishes and the context the pipeline
// actually inferred for the request.
type ResponseData struct {
	ParsedPayload
	Dishes          []catalog.DishRecommendation `json:"dishes,omitempty"`
	InferredContext Context                      `json:"inferred_context"`
}

// InferenceResponse is what every pipeline run returns. Success is false only
// when the payload degraded to fallback; catalog lookup failures alone do not
// flip it.
type InferenceResponse struct {
	Success bool         `json:"success"`
	Data    ResponseData `json:"data"`
	Message string       `json:"message"`
}

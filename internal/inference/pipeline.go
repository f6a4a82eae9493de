// Copyright 2026 The Platewise Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package inference

import (
	"context"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/platewise/platewise/internal/backend"
	"github.com/platewise/platewise/internal/catalog"
	"github.com/platewise/platewise/internal/interactionlog"
	"github.com/platewise/platewise/internal/metrics"
	"github.com/platewise/platewise/internal/steering"
)

// Pipeline wires the aggregator, selector, dispatcher, parser, matcher, and
// interaction log into one stateless inference flow. Nothing is retained
// between calls.
type Pipeline struct {
	store      catalog.Store
	aggregator *Aggregator
	dispatcher *backend.Dispatcher
	steering   *steering.Engine
	logger     *interactionlog.Logger
	metrics    *metrics.Metrics
	fetchLimit int
}

// NewPipeline assembles a pipeline. steering and logger may be nil.
func NewPipeline(store catalog.Store, agg *Aggregator, d *backend.Dispatcher, eng *steering.Engine, l *interactionlog.Logger, m *metrics.Metrics, fetchLimit int) *Pipeline {
	if fetchLimit <= 0 {
		fetchLimit = 200
	}
	return &Pipeline{
		store:      store,
		aggregator: agg,
		dispatcher: d,
		steering:   eng,
		logger:     l,
		metrics:    m,
		fetchLimit: fetchLimit,
	}
}

// RunInference executes one inference request end to end. It always returns
// a structured response and never returns an error: every documented failure
// degrades to a fallback-typed payload with success=false, and catalog
// failures alone degrade only the dish list.
func (p *Pipeline) RunInference(ctx context.Context, req InferenceRequest) InferenceResponse {
	requestID := uuid.NewString()
	logger := log.WithField("request_id", requestID)
	if p.metrics != nil {
		p.metrics.RecordRequest()
	}

	inferred := p.aggregator.Aggregate(ctx, req.UIContext, req.Identity, req.NearbyCuisines)
	filters := catalog.Filters{Category: req.Category, Tag: req.Tag, Cuisine: req.Cuisine}

	// Direct-search branch: explicit filters are served straight from the
	// catalog and skip backend dispatch entirely when anything matches.
	if req.HasFilters() {
		if resp, ok := p.directSearch(ctx, req, filters, inferred, requestID, logger); ok {
			return resp
		}
	}

	hasInput := HasUserInput(req.UserInput)
	chosen := Choose(inferred.UserTier, inferred.MoodScore, len(req.UserInput), hasInput, req.Priority)
	if p.steering != nil {
		if pinned, ok := p.steering.Match(steering.RoutingContext{
			Tier:       inferred.UserTier,
			MoodScore:  inferred.MoodScore,
			InputChars: len(req.UserInput),
			HasInput:   hasInput,
			Priority:   req.Priority,
			TimeOfDay:  inferred.TimeOfDay,
			Intent:     req.Intent,
		}); ok && p.dispatcher.Routed(backend.ID(pinned)) {
			chosen = backend.ID(pinned)
		}
	}
	logger.Debugf("selected backend %s", chosen)

	userText := req.UserInput
	if !hasInput {
		userText = defaultUserText
	}
	raw, used := p.dispatcher.Dispatch(ctx, chosen, BuildSystemPrompt(inferred, req.Intent), userText)

	payload := Parse(raw)
	if payload.ResponseType == ResponseTypeFallback && p.metrics != nil {
		p.metrics.RecordParseFailure()
	}

	resp := InferenceResponse{
		Success: payload.ResponseType != ResponseTypeFallback,
		Data: ResponseData{
			ParsedPayload:   payload,
			InferredContext: inferred,
		},
		Message: payload.Message,
	}

	if len(payload.Recommendations) > 0 {
		resp.Data.Dishes = p.resolveDishes(ctx, req, filters, payload.Recommendations, logger)
	}

	p.record(interactionlog.Entry{
		RequestID:    requestID,
		Identity:     req.Identity,
		Backend:      string(used),
		Query:        req.UserInput,
		ResponseType: payload.ResponseType,
		Success:      resp.Success,
		RawResponse:  raw,
		Context:      inferred,
	})
	return resp
}

// directSearch serves the filter short-circuit. The boolean is false when
// the catalog produced no matches (or failed), in which case the caller
// falls through to backend dispatch.
func (p *Pipeline) directSearch(ctx context.Context, req InferenceRequest, filters catalog.Filters, inferred Context, requestID string, logger *log.Entry) (InferenceResponse, bool) {
	items, err := p.store.CatalogItems(ctx, req.Identity, p.fetchLimit)
	if err != nil {
		logger.WithError(err).Error("catalog lookup failed in direct search")
		if p.metrics != nil {
			p.metrics.RecordCatalogError()
		}
		return InferenceResponse{}, false
	}
	dishes := catalog.DirectSearch(items, req.UserInput, filters)
	if len(dishes) == 0 {
		return InferenceResponse{}, false
	}
	if p.metrics != nil {
		p.metrics.RecordDirectSearch()
	}

	const msg = "Here's what matches your filters."
	resp := InferenceResponse{
		Success: true,
		Data: ResponseData{
			ParsedPayload: ParsedPayload{
				ResponseType: ResponseTypeRecommendation,
				Intent:       "direct_search",
				Message:      msg,
			},
			Dishes:          dishes,
			InferredContext: inferred,
		},
		Message: msg,
	}
	p.record(interactionlog.Entry{
		RequestID:    requestID,
		Identity:     req.Identity,
		Backend:      "direct_search",
		Query:        req.UserInput,
		ResponseType: ResponseTypeRecommendation,
		Success:      true,
		Context:      inferred,
	})
	return resp, true
}

// resolveDishes reconciles backend recommendations against the catalog.
// Lookup failures degrade to an empty dish list without failing the
// response.
func (p *Pipeline) resolveDishes(ctx context.Context, req InferenceRequest, filters catalog.Filters, recs []Recommendation, logger *log.Entry) []catalog.DishRecommendation {
	items, err := p.store.CatalogItems(ctx, req.Identity, p.fetchLimit)
	if err != nil {
		logger.WithError(err).Error("catalog lookup failed while resolving recommendations")
		if p.metrics != nil {
			p.metrics.RecordCatalogError()
		}
		return nil
	}
	mentions := make([]catalog.MentionedItem, 0, len(recs))
	for _, r := range recs {
		mentions = append(mentions, catalog.MentionedItem{Name: r.ItemName, Tags: r.Tags, Badge: r.Badge})
	}
	return catalog.ResolveMentions(items, mentions, filters)
}

func (p *Pipeline) record(e interactionlog.Entry) {
	if p.logger != nil {
		p.logger.Record(e)
	}
}

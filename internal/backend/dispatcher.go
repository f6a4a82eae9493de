// Copyright 2026 The Platewise Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package backend

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/platewise/platewise/internal/metrics"
)

// Dispatcher invokes the adapter chosen by the selector, bounding each call
// with a timeout. On a transport failure it reroutes exactly once to the
// designated low-cost fallback adapter; a failure there, or a missing
// credential anywhere, is converted into a fallback payload. Dispatch never
// returns an error.
type Dispatcher struct {
	adapters  map[ID]Adapter
	fallback  ID
	timeout   time.Duration
	estimator *TokenEstimator
	metrics   *metrics.Metrics
}

// NewDispatcher builds a dispatcher over the given adapters. fallback must
// be present in adapters.
func NewDispatcher(adapters []Adapter, fallback ID, timeout time.Duration, est *TokenEstimator, m *metrics.Metrics) *Dispatcher {
	table := make(map[ID]Adapter, len(adapters))
	for _, a := range adapters {
		table[a.ID()] = a
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Dispatcher{
		adapters:  table,
		fallback:  fallback,
		timeout:   timeout,
		estimator: est,
		metrics:   m,
	}
}

// Routed reports whether an adapter is wired for the given backend.
func (d *Dispatcher) Routed(id ID) bool {
	_, ok := d.adapters[id]
	return ok
}

// Dispatch calls the adapter for id and returns the raw response text plus
// the backend that actually produced it. The returned text is always either
// genuine backend output or a well-formed fallback payload.
func (d *Dispatcher) Dispatch(ctx context.Context, id ID, systemPrompt, userText string) (string, ID) {
	if d.metrics != nil {
		d.metrics.RecordBackendCall(string(id))
	}
	if d.estimator != nil {
		log.WithFields(log.Fields{
			"backend":       id,
			"prompt_tokens": d.estimator.Estimate(systemPrompt + "\n" + userText),
		}).Debug("dispatching inference request")
	}

	adapter, ok := d.adapters[id]
	if !ok {
		// Selector output and the routing table are built from the same
		// enumeration, so this only happens for the reserved slot.
		log.Warnf("backend %s has no adapter, using fallback %s", id, d.fallback)
		adapter, ok = d.adapters[d.fallback]
		if !ok {
			return FallbackPayload("no backend available"), id
		}
	}

	raw, err := d.invoke(ctx, adapter, systemPrompt, userText)
	if err == nil {
		return raw, adapter.ID()
	}

	if errors.Is(err, ErrMissingCredential) {
		log.Warnf("backend %s has no credential configured", adapter.ID())
		return FallbackPayload("the " + string(adapter.ID()) + " backend is not configured"), adapter.ID()
	}

	// Transport failure: one bounded reroute to the low-cost backend,
	// never recursive.
	log.WithError(err).Warnf("backend %s failed, rerouting to %s", adapter.ID(), d.fallback)
	if d.metrics != nil {
		d.metrics.RecordReroute()
	}
	if adapter.ID() != d.fallback {
		if fb, ok := d.adapters[d.fallback]; ok {
			raw, err = d.invoke(ctx, fb, systemPrompt, userText)
			if err == nil {
				return raw, fb.ID()
			}
			log.WithError(err).Error("fallback backend failed")
		}
	}
	if d.metrics != nil {
		d.metrics.RecordFallbackPayload()
	}
	return FallbackPayload("all backends are unavailable right now, please try again"), d.fallback
}

// invoke runs one adapter call under the configured timeout.
func (d *Dispatcher) invoke(ctx context.Context, adapter Adapter, systemPrompt, userText string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return adapter.Invoke(callCtx, systemPrompt, userText)
}

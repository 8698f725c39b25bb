// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package vis

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for registry operations.
var (
	tracer = otel.Tracer("aleutian.vis")
	meter  = otel.Meter("aleutian.vis")
)

// Metrics for registry operations.
var (
	cacheHits       metric.Int64Counter
	cacheMisses     metric.Int64Counter
	cacheEvictions  metric.Int64Counter
	cacheGetLatency metric.Float64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		cacheHits, err = meter.Int64Counter(
			"vis_cache_hits_total",
			metric.WithDescription("Total number of taxonomy cache hits"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		cacheMisses, err = meter.Int64Counter(
			"vis_cache_misses_total",
			metric.WithDescription("Total number of taxonomy cache misses"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		cacheEvictions, err = meter.Int64Counter(
			"vis_cache_evictions_total",
			metric.WithDescription("Total number of taxonomy cache evictions"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		cacheGetLatency, err = meter.Float64Histogram(
			"vis_get_duration_seconds",
			metric.WithDescription("Duration of taxonomy get operations"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordCacheHit records a cache hit metric.
func recordCacheHit(ctx context.Context) {
	if err := initMetrics(); err != nil {
		return
	}
	cacheHits.Add(ctx, 1)
}

// recordCacheMiss records a cache miss metric.
func recordCacheMiss(ctx context.Context) {
	if err := initMetrics(); err != nil {
		return
	}
	cacheMisses.Add(ctx, 1)
}

// recordCacheEviction records a cache eviction metric.
func recordCacheEviction(ctx context.Context) {
	if err := initMetrics(); err != nil {
		return
	}
	cacheEvictions.Add(ctx, 1)
}

// recordGetLatency records the latency of a get operation.
func recordGetLatency(ctx context.Context, duration time.Duration, hit bool) {
	if err := initMetrics(); err != nil {
		return
	}
	cacheGetLatency.Record(ctx, duration.Seconds(),
		metric.WithAttributes(attribute.Bool("hit", hit)),
	)
}

// startGetSpan creates a span for a registry get operation.
func startGetSpan(ctx context.Context, version string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Vis.GetGmod",
		trace.WithAttributes(
			attribute.String("vis.version", version),
		),
	)
}

// setGetSpanResult sets the result attributes on a get span.
func setGetSpanResult(span trace.Span, hit bool) {
	span.SetAttributes(attribute.Bool("vis.cache_hit", hit))
}

// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package gmod

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for taxonomy construction.
var (
	tracer = otel.Tracer("aleutian.gmod")
	meter  = otel.Meter("aleutian.gmod")
)

// Metrics for taxonomy construction.
var (
	buildTotal    metric.Int64Counter
	buildDuration metric.Float64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		buildTotal, err = meter.Int64Counter(
			"gmod_build_total",
			metric.WithDescription("Total number of taxonomy builds"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		buildDuration, err = meter.Float64Histogram(
			"gmod_build_duration_seconds",
			metric.WithDescription("Duration of taxonomy builds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordBuild records one taxonomy build.
func recordBuild(ctx context.Context, version VisVersion, duration time.Duration) {
	if err := initMetrics(); err != nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("gmod.version", version.String()))
	buildTotal.Add(ctx, 1, attrs)
	buildDuration.Record(ctx, duration.Seconds(), attrs)
}

// startBuildSpan creates a span for a taxonomy build.
func startBuildSpan(ctx context.Context, release string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Gmod.Build",
		trace.WithAttributes(
			attribute.String("gmod.release", release),
		),
	)
}

// setBuildSpanResult sets the result attributes on a build span.
func setBuildSpanResult(span trace.Span, nodes, edges int) {
	span.SetAttributes(
		attribute.Int("gmod.nodes", nodes),
		attribute.Int("gmod.edges", edges),
	)
}

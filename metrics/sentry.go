package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
)

// SentryMetrics handles custom metrics for Sentry, repurposed from the
// teacher's OpenAI token-usage spans to analysis spans: interpretation
// counts, primary confidence, and cache hit/miss per request.
type SentryMetrics struct {
	enabled bool
}

// NewSentryMetrics creates a new Sentry metrics client.
func NewSentryMetrics(enabled bool) *SentryMetrics {
	return &SentryMetrics{enabled: enabled}
}

// NewTraceID returns a fresh per-request trace id used to correlate a
// single request's concurrent analyzer fan-out across log lines and
// Sentry spans.
func NewTraceID() string {
	return uuid.NewString()
}

// RecordAnalysis records the shape of a completed analyze() call: how
// many interpretations were considered, the primary's confidence, and
// whether the cache was hit.
func (m *SentryMetrics) RecordAnalysis(ctx context.Context, traceID string, interpretationCount int, primaryConfidence float64, cacheHit bool, duration time.Duration) {
	if !m.enabled {
		return
	}

	if transaction := sentry.TransactionFromContext(ctx); transaction != nil {
		transaction.SetTag("analysis.trace_id", traceID)
		transaction.SetTag("analysis.cache_hit", fmt.Sprintf("%t", cacheHit))
		transaction.SetData("analysis.interpretation_count", interpretationCount)
		transaction.SetData("analysis.primary_confidence", primaryConfidence)
	}

	span := sentry.StartSpan(ctx, "tonal.analyze")
	defer span.Finish()

	span.SetTag("trace_id", traceID)
	span.SetTag("cache_hit", fmt.Sprintf("%t", cacheHit))
	span.SetData("interpretation_count", interpretationCount)
	span.SetData("primary_confidence", primaryConfidence)
	span.SetData("duration_ms", duration.Milliseconds())
	span.Status = sentry.SpanStatusOK
	span.Description = fmt.Sprintf("analyze trace=%s interpretations=%d", traceID, interpretationCount)
}

// RecordCacheEvent records a single cache hit or miss, independent of a
// full analysis span (useful for cache-only call sites such as
// suggestion engine's counterfactual re-runs).
func (m *SentryMetrics) RecordCacheEvent(ctx context.Context, hit bool) {
	if !m.enabled {
		return
	}
	span := sentry.StartSpan(ctx, "tonal.cache")
	defer span.Finish()
	span.SetTag("hit", fmt.Sprintf("%t", hit))
	span.SetData("hit", hit)
	span.Status = sentry.SpanStatusOK
}

// CaptureInternalInconsistency reports an InternalInconsistency to
// Sentry — by definition this should never fire, so it is the one
// error class in the taxonomy worth paging on (spec §7).
func (m *SentryMetrics) CaptureInternalInconsistency(err error) {
	if !m.enabled {
		return
	}
	sentry.CaptureException(err)
}

package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all application metrics
type Metrics struct {
	DocumentsStored    metric.Int64Counter
	ContentFallbacks   metric.Int64Counter
	ChunksProduced     metric.Int64Counter
	ExtractionDuration metric.Float64Histogram
	AIRequestDuration  metric.Float64Histogram
	TokensUsed         metric.Int64Counter
	AuditWriteFailures metric.Int64Counter
}

// InitMetrics initializes all application metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("doc-summarizer-platform")

	documentsStored, err := meter.Int64Counter(
		"documents.stored.total",
		metric.WithDescription("Total documents persisted"),
	)
	if err != nil {
		return nil, err
	}

	contentFallbacks, err := meter.Int64Counter(
		"content.fallback.total",
		metric.WithDescription("Content writes degraded to the in-process fallback cache"),
	)
	if err != nil {
		return nil, err
	}

	chunksProduced, err := meter.Int64Counter(
		"chunker.chunks.total",
		metric.WithDescription("Total text chunks produced"),
	)
	if err != nil {
		return nil, err
	}

	extractionDuration, err := meter.Float64Histogram(
		"extraction.duration",
		metric.WithDescription("Text extraction duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	aiRequestDuration, err := meter.Float64Histogram(
		"ai.request.duration",
		metric.WithDescription("AI request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	tokensUsed, err := meter.Int64Counter(
		"gemini.tokens.used",
		metric.WithDescription("Total Gemini tokens used"),
	)
	if err != nil {
		return nil, err
	}

	auditWriteFailures, err := meter.Int64Counter(
		"audit.write.failures",
		metric.WithDescription("Request-tracking records that failed to persist"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		DocumentsStored:    documentsStored,
		ContentFallbacks:   contentFallbacks,
		ChunksProduced:     chunksProduced,
		ExtractionDuration: extractionDuration,
		AIRequestDuration:  aiRequestDuration,
		TokensUsed:         tokensUsed,
		AuditWriteFailures: auditWriteFailures,
	}, nil
}

// RecordDocumentStored records a completed document persist
func (m *Metrics) RecordDocumentStored(status string, chunkCount int) {
	attrs := []attribute.KeyValue{
		attribute.String("document.status", status),
	}

	m.DocumentsStored.Add(context.Background(), 1, metric.WithAttributes(attrs...))
	m.ChunksProduced.Add(context.Background(), int64(chunkCount), metric.WithAttributes(attrs...))
}

// RecordContentFallback records a content write that landed in the fallback cache
func (m *Metrics) RecordContentFallback(reason string) {
	attrs := []attribute.KeyValue{
		attribute.String("fallback.reason", reason),
	}

	m.ContentFallbacks.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}

// RecordExtraction records text extraction metrics
func (m *Metrics) RecordExtraction(duration float64, method string) {
	attrs := []attribute.KeyValue{
		attribute.String("extraction.method", method),
	}

	m.ExtractionDuration.Record(context.Background(), duration, metric.WithAttributes(attrs...))
}

// RecordAIRequest records AI request metrics
func (m *Metrics) RecordAIRequest(duration float64, requestType string) {
	attrs := []attribute.KeyValue{
		attribute.String("ai.request_type", requestType),
	}

	m.AIRequestDuration.Record(context.Background(), duration, metric.WithAttributes(attrs...))
}

// RecordTokensUsed records Gemini token usage
func (m *Metrics) RecordTokensUsed(tokens int64, model string) {
	attrs := []attribute.KeyValue{
		attribute.String("gemini.model", model),
	}

	m.TokensUsed.Add(context.Background(), tokens, metric.WithAttributes(attrs...))
}

// RecordAuditWriteFailure records a swallowed request-tracking write error
func (m *Metrics) RecordAuditWriteFailure(requestType string) {
	attrs := []attribute.KeyValue{
		attribute.String("audit.request_type", requestType),
	}

	m.AuditWriteFailures.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}

package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all application metrics
type Metrics struct {
	ChatRequests    metric.Int64Counter
	ChatDuration    metric.Float64Histogram
	GatewayLatency  metric.Float64Histogram
	TokensUsed      metric.Int64Counter
	RateLimitDenied metric.Int64Counter
	AnalyticsEvents metric.Int64Counter
}

// InitMetrics initializes all application metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("content-protect-assistant")

	chatRequests, err := meter.Int64Counter(
		"assistant.chat.requests",
		metric.WithDescription("Total assistant chat requests"),
	)
	if err != nil {
		return nil, err
	}

	chatDuration, err := meter.Float64Histogram(
		"assistant.chat.duration",
		metric.WithDescription("Assistant chat request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	gatewayLatency, err := meter.Float64Histogram(
		"gateway.request.duration",
		metric.WithDescription("AI gateway round-trip duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	tokensUsed, err := meter.Int64Counter(
		"gateway.tokens.used",
		metric.WithDescription("Total gateway tokens consumed"),
	)
	if err != nil {
		return nil, err
	}

	rateLimitDenied, err := meter.Int64Counter(
		"assistant.ratelimit.denied",
		metric.WithDescription("Chat requests rejected by the rate limiter"),
	)
	if err != nil {
		return nil, err
	}

	analyticsEvents, err := meter.Int64Counter(
		"assistant.analytics.logged",
		metric.WithDescription("Analytics events written for assistant chats"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		ChatRequests:    chatRequests,
		ChatDuration:    chatDuration,
		GatewayLatency:  gatewayLatency,
		TokensUsed:      tokensUsed,
		RateLimitDenied: rateLimitDenied,
		AnalyticsEvents: analyticsEvents,
	}, nil
}

// RecordChat records a chat request outcome
func (m *Metrics) RecordChat(status string, duration float64) {
	attrs := []attribute.KeyValue{
		attribute.String("chat.status", status),
	}

	m.ChatRequests.Add(context.Background(), 1, metric.WithAttributes(attrs...))
	m.ChatDuration.Record(context.Background(), duration, metric.WithAttributes(attrs...))
}

// RecordGatewayCall records gateway latency and token usage
func (m *Metrics) RecordGatewayCall(model string, duration float64, tokens int64) {
	attrs := []attribute.KeyValue{
		attribute.String("gateway.model", model),
	}

	m.GatewayLatency.Record(context.Background(), duration, metric.WithAttributes(attrs...))
	if tokens > 0 {
		m.TokensUsed.Add(context.Background(), tokens, metric.WithAttributes(attrs...))
	}
}

// RecordRateLimitDenied records a rejected chat request
func (m *Metrics) RecordRateLimitDenied(userID string) {
	attrs := []attribute.KeyValue{
		attribute.String("user.id", userID),
	}

	m.RateLimitDenied.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}

// RecordAnalyticsEvent records an analytics write
func (m *Metrics) RecordAnalyticsEvent(eventType string, success bool) {
	attrs := []attribute.KeyValue{
		attribute.String("event.type", eventType),
		attribute.Bool("event.success", success),
	}

	m.AnalyticsEvents.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}

package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"stockai/internal/adapters/kafka"
	domain "stockai/internal/domain/sentiment"
	"stockai/internal/metrics"
	"stockai/pkg/logger"
)

// AnalysisCompleted is emitted after every finished analysis so
// downstream consumers can track sentiment over time.
type AnalysisCompleted struct {
	EventID          string    `json:"event_id"`
	Symbol           string    `json:"symbol"`
	Name             string    `json:"name"`
	Intent           string    `json:"intent"`
	OverallSentiment float64   `json:"overall_sentiment"`
	Label            string    `json:"label"`
	Confidence       float64   `json:"confidence"`
	Reliability      string    `json:"reliability"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// AnalysisFailed is emitted when a query could not be analyzed.
type AnalysisFailed struct {
	EventID    string    `json:"event_id"`
	Query      string    `json:"query"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PriceUpdate is emitted by the price tracker worker.
type PriceUpdate struct {
	EventID       string    `json:"event_id"`
	Symbol        string    `json:"symbol"`
	Price         string    `json:"price"`
	ChangePercent string    `json:"change_percent"`
	IsMock        bool      `json:"is_mock"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Publisher pushes analysis lifecycle events to Kafka. A nil Publisher
// is valid and drops everything, keeping the broker optional.
type Publisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

// NewPublisher creates an event publisher on top of a Kafka producer.
func NewPublisher(producer *kafka.Producer) *Publisher {
	return &Publisher{
		producer: producer,
		log:      logger.Get().With("component", "events"),
	}
}

// AnalysisCompleted publishes a completed-analysis event. Failures are
// logged, never propagated; event delivery is best effort.
func (p *Publisher) AnalysisCompleted(ctx context.Context, symbol, name, intent string, result domain.AggregateResult, reliability string) {
	if p == nil || p.producer == nil {
		return
	}

	evt := AnalysisCompleted{
		EventID:          uuid.NewString(),
		Symbol:           symbol,
		Name:             name,
		Intent:           intent,
		OverallSentiment: result.OverallSentiment,
		Label:            string(result.Label),
		Confidence:       result.Confidence,
		Reliability:      reliability,
		OccurredAt:       time.Now().UTC(),
	}

	if err := p.producer.Publish(ctx, kafka.TopicAnalysisCompleted, symbol, evt); err != nil {
		metrics.KafkaMessages.WithLabelValues(kafka.TopicAnalysisCompleted, "error").Inc()
		p.log.Warnf("Failed to publish analysis event for %s: %v", symbol, err)
		return
	}
	metrics.KafkaMessages.WithLabelValues(kafka.TopicAnalysisCompleted, "success").Inc()
}

// AnalysisFailed publishes a failed-analysis event, best effort.
func (p *Publisher) AnalysisFailed(ctx context.Context, query, reason string) {
	if p == nil || p.producer == nil {
		return
	}

	evt := AnalysisFailed{
		EventID:    uuid.NewString(),
		Query:      query,
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	}

	if err := p.producer.Publish(ctx, kafka.TopicAnalysisFailed, evt.EventID, evt); err != nil {
		metrics.KafkaMessages.WithLabelValues(kafka.TopicAnalysisFailed, "error").Inc()
		p.log.Warnf("Failed to publish failure event: %v", err)
		return
	}
	metrics.KafkaMessages.WithLabelValues(kafka.TopicAnalysisFailed, "success").Inc()
}

// PriceUpdate publishes a price tick, best effort.
func (p *Publisher) PriceUpdate(ctx context.Context, evt PriceUpdate) {
	if p == nil || p.producer == nil {
		return
	}
	if evt.EventID == "" {
		evt.EventID = uuid.NewString()
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}

	if err := p.producer.Publish(ctx, kafka.TopicPriceUpdate, evt.Symbol, evt); err != nil {
		metrics.KafkaMessages.WithLabelValues(kafka.TopicPriceUpdate, "error").Inc()
		p.log.Warnf("Failed to publish price update for %s: %v", evt.Symbol, err)
		return
	}
	metrics.KafkaMessages.WithLabelValues(kafka.TopicPriceUpdate, "success").Inc()
}

package kafka

// Topic definitions for Kafka event streaming
const (
	// Analysis events
	TopicAnalysisCompleted = "stockai.analysis.completed"
	TopicAnalysisFailed    = "stockai.analysis.failed"

	// Market data events
	TopicPriceUpdate = "stockai.market.prices"
)

package repository

import (
	"context"
	"strings"

	"RiskIQ/internal/domain/models"
	domrepo "RiskIQ/internal/domain/repository"
	pkgkafka "RiskIQ/pkg/kafka"
)

// KafkaAssessmentPublisher emits completed assessments to a Kafka
// topic, keyed by the sorted ticker list so re-runs of the same
// portfolio land on one partition.
type KafkaAssessmentPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaAssessmentPublisher(producer *pkgkafka.Producer, topic string) *KafkaAssessmentPublisher {
	return &KafkaAssessmentPublisher{producer: producer, topic: topic}
}

var _ domrepo.AssessmentPublisher = (*KafkaAssessmentPublisher)(nil)

func (p *KafkaAssessmentPublisher) Publish(ctx context.Context, a *models.Assessment) error {
	key := []byte(strings.Join(a.PortfolioSummary.Tickers, ","))
	return p.producer.Publish(ctx, p.topic, key, a)
}

func (p *KafkaAssessmentPublisher) Close() error {
	return p.producer.Close()
}

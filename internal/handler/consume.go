package handler

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/readstack/library-service/pkg/kafka"
)

type recordEvent func(ctx context.Context, event kafka.Event) error

// Consumer persists audit events claimed from the broker.
type Consumer struct {
	recordHandler recordEvent
	log           *zap.Logger
}

func NewConsumer(record recordEvent, log *zap.Logger) *Consumer {
	return &Consumer{
		recordHandler: record,
		log:           log.Named("consumer"),
	}
}

// Setup runs at the start of every consumer-group session; a rebalance ends
// the session and the next one calls Setup again, so it must stay reentrant.
func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited.
func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			var event kafka.Event
			if err := json.Unmarshal(message.Value, &event); err != nil {
				consumer.log.Error("unmarshal event", zap.Error(err))
				session.MarkMessage(message, "")
				continue
			}

			if err := consumer.recordHandler(context.Background(), event); err != nil {
				consumer.log.Error("consumer.recordHandler", zap.Error(err))
				continue
			}

			consumer.log.Debug("Message claimed:", zap.String("value", string(message.Value)), zap.Time("timestamp", message.Timestamp), zap.String("topic", message.Topic))
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

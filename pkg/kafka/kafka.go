package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
)

type Config struct {
	Addrs []string `yaml:"addrs" envconfig:"KAFKA_ADDRS"`
}

// Enabled reports whether an audit broker is configured at all.
func (c Config) Enabled() bool { return len(c.Addrs) > 0 }

const (
	AuditTopic         = "library.audit"
	AuditConsumerGroup = "library-audit"
)

const (
	EventBookRented      = "book.rented"
	EventBookReturned    = "book.returned"
	EventReviewSubmitted = "review.submitted"
)

// Event is the audit record published for user actions and persisted by the
// in-process consumer.
type Event struct {
	Type      string          `json:"type"`
	Username  string          `json:"username"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}

func NewConsumer(cfg Config, group string) (sarama.ConsumerGroup, error) {
	defaultCfg := sarama.NewConfig()
	defaultCfg.Consumer.Offsets.Initial = sarama.OffsetOldest

	return sarama.NewConsumerGroup(cfg.Addrs, group, defaultCfg)
}

// Consume runs the consumer-group claim loop until ctx is cancelled.
func Consume(ctx context.Context, consumer sarama.ConsumerGroup, handler sarama.ConsumerGroupHandler, topic string) {
	for {
		if err := consumer.Consume(ctx, []string{topic}, handler); err != nil {
			if ctx.Err() != nil {
				return
			}
			time.Sleep(time.Second)
		}
		if ctx.Err() != nil {
			return
		}
	}
}

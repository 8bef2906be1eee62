// Package events publishes domain notifications (new leads) to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ranwtech/site/pkg/logger"
	"github.com/segmentio/kafka-go"
)

const TypeLeadCreated = "lead.created"

// Envelope is the JSON value written for every event.
type Envelope struct {
	Type string    `json:"type"`
	At   time.Time `json:"at"`
	Data any       `json:"data"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes one event type to one topic, keyed by entity id.
type KafkaPublisher struct {
	writer    messageWriter
	eventType string
	now       func() time.Time
}

// NewKafkaPublisher creates a synchronous writer for topic on the given brokers.
func NewKafkaPublisher(brokers []string, topic, eventType string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		WriteTimeout:           5 * time.Second,
	}
	logger.Infof("kafka publisher ready: brokers=%s topic=%s", strings.Join(brokers, ","), topic)
	return &KafkaPublisher{writer: w, eventType: eventType, now: time.Now}
}

func (p *KafkaPublisher) Publish(ctx context.Context, key string, payload any) error {
	value, err := json.Marshal(Envelope{Type: p.eventType, At: p.now().UTC(), Data: payload})
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", p.eventType, err)
	}
	msg := kafka.Message{Key: []byte(key), Value: value, Time: p.now()}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s event: %w", p.eventType, err)
	}
	logger.Debugf("published %s %s", p.eventType, key)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Noop drops events; used when no brokers are configured.
type Noop struct{}

func (Noop) Publish(context.Context, string, any) error { return nil }
func (Noop) Close() error                               { return nil }

// Publisher is what callers hold; either a KafkaPublisher or Noop.
type Publisher interface {
	Publish(ctx context.Context, key string, payload any) error
	Close() error
}

// NewLeadPublisher returns a Kafka publisher for lead.created events, or Noop when
// brokers is empty.
func NewLeadPublisher(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		logger.Infof("KAFKA_BROKERS not set; lead events disabled")
		return Noop{}
	}
	return NewKafkaPublisher(brokers, topic, TypeLeadCreated)
}

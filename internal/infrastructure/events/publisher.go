// Package events publishes ledger state changes.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/domain"
	"github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes one message per transition keyed by gateway payment ID,
// so every change of a payment lands on the same partition in order.
type KafkaPublisher struct {
	writer MessageWriter
	logger *slog.Logger
}

func NewKafkaPublisher(writer MessageWriter, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, logger: logger}
}

// NewKafkaWriter builds a writer for the state-change topic.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}
}

func (p *KafkaPublisher) PublishStateChange(ctx context.Context, event domain.StateChange) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode state change: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.GatewayPaymentID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "family", Value: []byte(event.Family)},
			{Key: "to", Value: []byte(event.To)},
		},
		Time: event.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("failed to publish state change: %w", err)
	}

	p.logger.Debug("state change published",
		"payment_id", event.GatewayPaymentID,
		"from", event.From,
		"to", event.To,
	)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// LogPublisher records transitions in the log when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) PublishStateChange(_ context.Context, event domain.StateChange) error {
	p.logger.Info("payment state transition",
		"event_id", event.EventID,
		"payment_id", event.GatewayPaymentID,
		"order_id", event.OrderID,
		"family", event.Family,
		"from", event.From,
		"to", event.To,
	)
	return nil
}

// SplitBrokers parses a comma separated broker list, dropping blanks.
func SplitBrokers(list string) []string {
	var brokers []string
	for _, b := range strings.Split(list, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// Package kafka publishes shipment domain events as JSON messages keyed by
// shipment ID, so every event of one shipment lands on the same partition.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"freight/internal/core/domain/model/shipment"

	skafka "github.com/segmentio/kafka-go"
)

// Writer is the subset of kafka.Writer the publisher needs.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...skafka.Message) error
	Close() error
}

// Topics maps event names to topics. Events without a topic are dropped with a warning.
type Topics map[string]string

// Publisher implements ports.EventPublisher.
type Publisher struct {
	writer Writer
	topics Topics
	logger *slog.Logger
}

// NewPublisher writes to brokers with a topic chosen per message.
func NewPublisher(brokers []string, topics Topics, logger *slog.Logger) *Publisher {
	w := &skafka.Writer{
		Addr:                   skafka.TCP(brokers...),
		Balancer:               &skafka.Hash{},
		RequiredAcks:           skafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return NewPublisherWithWriter(w, topics, logger)
}

func NewPublisherWithWriter(w Writer, topics Topics, logger *slog.Logger) *Publisher {
	return &Publisher{writer: w, topics: topics, logger: logger}
}

// Publish writes all events in one batch.
func (p *Publisher) Publish(ctx context.Context, events ...shipment.Event) error {
	msgs := make([]skafka.Message, 0, len(events))
	for _, e := range events {
		topic, ok := p.topics[e.EventName()]
		if !ok {
			p.logger.WarnContext(ctx, "no topic configured for event", "event", e.EventName())
			continue
		}

		value, err := json.Marshal(envelope{
			Event:       e.EventName(),
			AggregateID: e.AggregateID().String(),
			Payload:     payload(e),
		})
		if err != nil {
			return fmt.Errorf("marshal %s: %w", e.EventName(), err)
		}

		msgs = append(msgs, skafka.Message{
			Topic: topic,
			Key:   []byte(e.AggregateID().String()),
			Value: value,
			Headers: []skafka.Header{
				{Key: "event", Value: []byte(e.EventName())},
			},
		})
	}
	if len(msgs) == 0 {
		return nil
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

type envelope struct {
	Event       string `json:"event"`
	AggregateID string `json:"aggregate_id"`
	Payload     any    `json:"payload"`
}

type shipmentBookedPayload struct {
	ShipmentID  string    `json:"shipment_id"`
	AccountID   string    `json:"account_id"`
	Strategy    string    `json:"strategy"`
	MainCarrier int       `json:"main_carrier"`
	Legs        int       `json:"legs"`
	LegsOnHold  int       `json:"legs_on_hold"`
	Total       string    `json:"total"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type legOnHoldPayload struct {
	ShipmentID string    `json:"shipment_id"`
	LegID      string    `json:"leg_id"`
	Role       string    `json:"role"`
	Carrier    int       `json:"carrier"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}

func payload(e shipment.Event) any {
	switch ev := e.(type) {
	case shipment.ShipmentBooked:
		return shipmentBookedPayload{
			ShipmentID:  ev.ShipmentID.String(),
			AccountID:   ev.AccountID,
			Strategy:    ev.Strategy,
			MainCarrier: ev.MainCarrier,
			Legs:        ev.Legs,
			LegsOnHold:  ev.LegsOnHold,
			Total:       ev.Total.StringFixed(2),
			OccurredAt:  ev.OccurredAt,
		}
	case shipment.LegOnHold:
		return legOnHoldPayload{
			ShipmentID: ev.ShipmentID.String(),
			LegID:      ev.LegID.String(),
			Role:       ev.Role.String(),
			Carrier:    ev.Carrier,
			Reason:     ev.Reason,
			OccurredAt: ev.OccurredAt,
		}
	default:
		return e
	}
}

// Package kafka publishes audit events to a Kafka topic. Kafka is the
// durable fan-out point; downstream consumers own retention and indexing.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"compass/internal/audit"
)

// Publisher implements audit.Sink on top of a Kafka producer.
type Publisher struct {
	client *kgo.Client
	topic  string
}

// payload is the JSON structure published to the topic. Field names are part
// of the consumer contract; do not rename casually.
type payload struct {
	Timestamp  string `json:"timestamp"`
	Action     string `json:"action"`
	UserID     string `json:"user_id,omitempty"`
	TimeWindow string `json:"time_window,omitempty"`
	PersonaID  string `json:"persona_id,omitempty"`
	Reason     string `json:"reason,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
}

// New connects a producer and ensures the topic exists. A single partition
// is enough for the audit volume here; operators can repartition out of band.
func New(ctx context.Context, brokers []string, topic string) (*Publisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerLinger(5*time.Millisecond),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	admin := kadm.NewClient(client)
	resps, err := admin.CreateTopics(ctx, 1, 1, nil, topic)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("create audit topic: %w", err)
	}
	for _, resp := range resps {
		if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
			client.Close()
			return nil, fmt.Errorf("create audit topic %s: %w", resp.Topic, resp.Err)
		}
	}

	return &Publisher{client: client, topic: topic}, nil
}

// Append produces one event synchronously. Keyed by user so a user's trail
// stays ordered within a partition.
func (p *Publisher) Append(ctx context.Context, event audit.Event) error {
	body := payload{
		Timestamp:  event.Timestamp.Format(time.RFC3339Nano),
		Action:     string(event.Action),
		TimeWindow: string(event.TimeWindow),
		PersonaID:  event.PersonaID,
		Reason:     event.Reason,
		RequestID:  event.RequestID,
	}
	if !event.UserID.IsNil() {
		body.UserID = event.UserID.String()
	}

	value, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(body.UserID),
		Value: value,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

// Close flushes and releases the producer.
func (p *Publisher) Close() {
	p.client.Close()
}

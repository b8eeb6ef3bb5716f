// Package publish hands generated names to downstream consumers over Kafka,
// such as a domain availability checker.
package publish

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/randolang/randolang/internal/metrics"
)

// NameEvent is the JSON payload of a published name.
type NameEvent struct {
	Name         string    `json:"name"`
	Phones       []string  `json:"phones"`
	Scheme       string    `json:"scheme"`
	TLD          string    `json:"tld"`
	Availability string    `json:"availability"`
	Truncated    bool      `json:"truncated,omitempty"`
	LogProb      float64   `json:"logProb"`
	GeneratedAt  time.Time `json:"generatedAt"`
}

// Config holds Kafka publisher configuration.
type Config struct {
	Brokers []string
	Topic   string
	Enabled bool
}

// Publisher writes name events to one topic. When disabled it only logs.
type Publisher struct {
	writer  *kafka.Writer
	topic   string
	enabled bool
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// New creates a publisher. A nil config, Enabled false or no brokers yield a
// log-only publisher. A nil m records to metrics.Default().
func New(cfg *Config, m *metrics.Metrics) *Publisher {
	if m == nil {
		m = metrics.Default()
	}
	p := &Publisher{
		metrics: m,
		log:     log.With().Str("component", "publisher").Logger(),
	}
	if cfg == nil {
		p.log.Info().Msg("kafka disabled (nil config), using log-only mode")
		return p
	}
	p.topic = cfg.Topic
	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		p.log.Info().Msg("kafka disabled, using log-only mode")
		return p
	}

	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	p.writer = &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    &kafka.Transport{Dial: dialer.DialFunc},
	}
	p.enabled = true
	p.log.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", cfg.Topic).
		Msg("kafka publisher initialized")
	return p
}

// Enabled reports whether events are written to Kafka.
func (p *Publisher) Enabled() bool { return p.enabled }

// Message builds the Kafka message for an event, keyed by name so every
// status update of a name lands on one partition.
func Message(e NameEvent) (kafka.Message, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(e.Name),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "scheme", Value: []byte(e.Scheme)},
		},
	}, nil
}

// Publish writes events in one batch.
func (p *Publisher) Publish(ctx context.Context, events ...NameEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		msg, err := Message(e)
		if err != nil {
			p.log.Error().Err(err).Str("name", e.Name).Msg("failed to marshal event")
			return err
		}
		p.log.Debug().
			Str("topic", p.topic).
			Str("key", e.Name).
			RawJSON("payload", msg.Value).
			Msg("publishing name")
		msgs = append(msgs, msg)
	}

	if !p.enabled || p.writer == nil {
		for range msgs {
			p.metrics.RecordPublish(p.topic, nil)
		}
		return nil
	}

	err := p.writer.WriteMessages(ctx, msgs...)
	if err != nil {
		p.log.Error().Err(err).Str("topic", p.topic).Int("count", len(msgs)).Msg("failed to write to kafka")
	}
	for range msgs {
		p.metrics.RecordPublish(p.topic, err)
	}
	return err
}

// Close closes the Kafka writer.
func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	if err := p.writer.Close(); err != nil {
		p.log.Error().Err(err).Msg("error closing kafka writer")
		return err
	}
	return nil
}

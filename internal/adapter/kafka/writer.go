package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/weather-dashboard/internal/config"
	"github.com/couchcryptid/weather-dashboard/internal/domain"
	"github.com/couchcryptid/weather-dashboard/internal/observability"
)

// Writer publishes served readings to a Kafka topic.
// It implements proxy.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates an asynchronous Kafka producer for the configured reading
// topic. Delivery failures are reported through the logger and metrics only.
func NewWriter(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
		BatchTimeout: 100 * time.Millisecond,
		Async:        true,
		Completion: func(messages []kafkago.Message, err error) {
			if err == nil {
				return
			}
			metrics.PublishErrors.Add(float64(len(messages)))
			logger.Error("reading delivery failed", "topic", cfg.KafkaTopic, "count", len(messages), "error", err)
		},
	}
	return &Writer{writer: w, logger: logger}
}

// Publish queues reading for delivery, stamped with the current fetch time.
func (w *Writer) Publish(ctx context.Context, reading domain.Reading) error {
	msg, err := serializeToMessage(reading, domain.Now())
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

// Close flushes pending messages and releases the producer.
func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Reading into a Kafka message keyed by location
// so readings for one city stay ordered within a partition.
func serializeToMessage(reading domain.Reading, fetchedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(reading)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize reading: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(reading.Location.Name),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "city", Value: []byte(reading.Location.Name)},
			{Key: "fetched_at", Value: []byte(fetchedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}

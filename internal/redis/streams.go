package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/models"
)

// BatchEvent describes a published scorecard batch on the event stream.
type BatchEvent struct {
	EventID     string
	Batch       string
	GeneratedAt time.Time
	Patients    int
	HighRisk    int
}

// PublishBatchEvent appends a batch event to a Redis stream. Values are
// flattened to strings so any stream consumer can read them without a
// schema. Returns the stream message ID.
func PublishBatchEvent(ctx context.Context, client *redis.Client, stream string, event BatchEvent) (string, error) {
	if event.EventID == "" {
		event.EventID = uuid.New().String()
	}

	id, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			"event_id":     event.EventID,
			"batch":        event.Batch,
			"generated_at": event.GeneratedAt.UTC().Format(time.RFC3339),
			"patients":     strconv.Itoa(event.Patients),
			"high_risk":    strconv.Itoa(event.HighRisk),
		},
	}).Result()
	if err != nil {
		return "", err
	}
	return id, nil
}

// BatchNotifier announces published batches on a Redis stream.
type BatchNotifier struct {
	client *redis.Client
	stream string
	logger *zap.Logger
}

// NewBatchNotifier creates a batch notifier for the given stream.
func NewBatchNotifier(client *redis.Client, stream string, logger *zap.Logger) *BatchNotifier {
	return &BatchNotifier{
		client: client,
		stream: stream,
		logger: logger,
	}
}

// BatchPublished emits an event for a batch that was just published under
// the given name.
func (n *BatchNotifier) BatchPublished(ctx context.Context, batch *models.Batch, name string) error {
	event := BatchEvent{
		Batch:       name,
		GeneratedAt: batch.GeneratedAt,
		Patients:    len(batch.Items),
		HighRisk:    batch.HighRiskCount(),
	}

	id, err := PublishBatchEvent(ctx, n.client, n.stream, event)
	if err != nil {
		return err
	}

	n.logger.Info("Batch event published",
		zap.String("stream", n.stream),
		zap.String("message_id", id),
		zap.String("batch", name),
		zap.Int("patients", event.Patients),
		zap.Int("high_risk", event.HighRisk))
	return nil
}

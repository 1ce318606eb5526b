package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/models"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func levelsWith(seizure models.Level) models.RiskLevels {
	return models.RiskLevels{
		Seizure:   seizure,
		Sepsis:    models.LevelLow,
		Cardiac:   models.LevelLow,
		Renal:     models.LevelLow,
		Prognosis: models.LevelLow,
	}
}

func TestPublishBatchEvent(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()

	event := BatchEvent{
		EventID:     "evt-123",
		Batch:       "cds_scorecards_20260115T103000Z.json",
		GeneratedAt: time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
		Patients:    5,
		HighRisk:    2,
	}

	id, err := PublishBatchEvent(ctx, client, "cds:batches", event)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	msgs, err := client.XRange(ctx, "cds:batches", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	values := msgs[0].Values
	assert.Equal(t, "evt-123", values["event_id"])
	assert.Equal(t, "cds_scorecards_20260115T103000Z.json", values["batch"])
	assert.Equal(t, "2026-01-15T10:30:00Z", values["generated_at"])
	assert.Equal(t, "5", values["patients"])
	assert.Equal(t, "2", values["high_risk"])
}

func TestPublishBatchEvent_GeneratesEventID(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()

	_, err := PublishBatchEvent(ctx, client, "cds:batches", BatchEvent{
		Batch:       "cds_scorecards_20260115T103000Z.json",
		GeneratedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	msgs, err := client.XRange(ctx, "cds:batches", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.NotEmpty(t, msgs[0].Values["event_id"])
}

func TestBatchNotifier_BatchPublished(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()

	batch := &models.Batch{
		GeneratedAt: time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
		Items: []models.Scorecard{
			{PatientID: "ICU-001", RiskLevels: levelsWith(models.LevelHigh)},
			{PatientID: "ICU-002", RiskLevels: levelsWith(models.LevelLow)},
			{PatientID: "ICU-003", RiskLevels: levelsWith(models.LevelMed)},
		},
	}

	notifier := NewBatchNotifier(client, "cds:batches", zap.NewNop())
	err := notifier.BatchPublished(ctx, batch, "cds_scorecards_20260115T103000Z.json")
	require.NoError(t, err)

	msgs, err := client.XRange(ctx, "cds:batches", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	values := msgs[0].Values
	assert.Equal(t, "cds_scorecards_20260115T103000Z.json", values["batch"])
	assert.Equal(t, "2026-01-15T10:30:00Z", values["generated_at"])
	assert.Equal(t, "3", values["patients"])
	assert.Equal(t, "1", values["high_risk"])
}

func TestBatchNotifier_PublishFailure(t *testing.T) {
	mr, client := setupTestRedis(t)
	mr.Close()

	notifier := NewBatchNotifier(client, "cds:batches", zap.NewNop())
	err := notifier.BatchPublished(context.Background(), &models.Batch{GeneratedAt: time.Now().UTC()}, "cds_scorecards_20260115T103000Z.json")
	assert.Error(t, err)
}

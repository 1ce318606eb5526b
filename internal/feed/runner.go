package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/evaluator"
	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/metrics"
	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/models"
	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/repository"
)

// ReadingSource supplies one cycle of patient readings.
type ReadingSource interface {
	Next() []PatientReading
}

// Publisher persists a finished batch and returns its published name.
type Publisher interface {
	Publish(batch *models.Batch) (string, error)
}

// Notifier announces a published batch to downstream consumers.
type Notifier interface {
	BatchPublished(ctx context.Context, batch *models.Batch, name string) error
}

// Auditor records a published batch in the audit trail.
type Auditor interface {
	Insert(ctx context.Context, entry *repository.BatchAuditEntry) error
}

// Runner drives the produce, build, publish loop. Notifier and auditor
// are optional; when nil those steps are skipped.
type Runner struct {
	source   ReadingSource
	builder  *evaluator.ScorecardBuilder
	store    Publisher
	notifier Notifier
	auditor  Auditor
	logger   *zap.Logger
}

// NewRunner creates a runner over the given source and sinks.
func NewRunner(source ReadingSource, builder *evaluator.ScorecardBuilder, store Publisher, notifier Notifier, auditor Auditor, logger *zap.Logger) *Runner {
	return &Runner{
		source:   source,
		builder:  builder,
		store:    store,
		notifier: notifier,
		auditor:  auditor,
		logger:   logger,
	}
}

// RunCycle builds scorecards for one cycle of readings and publishes the
// batch. A reading that fails validation is skipped with a warning; it
// never aborts the rest of the batch. Publish failures fail the cycle.
func (r *Runner) RunCycle(ctx context.Context) error {
	generatedAt := time.Now().UTC().Truncate(time.Second)
	readings := r.source.Next()

	batch := &models.Batch{
		GeneratedAt: generatedAt,
		Items:       make([]models.Scorecard, 0, len(readings)),
	}
	for _, reading := range readings {
		card, err := r.builder.Build(reading.PatientID, generatedAt, reading.Probabilities, reading.TempAdjust)
		if err != nil {
			var verr *evaluator.ValidationError
			if errors.As(err, &verr) {
				metrics.RecordsRejected.Inc()
				r.logger.Warn("Skipping invalid patient reading",
					zap.String("patient_id", reading.PatientID),
					zap.Error(err))
				continue
			}
			return err
		}
		metrics.ScorecardsBuilt.Inc()
		batch.Items = append(batch.Items, *card)
	}

	name, err := r.store.Publish(batch)
	if err != nil {
		return fmt.Errorf("publish batch: %w", err)
	}
	metrics.BatchesPublished.Inc()

	if r.notifier != nil {
		if err := r.notifier.BatchPublished(ctx, batch, name); err != nil {
			r.logger.Warn("Batch notification failed",
				zap.String("batch", name),
				zap.Error(err))
		}
	}

	if r.auditor != nil {
		entry := &repository.BatchAuditEntry{
			BatchName:   name,
			GeneratedAt: batch.GeneratedAt,
			Patients:    len(batch.Items),
			HighRisk:    batch.HighRiskCount(),
		}
		if err := r.auditor.Insert(ctx, entry); err != nil {
			r.logger.Warn("Batch audit insert failed",
				zap.String("batch", name),
				zap.Error(err))
		}
	}

	r.logger.Info("Cycle complete",
		zap.String("batch", name),
		zap.Int("patients", len(batch.Items)),
		zap.Int("high_risk", batch.HighRiskCount()))
	return nil
}

// Run executes cycles until the context is cancelled. A zero or negative
// interval runs a single cycle and returns its error; otherwise cycle
// failures are logged and the loop keeps going.
func (r *Runner) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return r.RunCycle(ctx)
	}

	if err := r.RunCycle(ctx); err != nil {
		r.logger.Error("Cycle failed", zap.Error(err))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := r.RunCycle(ctx); err != nil {
				r.logger.Error("Cycle failed", zap.Error(err))
			}
		}
	}
}

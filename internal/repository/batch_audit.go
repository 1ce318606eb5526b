package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// BatchAuditEntry records one published scorecard batch.
type BatchAuditEntry struct {
	ID          int64
	BatchName   string
	GeneratedAt time.Time
	Patients    int
	HighRisk    int
	CreatedAt   time.Time
}

// BatchAuditRepository persists the audit trail of published batches.
type BatchAuditRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewBatchAuditRepository creates a batch audit repository.
func NewBatchAuditRepository(db *sql.DB, logger *zap.Logger) *BatchAuditRepository {
	return &BatchAuditRepository{
		db:     db,
		logger: logger,
	}
}

// Insert records a published batch. The batch name is unique, so inserting
// the same batch twice fails.
func (r *BatchAuditRepository) Insert(ctx context.Context, entry *BatchAuditEntry) error {
	if entry == nil {
		return fmt.Errorf("entry is required")
	}
	if entry.BatchName == "" {
		return fmt.Errorf("batch_name is required")
	}
	if entry.GeneratedAt.IsZero() {
		return fmt.Errorf("generated_at is required")
	}

	query := `
		INSERT INTO cds_batch_audit (
			batch_name,
			generated_at,
			patients,
			high_risk
		) VALUES (
			$1, $2, $3, $4
		)
	`

	_, err := r.db.ExecContext(ctx,
		query,
		entry.BatchName,
		entry.GeneratedAt,
		entry.Patients,
		entry.HighRisk,
	)
	if err != nil {
		return fmt.Errorf("failed to insert batch audit entry: %w", err)
	}

	r.logger.Debug("Batch audit entry recorded",
		zap.String("batch_name", entry.BatchName),
		zap.Int("patients", entry.Patients),
		zap.Int("high_risk", entry.HighRisk))
	return nil
}

// Recent returns audit entries for the most recently generated batches,
// newest first. A non-positive limit falls back to 20.
func (r *BatchAuditRepository) Recent(ctx context.Context, limit int) ([]*BatchAuditEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT
			id,
			batch_name,
			generated_at,
			patients,
			high_risk,
			created_at
		FROM cds_batch_audit
		ORDER BY generated_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query batch audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*BatchAuditEntry
	for rows.Next() {
		var entry BatchAuditEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.BatchName,
			&entry.GeneratedAt,
			&entry.Patients,
			&entry.HighRisk,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan batch audit entry: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate batch audit entries: %w", err)
	}

	return entries, nil
}

package queries

import (
	"context"
	"database/sql"
	"time"

	"github.com/jayakrishna0023/fleet-guardian/pkg/database"
	"github.com/jayakrishna0023/fleet-guardian/pkg/models"
)

type PredictionRepository struct {
	db *sql.DB
}

func NewPredictionRepository(db *sql.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// InsertBatch stores one vehicle's results atomically.
func (r *PredictionRepository) InsertBatch(ctx context.Context, records []*models.PredictionRecord) error {
	if len(records) == 0 {
		return nil
	}

	return database.RunInTx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO predictions (vehicle_id, created_at, component, probability, confidence,
				severity, estimated_time_to_failure, recommendation)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, rec := range records {
			err := stmt.QueryRowContext(ctx,
				rec.VehicleID, rec.CreatedAt, rec.Component, rec.Probability, rec.Confidence,
				string(rec.Severity), rec.EstimatedTimeToFailure, rec.Recommendation,
			).Scan(&rec.ID)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PredictionRepository) GetByVehicle(ctx context.Context, vehicleID string, from, to time.Time, limit int) ([]models.PredictionRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, vehicle_id, created_at, component, probability, confidence,
			   severity, estimated_time_to_failure, recommendation
		FROM predictions
		WHERE vehicle_id = $1 AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at DESC, id DESC
		LIMIT $4`

	rows, err := r.db.QueryContext(ctx, query, vehicleID, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.PredictionRecord
	for rows.Next() {
		var rec models.PredictionRecord
		var severity string
		err := rows.Scan(
			&rec.ID, &rec.VehicleID, &rec.CreatedAt, &rec.Component, &rec.Probability,
			&rec.Confidence, &severity, &rec.EstimatedTimeToFailure, &rec.Recommendation,
		)
		if err != nil {
			return nil, err
		}
		rec.Severity = models.Severity(severity)
		records = append(records, rec)
	}

	return records, rows.Err()
}

// DeleteOlderThan prunes history and returns the number of rows removed.
func (r *PredictionRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM predictions WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

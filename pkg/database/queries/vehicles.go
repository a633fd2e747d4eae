package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrVehicleNotFound = errors.New("vehicle not found")

const (
	VehicleStatusIdle       = "idle"
	VehicleStatusMonitoring = "monitoring"
)

type Vehicle struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VehicleRepository remembers which vehicles are monitored so pipelines can
// be restarted after a restart of the service.
type VehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

func (r *VehicleRepository) SetStatus(ctx context.Context, id, status string) error {
	query := `
		INSERT INTO vehicles (id, status) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()`
	_, err := r.db.ExecContext(ctx, query, id, status)
	return err
}

func (r *VehicleRepository) GetByID(ctx context.Context, id string) (*Vehicle, error) {
	query := `SELECT id, status, created_at, updated_at FROM vehicles WHERE id = $1`

	var v Vehicle
	err := r.db.QueryRowContext(ctx, query, id).Scan(&v.ID, &v.Status, &v.CreatedAt, &v.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrVehicleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VehicleRepository) ListByStatus(ctx context.Context, status string) ([]Vehicle, error) {
	query := `SELECT id, status, created_at, updated_at FROM vehicles WHERE status = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []Vehicle
	for rows.Next() {
		var v Vehicle
		if err := rows.Scan(&v.ID, &v.Status, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (r *VehicleRepository) ListIDsByStatus(ctx context.Context, status string) ([]string, error) {
	vehicles, err := r.ListByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(vehicles))
	for i, v := range vehicles {
		ids[i] = v.ID
	}
	return ids, nil
}

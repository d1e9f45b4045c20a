package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/rehabdelivery/rehab_api/internal/models"
)

// WorkerRepository handles data access for delivery workers.
type WorkerRepository struct {
	db *sqlx.DB
}

// NewWorkerRepository creates a new WorkerRepository.
func NewWorkerRepository(db *sqlx.DB) *WorkerRepository {
	return &WorkerRepository{db: db}
}

// GetAll returns all delivery workers ordered by name.
func (r *WorkerRepository) GetAll(ctx context.Context) ([]models.DeliveryWorker, error) {
	const q = `SELECT * FROM delivery_workers ORDER BY name`
	var workers []models.DeliveryWorker
	if err := r.db.SelectContext(ctx, &workers, q); err != nil {
		return nil, err
	}
	return workers, nil
}

// GetByID returns a single delivery worker by id.
func (r *WorkerRepository) GetByID(ctx context.Context, id int64) (*models.DeliveryWorker, error) {
	const q = `SELECT * FROM delivery_workers WHERE id = $1 LIMIT 1`
	var w models.DeliveryWorker
	if err := r.db.GetContext(ctx, &w, q, id); err != nil {
		return nil, err
	}
	return &w, nil
}

// Create inserts a new delivery worker.
func (r *WorkerRepository) Create(ctx context.Context, w *models.DeliveryWorker) error {
	const q = `
        INSERT INTO delivery_workers (name, phone, commission_amount, profile_pic_url, certificates_url)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRowxContext(ctx, q,
		w.Name,
		w.Phone,
		w.CommissionAmount,
		w.ProfilePicURL,
		w.CertificatesURL,
	).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
}

// Update updates an existing delivery worker.
func (r *WorkerRepository) Update(ctx context.Context, w *models.DeliveryWorker) error {
	const q = `
        UPDATE delivery_workers
        SET name = $1, phone = $2, commission_amount = $3,
            profile_pic_url = $4, certificates_url = $5, updated_at = NOW()
        WHERE id = $6
        RETURNING updated_at`

	return r.db.QueryRowxContext(ctx, q,
		w.Name,
		w.Phone,
		w.CommissionAmount,
		w.ProfilePicURL,
		w.CertificatesURL,
		w.ID,
	).Scan(&w.UpdatedAt)
}

// Delete deletes a delivery worker by id.
func (r *WorkerRepository) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM delivery_workers WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// Count returns the number of delivery workers.
func (r *WorkerRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(1) FROM delivery_workers`); err != nil {
		return 0, err
	}
	return count, nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/rehabdelivery/rehab_api/internal/models"
)

// ProductRepository handles data access for products (tracked parcels).
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ProductFilter holds filters for product listing queries.
type ProductFilter struct {
	Status    models.ProductStatus
	CompanyID *int64
	WorkerID  *int64
	Search    string
}

// GetAll returns products newest first with optional filters. Empty filter
// fields are ignored.
func (r *ProductRepository) GetAll(ctx context.Context, filter *ProductFilter) ([]models.Product, error) {
	baseWhere := `WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter != nil {
		if filter.Status != "" {
			baseWhere += fmt.Sprintf(" AND status = $%d", argIdx)
			args = append(args, filter.Status)
			argIdx++
		}
		if filter.CompanyID != nil {
			baseWhere += fmt.Sprintf(" AND company_id = $%d", argIdx)
			args = append(args, *filter.CompanyID)
			argIdx++
		}
		if filter.WorkerID != nil {
			baseWhere += fmt.Sprintf(" AND worker_id = $%d", argIdx)
			args = append(args, *filter.WorkerID)
			argIdx++
		}
		if filter.Search != "" {
			baseWhere += fmt.Sprintf(" AND (id ILIKE $%d OR client_name ILIKE $%d OR phone ILIKE $%d)", argIdx, argIdx, argIdx)
			args = append(args, "%"+filter.Search+"%")
			argIdx++
		}
	}

	query := `SELECT * FROM products ` + baseWhere + ` ORDER BY created_at DESC`
	var products []models.Product
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, err
	}
	return products, nil
}

// GetByID returns a single product by tracking id.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	const q = `SELECT * FROM products WHERE id = $1 LIMIT 1`
	var p models.Product
	if err := r.db.GetContext(ctx, &p, q, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// ExistsByIDs returns the subset of the given tracking ids that already exist
// in inventory, as a set. A single query regardless of batch size.
func (r *ProductRepository) ExistsByIDs(ctx context.Context, ids []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{}, len(ids))
	if len(ids) == 0 {
		return existing, nil
	}

	const q = `SELECT id FROM products WHERE id = ANY($1)`
	var found []string
	if err := r.db.SelectContext(ctx, &found, q, pq.Array(ids)); err != nil {
		return nil, err
	}
	for _, id := range found {
		existing[id] = struct{}{}
	}
	return existing, nil
}

// Create inserts a new product and fills generated timestamps.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	const q = `
        INSERT INTO products (id, client_name, phone, price, company_id, status, worker_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, q,
		p.ID,
		p.ClientName,
		p.Phone,
		p.Price,
		p.CompanyID,
		p.Status,
		p.WorkerID,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// InsertIgnoreConflicts inserts a batch of products, silently skipping any id
// that already exists. Returns only the rows actually inserted, so a
// concurrent commit of an overlapping batch resolves to skips instead of
// failing the whole batch.
func (r *ProductRepository) InsertIgnoreConflicts(ctx context.Context, products []models.Product) ([]models.Product, error) {
	if len(products) == 0 {
		return nil, nil
	}

	const q = `
        INSERT INTO products (id, client_name, phone, price, company_id, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (id) DO NOTHING
        RETURNING *`

	stmt, err := r.db.PreparexContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	inserted := make([]models.Product, 0, len(products))
	for _, p := range products {
		var row models.Product
		err := stmt.GetContext(ctx, &row, p.ID, p.ClientName, p.Phone, p.Price, p.CompanyID, p.Status)
		if err != nil {
			if err == sql.ErrNoRows {
				// Conflicting id slipped in between the existence check and
				// this insert; skip it.
				continue
			}
			return inserted, err
		}
		inserted = append(inserted, row)
	}
	return inserted, nil
}

// AssignWorker attaches a worker to an unassigned in-stock product and moves
// it to delivery. The WHERE clause is the compare-and-swap that closes the
// concurrent double-assignment race: it reports false when another caller won.
func (r *ProductRepository) AssignWorker(ctx context.Context, productID string, workerID int64) (bool, error) {
	const q = `
        UPDATE products
        SET worker_id = $2, status = $3, updated_at = NOW()
        WHERE id = $1 AND worker_id IS NULL AND status = $4`

	res, err := r.db.ExecContext(ctx, q, productID, workerID, models.StatusDelivery, models.StatusInStock)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DetachWorker clears the worker and returns the product to stock. Both
// fields always change together.
func (r *ProductRepository) DetachWorker(ctx context.Context, productID string) error {
	const q = `UPDATE products SET worker_id = NULL, status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, productID, models.StatusInStock)
	return err
}

// MarkDelivered sets the product delivered at the given time. The worker is
// retained so settlement can attribute the commission.
func (r *ProductRepository) MarkDelivered(ctx context.Context, productID string, at time.Time) error {
	const q = `UPDATE products SET status = $2, delivered_at = $3, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, productID, models.StatusDelivered, at)
	return err
}

// RevertToDelivery moves a delivered product back to delivery and clears the
// delivery timestamp.
func (r *ProductRepository) RevertToDelivery(ctx context.Context, productID string) error {
	const q = `UPDATE products SET status = $2, delivered_at = NULL, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, productID, models.StatusDelivery)
	return err
}

// SetStatus overrides the status directly without touching the worker.
// Manual stock management escape hatch; guarded transitions live in the
// stock service.
func (r *ProductRepository) SetStatus(ctx context.Context, productID string, status models.ProductStatus) error {
	const q = `UPDATE products SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, productID, status)
	return err
}

// Delete deletes a product by tracking id.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM products WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// DeleteDelivered permanently removes all delivered products (treasury
// reset). Returns the number of rows removed.
func (r *ProductRepository) DeleteDelivered(ctx context.Context) (int64, error) {
	const q = `DELETE FROM products WHERE status = $1`
	res, err := r.db.ExecContext(ctx, q, models.StatusDelivered)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountByStatus returns product counts grouped by status.
func (r *ProductRepository) CountByStatus(ctx context.Context) (map[models.ProductStatus]int, error) {
	const q = `SELECT status, COUNT(1) AS count FROM products GROUP BY status`
	rows := []struct {
		Status models.ProductStatus `db:"status"`
		Count  int                  `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}

	counts := make(map[models.ProductStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// CountStaleDeliveries counts products that have been sitting in delivery
// since before the cutoff.
func (r *ProductRepository) CountStaleDeliveries(ctx context.Context, cutoff time.Time) (int, error) {
	const q = `SELECT COUNT(1) FROM products WHERE status = $1 AND updated_at < $2`
	var count int
	if err := r.db.GetContext(ctx, &count, q, models.StatusDelivery, cutoff); err != nil {
		return 0, err
	}
	return count, nil
}

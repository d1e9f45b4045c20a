package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/rehabdelivery/rehab_api/internal/models"
)

// CompanyRepository handles data access for partner companies.
type CompanyRepository struct {
	db *sqlx.DB
}

// NewCompanyRepository creates a new CompanyRepository.
func NewCompanyRepository(db *sqlx.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// GetAll returns all companies ordered by name.
func (r *CompanyRepository) GetAll(ctx context.Context) ([]models.Company, error) {
	const q = `SELECT * FROM companies ORDER BY name`
	var companies []models.Company
	if err := r.db.SelectContext(ctx, &companies, q); err != nil {
		return nil, err
	}
	return companies, nil
}

// GetByID returns a single company by id.
func (r *CompanyRepository) GetByID(ctx context.Context, id int64) (*models.Company, error) {
	const q = `SELECT * FROM companies WHERE id = $1 LIMIT 1`
	var c models.Company
	if err := r.db.GetContext(ctx, &c, q, id); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new company.
func (r *CompanyRepository) Create(ctx context.Context, c *models.Company) error {
	const q = `
        INSERT INTO companies (name, benefit_amount, sheet_template)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`

	return r.db.QueryRowxContext(ctx, q, c.Name, c.BenefitAmount, c.SheetTemplate).
		Scan(&c.ID, &c.CreatedAt)
}

// Delete deletes a company by id. Products referencing it keep their rows
// with company_id nulled by the FK.
func (r *CompanyRepository) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM companies WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// Count returns the number of companies.
func (r *CompanyRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(1) FROM companies`); err != nil {
		return 0, err
	}
	return count, nil
}

package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/rehabdelivery/rehab_api/internal/models"
)

// AdminUserRepository handles data access for panel admin accounts.
type AdminUserRepository struct {
	db *sqlx.DB
}

// NewAdminUserRepository creates a new AdminUserRepository.
func NewAdminUserRepository(db *sqlx.DB) *AdminUserRepository {
	return &AdminUserRepository{db: db}
}

// GetByEmail returns an admin by email.
func (r *AdminUserRepository) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var user models.AdminUser
	err := r.db.GetContext(ctx, &user, `
        SELECT * FROM admin_users WHERE email = $1 LIMIT 1
    `, email)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID returns an admin by id.
func (r *AdminUserRepository) GetByID(ctx context.Context, id int64) (*models.AdminUser, error) {
	var user models.AdminUser
	if err := r.db.GetContext(ctx, &user, `SELECT * FROM admin_users WHERE id = $1 LIMIT 1`, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetAll returns all admins ordered by creation.
func (r *AdminUserRepository) GetAll(ctx context.Context) ([]models.AdminUser, error) {
	var users []models.AdminUser
	if err := r.db.SelectContext(ctx, &users, `SELECT * FROM admin_users ORDER BY created_at`); err != nil {
		return nil, err
	}
	return users, nil
}

// Create inserts a new admin user.
func (r *AdminUserRepository) Create(ctx context.Context, user *models.AdminUser) error {
	const q = `
        INSERT INTO admin_users (email, password_hash, name, role, is_active)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRowxContext(ctx, q,
		user.Email, user.PasswordHash, user.Name, user.Role, user.IsActive,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

// UpdateRole changes an admin's role label.
func (r *AdminUserRepository) UpdateRole(ctx context.Context, id int64, role string) error {
	const q = `UPDATE admin_users SET role = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, role)
	return err
}

// TouchLastLogin records a successful login time.
func (r *AdminUserRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	const q = `UPDATE admin_users SET last_login_at = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, at)
	return err
}

// Delete removes an admin account.
func (r *AdminUserRepository) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM admin_users WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/rehabdelivery/rehab_api/internal/models"
	"github.com/rehabdelivery/rehab_api/internal/utils"
)

// localLoginDomain maps bare panel usernames onto email addresses so the
// same account record serves both login styles.
const localLoginDomain = "@rehab.local"

// AdminStore is the admin account storage surface.
type AdminStore interface {
	GetByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	GetByID(ctx context.Context, id int64) (*models.AdminUser, error)
	GetAll(ctx context.Context) ([]models.AdminUser, error)
	Create(ctx context.Context, user *models.AdminUser) error
	UpdateRole(ctx context.Context, id int64, role string) error
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
	Delete(ctx context.Context, id int64) error
}

// AdminService handles panel authentication and admin account management.
type AdminService struct {
	admins AdminStore
}

// NewAdminService creates a new AdminService.
func NewAdminService(admins AdminStore) *AdminService {
	return &AdminService{admins: admins}
}

// loginEmail turns a login identifier into the stored email. Bare usernames
// get the local domain appended.
func loginEmail(identifier string) string {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if identifier == "" || strings.Contains(identifier, "@") {
		return identifier
	}
	return identifier + localLoginDomain
}

// Login verifies credentials and returns a signed token. The identifier may
// be an email or a bare username.
func (s *AdminService) Login(ctx context.Context, identifier, password string) (string, *models.AdminUser, error) {
	email := loginEmail(identifier)

	user, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Warn().Str("email", email).Msg("Login attempt for unknown account")
			return "", nil, utils.ErrBadCredentials
		}
		return "", nil, err
	}

	if !user.IsActive {
		log.Warn().Str("email", email).Msg("Login attempt on inactive account")
		return "", nil, utils.ErrBadCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Warn().Str("email", email).Msg("Password verification failed")
		return "", nil, utils.ErrBadCredentials
	}

	token, err := utils.GenerateJWT(user.ID, user.Email, user.Role)
	if err != nil {
		return "", nil, err
	}

	if err := s.admins.TouchLastLogin(ctx, user.ID, time.Now()); err != nil {
		log.Warn().Err(err).Int64("user_id", user.ID).Msg("Failed to record last login")
	}

	log.Info().Str("email", user.Email).Str("role", user.Role).Msg("Admin logged in")
	return token, user, nil
}

// CreateAdminInput carries a new panel account.
type CreateAdminInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// CreateAdmin registers a new panel account with a hashed password.
func (s *AdminService) CreateAdmin(ctx context.Context, input CreateAdminInput) (*models.AdminUser, error) {
	email := loginEmail(input.Email)
	if email == "" || len(input.Password) < 8 {
		return nil, utils.ErrValidation
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.AdminUser{
		Email:        email,
		PasswordHash: string(hashed),
		Name:         strings.TrimSpace(input.Name),
		Role:         utils.NormalizeRole(input.Role),
		IsActive:     true,
	}
	if err := s.admins.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Info().Str("email", user.Email).Str("role", user.Role).Msg("Admin account created")
	return user, nil
}

// ListAdmins returns all panel accounts.
func (s *AdminService) ListAdmins(ctx context.Context) ([]models.AdminUser, error) {
	return s.admins.GetAll(ctx)
}

// UpdateRole changes an account's role.
func (s *AdminService) UpdateRole(ctx context.Context, id int64, role string) error {
	if _, err := s.getAdmin(ctx, id); err != nil {
		return err
	}
	return s.admins.UpdateRole(ctx, id, utils.NormalizeRole(role))
}

// RemoveAdmin deletes a panel account. An admin cannot remove their own
// account, so the panel is never locked out by accident.
func (s *AdminService) RemoveAdmin(ctx context.Context, id, actorID int64) error {
	if id == actorID {
		return utils.ErrSelfRemoval
	}
	if _, err := s.getAdmin(ctx, id); err != nil {
		return err
	}
	return s.admins.Delete(ctx, id)
}

func (s *AdminService) getAdmin(ctx context.Context, id int64) (*models.AdminUser, error) {
	user, err := s.admins.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrAdminNotFound
		}
		return nil, err
	}
	return user, nil
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/rehabdelivery/rehab_api/internal/models"
	"github.com/rehabdelivery/rehab_api/internal/utils"
)

// CompanyStore is the partner company storage surface.
type CompanyStore interface {
	GetAll(ctx context.Context) ([]models.Company, error)
	GetByID(ctx context.Context, id int64) (*models.Company, error)
	Create(ctx context.Context, c *models.Company) error
	Delete(ctx context.Context, id int64) error
}

// CompanyService manages partner delivery companies.
type CompanyService struct {
	companies CompanyStore
}

// NewCompanyService creates a new CompanyService.
func NewCompanyService(companies CompanyStore) *CompanyService {
	return &CompanyService{companies: companies}
}

// CreateCompanyInput carries a new partner company.
type CreateCompanyInput struct {
	Name          string          `json:"name"`
	BenefitAmount decimal.Decimal `json:"benefitAmount"`
	SheetTemplate string          `json:"sheetTemplate"`
}

// List returns all partner companies.
func (s *CompanyService) List(ctx context.Context) ([]models.Company, error) {
	return s.companies.GetAll(ctx)
}

// Create registers a partner company. The sheet template picks the bulk
// ingestion prompt for this company's documents.
func (s *CompanyService) Create(ctx context.Context, input CreateCompanyInput) (*models.Company, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.BenefitAmount.IsNegative() {
		return nil, utils.ErrValidation
	}

	company := &models.Company{
		Name:          name,
		BenefitAmount: input.BenefitAmount,
		SheetTemplate: strings.TrimSpace(input.SheetTemplate),
	}
	if err := s.companies.Create(ctx, company); err != nil {
		return nil, err
	}

	log.Info().Int64("company_id", company.ID).Str("name", company.Name).Msg("Company created")
	return company, nil
}

// Delete removes a partner company.
func (s *CompanyService) Delete(ctx context.Context, id int64) error {
	if _, err := s.companies.GetByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.ErrCompanyNotFound
		}
		return err
	}
	return s.companies.Delete(ctx, id)
}

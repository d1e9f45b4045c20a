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

// WorkerStore is the delivery worker storage surface.
type WorkerStore interface {
	GetAll(ctx context.Context) ([]models.DeliveryWorker, error)
	GetByID(ctx context.Context, id int64) (*models.DeliveryWorker, error)
	Create(ctx context.Context, w *models.DeliveryWorker) error
	Update(ctx context.Context, w *models.DeliveryWorker) error
	Delete(ctx context.Context, id int64) error
}

// WorkerService manages delivery workers.
type WorkerService struct {
	workers WorkerStore
}

// NewWorkerService creates a new WorkerService.
func NewWorkerService(workers WorkerStore) *WorkerService {
	return &WorkerService{workers: workers}
}

// WorkerInput carries delivery worker fields for create and update.
type WorkerInput struct {
	Name             string          `json:"name"`
	Phone            string          `json:"phone"`
	CommissionAmount decimal.Decimal `json:"commissionAmount"`
	ProfilePicURL    string          `json:"profilePicUrl"`
	CertificatesURL  string          `json:"certificatesUrl"`
}

func (in WorkerInput) validate() error {
	if strings.TrimSpace(in.Name) == "" || in.CommissionAmount.IsNegative() {
		return utils.ErrValidation
	}
	return nil
}

// List returns all delivery workers.
func (s *WorkerService) List(ctx context.Context) ([]models.DeliveryWorker, error) {
	return s.workers.GetAll(ctx)
}

// Get returns a single delivery worker.
func (s *WorkerService) Get(ctx context.Context, id int64) (*models.DeliveryWorker, error) {
	worker, err := s.workers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrWorkerNotFound
		}
		return nil, err
	}
	return worker, nil
}

// Create registers a new delivery worker.
func (s *WorkerService) Create(ctx context.Context, input WorkerInput) (*models.DeliveryWorker, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	worker := &models.DeliveryWorker{
		Name:             strings.TrimSpace(input.Name),
		Phone:            strings.TrimSpace(input.Phone),
		CommissionAmount: input.CommissionAmount,
		ProfilePicURL:    input.ProfilePicURL,
		CertificatesURL:  input.CertificatesURL,
	}
	if err := s.workers.Create(ctx, worker); err != nil {
		return nil, err
	}

	log.Info().Int64("worker_id", worker.ID).Str("name", worker.Name).Msg("Delivery worker created")
	return worker, nil
}

// Update rewrites a delivery worker's details.
func (s *WorkerService) Update(ctx context.Context, id int64, input WorkerInput) (*models.DeliveryWorker, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	worker, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	worker.Name = strings.TrimSpace(input.Name)
	worker.Phone = strings.TrimSpace(input.Phone)
	worker.CommissionAmount = input.CommissionAmount
	worker.ProfilePicURL = input.ProfilePicURL
	worker.CertificatesURL = input.CertificatesURL

	if err := s.workers.Update(ctx, worker); err != nil {
		return nil, err
	}
	return worker, nil
}

// Delete removes a delivery worker. Products keep their historical worker
// reference through the nullable FK.
func (s *WorkerService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.workers.Delete(ctx, id)
}

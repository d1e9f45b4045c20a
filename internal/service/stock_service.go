package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/rehabdelivery/rehab_api/internal/models"
	"github.com/rehabdelivery/rehab_api/internal/repository"
	"github.com/rehabdelivery/rehab_api/internal/utils"
)

// StockProductStore is the product storage surface the stock flows need.
type StockProductStore interface {
	GetAll(ctx context.Context, filter *repository.ProductFilter) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	AssignWorker(ctx context.Context, productID string, workerID int64) (bool, error)
	DetachWorker(ctx context.Context, productID string) error
	MarkDelivered(ctx context.Context, productID string, at time.Time) error
	RevertToDelivery(ctx context.Context, productID string) error
	SetStatus(ctx context.Context, productID string, status models.ProductStatus) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[models.ProductStatus]int, error)
}

// StockWorkerStore is the worker lookup surface the stock flows need.
type StockWorkerStore interface {
	GetByID(ctx context.Context, id int64) (*models.DeliveryWorker, error)
	Count(ctx context.Context) (int, error)
}

// StockCompanyStore is the company lookup surface the stock flows need.
type StockCompanyStore interface {
	GetByID(ctx context.Context, id int64) (*models.Company, error)
	Count(ctx context.Context) (int, error)
}

// StockService drives the parcel lifecycle: intake of single products,
// assignment to delivery workers, delivery confirmation and corrections.
type StockService struct {
	products  StockProductStore
	workers   StockWorkerStore
	companies StockCompanyStore
}

// NewStockService creates a new StockService.
func NewStockService(products StockProductStore, workers StockWorkerStore, companies StockCompanyStore) *StockService {
	return &StockService{products: products, workers: workers, companies: companies}
}

// CreateProductInput carries a single hand-entered product.
type CreateProductInput struct {
	TrackingID string          `json:"trackingId"`
	ClientName string          `json:"clientName"`
	Phone      string          `json:"phone"`
	Price      decimal.Decimal `json:"price"`
	CompanyID  *int64          `json:"companyId"`
}

// List returns products matching the filter, newest first.
func (s *StockService) List(ctx context.Context, filter *repository.ProductFilter) ([]models.Product, error) {
	return s.products.GetAll(ctx, filter)
}

// Get returns a single product.
func (s *StockService) Get(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, NormalizeTrackingID(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// CreateProduct adds one product to the inventory. When no tracking id is
// given the system assigns a uuid so the parcel stays addressable.
func (s *StockService) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if strings.TrimSpace(input.ClientName) == "" {
		return nil, utils.ErrValidation
	}
	if input.Price.IsNegative() {
		return nil, utils.ErrValidation
	}
	if input.CompanyID != nil {
		if _, err := s.companies.GetByID(ctx, *input.CompanyID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, utils.ErrCompanyNotFound
			}
			return nil, err
		}
	}

	id := NormalizeTrackingID(input.TrackingID)
	if id == "" {
		id = uuid.New().String()
	}

	product := &models.Product{
		ID:         id,
		ClientName: strings.TrimSpace(input.ClientName),
		Phone:      strings.TrimSpace(input.Phone),
		Price:      input.Price,
		CompanyID:  input.CompanyID,
		Status:     models.StatusInStock,
	}

	if err := s.products.Create(ctx, product); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, utils.ErrDuplicateID
		}
		return nil, err
	}

	log.Info().Str("product_id", product.ID).Msg("Product added to stock")
	return product, nil
}

// Assign hands an in-stock product to a delivery worker. The storage update
// is conditional on the product being unassigned and in stock, so two admins
// assigning the same parcel race safely and one of them loses.
func (s *StockService) Assign(ctx context.Context, productID string, workerID int64) (*models.Product, error) {
	productID = NormalizeTrackingID(productID)

	if _, err := s.workers.GetByID(ctx, workerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrWorkerNotFound
		}
		return nil, err
	}

	ok, err := s.products.AssignWorker(ctx, productID, workerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Distinguish missing, already-assigned and wrong-state products.
		product, err := s.products.GetByID(ctx, productID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, utils.ErrProductNotFound
			}
			return nil, err
		}
		if product.WorkerID != nil {
			return nil, utils.ErrAlreadyAssigned
		}
		return nil, utils.ErrInvalidStatus
	}

	log.Info().Str("product_id", productID).Int64("worker_id", workerID).Msg("Product assigned to worker")
	return s.Get(ctx, productID)
}

// Detach takes a product back from its worker and returns it to stock. The
// two fields move together so no parcel sits in delivery without a carrier.
func (s *StockService) Detach(ctx context.Context, productID string) (*models.Product, error) {
	product, err := s.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := s.products.DetachWorker(ctx, product.ID); err != nil {
		return nil, err
	}
	log.Info().Str("product_id", product.ID).Msg("Product detached from worker")
	return s.Get(ctx, product.ID)
}

// MarkDelivered confirms delivery of a product. Normally the product is out
// with a worker, but direct hand-offs from stock are allowed too; a worker
// reference, when present, is retained for settlement.
func (s *StockService) MarkDelivered(ctx context.Context, productID string) (*models.Product, error) {
	product, err := s.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Status != models.StatusDelivery && product.Status != models.StatusInStock {
		return nil, utils.ErrInvalidStatus
	}
	if err := s.products.MarkDelivered(ctx, product.ID, time.Now()); err != nil {
		return nil, err
	}
	return s.Get(ctx, product.ID)
}

// RevertToDelivery undoes a mistaken delivery confirmation. The delivery
// timestamp is cleared so the product cannot linger in settlement windows.
func (s *StockService) RevertToDelivery(ctx context.Context, productID string) (*models.Product, error) {
	product, err := s.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Status != models.StatusDelivered {
		return nil, utils.ErrInvalidStatus
	}
	if err := s.products.RevertToDelivery(ctx, product.ID); err != nil {
		return nil, err
	}
	return s.Get(ctx, product.ID)
}

// Cancel takes a product out of circulation from any state. Only the status
// changes; the last worker reference and any delivery timestamp are retained
// for audit.
func (s *StockService) Cancel(ctx context.Context, productID string) (*models.Product, error) {
	product, err := s.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := s.products.SetStatus(ctx, product.ID, models.StatusCanceled); err != nil {
		return nil, err
	}
	return s.Get(ctx, product.ID)
}

// SetStatus forces a product into an arbitrary lifecycle state. This is the
// manual escape hatch for stock corrections and skips transition guards.
func (s *StockService) SetStatus(ctx context.Context, productID string, status models.ProductStatus) (*models.Product, error) {
	if !status.IsValid() {
		return nil, utils.ErrInvalidStatus
	}
	product, err := s.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := s.products.SetStatus(ctx, product.ID, status); err != nil {
		return nil, err
	}
	log.Warn().Str("product_id", product.ID).Str("status", string(status)).Msg("Product status forced manually")
	return s.Get(ctx, product.ID)
}

// Delete removes a product from the inventory.
func (s *StockService) Delete(ctx context.Context, productID string) error {
	product, err := s.Get(ctx, productID)
	if err != nil {
		return err
	}
	return s.products.Delete(ctx, product.ID)
}

// WorkerSheet returns the products currently assigned to a worker.
func (s *StockService) WorkerSheet(ctx context.Context, workerID int64) ([]models.Product, error) {
	if _, err := s.workers.GetByID(ctx, workerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrWorkerNotFound
		}
		return nil, err
	}
	return s.products.GetAll(ctx, &repository.ProductFilter{WorkerID: &workerID})
}

// DashboardCounts aggregates the landing page counters.
type DashboardCounts struct {
	Products  map[models.ProductStatus]int `json:"products"`
	Workers   int                          `json:"workers"`
	Companies int                          `json:"companies"`
}

// Dashboard returns per-status product counts plus worker and company totals.
func (s *StockService) Dashboard(ctx context.Context) (*DashboardCounts, error) {
	products, err := s.products.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	workers, err := s.workers.Count(ctx)
	if err != nil {
		return nil, err
	}
	companies, err := s.companies.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &DashboardCounts{Products: products, Workers: workers, Companies: companies}, nil
}

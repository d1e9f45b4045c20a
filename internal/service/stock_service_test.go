package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rehabdelivery/rehab_api/internal/models"
	"github.com/rehabdelivery/rehab_api/internal/repository"
	"github.com/rehabdelivery/rehab_api/internal/utils"
)

type fakeProductStore struct {
	products map[string]*models.Product
}

func newFakeProductStore(products ...*models.Product) *fakeProductStore {
	s := &fakeProductStore{products: make(map[string]*models.Product)}
	for _, p := range products {
		cp := *p
		s.products[p.ID] = &cp
	}
	return s
}

func (s *fakeProductStore) GetAll(_ context.Context, filter *repository.ProductFilter) ([]models.Product, error) {
	var out []models.Product
	for _, p := range s.products {
		if filter != nil {
			if filter.Status != "" && p.Status != filter.Status {
				continue
			}
			if filter.WorkerID != nil && (p.WorkerID == nil || *p.WorkerID != *filter.WorkerID) {
				continue
			}
		}
		out = append(out, *p)
	}
	return out, nil
}

func (s *fakeProductStore) GetByID(_ context.Context, id string) (*models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (s *fakeProductStore) Create(_ context.Context, p *models.Product) error {
	if _, ok := s.products[p.ID]; ok {
		return &pq.Error{Code: "23505"}
	}
	cp := *p
	s.products[p.ID] = &cp
	return nil
}

func (s *fakeProductStore) AssignWorker(_ context.Context, productID string, workerID int64) (bool, error) {
	p, ok := s.products[productID]
	if !ok || p.WorkerID != nil || p.Status != models.StatusInStock {
		return false, nil
	}
	p.WorkerID = &workerID
	p.Status = models.StatusDelivery
	return true, nil
}

func (s *fakeProductStore) DetachWorker(_ context.Context, productID string) error {
	if p, ok := s.products[productID]; ok {
		p.WorkerID = nil
		p.Status = models.StatusInStock
	}
	return nil
}

func (s *fakeProductStore) MarkDelivered(_ context.Context, productID string, at time.Time) error {
	if p, ok := s.products[productID]; ok {
		p.Status = models.StatusDelivered
		p.DeliveredAt = &at
	}
	return nil
}

func (s *fakeProductStore) RevertToDelivery(_ context.Context, productID string) error {
	if p, ok := s.products[productID]; ok {
		p.Status = models.StatusDelivery
		p.DeliveredAt = nil
	}
	return nil
}

func (s *fakeProductStore) SetStatus(_ context.Context, productID string, status models.ProductStatus) error {
	if p, ok := s.products[productID]; ok {
		p.Status = status
	}
	return nil
}

func (s *fakeProductStore) Delete(_ context.Context, id string) error {
	delete(s.products, id)
	return nil
}

func (s *fakeProductStore) CountByStatus(_ context.Context) (map[models.ProductStatus]int, error) {
	counts := make(map[models.ProductStatus]int)
	for _, p := range s.products {
		counts[p.Status]++
	}
	return counts, nil
}

type fakeWorkerStore struct {
	workers map[int64]*models.DeliveryWorker
}

func newFakeWorkerStore(ids ...int64) *fakeWorkerStore {
	s := &fakeWorkerStore{workers: make(map[int64]*models.DeliveryWorker)}
	for _, id := range ids {
		s.workers[id] = &models.DeliveryWorker{ID: id, Name: "Worker", CommissionAmount: decimal.NewFromInt(150)}
	}
	return s
}

func (s *fakeWorkerStore) GetByID(_ context.Context, id int64) (*models.DeliveryWorker, error) {
	w, ok := s.workers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return w, nil
}

func (s *fakeWorkerStore) Count(_ context.Context) (int, error) { return len(s.workers), nil }

type fakeCompanyStore struct {
	companies map[int64]*models.Company
}

func newFakeCompanyStore(ids ...int64) *fakeCompanyStore {
	s := &fakeCompanyStore{companies: make(map[int64]*models.Company)}
	for _, id := range ids {
		s.companies[id] = &models.Company{ID: id, Name: "Company", BenefitAmount: decimal.NewFromInt(500)}
	}
	return s
}

func (s *fakeCompanyStore) GetByID(_ context.Context, id int64) (*models.Company, error) {
	c, ok := s.companies[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return c, nil
}

func (s *fakeCompanyStore) Count(_ context.Context) (int, error) { return len(s.companies), nil }

func inStock(id string) *models.Product {
	return &models.Product{ID: id, ClientName: "Client", Status: models.StatusInStock, Price: decimal.NewFromInt(2500)}
}

func newStockService(products *fakeProductStore) *StockService {
	return NewStockService(products, newFakeWorkerStore(1, 2), newFakeCompanyStore(6))
}

func TestCreateProduct(t *testing.T) {
	t.Run("keeps supplied tracking id", func(t *testing.T) {
		svc := newStockService(newFakeProductStore())
		p, err := svc.CreateProduct(context.Background(), CreateProductInput{
			TrackingID: " ZR-1042 ", ClientName: "Amine", Price: decimal.NewFromInt(2500),
		})
		require.NoError(t, err)
		assert.Equal(t, "ZR-1042", p.ID)
		assert.Equal(t, models.StatusInStock, p.Status)
	})

	t.Run("assigns uuid when no tracking id", func(t *testing.T) {
		svc := newStockService(newFakeProductStore())
		p, err := svc.CreateProduct(context.Background(), CreateProductInput{ClientName: "Amine"})
		require.NoError(t, err)
		assert.Len(t, p.ID, 36)
	})

	t.Run("rejects blank client name", func(t *testing.T) {
		svc := newStockService(newFakeProductStore())
		_, err := svc.CreateProduct(context.Background(), CreateProductInput{TrackingID: "A"})
		assert.ErrorIs(t, err, utils.ErrValidation)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		svc := newStockService(newFakeProductStore())
		_, err := svc.CreateProduct(context.Background(), CreateProductInput{
			ClientName: "Amine", Price: decimal.NewFromInt(-1),
		})
		assert.ErrorIs(t, err, utils.ErrValidation)
	})

	t.Run("rejects unknown company", func(t *testing.T) {
		svc := newStockService(newFakeProductStore())
		companyID := int64(99)
		_, err := svc.CreateProduct(context.Background(), CreateProductInput{
			ClientName: "Amine", CompanyID: &companyID,
		})
		assert.ErrorIs(t, err, utils.ErrCompanyNotFound)
	})

	t.Run("duplicate tracking id", func(t *testing.T) {
		svc := newStockService(newFakeProductStore(inStock("A")))
		_, err := svc.CreateProduct(context.Background(), CreateProductInput{TrackingID: "A", ClientName: "Amine"})
		assert.ErrorIs(t, err, utils.ErrDuplicateID)
	})
}

func TestAssign(t *testing.T) {
	t.Run("moves product to delivery with worker", func(t *testing.T) {
		svc := newStockService(newFakeProductStore(inStock("A")))
		p, err := svc.Assign(context.Background(), "A", 1)
		require.NoError(t, err)
		assert.Equal(t, models.StatusDelivery, p.Status)
		require.NotNil(t, p.WorkerID)
		assert.Equal(t, int64(1), *p.WorkerID)
	})

	t.Run("unknown worker", func(t *testing.T) {
		svc := newStockService(newFakeProductStore(inStock("A")))
		_, err := svc.Assign(context.Background(), "A", 99)
		assert.ErrorIs(t, err, utils.ErrWorkerNotFound)
	})

	t.Run("unknown product", func(t *testing.T) {
		svc := newStockService(newFakeProductStore())
		_, err := svc.Assign(context.Background(), "missing", 1)
		assert.ErrorIs(t, err, utils.ErrProductNotFound)
	})

	t.Run("second assignment loses", func(t *testing.T) {
		svc := newStockService(newFakeProductStore(inStock("A")))
		_, err := svc.Assign(context.Background(), "A", 1)
		require.NoError(t, err)
		_, err = svc.Assign(context.Background(), "A", 2)
		assert.ErrorIs(t, err, utils.ErrAlreadyAssigned)
	})

	t.Run("canceled product cannot be assigned", func(t *testing.T) {
		p := inStock("A")
		p.Status = models.StatusCanceled
		svc := newStockService(newFakeProductStore(p))
		_, err := svc.Assign(context.Background(), "A", 1)
		assert.ErrorIs(t, err, utils.ErrInvalidStatus)
	})
}

func TestDetach(t *testing.T) {
	svc := newStockService(newFakeProductStore(inStock("A")))
	_, err := svc.Assign(context.Background(), "A", 1)
	require.NoError(t, err)

	p, err := svc.Detach(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInStock, p.Status)
	assert.Nil(t, p.WorkerID)
}

func TestMarkDelivered(t *testing.T) {
	t.Run("sets delivered at and keeps worker", func(t *testing.T) {
		svc := newStockService(newFakeProductStore(inStock("A")))
		_, err := svc.Assign(context.Background(), "A", 1)
		require.NoError(t, err)

		p, err := svc.MarkDelivered(context.Background(), "A")
		require.NoError(t, err)
		assert.Equal(t, models.StatusDelivered, p.Status)
		assert.NotNil(t, p.DeliveredAt)
		assert.NotNil(t, p.WorkerID)
	})

	t.Run("direct hand-off from stock", func(t *testing.T) {
		svc := newStockService(newFakeProductStore(inStock("A")))
		p, err := svc.MarkDelivered(context.Background(), "A")
		require.NoError(t, err)
		assert.Equal(t, models.StatusDelivered, p.Status)
		assert.NotNil(t, p.DeliveredAt)
		assert.Nil(t, p.WorkerID)
	})

	t.Run("not from canceled", func(t *testing.T) {
		p := inStock("A")
		p.Status = models.StatusCanceled
		svc := newStockService(newFakeProductStore(p))
		_, err := svc.MarkDelivered(context.Background(), "A")
		assert.ErrorIs(t, err, utils.ErrInvalidStatus)
	})

	t.Run("not when already delivered", func(t *testing.T) {
		svc := newStockService(newFakeProductStore(inStock("A")))
		_, err := svc.MarkDelivered(context.Background(), "A")
		require.NoError(t, err)
		_, err = svc.MarkDelivered(context.Background(), "A")
		assert.ErrorIs(t, err, utils.ErrInvalidStatus)
	})
}

func TestRevertToDelivery(t *testing.T) {
	t.Run("clears delivered at", func(t *testing.T) {
		svc := newStockService(newFakeProductStore(inStock("A")))
		_, err := svc.Assign(context.Background(), "A", 1)
		require.NoError(t, err)
		_, err = svc.MarkDelivered(context.Background(), "A")
		require.NoError(t, err)

		p, err := svc.RevertToDelivery(context.Background(), "A")
		require.NoError(t, err)
		assert.Equal(t, models.StatusDelivery, p.Status)
		assert.Nil(t, p.DeliveredAt)
	})

	t.Run("only from delivered", func(t *testing.T) {
		svc := newStockService(newFakeProductStore(inStock("A")))
		_, err := svc.RevertToDelivery(context.Background(), "A")
		assert.ErrorIs(t, err, utils.ErrInvalidStatus)
	})
}

func TestCancel(t *testing.T) {
	t.Run("keeps last worker for audit", func(t *testing.T) {
		svc := newStockService(newFakeProductStore(inStock("A")))
		_, err := svc.Assign(context.Background(), "A", 1)
		require.NoError(t, err)

		p, err := svc.Cancel(context.Background(), "A")
		require.NoError(t, err)
		assert.Equal(t, models.StatusCanceled, p.Status)
		assert.NotNil(t, p.WorkerID)
	})

	t.Run("cancels even after delivery, status only", func(t *testing.T) {
		svc := newStockService(newFakeProductStore(inStock("A")))
		_, err := svc.Assign(context.Background(), "A", 1)
		require.NoError(t, err)
		_, err = svc.MarkDelivered(context.Background(), "A")
		require.NoError(t, err)

		p, err := svc.Cancel(context.Background(), "A")
		require.NoError(t, err)
		assert.Equal(t, models.StatusCanceled, p.Status)
		assert.NotNil(t, p.WorkerID, "worker reference kept for audit")
		assert.NotNil(t, p.DeliveredAt, "delivery timestamp kept for audit")
	})
}

func TestSetStatus(t *testing.T) {
	t.Run("forces arbitrary status", func(t *testing.T) {
		svc := newStockService(newFakeProductStore(inStock("A")))
		p, err := svc.SetStatus(context.Background(), "A", models.StatusDelivery)
		require.NoError(t, err)
		assert.Equal(t, models.StatusDelivery, p.Status)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		svc := newStockService(newFakeProductStore(inStock("A")))
		_, err := svc.SetStatus(context.Background(), "A", "lost")
		assert.ErrorIs(t, err, utils.ErrInvalidStatus)
	})
}

func TestWorkerSheet(t *testing.T) {
	svc := newStockService(newFakeProductStore(inStock("A"), inStock("B")))
	_, err := svc.Assign(context.Background(), "A", 1)
	require.NoError(t, err)

	sheet, err := svc.WorkerSheet(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, sheet, 1)
	assert.Equal(t, "A", sheet[0].ID)

	_, err = svc.WorkerSheet(context.Background(), 99)
	assert.ErrorIs(t, err, utils.ErrWorkerNotFound)
}

func TestDashboard(t *testing.T) {
	svc := newStockService(newFakeProductStore(inStock("A"), inStock("B")))
	_, err := svc.Assign(context.Background(), "A", 1)
	require.NoError(t, err)

	counts, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Products[models.StatusInStock])
	assert.Equal(t, 1, counts.Products[models.StatusDelivery])
	assert.Equal(t, 2, counts.Workers)
	assert.Equal(t, 1, counts.Companies)
}

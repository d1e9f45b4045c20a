package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/rehabdelivery/rehab_api/internal/models"
	"github.com/rehabdelivery/rehab_api/internal/repository"
)

// SettlementFilter narrows a settlement to one company and a creation date
// window. Dates are date-only; DateTo covers the whole day it names.
type SettlementFilter struct {
	CompanyID *int64
	DateFrom  *time.Time
	DateTo    *time.Time
}

// TreasuryProductStore is the product surface the treasury needs.
type TreasuryProductStore interface {
	GetAll(ctx context.Context, filter *repository.ProductFilter) ([]models.Product, error)
	DeleteDelivered(ctx context.Context) (int64, error)
}

// TreasuryCompanyStore lists companies for the settlement snapshot.
type TreasuryCompanyStore interface {
	GetAll(ctx context.Context) ([]models.Company, error)
}

// TreasuryWorkerStore lists workers for the settlement snapshot.
type TreasuryWorkerStore interface {
	GetAll(ctx context.Context) ([]models.DeliveryWorker, error)
}

// TreasuryService computes settlements over delivered products and clears
// the ledger after payout.
type TreasuryService struct {
	products  TreasuryProductStore
	companies TreasuryCompanyStore
	workers   TreasuryWorkerStore
}

// NewTreasuryService creates a new TreasuryService.
func NewTreasuryService(products TreasuryProductStore, companies TreasuryCompanyStore, workers TreasuryWorkerStore) *TreasuryService {
	return &TreasuryService{products: products, companies: companies, workers: workers}
}

// ComputeSettlement folds delivered products into per-product lines and
// decimal totals. Per delivered product the company benefit counts as
// revenue, the worker commission as fee, and the difference as net. Products
// without a company or worker contribute zero on the missing side. The
// function reads its inputs and writes nothing, so recomputing is free.
func ComputeSettlement(products []models.Product, companies []models.Company, workers []models.DeliveryWorker, filter SettlementFilter) *models.Settlement {
	companyByID := make(map[int64]models.Company, len(companies))
	for _, c := range companies {
		companyByID[c.ID] = c
	}
	workerByID := make(map[int64]models.DeliveryWorker, len(workers))
	for _, w := range workers {
		workerByID[w.ID] = w
	}

	settlement := &models.Settlement{
		TotalRevenue:    decimal.Zero,
		TotalWorkerFees: decimal.Zero,
		TotalNetBenefit: decimal.Zero,
		Lines:           []models.SettlementLine{},
	}

	for _, p := range products {
		if p.Status != models.StatusDelivered {
			continue
		}
		if filter.CompanyID != nil && (p.CompanyID == nil || *p.CompanyID != *filter.CompanyID) {
			continue
		}
		if filter.DateFrom != nil && p.CreatedAt.Before(startOfDay(*filter.DateFrom)) {
			continue
		}
		if filter.DateTo != nil && !p.CreatedAt.Before(startOfDay(*filter.DateTo).AddDate(0, 0, 1)) {
			continue
		}

		line := models.SettlementLine{
			ProductID:   p.ID,
			ClientName:  p.ClientName,
			Benefit:     decimal.Zero,
			WorkerFee:   decimal.Zero,
			DeliveredAt: p.DeliveredAt,
		}
		if p.CompanyID != nil {
			if c, ok := companyByID[*p.CompanyID]; ok {
				line.CompanyName = c.Name
				line.Benefit = c.BenefitAmount
			}
		}
		if p.WorkerID != nil {
			if w, ok := workerByID[*p.WorkerID]; ok {
				line.WorkerName = w.Name
				line.WorkerFee = w.CommissionAmount
			}
		}
		line.NetBenefit = line.Benefit.Sub(line.WorkerFee)

		settlement.DeliveredCount++
		settlement.TotalRevenue = settlement.TotalRevenue.Add(line.Benefit)
		settlement.TotalWorkerFees = settlement.TotalWorkerFees.Add(line.WorkerFee)
		settlement.TotalNetBenefit = settlement.TotalNetBenefit.Add(line.NetBenefit)
		settlement.Lines = append(settlement.Lines, line)
	}

	return settlement
}

// Settlement loads a fresh snapshot of delivered products, companies and
// workers and computes the report.
func (s *TreasuryService) Settlement(ctx context.Context, filter SettlementFilter) (*models.Settlement, error) {
	products, err := s.products.GetAll(ctx, &repository.ProductFilter{
		Status:    models.StatusDelivered,
		CompanyID: filter.CompanyID,
	})
	if err != nil {
		return nil, err
	}
	companies, err := s.companies.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	workers, err := s.workers.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeSettlement(products, companies, workers, filter), nil
}

// ResetTreasury deletes every delivered product after a payout has been
// reconciled and returns the number of rows removed.
func (s *TreasuryService) ResetTreasury(ctx context.Context) (int64, error) {
	removed, err := s.products.DeleteDelivered(ctx)
	if err != nil {
		return 0, err
	}
	log.Info().Int64("removed", removed).Msg("Treasury reset, delivered products cleared")
	return removed, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

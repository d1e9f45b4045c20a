package service

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/rehabdelivery/rehab_api/internal/models"
	"github.com/rehabdelivery/rehab_api/internal/utils"
	"github.com/rehabdelivery/rehab_api/pkg/claude"
)

// Extractor turns a scanned delivery sheet into loose row maps.
type Extractor interface {
	Extract(ctx context.Context, doc claude.Document, templateHint string) ([]map[string]interface{}, error)
}

// Archiver stores uploaded sheet documents for audit. Archive failures are
// logged, never fatal.
type Archiver interface {
	Upload(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// BatchStore holds staged batches between extraction and commit.
type BatchStore interface {
	Put(ctx context.Context, batch *models.StagedBatch) error
	Get(ctx context.Context, batchID string) (*models.StagedBatch, error)
	Delete(ctx context.Context, batchID string) error
}

// IngestService runs the bulk ingestion pipeline: extract rows from scanned
// sheets, dedup and flag them, and stage the batch for operator review.
type IngestService struct {
	extractor Extractor
	archiver  Archiver
	batches   BatchStore
	intake    *IntakeService
	companies StockCompanyStore
	timeout   time.Duration
}

// NewIngestService creates a new IngestService. timeout bounds each
// document's extraction call.
func NewIngestService(extractor Extractor, archiver Archiver, batches BatchStore, intake *IntakeService, companies StockCompanyStore, timeout time.Duration) *IngestService {
	return &IngestService{
		extractor: extractor,
		archiver:  archiver,
		batches:   batches,
		intake:    intake,
		companies: companies,
		timeout:   timeout,
	}
}

// Alias keys produced by different sheet locales, in coalescing priority.
var (
	trackingKeys = []string{"trackingId", "tracking", "numero_de_tracking", "numeroTracking", "id"}
	clientKeys   = []string{"clientName", "client", "name"}
	phoneKeys    = []string{"phone", "telephone"}
	priceKeys    = []string{"price", "montant"}
)

// IngestDocuments extracts every document, pools the rows into one batch and
// stages it. A document that fails extraction is recorded in the batch and
// skipped; only a batch where every document failed is an error.
func (s *IngestService) IngestDocuments(ctx context.Context, docs []claude.Document, companyID *int64) (*models.StagedBatch, error) {
	templateHint := ""
	if companyID != nil {
		company, err := s.companies.GetByID(ctx, *companyID)
		if err != nil {
			return nil, utils.ErrCompanyNotFound
		}
		templateHint = company.SheetTemplate
	}

	var candidates []CandidateRow
	var failures []models.ExtractionFailure

	for _, doc := range docs {
		rows, err := s.extractDocument(ctx, doc, templateHint)
		if err != nil {
			log.Error().Err(err).Str("document", doc.Name).Msg("Document extraction failed")
			failures = append(failures, models.ExtractionFailure{Document: doc.Name, Error: err.Error()})
			continue
		}
		for _, raw := range rows {
			candidates = append(candidates, coalesceRow(raw))
		}

		if s.archiver != nil {
			if _, err := s.archiver.Upload(ctx, doc.Name, doc.MediaType, doc.Data); err != nil {
				log.Warn().Err(err).Str("document", doc.Name).Msg("Sheet archive upload failed")
			}
		}
	}

	if len(docs) > 0 && len(failures) == len(docs) {
		return nil, utils.ErrExtractionFailed
	}

	flagged, err := s.intake.CheckBatch(ctx, candidates)
	if err != nil {
		return nil, err
	}

	batch := &models.StagedBatch{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Rows:      flagged,
		Failures:  failures,
		CreatedAt: time.Now(),
	}
	if err := s.batches.Put(ctx, batch); err != nil {
		return nil, err
	}

	log.Info().
		Str("batch_id", batch.ID).
		Int("rows", len(batch.Rows)).
		Int("failed_documents", len(failures)).
		Msg("Ingestion batch staged")

	return batch, nil
}

// extractDocument runs one extraction call under the per-document timeout.
func (s *IngestService) extractDocument(ctx context.Context, doc claude.Document, templateHint string) ([]map[string]interface{}, error) {
	docCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.extractor.Extract(docCtx, doc, templateHint)
}

// GetBatch returns a staged batch for review.
func (s *IngestService) GetBatch(ctx context.Context, batchID string) (*models.StagedBatch, error) {
	batch, err := s.batches.Get(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, utils.ErrBatchNotFound
	}
	return batch, nil
}

// UpdateRow replaces one row of a staged batch and re-flags the whole batch,
// since an edited tracking id can create or resolve duplicates.
func (s *IngestService) UpdateRow(ctx context.Context, batchID string, index int, row CandidateRow) (*models.StagedBatch, error) {
	batch, err := s.GetBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(batch.Rows) {
		return nil, utils.ErrValidation
	}

	candidates := batchCandidates(batch)
	candidates[index] = row
	return s.reflag(ctx, batch, candidates)
}

// RemoveRow drops one row from a staged batch and re-flags the rest.
func (s *IngestService) RemoveRow(ctx context.Context, batchID string, index int) (*models.StagedBatch, error) {
	batch, err := s.GetBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(batch.Rows) {
		return nil, utils.ErrValidation
	}

	candidates := batchCandidates(batch)
	candidates = append(candidates[:index], candidates[index+1:]...)
	return s.reflag(ctx, batch, candidates)
}

// Commit re-checks a staged batch against the inventory, inserts its clean
// rows and discards the batch.
func (s *IngestService) Commit(ctx context.Context, batchID string) (*CommitResult, error) {
	batch, err := s.GetBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	// Flags may be stale; re-check right before the insert.
	flagged, err := s.intake.CheckBatch(ctx, batchCandidates(batch))
	if err != nil {
		return nil, err
	}
	result, err := s.intake.CommitBatch(ctx, flagged, batch.CompanyID)
	if err != nil {
		return nil, err
	}

	if err := s.batches.Delete(ctx, batchID); err != nil {
		log.Warn().Err(err).Str("batch_id", batchID).Msg("Failed to drop committed batch from staging")
	}
	return result, nil
}

// Discard drops a staged batch without committing.
func (s *IngestService) Discard(ctx context.Context, batchID string) error {
	if _, err := s.GetBatch(ctx, batchID); err != nil {
		return err
	}
	return s.batches.Delete(ctx, batchID)
}

// reflag recomputes dedup and inventory flags and persists the batch.
func (s *IngestService) reflag(ctx context.Context, batch *models.StagedBatch, candidates []CandidateRow) (*models.StagedBatch, error) {
	flagged, err := s.intake.CheckBatch(ctx, candidates)
	if err != nil {
		return nil, err
	}
	batch.Rows = flagged
	if err := s.batches.Put(ctx, batch); err != nil {
		return nil, err
	}
	return batch, nil
}

// batchCandidates converts staged rows back to candidates so flags are
// recomputed from scratch.
func batchCandidates(batch *models.StagedBatch) []CandidateRow {
	candidates := make([]CandidateRow, len(batch.Rows))
	for i, row := range batch.Rows {
		candidates[i] = CandidateRow{
			TrackingID: row.TrackingID,
			ClientName: row.ClientName,
			Phone:      row.Phone,
			Price:      row.Price,
		}
	}
	return candidates
}

// coalesceRow maps a loose extracted row onto a candidate, resolving the
// alias keys different sheet layouts produce.
func coalesceRow(raw map[string]interface{}) CandidateRow {
	return CandidateRow{
		TrackingID: firstString(raw, trackingKeys),
		ClientName: firstString(raw, clientKeys),
		Phone:      firstString(raw, phoneKeys),
		Price:      firstPrice(raw, priceKeys),
	}
}

// firstString returns the first alias key present, rendered as a string.
// Numeric values are kept since tracking ids and phones often come back as
// JSON numbers.
func firstString(raw map[string]interface{}, keys []string) string {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// firstPrice parses the first alias key present into a decimal amount.
// Finite JSON numbers pass through; strings go through ParsePrice.
func firstPrice(raw map[string]interface{}, keys []string) decimal.Decimal {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case string:
			if v != "" {
				return ParsePrice(v)
			}
		case float64:
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return decimal.Zero
			}
			return decimal.NewFromFloat(v)
		}
	}
	return decimal.Zero
}

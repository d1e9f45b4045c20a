package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/rehabdelivery/rehab_api/internal/models"
)

// CandidateRow is a product candidate heading for the inventory, either from
// a scanned sheet or typed in by hand.
type CandidateRow struct {
	TrackingID string          `json:"trackingId"`
	ClientName string          `json:"clientName"`
	Phone      string          `json:"phone"`
	Price      decimal.Decimal `json:"price"`
}

// CommitResult reports the outcome of committing a batch. A partial commit is
// a normal result, not an error.
type CommitResult struct {
	Inserted         []string `json:"inserted"`
	SkippedExisting  []string `json:"skippedExisting"`
	DuplicateInBatch []string `json:"duplicateInBatch"`
}

// IntakeStore is the storage surface the intake flow needs.
type IntakeStore interface {
	ExistsByIDs(ctx context.Context, ids []string) (map[string]struct{}, error)
	InsertIgnoreConflicts(ctx context.Context, products []models.Product) ([]models.Product, error)
}

// IntakeService validates candidate rows against the inventory and commits
// the clean ones.
type IntakeService struct {
	store IntakeStore
}

// NewIntakeService creates a new IntakeService.
func NewIntakeService(store IntakeStore) *IntakeService {
	return &IntakeService{store: store}
}

// DedupRows flags within-batch duplicates. The first occurrence of each
// tracking id is kept clean and later occurrences are flagged, so every input
// row stays visible for review. Rows with a blank id are dropped, and text
// fields are trimmed of scan whitespace.
func DedupRows(rows []CandidateRow) []models.StagedRow {
	seen := make(map[string]struct{}, len(rows))
	staged := make([]models.StagedRow, 0, len(rows))

	for _, row := range rows {
		id := NormalizeTrackingID(row.TrackingID)
		if id == "" {
			continue
		}
		_, dup := seen[id]
		if !dup {
			seen[id] = struct{}{}
		}
		staged = append(staged, models.StagedRow{
			TrackingID:       id,
			ClientName:       strings.TrimSpace(row.ClientName),
			Phone:            strings.TrimSpace(row.Phone),
			Price:            row.Price,
			DuplicateInBatch: dup,
		})
	}
	return staged
}

// FlagRows marks rows whose tracking id already exists in the inventory. The
// existing set comes from one ExistsByIDs round trip, never per-row queries.
func FlagRows(rows []models.StagedRow, existing map[string]struct{}) []models.StagedRow {
	flagged := make([]models.StagedRow, len(rows))
	for i, row := range rows {
		_, exists := existing[row.TrackingID]
		row.ExistsInInventory = exists
		flagged[i] = row
	}
	return flagged
}

// CleanRows returns only the rows eligible for insertion.
func CleanRows(rows []models.StagedRow) []models.StagedRow {
	clean := make([]models.StagedRow, 0, len(rows))
	for _, row := range rows {
		if !row.DuplicateInBatch && !row.ExistsInInventory {
			clean = append(clean, row)
		}
	}
	return clean
}

// CheckBatch dedups the candidate rows and flags them against the inventory.
func (s *IntakeService) CheckBatch(ctx context.Context, rows []CandidateRow) ([]models.StagedRow, error) {
	staged := DedupRows(rows)

	ids := make([]string, 0, len(staged))
	for _, row := range staged {
		if !row.DuplicateInBatch {
			ids = append(ids, row.TrackingID)
		}
	}

	existing, err := s.store.ExistsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return FlagRows(staged, existing), nil
}

// CommitBatch inserts the clean rows of a batch. Rows flagged as duplicates
// are reported, not attempted. Conflicts that slip in between check and
// commit resolve to skips through the storage upsert, so retrying a commit is
// idempotent.
func (s *IntakeService) CommitBatch(ctx context.Context, rows []models.StagedRow, companyID *int64) (*CommitResult, error) {
	result := &CommitResult{
		Inserted:         []string{},
		SkippedExisting:  []string{},
		DuplicateInBatch: []string{},
	}

	candidates := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		switch {
		case row.DuplicateInBatch:
			result.DuplicateInBatch = append(result.DuplicateInBatch, row.TrackingID)
		case row.ExistsInInventory:
			result.SkippedExisting = append(result.SkippedExisting, row.TrackingID)
		default:
			candidates = append(candidates, models.Product{
				ID:         row.TrackingID,
				ClientName: row.ClientName,
				Phone:      row.Phone,
				Price:      row.Price,
				CompanyID:  companyID,
				Status:     models.StatusInStock,
			})
		}
	}

	inserted, err := s.store.InsertIgnoreConflicts(ctx, candidates)
	if err != nil {
		return nil, err
	}

	insertedSet := make(map[string]struct{}, len(inserted))
	for _, p := range inserted {
		insertedSet[p.ID] = struct{}{}
		result.Inserted = append(result.Inserted, p.ID)
	}
	for _, c := range candidates {
		if _, ok := insertedSet[c.ID]; !ok {
			result.SkippedExisting = append(result.SkippedExisting, c.ID)
		}
	}

	log.Info().
		Int("inserted", len(result.Inserted)).
		Int("skipped_existing", len(result.SkippedExisting)).
		Int("duplicate_in_batch", len(result.DuplicateInBatch)).
		Msg("Batch commit finished")

	return result, nil
}

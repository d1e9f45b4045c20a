package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rehabdelivery/rehab_api/internal/models"
)

type fakeIntakeStore struct {
	existing map[string]struct{}
	inserted []models.Product
}

func newFakeIntakeStore(ids ...string) *fakeIntakeStore {
	s := &fakeIntakeStore{existing: make(map[string]struct{})}
	for _, id := range ids {
		s.existing[id] = struct{}{}
	}
	return s
}

func (s *fakeIntakeStore) ExistsByIDs(_ context.Context, ids []string) (map[string]struct{}, error) {
	found := make(map[string]struct{})
	for _, id := range ids {
		if _, ok := s.existing[id]; ok {
			found[id] = struct{}{}
		}
	}
	return found, nil
}

func (s *fakeIntakeStore) InsertIgnoreConflicts(_ context.Context, products []models.Product) ([]models.Product, error) {
	var inserted []models.Product
	for _, p := range products {
		if _, ok := s.existing[p.ID]; ok {
			continue
		}
		s.existing[p.ID] = struct{}{}
		s.inserted = append(s.inserted, p)
		inserted = append(inserted, p)
	}
	return inserted, nil
}

func candidates(ids ...string) []CandidateRow {
	rows := make([]CandidateRow, len(ids))
	for i, id := range ids {
		rows[i] = CandidateRow{TrackingID: id, Price: decimal.NewFromInt(1000)}
	}
	return rows
}

func TestDedupRows(t *testing.T) {
	t.Run("flags followers, keeps first clean", func(t *testing.T) {
		rows := DedupRows(candidates("A", "B", "A", "C"))
		require.Len(t, rows, 4)
		assert.False(t, rows[0].DuplicateInBatch)
		assert.False(t, rows[1].DuplicateInBatch)
		assert.True(t, rows[2].DuplicateInBatch)
		assert.False(t, rows[3].DuplicateInBatch)
	})

	t.Run("drops blank ids", func(t *testing.T) {
		rows := DedupRows(candidates("A", "", "  ", "B"))
		require.Len(t, rows, 2)
		assert.Equal(t, "A", rows[0].TrackingID)
		assert.Equal(t, "B", rows[1].TrackingID)
	})

	t.Run("trims before comparing", func(t *testing.T) {
		rows := DedupRows(candidates("A", " A "))
		require.Len(t, rows, 2)
		assert.True(t, rows[1].DuplicateInBatch)
	})

	t.Run("trims scan whitespace off text fields", func(t *testing.T) {
		rows := DedupRows([]CandidateRow{
			{TrackingID: "A", ClientName: " Amine ", Phone: " 0550 12 34 "},
		})
		require.Len(t, rows, 1)
		assert.Equal(t, "Amine", rows[0].ClientName)
		assert.Equal(t, "0550 12 34", rows[0].Phone)
	})
}

func TestCheckBatch(t *testing.T) {
	svc := NewIntakeService(newFakeIntakeStore("B"))

	rows, err := svc.CheckBatch(context.Background(), candidates("A", "B", "A"))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.False(t, rows[0].ExistsInInventory)
	assert.True(t, rows[1].ExistsInInventory)
	assert.True(t, rows[2].DuplicateInBatch)
}

func TestCommitBatch(t *testing.T) {
	t.Run("partial commit reports all three buckets", func(t *testing.T) {
		svc := NewIntakeService(newFakeIntakeStore("B"))

		checked, err := svc.CheckBatch(context.Background(), candidates("A", "B", "A", "C"))
		require.NoError(t, err)

		result, err := svc.CommitBatch(context.Background(), checked, nil)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"A", "C"}, result.Inserted)
		assert.Equal(t, []string{"B"}, result.SkippedExisting)
		assert.Equal(t, []string{"A"}, result.DuplicateInBatch)
	})

	t.Run("second commit of same batch inserts nothing", func(t *testing.T) {
		svc := NewIntakeService(newFakeIntakeStore())

		checked, err := svc.CheckBatch(context.Background(), candidates("A", "B"))
		require.NoError(t, err)

		first, err := svc.CommitBatch(context.Background(), checked, nil)
		require.NoError(t, err)
		require.Len(t, first.Inserted, 2)

		second, err := svc.CommitBatch(context.Background(), checked, nil)
		require.NoError(t, err)
		assert.Empty(t, second.Inserted)
		assert.ElementsMatch(t, []string{"A", "B"}, second.SkippedExisting)
	})

	t.Run("company id is stamped on inserted products", func(t *testing.T) {
		store := newFakeIntakeStore()
		svc := NewIntakeService(store)
		companyID := int64(6)

		checked, err := svc.CheckBatch(context.Background(), candidates("A"))
		require.NoError(t, err)

		result, err := svc.CommitBatch(context.Background(), checked, &companyID)
		require.NoError(t, err)
		require.Equal(t, []string{"A"}, result.Inserted)

		require.Len(t, store.inserted, 1)
		require.NotNil(t, store.inserted[0].CompanyID)
		assert.Equal(t, companyID, *store.inserted[0].CompanyID)
		assert.Equal(t, models.StatusInStock, store.inserted[0].Status)
	})
}

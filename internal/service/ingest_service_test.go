package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rehabdelivery/rehab_api/internal/models"
	"github.com/rehabdelivery/rehab_api/internal/utils"
	"github.com/rehabdelivery/rehab_api/pkg/claude"
)

type fakeExtractor struct {
	rows map[string][]map[string]interface{}
	errs map[string]error
}

func (f *fakeExtractor) Extract(_ context.Context, doc claude.Document, _ string) ([]map[string]interface{}, error) {
	if err, ok := f.errs[doc.Name]; ok {
		return nil, err
	}
	return f.rows[doc.Name], nil
}

type fakeBatchStore struct {
	batches map[string]*models.StagedBatch
}

func newFakeBatchStore() *fakeBatchStore {
	return &fakeBatchStore{batches: make(map[string]*models.StagedBatch)}
}

func (s *fakeBatchStore) Put(_ context.Context, batch *models.StagedBatch) error {
	cp := *batch
	s.batches[batch.ID] = &cp
	return nil
}

func (s *fakeBatchStore) Get(_ context.Context, batchID string) (*models.StagedBatch, error) {
	batch, ok := s.batches[batchID]
	if !ok {
		return nil, nil
	}
	cp := *batch
	return &cp, nil
}

func (s *fakeBatchStore) Delete(_ context.Context, batchID string) error {
	delete(s.batches, batchID)
	return nil
}

func newIngestFixture(extractor *fakeExtractor, existing ...string) (*IngestService, *fakeIntakeStore, *fakeBatchStore) {
	intakeStore := newFakeIntakeStore(existing...)
	batches := newFakeBatchStore()
	svc := NewIngestService(extractor, nil, batches, NewIntakeService(intakeStore), newFakeCompanyStore(6), time.Second)
	return svc, intakeStore, batches
}

func doc(name string) claude.Document {
	return claude.Document{Name: name, MediaType: "image/png", Data: []byte("img")}
}

func TestIngestDocuments(t *testing.T) {
	t.Run("pools rows across documents and flags them", func(t *testing.T) {
		extractor := &fakeExtractor{rows: map[string][]map[string]interface{}{
			"p1.png": {
				{"trackingId": "A", "clientName": "Amine", "phone": "0550", "price": "2500 DA"},
				{"tracking": "B", "client": "Sara", "telephone": "0660", "price": float64(1800)},
			},
			"p2.png": {
				{"numero_de_tracking": "A", "name": "Amine"},
			},
		}}
		svc, _, _ := newIngestFixture(extractor, "B")

		batch, err := svc.IngestDocuments(context.Background(), []claude.Document{doc("p1.png"), doc("p2.png")}, nil)
		require.NoError(t, err)
		require.Len(t, batch.Rows, 3)

		assert.Equal(t, "A", batch.Rows[0].TrackingID)
		assert.Equal(t, "2500", batch.Rows[0].Price.String())
		assert.False(t, batch.Rows[0].DuplicateInBatch)

		assert.Equal(t, "B", batch.Rows[1].TrackingID)
		assert.Equal(t, "Sara", batch.Rows[1].ClientName)
		assert.Equal(t, "0660", batch.Rows[1].Phone)
		assert.Equal(t, "1800", batch.Rows[1].Price.String())
		assert.True(t, batch.Rows[1].ExistsInInventory)

		assert.True(t, batch.Rows[2].DuplicateInBatch, "same id from second document is a batch duplicate")
		assert.Empty(t, batch.Failures)
	})

	t.Run("failed document is recorded, rest continues", func(t *testing.T) {
		extractor := &fakeExtractor{
			rows: map[string][]map[string]interface{}{
				"good.png": {{"trackingId": "A"}},
			},
			errs: map[string]error{"bad.png": errors.New("unreadable scan")},
		}
		svc, _, _ := newIngestFixture(extractor)

		batch, err := svc.IngestDocuments(context.Background(), []claude.Document{doc("bad.png"), doc("good.png")}, nil)
		require.NoError(t, err)
		require.Len(t, batch.Rows, 1)
		require.Len(t, batch.Failures, 1)
		assert.Equal(t, "bad.png", batch.Failures[0].Document)
	})

	t.Run("all documents failing is an error", func(t *testing.T) {
		extractor := &fakeExtractor{errs: map[string]error{"bad.png": errors.New("unreadable scan")}}
		svc, _, _ := newIngestFixture(extractor)

		_, err := svc.IngestDocuments(context.Background(), []claude.Document{doc("bad.png")}, nil)
		assert.ErrorIs(t, err, utils.ErrExtractionFailed)
	})

	t.Run("unknown company", func(t *testing.T) {
		svc, _, _ := newIngestFixture(&fakeExtractor{})
		companyID := int64(99)
		_, err := svc.IngestDocuments(context.Background(), nil, &companyID)
		assert.ErrorIs(t, err, utils.ErrCompanyNotFound)
	})
}

func TestStagedBatchEditing(t *testing.T) {
	stage := func(t *testing.T) (*IngestService, string) {
		extractor := &fakeExtractor{rows: map[string][]map[string]interface{}{
			"p1.png": {
				{"trackingId": "A"},
				{"trackingId": "B"},
			},
		}}
		svc, _, _ := newIngestFixture(extractor)
		batch, err := svc.IngestDocuments(context.Background(), []claude.Document{doc("p1.png")}, nil)
		require.NoError(t, err)
		return svc, batch.ID
	}

	t.Run("get missing batch", func(t *testing.T) {
		svc, _ := stage(t)
		_, err := svc.GetBatch(context.Background(), "nope")
		assert.ErrorIs(t, err, utils.ErrBatchNotFound)
	})

	t.Run("update row re-flags duplicates", func(t *testing.T) {
		svc, id := stage(t)

		batch, err := svc.UpdateRow(context.Background(), id, 1, CandidateRow{TrackingID: "A"})
		require.NoError(t, err)
		require.Len(t, batch.Rows, 2)
		assert.True(t, batch.Rows[1].DuplicateInBatch)

		batch, err = svc.UpdateRow(context.Background(), id, 1, CandidateRow{TrackingID: "C"})
		require.NoError(t, err)
		assert.False(t, batch.Rows[1].DuplicateInBatch)
	})

	t.Run("update with bad index", func(t *testing.T) {
		svc, id := stage(t)
		_, err := svc.UpdateRow(context.Background(), id, 5, CandidateRow{TrackingID: "C"})
		assert.ErrorIs(t, err, utils.ErrValidation)
	})

	t.Run("remove row", func(t *testing.T) {
		svc, id := stage(t)
		batch, err := svc.RemoveRow(context.Background(), id, 0)
		require.NoError(t, err)
		require.Len(t, batch.Rows, 1)
		assert.Equal(t, "B", batch.Rows[0].TrackingID)
	})
}

func TestCommitStagedBatch(t *testing.T) {
	extractor := &fakeExtractor{rows: map[string][]map[string]interface{}{
		"p1.png": {
			{"trackingId": "A"},
			{"trackingId": "B"},
		},
	}}
	svc, intakeStore, batches := newIngestFixture(extractor)

	batch, err := svc.IngestDocuments(context.Background(), []claude.Document{doc("p1.png")}, nil)
	require.NoError(t, err)

	// B lands in the inventory between staging and commit.
	intakeStore.existing["B"] = struct{}{}

	result, err := svc.Commit(context.Background(), batch.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, result.Inserted)
	assert.Equal(t, []string{"B"}, result.SkippedExisting)

	_, ok := batches.batches[batch.ID]
	assert.False(t, ok, "committed batch must be discarded")

	_, err = svc.Commit(context.Background(), batch.ID)
	assert.ErrorIs(t, err, utils.ErrBatchNotFound)
}

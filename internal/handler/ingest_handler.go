package handler

import (
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rehabdelivery/rehab_api/internal/service"
	"github.com/rehabdelivery/rehab_api/internal/utils"
	"github.com/rehabdelivery/rehab_api/pkg/claude"
)

// maxSheetSize bounds a single uploaded sheet document.
const maxSheetSize = 10 << 20

type IngestHandler struct {
	ingest *service.IngestService
}

func NewIngestHandler(ingest *service.IngestService) *IngestHandler {
	return &IngestHandler{ingest: ingest}
}

// Upload accepts multipart sheet documents, extracts their rows and stages
// the batch for review.
func (h *IngestHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Expected multipart form with documents")
		return
	}

	files := form.File["documents"]
	if len(files) == 0 {
		utils.Error(c, 400, "INVALID_REQUEST", "No documents uploaded")
		return
	}

	var companyID *int64
	if raw := c.PostForm("companyId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			utils.Error(c, 400, "INVALID_REQUEST", "Invalid companyId")
			return
		}
		companyID = &id
	}

	docs := make([]claude.Document, 0, len(files))
	for _, file := range files {
		if file.Size > maxSheetSize {
			utils.Error(c, 400, "INVALID_REQUEST", "Document too large")
			return
		}
		f, err := file.Open()
		if err != nil {
			utils.Error(c, 400, "INVALID_REQUEST", "Unreadable document")
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			utils.Error(c, 400, "INVALID_REQUEST", "Unreadable document")
			return
		}
		docs = append(docs, claude.Document{
			Name:      file.Filename,
			MediaType: file.Header.Get("Content-Type"),
			Data:      data,
		})
	}

	batch, err := h.ingest.IngestDocuments(c.Request.Context(), docs, companyID)
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.Success(c, 201, "Batch staged", batch)
}

// GetBatch returns a staged batch for review.
func (h *IngestHandler) GetBatch(c *gin.Context) {
	batch, err := h.ingest.GetBatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.Success(c, 200, "Batch retrieved", batch)
}

// UpdateRow edits one staged row and re-flags the batch.
func (h *IngestHandler) UpdateRow(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid row index")
		return
	}

	var req service.CandidateRow
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	batch, err := h.ingest.UpdateRow(c.Request.Context(), c.Param("id"), index, req)
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.Success(c, 200, "Row updated", batch)
}

// RemoveRow drops one staged row.
func (h *IngestHandler) RemoveRow(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid row index")
		return
	}

	batch, err := h.ingest.RemoveRow(c.Request.Context(), c.Param("id"), index)
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.Success(c, 200, "Row removed", batch)
}

// Commit inserts the batch's clean rows into the inventory.
func (h *IngestHandler) Commit(c *gin.Context) {
	result, err := h.ingest.Commit(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.Success(c, 200, "Batch committed", result)
}

// Discard drops a staged batch without committing.
func (h *IngestHandler) Discard(c *gin.Context) {
	if err := h.ingest.Discard(c.Request.Context(), c.Param("id")); err != nil {
		serviceError(c, err)
		return
	}
	utils.Success(c, 200, "Batch discarded", nil)
}

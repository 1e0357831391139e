package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	importapp "github.com/nepalmeatshop/backend/internal/application/import"
	"github.com/nepalmeatshop/backend/internal/domain/shared"
	csvimport "github.com/nepalmeatshop/backend/internal/infrastructure/import"
	"github.com/nepalmeatshop/backend/internal/interfaces/http/dto"
	"github.com/nepalmeatshop/backend/internal/interfaces/http/middleware"
)

const maxImportFileSize = 10 << 20 // 10MB

// validatedRowsTTL bounds how long validated rows wait for the import call.
const validatedRowsTTL = 15 * time.Minute

// ImportHandler handles bulk product import via CSV upload. Importing is
// a two step flow: the file is uploaded and validated first, then the
// validated rows are imported under a chosen conflict mode.
type ImportHandler struct {
	BaseHandler
	importService  *importapp.ProductImportService
	historyService *importapp.ImportHistoryService
	sessionStore   csvimport.SessionStore

	// validRows holds rows that passed validation, keyed by session ID,
	// until the import call consumes them.
	validRowsMu sync.RWMutex
	validRows   map[uuid.UUID][]*csvimport.Row
	stopCh      chan struct{}
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(
	importService *importapp.ProductImportService,
	historyService *importapp.ImportHistoryService,
) *ImportHandler {
	h := &ImportHandler{
		importService:  importService,
		historyService: historyService,
		sessionStore:   csvimport.NewInMemorySessionStore(validatedRowsTTL),
		validRows:      make(map[uuid.UUID][]*csvimport.Row),
		stopCh:         make(chan struct{}),
	}
	go h.cleanupValidRows()
	return h
}

// cleanupValidRows drops validated rows whose session has expired
func (h *ImportHandler) cleanupValidRows() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			h.validRowsMu.Lock()
			for sessionID := range h.validRows {
				if session, _ := h.sessionStore.Get(sessionID); session == nil {
					delete(h.validRows, sessionID)
				}
			}
			h.validRowsMu.Unlock()
		case <-h.stopCh:
			return
		}
	}
}

// Stop stops the background cleanup goroutine
func (h *ImportHandler) Stop() {
	close(h.stopCh)
}

// ImportRequest selects a validated upload and the conflict mode to
// import it under
type ImportRequest struct {
	ValidationID uuid.UUID `json:"validation_id" binding:"required"`
	ConflictMode string    `json:"conflict_mode" binding:"required,oneof=skip update fail"`
}

// ValidationResponse reports the outcome of validating an uploaded CSV
type ValidationResponse struct {
	ValidationID string               `json:"validation_id"`
	FileName     string               `json:"file_name"`
	TotalRows    int                  `json:"total_rows"`
	ValidRows    int                  `json:"valid_rows"`
	ErrorRows    int                  `json:"error_rows"`
	Errors       []csvimport.RowError `json:"errors,omitempty"`
	Preview      []map[string]any     `json:"preview,omitempty"`
	Warnings     []string             `json:"warnings,omitempty"`
	IsTruncated  bool                 `json:"is_truncated,omitempty"`
	TotalErrors  int                  `json:"total_errors,omitempty"`
}

// ListImportsQuery filters the import history listing
type ListImportsQuery struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending processing completed failed cancelled"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Validate godoc
// @Summary      Validate a product CSV file
// @Description  Parses and validates an uploaded product CSV without importing anything. Returns a validation ID used to run the import.
// @Tags         import
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "CSV file"
// @Success      200  {object}  dto.Response{data=handler.ValidationResponse}
// @Failure      400  {object}  dto.Response
// @Failure      413  {object}  dto.Response
// @Failure      415  {object}  dto.Response
// @Security     BearerAuth
// @Router       /admin/products/import/validate [post]
func (h *ImportHandler) Validate(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "CSV file is required")
		return
	}
	defer file.Close()

	if header.Size > maxImportFileSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeValidation, "File exceeds maximum size of 10MB")
		return
	}

	contentType := header.Header.Get("Content-Type")
	switch contentType {
	case "", "text/csv", "text/plain", "application/octet-stream", "application/vnd.ms-excel":
	default:
		h.Error(c, http.StatusUnsupportedMediaType, dto.ErrCodeValidation, "File must be a CSV file")
		return
	}

	session := csvimport.NewImportSession(userID, csvimport.EntityProducts, header.Filename, header.Size)

	processor := csvimport.NewImportProcessor(
		csvimport.WithMaxFileSize(maxImportFileSize),
		csvimport.WithReferenceLookup(func(refType, value string) (bool, error) {
			if refType == "category" {
				return h.importService.LookupCategory(ctx, value)
			}
			return true, nil
		}),
	)

	result, err := processor.Validate(ctx, session, file, h.importService.GetValidationRules())
	if err != nil {
		switch {
		case errors.Is(err, csvimport.ErrEmptyFile):
			h.BadRequest(c, "CSV file is empty")
		case errors.Is(err, csvimport.ErrNoDataRows):
			h.BadRequest(c, "CSV file contains no data rows")
		case errors.Is(err, csvimport.ErrInvalidEncoding):
			h.BadRequest(c, "CSV file must be UTF-8 encoded")
		case errors.Is(err, csvimport.ErrMissingHeader):
			h.BadRequest(c, "CSV file is missing its header row")
		default:
			h.InternalError(c, "Failed to validate file")
		}
		return
	}

	// Validation consumed the reader. Re-read the file to collect the
	// rows that passed, so the import call does not have to re-upload.
	validRows, warnings := h.collectValidRows(file, result)
	if len(validRows) > 0 {
		h.validRowsMu.Lock()
		h.validRows[session.ID] = validRows
		h.validRowsMu.Unlock()
	}

	if err := h.sessionStore.Save(session); err != nil {
		h.InternalError(c, "Failed to save import session")
		return
	}

	h.Success(c, ValidationResponse{
		ValidationID: result.ValidationID,
		FileName:     header.Filename,
		TotalRows:    result.TotalRows,
		ValidRows:    result.ValidRows,
		ErrorRows:    result.ErrorRows,
		Errors:       result.Errors,
		Preview:      result.Preview,
		Warnings:     warnings,
		IsTruncated:  result.IsTruncated,
		TotalErrors:  result.TotalErrors,
	})
}

// collectValidRows re-parses the uploaded file and returns the rows that
// passed validation, with any non-blocking warnings
func (h *ImportHandler) collectValidRows(file io.ReadSeeker, result *csvimport.ValidationResult) ([]*csvimport.Row, []string) {
	const maxWarnings = 100

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, nil
	}
	parser, err := csvimport.NewCSVParser(file)
	if err != nil {
		return nil, nil
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, nil
	}

	errorRows := make(map[int]bool, len(result.Errors))
	for _, e := range result.Errors {
		errorRows[e.Row] = true
	}

	var validRows []*csvimport.Row
	var warnings []string
	for {
		row, err := parser.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil || row.IsEmpty() || errorRows[row.LineNumber] {
			continue
		}
		validRows = append(validRows, row)
		if len(warnings) < maxWarnings {
			for _, w := range h.importService.ValidateWithWarnings(row) {
				if len(warnings) < maxWarnings {
					warnings = append(warnings, w)
				}
			}
		}
	}
	return validRows, warnings
}

// Import godoc
// @Summary      Import products from a validated CSV
// @Description  Imports the rows that passed validation. Rows whose product name already exists are skipped, updated or reported depending on the conflict mode.
// @Tags         import
// @Accept       json
// @Produce      json
// @Param        request  body  handler.ImportRequest  true  "Import request"
// @Success      200  {object}  dto.Response{data=importapp.ProductImportResult}
// @Failure      400  {object}  dto.Response
// @Failure      404  {object}  dto.Response
// @Failure      422  {object}  dto.Response
// @Security     BearerAuth
// @Router       /admin/products/import [post]
func (h *ImportHandler) Import(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	session, err := h.sessionStore.Get(req.ValidationID)
	if err != nil {
		h.InternalError(c, "Failed to load import session")
		return
	}
	if session == nil || session.UserID != userID {
		h.NotFound(c, "Import session not found or expired")
		return
	}

	h.validRowsMu.RLock()
	validRows := h.validRows[req.ValidationID]
	h.validRowsMu.RUnlock()
	if len(validRows) == 0 {
		h.BadRequest(c, "No validated rows available. Validate the file again.")
		return
	}

	result, err := h.importService.Import(ctx, userID, session, validRows, csvimport.ConflictMode(req.ConflictMode))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.validRowsMu.Lock()
	delete(h.validRows, req.ValidationID)
	h.validRowsMu.Unlock()
	_ = h.sessionStore.Save(session)

	h.Success(c, result)
}

// ListHistory godoc
// @Summary      List import history
// @Description  Returns past product imports, newest first
// @Tags         import
// @Produce      json
// @Param        status     query  string  false  "Filter by status"  Enums(pending, processing, completed, failed, cancelled)
// @Param        page       query  int     false  "Page number"
// @Param        page_size  query  int     false  "Page size"
// @Success      200  {object}  dto.Response{data=[]bulk.ImportHistory}
// @Security     BearerAuth
// @Router       /admin/imports [get]
func (h *ImportHandler) ListHistory(c *gin.Context) {
	var query ListImportsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	if query.Page == 0 {
		query.Page = 1
	}
	if query.PageSize == 0 {
		query.PageSize = 20
	}

	result, err := h.historyService.ListHistory(c.Request.Context(),
		importapp.ListHistoryFilter{Status: query.Status}, query.Page, query.PageSize)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.TotalCount, result.Page, result.PageSize)
}

// GetHistory godoc
// @Summary      Get an import history record
// @Tags         import
// @Produce      json
// @Param        id  path  string  true  "Import history ID"
// @Success      200  {object}  dto.Response{data=bulk.ImportHistory}
// @Failure      404  {object}  dto.Response
// @Security     BearerAuth
// @Router       /admin/imports/{id} [get]
func (h *ImportHandler) GetHistory(c *gin.Context) {
	historyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid import history ID format")
		return
	}

	history, err := h.historyService.GetHistory(c.Request.Context(), historyID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, history)
}

// DownloadErrors godoc
// @Summary      Download import errors as CSV
// @Description  Returns the row errors recorded for an import as a CSV attachment
// @Tags         import
// @Produce      text/csv
// @Param        id  path  string  true  "Import history ID"
// @Success      200  {string}  string  "CSV content"
// @Failure      404  {object}  dto.Response
// @Security     BearerAuth
// @Router       /admin/imports/{id}/errors [get]
func (h *ImportHandler) DownloadErrors(c *gin.Context) {
	historyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid import history ID format")
		return
	}

	content, fileName, err := h.historyService.GetErrorsCSV(c.Request.Context(), historyID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			h.NotFound(c, "Import history not found")
			return
		}
		h.BadRequest(c, "No errors recorded for this import")
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Header("Content-Length", strconv.Itoa(len(content)))
	c.String(http.StatusOK, content)
}

// DeleteHistory godoc
// @Summary      Delete an import history record
// @Tags         import
// @Param        id  path  string  true  "Import history ID"
// @Success      204  "Deleted"
// @Failure      404  {object}  dto.Response
// @Security     BearerAuth
// @Router       /admin/imports/{id} [delete]
func (h *ImportHandler) DeleteHistory(c *gin.Context) {
	historyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid import history ID format")
		return
	}

	if err := h.historyService.DeleteHistory(c.Request.Context(), historyID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

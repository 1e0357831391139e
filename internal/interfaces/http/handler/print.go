package handler

import (
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	printingapp "github.com/nepalmeatshop/backend/internal/application/printing"
	infraprinting "github.com/nepalmeatshop/backend/internal/infrastructure/printing"
	"github.com/nepalmeatshop/backend/internal/interfaces/http/dto"
	"github.com/nepalmeatshop/backend/internal/interfaces/http/middleware"
)

var (
	printYearPattern  = regexp.MustCompile(`^\d{4}$`)
	printMonthPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])$`)
	printFilePattern  = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.pdf$`)
)

// PrintHandler handles document rendering endpoints: template
// management, HTML preview, PDF generation, and the job ledger.
// Invoices and receipts both render through this pipeline.
type PrintHandler struct {
	BaseHandler
	printService *printingapp.PrintService
	pdfStorage   infraprinting.PDFStorage
}

// NewPrintHandler creates a new PrintHandler
func NewPrintHandler(printService *printingapp.PrintService, pdfStorage infraprinting.PDFStorage) *PrintHandler {
	return &PrintHandler{
		printService: printService,
		pdfStorage:   pdfStorage,
	}
}

// CreateTemplate godoc
// @Summary      Create print template
// @Description  Create an HTML template for invoices or receipts. Placeholders use Go template syntax against the document data.
// @Tags         admin-print
// @Accept       json
// @Produce      json
// @Param        request body printingapp.CreateTemplateRequest true "Template details"
// @Success      201 {object} dto.Response{data=printingapp.TemplateResponse}
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/print/templates [post]
func (h *PrintHandler) CreateTemplate(c *gin.Context) {
	var req printingapp.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.printService.CreateTemplate(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// ListTemplates godoc
// @Summary      List print templates
// @Tags         admin-print
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        doc_type query string false "Document type" Enums(invoice, receipt)
// @Param        status query string false "Template status"
// @Param        search query string false "Match template names"
// @Success      200 {object} dto.Response{data=[]printingapp.TemplateResponse}
// @Security     BearerAuth
// @Router       /admin/print/templates [get]
func (h *PrintHandler) ListTemplates(c *gin.Context) {
	req := printingapp.ListTemplatesRequest{
		Page:     1,
		PageSize: 20,
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}

	result, err := h.printService.ListTemplates(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.Size)
}

// GetTemplate godoc
// @Summary      Get print template
// @Tags         admin-print
// @Produce      json
// @Param        id path string true "Template ID"
// @Success      200 {object} dto.Response{data=printingapp.TemplateResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/print/templates/{id} [get]
func (h *PrintHandler) GetTemplate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return
	}

	result, err := h.printService.GetTemplate(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// UpdateTemplate godoc
// @Summary      Update print template
// @Description  Update template fields. Omitted fields are unchanged; content changes apply to future renders only.
// @Tags         admin-print
// @Accept       json
// @Produce      json
// @Param        id path string true "Template ID"
// @Param        request body printingapp.UpdateTemplateRequest true "Template fields"
// @Success      200 {object} dto.Response{data=printingapp.TemplateResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/print/templates/{id} [put]
func (h *PrintHandler) UpdateTemplate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return
	}

	var req printingapp.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.printService.UpdateTemplate(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// DeleteTemplate godoc
// @Summary      Delete print template
// @Description  Remove a template. The default template for a document type cannot be deleted.
// @Tags         admin-print
// @Produce      json
// @Param        id path string true "Template ID"
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/print/templates/{id} [delete]
func (h *PrintHandler) DeleteTemplate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return
	}

	if err := h.printService.DeleteTemplate(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// SetDefaultTemplate godoc
// @Summary      Set default template
// @Description  Make this template the default for its document type, replacing the previous default
// @Tags         admin-print
// @Produce      json
// @Param        id path string true "Template ID"
// @Success      200 {object} dto.Response{data=printingapp.TemplateResponse}
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/print/templates/{id}/set-default [post]
func (h *PrintHandler) SetDefaultTemplate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return
	}

	result, err := h.printService.SetDefaultTemplate(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// ActivateTemplate godoc
// @Summary      Activate print template
// @Tags         admin-print
// @Produce      json
// @Param        id path string true "Template ID"
// @Success      200 {object} dto.Response{data=printingapp.TemplateResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/print/templates/{id}/activate [post]
func (h *PrintHandler) ActivateTemplate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return
	}

	result, err := h.printService.ActivateTemplate(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// DeactivateTemplate godoc
// @Summary      Deactivate print template
// @Description  Retire a template from use. The default template cannot be deactivated.
// @Tags         admin-print
// @Produce      json
// @Param        id path string true "Template ID"
// @Success      200 {object} dto.Response{data=printingapp.TemplateResponse}
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/print/templates/{id}/deactivate [post]
func (h *PrintHandler) DeactivateTemplate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return
	}

	result, err := h.printService.DeactivateTemplate(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// GetTemplatesByDocType godoc
// @Summary      List templates for a document type
// @Tags         admin-print
// @Produce      json
// @Param        doc_type path string true "Document type" Enums(invoice, receipt)
// @Success      200 {object} dto.Response{data=[]printingapp.TemplateResponse}
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/print/templates/by-doc-type/{doc_type} [get]
func (h *PrintHandler) GetTemplatesByDocType(c *gin.Context) {
	docType := c.Param("doc_type")
	if docType == "" {
		h.BadRequest(c, "Document type is required")
		return
	}

	result, err := h.printService.GetTemplatesByDocType(c.Request.Context(), docType)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// InstallDefaultTemplates godoc
// @Summary      Install built-in templates
// @Description  Store the built-in invoice and receipt templates for document types that have none, so they can be customized
// @Tags         admin-print
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/print/templates/install-defaults [post]
func (h *PrintHandler) InstallDefaultTemplates(c *gin.Context) {
	installed, err := h.printService.InstallDefaultTemplates(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"installed": installed})
}

// PreviewDocument godoc
// @Summary      Preview document as HTML
// @Description  Render a document to HTML without creating a job, for template editing
// @Tags         admin-print
// @Accept       json
// @Produce      json
// @Param        request body printingapp.PreviewRequest true "Document reference"
// @Success      200 {object} dto.Response{data=printingapp.PreviewResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/print/preview [post]
func (h *PrintHandler) PreviewDocument(c *gin.Context) {
	var req printingapp.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.printService.PreviewDocument(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// GeneratePDF godoc
// @Summary      Render document to PDF
// @Description  Render a document to PDF, store the file, and record a job. The job response carries the download URL.
// @Tags         admin-print
// @Accept       json
// @Produce      json
// @Param        request body printingapp.GeneratePDFRequest true "Document reference"
// @Success      201 {object} dto.Response{data=printingapp.PrintJobResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/print/generate [post]
func (h *PrintHandler) GeneratePDF(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req printingapp.GeneratePDFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.printService.GeneratePDF(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// GetJob godoc
// @Summary      Get render job
// @Tags         admin-print
// @Produce      json
// @Param        id path string true "Job ID"
// @Success      200 {object} dto.Response{data=printingapp.PrintJobResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/print/jobs/{id} [get]
func (h *PrintHandler) GetJob(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}

	result, err := h.printService.GetJob(c.Request.Context(), jobID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// ListJobs godoc
// @Summary      List render jobs
// @Tags         admin-print
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        doc_type query string false "Document type" Enums(invoice, receipt)
// @Param        status query string false "Job status"
// @Success      200 {object} dto.Response{data=[]printingapp.PrintJobResponse}
// @Security     BearerAuth
// @Router       /admin/print/jobs [get]
func (h *PrintHandler) ListJobs(c *gin.Context) {
	req := printingapp.ListJobsRequest{
		Page:     1,
		PageSize: 20,
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}

	result, err := h.printService.ListJobs(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.Size)
}

// GetJobsByDocument godoc
// @Summary      List jobs for a document
// @Description  Every render recorded against one document, newest first
// @Tags         admin-print
// @Produce      json
// @Param        doc_type path string true "Document type" Enums(invoice, receipt)
// @Param        document_id path string true "Document ID"
// @Success      200 {object} dto.Response{data=[]printingapp.PrintJobResponse}
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/print/jobs/by-document/{doc_type}/{document_id} [get]
func (h *PrintHandler) GetJobsByDocument(c *gin.Context) {
	docType := c.Param("doc_type")
	if docType == "" {
		h.BadRequest(c, "Document type is required")
		return
	}

	documentID, err := uuid.Parse(c.Param("document_id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	result, err := h.printService.GetJobsByDocument(c.Request.Context(), docType, documentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// DownloadPDF godoc
// @Summary      Download rendered PDF
// @Description  Redirect to the stored PDF for a completed job
// @Tags         admin-print
// @Produce      json
// @Param        id path string true "Job ID"
// @Success      307 "Redirect to the PDF"
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/print/jobs/{id}/download [get]
func (h *PrintHandler) DownloadPDF(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}

	job, err := h.printService.GetJob(c.Request.Context(), jobID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	if job.PdfURL == "" {
		h.Error(c, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState, "PDF not available. Job status: "+job.Status)
		return
	}

	// The stored URL must stay on this host
	if !strings.HasPrefix(job.PdfURL, "/") {
		h.InternalError(c, "Invalid PDF URL configuration")
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, job.PdfURL)
}

// GetDocumentTypes godoc
// @Summary      List printable document types
// @Tags         admin-print
// @Produce      json
// @Success      200 {object} dto.Response{data=[]printingapp.DocumentTypeResponse}
// @Security     BearerAuth
// @Router       /admin/print/document-types [get]
func (h *PrintHandler) GetDocumentTypes(c *gin.Context) {
	h.Success(c, h.printService.GetDocumentTypes())
}

// GetPaperSizes godoc
// @Summary      List supported paper sizes
// @Tags         admin-print
// @Produce      json
// @Success      200 {object} dto.Response{data=[]printingapp.PaperSizeResponse}
// @Security     BearerAuth
// @Router       /admin/print/paper-sizes [get]
func (h *PrintHandler) GetPaperSizes(c *gin.Context) {
	h.Success(c, h.printService.GetPaperSizes())
}

// ServePDF godoc
// @Summary      Serve a stored PDF
// @Description  Stream a rendered PDF from storage. Paths are year/month/job-id shaped; anything else is rejected.
// @Tags         admin-print
// @Produce      application/pdf
// @Param        year path string true "Year"
// @Param        month path string true "Month"
// @Param        filename path string true "File name"
// @Success      200 {file} binary "PDF file"
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /prints/{year}/{month}/{filename} [get]
func (h *PrintHandler) ServePDF(c *gin.Context) {
	year := c.Param("year")
	month := c.Param("month")
	filename := c.Param("filename")

	if !printYearPattern.MatchString(year) {
		h.BadRequest(c, "Invalid year format")
		return
	}
	if !printMonthPattern.MatchString(month) {
		h.BadRequest(c, "Invalid month format")
		return
	}
	if !printFilePattern.MatchString(filename) {
		h.BadRequest(c, "Invalid filename format")
		return
	}

	file, err := h.pdfStorage.Get(c.Request.Context(), year+"/"+month+"/"+filename)
	if err != nil {
		h.NotFound(c, "PDF file not found")
		return
	}
	defer file.Close()

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", "inline; filename=\""+filename+"\"")

	if _, err := io.Copy(c.Writer, file); err != nil {
		h.InternalError(c, "Failed to serve PDF file")
		return
	}
}

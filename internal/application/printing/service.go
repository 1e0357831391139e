package printing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nepalmeatshop/backend/internal/domain/printing"
	"github.com/nepalmeatshop/backend/internal/domain/shared"
	infra "github.com/nepalmeatshop/backend/internal/infrastructure/printing"
	"github.com/nepalmeatshop/backend/internal/infrastructure/printing/providers"
)

// PrintService renders invoices and receipts to HTML previews and PDF
// files, and manages the templates and render jobs behind them.
type PrintService struct {
	templateRepo   printing.PrintTemplateRepository
	jobRepo        printing.PrintJobRepository
	templateStore  *infra.TemplateStore
	templateEngine *infra.TemplateEngine
	dataProviders  *providers.DataProviderRegistry
	renderer       printing.Renderer
	pdfStorage     infra.PDFStorage
	logger         *zap.Logger
}

// NewPrintService creates a new PrintService
func NewPrintService(
	templateRepo printing.PrintTemplateRepository,
	jobRepo printing.PrintJobRepository,
	templateStore *infra.TemplateStore,
	templateEngine *infra.TemplateEngine,
	dataProviders *providers.DataProviderRegistry,
	renderer printing.Renderer,
	pdfStorage infra.PDFStorage,
	logger *zap.Logger,
) *PrintService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PrintService{
		templateRepo:   templateRepo,
		jobRepo:        jobRepo,
		templateStore:  templateStore,
		templateEngine: templateEngine,
		dataProviders:  dataProviders,
		renderer:       renderer,
		pdfStorage:     pdfStorage,
		logger:         logger,
	}
}

// =============================================================================
// Print Template Operations
// =============================================================================

// CreateTemplate creates a new print template
func (s *PrintService) CreateTemplate(ctx context.Context, req CreateTemplateRequest) (*TemplateResponse, error) {
	docType := printing.DocType(req.DocumentType)
	if !docType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid document type")
	}

	exists, err := s.templateRepo.ExistsByName(ctx, req.Name, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check template existence: %w", err)
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Template with this name already exists")
	}

	paperSize := printing.PaperSize(req.PaperSize)
	if !paperSize.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid paper size")
	}

	template, err := printing.NewPrintTemplate(docType, req.Name, req.Content, paperSize)
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		if err := template.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}

	if req.Orientation != "" {
		orientation := printing.Orientation(req.Orientation)
		if err := template.SetOrientation(orientation); err != nil {
			return nil, err
		}
	}

	if req.Margins != nil {
		margins := printing.Margins{
			Top:    req.Margins.Top,
			Right:  req.Margins.Right,
			Bottom: req.Margins.Bottom,
			Left:   req.Margins.Left,
		}
		if err := template.SetMargins(margins); err != nil {
			return nil, err
		}
	}

	if err := s.templateRepo.Save(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to save template: %w", err)
	}

	s.logger.Info("print template created",
		zap.String("id", template.ID.String()),
		zap.String("name", template.Name),
		zap.String("docType", string(template.DocumentType)))

	return toTemplateResponse(template), nil
}

// GetTemplate retrieves a template by ID
func (s *PrintService) GetTemplate(ctx context.Context, templateID uuid.UUID) (*TemplateResponse, error) {
	template, err := s.templateRepo.FindByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Template not found")
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	return toTemplateResponse(template), nil
}

// ListTemplates retrieves a paginated list of templates
func (s *PrintService) ListTemplates(ctx context.Context, req ListTemplatesRequest) (*ListTemplatesResponse, error) {
	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
		Filters:  map[string]interface{}{},
	}
	if req.DocType != "" {
		filter.Filters["document_type"] = req.DocType
	}
	if req.Status != "" {
		filter.Filters["status"] = req.Status
	}

	templates, err := s.templateRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	total, err := s.templateRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count templates: %w", err)
	}

	items := make([]TemplateResponse, len(templates))
	for i, t := range templates {
		items[i] = *toTemplateResponse(&t)
	}

	return &ListTemplatesResponse{
		Items: items,
		Total: total,
		Page:  req.Page,
		Size:  req.PageSize,
	}, nil
}

// UpdateTemplate updates an existing template
func (s *PrintService) UpdateTemplate(ctx context.Context, templateID uuid.UUID, req UpdateTemplateRequest) (*TemplateResponse, error) {
	template, err := s.templateRepo.FindByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Template not found")
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	// Check for name conflicts if name is being changed
	if req.Name != nil && *req.Name != template.Name {
		exists, err := s.templateRepo.ExistsByName(ctx, *req.Name, &templateID)
		if err != nil {
			return nil, fmt.Errorf("failed to check template existence: %w", err)
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Template with this name already exists")
		}
	}

	if req.Name != nil || req.Description != nil {
		name := template.Name
		if req.Name != nil {
			name = *req.Name
		}
		description := template.Description
		if req.Description != nil {
			description = *req.Description
		}
		if err := template.Update(name, description); err != nil {
			return nil, err
		}
	}

	if req.Content != nil {
		if err := template.UpdateContent(*req.Content); err != nil {
			return nil, err
		}
	}

	if req.PaperSize != nil {
		paperSize := printing.PaperSize(*req.PaperSize)
		if err := template.SetPaperSize(paperSize); err != nil {
			return nil, err
		}
	}

	if req.Orientation != nil {
		orientation := printing.Orientation(*req.Orientation)
		if err := template.SetOrientation(orientation); err != nil {
			return nil, err
		}
	}

	if req.Margins != nil {
		margins := printing.Margins{
			Top:    req.Margins.Top,
			Right:  req.Margins.Right,
			Bottom: req.Margins.Bottom,
			Left:   req.Margins.Left,
		}
		if err := template.SetMargins(margins); err != nil {
			return nil, err
		}
	}

	if err := s.templateRepo.Save(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to save template: %w", err)
	}

	s.logger.Info("print template updated",
		zap.String("id", template.ID.String()),
		zap.String("name", template.Name))

	return toTemplateResponse(template), nil
}

// DeleteTemplate deletes a template
func (s *PrintService) DeleteTemplate(ctx context.Context, templateID uuid.UUID) error {
	template, err := s.templateRepo.FindByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("NOT_FOUND", "Template not found")
		}
		return fmt.Errorf("failed to get template: %w", err)
	}

	// Cannot delete default template
	if template.IsDefault {
		return shared.NewDomainError("INVALID_STATE", "Cannot delete default template. Set another template as default first.")
	}

	if err := s.templateRepo.Delete(ctx, templateID); err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}

	s.logger.Info("print template deleted",
		zap.String("id", templateID.String()))

	return nil
}

// SetDefaultTemplate sets a template as the default for its document type
func (s *PrintService) SetDefaultTemplate(ctx context.Context, templateID uuid.UUID) (*TemplateResponse, error) {
	template, err := s.templateRepo.FindByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Template not found")
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	// Clear existing default for this doc type
	if err := s.templateRepo.ClearDefaultForDocType(ctx, template.DocumentType); err != nil {
		return nil, fmt.Errorf("failed to clear existing default: %w", err)
	}

	if err := template.SetAsDefault(); err != nil {
		return nil, err
	}

	if err := s.templateRepo.Save(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to save template: %w", err)
	}

	s.logger.Info("print template set as default",
		zap.String("id", template.ID.String()),
		zap.String("docType", string(template.DocumentType)))

	return toTemplateResponse(template), nil
}

// ActivateTemplate activates a template
func (s *PrintService) ActivateTemplate(ctx context.Context, templateID uuid.UUID) (*TemplateResponse, error) {
	template, err := s.templateRepo.FindByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Template not found")
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	if err := template.Activate(); err != nil {
		return nil, err
	}

	if err := s.templateRepo.Save(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to save template: %w", err)
	}

	return toTemplateResponse(template), nil
}

// DeactivateTemplate deactivates a template
func (s *PrintService) DeactivateTemplate(ctx context.Context, templateID uuid.UUID) (*TemplateResponse, error) {
	template, err := s.templateRepo.FindByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Template not found")
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	if err := template.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.templateRepo.Save(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to save template: %w", err)
	}

	return toTemplateResponse(template), nil
}

// GetTemplatesByDocType retrieves all active templates for a document type
func (s *PrintService) GetTemplatesByDocType(ctx context.Context, docType string) ([]TemplateResponse, error) {
	dt := printing.DocType(docType)
	if !dt.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid document type")
	}

	templates, err := s.templateRepo.FindActiveByDocType(ctx, dt)
	if err != nil {
		return nil, fmt.Errorf("failed to find templates: %w", err)
	}

	result := make([]TemplateResponse, len(templates))
	for i, t := range templates {
		result[i] = *toTemplateResponse(&t)
	}

	return result, nil
}

// InstallDefaultTemplates copies the built-in templates that are not yet
// in the database, so admins can edit them. The first installed template
// of a document type becomes the default when none is set. Returns how
// many templates were installed.
func (s *PrintService) InstallDefaultTemplates(ctx context.Context) (int, error) {
	installed := 0
	for _, static := range s.templateStore.GetAll() {
		exists, err := s.templateRepo.ExistsByName(ctx, static.Name, nil)
		if err != nil {
			return installed, fmt.Errorf("failed to check template existence: %w", err)
		}
		if exists {
			continue
		}

		template, err := printing.NewPrintTemplate(static.DocType, static.Name, static.Content, static.PaperSize)
		if err != nil {
			return installed, err
		}
		if static.Description != "" {
			if err := template.Update(static.Name, static.Description); err != nil {
				return installed, err
			}
		}
		if err := template.SetOrientation(static.Orientation); err != nil {
			return installed, err
		}
		if err := template.SetMargins(static.Margins); err != nil {
			return installed, err
		}

		if static.IsDefault {
			current, err := s.templateRepo.FindDefault(ctx, static.DocType)
			if err != nil && !errors.Is(err, shared.ErrNotFound) {
				return installed, fmt.Errorf("failed to look up default template: %w", err)
			}
			if current == nil {
				if err := template.SetAsDefault(); err != nil {
					return installed, err
				}
			}
		}

		if err := s.templateRepo.Save(ctx, template); err != nil {
			return installed, fmt.Errorf("failed to save template %q: %w", static.Name, err)
		}
		installed++
	}

	if installed > 0 {
		s.logger.Info("built-in print templates installed", zap.Int("count", installed))
	}

	return installed, nil
}

// =============================================================================
// Print Preview and PDF Generation
// =============================================================================

// PreviewDocument loads a document and renders it to HTML without
// creating a render job
func (s *PrintService) PreviewDocument(ctx context.Context, req PreviewRequest) (*PreviewResponse, error) {
	docType := printing.DocType(req.DocumentType)
	if !docType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid document type")
	}

	data, err := s.loadDocumentData(ctx, docType, req.DocumentID)
	if err != nil {
		return nil, err
	}

	template, err := s.resolveTemplate(ctx, docType, req.TemplateID)
	if err != nil {
		return nil, err
	}

	result, err := s.templateEngine.Render(ctx, &infra.RenderTemplateRequest{
		Template: template,
		Data:     data,
	})
	if err != nil {
		var renderErr *infra.RenderError
		if errors.As(err, &renderErr) {
			return nil, shared.NewDomainError(renderErr.Code, renderErr.Message)
		}
		return nil, fmt.Errorf("failed to render template: %w", err)
	}

	return &PreviewResponse{
		HTML:           result.HTML,
		TemplateID:     template.ID.String(),
		DocumentNumber: data.Meta.DocumentNumber,
		PaperSize:      string(template.PaperSize),
		Orientation:    string(template.Orientation),
		Margins: MarginsDTO{
			Top:    template.Margins.Top,
			Right:  template.Margins.Right,
			Bottom: template.Margins.Bottom,
			Left:   template.Margins.Left,
		},
	}, nil
}

// GeneratePDF loads a document, renders it to PDF and records the render
// as a print job. The returned job carries the URL the PDF is served from.
func (s *PrintService) GeneratePDF(ctx context.Context, userID uuid.UUID, req GeneratePDFRequest) (*PrintJobResponse, error) {
	docType := printing.DocType(req.DocumentType)
	if !docType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid document type")
	}

	data, err := s.loadDocumentData(ctx, docType, req.DocumentID)
	if err != nil {
		return nil, err
	}

	template, err := s.resolveTemplate(ctx, docType, req.TemplateID)
	if err != nil {
		return nil, err
	}

	job, err := printing.NewPrintJob(
		template.ID,
		docType,
		req.DocumentID,
		data.Meta.DocumentNumber,
		userID,
	)
	if err != nil {
		return nil, err
	}

	if req.Copies != nil && *req.Copies > 1 {
		if err := job.SetCopies(*req.Copies); err != nil {
			return nil, err
		}
	}

	// Save job in pending state
	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save print job: %w", err)
	}

	if err := job.StartRendering(); err != nil {
		return nil, err
	}
	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to update job status: %w", err)
	}

	// Render HTML
	renderResult, err := s.templateEngine.Render(ctx, &infra.RenderTemplateRequest{
		Template: template,
		Data:     data,
	})
	if err != nil {
		s.logger.Error("template rendering failed", zap.Error(err), zap.String("jobId", job.ID.String()))
		s.failJob(ctx, job, "Template rendering failed. Please check template syntax.")
		return nil, fmt.Errorf("failed to render template: %w", err)
	}

	// Render PDF
	pdfData, err := s.renderer.RenderPDF(ctx, renderResult.HTML, printing.RenderOptionsFromTemplate(template))
	if err != nil {
		s.logger.Error("PDF rendering failed", zap.Error(err), zap.String("jobId", job.ID.String()))
		s.failJob(ctx, job, "PDF generation failed. Please try again later.")
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	// Store PDF
	storeResult, err := s.pdfStorage.Store(ctx, &infra.StoreRequest{
		JobID:   job.ID,
		PDFData: pdfData,
	})
	if err != nil {
		s.logger.Error("PDF storage failed", zap.Error(err), zap.String("jobId", job.ID.String()))
		s.failJob(ctx, job, "Failed to save PDF file. Please try again later.")
		return nil, fmt.Errorf("failed to store PDF: %w", err)
	}

	if err := job.Complete(storeResult.URL); err != nil {
		return nil, err
	}
	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to update job status: %w", err)
	}

	s.logger.Info("PDF generated",
		zap.String("jobId", job.ID.String()),
		zap.String("docType", string(docType)),
		zap.String("documentNumber", job.DocumentNumber),
		zap.String("url", storeResult.URL))

	return toJobResponse(job), nil
}

// loadDocumentData loads the document behind a render request through the
// registered data provider for its type
func (s *PrintService) loadDocumentData(ctx context.Context, docType printing.DocType, documentID uuid.UUID) (*infra.DocumentData, error) {
	data, err := s.dataProviders.LoadData(ctx, docType, documentID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Document not found")
		}
		return nil, fmt.Errorf("failed to load document data: %w", err)
	}
	return data, nil
}

// resolveTemplate picks the template for a render: the explicitly
// requested one, the stored default for the document type, or the
// built-in template when the database has no default.
func (s *PrintService) resolveTemplate(ctx context.Context, docType printing.DocType, templateID *uuid.UUID) (*printing.PrintTemplate, error) {
	if templateID != nil {
		template, err := s.templateRepo.FindByID(ctx, *templateID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("NOT_FOUND", "Template not found")
			}
			return nil, fmt.Errorf("failed to get template: %w", err)
		}
		if template.DocumentType != docType {
			return nil, shared.NewDomainError("INVALID_INPUT", "Template does not match the document type")
		}
		if !template.CanBeUsed() {
			return nil, shared.NewDomainError("INVALID_STATE", "Template is not available for use")
		}
		return template, nil
	}

	template, err := s.templateRepo.FindDefault(ctx, docType)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to get default template: %w", err)
	}
	if template != nil {
		if !template.CanBeUsed() {
			return nil, shared.NewDomainError("INVALID_STATE", "Template is not available for use")
		}
		return template, nil
	}

	static := s.templateStore.GetDefault(docType)
	if static == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "No template available for this document type")
	}
	return static.ToPrintTemplate(), nil
}

// failJob records a render failure. The bookkeeping runs detached from
// the request context so a cancelled download still lands the failed state.
func (s *PrintService) failJob(ctx context.Context, job *printing.PrintJob, message string) {
	if err := job.Fail(message); err != nil {
		s.logger.Warn("could not mark print job failed",
			zap.String("jobId", job.ID.String()), zap.Error(err))
		return
	}
	if err := s.jobRepo.Save(context.WithoutCancel(ctx), job); err != nil {
		s.logger.Warn("could not save failed print job",
			zap.String("jobId", job.ID.String()), zap.Error(err))
	}
}

// =============================================================================
// Print Job Operations
// =============================================================================

// GetJob retrieves a render job by ID
func (s *PrintService) GetJob(ctx context.Context, jobID uuid.UUID) (*PrintJobResponse, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Print job not found")
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return toJobResponse(job), nil
}

// ListJobs retrieves a paginated list of render jobs
func (s *PrintService) ListJobs(ctx context.Context, req ListJobsRequest) (*ListJobsResponse, error) {
	filter := printing.PrintJobFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.DocType != "" {
		docType := printing.DocType(req.DocType)
		if !docType.IsValid() {
			return nil, shared.NewDomainError("INVALID_INPUT", "Invalid document type")
		}
		filter.DocumentType = &docType
	}
	if req.Status != "" {
		status := printing.JobStatus(req.Status)
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_INPUT", "Invalid job status")
		}
		filter.Status = &status
	}

	jobs, total, err := s.jobRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	items := make([]PrintJobResponse, len(jobs))
	for i, j := range jobs {
		items[i] = *toJobResponse(&j)
	}

	return &ListJobsResponse{
		Items: items,
		Total: total,
		Page:  req.Page,
		Size:  req.PageSize,
	}, nil
}

// GetJobsByDocument retrieves render jobs for a specific document
func (s *PrintService) GetJobsByDocument(ctx context.Context, docType string, documentID uuid.UUID) ([]PrintJobResponse, error) {
	dt := printing.DocType(docType)
	if !dt.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid document type")
	}

	jobs, err := s.jobRepo.FindByDocument(ctx, dt, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find jobs: %w", err)
	}

	result := make([]PrintJobResponse, len(jobs))
	for i, j := range jobs {
		result[i] = *toJobResponse(&j)
	}

	return result, nil
}

// CleanupOldJobs removes rendered PDFs and terminal job records older
// than retentionDays. Intended for the nightly cleanup job.
func (s *PrintService) CleanupOldJobs(ctx context.Context, retentionDays int) (*CleanupResult, error) {
	if retentionDays <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Retention days must be positive")
	}

	result := &CleanupResult{RetentionDays: retentionDays}

	age := time.Duration(retentionDays) * 24 * time.Hour
	filesRemoved, err := s.pdfStorage.CleanupOlderThan(ctx, age)
	if err != nil {
		// Keep going: stale job records can still be removed even when
		// the file sweep fails
		s.logger.Warn("pdf file cleanup failed", zap.Error(err))
		result.StorageError = err.Error()
	} else {
		result.FilesRemoved = filesRemoved
	}

	recordsRemoved, err := s.jobRepo.DeleteOlderThan(ctx, retentionDays)
	if err != nil {
		return result, fmt.Errorf("failed to delete old print jobs: %w", err)
	}
	result.RecordsRemoved = recordsRemoved

	s.logger.Info("print cleanup completed",
		zap.Int("retention_days", retentionDays),
		zap.Int("files_removed", result.FilesRemoved),
		zap.Int64("records_removed", result.RecordsRemoved),
	)

	return result, nil
}

// GetDocumentTypes returns all available document types
func (s *PrintService) GetDocumentTypes() []DocumentTypeResponse {
	docTypes := printing.AllDocTypes()
	result := make([]DocumentTypeResponse, len(docTypes))
	for i, dt := range docTypes {
		result[i] = DocumentTypeResponse{
			Code:        string(dt),
			DisplayName: dt.DisplayName(),
		}
	}
	return result
}

// GetPaperSizes returns all available paper sizes
func (s *PrintService) GetPaperSizes() []PaperSizeResponse {
	paperSizes := printing.AllPaperSizes()
	result := make([]PaperSizeResponse, len(paperSizes))
	for i, ps := range paperSizes {
		w, h := ps.Dimensions()
		result[i] = PaperSizeResponse{
			Code:   string(ps),
			Width:  w,
			Height: h,
		}
	}
	return result
}

// =============================================================================
// Helper Functions
// =============================================================================

func toTemplateResponse(t *printing.PrintTemplate) *TemplateResponse {
	return &TemplateResponse{
		ID:           t.ID.String(),
		DocumentType: string(t.DocumentType),
		Name:         t.Name,
		Description:  t.Description,
		Content:      t.Content,
		PaperSize:    string(t.PaperSize),
		Orientation:  string(t.Orientation),
		Margins: MarginsDTO{
			Top:    t.Margins.Top,
			Right:  t.Margins.Right,
			Bottom: t.Margins.Bottom,
			Left:   t.Margins.Left,
		},
		IsDefault: t.IsDefault,
		Status:    string(t.Status),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func toJobResponse(j *printing.PrintJob) *PrintJobResponse {
	resp := &PrintJobResponse{
		ID:             j.ID.String(),
		TemplateID:     j.TemplateID.String(),
		DocumentType:   string(j.DocumentType),
		DocumentID:     j.DocumentID.String(),
		DocumentNumber: j.DocumentNumber,
		Status:         string(j.Status),
		Copies:         j.Copies,
		PdfURL:         j.PdfURL,
		ErrorMessage:   j.ErrorMessage,
		RenderedAt:     j.RenderedAt,
		CreatedAt:      j.CreatedAt,
		UpdatedAt:      j.UpdatedAt,
	}
	if j.RequestedBy != nil {
		resp.RequestedBy = j.RequestedBy.String()
	}
	return resp
}

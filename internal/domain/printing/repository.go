package printing

import (
	"context"

	"github.com/google/uuid"

	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

// PrintTemplateRepository defines the interface for print template persistence
type PrintTemplateRepository interface {
	// FindByID finds a template by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PrintTemplate, error)

	// FindAll finds all templates with optional filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]PrintTemplate, error)

	// FindByDocType finds all templates for a document type
	FindByDocType(ctx context.Context, docType DocType) ([]PrintTemplate, error)

	// FindDefault finds the default template for a document type.
	// Returns nil if no default is set.
	FindDefault(ctx context.Context, docType DocType) (*PrintTemplate, error)

	// FindActiveByDocType finds all active templates for a document type
	FindActiveByDocType(ctx context.Context, docType DocType) ([]PrintTemplate, error)

	// Save saves a template (insert or update)
	Save(ctx context.Context, template *PrintTemplate) error

	// Delete deletes a template by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the total count of templates matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByName checks whether a template name is taken, excluding one ID
	ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error)

	// ClearDefaultForDocType clears the default flag for all templates
	// of a document type before a new default is set
	ClearDefaultForDocType(ctx context.Context, docType DocType) error
}

// PrintJobRepository defines the interface for render job persistence
type PrintJobRepository interface {
	// FindByID finds a job by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PrintJob, error)

	// FindAll finds jobs matching the filter, newest first, with total count
	FindAll(ctx context.Context, filter PrintJobFilter) ([]PrintJob, int64, error)

	// FindByDocument finds all render jobs for a specific document
	FindByDocument(ctx context.Context, docType DocType, documentID uuid.UUID) ([]PrintJob, error)

	// FindPending finds pending jobs for processing, oldest first
	FindPending(ctx context.Context, limit int) ([]PrintJob, error)

	// Save saves a job (insert or update)
	Save(ctx context.Context, job *PrintJob) error

	// CountByStatus counts jobs in the given status
	CountByStatus(ctx context.Context, status JobStatus) (int64, error)

	// DeleteOlderThan deletes terminal jobs older than the given number
	// of days and returns how many were removed
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}

// PrintJobFilter narrows render job listings
type PrintJobFilter struct {
	DocumentType *DocType
	DocumentID   *uuid.UUID
	Status       *JobStatus
	TemplateID   *uuid.UUID
	RequestedBy  *uuid.UUID
	Page         int
	PageSize     int
}

// DefaultPrintJobFilter returns a filter with default pagination
func DefaultPrintJobFilter() PrintJobFilter {
	return PrintJobFilter{Page: 1, PageSize: 20}
}

// WithDocumentType filters by document type
func (f PrintJobFilter) WithDocumentType(docType DocType) PrintJobFilter {
	f.DocumentType = &docType
	return f
}

// WithStatus filters by job status
func (f PrintJobFilter) WithStatus(status JobStatus) PrintJobFilter {
	f.Status = &status
	return f
}

// WithTemplate filters by template
func (f PrintJobFilter) WithTemplate(templateID uuid.UUID) PrintJobFilter {
	f.TemplateID = &templateID
	return f
}

// Offset returns the query offset for the current page
func (f PrintJobFilter) Offset() int {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * f.Limit()
}

// Limit returns the capped page size
func (f PrintJobFilter) Limit() int {
	if f.PageSize < 1 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}

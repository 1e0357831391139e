package notification

import (
	"context"

	"github.com/google/uuid"
)

// TemplateRepository defines the interface for template persistence
type TemplateRepository interface {
	// FindByID finds a template by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Template, error)

	// FindByName finds a template by its unique name
	FindByName(ctx context.Context, name string) (*Template, error)

	// FindActiveByEvent returns active templates responding to an event
	FindActiveByEvent(ctx context.Context, eventKey EventKey) ([]*Template, error)

	// FindAll returns all templates
	FindAll(ctx context.Context) ([]*Template, error)

	// Save creates or updates a template
	Save(ctx context.Context, tmpl *Template) error

	// Delete removes a template
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByName checks whether a template with the given name exists
	ExistsByName(ctx context.Context, name string) (bool, error)
}

// LogRepository defines the interface for the notification log.
// Entries are append-only.
type LogRepository interface {
	// Append records a log entry
	Append(ctx context.Context, log *Log) error

	// FindAll returns log entries matching the filter, newest first
	FindAll(ctx context.Context, filter LogFilter) ([]*Log, int64, error)

	// FindByOrder returns the notifications recorded against an order
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*Log, error)

	// CountByStatus returns the number of entries with a delivery outcome
	CountByStatus(ctx context.Context, status LogStatus) (int64, error)
}

// LogFilter describes the query parameters for listing log entries
type LogFilter struct {
	Recipient string
	Channel   *Channel
	Status    *LogStatus
	Page      int
	PageSize  int
}

// DefaultLogFilter returns a filter with sane pagination defaults
func DefaultLogFilter() LogFilter {
	return LogFilter{
		Page:     1,
		PageSize: 20,
	}
}

// WithChannel restricts the filter to one channel
func (f LogFilter) WithChannel(channel Channel) LogFilter {
	f.Channel = &channel
	return f
}

// WithStatus restricts the filter to one delivery outcome
func (f LogFilter) WithStatus(status LogStatus) LogFilter {
	f.Status = &status
	return f
}

// Offset returns the pagination offset
func (f LogFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit()
}

// Limit returns the pagination limit capped at 100
func (f LogFilter) Limit() int {
	if f.PageSize < 1 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}

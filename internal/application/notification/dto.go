package notification

import (
	"time"

	"github.com/google/uuid"

	"github.com/nepalmeatshop/backend/internal/domain/notification"
)

// CreateTemplateRequest represents the admin payload for a new template
type CreateTemplateRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Channel  string `json:"channel" binding:"required,oneof=email sms"`
	EventKey string `json:"event_key" binding:"required,oneof=order_placed order_status_change low_stock"`
	Subject  string `json:"subject" binding:"omitempty,max=200"`
	Body     string `json:"body" binding:"required"`
}

// UpdateTemplateRequest represents the admin payload for editing a template
type UpdateTemplateRequest struct {
	Subject string `json:"subject" binding:"omitempty,max=200"`
	Body    string `json:"body" binding:"required"`
	Active  *bool  `json:"active"`
}

// TemplateResponse represents a template in API responses
type TemplateResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Channel   string    `json:"channel"`
	EventKey  string    `json:"event_key"`
	Subject   string    `json:"subject,omitempty"`
	Body      string    `json:"body"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LogListFilter represents filter options for the notification log
type LogListFilter struct {
	Recipient string `form:"recipient" binding:"omitempty,max=200"`
	Channel   string `form:"channel" binding:"omitempty,oneof=email sms"`
	Status    string `form:"status" binding:"omitempty,oneof=sent failed"`
	Page      int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// LogResponse represents one notification log entry
type LogResponse struct {
	ID         uuid.UUID  `json:"id"`
	TemplateID *uuid.UUID `json:"template_id,omitempty"`
	Recipient  string     `json:"recipient"`
	Channel    string     `json:"channel"`
	Subject    string     `json:"subject,omitempty"`
	Body       string     `json:"body"`
	Status     string     `json:"status"`
	Error      string     `json:"error,omitempty"`
	OrderID    *uuid.UUID `json:"order_id,omitempty"`
	SentAt     time.Time  `json:"sent_at"`
}

// LogListResult carries a page of log entries plus the total count
type LogListResult struct {
	Items []LogResponse `json:"items"`
	Total int64         `json:"total"`
}

// Recipient carries the addresses a notification can be delivered to.
// Channels whose address is empty are skipped.
type Recipient struct {
	Name  string
	Email string
	Phone string
}

// ToTemplateResponse converts a domain Template to TemplateResponse
func ToTemplateResponse(tmpl *notification.Template) TemplateResponse {
	return TemplateResponse{
		ID:        tmpl.ID,
		Name:      tmpl.Name,
		Channel:   tmpl.Channel.String(),
		EventKey:  tmpl.EventKey.String(),
		Subject:   tmpl.Subject,
		Body:      tmpl.Body,
		Active:    tmpl.Active,
		CreatedAt: tmpl.CreatedAt,
		UpdatedAt: tmpl.UpdatedAt,
	}
}

// ToLogResponse converts a domain Log to LogResponse
func ToLogResponse(log *notification.Log) LogResponse {
	return LogResponse{
		ID:         log.ID,
		TemplateID: log.TemplateID,
		Recipient:  log.Recipient,
		Channel:    log.Channel.String(),
		Subject:    log.Subject,
		Body:       log.Body,
		Status:     log.Status.String(),
		Error:      log.Error,
		OrderID:    log.OrderID,
		SentAt:     log.SentAt,
	}
}

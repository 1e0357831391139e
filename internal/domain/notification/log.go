package notification

import (
	"time"

	"github.com/google/uuid"

	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

// LogStatus is the delivery outcome of one notification
type LogStatus string

const (
	LogStatusSent   LogStatus = "sent"
	LogStatusFailed LogStatus = "failed"
)

// IsValid returns true if the status is valid
func (s LogStatus) IsValid() bool {
	switch s {
	case LogStatusSent, LogStatusFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation of LogStatus
func (s LogStatus) String() string {
	return string(s)
}

// Log records one dispatched (or failed) notification with the body as
// it was rendered at send time.
type Log struct {
	shared.BaseEntity
	TemplateID *uuid.UUID `gorm:"type:uuid;index"`
	Recipient  string     `gorm:"type:varchar(200);not null"`
	Channel    Channel    `gorm:"type:varchar(10);not null"`
	Subject    string     `gorm:"type:varchar(200)"`
	Body       string     `gorm:"type:text;not null"`
	Status     LogStatus  `gorm:"type:varchar(10);not null"`
	Error      string     `gorm:"type:varchar(500)"`
	OrderID    *uuid.UUID `gorm:"type:uuid;index"`
	SentAt     time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Log) TableName() string {
	return "notification_logs"
}

// NewLog records a successfully dispatched notification
func NewLog(recipient string, channel Channel, subject, body string) (*Log, error) {
	if recipient == "" {
		return nil, shared.NewDomainError("INVALID_RECIPIENT", "Recipient cannot be empty")
	}
	if !channel.IsValid() {
		return nil, shared.NewDomainError("INVALID_CHANNEL", "Unknown notification channel: "+string(channel))
	}
	if body == "" {
		return nil, shared.NewDomainError("INVALID_BODY", "Rendered body cannot be empty")
	}

	return &Log{
		BaseEntity: shared.NewBaseEntity(),
		Recipient:  recipient,
		Channel:    channel,
		Subject:    subject,
		Body:       body,
		Status:     LogStatusSent,
		SentAt:     time.Now(),
	}, nil
}

// NewFailedLog records a notification that could not be dispatched
func NewFailedLog(recipient string, channel Channel, subject, body, errMsg string) (*Log, error) {
	log, err := NewLog(recipient, channel, subject, body)
	if err != nil {
		return nil, err
	}
	log.Status = LogStatusFailed
	if len(errMsg) > 500 {
		errMsg = errMsg[:500]
	}
	log.Error = errMsg
	return log, nil
}

// WithTemplate links the log entry to the template that produced it
func (l *Log) WithTemplate(templateID uuid.UUID) *Log {
	l.TemplateID = &templateID
	return l
}

// WithOrder links the log entry to the order it concerns
func (l *Log) WithOrder(orderID uuid.UUID) *Log {
	l.OrderID = &orderID
	return l
}

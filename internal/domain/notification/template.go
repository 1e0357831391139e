package notification

import (
	"strings"
	"text/template"
	"time"

	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

// Channel is the delivery medium for a notification
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// IsValid returns true if the channel is valid
func (c Channel) IsValid() bool {
	switch c {
	case ChannelEmail, ChannelSMS:
		return true
	default:
		return false
	}
}

// String returns the string representation of Channel
func (c Channel) String() string {
	return string(c)
}

// EventKey names the domain occurrence a template responds to
type EventKey string

const (
	EventKeyOrderPlaced       EventKey = "order_placed"
	EventKeyOrderStatusChange EventKey = "order_status_change"
	EventKeyLowStock          EventKey = "low_stock"
)

// IsValid returns true if the event key is valid
func (k EventKey) IsValid() bool {
	switch k {
	case EventKeyOrderPlaced, EventKeyOrderStatusChange, EventKeyLowStock:
		return true
	default:
		return false
	}
}

// String returns the string representation of EventKey
func (k EventKey) String() string {
	return string(k)
}

// Template is an admin-editable message template. Subject and body are
// Go text templates rendered over a per-event context map.
type Template struct {
	shared.BaseAggregateRoot
	Name     string   `gorm:"type:varchar(100);not null;uniqueIndex"`
	Channel  Channel  `gorm:"type:varchar(10);not null"`
	EventKey EventKey `gorm:"type:varchar(30);not null;index"`
	Subject  string   `gorm:"type:varchar(200)"`
	Body     string   `gorm:"type:text;not null"`
	Active   bool     `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Template) TableName() string {
	return "notification_templates"
}

// NewTemplate creates a message template. Both subject and body must
// parse as Go text templates.
func NewTemplate(name string, channel Channel, eventKey EventKey, subject, body string) (*Template, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Template name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Template name cannot exceed 100 characters")
	}
	if !channel.IsValid() {
		return nil, shared.NewDomainError("INVALID_CHANNEL", "Unknown notification channel: "+string(channel))
	}
	if !eventKey.IsValid() {
		return nil, shared.NewDomainError("INVALID_EVENT_KEY", "Unknown event key: "+string(eventKey))
	}
	if err := validateTemplateBody(subject, body); err != nil {
		return nil, err
	}

	return &Template{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Channel:           channel,
		EventKey:          eventKey,
		Subject:           subject,
		Body:              body,
		Active:            true,
	}, nil
}

// Update replaces the subject and body, revalidating both
func (t *Template) Update(subject, body string) error {
	if err := validateTemplateBody(subject, body); err != nil {
		return err
	}

	t.Subject = subject
	t.Body = body
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// Activate turns the template on
func (t *Template) Activate() error {
	if t.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "Template is already active")
	}

	t.Active = true
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// Deactivate turns the template off
func (t *Template) Deactivate() error {
	if !t.Active {
		return shared.NewDomainError("ALREADY_INACTIVE", "Template is already inactive")
	}

	t.Active = false
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// Render fills the subject and body with the given context map
func (t *Template) Render(data map[string]any) (subject, body string, err error) {
	subject, err = renderText("subject", t.Subject, data)
	if err != nil {
		return "", "", shared.NewDomainError("RENDER_FAILED", "Subject template failed: "+err.Error())
	}
	body, err = renderText("body", t.Body, data)
	if err != nil {
		return "", "", shared.NewDomainError("RENDER_FAILED", "Body template failed: "+err.Error())
	}
	return subject, body, nil
}

func renderText(name, text string, data map[string]any) (string, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// validateTemplateBody checks that subject and body parse and that the
// body is not empty
func validateTemplateBody(subject, body string) error {
	if strings.TrimSpace(body) == "" {
		return shared.NewDomainError("INVALID_BODY", "Template body cannot be empty")
	}
	if len(subject) > 200 {
		return shared.NewDomainError("INVALID_SUBJECT", "Subject cannot exceed 200 characters")
	}
	if _, err := template.New("subject").Parse(subject); err != nil {
		return shared.NewDomainError("INVALID_SUBJECT", "Subject is not a valid template: "+err.Error())
	}
	if _, err := template.New("body").Parse(body); err != nil {
		return shared.NewDomainError("INVALID_BODY", "Body is not a valid template: "+err.Error())
	}
	return nil
}

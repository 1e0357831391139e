package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nepalmeatshop/backend/internal/domain/notification"
	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

// Config holds dispatch settings. Delivery is simulated: rendered
// messages are written to the log output and the notification log
// table, never actually sent.
type Config struct {
	Enabled     bool
	EmailFrom   string
	SMSSenderID string
}

// NotificationService renders templates and records the outcome. It
// also carries the admin CRUD for templates and the log queries.
type NotificationService struct {
	templateRepo notification.TemplateRepository
	logRepo      notification.LogRepository
	config       Config
	logger       *zap.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(templateRepo notification.TemplateRepository, logRepo notification.LogRepository, config Config, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		templateRepo: templateRepo,
		logRepo:      logRepo,
		config:       config,
		logger:       logger,
	}
}

// Dispatch renders every active template bound to the event and records
// one log entry per delivery. Channels without an address on the
// recipient are skipped. Render failures are recorded as failed
// entries, they do not abort the other templates.
func (s *NotificationService) Dispatch(ctx context.Context, eventKey notification.EventKey, rcpt Recipient, data map[string]any, orderID *uuid.UUID) error {
	if !s.config.Enabled {
		return nil
	}

	templates, err := s.templateRepo.FindActiveByEvent(ctx, eventKey)
	if err != nil {
		return fmt.Errorf("load templates for %s: %w", eventKey, err)
	}
	if len(templates) == 0 {
		s.logger.Debug("No templates bound to event", zap.String("event_key", eventKey.String()))
		return nil
	}

	for _, tmpl := range templates {
		address := s.addressFor(tmpl.Channel, rcpt)
		if address == "" {
			s.logger.Debug("Recipient has no address for channel",
				zap.String("template", tmpl.Name),
				zap.String("channel", tmpl.Channel.String()))
			continue
		}

		subject, body, renderErr := tmpl.Render(data)
		if renderErr != nil {
			s.logger.Error("Template render failed",
				zap.String("template", tmpl.Name), zap.Error(renderErr))
			s.record(ctx, tmpl, address, tmpl.Subject, tmpl.Body, orderID, renderErr)
			continue
		}

		// Simulated delivery: the log line is the send
		s.logger.Info("Notification dispatched",
			zap.String("channel", tmpl.Channel.String()),
			zap.String("recipient", address),
			zap.String("template", tmpl.Name),
			zap.String("subject", subject),
			zap.String("body", body))

		s.record(ctx, tmpl, address, subject, body, orderID, nil)
	}

	return nil
}

func (s *NotificationService) addressFor(channel notification.Channel, rcpt Recipient) string {
	switch channel {
	case notification.ChannelEmail:
		return rcpt.Email
	case notification.ChannelSMS:
		return rcpt.Phone
	default:
		return ""
	}
}

func (s *NotificationService) record(ctx context.Context, tmpl *notification.Template, address, subject, body string, orderID *uuid.UUID, sendErr error) {
	var entry *notification.Log
	var err error
	if sendErr != nil {
		entry, err = notification.NewFailedLog(address, tmpl.Channel, subject, body, sendErr.Error())
	} else {
		entry, err = notification.NewLog(address, tmpl.Channel, subject, body)
	}
	if err != nil {
		s.logger.Warn("Failed to build notification log entry",
			zap.String("template", tmpl.Name), zap.Error(err))
		return
	}
	entry.WithTemplate(tmpl.ID)
	if orderID != nil {
		entry.WithOrder(*orderID)
	}
	if err := s.logRepo.Append(ctx, entry); err != nil {
		s.logger.Warn("Failed to record notification",
			zap.String("template", tmpl.Name), zap.Error(err))
	}
}

// CreateTemplate creates a new message template
func (s *NotificationService) CreateTemplate(ctx context.Context, req CreateTemplateRequest) (*TemplateResponse, error) {
	exists, err := s.templateRepo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, fmt.Errorf("check template name: %w", err)
	}
	if exists {
		return nil, shared.NewDomainError("DUPLICATE_NAME", "A template with this name already exists")
	}

	tmpl, err := notification.NewTemplate(req.Name, notification.Channel(req.Channel), notification.EventKey(req.EventKey), req.Subject, req.Body)
	if err != nil {
		return nil, err
	}

	if err := s.templateRepo.Save(ctx, tmpl); err != nil {
		return nil, fmt.Errorf("save template: %w", err)
	}

	s.logger.Info("Notification template created",
		zap.String("name", tmpl.Name),
		zap.String("event_key", tmpl.EventKey.String()))

	resp := ToTemplateResponse(tmpl)
	return &resp, nil
}

// UpdateTemplate edits a template's subject, body, and active flag
func (s *NotificationService) UpdateTemplate(ctx context.Context, templateID uuid.UUID, req UpdateTemplateRequest) (*TemplateResponse, error) {
	tmpl, err := s.templateRepo.FindByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	if err := tmpl.Update(req.Subject, req.Body); err != nil {
		return nil, err
	}
	if req.Active != nil && *req.Active != tmpl.Active {
		if *req.Active {
			err = tmpl.Activate()
		} else {
			err = tmpl.Deactivate()
		}
		if err != nil {
			return nil, err
		}
	}

	if err := s.templateRepo.Save(ctx, tmpl); err != nil {
		return nil, fmt.Errorf("save template: %w", err)
	}

	resp := ToTemplateResponse(tmpl)
	return &resp, nil
}

// GetTemplate retrieves a template by ID
func (s *NotificationService) GetTemplate(ctx context.Context, templateID uuid.UUID) (*TemplateResponse, error) {
	tmpl, err := s.templateRepo.FindByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	resp := ToTemplateResponse(tmpl)
	return &resp, nil
}

// ListTemplates retrieves all templates
func (s *NotificationService) ListTemplates(ctx context.Context) ([]TemplateResponse, error) {
	templates, err := s.templateRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	responses := make([]TemplateResponse, len(templates))
	for i, tmpl := range templates {
		responses[i] = ToTemplateResponse(tmpl)
	}
	return responses, nil
}

// DeleteTemplate removes a template. Existing log entries keep their
// template reference.
func (s *NotificationService) DeleteTemplate(ctx context.Context, templateID uuid.UUID) error {
	tmpl, err := s.templateRepo.FindByID(ctx, templateID)
	if err != nil {
		return err
	}
	if err := s.templateRepo.Delete(ctx, tmpl.ID); err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	s.logger.Info("Notification template deleted", zap.String("name", tmpl.Name))
	return nil
}

// ListLogs retrieves notification log entries matching the filter
func (s *NotificationService) ListLogs(ctx context.Context, filter LogListFilter) (*LogListResult, error) {
	f := notification.DefaultLogFilter()
	f.Recipient = filter.Recipient
	if filter.Channel != "" {
		f = f.WithChannel(notification.Channel(filter.Channel))
	}
	if filter.Status != "" {
		f = f.WithStatus(notification.LogStatus(filter.Status))
	}
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}

	logs, total, err := s.logRepo.FindAll(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list notification logs: %w", err)
	}

	items := make([]LogResponse, len(logs))
	for i, log := range logs {
		items[i] = ToLogResponse(log)
	}
	return &LogListResult{Items: items, Total: total}, nil
}

// LogsForOrder retrieves the notifications recorded against an order
func (s *NotificationService) LogsForOrder(ctx context.Context, orderID uuid.UUID) ([]LogResponse, error) {
	logs, err := s.logRepo.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order notifications: %w", err)
	}
	responses := make([]LogResponse, len(logs))
	for i, log := range logs {
		responses[i] = ToLogResponse(log)
	}
	return responses, nil
}

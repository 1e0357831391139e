package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nepalmeatshop/backend/internal/domain/billing"
	"github.com/nepalmeatshop/backend/internal/domain/identity"
	"github.com/nepalmeatshop/backend/internal/domain/order"
	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

// InvoiceService handles tax invoice generation and bookkeeping. PDF
// rendering happens in the printing pipeline; this service owns the
// invoice records the renderer reads from.
type InvoiceService struct {
	invoiceRepo    billing.InvoiceRepository
	orderRepo      order.OrderRepository
	userRepo       identity.UserRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoiceRepo billing.InvoiceRepository, orderRepo order.OrderRepository, userRepo identity.UserRepository, logger *zap.Logger) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Generate issues the invoice for an order. Generating twice is safe:
// the existing invoice is returned unchanged.
func (s *InvoiceService) Generate(ctx context.Context, orderID uuid.UUID) (*InvoiceResponse, error) {
	existing, err := s.invoiceRepo.FindByOrder(ctx, orderID)
	if err == nil {
		resp := ToInvoiceResponse(existing)
		return &resp, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("find invoice for order: %w", err)
	}

	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status == order.StatusCancelled {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot invoice a cancelled order")
	}

	inv, err := billing.NewInvoice(o.ID, o.OrderNumber, s.customerName(ctx, o.UserID), o.DeliveryPhone, o.DeliveryAddress, o.Subtotal, o.DeliveryCharge)
	if err != nil {
		return nil, err
	}
	if o.IsPaid() {
		if err := inv.MarkPaid(); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, fmt.Errorf("save invoice: %w", err)
	}

	s.publishEvents(ctx, inv)

	s.logger.Info("Invoice generated",
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("order_number", inv.OrderNumber),
		zap.String("total", inv.Total.StringFixed(2)))

	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// GetByID retrieves an invoice by ID
func (s *InvoiceService) GetByID(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// GetByNumber retrieves an invoice by invoice number
func (s *InvoiceService) GetByNumber(ctx context.Context, invoiceNumber string) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByNumber(ctx, invoiceNumber)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// GetByOrder retrieves the invoice issued for an order
func (s *InvoiceService) GetByOrder(ctx context.Context, orderID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// List retrieves invoices matching the filter
func (s *InvoiceService) List(ctx context.Context, filter InvoiceListFilter) (*InvoiceListResult, error) {
	f := billing.DefaultInvoiceFilter()
	if filter.Keyword != "" {
		f = f.WithKeyword(filter.Keyword)
	}
	if filter.IsPaid != nil {
		f = f.WithPaid(*filter.IsPaid)
	}
	f.From = filter.From
	f.To = filter.To
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}

	invoices, total, err := s.invoiceRepo.FindAll(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}

	items := make([]InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		items[i] = ToInvoiceResponse(inv)
	}
	return &InvoiceListResult{Items: items, Total: total}, nil
}

// Update changes the notes or paid flag on an invoice
func (s *InvoiceService) Update(ctx context.Context, invoiceID uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if req.Notes != nil {
		if err := inv.SetNotes(*req.Notes); err != nil {
			return nil, err
		}
	}
	if req.IsPaid != nil && *req.IsPaid != inv.IsPaid {
		if *req.IsPaid {
			err = inv.MarkPaid()
		} else {
			err = inv.MarkUnpaid()
		}
		if err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, fmt.Errorf("save invoice: %w", err)
	}

	s.publishEvents(ctx, inv)

	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// customerName resolves the display name for the invoice header. The
// account's full name wins; username fills in when it was never set.
func (s *InvoiceService) customerName(ctx context.Context, userID uuid.UUID) string {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn("Failed to load customer for invoice", zap.String("user_id", userID.String()), zap.Error(err))
		return "Customer"
	}
	if user.FullName != "" {
		return user.FullName
	}
	return user.Username
}

func (s *InvoiceService) publishEvents(ctx context.Context, inv *billing.Invoice) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range inv.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("Failed to publish invoice event",
				zap.String("event_type", event.EventType()),
				zap.Error(err))
		}
	}
	inv.ClearDomainEvents()
}

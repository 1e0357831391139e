package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nepalmeatshop/backend/internal/domain/billing"
	"github.com/nepalmeatshop/backend/internal/domain/identity"
	"github.com/nepalmeatshop/backend/internal/domain/order"
	"github.com/nepalmeatshop/backend/internal/domain/shared"
	"github.com/nepalmeatshop/backend/internal/domain/shared/valueobject"
)

// MockInvoiceRepository is a mock implementation of billing.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByNumber(ctx context.Context, invoiceNumber string) (*billing.Invoice, error) {
	args := m.Called(ctx, invoiceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter billing.InvoiceFilter) ([]*billing.Invoice, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*billing.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockOrderRepository is a mock implementation of order.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByStatus(ctx context.Context, status order.Status, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindPlacedBetween(ctx context.Context, from, to time.Time) ([]order.Order, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithEvents(ctx context.Context, o *order.Order, events []shared.DomainEvent) error {
	args := m.Called(ctx, o, events)
	return args.Error(0)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountByStatus(ctx context.Context, status order.Status) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter identity.UserFilter) ([]*identity.User, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventPublisher is a mock implementation of the event publisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// ============================================================================
// Test Helpers
// ============================================================================

type invoiceServiceMocks struct {
	invoiceRepo *MockInvoiceRepository
	orderRepo   *MockOrderRepository
	userRepo    *MockUserRepository
}

func newTestInvoiceService(t *testing.T) (*InvoiceService, *invoiceServiceMocks) {
	t.Helper()
	m := &invoiceServiceMocks{
		invoiceRepo: new(MockInvoiceRepository),
		orderRepo:   new(MockOrderRepository),
		userRepo:    new(MockUserRepository),
	}
	svc := NewInvoiceService(m.invoiceRepo, m.orderRepo, m.userRepo, zap.NewNop())
	return svc, m
}

func placedOrder(t *testing.T, userID uuid.UUID) *order.Order {
	t.Helper()
	o, err := order.NewOrder(userID, "cod", "Ward 5, Patan, Lalitpur", "9851098765")
	require.NoError(t, err)
	_, err = o.AddItem(uuid.New(), "Goat Shoulder", "खसीको साप्टो", decimal.NewFromInt(2), valueobject.NewMoneyNPRFromFloat(450))
	require.NoError(t, err)
	require.NoError(t, o.SetDeliveryCharge(valueobject.NewMoneyNPRFromFloat(50)))
	require.NoError(t, o.Place())
	o.ClearDomainEvents()
	return o
}

func customer(t *testing.T, fullName string) *identity.User {
	t.Helper()
	user, err := identity.NewUser("sita", "sita@example.com", "S3cretpass!")
	require.NoError(t, err)
	if fullName != "" {
		require.NoError(t, user.SetFullName(fullName))
	}
	user.ClearDomainEvents()
	return user
}

func issuedInvoice(t *testing.T, o *order.Order) *billing.Invoice {
	t.Helper()
	inv, err := billing.NewInvoice(o.ID, o.OrderNumber, "Sita Shrestha", o.DeliveryPhone, o.DeliveryAddress, o.Subtotal, o.DeliveryCharge)
	require.NoError(t, err)
	inv.ClearDomainEvents()
	return inv
}

// ============================================================================
// Generate Tests
// ============================================================================

func TestInvoiceService_Generate(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("issues an invoice with 13 percent VAT on the subtotal", func(t *testing.T) {
		svc, m := newTestInvoiceService(t)
		o := placedOrder(t, userID)

		m.invoiceRepo.On("FindByOrder", ctx, o.ID).Return(nil, shared.ErrNotFound)
		m.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)
		m.userRepo.On("FindByID", ctx, userID).Return(customer(t, "Sita Shrestha"), nil)
		m.invoiceRepo.On("Save", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)

		resp, err := svc.Generate(ctx, o.ID)

		require.NoError(t, err)
		assert.Regexp(t, `^INV\d{14}[0-9A-F]{4}$`, resp.InvoiceNumber)
		assert.Equal(t, o.OrderNumber, resp.OrderNumber)
		assert.Equal(t, "Sita Shrestha", resp.CustomerName)
		assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(900)))
		assert.True(t, resp.TaxAmount.Equal(decimal.NewFromInt(117)), "got tax %s", resp.TaxAmount)
		assert.True(t, resp.DeliveryCharge.Equal(decimal.NewFromInt(50)))
		assert.True(t, resp.Total.Equal(decimal.NewFromInt(1067)), "got total %s", resp.Total)
		assert.False(t, resp.IsPaid)
		m.invoiceRepo.AssertExpectations(t)
	})

	t.Run("returns the existing invoice unchanged on repeat generation", func(t *testing.T) {
		svc, m := newTestInvoiceService(t)
		o := placedOrder(t, userID)
		existing := issuedInvoice(t, o)

		m.invoiceRepo.On("FindByOrder", ctx, o.ID).Return(existing, nil)

		resp, err := svc.Generate(ctx, o.ID)

		require.NoError(t, err)
		assert.Equal(t, existing.ID, resp.ID)
		assert.Equal(t, existing.InvoiceNumber, resp.InvoiceNumber)
		m.orderRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		m.invoiceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("starts paid when the order payment is settled", func(t *testing.T) {
		svc, m := newTestInvoiceService(t)
		o := placedOrder(t, userID)
		require.NoError(t, o.MarkPaid("TXN-001"))
		o.ClearDomainEvents()

		m.invoiceRepo.On("FindByOrder", ctx, o.ID).Return(nil, shared.ErrNotFound)
		m.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)
		m.userRepo.On("FindByID", ctx, userID).Return(customer(t, "Sita Shrestha"), nil)
		m.invoiceRepo.On("Save", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)

		resp, err := svc.Generate(ctx, o.ID)

		require.NoError(t, err)
		assert.True(t, resp.IsPaid)
	})

	t.Run("rejects a cancelled order", func(t *testing.T) {
		svc, m := newTestInvoiceService(t)
		o := placedOrder(t, userID)
		require.NoError(t, o.Cancel("customer changed their mind"))
		o.ClearDomainEvents()

		m.invoiceRepo.On("FindByOrder", ctx, o.ID).Return(nil, shared.ErrNotFound)
		m.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)

		_, err := svc.Generate(ctx, o.ID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
		m.invoiceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("falls back to the username when no full name is set", func(t *testing.T) {
		svc, m := newTestInvoiceService(t)
		o := placedOrder(t, userID)

		m.invoiceRepo.On("FindByOrder", ctx, o.ID).Return(nil, shared.ErrNotFound)
		m.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)
		m.userRepo.On("FindByID", ctx, userID).Return(customer(t, ""), nil)
		m.invoiceRepo.On("Save", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)

		resp, err := svc.Generate(ctx, o.ID)

		require.NoError(t, err)
		assert.Equal(t, "sita", resp.CustomerName)
	})

	t.Run("publishes the generated event after saving", func(t *testing.T) {
		svc, m := newTestInvoiceService(t)
		o := placedOrder(t, userID)

		publisher := new(MockEventPublisher)
		svc.SetEventPublisher(publisher)

		var captured []shared.DomainEvent
		publisher.On("Publish", ctx, mock.Anything).Run(func(args mock.Arguments) {
			captured = append(captured, args.Get(1).([]shared.DomainEvent)...)
		}).Return(nil)

		m.invoiceRepo.On("FindByOrder", ctx, o.ID).Return(nil, shared.ErrNotFound)
		m.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)
		m.userRepo.On("FindByID", ctx, userID).Return(customer(t, "Sita Shrestha"), nil)
		m.invoiceRepo.On("Save", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)

		_, err := svc.Generate(ctx, o.ID)

		require.NoError(t, err)
		require.Len(t, captured, 1)
		assert.Equal(t, billing.EventTypeInvoiceGenerated, captured[0].EventType())
	})
}

// ============================================================================
// Lookup Tests
// ============================================================================

func TestInvoiceService_Lookups(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("gets an invoice by order", func(t *testing.T) {
		svc, m := newTestInvoiceService(t)
		o := placedOrder(t, userID)
		inv := issuedInvoice(t, o)

		m.invoiceRepo.On("FindByOrder", ctx, o.ID).Return(inv, nil)

		resp, err := svc.GetByOrder(ctx, o.ID)

		require.NoError(t, err)
		assert.Equal(t, inv.ID, resp.ID)
	})

	t.Run("propagates not found", func(t *testing.T) {
		svc, m := newTestInvoiceService(t)
		id := uuid.New()

		m.invoiceRepo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := svc.GetByID(ctx, id)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

// ============================================================================
// List Tests
// ============================================================================

func TestInvoiceService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("maps the filter onto the repository query", func(t *testing.T) {
		svc, m := newTestInvoiceService(t)
		paid := true

		m.invoiceRepo.On("FindAll", ctx, mock.AnythingOfType("billing.InvoiceFilter")).Return([]*billing.Invoice{}, int64(0), nil)

		_, err := svc.List(ctx, InvoiceListFilter{Keyword: "INV2026", IsPaid: &paid, Page: 2, PageSize: 10})

		require.NoError(t, err)
		filter := m.invoiceRepo.Calls[0].Arguments.Get(1).(billing.InvoiceFilter)
		assert.Equal(t, "INV2026", filter.Keyword)
		require.NotNil(t, filter.IsPaid)
		assert.True(t, *filter.IsPaid)
		assert.Equal(t, 2, filter.Page)
		assert.Equal(t, 10, filter.PageSize)
	})

	t.Run("defaults pagination when the filter is empty", func(t *testing.T) {
		svc, m := newTestInvoiceService(t)

		m.invoiceRepo.On("FindAll", ctx, mock.AnythingOfType("billing.InvoiceFilter")).Return([]*billing.Invoice{}, int64(0), nil)

		_, err := svc.List(ctx, InvoiceListFilter{})

		require.NoError(t, err)
		filter := m.invoiceRepo.Calls[0].Arguments.Get(1).(billing.InvoiceFilter)
		assert.Equal(t, 1, filter.Page)
		assert.Equal(t, 20, filter.PageSize)
		assert.Nil(t, filter.IsPaid)
	})
}

// ============================================================================
// Update Tests
// ============================================================================

func TestInvoiceService_Update(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("updates notes and marks the invoice paid", func(t *testing.T) {
		svc, m := newTestInvoiceService(t)
		inv := issuedInvoice(t, placedOrder(t, userID))
		notes := "Paid in cash on delivery"
		paid := true

		m.invoiceRepo.On("FindByID", ctx, inv.ID).Return(inv, nil)
		m.invoiceRepo.On("Save", ctx, inv).Return(nil)

		resp, err := svc.Update(ctx, inv.ID, UpdateInvoiceRequest{Notes: &notes, IsPaid: &paid})

		require.NoError(t, err)
		assert.Equal(t, notes, resp.Notes)
		assert.True(t, resp.IsPaid)
		m.invoiceRepo.AssertExpectations(t)
	})

	t.Run("treats an unchanged paid flag as a no-op", func(t *testing.T) {
		svc, m := newTestInvoiceService(t)
		inv := issuedInvoice(t, placedOrder(t, userID))
		paid := false

		m.invoiceRepo.On("FindByID", ctx, inv.ID).Return(inv, nil)
		m.invoiceRepo.On("Save", ctx, inv).Return(nil)

		resp, err := svc.Update(ctx, inv.ID, UpdateInvoiceRequest{IsPaid: &paid})

		require.NoError(t, err)
		assert.False(t, resp.IsPaid)
	})

	t.Run("clears the paid flag after a correction", func(t *testing.T) {
		svc, m := newTestInvoiceService(t)
		inv := issuedInvoice(t, placedOrder(t, userID))
		require.NoError(t, inv.MarkPaid())
		inv.ClearDomainEvents()
		paid := false

		m.invoiceRepo.On("FindByID", ctx, inv.ID).Return(inv, nil)
		m.invoiceRepo.On("Save", ctx, inv).Return(nil)

		resp, err := svc.Update(ctx, inv.ID, UpdateInvoiceRequest{IsPaid: &paid})

		require.NoError(t, err)
		assert.False(t, resp.IsPaid)
	})
}

var _ billing.InvoiceRepository = (*MockInvoiceRepository)(nil)
var _ order.OrderRepository = (*MockOrderRepository)(nil)
var _ identity.UserRepository = (*MockUserRepository)(nil)
var _ shared.EventPublisher = (*MockEventPublisher)(nil)

package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nepalmeatshop/backend/internal/domain/identity"
	"github.com/nepalmeatshop/backend/internal/domain/order"
	"github.com/nepalmeatshop/backend/internal/domain/payment"
	"github.com/nepalmeatshop/backend/internal/domain/shared"
	"github.com/nepalmeatshop/backend/internal/infrastructure/telemetry"
)

// callbackDedupTTL is how long a settled callback blocks replays.
const callbackDedupTTL = 24 * time.Hour

// Config holds the settings the payment service needs
type Config struct {
	// CallbackBaseURL is the public base URL the gateways redirect back to
	CallbackBaseURL string
}

// PaymentService handles payment initiation and gateway callbacks.
// Wallet methods settle at initiation; redirect methods settle when the
// gateway calls back. Cash on delivery and bank transfer stay pending
// until delivery or manual settlement.
type PaymentService struct {
	orderRepo       order.OrderRepository
	gatewayRepo     payment.GatewayRepository
	userRepo        identity.UserRepository
	registry        payment.ProcessorRegistry
	idempotency     shared.IdempotencyStore
	config          Config
	businessMetrics *telemetry.BusinessMetrics
	logger          *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	orderRepo order.OrderRepository,
	gatewayRepo payment.GatewayRepository,
	userRepo identity.UserRepository,
	registry payment.ProcessorRegistry,
	idempotency shared.IdempotencyStore,
	config Config,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		orderRepo:   orderRepo,
		gatewayRepo: gatewayRepo,
		userRepo:    userRepo,
		registry:    registry,
		idempotency: idempotency,
		config:      config,
		logger:      logger,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *PaymentService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// ListMethods returns the payment options shown at checkout, in sort
// order. A gateway only appears when it is enabled and a processor is
// registered for its method.
func (s *PaymentService) ListMethods(ctx context.Context) ([]MethodResponse, error) {
	gateways, err := s.gatewayRepo.FindEnabled(ctx)
	if err != nil {
		return nil, err
	}

	methods := make([]MethodResponse, 0, len(gateways))
	for _, g := range gateways {
		if !s.registry.IsSupported(g.Method) {
			continue
		}
		methods = append(methods, *ToMethodResponse(g))
	}
	return methods, nil
}

// Initiate starts a payment for an order, restricted to its owner
// unless the caller is an admin
func (s *PaymentService) Initiate(ctx context.Context, userID, orderID uuid.UUID, isAdmin bool) (*InitiateResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && !o.BelongsTo(userID) {
		return nil, shared.ErrNotFound
	}
	if o.Status == order.StatusCancelled {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot pay for a cancelled order")
	}
	if o.PaymentStatus == order.PaymentStatusPaid {
		return nil, shared.NewDomainError("ALREADY_PAID", "Order is already paid")
	}

	method := payment.Method(o.PaymentMethod)
	gateway, err := s.enabledGateway(ctx, method)
	if err != nil {
		return nil, err
	}
	processor, err := s.registry.Get(method)
	if err != nil {
		return nil, shared.NewDomainError("PAYMENT_METHOD_UNAVAILABLE", "Payment method is not available")
	}

	req := &payment.InitiateRequest{
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		Amount:        o.TotalAmount,
		CustomerName:  s.customerName(ctx, o.UserID),
		CustomerPhone: o.DeliveryPhone,
		SuccessURL:    s.callbackURL(method, o.OrderNumber, "success"),
		FailureURL:    s.callbackURL(method, o.OrderNumber, "failure"),
	}

	result, err := processor.Initiate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("initiate %s payment: %w", method, err)
	}

	// Wallet methods resolve the attempt in one step; settle the order
	// here instead of waiting for a callback that never comes.
	if result.Status.IsFinal() {
		if err := s.settle(ctx, o, result.Status, result.TransactionID); err != nil {
			return nil, err
		}
	}

	s.logger.Info("Payment initiated",
		zap.String("order_number", o.OrderNumber),
		zap.String("method", method.String()),
		zap.String("transaction_id", result.TransactionID),
		zap.String("status", result.Status.String()))

	resp := &InitiateResponse{
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		Method:        method.String(),
		Amount:        o.TotalAmount,
		TransactionID: result.TransactionID,
		Status:        result.Status.String(),
		PaymentStatus: string(o.PaymentStatus),
		RedirectURL:   result.RedirectURL,
		FormAction:    result.FormAction,
		FormFields:    result.FormFields,
		Instructions:  result.Instructions,
		QRImageURL:    result.QRImageURL,
	}
	if resp.QRImageURL == "" {
		resp.QRImageURL = gateway.QRImageURL
	}
	if resp.Instructions == "" {
		resp.Instructions = gateway.Instructions
	}
	if !result.ExpiresAt.IsZero() {
		expires := result.ExpiresAt
		resp.ExpiresAt = &expires
	}
	return resp, nil
}

// HandleCallback verifies a gateway return call and settles the order.
// Replays of an already-processed transaction return the current state
// without touching the order again.
func (s *PaymentService) HandleCallback(ctx context.Context, method payment.Method, orderNumber string, params map[string]string) (*CallbackResponse, error) {
	processor, err := s.registry.Get(method)
	if err != nil {
		return nil, shared.NewDomainError("PAYMENT_METHOD_UNAVAILABLE", "Payment method is not available")
	}

	result, err := processor.VerifyCallback(ctx, params)
	if err != nil {
		s.logger.Warn("Payment callback rejected",
			zap.String("method", method.String()),
			zap.String("order_number", orderNumber),
			zap.Error(err))
		if errors.Is(err, payment.ErrCallbackInvalidSignature) {
			return nil, shared.NewDomainError("INVALID_CALLBACK", "Callback signature verification failed")
		}
		return nil, shared.NewDomainError("INVALID_CALLBACK", "Callback payload could not be verified")
	}

	// eSewa's payload has no order reference; the callback route carries it.
	if result.OrderNumber == "" {
		result.OrderNumber = orderNumber
	}
	if result.OrderNumber == "" {
		return nil, shared.NewDomainError("INVALID_CALLBACK", "Callback does not reference an order")
	}

	o, err := s.orderRepo.FindByOrderNumber(ctx, result.OrderNumber)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", payment.ErrCallbackUnknownOrder, result.OrderNumber)
		}
		return nil, err
	}

	if result.Status.IsSuccess() && !result.Amount.Equal(o.TotalAmount) {
		s.logger.Warn("Payment callback amount mismatch",
			zap.String("order_number", o.OrderNumber),
			zap.String("expected", o.TotalAmount.String()),
			zap.String("reported", result.Amount.String()))
		return nil, shared.NewDomainError("AMOUNT_MISMATCH", "Callback amount does not match the order total")
	}

	dedupKey := fmt.Sprintf("%s:%s", method, result.TransactionID)
	fresh, err := s.idempotency.MarkProcessed(ctx, dedupKey, callbackDedupTTL)
	if err != nil {
		return nil, fmt.Errorf("mark callback processed: %w", err)
	}
	if !fresh {
		s.logger.Info("Payment callback replayed",
			zap.String("order_number", o.OrderNumber),
			zap.String("transaction_id", result.TransactionID))
		return &CallbackResponse{
			OrderID:       o.ID,
			OrderNumber:   o.OrderNumber,
			PaymentStatus: string(o.PaymentStatus),
			TransactionID: o.TransactionID,
			Duplicate:     true,
		}, nil
	}

	if err := s.settle(ctx, o, result.Status, result.TransactionID); err != nil {
		return nil, err
	}

	s.logger.Info("Payment callback settled",
		zap.String("order_number", o.OrderNumber),
		zap.String("method", method.String()),
		zap.String("transaction_id", result.TransactionID),
		zap.String("payment_status", string(o.PaymentStatus)))

	return &CallbackResponse{
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		PaymentStatus: string(o.PaymentStatus),
		TransactionID: o.TransactionID,
	}, nil
}

// settle records a decided payment attempt against the order. An order
// that was already paid in the meantime is left untouched.
func (s *PaymentService) settle(ctx context.Context, o *order.Order, status payment.TxnStatus, transactionID string) error {
	var err error
	if status.IsSuccess() {
		err = o.MarkPaid(transactionID)
	} else {
		err = o.MarkPaymentFailed(transactionID)
	}
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == "ALREADY_PAID" {
			s.logger.Info("Payment already settled",
				zap.String("order_number", o.OrderNumber),
				zap.String("transaction_id", transactionID))
			return nil
		}
		return err
	}
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return err
	}
	if s.businessMetrics != nil {
		outcome := telemetry.PaymentOutcomeFailed
		if status.IsSuccess() {
			outcome = telemetry.PaymentOutcomeSuccess
		}
		s.businessMetrics.RecordPayment(ctx, o.PaymentMethod, outcome)
	}
	return nil
}

// enabledGateway loads the gateway for a method and checks it is usable
func (s *PaymentService) enabledGateway(ctx context.Context, method payment.Method) (*payment.Gateway, error) {
	gateway, err := s.gatewayRepo.FindByMethod(ctx, method)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PAYMENT_METHOD_UNAVAILABLE", "Payment method is not available")
		}
		return nil, err
	}
	if !gateway.Enabled {
		return nil, shared.NewDomainError("PAYMENT_METHOD_UNAVAILABLE", "Payment method is not available")
	}
	return gateway, nil
}

// customerName resolves the payer's name for the gateway hand-off. The
// name is cosmetic on the gateway page, so lookup failures degrade to
// an empty name instead of blocking the payment.
func (s *PaymentService) customerName(ctx context.Context, userID uuid.UUID) string {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn("Failed to resolve customer name for payment",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return ""
	}
	return user.FullName
}

// callbackURL builds the return URL for a method and order. eSewa's
// payload carries no order reference, so its routes embed the order
// number. Khalti reports the outcome and order in query parameters and
// returns to a single route regardless of outcome.
func (s *PaymentService) callbackURL(method payment.Method, orderNumber, outcome string) string {
	base := strings.TrimRight(s.config.CallbackBaseURL, "/")
	switch method {
	case payment.MethodEsewa:
		return fmt.Sprintf("%s/api/v1/payment/callback/esewa/%s/%s", base, outcome, orderNumber)
	case payment.MethodKhalti:
		return fmt.Sprintf("%s/api/v1/payment/callback/khalti", base)
	default:
		return fmt.Sprintf("%s/api/v1/payment/callback/%s/%s", base, method, orderNumber)
	}
}

package payment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Payment Processing Errors
// ---------------------------------------------------------------------------

var (
	// Initiation errors
	ErrPaymentInvalidOrderID     = errors.New("payment: invalid order ID")
	ErrPaymentInvalidOrderNumber = errors.New("payment: invalid order number")
	ErrPaymentInvalidAmount      = errors.New("payment: invalid payment amount")
	ErrPaymentInvalidMethod      = errors.New("payment: invalid payment method")
	ErrPaymentInvalidSuccessURL  = errors.New("payment: invalid success URL")
	ErrPaymentInvalidFailureURL  = errors.New("payment: invalid failure URL")

	// Callback errors
	ErrCallbackInvalidSignature = errors.New("payment: invalid callback signature")
	ErrCallbackInvalidPayload   = errors.New("payment: invalid callback payload")
	ErrCallbackUnknownOrder     = errors.New("payment: callback references unknown order")
	ErrCallbackAlreadyProcessed = errors.New("payment: callback already processed")

	// Gateway errors
	ErrGatewayNotConfigured = errors.New("payment: gateway not configured")
	ErrGatewayNotEnabled    = errors.New("payment: gateway not enabled")
	ErrGatewayUnavailable   = errors.New("payment: gateway temporarily unavailable")
)

// ---------------------------------------------------------------------------
// TxnStatus represents the state of a gateway transaction
type TxnStatus string

const (
	// TxnStatusPending indicates the transaction is awaiting user action or settlement
	TxnStatusPending TxnStatus = "pending"
	// TxnStatusCompleted indicates the gateway confirmed the payment
	TxnStatusCompleted TxnStatus = "completed"
	// TxnStatusFailed indicates the gateway rejected or the user aborted the payment
	TxnStatusFailed TxnStatus = "failed"
)

// IsValid returns true if the transaction status is valid
func (s TxnStatus) IsValid() bool {
	switch s {
	case TxnStatusPending, TxnStatusCompleted, TxnStatusFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation of TxnStatus
func (s TxnStatus) String() string {
	return string(s)
}

// IsFinal returns true if the status is a terminal state
func (s TxnStatus) IsFinal() bool {
	return s == TxnStatusCompleted || s == TxnStatusFailed
}

// IsSuccess returns true if the payment was confirmed
func (s TxnStatus) IsSuccess() bool {
	return s == TxnStatusCompleted
}

// ---------------------------------------------------------------------------
// Initiation Request/Result
// ---------------------------------------------------------------------------

// InitiateRequest carries everything a processor needs to start a payment
type InitiateRequest struct {
	// OrderID is the internal order ID the payment settles
	OrderID uuid.UUID
	// OrderNumber is the human-readable order number (shown on gateway pages)
	OrderNumber string
	// Amount is the payable total in NPR
	Amount decimal.Decimal
	// CustomerName is the payer's name
	CustomerName string
	// CustomerPhone is the payer's mobile number
	CustomerPhone string
	// SuccessURL is where the gateway redirects after a successful payment
	SuccessURL string
	// FailureURL is where the gateway redirects after a failed or aborted payment
	FailureURL string
}

// Validate validates the initiation request
func (r *InitiateRequest) Validate() error {
	if r.OrderID == uuid.Nil {
		return ErrPaymentInvalidOrderID
	}
	if r.OrderNumber == "" {
		return ErrPaymentInvalidOrderNumber
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrPaymentInvalidAmount
	}
	if r.SuccessURL == "" {
		return ErrPaymentInvalidSuccessURL
	}
	if r.FailureURL == "" {
		return ErrPaymentInvalidFailureURL
	}
	return nil
}

// InitiationResult describes how the customer completes the payment.
// RedirectURL, FormAction, or Instructions carries the hand-off
// depending on the method. Simulated gateways settle without a network
// round trip, so a decided redirect can accompany the form payload and
// immediately settled methods return a final Status with no hand-off.
type InitiationResult struct {
	// Method identifies which processor produced this result
	Method Method
	// TransactionID is the processor-assigned transaction reference
	TransactionID string
	// Status is the initial transaction status
	Status TxnStatus
	// RedirectURL sends the customer to a gateway-hosted payment page
	RedirectURL string
	// FormAction is the URL for a self-submitting POST form
	FormAction string
	// FormFields holds the signed fields for the POST form
	FormFields map[string]string
	// Instructions is shown for methods settled outside the gateway (bank transfer, cod)
	Instructions string
	// QRImageURL points at a scannable QR code for wallet transfers
	QRImageURL string
	// ExpiresAt is when the initiated transaction lapses
	ExpiresAt time.Time
	// RawResponse is the original gateway response, kept for auditing
	RawResponse string
}

// ---------------------------------------------------------------------------
// Callback Types
// ---------------------------------------------------------------------------

// CallbackResult is the verified outcome parsed from a gateway return call
type CallbackResult struct {
	// Method identifies which processor verified this callback
	Method Method
	// TransactionID is the transaction reference the callback settles
	TransactionID string
	// OrderNumber is the order number echoed back by the gateway
	OrderNumber string
	// Status is the settled transaction status
	Status TxnStatus
	// Amount is the amount the gateway reports as paid
	Amount decimal.Decimal
	// PaidAt is when the gateway completed the payment
	PaidAt *time.Time
	// RawPayload is the original callback payload, kept for auditing
	RawPayload string
}

// ---------------------------------------------------------------------------
// Processor Port Interface
// ---------------------------------------------------------------------------

// Processor is the port interface for a single payment method.
// Implementations live in the infrastructure layer; eSewa and Khalti
// adapters talk the real wire formats against simulated endpoints, while
// cod and bank transfer resolve to instruction-only results.
type Processor interface {
	// Method returns the payment method this processor handles
	Method() Method

	// Initiate starts a payment and returns how the customer completes it
	Initiate(ctx context.Context, req *InitiateRequest) (*InitiationResult, error)

	// VerifyCallback validates a gateway return call and parses the outcome.
	// Params carry the query string or decoded form the gateway sent back.
	VerifyCallback(ctx context.Context, params map[string]string) (*CallbackResult, error)
}

// ProcessorRegistry provides access to the configured payment processors
type ProcessorRegistry interface {
	// Get returns the processor for the given method
	Get(method Method) (Processor, error)

	// List returns all registered processors
	List() []Processor

	// IsSupported returns true if a processor is registered for the method
	IsSupported(method Method) bool
}

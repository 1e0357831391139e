package payment

import (
	"context"
	"fmt"

	"github.com/nepalmeatshop/backend/internal/domain/payment"
)

// codInstructions is shown to the customer on the order confirmation page.
const codInstructions = "Pay cash when your order is delivered to your address."

// CODProcessor handles cash on delivery. Nothing moves at initiation;
// the rider collects and the back office marks the order paid.
type CODProcessor struct{}

// NewCODProcessor creates a new cash on delivery processor
func NewCODProcessor() *CODProcessor {
	return &CODProcessor{}
}

// Method returns the payment method this processor handles
func (p *CODProcessor) Method() payment.Method {
	return payment.MethodCOD
}

// Initiate confirms the order with payment pending until delivery
func (p *CODProcessor) Initiate(ctx context.Context, req *payment.InitiateRequest) (*payment.InitiationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &payment.InitiationResult{
		Method:       payment.MethodCOD,
		Status:       payment.TxnStatusPending,
		Instructions: codInstructions,
	}, nil
}

// VerifyCallback always fails; cash on delivery has no gateway callback
func (p *CODProcessor) VerifyCallback(ctx context.Context, params map[string]string) (*payment.CallbackResult, error) {
	return nil, fmt.Errorf("%w: cod has no gateway callback", payment.ErrCallbackInvalidPayload)
}

var _ payment.Processor = (*CODProcessor)(nil)

package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nepalmeatshop/backend/internal/domain/payment"
)

const currencyNPR = "NPR"

// phonePayReference is the wallet reference payload kept for auditing
type phonePayReference struct {
	MerchantTransactionID string `json:"merchantTransactionId"`
	Amount                string `json:"amount"`
	Currency              string `json:"currency"`
	OrderID               string `json:"orderId"`
}

// PhonePayProcessor simulates the PhonePay wallet hand-off. The wallet
// reports no return call, so the attempt settles at initiation and the
// result carries a final status.
type PhonePayProcessor struct {
	sim *GatewaySimulator
}

// NewPhonePayProcessor creates a new PhonePay processor
func NewPhonePayProcessor(sim *GatewaySimulator) (*PhonePayProcessor, error) {
	if sim == nil {
		return nil, fmt.Errorf("phonepay: simulator is required")
	}
	return &PhonePayProcessor{sim: sim}, nil
}

// Method returns the payment method this processor handles
func (p *PhonePayProcessor) Method() payment.Method {
	return payment.MethodPhonePay
}

// Initiate charges the wallet and settles the attempt in one step
func (p *PhonePayProcessor) Initiate(ctx context.Context, req *payment.InitiateRequest) (*payment.InitiationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	txn := p.sim.NewTransactionID()
	ref := phonePayReference{
		MerchantTransactionID: txn,
		Amount:                req.Amount.StringFixed(2),
		Currency:              currencyNPR,
		OrderID:               req.OrderNumber,
	}
	payload, err := json.Marshal(ref)
	if err != nil {
		return nil, fmt.Errorf("phonepay: encode reference: %w", err)
	}

	return &payment.InitiationResult{
		Method:        payment.MethodPhonePay,
		TransactionID: txn,
		Status:        p.sim.Decide(payment.MethodPhonePay),
		RawResponse:   string(payload),
	}, nil
}

// VerifyCallback always fails; the wallet settles at initiation
func (p *PhonePayProcessor) VerifyCallback(ctx context.Context, params map[string]string) (*payment.CallbackResult, error) {
	return nil, fmt.Errorf("%w: phonepay has no gateway callback", payment.ErrCallbackInvalidPayload)
}

var _ payment.Processor = (*PhonePayProcessor)(nil)

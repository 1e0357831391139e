package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nepalmeatshop/backend/internal/domain/payment"
)

// simulatedBankName labels mobile banking references while no real bank
// switch is connected.
const simulatedBankName = "Nepal Bank Ltd"

// mobileBankingReference is the bank reference payload kept for auditing
type mobileBankingReference struct {
	BankTransactionID string `json:"bankTransactionId"`
	Amount            string `json:"amount"`
	Currency          string `json:"currency"`
	ReferenceNumber   string `json:"referenceNumber"`
	BankName          string `json:"bankName"`
}

// MobileBankingProcessor simulates an app-to-app mobile banking charge.
// Like the wallet it settles at initiation with a final status.
type MobileBankingProcessor struct {
	sim *GatewaySimulator
}

// NewMobileBankingProcessor creates a new mobile banking processor
func NewMobileBankingProcessor(sim *GatewaySimulator) (*MobileBankingProcessor, error) {
	if sim == nil {
		return nil, fmt.Errorf("mobile_banking: simulator is required")
	}
	return &MobileBankingProcessor{sim: sim}, nil
}

// Method returns the payment method this processor handles
func (p *MobileBankingProcessor) Method() payment.Method {
	return payment.MethodMobileBanking
}

// Initiate charges the linked bank account and settles the attempt in one step
func (p *MobileBankingProcessor) Initiate(ctx context.Context, req *payment.InitiateRequest) (*payment.InitiationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	txn := p.sim.NewTransactionID()
	ref := mobileBankingReference{
		BankTransactionID: txn,
		Amount:            req.Amount.StringFixed(2),
		Currency:          currencyNPR,
		ReferenceNumber:   req.OrderNumber,
		BankName:          simulatedBankName,
	}
	payload, err := json.Marshal(ref)
	if err != nil {
		return nil, fmt.Errorf("mobile_banking: encode reference: %w", err)
	}

	return &payment.InitiationResult{
		Method:        payment.MethodMobileBanking,
		TransactionID: txn,
		Status:        p.sim.Decide(payment.MethodMobileBanking),
		RawResponse:   string(payload),
	}, nil
}

// VerifyCallback always fails; mobile banking settles at initiation
func (p *MobileBankingProcessor) VerifyCallback(ctx context.Context, params map[string]string) (*payment.CallbackResult, error) {
	return nil, fmt.Errorf("%w: mobile banking has no gateway callback", payment.ErrCallbackInvalidPayload)
}

var _ payment.Processor = (*MobileBankingProcessor)(nil)

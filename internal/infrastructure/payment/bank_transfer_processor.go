package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nepalmeatshop/backend/internal/domain/payment"
)

// BankTransferConfig identifies the settlement account shown to customers.
type BankTransferConfig struct {
	// BankName is the receiving bank
	BankName string
	// AccountNumber is the merchant account number
	AccountNumber string
	// AccountName is the registered account holder
	AccountName string
}

// Errors for configuration validation
var (
	ErrBankTransferMissingBankName      = errors.New("bank_transfer: missing bank name")
	ErrBankTransferMissingAccountNumber = errors.New("bank_transfer: missing account number")
	ErrBankTransferMissingAccountName   = errors.New("bank_transfer: missing account name")
)

// Validate validates the configuration
func (c *BankTransferConfig) Validate() error {
	if c.BankName == "" {
		return ErrBankTransferMissingBankName
	}
	if c.AccountNumber == "" {
		return ErrBankTransferMissingAccountNumber
	}
	if c.AccountName == "" {
		return ErrBankTransferMissingAccountName
	}
	return nil
}

// bankTransferReference is the account payload echoed to the storefront
type bankTransferReference struct {
	TransferReference string             `json:"transferReference"`
	Amount            string             `json:"amount"`
	AccountDetails    bankAccountDetails `json:"accountDetails"`
}

type bankAccountDetails struct {
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
}

// BankTransferProcessor handles direct bank transfers. The order stays
// payment-pending until a staff member matches the transfer reference
// against the bank statement.
type BankTransferProcessor struct {
	config *BankTransferConfig
	sim    *GatewaySimulator
}

// NewBankTransferProcessor creates a new bank transfer processor
func NewBankTransferProcessor(config *BankTransferConfig, sim *GatewaySimulator) (*BankTransferProcessor, error) {
	if config == nil {
		return nil, fmt.Errorf("bank_transfer: config is required")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if sim == nil {
		return nil, fmt.Errorf("bank_transfer: simulator is required")
	}
	return &BankTransferProcessor{config: config, sim: sim}, nil
}

// Method returns the payment method this processor handles
func (p *BankTransferProcessor) Method() payment.Method {
	return payment.MethodBankTransfer
}

// Initiate issues a transfer reference and the account details the
// customer wires the total to
func (p *BankTransferProcessor) Initiate(ctx context.Context, req *payment.InitiateRequest) (*payment.InitiationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	txn := p.sim.NewTransactionID()
	ref := bankTransferReference{
		TransferReference: txn,
		Amount:            req.Amount.StringFixed(2),
		AccountDetails: bankAccountDetails{
			BankName:      p.config.BankName,
			AccountNumber: p.config.AccountNumber,
			AccountName:   p.config.AccountName,
		},
	}
	payload, err := json.Marshal(ref)
	if err != nil {
		return nil, fmt.Errorf("bank_transfer: encode reference: %w", err)
	}

	return &payment.InitiationResult{
		Method:        payment.MethodBankTransfer,
		TransactionID: txn,
		Status:        payment.TxnStatusPending,
		Instructions:  fmt.Sprintf("Bank transfer initiated. Please complete the transfer and provide reference: %s", txn),
		RawResponse:   string(payload),
	}, nil
}

// VerifyCallback always fails; transfers are verified manually against
// the bank statement
func (p *BankTransferProcessor) VerifyCallback(ctx context.Context, params map[string]string) (*payment.CallbackResult, error) {
	return nil, fmt.Errorf("%w: bank transfer has no gateway callback", payment.ErrCallbackInvalidPayload)
}

var _ payment.Processor = (*BankTransferProcessor)(nil)

package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nepalmeatshop/backend/internal/domain/payment"
)

// esewaTxnTTL is how long an initiated form stays payable.
const esewaTxnTTL = 30 * time.Minute

// EsewaAdapter implements the eSewa Epay-v2 flow. It signs the POST
// form the storefront renders. The shared simulator stands in for the
// hosted payment page and decides the attempt at initiation, handing
// back a redirect that carries the same base64 data payload eSewa
// appends when it returns the customer.
type EsewaAdapter struct {
	config *EsewaConfig
	sim    *GatewaySimulator
}

// NewEsewaAdapter creates a new eSewa adapter
func NewEsewaAdapter(config *EsewaConfig, sim *GatewaySimulator) (*EsewaAdapter, error) {
	if config == nil {
		return nil, fmt.Errorf("esewa: config is required")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if sim == nil {
		return nil, fmt.Errorf("esewa: simulator is required")
	}
	return &EsewaAdapter{config: config, sim: sim}, nil
}

// Method returns the payment method this adapter handles
func (a *EsewaAdapter) Method() payment.Method {
	return payment.MethodEsewa
}

// Initiate builds the signed Epay-v2 form for the order. The redirect
// on the result is where the hosted page sends the customer once the
// payment attempt resolves.
func (a *EsewaAdapter) Initiate(ctx context.Context, req *payment.InitiateRequest) (*payment.InitiationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	txnUUID := a.sim.NewTransactionID()
	total := req.Amount.StringFixed(2)

	fields := map[string]string{
		"amount":                  total,
		"tax_amount":              "0",
		"total_amount":            total,
		"transaction_uuid":        txnUUID,
		"product_code":            a.config.ProductCode,
		"product_service_charge":  "0",
		"product_delivery_charge": "0",
		"success_url":             req.SuccessURL,
		"failure_url":             req.FailureURL,
		"signed_field_names":      esewaRequestSignedFields,
	}
	fields["signature"] = a.sign(esewaSignatureBase(esewaRequestSignedFields, func(name string) string {
		return fields[name]
	}))

	outcome := a.sim.Decide(payment.MethodEsewa)
	callback := a.buildCallbackData(txnUUID, total, outcome)
	payload, err := json.Marshal(callback)
	if err != nil {
		return nil, fmt.Errorf("esewa: encode callback payload: %w", err)
	}

	result := &payment.InitiationResult{
		Method:        payment.MethodEsewa,
		TransactionID: txnUUID,
		Status:        payment.TxnStatusPending,
		FormAction:    a.config.FormURL,
		FormFields:    fields,
		ExpiresAt:     a.sim.Now().Add(esewaTxnTTL),
		RawResponse:   string(payload),
	}

	encoded := url.QueryEscape(base64.StdEncoding.EncodeToString(payload))
	if outcome.IsSuccess() {
		result.RedirectURL = req.SuccessURL + "?data=" + encoded
	} else {
		result.RedirectURL = req.FailureURL + "?data=" + encoded
	}
	return result, nil
}

// VerifyCallback decodes the data parameter eSewa appends on redirect,
// checks its HMAC signature and parses the settled outcome.
func (a *EsewaAdapter) VerifyCallback(ctx context.Context, params map[string]string) (*payment.CallbackResult, error) {
	raw := params["data"]
	if raw == "" {
		return nil, fmt.Errorf("%w: missing data parameter", payment.ErrCallbackInvalidPayload)
	}
	decoded, err := decodeBase64(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", payment.ErrCallbackInvalidPayload, err)
	}
	var data esewaCallbackData
	if err := json.Unmarshal(decoded, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", payment.ErrCallbackInvalidPayload, err)
	}
	if data.TransactionUUID == "" {
		return nil, fmt.Errorf("%w: missing transaction_uuid", payment.ErrCallbackInvalidPayload)
	}

	signedFields := data.SignedFieldNames
	if signedFields == "" {
		signedFields = esewaCallbackSignedFields
	}
	want := a.sign(esewaSignatureBase(signedFields, data.fieldValue))
	if !hmac.Equal([]byte(want), []byte(data.Signature)) {
		return nil, payment.ErrCallbackInvalidSignature
	}

	// eSewa formats callback amounts with thousands separators.
	amount, err := decimal.NewFromString(strings.ReplaceAll(data.TotalAmount, ",", ""))
	if err != nil {
		return nil, fmt.Errorf("%w: bad total_amount %q", payment.ErrCallbackInvalidPayload, data.TotalAmount)
	}

	result := &payment.CallbackResult{
		Method:        payment.MethodEsewa,
		TransactionID: data.TransactionUUID,
		Status:        mapEsewaStatus(data.Status),
		Amount:        amount,
		RawPayload:    string(decoded),
	}
	if result.Status.IsSuccess() {
		paidAt := a.sim.Now()
		result.PaidAt = &paidAt
	}
	return result, nil
}

// buildCallbackData assembles the signed payload the hosted page would
// attach to its redirect for the decided outcome.
func (a *EsewaAdapter) buildCallbackData(txnUUID, total string, outcome payment.TxnStatus) *esewaCallbackData {
	status := esewaStatusComplete
	if !outcome.IsSuccess() {
		status = esewaStatusCanceled
	}
	data := &esewaCallbackData{
		TransactionCode:  "000" + txnUUID[len(txnUUID)-4:],
		Status:           status,
		TotalAmount:      total,
		TransactionUUID:  txnUUID,
		ProductCode:      a.config.ProductCode,
		SignedFieldNames: esewaCallbackSignedFields,
	}
	data.Signature = a.sign(esewaSignatureBase(data.SignedFieldNames, data.fieldValue))
	return data
}

// sign computes the base64-encoded HMAC-SHA256 signature over the base string
func (a *EsewaAdapter) sign(base string) string {
	mac := hmac.New(sha256.New, []byte(a.config.SecretKey))
	mac.Write([]byte(base))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// mapEsewaStatus converts an eSewa transaction status to a TxnStatus
func mapEsewaStatus(status string) payment.TxnStatus {
	switch status {
	case esewaStatusComplete:
		return payment.TxnStatusCompleted
	case esewaStatusPending, esewaStatusAmbiguous:
		return payment.TxnStatusPending
	default:
		// CANCELED, NOT_FOUND and the refund states cannot settle an order
		return payment.TxnStatusFailed
	}
}

// decodeBase64 accepts both the standard and URL-safe alphabets since
// intermediaries re-encode the data parameter inconsistently.
func decodeBase64(s string) ([]byte, error) {
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.URLEncoding.DecodeString(s)
}

var _ payment.Processor = (*EsewaAdapter)(nil)

package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nepalmeatshop/backend/internal/domain/payment"
)

// khaltiTxnTTL mirrors the expires_in the ePayment initiate API grants.
const khaltiTxnTTL = 30 * time.Minute

// khaltiPidxTagLen is how many HMAC bytes the pidx embeds.
const khaltiPidxTagLen = 5

// KhaltiAdapter implements the Khalti ePayment flow. It assembles the
// initiate body the real API would receive, and the shared simulator
// stands in for the hosted checkout, returning the customer to the
// return URL with the usual pidx and status parameters.
type KhaltiAdapter struct {
	config *KhaltiConfig
	sim    *GatewaySimulator
}

// NewKhaltiAdapter creates a new Khalti adapter
func NewKhaltiAdapter(config *KhaltiConfig, sim *GatewaySimulator) (*KhaltiAdapter, error) {
	if config == nil {
		return nil, fmt.Errorf("khalti: config is required")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if sim == nil {
		return nil, fmt.Errorf("khalti: simulator is required")
	}
	return &KhaltiAdapter{config: config, sim: sim}, nil
}

// Method returns the payment method this adapter handles
func (a *KhaltiAdapter) Method() payment.Method {
	return payment.MethodKhalti
}

// Initiate starts an ePayment transaction. Khalti uses a single return
// URL for every outcome, so the redirect always targets SuccessURL and
// the status parameter tells the callback how the attempt went.
func (a *KhaltiAdapter) Initiate(ctx context.Context, req *payment.InitiateRequest) (*payment.InitiationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	txnID := a.sim.NewTransactionID()
	pidx := a.mintPidx(txnID)
	amountPaisa := paisa(req.Amount)

	body := &khaltiInitiateRequest{
		ReturnURL:         req.SuccessURL,
		WebsiteURL:        a.config.WebsiteURL,
		Amount:            amountPaisa,
		PurchaseOrderID:   req.OrderNumber,
		PurchaseOrderName: khaltiPurchaseOrderName,
	}
	if req.CustomerName != "" || req.CustomerPhone != "" {
		body.CustomerInfo = &khaltiCustomerInfo{Name: req.CustomerName, Phone: req.CustomerPhone}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("khalti: encode initiate request: %w", err)
	}

	outcome := a.sim.Decide(payment.MethodKhalti)

	q := url.Values{}
	q.Set("pidx", pidx)
	q.Set("amount", strconv.FormatInt(amountPaisa, 10))
	q.Set("total_amount", strconv.FormatInt(amountPaisa, 10))
	q.Set("purchase_order_id", req.OrderNumber)
	q.Set("purchase_order_name", khaltiPurchaseOrderName)
	if req.CustomerPhone != "" {
		q.Set("mobile", req.CustomerPhone)
	}
	if outcome.IsSuccess() {
		q.Set("status", khaltiStatusCompleted)
		q.Set("transaction_id", txnID)
		q.Set("tidx", txnID)
	} else {
		q.Set("status", khaltiStatusUserCanceled)
	}

	return &payment.InitiationResult{
		Method:        payment.MethodKhalti,
		TransactionID: txnID,
		Status:        payment.TxnStatusPending,
		RedirectURL:   req.SuccessURL + "?" + q.Encode(),
		ExpiresAt:     a.sim.Now().Add(khaltiTxnTTL),
		RawResponse:   string(payload),
	}, nil
}

// VerifyCallback authenticates the pidx on a return call and parses the
// reported outcome.
func (a *KhaltiAdapter) VerifyCallback(ctx context.Context, params map[string]string) (*payment.CallbackResult, error) {
	pidx := params["pidx"]
	if pidx == "" {
		return nil, fmt.Errorf("%w: missing pidx", payment.ErrCallbackInvalidPayload)
	}
	txnID, err := a.verifyPidx(pidx)
	if err != nil {
		return nil, err
	}

	status := mapKhaltiStatus(params["status"])
	if status.IsSuccess() && params["transaction_id"] == "" {
		return nil, fmt.Errorf("%w: completed callback without transaction_id", payment.ErrCallbackInvalidPayload)
	}

	var amount decimal.Decimal
	if raw := params["amount"]; raw != "" {
		p, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad amount %q", payment.ErrCallbackInvalidPayload, raw)
		}
		amount = decimal.NewFromInt(p).Shift(-2)
	} else if status.IsSuccess() {
		return nil, fmt.Errorf("%w: completed callback without amount", payment.ErrCallbackInvalidPayload)
	}

	result := &payment.CallbackResult{
		Method:        payment.MethodKhalti,
		TransactionID: txnID,
		OrderNumber:   params["purchase_order_id"],
		Status:        status,
		Amount:        amount,
		RawPayload:    encodeParams(params),
	}
	if status.IsSuccess() {
		paidAt := a.sim.Now()
		result.PaidAt = &paidAt
	}
	return result, nil
}

// mintPidx derives the opaque payment index for a transaction. The
// embedded HMAC tag lets VerifyCallback authenticate a return call
// without a lookup API round trip.
func (a *KhaltiAdapter) mintPidx(txnID string) string {
	return txnID + "-" + a.pidxTag(txnID)
}

func (a *KhaltiAdapter) pidxTag(txnID string) string {
	mac := hmac.New(sha256.New, []byte(a.config.SecretKey))
	mac.Write([]byte(txnID))
	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil)[:khaltiPidxTagLen]))
}

func (a *KhaltiAdapter) verifyPidx(pidx string) (string, error) {
	i := strings.LastIndex(pidx, "-")
	if i <= 0 {
		return "", fmt.Errorf("%w: malformed pidx", payment.ErrCallbackInvalidPayload)
	}
	txnID, tag := pidx[:i], pidx[i+1:]
	if !hmac.Equal([]byte(a.pidxTag(txnID)), []byte(tag)) {
		return "", payment.ErrCallbackInvalidSignature
	}
	return txnID, nil
}

// mapKhaltiStatus converts a Khalti pidx status to a TxnStatus
func mapKhaltiStatus(status string) payment.TxnStatus {
	switch status {
	case khaltiStatusCompleted:
		return payment.TxnStatusCompleted
	case khaltiStatusPending, khaltiStatusInitiated:
		return payment.TxnStatusPending
	default:
		// Expired, User canceled and Refunded cannot settle an order
		return payment.TxnStatusFailed
	}
}

// paisa converts an NPR amount to the integer paisa Khalti expects
func paisa(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// encodeParams renders callback params as a canonical query string for auditing
func encodeParams(params map[string]string) string {
	q := make(url.Values, len(params))
	for k, v := range params {
		q.Set(k, v)
	}
	return q.Encode()
}

var _ payment.Processor = (*KhaltiAdapter)(nil)

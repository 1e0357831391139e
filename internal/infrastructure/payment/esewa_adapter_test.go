package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nepalmeatshop/backend/internal/domain/payment"
)

const testEsewaSecret = "8gBm/:&EnhH.1/q"

func newTestEsewaAdapter(t *testing.T, opts ...SimulatorOption) *EsewaAdapter {
	t.Helper()
	adapter, err := NewEsewaAdapter(
		&EsewaConfig{ProductCode: "EPAYTEST", SecretKey: testEsewaSecret},
		NewGatewaySimulator(opts...),
	)
	require.NoError(t, err)
	return adapter
}

func TestEsewaConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *EsewaConfig
		wantErr error
	}{
		{
			name:   "valid config",
			config: &EsewaConfig{ProductCode: "EPAYTEST", SecretKey: testEsewaSecret},
		},
		{
			name:    "missing product code",
			config:  &EsewaConfig{SecretKey: testEsewaSecret},
			wantErr: ErrEsewaMissingProductCode,
		},
		{
			name:    "missing secret key",
			config:  &EsewaConfig{ProductCode: "EPAYTEST"},
			wantErr: ErrEsewaMissingSecretKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, esewaTestFormURL, tt.config.FormURL)
		})
	}
}

func TestEsewaAdapter_Initiate(t *testing.T) {
	t.Run("builds the signed epay form", func(t *testing.T) {
		adapter := newTestEsewaAdapter(t, WithRoll(fixedRoll(0.0)))
		req := testInitiateRequest()

		result, err := adapter.Initiate(context.Background(), req)
		require.NoError(t, err)

		assert.Equal(t, payment.MethodEsewa, result.Method)
		assert.Equal(t, payment.TxnStatusPending, result.Status)
		assert.Equal(t, esewaTestFormURL, result.FormAction)
		assert.NotEmpty(t, result.TransactionID)
		assert.False(t, result.ExpiresAt.IsZero())

		fields := result.FormFields
		assert.Equal(t, "1850.50", fields["amount"])
		assert.Equal(t, "0", fields["tax_amount"])
		assert.Equal(t, "1850.50", fields["total_amount"])
		assert.Equal(t, result.TransactionID, fields["transaction_uuid"])
		assert.Equal(t, "EPAYTEST", fields["product_code"])
		assert.Equal(t, req.SuccessURL, fields["success_url"])
		assert.Equal(t, req.FailureURL, fields["failure_url"])
		assert.Equal(t, esewaRequestSignedFields, fields["signed_field_names"])

		base := fmt.Sprintf("total_amount=%s,transaction_uuid=%s,product_code=%s",
			fields["total_amount"], fields["transaction_uuid"], fields["product_code"])
		mac := hmac.New(sha256.New, []byte(testEsewaSecret))
		mac.Write([]byte(base))
		assert.Equal(t, base64.StdEncoding.EncodeToString(mac.Sum(nil)), fields["signature"])
	})

	t.Run("successful attempt redirects to the success URL", func(t *testing.T) {
		adapter := newTestEsewaAdapter(t, WithRoll(fixedRoll(0.0)))
		req := testInitiateRequest()

		result, err := adapter.Initiate(context.Background(), req)
		require.NoError(t, err)

		assert.Contains(t, result.RedirectURL, req.SuccessURL+"?data=")
		assert.NotEmpty(t, queryParams(t, result.RedirectURL)["data"])
	})

	t.Run("declined attempt redirects to the failure URL", func(t *testing.T) {
		adapter := newTestEsewaAdapter(t, WithRoll(fixedRoll(0.999)))
		req := testInitiateRequest()

		result, err := adapter.Initiate(context.Background(), req)
		require.NoError(t, err)

		assert.Contains(t, result.RedirectURL, req.FailureURL+"?data=")
	})

	t.Run("rejects an invalid request", func(t *testing.T) {
		adapter := newTestEsewaAdapter(t)
		req := testInitiateRequest()
		req.Amount = decimal.Zero

		_, err := adapter.Initiate(context.Background(), req)
		assert.ErrorIs(t, err, payment.ErrPaymentInvalidAmount)
	})
}

func TestEsewaAdapter_VerifyCallback(t *testing.T) {
	t.Run("verifies a settled redirect end to end", func(t *testing.T) {
		adapter := newTestEsewaAdapter(t, WithRoll(fixedRoll(0.0)))
		req := testInitiateRequest()

		initiated, err := adapter.Initiate(context.Background(), req)
		require.NoError(t, err)

		result, err := adapter.VerifyCallback(context.Background(), queryParams(t, initiated.RedirectURL))
		require.NoError(t, err)

		assert.Equal(t, payment.MethodEsewa, result.Method)
		assert.Equal(t, payment.TxnStatusCompleted, result.Status)
		assert.Equal(t, initiated.TransactionID, result.TransactionID)
		assert.True(t, result.Amount.Equal(decimal.NewFromFloat(1850.50)), "amount %s", result.Amount)
		require.NotNil(t, result.PaidAt)
	})

	t.Run("maps a declined redirect to failed", func(t *testing.T) {
		adapter := newTestEsewaAdapter(t, WithRoll(fixedRoll(0.999)))

		initiated, err := adapter.Initiate(context.Background(), testInitiateRequest())
		require.NoError(t, err)

		result, err := adapter.VerifyCallback(context.Background(), queryParams(t, initiated.RedirectURL))
		require.NoError(t, err)

		assert.Equal(t, payment.TxnStatusFailed, result.Status)
		assert.Nil(t, result.PaidAt)
	})

	t.Run("rejects a missing data parameter", func(t *testing.T) {
		adapter := newTestEsewaAdapter(t)

		_, err := adapter.VerifyCallback(context.Background(), map[string]string{})
		assert.ErrorIs(t, err, payment.ErrCallbackInvalidPayload)
	})

	t.Run("rejects garbage base64", func(t *testing.T) {
		adapter := newTestEsewaAdapter(t)

		_, err := adapter.VerifyCallback(context.Background(), map[string]string{"data": "%%not base64%%"})
		assert.ErrorIs(t, err, payment.ErrCallbackInvalidPayload)
	})

	t.Run("rejects a payload that is not JSON", func(t *testing.T) {
		adapter := newTestEsewaAdapter(t)
		data := base64.StdEncoding.EncodeToString([]byte("not json"))

		_, err := adapter.VerifyCallback(context.Background(), map[string]string{"data": data})
		assert.ErrorIs(t, err, payment.ErrCallbackInvalidPayload)
	})

	t.Run("rejects a tampered amount", func(t *testing.T) {
		adapter := newTestEsewaAdapter(t, WithRoll(fixedRoll(0.0)))

		initiated, err := adapter.Initiate(context.Background(), testInitiateRequest())
		require.NoError(t, err)

		decoded, err := base64.StdEncoding.DecodeString(queryParams(t, initiated.RedirectURL)["data"])
		require.NoError(t, err)

		var data esewaCallbackData
		require.NoError(t, json.Unmarshal(decoded, &data))
		data.TotalAmount = "9999999.00"
		tampered, err := json.Marshal(&data)
		require.NoError(t, err)

		_, err = adapter.VerifyCallback(context.Background(), map[string]string{
			"data": base64.StdEncoding.EncodeToString(tampered),
		})
		assert.ErrorIs(t, err, payment.ErrCallbackInvalidSignature)
	})

	t.Run("accepts URL-safe base64", func(t *testing.T) {
		adapter := newTestEsewaAdapter(t, WithRoll(fixedRoll(0.0)))

		initiated, err := adapter.Initiate(context.Background(), testInitiateRequest())
		require.NoError(t, err)

		decoded, err := base64.StdEncoding.DecodeString(queryParams(t, initiated.RedirectURL)["data"])
		require.NoError(t, err)

		result, err := adapter.VerifyCallback(context.Background(), map[string]string{
			"data": base64.URLEncoding.EncodeToString(decoded),
		})
		require.NoError(t, err)
		assert.Equal(t, payment.TxnStatusCompleted, result.Status)
	})

	t.Run("parses amounts with thousands separators", func(t *testing.T) {
		adapter := newTestEsewaAdapter(t)
		data := &esewaCallbackData{
			TransactionCode:  "000AWEO",
			Status:           esewaStatusComplete,
			TotalAmount:      "1,850.50",
			TransactionUUID:  "TXN20250815103045ABCDEF",
			ProductCode:      "EPAYTEST",
			SignedFieldNames: esewaCallbackSignedFields,
		}
		data.Signature = adapter.sign(esewaSignatureBase(data.SignedFieldNames, data.fieldValue))
		payload, err := json.Marshal(data)
		require.NoError(t, err)

		result, err := adapter.VerifyCallback(context.Background(), map[string]string{
			"data": base64.StdEncoding.EncodeToString(payload),
		})
		require.NoError(t, err)
		assert.True(t, result.Amount.Equal(decimal.NewFromFloat(1850.50)), "amount %s", result.Amount)
	})
}

func TestMapEsewaStatus(t *testing.T) {
	tests := []struct {
		status string
		want   payment.TxnStatus
	}{
		{esewaStatusComplete, payment.TxnStatusCompleted},
		{esewaStatusPending, payment.TxnStatusPending},
		{esewaStatusAmbiguous, payment.TxnStatusPending},
		{esewaStatusCanceled, payment.TxnStatusFailed},
		{esewaStatusNotFound, payment.TxnStatusFailed},
		{esewaStatusFullRefund, payment.TxnStatusFailed},
		{esewaStatusPartialRefund, payment.TxnStatusFailed},
		{"SOMETHING_NEW", payment.TxnStatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.want, mapEsewaStatus(tt.status))
		})
	}
}

package payment

import "strings"

// eSewa Epay-v2 endpoints
const (
	esewaTestFormURL = "https://rc-epay.esewa.com.np/api/epay/main/v2/form" // UAT form endpoint
)

// eSewa signed field sets. The signature covers exactly these fields,
// in this order, joined as name=value pairs with commas.
const (
	esewaRequestSignedFields  = "total_amount,transaction_uuid,product_code"
	esewaCallbackSignedFields = "transaction_code,status,total_amount,transaction_uuid,product_code,signed_field_names"
)

// eSewa transaction status
const (
	esewaStatusComplete      = "COMPLETE"       // Payment settled
	esewaStatusPending       = "PENDING"        // Initiated, not yet settled
	esewaStatusAmbiguous     = "AMBIGUOUS"      // Gateway unsure, requires status check
	esewaStatusCanceled      = "CANCELED"       // Canceled or reversed
	esewaStatusNotFound      = "NOT_FOUND"      // Unknown transaction UUID
	esewaStatusFullRefund    = "FULL_REFUND"    // Fully refunded to customer
	esewaStatusPartialRefund = "PARTIAL_REFUND" // Partially refunded to customer
)

// esewaCallbackData is the payload eSewa base64-encodes into the data
// query parameter when redirecting the customer back to the merchant.
type esewaCallbackData struct {
	TransactionCode  string `json:"transaction_code"`
	Status           string `json:"status"`
	TotalAmount      string `json:"total_amount"`
	TransactionUUID  string `json:"transaction_uuid"`
	ProductCode      string `json:"product_code"`
	SignedFieldNames string `json:"signed_field_names"`
	Signature        string `json:"signature"`
}

// IsComplete returns true if the callback reports a settled payment.
func (d *esewaCallbackData) IsComplete() bool {
	return d.Status == esewaStatusComplete
}

// fieldValue resolves a signed field by its wire name.
func (d *esewaCallbackData) fieldValue(name string) string {
	switch name {
	case "transaction_code":
		return d.TransactionCode
	case "status":
		return d.Status
	case "total_amount":
		return d.TotalAmount
	case "transaction_uuid":
		return d.TransactionUUID
	case "product_code":
		return d.ProductCode
	case "signed_field_names":
		return d.SignedFieldNames
	}
	return ""
}

// esewaSignatureBase joins the named fields into the string eSewa signs.
// The field list keeps the wire order, e.g.
// "total_amount=110.00,transaction_uuid=TXN...,product_code=EPAYTEST".
func esewaSignatureBase(signedFieldNames string, lookup func(string) string) string {
	fields := strings.Split(signedFieldNames, ",")
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		field = strings.TrimSpace(field)
		parts = append(parts, field+"="+lookup(field))
	}
	return strings.Join(parts, ",")
}

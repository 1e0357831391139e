package payment

// Khalti pidx status values echoed on the return URL
const (
	khaltiStatusCompleted    = "Completed"
	khaltiStatusPending      = "Pending"
	khaltiStatusInitiated    = "Initiated"
	khaltiStatusExpired      = "Expired"
	khaltiStatusUserCanceled = "User canceled"
	khaltiStatusRefunded     = "Refunded"
)

// khaltiPurchaseOrderName labels every initiate request on Khalti statements
const khaltiPurchaseOrderName = "Nepal Meat Shop Order"

// khaltiCustomerInfo identifies the payer on an initiate request
type khaltiCustomerInfo struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// khaltiInitiateRequest is the JSON body posted to the ePayment initiate API.
// Amount is in paisa.
type khaltiInitiateRequest struct {
	ReturnURL         string              `json:"return_url"`
	WebsiteURL        string              `json:"website_url"`
	Amount            int64               `json:"amount"`
	PurchaseOrderID   string              `json:"purchase_order_id"`
	PurchaseOrderName string              `json:"purchase_order_name"`
	CustomerInfo      *khaltiCustomerInfo `json:"customer_info,omitempty"`
}

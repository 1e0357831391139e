package payment

// Method represents a supported payment method
type Method string

const (
	MethodCOD           Method = "cod"
	MethodEsewa         Method = "esewa"
	MethodKhalti        Method = "khalti"
	MethodPhonePay      Method = "phonepay"
	MethodMobileBanking Method = "mobile_banking"
	MethodBankTransfer  Method = "bank_transfer"
)

// ValidMethods lists every accepted payment method
var ValidMethods = []Method{
	MethodCOD, MethodEsewa, MethodKhalti,
	MethodPhonePay, MethodMobileBanking, MethodBankTransfer,
}

// IsValid returns true if the method is known
func (m Method) IsValid() bool {
	switch m {
	case MethodCOD, MethodEsewa, MethodKhalti, MethodPhonePay, MethodMobileBanking, MethodBankTransfer:
		return true
	default:
		return false
	}
}

// String returns the string representation of Method
func (m Method) String() string {
	return string(m)
}

// SettlesOnDelivery returns true for methods that stay payment-pending
// until the rider collects (or a human verifies a transfer).
func (m Method) SettlesOnDelivery() bool {
	return m == MethodCOD || m == MethodBankTransfer
}

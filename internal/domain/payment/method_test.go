package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMethod_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		method   Method
		expected bool
	}{
		{"cod", MethodCOD, true},
		{"esewa", MethodEsewa, true},
		{"khalti", MethodKhalti, true},
		{"phonepay", MethodPhonePay, true},
		{"mobile_banking", MethodMobileBanking, true},
		{"bank_transfer", MethodBankTransfer, true},
		{"empty", "", false},
		{"invalid", "paypal", false},
		{"wrong_case", "eSewa", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.method.IsValid())
		})
	}
}

func TestMethod_SettlesOnDelivery(t *testing.T) {
	tests := []struct {
		name     string
		method   Method
		expected bool
	}{
		{"cod", MethodCOD, true},
		{"bank_transfer", MethodBankTransfer, true},
		{"esewa", MethodEsewa, false},
		{"khalti", MethodKhalti, false},
		{"phonepay", MethodPhonePay, false},
		{"mobile_banking", MethodMobileBanking, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.method.SettlesOnDelivery())
		})
	}
}

func TestValidMethods_CoversAll(t *testing.T) {
	assert.Len(t, ValidMethods, 6)
	for _, m := range ValidMethods {
		assert.True(t, m.IsValid(), "method %s should be valid", m)
	}
}

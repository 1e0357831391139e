package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nepalmeatshop/backend/internal/domain/payment"
)

func newTestRegistry(t *testing.T) payment.ProcessorRegistry {
	t.Helper()
	sim := NewGatewaySimulator()

	esewa, err := NewEsewaAdapter(&EsewaConfig{ProductCode: "EPAYTEST", SecretKey: testEsewaSecret}, sim)
	require.NoError(t, err)
	khalti, err := NewKhaltiAdapter(&KhaltiConfig{SecretKey: testKhaltiSecret, WebsiteURL: "https://shop.example.com.np"}, sim)
	require.NoError(t, err)

	return NewProcessorRegistry(NewCODProcessor(), esewa, khalti)
}

func TestProcessorRegistry_Get(t *testing.T) {
	registry := newTestRegistry(t)

	p, err := registry.Get(payment.MethodEsewa)
	require.NoError(t, err)
	assert.Equal(t, payment.MethodEsewa, p.Method())

	_, err = registry.Get(payment.MethodPhonePay)
	assert.ErrorIs(t, err, payment.ErrGatewayNotConfigured)
}

func TestProcessorRegistry_List(t *testing.T) {
	registry := newTestRegistry(t)

	methods := make([]payment.Method, 0)
	for _, p := range registry.List() {
		methods = append(methods, p.Method())
	}
	assert.Equal(t, []payment.Method{payment.MethodCOD, payment.MethodEsewa, payment.MethodKhalti}, methods)
}

func TestProcessorRegistry_IsSupported(t *testing.T) {
	registry := newTestRegistry(t)

	assert.True(t, registry.IsSupported(payment.MethodKhalti))
	assert.False(t, registry.IsSupported(payment.MethodBankTransfer))
}

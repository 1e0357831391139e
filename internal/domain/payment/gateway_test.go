package payment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

func newTestGateway(t *testing.T) *Gateway {
	t.Helper()
	gw, err := NewGateway(MethodEsewa, "eSewa", "इसेवा")
	require.NoError(t, err)
	gw.ClearDomainEvents()
	return gw
}

func TestNewGateway(t *testing.T) {
	t.Run("valid gateway", func(t *testing.T) {
		gw, err := NewGateway(MethodEsewa, "eSewa", "इसेवा")
		require.NoError(t, err)

		assert.Equal(t, MethodEsewa, gw.Method)
		assert.Equal(t, "eSewa", gw.Name)
		assert.Equal(t, "इसेवा", gw.NameNepali)
		assert.True(t, gw.Enabled)
		assert.Equal(t, "{}", gw.Config)

		events := gw.GetDomainEvents()
		require.Len(t, events, 1)
		created, ok := events[0].(*GatewayCreatedEvent)
		require.True(t, ok)
		assert.Equal(t, MethodEsewa, created.Method)
	})

	t.Run("trims whitespace", func(t *testing.T) {
		gw, err := NewGateway(MethodKhalti, "  Khalti  ", "  खल्ती  ")
		require.NoError(t, err)
		assert.Equal(t, "Khalti", gw.Name)
		assert.Equal(t, "खल्ती", gw.NameNepali)
	})

	t.Run("invalid method", func(t *testing.T) {
		_, err := NewGateway("paypal", "PayPal", "")
		require.Error(t, err)
		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PAYMENT_METHOD", domainErr.Code)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := NewGateway(MethodCOD, "   ", "")
		require.Error(t, err)
		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_NAME", domainErr.Code)
	})

	t.Run("name too long", func(t *testing.T) {
		_, err := NewGateway(MethodCOD, strings.Repeat("a", 101), "")
		require.Error(t, err)
		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_NAME", domainErr.Code)
	})
}

func TestGateway_Update(t *testing.T) {
	t.Run("valid update", func(t *testing.T) {
		gw := newTestGateway(t)

		err := gw.Update("eSewa Wallet", "इसेवा वालेट", "Scan the QR and enter the order number as remarks.")
		require.NoError(t, err)

		assert.Equal(t, "eSewa Wallet", gw.Name)
		assert.Equal(t, "इसेवा वालेट", gw.NameNepali)
		assert.Contains(t, gw.Instructions, "Scan the QR")

		events := gw.GetDomainEvents()
		require.Len(t, events, 1)
		_, ok := events[0].(*GatewayUpdatedEvent)
		assert.True(t, ok)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		gw := newTestGateway(t)
		err := gw.Update("", "", "")
		require.Error(t, err)
		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_NAME", domainErr.Code)
	})
}

func TestGateway_Config(t *testing.T) {
	t.Run("set and read config", func(t *testing.T) {
		gw := newTestGateway(t)

		err := gw.SetConfig(`{"merchant_code":"EPAYTEST","secret_key":"8gBm/:&EnhH.1/q"}`)
		require.NoError(t, err)

		assert.Equal(t, "EPAYTEST", gw.ConfigValue("merchant_code"))
		assert.Equal(t, "8gBm/:&EnhH.1/q", gw.ConfigValue("secret_key"))
		assert.Equal(t, "", gw.ConfigValue("missing"))
	})

	t.Run("empty config resets to object", func(t *testing.T) {
		gw := newTestGateway(t)
		require.NoError(t, gw.SetConfig(""))
		assert.Equal(t, "{}", gw.Config)
	})

	t.Run("invalid json rejected", func(t *testing.T) {
		gw := newTestGateway(t)
		err := gw.SetConfig(`{"merchant_code":`)
		require.Error(t, err)
		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CONFIG", domainErr.Code)
	})

	t.Run("non-string values read as empty", func(t *testing.T) {
		gw := newTestGateway(t)
		require.NoError(t, gw.SetConfig(`{"timeout":30}`))
		assert.Equal(t, "", gw.ConfigValue("timeout"))
	})
}

func TestGateway_EnableDisable(t *testing.T) {
	t.Run("disable then enable", func(t *testing.T) {
		gw := newTestGateway(t)

		err := gw.Disable()
		require.NoError(t, err)
		assert.False(t, gw.Enabled)

		err = gw.Enable()
		require.NoError(t, err)
		assert.True(t, gw.Enabled)

		events := gw.GetDomainEvents()
		require.Len(t, events, 2)
		for _, e := range events {
			_, ok := e.(*GatewayStatusChangedEvent)
			assert.True(t, ok)
		}
	})

	t.Run("enable when already enabled", func(t *testing.T) {
		gw := newTestGateway(t)
		err := gw.Enable()
		require.Error(t, err)
		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_ENABLED", domainErr.Code)
	})

	t.Run("disable when already disabled", func(t *testing.T) {
		gw := newTestGateway(t)
		require.NoError(t, gw.Disable())
		err := gw.Disable()
		require.Error(t, err)
		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_DISABLED", domainErr.Code)
	})
}

func TestGateway_QRImageURL(t *testing.T) {
	gw := newTestGateway(t)

	err := gw.SetQRImageURL("https://cdn.example.com/gateways/esewa-qr.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/gateways/esewa-qr.png", gw.QRImageURL)

	err = gw.SetQRImageURL(strings.Repeat("x", 501))
	require.Error(t, err)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_IMAGE_URL", domainErr.Code)
}

func TestGateway_DisplayName(t *testing.T) {
	gw := newTestGateway(t)
	assert.Equal(t, "इसेवा / eSewa", gw.DisplayName())

	gw.NameNepali = ""
	assert.Equal(t, "eSewa", gw.DisplayName())
}

package notification

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

func TestNewLog(t *testing.T) {
	t.Run("sent entry", func(t *testing.T) {
		log, err := NewLog("9841234567", ChannelSMS, "", "Your order is confirmed.")
		require.NoError(t, err)

		assert.Equal(t, "9841234567", log.Recipient)
		assert.Equal(t, ChannelSMS, log.Channel)
		assert.Equal(t, LogStatusSent, log.Status)
		assert.Empty(t, log.Error)
		assert.False(t, log.SentAt.IsZero())
	})

	t.Run("empty recipient", func(t *testing.T) {
		_, err := NewLog("", ChannelSMS, "", "body")
		require.Error(t, err)
		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_RECIPIENT", domainErr.Code)
	})

	t.Run("empty body", func(t *testing.T) {
		_, err := NewLog("a@b.com", ChannelEmail, "s", "")
		require.Error(t, err)
		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_BODY", domainErr.Code)
	})
}

func TestNewFailedLog(t *testing.T) {
	log, err := NewFailedLog("a@b.com", ChannelEmail, "Subject", "Body", "smtp: connection refused")
	require.NoError(t, err)

	assert.Equal(t, LogStatusFailed, log.Status)
	assert.Equal(t, "smtp: connection refused", log.Error)

	t.Run("long error truncated", func(t *testing.T) {
		log, err := NewFailedLog("a@b.com", ChannelEmail, "", "Body", strings.Repeat("e", 600))
		require.NoError(t, err)
		assert.Len(t, log.Error, 500)
	})
}

func TestLog_Linkage(t *testing.T) {
	templateID := uuid.New()
	orderID := uuid.New()

	log, err := NewLog("9841234567", ChannelSMS, "", "body")
	require.NoError(t, err)

	log.WithTemplate(templateID).WithOrder(orderID)

	require.NotNil(t, log.TemplateID)
	assert.Equal(t, templateID, *log.TemplateID)
	require.NotNil(t, log.OrderID)
	assert.Equal(t, orderID, *log.OrderID)
}

func TestLogStatus_IsValid(t *testing.T) {
	assert.True(t, LogStatusSent.IsValid())
	assert.True(t, LogStatusFailed.IsValid())
	assert.False(t, LogStatus("queued").IsValid())
}

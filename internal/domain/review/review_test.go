package review

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

func newTestReview(t *testing.T) *Review {
	t.Helper()
	review, err := NewReview(uuid.New(), uuid.New(), 4, "Fresh and well cut.")
	require.NoError(t, err)
	review.ClearDomainEvents()
	return review
}

func TestNewReview(t *testing.T) {
	t.Run("valid review", func(t *testing.T) {
		productID := uuid.New()
		userID := uuid.New()

		review, err := NewReview(productID, userID, 5, "खुब मीठो! Delivered within an hour.")
		require.NoError(t, err)

		assert.Equal(t, productID, review.ProductID)
		assert.Equal(t, userID, review.UserID)
		assert.Equal(t, 5, review.Rating)
		assert.Equal(t, ReviewStatusPending, review.Status)
		assert.False(t, review.IsApproved())

		events := review.GetDomainEvents()
		require.Len(t, events, 1)
		submitted, ok := events[0].(*ReviewSubmittedEvent)
		require.True(t, ok)
		assert.Equal(t, 5, submitted.Rating)
	})

	t.Run("missing product", func(t *testing.T) {
		_, err := NewReview(uuid.Nil, uuid.New(), 3, "")
		require.Error(t, err)
		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PRODUCT", domainErr.Code)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := NewReview(uuid.New(), uuid.Nil, 3, "")
		require.Error(t, err)
		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_USER", domainErr.Code)
	})

	t.Run("rating bounds", func(t *testing.T) {
		tests := []struct {
			name   string
			rating int
			valid  bool
		}{
			{"one", 1, true},
			{"five", 5, true},
			{"zero", 0, false},
			{"six", 6, false},
			{"negative", -1, false},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := NewReview(uuid.New(), uuid.New(), tt.rating, "")
				if tt.valid {
					assert.NoError(t, err)
				} else {
					assert.Error(t, err)
				}
			})
		}
	})

	t.Run("comment too long", func(t *testing.T) {
		_, err := NewReview(uuid.New(), uuid.New(), 4, strings.Repeat("a", 1001))
		require.Error(t, err)
		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_COMMENT", domainErr.Code)
	})
}

func TestReview_Revise(t *testing.T) {
	review := newTestReview(t)
	require.NoError(t, review.Approve())
	review.ClearDomainEvents()

	err := review.Revise(2, "Second order was fatty.")
	require.NoError(t, err)

	assert.Equal(t, 2, review.Rating)
	assert.Equal(t, "Second order was fatty.", review.Comment)
	assert.Equal(t, ReviewStatusPending, review.Status, "revision re-enters moderation")

	events := review.GetDomainEvents()
	require.Len(t, events, 1)
	_, ok := events[0].(*ReviewSubmittedEvent)
	assert.True(t, ok)
}

func TestReview_Moderation(t *testing.T) {
	t.Run("approve", func(t *testing.T) {
		review := newTestReview(t)

		require.NoError(t, review.Approve())
		assert.True(t, review.IsApproved())

		err := review.Approve()
		require.Error(t, err)
		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_APPROVED", domainErr.Code)
	})

	t.Run("reject", func(t *testing.T) {
		review := newTestReview(t)

		require.NoError(t, review.Reject())
		assert.Equal(t, ReviewStatusRejected, review.Status)

		err := review.Reject()
		require.Error(t, err)
		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_REJECTED", domainErr.Code)
	})

	t.Run("admin can reverse a decision", func(t *testing.T) {
		review := newTestReview(t)

		require.NoError(t, review.Approve())
		require.NoError(t, review.Reject())
		assert.Equal(t, ReviewStatusRejected, review.Status)

		require.NoError(t, review.Approve())
		assert.True(t, review.IsApproved())
	})
}

func TestReviewStatus_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		status   ReviewStatus
		expected bool
	}{
		{"pending", ReviewStatusPending, true},
		{"approved", ReviewStatusApproved, true},
		{"rejected", ReviewStatusRejected, true},
		{"empty", "", false},
		{"invalid", "flagged", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.IsValid())
		})
	}
}

func TestReviewFilter(t *testing.T) {
	f := DefaultReviewFilter()
	assert.Equal(t, 0, f.Offset())
	assert.Equal(t, 20, f.Limit())

	productID := uuid.New()
	f = f.WithProduct(productID).WithStatus(ReviewStatusApproved)
	require.NotNil(t, f.ProductID)
	assert.Equal(t, productID, *f.ProductID)
	require.NotNil(t, f.Status)
	assert.Equal(t, ReviewStatusApproved, *f.Status)

	f.Page = 3
	f.PageSize = 250
	assert.Equal(t, 100, f.Limit())
	assert.Equal(t, 200, f.Offset())
}

package delivery

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nepalmeatshop/backend/internal/domain/delivery"
	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

// MockAreaRepository is a mock implementation of delivery.AreaRepository
type MockAreaRepository struct {
	mock.Mock
}

func (m *MockAreaRepository) FindByID(ctx context.Context, id uuid.UUID) (*delivery.Area, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Area), args.Error(1)
}

func (m *MockAreaRepository) FindByName(ctx context.Context, name string) (*delivery.Area, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Area), args.Error(1)
}

func (m *MockAreaRepository) FindAll(ctx context.Context) ([]*delivery.Area, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*delivery.Area), args.Error(1)
}

func (m *MockAreaRepository) FindActive(ctx context.Context) ([]*delivery.Area, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*delivery.Area), args.Error(1)
}

func (m *MockAreaRepository) Save(ctx context.Context, area *delivery.Area) error {
	args := m.Called(ctx, area)
	return args.Error(0)
}

func (m *MockAreaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAreaRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockAreaRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func newTestAreaService() (*AreaService, *MockAreaRepository) {
	repo := new(MockAreaRepository)
	service := NewAreaService(repo, zap.NewNop())
	return service, repo
}

func createTestArea() *delivery.Area {
	area, _ := delivery.NewArea("Baneshwor", "बानेश्वर", decimal.NewFromInt(60))
	area.ClearDomainEvents()
	return area
}

func TestAreaServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates area with defaults", func(t *testing.T) {
		service, repo := newTestAreaService()
		repo.On("ExistsByName", ctx, "Patan").Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*delivery.Area")).Return(nil)

		resp, err := service.Create(ctx, CreateAreaRequest{
			Name:       "Patan",
			NameNepali: "पाटन",
			Charge:     decimal.NewFromInt(80),
		})

		require.NoError(t, err)
		assert.Equal(t, "Patan", resp.Name)
		assert.Equal(t, "पाटन / Patan", resp.DisplayName)
		assert.True(t, resp.Charge.Equal(decimal.NewFromInt(80)))
		assert.True(t, resp.MinOrderAmount.IsZero())
		assert.Equal(t, 2, resp.EstimatedHours)
		assert.True(t, resp.Active)
	})

	t.Run("creates area with minimum order and estimate", func(t *testing.T) {
		service, repo := newTestAreaService()
		minOrder := decimal.NewFromInt(500)
		hours := 4
		repo.On("ExistsByName", ctx, "Bhaktapur").Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*delivery.Area")).Return(nil)

		resp, err := service.Create(ctx, CreateAreaRequest{
			Name:           "Bhaktapur",
			NameNepali:     "भक्तपुर",
			Charge:         decimal.NewFromInt(100),
			MinOrderAmount: &minOrder,
			EstimatedHours: &hours,
		})

		require.NoError(t, err)
		assert.True(t, resp.MinOrderAmount.Equal(minOrder))
		assert.Equal(t, 4, resp.EstimatedHours)
	})

	t.Run("fails on duplicate name", func(t *testing.T) {
		service, repo := newTestAreaService()
		repo.On("ExistsByName", ctx, "Patan").Return(true, nil)

		_, err := service.Create(ctx, CreateAreaRequest{
			Name:   "Patan",
			Charge: decimal.NewFromInt(80),
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects negative charge", func(t *testing.T) {
		service, repo := newTestAreaService()
		repo.On("ExistsByName", ctx, "Kirtipur").Return(false, nil)

		_, err := service.Create(ctx, CreateAreaRequest{
			Name:   "Kirtipur",
			Charge: decimal.NewFromInt(-10),
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be negative")
	})
}

func TestAreaServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("updates details", func(t *testing.T) {
		service, repo := newTestAreaService()
		area := createTestArea()
		repo.On("FindByID", ctx, area.ID).Return(area, nil)
		repo.On("ExistsByName", ctx, "New Baneshwor").Return(false, nil)
		repo.On("Save", ctx, area).Return(nil)

		resp, err := service.Update(ctx, area.ID, UpdateAreaRequest{
			Name:           "New Baneshwor",
			NameNepali:     "नयाँ बानेश्वर",
			Charge:         decimal.NewFromInt(70),
			EstimatedHours: 3,
		})

		require.NoError(t, err)
		assert.Equal(t, "New Baneshwor", resp.Name)
		assert.True(t, resp.Charge.Equal(decimal.NewFromInt(70)))
		assert.Equal(t, 3, resp.EstimatedHours)
	})

	t.Run("fails when renaming onto an existing area", func(t *testing.T) {
		service, repo := newTestAreaService()
		area := createTestArea()
		repo.On("FindByID", ctx, area.ID).Return(area, nil)
		repo.On("ExistsByName", ctx, "Patan").Return(true, nil)

		_, err := service.Update(ctx, area.ID, UpdateAreaRequest{
			Name:           "Patan",
			Charge:         decimal.NewFromInt(60),
			EstimatedHours: 2,
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("fails when area does not exist", func(t *testing.T) {
		service, repo := newTestAreaService()
		id := uuid.New()
		repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := service.Update(ctx, id, UpdateAreaRequest{
			Name:           "Anywhere",
			Charge:         decimal.NewFromInt(50),
			EstimatedHours: 2,
		})

		require.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestAreaServiceStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("deactivates and reactivates", func(t *testing.T) {
		service, repo := newTestAreaService()
		area := createTestArea()
		repo.On("FindByID", ctx, area.ID).Return(area, nil)
		repo.On("Save", ctx, area).Return(nil)

		resp, err := service.Deactivate(ctx, area.ID)
		require.NoError(t, err)
		assert.False(t, resp.Active)

		resp, err = service.Activate(ctx, area.ID)
		require.NoError(t, err)
		assert.True(t, resp.Active)
	})

	t.Run("fails deactivating an inactive area", func(t *testing.T) {
		service, repo := newTestAreaService()
		area := createTestArea()
		require.NoError(t, area.Deactivate())
		area.ClearDomainEvents()
		repo.On("FindByID", ctx, area.ID).Return(area, nil)

		_, err := service.Deactivate(ctx, area.ID)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_INACTIVE", domainErr.Code)
	})
}

func TestAreaServiceList(t *testing.T) {
	ctx := context.Background()

	t.Run("lists active areas for checkout", func(t *testing.T) {
		service, repo := newTestAreaService()
		a1 := createTestArea()
		a2, _ := delivery.NewArea("Patan", "पाटन", decimal.NewFromInt(80))
		repo.On("FindActive", ctx).Return([]*delivery.Area{a1, a2}, nil)

		resp, err := service.ListActive(ctx)

		require.NoError(t, err)
		require.Len(t, resp, 2)
		assert.Equal(t, "Baneshwor", resp[0].Name)
	})
}

func TestAreaServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes an area", func(t *testing.T) {
		service, repo := newTestAreaService()
		area := createTestArea()
		repo.On("FindByID", ctx, area.ID).Return(area, nil)
		repo.On("Delete", ctx, area.ID).Return(nil)

		err := service.Delete(ctx, area.ID)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("fails when area does not exist", func(t *testing.T) {
		service, repo := newTestAreaService()
		id := uuid.New()
		repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		err := service.Delete(ctx, id)

		require.ErrorIs(t, err, shared.ErrNotFound)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

// Interface compliance check
var _ delivery.AreaRepository = (*MockAreaRepository)(nil)

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategory(t *testing.T) {
	t.Run("creates category with valid inputs", func(t *testing.T) {
		category, err := NewCategory("Pork", "बंगुरको मासु")
		require.NoError(t, err)
		require.NotNil(t, category)

		assert.Equal(t, "Pork", category.Name)
		assert.Equal(t, "बंगुरको मासु", category.NameNepali)
		assert.Equal(t, CategoryStatusActive, category.Status)
		assert.Equal(t, 0, category.SortOrder)
		assert.True(t, category.IsActive())
		assert.NotEmpty(t, category.ID)
		assert.Equal(t, 1, category.GetVersion())
	})

	t.Run("allows empty Nepali name", func(t *testing.T) {
		category, err := NewCategory("Fish", "")
		require.NoError(t, err)
		assert.Empty(t, category.NameNepali)
	})

	t.Run("publishes CategoryCreated event", func(t *testing.T) {
		category, err := NewCategory("Chicken", "कुखुराको मासु")
		require.NoError(t, err)

		events := category.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeCategoryCreated, events[0].EventType())

		event, ok := events[0].(*CategoryCreatedEvent)
		require.True(t, ok)
		assert.Equal(t, category.ID, event.CategoryID)
		assert.Equal(t, "Chicken", event.Name)
		assert.Equal(t, "कुखुराको मासु", event.NameNepali)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewCategory("", "खसीको मासु")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name cannot be empty")
	})

	t.Run("fails with name too long", func(t *testing.T) {
		longName := string(make([]byte, 101))
		_, err := NewCategory(longName, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed 100 characters")
	})
}

func TestCategoryUpdate(t *testing.T) {
	category, _ := NewCategory("Goat", "खसीको मासु")
	category.ClearDomainEvents()

	t.Run("updates names and description", func(t *testing.T) {
		originalVersion := category.GetVersion()
		err := category.Update("Goat Meat", "खसीको मासु", "Fresh local goat")
		require.NoError(t, err)

		assert.Equal(t, "Goat Meat", category.Name)
		assert.Equal(t, "खसीको मासु", category.NameNepali)
		assert.Equal(t, "Fresh local goat", category.Description)
		assert.Equal(t, originalVersion+1, category.GetVersion())
	})

	t.Run("publishes CategoryUpdated event", func(t *testing.T) {
		category.ClearDomainEvents()
		err := category.Update("Goat Meat", "खसीको मासु", "Updated")
		require.NoError(t, err)

		events := category.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeCategoryUpdated, events[0].EventType())
	})

	t.Run("fails with empty name", func(t *testing.T) {
		err := category.Update("", "", "Description")
		require.Error(t, err)
	})
}

func TestCategoryImage(t *testing.T) {
	category, _ := NewCategory("Buffalo", "राँगाको मासु")

	t.Run("sets image URL", func(t *testing.T) {
		err := category.SetImageURL("https://cdn.example.com/categories/buffalo.jpg")
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/categories/buffalo.jpg", category.ImageURL)
	})

	t.Run("fails with URL too long", func(t *testing.T) {
		err := category.SetImageURL(string(make([]byte, 501)))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed 500 characters")
	})
}

func TestCategorySortOrder(t *testing.T) {
	category, _ := NewCategory("Mutton", "भेडाको मासु")
	originalVersion := category.GetVersion()

	category.SetSortOrder(3)
	assert.Equal(t, 3, category.SortOrder)
	assert.Equal(t, originalVersion+1, category.GetVersion())
}

func TestCategoryStatus(t *testing.T) {
	t.Run("deactivates active category", func(t *testing.T) {
		category, _ := NewCategory("Pork", "बंगुरको मासु")
		category.ClearDomainEvents()

		err := category.Deactivate()
		require.NoError(t, err)
		assert.Equal(t, CategoryStatusInactive, category.Status)
		assert.False(t, category.IsActive())

		events := category.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeCategoryStatusChanged, events[0].EventType())
	})

	t.Run("fails to deactivate already inactive category", func(t *testing.T) {
		category, _ := NewCategory("Pork", "")
		category.Status = CategoryStatusInactive

		err := category.Deactivate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already inactive")
	})

	t.Run("activates inactive category", func(t *testing.T) {
		category, _ := NewCategory("Pork", "")
		category.Status = CategoryStatusInactive
		category.ClearDomainEvents()

		err := category.Activate()
		require.NoError(t, err)
		assert.True(t, category.IsActive())

		events := category.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeCategoryStatusChanged, events[0].EventType())
	})

	t.Run("fails to activate already active category", func(t *testing.T) {
		category, _ := NewCategory("Pork", "")
		err := category.Activate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already active")
	})
}

func TestCategoryDisplayName(t *testing.T) {
	t.Run("bilingual name", func(t *testing.T) {
		category, _ := NewCategory("Chicken", "कुखुराको मासु")
		assert.Equal(t, "कुखुराको मासु / Chicken", category.DisplayName())
	})

	t.Run("falls back to English name", func(t *testing.T) {
		category, _ := NewCategory("Fish", "")
		assert.Equal(t, "Fish", category.DisplayName())
	})
}

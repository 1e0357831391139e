package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/nepalmeatshop/backend/internal/domain/catalog"
	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

// newMockCategoryRepository creates a GormCategoryRepository with a mocked SQL connection
func newMockCategoryRepository(t *testing.T) (*GormCategoryRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormCategoryRepository(gormDB), mock, mockDB
}

func categoryColumns() []string {
	return []string{
		"id", "name", "name_nepali", "description", "image_url",
		"sort_order", "status", "created_at", "updated_at", "version",
	}
}

func TestNewGormCategoryRepository(t *testing.T) {
	t.Run("creates repository with valid DB", func(t *testing.T) {
		repo, _, mockDB := newMockCategoryRepository(t)
		defer mockDB.Close()

		assert.NotNil(t, repo)
		assert.NotNil(t, repo.db)
	})
}

func TestGormCategoryRepository_FindByID(t *testing.T) {
	t.Run("finds existing category", func(t *testing.T) {
		repo, mock, mockDB := newMockCategoryRepository(t)
		defer mockDB.Close()

		categoryID := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows(categoryColumns()).AddRow(
			categoryID, "Pork", "बंगुरको मासु", "Fresh pork cuts", "",
			1, "active", now, now, 1,
		)

		mock.ExpectQuery(`SELECT \* FROM "categories" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(categoryID, 1).
			WillReturnRows(rows)

		category, err := repo.FindByID(context.Background(), categoryID)

		assert.NoError(t, err)
		assert.NotNil(t, category)
		assert.Equal(t, categoryID, category.ID)
		assert.Equal(t, "Pork", category.Name)
		assert.Equal(t, "बंगुरको मासु", category.NameNepali)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for non-existent category", func(t *testing.T) {
		repo, mock, mockDB := newMockCategoryRepository(t)
		defer mockDB.Close()

		categoryID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "categories" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(categoryID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		category, err := repo.FindByID(context.Background(), categoryID)

		assert.Error(t, err)
		assert.Nil(t, category)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCategoryRepository_FindByName(t *testing.T) {
	t.Run("finds category by name", func(t *testing.T) {
		repo, mock, mockDB := newMockCategoryRepository(t)
		defer mockDB.Close()

		categoryID := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows(categoryColumns()).AddRow(
			categoryID, "Chicken", "कुखुराको मासु", "", "",
			2, "active", now, now, 1,
		)

		mock.ExpectQuery(`SELECT \* FROM "categories" WHERE name = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("Chicken", 1).
			WillReturnRows(rows)

		category, err := repo.FindByName(context.Background(), "Chicken")

		assert.NoError(t, err)
		assert.NotNil(t, category)
		assert.Equal(t, "Chicken", category.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error when name not found", func(t *testing.T) {
		repo, mock, mockDB := newMockCategoryRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "categories" WHERE name = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("Venison", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		category, err := repo.FindByName(context.Background(), "Venison")

		assert.Error(t, err)
		assert.Nil(t, category)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCategoryRepository_FindAll(t *testing.T) {
	t.Run("applies default ordering", func(t *testing.T) {
		repo, mock, mockDB := newMockCategoryRepository(t)
		defer mockDB.Close()

		now := time.Now()
		rows := sqlmock.NewRows(categoryColumns()).AddRow(
			uuid.New(), "Pork", "बंगुरको मासु", "", "",
			1, "active", now, now, 1,
		).AddRow(
			uuid.New(), "Buff", "राँगाको मासु", "", "",
			2, "active", now, now, 1,
		)

		mock.ExpectQuery(`SELECT \* FROM "categories" ORDER BY sort_order DESC`).
			WillReturnRows(rows)

		categories, err := repo.FindAll(context.Background(), shared.Filter{})

		assert.NoError(t, err)
		assert.Len(t, categories, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("applies search over both names", func(t *testing.T) {
		repo, mock, mockDB := newMockCategoryRepository(t)
		defer mockDB.Close()

		now := time.Now()
		rows := sqlmock.NewRows(categoryColumns()).AddRow(
			uuid.New(), "Goat", "खसीको मासु", "", "",
			3, "active", now, now, 1,
		)

		mock.ExpectQuery(`SELECT \* FROM "categories" WHERE \(name ILIKE \$1 OR name_nepali ILIKE \$2\) ORDER BY sort_order DESC`).
			WithArgs("%खसी%", "%खसी%").
			WillReturnRows(rows)

		categories, err := repo.FindAll(context.Background(), shared.Filter{Search: "खसी"})

		assert.NoError(t, err)
		assert.Len(t, categories, 1)
		assert.Equal(t, "Goat", categories[0].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("applies status filter and pagination", func(t *testing.T) {
		repo, mock, mockDB := newMockCategoryRepository(t)
		defer mockDB.Close()

		now := time.Now()
		rows := sqlmock.NewRows(categoryColumns()).AddRow(
			uuid.New(), "Fish", "माछा", "", "",
			4, "inactive", now, now, 1,
		)

		mock.ExpectQuery(`SELECT \* FROM "categories" WHERE status = \$1 ORDER BY name ASC LIMIT .* OFFSET .*`).
			WithArgs("inactive", 10, 10).
			WillReturnRows(rows)

		categories, err := repo.FindAll(context.Background(), shared.Filter{
			Page:     2,
			PageSize: 10,
			OrderBy:  "name",
			OrderDir: "asc",
			Filters:  map[string]interface{}{"status": "inactive"},
		})

		assert.NoError(t, err)
		assert.Len(t, categories, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCategoryRepository_FindActive(t *testing.T) {
	t.Run("finds active categories in storefront order", func(t *testing.T) {
		repo, mock, mockDB := newMockCategoryRepository(t)
		defer mockDB.Close()

		now := time.Now()
		rows := sqlmock.NewRows(categoryColumns()).AddRow(
			uuid.New(), "Pork", "बंगुरको मासु", "", "",
			1, "active", now, now, 1,
		).AddRow(
			uuid.New(), "Chicken", "कुखुराको मासु", "", "",
			2, "active", now, now, 1,
		)

		mock.ExpectQuery(`SELECT \* FROM "categories" WHERE status = \$1 ORDER BY sort_order ASC, name ASC`).
			WithArgs(catalog.CategoryStatusActive).
			WillReturnRows(rows)

		categories, err := repo.FindActive(context.Background())

		assert.NoError(t, err)
		assert.Len(t, categories, 2)
		assert.Equal(t, "Pork", categories[0].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCategoryRepository_Save(t *testing.T) {
	t.Run("saves category", func(t *testing.T) {
		repo, mock, mockDB := newMockCategoryRepository(t)
		defer mockDB.Close()

		category, err := catalog.NewCategory("Mutton", "भेडाको मासु")
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "categories" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Save(context.Background(), category)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCategoryRepository_Delete(t *testing.T) {
	t.Run("deletes existing category", func(t *testing.T) {
		repo, mock, mockDB := newMockCategoryRepository(t)
		defer mockDB.Close()

		categoryID := uuid.New()

		mock.ExpectExec(`DELETE FROM "categories" WHERE id = \$1`).
			WithArgs(categoryID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), categoryID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for non-existent category", func(t *testing.T) {
		repo, mock, mockDB := newMockCategoryRepository(t)
		defer mockDB.Close()

		categoryID := uuid.New()

		mock.ExpectExec(`DELETE FROM "categories" WHERE id = \$1`).
			WithArgs(categoryID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), categoryID)

		assert.Error(t, err)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCategoryRepository_HasProducts(t *testing.T) {
	t.Run("returns true when category has products", func(t *testing.T) {
		repo, mock, mockDB := newMockCategoryRepository(t)
		defer mockDB.Close()

		categoryID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE category_id = \$1`).
			WithArgs(categoryID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

		hasProducts, err := repo.HasProducts(context.Background(), categoryID)

		assert.NoError(t, err)
		assert.True(t, hasProducts)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns false when category is empty", func(t *testing.T) {
		repo, mock, mockDB := newMockCategoryRepository(t)
		defer mockDB.Close()

		categoryID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE category_id = \$1`).
			WithArgs(categoryID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		hasProducts, err := repo.HasProducts(context.Background(), categoryID)

		assert.NoError(t, err)
		assert.False(t, hasProducts)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCategoryRepository_ExistsByName(t *testing.T) {
	t.Run("returns true when name exists", func(t *testing.T) {
		repo, mock, mockDB := newMockCategoryRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "categories" WHERE name = \$1`).
			WithArgs("Pork").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsByName(context.Background(), "Pork")

		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns false when name does not exist", func(t *testing.T) {
		repo, mock, mockDB := newMockCategoryRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "categories" WHERE name = \$1`).
			WithArgs("Venison").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.ExistsByName(context.Background(), "Venison")

		assert.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCategoryRepository_InterfaceCompliance(t *testing.T) {
	t.Run("implements CategoryRepository interface", func(t *testing.T) {
		repo, _, mockDB := newMockCategoryRepository(t)
		defer mockDB.Close()

		var _ catalog.CategoryRepository = repo
	})
}

package persistent

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func productRows(deletedAt interface{}) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "creator_id", "title", "price", "is_free", "product_type", "asset_path", "deleted_at"}).
		AddRow("p1", "c1", "Pack", "12.50", false, "digital", "digital/c1-1-pack.zip", deletedAt)
}

func TestGetByID_HidesDeleted(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1 AND "products"."deleted_at" IS NULL`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), "p1")

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDUnscoped_FindsDeleted(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1 ORDER BY`).
		WillReturnRows(productRows(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)))

	product, err := repo.GetByIDUnscoped(context.Background(), "p1")

	require.NoError(t, err)
	assert.Equal(t, "p1", product.ID)
	require.NotNil(t, product.DeletedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

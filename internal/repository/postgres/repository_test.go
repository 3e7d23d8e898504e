package postgres

import (
	"context"
	"testing"
	"time"

	"productInfoAgent/domain"
	"productInfoAgent/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func ptr[T any](v T) *T { return &v }

func TestCatalogRepository(t *testing.T) {
	db := setupDB(t)
	repo := NewCatalogRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&domain.Product{ID: 1, SKU: "MUG-1", Name: "Mug", TypeID: "simple",
		Attributes: map[string]any{"color": "red"}}).Error)
	require.NoError(t, db.Create(&[]domain.CategoryProduct{
		{CategoryID: 3, ProductID: 1},
		{CategoryID: 3, ProductID: 2},
		{CategoryID: 4, ProductID: 1},
	}).Error)
	require.NoError(t, db.Create(&domain.StockItem{ProductID: 1, Qty: 3, IsInStock: true}).Error)

	t.Run("find product", func(t *testing.T) {
		p, err := repo.FindProductByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Mug", p.Name)
		v, ok := p.AttributeValue("color")
		assert.True(t, ok)
		assert.Equal(t, "red", v)

		_, err = repo.FindProductByID(ctx, 99)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("count category products", func(t *testing.T) {
		n, err := repo.CountCategoryProducts(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		n, err = repo.CountCategoryProducts(ctx, 50)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("stock item", func(t *testing.T) {
		item, err := repo.GetStockItem(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 3.0, item.Qty)
		assert.True(t, item.IsInStock)

		_, err = repo.GetStockItem(ctx, 2)
		assert.ErrorIs(t, err, domain.ErrStockItemNotFound)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := repo.FindProductByID(cctx, 1)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestConfigRepository(t *testing.T) {
	db := setupDB(t)
	repo := NewConfigRepository(db)
	ctx := context.Background()

	_, ok, err := repo.GetValue(ctx, domain.ScopeDefault, 0, "a/b/c")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.UpsertValue(ctx, domain.ConfigValue{Scope: domain.ScopeDefault, Path: "a/b/c", Value: "1"}))
	require.NoError(t, repo.UpsertValue(ctx, domain.ConfigValue{Scope: domain.ScopeStore, ScopeID: 1, Path: "a/b/c", Value: "0"}))
	require.NoError(t, repo.UpsertValue(ctx, domain.ConfigValue{Scope: domain.ScopeDefault, Path: "a/b/c", Value: "2"}))

	v, ok, err := repo.GetValue(ctx, domain.ScopeDefault, 0, "a/b/c")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2", v)

	v, ok, err = repo.GetValue(ctx, domain.ScopeStore, 1, "a/b/c")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "0", v)

	require.NoError(t, repo.UpsertValue(ctx, domain.ConfigValue{Scope: domain.ScopeDefault, Path: "a/a/a", Value: "x"}))
	values, err := repo.ListValues(ctx, domain.ScopeDefault, 0)
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.Equal(t, "a/a/a", values[0].Path)
	assert.Equal(t, "a/b/c", values[1].Path)
}

func TestSuggestionRepository(t *testing.T) {
	db := setupDB(t)
	repo := NewSuggestionRepository(db)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	rows := []domain.Suggestion{
		{ProductID: 1, Question: "second", Priority: 2, IsActive: true, CreatedAt: now},
		{ProductID: 1, Question: "first", Priority: 1, IsActive: true, CreatedAt: now},
		{ProductID: 1, Question: "inactive", Priority: 0, IsActive: false, CreatedAt: now},
		{ProductID: 2, Question: "other", Priority: 1, IsActive: true, CreatedAt: now},
	}
	for i := range rows {
		require.NoError(t, repo.Create(ctx, &rows[i]))
		assert.NotZero(t, rows[i].ID)
	}

	got, err := repo.FindActiveByProduct(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Question)
	assert.Equal(t, "second", got[1].Question)

	require.NoError(t, repo.DeleteByProduct(ctx, 1))
	got, err = repo.FindActiveByProduct(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = repo.FindActiveByProduct(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSuggestionViewRepository(t *testing.T) {
	db := setupDB(t)
	repo := NewSuggestionViewRepository(db)
	ctx := context.Background()

	guest := domain.Identity{SessionID: "sess-1"}
	customer := domain.Identity{CustomerID: ptr(uint64(7)), SessionID: "sess-1"}

	view, err := repo.FindView(ctx, 10, guest)
	require.NoError(t, err)
	assert.Nil(t, view)

	customerView := &domain.SuggestionView{ProductID: 10, CustomerID: customer.CustomerID, SessionID: "sess-1"}
	require.NoError(t, customerView.SetViewedIDs([]uint64{1, 2}))
	require.NoError(t, repo.SaveView(ctx, customerView))

	// a guest sharing the session must not see the customer's record
	view, err = repo.FindView(ctx, 10, guest)
	require.NoError(t, err)
	assert.Nil(t, view)

	guestView := &domain.SuggestionView{ProductID: 10, SessionID: "sess-1"}
	require.NoError(t, guestView.SetViewedIDs([]uint64{3}))
	require.NoError(t, repo.SaveView(ctx, guestView))

	view, err = repo.FindView(ctx, 10, customer)
	require.NoError(t, err)
	require.NotNil(t, view)
	ids, err := view.ViewedIDs()
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2}, ids)

	require.NoError(t, view.SetViewedIDs([]uint64{1, 2, 4}))
	require.NoError(t, repo.SaveView(ctx, view))

	view, err = repo.FindView(ctx, 10, customer)
	require.NoError(t, err)
	ids, _ = view.ViewedIDs()
	assert.Equal(t, []uint64{1, 2, 4}, ids)

	require.NoError(t, repo.DeleteView(ctx, 10, customer))
	view, err = repo.FindView(ctx, 10, customer)
	require.NoError(t, err)
	assert.Nil(t, view)

	view, err = repo.FindView(ctx, 10, guest)
	require.NoError(t, err)
	require.NotNil(t, view)
	ids, _ = view.ViewedIDs()
	assert.Equal(t, []uint64{3}, ids)
}

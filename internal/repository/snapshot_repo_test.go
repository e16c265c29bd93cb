package repository

import (
	"path/filepath"
	"testing"

	"go-pos-ledger/internal/model"
	"go-pos-ledger/pkg/database"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openSQLite(t *testing.T, path string) *gorm.DB {
	t.Helper()
	db, err := database.Open(database.Options{
		Driver:     database.DriverSQLite,
		SQLitePath: path,
		LogLevel:   logger.Silent,
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestSnapshotRepo_SQLiteRoundTrip(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "pos.db")
	repo, err := NewInventoryRepo(NewSnapshotRepo(openSQLite(t, path)))
	require.NoError(t, err)
	item := newTestItem("cable", 10)
	item.UnitValue = decimal.RequireFromString("2.5")
	created, err := repo.Create(item, &model.InventoryHistoryEntry{
		Quantity:        10,
		NewQuantity:     10,
		TransactionType: model.TxPurchase,
	})
	require.NoError(t, err)

	// Act: a second write replaces the stored documents in place
	_, _, err = repo.Move(deduct(created.ID, 3))
	require.NoError(t, err)
	reloaded, err := NewInventoryRepo(NewSnapshotRepo(openSQLite(t, path)))
	require.NoError(t, err)

	// Assert
	stored, err := reloaded.FindByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, stored.Quantity)
	assert.Equal(t, "2.5", stored.UnitValue.String())
	history := reloaded.History(created.ID)
	require.Len(t, history, 2)
	assert.Equal(t, model.TxSale, history[0].TransactionType)
	assert.Equal(t, model.TxPurchase, history[1].TransactionType)

	var rows int64
	require.NoError(t, openSQLite(t, path).Model(&model.Snapshot{}).Count(&rows).Error)
	assert.Equal(t, int64(2), rows)
}

func TestSnapshotRepo_MissingStore(t *testing.T) {
	snap := NewSnapshotRepo(openSQLite(t, filepath.Join(t.TempDir(), "empty.db")))

	var dest []model.Sale
	found, err := snap.Load(model.StoreSales, &dest)

	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, dest)
}

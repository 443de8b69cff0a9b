package db

import (
	"soletrack/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.Product{},
		&models.MarketData{},
		&models.RawSnapshot{},
		&models.InventoryItem{},
		&models.Listing{},
		&models.Sale{},
		&models.Expense{},
		&models.WatchItem{},
		&models.ValuationSnapshot{},
		&models.SyncState{},
		&models.ProviderHealth{},
		&models.SystemSetting{},
	)
}

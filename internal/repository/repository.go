package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"soletrack/internal/models"
)

// Repository is the persistence surface used by services and handlers. The
// gorm implementation lives in repository/gorm.
type Repository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	// Products
	UpsertProduct(ctx context.Context, item *models.Product) error
	GetProductByStyleID(ctx context.Context, styleID string) (*models.Product, error)
	ListProducts(ctx context.Context, params ListProductsParams) ([]models.Product, error)
	CountProducts(ctx context.Context, params ListProductsParams) (int64, error)
	DeleteProduct(ctx context.Context, id uint64) error

	// Market data ingestion
	InsertRawSnapshot(ctx context.Context, item *models.RawSnapshot) error
	UpsertMarketDataTx(ctx context.Context, tx *gorm.DB, rows []models.MarketData) error
	ListMarketData(ctx context.Context, params ListMarketDataParams) ([]models.MarketData, error)
	CountMarketData(ctx context.Context, params ListMarketDataParams) (int64, error)
	ListLatestPrices(ctx context.Context, params ListLatestPricesParams) ([]models.LatestPrice, error)
	GetLatestPrice(ctx context.Context, provider, styleID, sizeKey string) (*models.LatestPrice, error)

	// Inventory
	InsertInventoryItem(ctx context.Context, item *models.InventoryItem) error
	GetInventoryItemByID(ctx context.Context, id uint64) (*models.InventoryItem, error)
	ListInventoryItems(ctx context.Context, params ListInventoryParams) ([]models.InventoryItem, error)
	CountInventoryItems(ctx context.Context, params ListInventoryParams) (int64, error)
	UpdateInventoryItem(ctx context.Context, item *models.InventoryItem) error
	UpdateInventoryItemStatus(ctx context.Context, id uint64, status string) error
	UpdateInventoryItemStatusTx(ctx context.Context, tx *gorm.DB, id uint64, status string) error
	DeleteInventoryItem(ctx context.Context, id uint64) error
	ListActiveStyleIDs(ctx context.Context) ([]string, error)

	// Listings
	InsertListing(ctx context.Context, item *models.Listing) error
	GetListingByID(ctx context.Context, id uint64) (*models.Listing, error)
	ListListings(ctx context.Context, params ListListingsParams) ([]models.Listing, error)
	CountListings(ctx context.Context, params ListListingsParams) (int64, error)
	UpdateListing(ctx context.Context, item *models.Listing) error
	UpdateListingStatus(ctx context.Context, id uint64, status string) error
	DeleteListing(ctx context.Context, id uint64) error

	// Sales
	InsertSaleTx(ctx context.Context, tx *gorm.DB, item *models.Sale) error
	GetSaleByID(ctx context.Context, id uint64) (*models.Sale, error)
	ListSales(ctx context.Context, params ListSalesParams) ([]models.Sale, error)
	CountSales(ctx context.Context, params ListSalesParams) (int64, error)
	DeleteSale(ctx context.Context, id uint64) error
	SalesSummary(ctx context.Context, since, until *time.Time) (SalesSummary, error)
	SumRealizedMargin(ctx context.Context) (decimal.Decimal, error)

	// Expenses
	InsertExpense(ctx context.Context, item *models.Expense) error
	GetExpenseByID(ctx context.Context, id uint64) (*models.Expense, error)
	ListExpenses(ctx context.Context, params ListExpensesParams) ([]models.Expense, error)
	CountExpenses(ctx context.Context, params ListExpensesParams) (int64, error)
	UpdateExpense(ctx context.Context, item *models.Expense) error
	DeleteExpense(ctx context.Context, id uint64) error
	SumExpenses(ctx context.Context, since, until *time.Time) (decimal.Decimal, error)

	// Watchlist
	InsertWatchItem(ctx context.Context, item *models.WatchItem) error
	ListWatchItems(ctx context.Context, params ListWatchItemsParams) ([]models.WatchItem, error)
	CountWatchItems(ctx context.Context, params ListWatchItemsParams) (int64, error)
	DeleteWatchItem(ctx context.Context, id uint64) error
	ListWatchedStyleIDs(ctx context.Context) ([]string, error)

	// Sync state & provider health
	GetSyncState(ctx context.Context, scope string) (*models.SyncState, error)
	SaveSyncStateTx(ctx context.Context, tx *gorm.DB, state *models.SyncState) error
	ListSyncStates(ctx context.Context) ([]models.SyncState, error)
	UpsertProviderHealth(ctx context.Context, item *models.ProviderHealth) error
	ListProviderHealth(ctx context.Context) ([]models.ProviderHealth, error)

	// Valuation
	InsertValuationSnapshot(ctx context.Context, item *models.ValuationSnapshot) error
	ListValuationSnapshots(ctx context.Context, params ListValuationSnapshotsParams) ([]models.ValuationSnapshot, error)

	// System settings
	UpsertSystemSetting(ctx context.Context, item *models.SystemSetting) error
	GetSystemSettingByKey(ctx context.Context, key string) (*models.SystemSetting, error)
	ListSystemSettings(ctx context.Context) ([]models.SystemSetting, error)
}

type ListProductsParams struct {
	Limit   int
	Offset  int
	Brand   *string
	Search  *string
	OrderBy string
	Asc     *bool
}

type ListMarketDataParams struct {
	Limit       int
	Offset      int
	Provider    *string
	StyleID     *string
	SizeKey     *string
	Currency    *string
	IsFlex      *bool
	IsConsigned *bool
	Since       *time.Time
	OrderBy     string
	Asc         *bool
}

type ListLatestPricesParams struct {
	Provider    *string
	StyleID     *string
	SizeKey     *string
	IsFlex      *bool
	IsConsigned *bool
	Limit       int
	Offset      int
}

type ListInventoryParams struct {
	Limit    int
	Offset   int
	Status   *string
	StyleID  *string
	SizeKey  *string
	Statuses []string
	OrderBy  string
	Asc      *bool
}

type ListListingsParams struct {
	Limit           int
	Offset          int
	Provider        *string
	Status          *string
	InventoryItemID *uint64
	OrderBy         string
	Asc             *bool
}

type ListSalesParams struct {
	Limit    int
	Offset   int
	StyleID  *string
	Platform *string
	Since    *time.Time
	Until    *time.Time
	OrderBy  string
	Asc      *bool
}

type ListExpensesParams struct {
	Limit    int
	Offset   int
	Category *string
	Since    *time.Time
	Until    *time.Time
	OrderBy  string
	Asc      *bool
}

type ListWatchItemsParams struct {
	Limit    int
	Offset   int
	StyleID  *string
	Provider *string
}

type ListValuationSnapshotsParams struct {
	Limit  int
	Offset int
	Since  *time.Time
	Until  *time.Time
}

// SalesSummary aggregates sales over a window, typically a tax year.
type SalesSummary struct {
	Count            int64           `json:"count"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TotalFees        decimal.Decimal `json:"total_fees"`
	TotalShippingOut decimal.Decimal `json:"total_shipping_out"`
	TotalMargin      decimal.Decimal `json:"total_margin"`
}

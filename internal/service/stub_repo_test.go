package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"soletrack/internal/models"
	"soletrack/internal/repository"
)

// stubRepo is an in-memory repository.Repository. InTx passes a nil *gorm.DB
// to fn; the Tx-taking methods ignore it.
type stubRepo struct {
	items      map[uint64]*models.InventoryItem
	sales      []*models.Sale
	snapshots  []*models.RawSnapshot
	marketRows []models.MarketData
	syncStates map[string]models.SyncState
	health     map[string]models.ProviderHealth
	settings   map[string]models.SystemSetting
	valuations []*models.ValuationSnapshot

	watched []string
	active  []string

	listSalesResult []models.Sale
	salesSummary    repository.SalesSummary
	expensesSum     decimal.Decimal
	realizedMargin  decimal.Decimal
	latestPrices    map[string]models.LatestPrice

	nextID uint64
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		items:        map[uint64]*models.InventoryItem{},
		syncStates:   map[string]models.SyncState{},
		health:       map[string]models.ProviderHealth{},
		settings:     map[string]models.SystemSetting{},
		latestPrices: map[string]models.LatestPrice{},
	}
}

func (r *stubRepo) setSwitch(key string, enabled bool) {
	raw, _ := json.Marshal(enabled)
	r.settings[key] = models.SystemSetting{Key: key, Value: datatypes.JSON(raw)}
}

func (r *stubRepo) setLatestPrice(provider, styleID, sizeKey string, item models.LatestPrice) {
	r.latestPrices[provider+"|"+styleID+"|"+sizeKey] = item
}

func (r *stubRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (r *stubRepo) UpsertProduct(ctx context.Context, item *models.Product) error { return nil }
func (r *stubRepo) GetProductByStyleID(ctx context.Context, styleID string) (*models.Product, error) {
	return nil, nil
}
func (r *stubRepo) ListProducts(ctx context.Context, params repository.ListProductsParams) ([]models.Product, error) {
	return nil, nil
}
func (r *stubRepo) CountProducts(ctx context.Context, params repository.ListProductsParams) (int64, error) {
	return 0, nil
}
func (r *stubRepo) DeleteProduct(ctx context.Context, id uint64) error { return nil }

func (r *stubRepo) InsertRawSnapshot(ctx context.Context, item *models.RawSnapshot) error {
	r.nextID++
	item.ID = r.nextID
	r.snapshots = append(r.snapshots, item)
	return nil
}

func (r *stubRepo) UpsertMarketDataTx(ctx context.Context, tx *gorm.DB, rows []models.MarketData) error {
	r.marketRows = append(r.marketRows, rows...)
	return nil
}

func (r *stubRepo) ListMarketData(ctx context.Context, params repository.ListMarketDataParams) ([]models.MarketData, error) {
	return nil, nil
}
func (r *stubRepo) CountMarketData(ctx context.Context, params repository.ListMarketDataParams) (int64, error) {
	return 0, nil
}
func (r *stubRepo) ListLatestPrices(ctx context.Context, params repository.ListLatestPricesParams) ([]models.LatestPrice, error) {
	return nil, nil
}

func (r *stubRepo) GetLatestPrice(ctx context.Context, provider, styleID, sizeKey string) (*models.LatestPrice, error) {
	if item, ok := r.latestPrices[provider+"|"+styleID+"|"+sizeKey]; ok {
		return &item, nil
	}
	return nil, nil
}

func (r *stubRepo) InsertInventoryItem(ctx context.Context, item *models.InventoryItem) error {
	r.nextID++
	item.ID = r.nextID
	r.items[item.ID] = item
	return nil
}

func (r *stubRepo) GetInventoryItemByID(ctx context.Context, id uint64) (*models.InventoryItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	copied := *item
	return &copied, nil
}

func (r *stubRepo) ListInventoryItems(ctx context.Context, params repository.ListInventoryParams) ([]models.InventoryItem, error) {
	out := make([]models.InventoryItem, 0, len(r.items))
	for _, item := range r.items {
		if len(params.Statuses) > 0 && !containsString(params.Statuses, item.Status) {
			continue
		}
		out = append(out, *item)
	}
	return out, nil
}

func (r *stubRepo) CountInventoryItems(ctx context.Context, params repository.ListInventoryParams) (int64, error) {
	return int64(len(r.items)), nil
}
func (r *stubRepo) UpdateInventoryItem(ctx context.Context, item *models.InventoryItem) error {
	r.items[item.ID] = item
	return nil
}

func (r *stubRepo) UpdateInventoryItemStatus(ctx context.Context, id uint64, status string) error {
	return r.UpdateInventoryItemStatusTx(ctx, nil, id, status)
}

func (r *stubRepo) UpdateInventoryItemStatusTx(ctx context.Context, tx *gorm.DB, id uint64, status string) error {
	item, ok := r.items[id]
	if !ok {
		return fmt.Errorf("item %d not found", id)
	}
	item.Status = status
	return nil
}

func (r *stubRepo) DeleteInventoryItem(ctx context.Context, id uint64) error {
	delete(r.items, id)
	return nil
}

func (r *stubRepo) ListActiveStyleIDs(ctx context.Context) ([]string, error) {
	return r.active, nil
}

func (r *stubRepo) InsertListing(ctx context.Context, item *models.Listing) error { return nil }
func (r *stubRepo) GetListingByID(ctx context.Context, id uint64) (*models.Listing, error) {
	return nil, nil
}
func (r *stubRepo) ListListings(ctx context.Context, params repository.ListListingsParams) ([]models.Listing, error) {
	return nil, nil
}
func (r *stubRepo) CountListings(ctx context.Context, params repository.ListListingsParams) (int64, error) {
	return 0, nil
}
func (r *stubRepo) UpdateListing(ctx context.Context, item *models.Listing) error { return nil }
func (r *stubRepo) UpdateListingStatus(ctx context.Context, id uint64, status string) error {
	return nil
}
func (r *stubRepo) DeleteListing(ctx context.Context, id uint64) error { return nil }

func (r *stubRepo) InsertSaleTx(ctx context.Context, tx *gorm.DB, item *models.Sale) error {
	for _, existing := range r.sales {
		if existing.InventoryItemID == item.InventoryItemID {
			return fmt.Errorf("duplicate sale for item %d", item.InventoryItemID)
		}
	}
	r.nextID++
	item.ID = r.nextID
	r.sales = append(r.sales, item)
	return nil
}

func (r *stubRepo) GetSaleByID(ctx context.Context, id uint64) (*models.Sale, error) {
	return nil, nil
}

func (r *stubRepo) ListSales(ctx context.Context, params repository.ListSalesParams) ([]models.Sale, error) {
	return r.listSalesResult, nil
}
func (r *stubRepo) CountSales(ctx context.Context, params repository.ListSalesParams) (int64, error) {
	return int64(len(r.sales)), nil
}
func (r *stubRepo) DeleteSale(ctx context.Context, id uint64) error { return nil }

func (r *stubRepo) SalesSummary(ctx context.Context, since, until *time.Time) (repository.SalesSummary, error) {
	return r.salesSummary, nil
}

func (r *stubRepo) SumRealizedMargin(ctx context.Context) (decimal.Decimal, error) {
	return r.realizedMargin, nil
}

func (r *stubRepo) InsertExpense(ctx context.Context, item *models.Expense) error { return nil }
func (r *stubRepo) GetExpenseByID(ctx context.Context, id uint64) (*models.Expense, error) {
	return nil, nil
}
func (r *stubRepo) ListExpenses(ctx context.Context, params repository.ListExpensesParams) ([]models.Expense, error) {
	return nil, nil
}
func (r *stubRepo) CountExpenses(ctx context.Context, params repository.ListExpensesParams) (int64, error) {
	return 0, nil
}
func (r *stubRepo) UpdateExpense(ctx context.Context, item *models.Expense) error { return nil }
func (r *stubRepo) DeleteExpense(ctx context.Context, id uint64) error { return nil }

func (r *stubRepo) SumExpenses(ctx context.Context, since, until *time.Time) (decimal.Decimal, error) {
	return r.expensesSum, nil
}

func (r *stubRepo) InsertWatchItem(ctx context.Context, item *models.WatchItem) error { return nil }
func (r *stubRepo) ListWatchItems(ctx context.Context, params repository.ListWatchItemsParams) ([]models.WatchItem, error) {
	return nil, nil
}
func (r *stubRepo) CountWatchItems(ctx context.Context, params repository.ListWatchItemsParams) (int64, error) {
	return 0, nil
}
func (r *stubRepo) DeleteWatchItem(ctx context.Context, id uint64) error { return nil }

func (r *stubRepo) ListWatchedStyleIDs(ctx context.Context) ([]string, error) {
	return r.watched, nil
}

func (r *stubRepo) GetSyncState(ctx context.Context, scope string) (*models.SyncState, error) {
	if state, ok := r.syncStates[scope]; ok {
		return &state, nil
	}
	return nil, nil
}

func (r *stubRepo) SaveSyncStateTx(ctx context.Context, tx *gorm.DB, state *models.SyncState) error {
	r.syncStates[state.Scope] = *state
	return nil
}

func (r *stubRepo) ListSyncStates(ctx context.Context) ([]models.SyncState, error) {
	out := make([]models.SyncState, 0, len(r.syncStates))
	for _, state := range r.syncStates {
		out = append(out, state)
	}
	return out, nil
}

func (r *stubRepo) UpsertProviderHealth(ctx context.Context, item *models.ProviderHealth) error {
	r.health[item.Provider] = *item
	return nil
}

func (r *stubRepo) ListProviderHealth(ctx context.Context) ([]models.ProviderHealth, error) {
	out := make([]models.ProviderHealth, 0, len(r.health))
	for _, item := range r.health {
		out = append(out, item)
	}
	return out, nil
}

func (r *stubRepo) InsertValuationSnapshot(ctx context.Context, item *models.ValuationSnapshot) error {
	r.valuations = append(r.valuations, item)
	return nil
}

func (r *stubRepo) ListValuationSnapshots(ctx context.Context, params repository.ListValuationSnapshotsParams) ([]models.ValuationSnapshot, error) {
	return nil, nil
}

func (r *stubRepo) UpsertSystemSetting(ctx context.Context, item *models.SystemSetting) error {
	r.settings[item.Key] = *item
	return nil
}

func (r *stubRepo) GetSystemSettingByKey(ctx context.Context, key string) (*models.SystemSetting, error) {
	if item, ok := r.settings[key]; ok {
		return &item, nil
	}
	return nil, nil
}

func (r *stubRepo) ListSystemSettings(ctx context.Context) ([]models.SystemSetting, error) {
	out := make([]models.SystemSetting, 0, len(r.settings))
	for _, item := range r.settings {
		out = append(out, item)
	}
	return out, nil
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

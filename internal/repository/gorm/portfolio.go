package gormrepository

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"soletrack/internal/models"
	"soletrack/internal/repository"
)

func (s *Store) InsertInventoryItem(ctx context.Context, item *models.InventoryItem) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetInventoryItemByID(ctx context.Context, id uint64) (*models.InventoryItem, error) {
	if s == nil || s.db == nil || id == 0 {
		return nil, nil
	}
	var item models.InventoryItem
	err := s.db.WithContext(ctx).First(&item, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListInventoryItems(ctx context.Context, params repository.ListInventoryParams) ([]models.InventoryItem, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.inventoryQuery(ctx, params)
	query = applyOrder(query, params.OrderBy, params.Asc, "created_at")
	var items []models.InventoryItem
	if err := query.Limit(normalizeLimit(params.Limit, 50)).Offset(normalizeOffset(params.Offset)).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountInventoryItems(ctx context.Context, params repository.ListInventoryParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := s.inventoryQuery(ctx, params).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) inventoryQuery(ctx context.Context, params repository.ListInventoryParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.InventoryItem{})
	if params.Status != nil && strings.TrimSpace(*params.Status) != "" {
		query = query.Where("status = ?", strings.TrimSpace(*params.Status))
	}
	if len(params.Statuses) > 0 {
		query = query.Where("status IN ?", params.Statuses)
	}
	if params.StyleID != nil && strings.TrimSpace(*params.StyleID) != "" {
		query = query.Where("style_id = ?", strings.TrimSpace(*params.StyleID))
	}
	if params.SizeKey != nil && strings.TrimSpace(*params.SizeKey) != "" {
		query = query.Where("size_key = ?", strings.TrimSpace(*params.SizeKey))
	}
	return query
}

func (s *Store) UpdateInventoryItem(ctx context.Context, item *models.InventoryItem) error {
	if s == nil || s.db == nil || item == nil || item.ID == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *Store) UpdateInventoryItemStatus(ctx context.Context, id uint64, status string) error {
	if s == nil || s.db == nil || id == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (s *Store) UpdateInventoryItemStatusTx(ctx context.Context, tx *gorm.DB, id uint64, status string) error {
	if s == nil || id == 0 {
		return nil
	}
	db := tx
	if db == nil {
		db = s.db
	}
	if db == nil {
		return nil
	}
	return db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (s *Store) DeleteInventoryItem(ctx context.Context, id uint64) error {
	if s == nil || s.db == nil || id == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&models.InventoryItem{}, id).Error
}

// ListActiveStyleIDs returns distinct style IDs for unsold inventory. The
// ingest service merges these with the watchlist to build a sync run.
func (s *Store) ListActiveStyleIDs(ctx context.Context) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("status IN ?", []string{models.ItemStatusInStock, models.ItemStatusListed, models.ItemStatusConsigned}).
		Distinct().
		Order("style_id asc").
		Pluck("style_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// --- Listings ---------------------------------------------------------------

func (s *Store) InsertListing(ctx context.Context, item *models.Listing) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetListingByID(ctx context.Context, id uint64) (*models.Listing, error) {
	if s == nil || s.db == nil || id == 0 {
		return nil, nil
	}
	var item models.Listing
	err := s.db.WithContext(ctx).First(&item, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListListings(ctx context.Context, params repository.ListListingsParams) ([]models.Listing, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.listingQuery(ctx, params)
	query = applyOrder(query, params.OrderBy, params.Asc, "created_at")
	var items []models.Listing
	if err := query.Limit(normalizeLimit(params.Limit, 50)).Offset(normalizeOffset(params.Offset)).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountListings(ctx context.Context, params repository.ListListingsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := s.listingQuery(ctx, params).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) listingQuery(ctx context.Context, params repository.ListListingsParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Listing{})
	if params.Provider != nil && strings.TrimSpace(*params.Provider) != "" {
		query = query.Where("provider = ?", strings.TrimSpace(*params.Provider))
	}
	if params.Status != nil && strings.TrimSpace(*params.Status) != "" {
		query = query.Where("status = ?", strings.TrimSpace(*params.Status))
	}
	if params.InventoryItemID != nil && *params.InventoryItemID > 0 {
		query = query.Where("inventory_item_id = ?", *params.InventoryItemID)
	}
	return query
}

func (s *Store) UpdateListing(ctx context.Context, item *models.Listing) error {
	if s == nil || s.db == nil || item == nil || item.ID == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *Store) UpdateListingStatus(ctx context.Context, id uint64, status string) error {
	if s == nil || s.db == nil || id == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (s *Store) DeleteListing(ctx context.Context, id uint64) error {
	if s == nil || s.db == nil || id == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&models.Listing{}, id).Error
}

// --- Sales ------------------------------------------------------------------

func (s *Store) InsertSaleTx(ctx context.Context, tx *gorm.DB, item *models.Sale) error {
	if s == nil || item == nil {
		return nil
	}
	db := tx
	if db == nil {
		db = s.db
	}
	if db == nil {
		return nil
	}
	return db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetSaleByID(ctx context.Context, id uint64) (*models.Sale, error) {
	if s == nil || s.db == nil || id == 0 {
		return nil, nil
	}
	var item models.Sale
	err := s.db.WithContext(ctx).First(&item, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListSales(ctx context.Context, params repository.ListSalesParams) ([]models.Sale, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.salesQuery(ctx, params)
	query = applyOrder(query, params.OrderBy, params.Asc, "sold_at")
	var items []models.Sale
	if err := query.Limit(normalizeLimit(params.Limit, 50)).Offset(normalizeOffset(params.Offset)).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountSales(ctx context.Context, params repository.ListSalesParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := s.salesQuery(ctx, params).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) salesQuery(ctx context.Context, params repository.ListSalesParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Sale{})
	if params.StyleID != nil && strings.TrimSpace(*params.StyleID) != "" {
		query = query.Where("style_id = ?", strings.TrimSpace(*params.StyleID))
	}
	if params.Platform != nil && strings.TrimSpace(*params.Platform) != "" {
		query = query.Where("platform = ?", strings.TrimSpace(*params.Platform))
	}
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("sold_at >= ?", *params.Since)
	}
	if params.Until != nil && !params.Until.IsZero() {
		query = query.Where("sold_at < ?", *params.Until)
	}
	return query
}

func (s *Store) DeleteSale(ctx context.Context, id uint64) error {
	if s == nil || s.db == nil || id == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&models.Sale{}, id).Error
}

func (s *Store) SalesSummary(ctx context.Context, since, until *time.Time) (repository.SalesSummary, error) {
	var summary repository.SalesSummary
	if s == nil || s.db == nil {
		return summary, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Sale{})
	if since != nil && !since.IsZero() {
		query = query.Where("sold_at >= ?", *since)
	}
	if until != nil && !until.IsZero() {
		query = query.Where("sold_at < ?", *until)
	}
	row := struct {
		Count            int64
		TotalRevenue     decimal.Decimal
		TotalFees        decimal.Decimal
		TotalShippingOut decimal.Decimal
		TotalMargin      decimal.Decimal
	}{}
	err := query.Select(
		"COUNT(*) AS count, " +
			"COALESCE(SUM(sold_price), 0) AS total_revenue, " +
			"COALESCE(SUM(fees), 0) AS total_fees, " +
			"COALESCE(SUM(shipping_out), 0) AS total_shipping_out, " +
			"COALESCE(SUM(margin), 0) AS total_margin",
	).Scan(&row).Error
	if err != nil {
		return summary, err
	}
	summary.Count = row.Count
	summary.TotalRevenue = row.TotalRevenue
	summary.TotalFees = row.TotalFees
	summary.TotalShippingOut = row.TotalShippingOut
	summary.TotalMargin = row.TotalMargin
	return summary, nil
}

func (s *Store) SumRealizedMargin(ctx context.Context) (decimal.Decimal, error) {
	if s == nil || s.db == nil {
		return decimal.Zero, nil
	}
	var total decimal.Decimal
	err := s.db.WithContext(ctx).
		Model(&models.Sale{}).
		Select("COALESCE(SUM(margin), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// --- Expenses ---------------------------------------------------------------

func (s *Store) InsertExpense(ctx context.Context, item *models.Expense) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetExpenseByID(ctx context.Context, id uint64) (*models.Expense, error) {
	if s == nil || s.db == nil || id == 0 {
		return nil, nil
	}
	var item models.Expense
	err := s.db.WithContext(ctx).First(&item, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListExpenses(ctx context.Context, params repository.ListExpensesParams) ([]models.Expense, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.expenseQuery(ctx, params)
	query = applyOrder(query, params.OrderBy, params.Asc, "incurred_at")
	var items []models.Expense
	if err := query.Limit(normalizeLimit(params.Limit, 50)).Offset(normalizeOffset(params.Offset)).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountExpenses(ctx context.Context, params repository.ListExpensesParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := s.expenseQuery(ctx, params).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) expenseQuery(ctx context.Context, params repository.ListExpensesParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Expense{})
	if params.Category != nil && strings.TrimSpace(*params.Category) != "" {
		query = query.Where("category = ?", strings.TrimSpace(*params.Category))
	}
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("incurred_at >= ?", *params.Since)
	}
	if params.Until != nil && !params.Until.IsZero() {
		query = query.Where("incurred_at < ?", *params.Until)
	}
	return query
}

func (s *Store) UpdateExpense(ctx context.Context, item *models.Expense) error {
	if s == nil || s.db == nil || item == nil || item.ID == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *Store) DeleteExpense(ctx context.Context, id uint64) error {
	if s == nil || s.db == nil || id == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&models.Expense{}, id).Error
}

func (s *Store) SumExpenses(ctx context.Context, since, until *time.Time) (decimal.Decimal, error) {
	if s == nil || s.db == nil {
		return decimal.Zero, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Expense{})
	if since != nil && !since.IsZero() {
		query = query.Where("incurred_at >= ?", *since)
	}
	if until != nil && !until.IsZero() {
		query = query.Where("incurred_at < ?", *until)
	}
	var total decimal.Decimal
	err := query.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// --- Watchlist --------------------------------------------------------------

func (s *Store) InsertWatchItem(ctx context.Context, item *models.WatchItem) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListWatchItems(ctx context.Context, params repository.ListWatchItemsParams) ([]models.WatchItem, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.watchQuery(ctx, params)
	var items []models.WatchItem
	if err := query.
		Order("created_at desc").
		Limit(normalizeLimit(params.Limit, 100)).
		Offset(normalizeOffset(params.Offset)).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountWatchItems(ctx context.Context, params repository.ListWatchItemsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := s.watchQuery(ctx, params).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) watchQuery(ctx context.Context, params repository.ListWatchItemsParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.WatchItem{})
	if params.StyleID != nil && strings.TrimSpace(*params.StyleID) != "" {
		query = query.Where("style_id = ?", strings.TrimSpace(*params.StyleID))
	}
	if params.Provider != nil && strings.TrimSpace(*params.Provider) != "" {
		query = query.Where("provider = ?", strings.TrimSpace(*params.Provider))
	}
	return query
}

func (s *Store) DeleteWatchItem(ctx context.Context, id uint64) error {
	if s == nil || s.db == nil || id == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&models.WatchItem{}, id).Error
}

func (s *Store) ListWatchedStyleIDs(ctx context.Context) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&models.WatchItem{}).
		Distinct().
		Order("style_id asc").
		Pluck("style_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

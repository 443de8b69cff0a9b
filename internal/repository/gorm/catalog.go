package gormrepository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"soletrack/internal/models"
	"soletrack/internal/repository"
)

func (s *Store) UpsertProduct(ctx context.Context, item *models.Product) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	if strings.TrimSpace(item.StyleID) == "" {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "style_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title",
			"brand",
			"colorway",
			"retail_price",
			"currency",
			"release_date",
			"image_url",
			"updated_at",
		}),
	}).Create(item).Error
}

func (s *Store) GetProductByStyleID(ctx context.Context, styleID string) (*models.Product, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	styleID = strings.TrimSpace(styleID)
	if styleID == "" {
		return nil, nil
	}
	var item models.Product
	err := s.db.WithContext(ctx).Model(&models.Product{}).Where("style_id = ?", styleID).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListProducts(ctx context.Context, params repository.ListProductsParams) ([]models.Product, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.productQuery(ctx, params)
	query = applyOrder(query, params.OrderBy, params.Asc, "created_at")
	var items []models.Product
	if err := query.Limit(normalizeLimit(params.Limit, 50)).Offset(normalizeOffset(params.Offset)).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountProducts(ctx context.Context, params repository.ListProductsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := s.productQuery(ctx, params).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) productQuery(ctx context.Context, params repository.ListProductsParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Product{})
	if params.Brand != nil && strings.TrimSpace(*params.Brand) != "" {
		query = query.Where("brand = ?", strings.TrimSpace(*params.Brand))
	}
	if params.Search != nil && strings.TrimSpace(*params.Search) != "" {
		like := "%" + strings.TrimSpace(*params.Search) + "%"
		query = query.Where("title ILIKE ? OR style_id ILIKE ?", like, like)
	}
	return query
}

func (s *Store) DeleteProduct(ctx context.Context, id uint64) error {
	if s == nil || s.db == nil || id == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&models.Product{}, id).Error
}

// --- Market data ------------------------------------------------------------

func (s *Store) InsertRawSnapshot(ctx context.Context, item *models.RawSnapshot) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

// UpsertMarketDataTx writes normalized rows inside the ingest transaction.
// The conflict target is the full pricing key including the snapshot minute,
// so re-ingesting within the same minute refreshes prices instead of
// inserting a duplicate row.
func (s *Store) UpsertMarketDataTx(ctx context.Context, tx *gorm.DB, rows []models.MarketData) error {
	if s == nil || len(rows) == 0 {
		return nil
	}
	db := tx
	if db == nil {
		db = s.db
	}
	if db == nil {
		return nil
	}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider"},
			{Name: "style_id"},
			{Name: "size_key"},
			{Name: "currency_code"},
			{Name: "is_flex"},
			{Name: "is_consigned"},
			{Name: "region"},
			{Name: "snapshot_minute"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"lowest_ask",
			"highest_bid",
			"last_sale_price",
			"sales72h",
			"avg_sale_price72h",
			"snapshot_at",
			"raw_snapshot_id",
			"updated_at",
		}),
	}).Create(&rows).Error
}

func (s *Store) ListMarketData(ctx context.Context, params repository.ListMarketDataParams) ([]models.MarketData, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.marketDataQuery(ctx, params)
	query = applyOrder(query, params.OrderBy, params.Asc, "snapshot_at")
	var items []models.MarketData
	if err := query.Limit(normalizeLimit(params.Limit, 200)).Offset(normalizeOffset(params.Offset)).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountMarketData(ctx context.Context, params repository.ListMarketDataParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := s.marketDataQuery(ctx, params).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) marketDataQuery(ctx context.Context, params repository.ListMarketDataParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.MarketData{})
	if params.Provider != nil && strings.TrimSpace(*params.Provider) != "" {
		query = query.Where("provider = ?", strings.TrimSpace(*params.Provider))
	}
	if params.StyleID != nil && strings.TrimSpace(*params.StyleID) != "" {
		query = query.Where("style_id = ?", strings.TrimSpace(*params.StyleID))
	}
	if params.SizeKey != nil && strings.TrimSpace(*params.SizeKey) != "" {
		query = query.Where("size_key = ?", strings.TrimSpace(*params.SizeKey))
	}
	if params.Currency != nil && strings.TrimSpace(*params.Currency) != "" {
		query = query.Where("currency_code = ?", strings.TrimSpace(*params.Currency))
	}
	if params.IsFlex != nil {
		query = query.Where("is_flex = ?", *params.IsFlex)
	}
	if params.IsConsigned != nil {
		query = query.Where("is_consigned = ?", *params.IsConsigned)
	}
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("snapshot_at >= ?", *params.Since)
	}
	return query
}

func (s *Store) ListLatestPrices(ctx context.Context, params repository.ListLatestPricesParams) ([]models.LatestPrice, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.LatestPrice{})
	if params.Provider != nil && strings.TrimSpace(*params.Provider) != "" {
		query = query.Where("provider = ?", strings.TrimSpace(*params.Provider))
	}
	if params.StyleID != nil && strings.TrimSpace(*params.StyleID) != "" {
		query = query.Where("style_id = ?", strings.TrimSpace(*params.StyleID))
	}
	if params.SizeKey != nil && strings.TrimSpace(*params.SizeKey) != "" {
		query = query.Where("size_key = ?", strings.TrimSpace(*params.SizeKey))
	}
	if params.IsFlex != nil {
		query = query.Where("is_flex = ?", *params.IsFlex)
	}
	if params.IsConsigned != nil {
		query = query.Where("is_consigned = ?", *params.IsConsigned)
	}
	var items []models.LatestPrice
	if err := query.
		Order("style_id asc, size_key asc, provider asc").
		Limit(normalizeLimit(params.Limit, 500)).
		Offset(normalizeOffset(params.Offset)).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetLatestPrice returns the standard-tier latest price for one size.
func (s *Store) GetLatestPrice(ctx context.Context, provider, styleID, sizeKey string) (*models.LatestPrice, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.LatestPrice
	err := s.db.WithContext(ctx).
		Model(&models.LatestPrice{}).
		Where("provider = ?", provider).
		Where("style_id = ?", styleID).
		Where("size_key = ?", sizeKey).
		Where("is_flex = ? AND is_consigned = ?", false, false).
		First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

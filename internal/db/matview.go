package db

// latest_prices is the newest market data row per pricing key. It backs the
// /market-data/latest endpoint and the valuation snapshot; it does NOT
// refresh itself — the cron runner or the refresh-view endpoint must call
// RefreshLatestPrices.
const createLatestPricesSQL = `
CREATE MATERIALIZED VIEW IF NOT EXISTS latest_prices AS
SELECT DISTINCT ON (provider, style_id, size_key, currency_code, is_flex, is_consigned, region)
       provider,
       style_id,
       size_key,
       currency_code,
       is_flex,
       is_consigned,
       region,
       lowest_ask,
       highest_bid,
       last_sale_price,
       snapshot_at
FROM market_data
ORDER BY provider, style_id, size_key, currency_code, is_flex, is_consigned, region, snapshot_at DESC`

const createLatestPricesIndexSQL = `
CREATE UNIQUE INDEX IF NOT EXISTS ux_latest_prices_key
ON latest_prices (provider, style_id, size_key, currency_code, is_flex, is_consigned, region)`

// EnsureLatestPricesView creates the materialized view and the unique index
// required for concurrent refreshes.
func EnsureLatestPricesView(db *DB) error {
	if db == nil || db.SQL == nil {
		return nil
	}
	if _, err := db.SQL.Exec(createLatestPricesSQL); err != nil {
		return err
	}
	_, err := db.SQL.Exec(createLatestPricesIndexSQL)
	return err
}

// RefreshLatestPrices refreshes the view without blocking readers.
func RefreshLatestPrices(db *DB) error {
	if db == nil || db.SQL == nil {
		return nil
	}
	_, err := db.SQL.Exec("REFRESH MATERIALIZED VIEW CONCURRENTLY latest_prices")
	return err
}

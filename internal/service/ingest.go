package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"soletrack/internal/cache"
	"soletrack/internal/models"
	"soletrack/internal/provider"
	"soletrack/internal/repository"
	"soletrack/internal/stream"
)

const latestPricesCachePrefix = "prices:"

// MarketIngestService drives the fetch → snapshot → normalize → upsert
// pipeline across all configured providers. One provider failing a style
// never blocks the other providers or the remaining styles.
type MarketIngestService struct {
	Repo      repository.Repository
	Providers []provider.Provider
	Settings  *SystemSettingsService
	Cache     cache.Cache
	Hub       *stream.Hub
	Logger    *zap.Logger

	SleepBetweenStyles time.Duration
	MaxStylesPerRun    int
	StaleAfter         time.Duration
}

type IngestOptions struct {
	StyleIDs  []string
	Providers []string
}

type IngestResult struct {
	RunID     string `json:"run_id"`
	Styles    int    `json:"styles"`
	Rows      int    `json:"rows"`
	Rejected  int    `json:"rejected"`
	Snapshots int    `json:"snapshots"`
	Errors    int    `json:"errors"`
	Skipped   bool   `json:"skipped,omitempty"`
}

// SyncWatchlist ingests every watched style plus every style with unsold
// inventory. This is the scheduled entrypoint.
func (s *MarketIngestService) SyncWatchlist(ctx context.Context) (IngestResult, error) {
	if s == nil || s.Repo == nil {
		return IngestResult{}, fmt.Errorf("ingest service not configured")
	}
	if s.Settings != nil && !s.Settings.IsEnabled(ctx, FeatureMarketSync, true) {
		if s.Logger != nil {
			s.Logger.Info("market sync disabled by feature switch")
		}
		return IngestResult{Skipped: true}, nil
	}

	watched, err := s.Repo.ListWatchedStyleIDs(ctx)
	if err != nil {
		return IngestResult{}, err
	}
	active, err := s.Repo.ListActiveStyleIDs(ctx)
	if err != nil {
		return IngestResult{}, err
	}
	styleIDs := mergeStyleIDs(watched, active)

	result, err := s.SyncStyles(ctx, IngestOptions{StyleIDs: styleIDs})

	now := time.Now().UTC()
	state := &models.SyncState{
		Scope:         "watchlist",
		LastAttemptAt: &now,
		StatsJSON: statsJSON(map[string]int{
			"styles":   result.Styles,
			"rows":     result.Rows,
			"rejected": result.Rejected,
			"errors":   result.Errors,
		}),
	}
	if err != nil {
		state.LastError = strPtr(err.Error())
	} else {
		state.LastSuccessAt = &now
	}
	saveErr := s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		return s.Repo.SaveSyncStateTx(ctx, tx, state)
	})
	if saveErr != nil && s.Logger != nil {
		s.Logger.Warn("save watchlist sync state", zap.Error(saveErr))
	}
	return result, err
}

// SyncStyles ingests the given styles across the configured providers. The
// fixed sleep between styles is deliberate pacing against provider rate
// limits; there is no retry or backoff on failure.
func (s *MarketIngestService) SyncStyles(ctx context.Context, opts IngestOptions) (IngestResult, error) {
	if s == nil || s.Repo == nil {
		return IngestResult{}, fmt.Errorf("ingest service not configured")
	}
	result := IngestResult{RunID: uuid.NewString()}

	styleIDs := dedupeStyleIDs(opts.StyleIDs)
	if s.MaxStylesPerRun > 0 && len(styleIDs) > s.MaxStylesPerRun {
		styleIDs = styleIDs[:s.MaxStylesPerRun]
	}
	if len(styleIDs) == 0 {
		return result, nil
	}

	providers := s.selectProviders(opts.Providers)
	if len(providers) == 0 {
		return result, fmt.Errorf("no providers configured")
	}

	health := s.loadProviderHealth(ctx)
	includeFlex := s.Settings == nil || s.Settings.IsEnabled(ctx, FeatureFlexPricing, true)
	includeConsigned := s.Settings == nil || s.Settings.IsEnabled(ctx, FeatureConsignedPricing, true)

	for i, styleID := range styleIDs {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		for _, p := range providers {
			rows, snapshots, rejected, err := s.ingestStyle(ctx, p, styleID, result.RunID, includeFlex, includeConsigned)
			result.Snapshots += snapshots
			result.Rejected += rejected
			if err != nil {
				result.Errors++
				s.markProviderError(ctx, health, p.Name(), err)
				if s.Logger != nil {
					s.Logger.Warn("ingest style failed",
						zap.String("provider", p.Name()),
						zap.String("style_id", styleID),
						zap.Error(err))
				}
				continue
			}
			result.Rows += rows
			s.markProviderSuccess(ctx, health, p.Name())
		}
		result.Styles++

		if s.SleepBetweenStyles > 0 && i < len(styleIDs)-1 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(s.SleepBetweenStyles):
			}
		}
	}

	if result.Rows > 0 {
		s.invalidateLatestPrices(ctx)
		s.publishSyncStatus(ctx, result)
	}
	return result, nil
}

func (s *MarketIngestService) ingestStyle(ctx context.Context, p provider.Provider, styleID, runID string, includeFlex, includeConsigned bool) (rows, snapshots, rejected int, err error) {
	payload, err := p.Fetch(ctx, styleID)
	if err != nil {
		return 0, 0, 0, err
	}

	pricingSnapshot := &models.RawSnapshot{
		Provider:     p.Name(),
		StyleID:      styleID,
		SnapshotType: "pricing",
		IngestRunID:  runID,
		FetchedAt:    payload.FetchedAt,
		Payload:      datatypes.JSON(payload.Pricing),
	}
	if err := s.Repo.InsertRawSnapshot(ctx, pricingSnapshot); err != nil {
		return 0, 0, 0, err
	}
	snapshots++

	if len(payload.Sales) > 0 {
		salesSnapshot := &models.RawSnapshot{
			Provider:     p.Name(),
			StyleID:      styleID,
			SnapshotType: "recent_sales",
			IngestRunID:  runID,
			FetchedAt:    payload.FetchedAt,
			Payload:      datatypes.JSON(payload.Sales),
		}
		if err := s.Repo.InsertRawSnapshot(ctx, salesSnapshot); err != nil {
			return 0, snapshots, 0, err
		}
		snapshots++
	}

	normalized, err := p.Normalize(payload)
	if err != nil {
		return 0, snapshots, 0, err
	}
	rejected = normalized.Rejected

	out := make([]models.MarketData, 0, len(normalized.Rows))
	for _, row := range normalized.Rows {
		if row.IsFlex && !includeFlex {
			continue
		}
		if row.IsConsigned && !includeConsigned {
			continue
		}
		row.RawSnapshotID = &pricingSnapshot.ID
		out = append(out, row)
	}
	if len(out) == 0 {
		return 0, snapshots, rejected, nil
	}

	now := time.Now().UTC()
	err = s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		if err := s.Repo.UpsertMarketDataTx(ctx, tx, out); err != nil {
			return err
		}
		state := &models.SyncState{
			Scope:         p.Name() + ":" + styleID,
			LastAttemptAt: &now,
			LastSuccessAt: &now,
			StatsJSON:     statsJSON(map[string]int{"rows": len(out), "rejected": rejected}),
		}
		return s.Repo.SaveSyncStateTx(ctx, tx, state)
	})
	if err != nil {
		return 0, snapshots, rejected, err
	}
	return len(out), snapshots, rejected, nil
}

func (s *MarketIngestService) selectProviders(names []string) []provider.Provider {
	if len(names) == 0 {
		return s.Providers
	}
	wanted := map[string]struct{}{}
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			wanted[name] = struct{}{}
		}
	}
	out := make([]provider.Provider, 0, len(s.Providers))
	for _, p := range s.Providers {
		if _, ok := wanted[p.Name()]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (s *MarketIngestService) loadProviderHealth(ctx context.Context) map[string]*models.ProviderHealth {
	out := map[string]*models.ProviderHealth{}
	items, err := s.Repo.ListProviderHealth(ctx)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn("load provider health", zap.Error(err))
		}
		return out
	}
	for i := range items {
		out[items[i].Provider] = &items[i]
	}
	return out
}

func (s *MarketIngestService) markProviderSuccess(ctx context.Context, health map[string]*models.ProviderHealth, name string) {
	now := time.Now().UTC()
	item, ok := health[name]
	if !ok {
		item = &models.ProviderHealth{Provider: name}
		health[name] = item
	}
	item.LastSuccessAt = &now
	item.LastAttemptAt = &now
	item.DataAgeSeconds = 0
	item.Stale = false
	item.ConsecutiveErrors = 0
	item.Reason = nil
	item.UpdatedAt = now
	if err := s.Repo.UpsertProviderHealth(ctx, item); err != nil && s.Logger != nil {
		s.Logger.Warn("save provider health", zap.String("provider", name), zap.Error(err))
	}
}

func (s *MarketIngestService) markProviderError(ctx context.Context, health map[string]*models.ProviderHealth, name string, cause error) {
	now := time.Now().UTC()
	item, ok := health[name]
	if !ok {
		item = &models.ProviderHealth{Provider: name}
		health[name] = item
	}
	item.LastAttemptAt = &now
	item.ConsecutiveErrors++
	item.Reason = strPtr(cause.Error())
	if item.LastSuccessAt != nil {
		item.DataAgeSeconds = int(now.Sub(*item.LastSuccessAt).Seconds())
	}
	if s.StaleAfter > 0 && (item.LastSuccessAt == nil || now.Sub(*item.LastSuccessAt) > s.StaleAfter) {
		item.Stale = true
	}
	item.UpdatedAt = now
	if err := s.Repo.UpsertProviderHealth(ctx, item); err != nil && s.Logger != nil {
		s.Logger.Warn("save provider health", zap.String("provider", name), zap.Error(err))
	}
}

// HealthSweep recomputes freshness for every provider. Runs on a timer so a
// provider that stops being synced still flips to stale.
func (s *MarketIngestService) HealthSweep(ctx context.Context) error {
	if s == nil || s.Repo == nil {
		return nil
	}
	if s.Settings != nil && !s.Settings.IsEnabled(ctx, FeatureHealthSweep, true) {
		return nil
	}
	items, err := s.Repo.ListProviderHealth(ctx)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for i := range items {
		item := &items[i]
		if item.LastSuccessAt != nil {
			item.DataAgeSeconds = int(now.Sub(*item.LastSuccessAt).Seconds())
		}
		stale := item.LastSuccessAt == nil || (s.StaleAfter > 0 && now.Sub(*item.LastSuccessAt) > s.StaleAfter)
		if stale == item.Stale && item.LastSuccessAt == nil {
			continue
		}
		item.Stale = stale
		item.UpdatedAt = now
		if err := s.Repo.UpsertProviderHealth(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func (s *MarketIngestService) invalidateLatestPrices(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.DeletePrefix(ctx, latestPricesCachePrefix); err != nil && s.Logger != nil {
		s.Logger.Warn("invalidate price cache", zap.Error(err))
	}
}

func (s *MarketIngestService) publishSyncStatus(ctx context.Context, result IngestResult) {
	if s.Hub == nil {
		return
	}
	if s.Settings != nil && !s.Settings.IsEnabled(ctx, FeatureStream, true) {
		return
	}
	s.Hub.Publish(stream.EventSyncStatus, result)
}

func dedupeStyleIDs(ids []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.ToUpper(strings.TrimSpace(id))
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func mergeStyleIDs(lists ...[]string) []string {
	merged := make([]string, 0)
	for _, list := range lists {
		merged = append(merged, list...)
	}
	out := dedupeStyleIDs(merged)
	sort.Strings(out)
	return out
}

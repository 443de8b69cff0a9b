package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"soletrack/internal/models"
	"soletrack/internal/provider"
)

// stubProvider returns canned normalize results and records which styles
// were fetched.
type stubProvider struct {
	name     string
	rows     []models.MarketData
	rejected int
	fetchErr error
	sales    []byte
	fetched  []string
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Fetch(ctx context.Context, styleID string) (*provider.RawPayload, error) {
	p.fetched = append(p.fetched, styleID)
	if p.fetchErr != nil {
		return nil, p.fetchErr
	}
	return &provider.RawPayload{
		Provider:  p.name,
		StyleID:   styleID,
		FetchedAt: time.Now().UTC(),
		Pricing:   []byte(`{"ok":true}`),
		Sales:     p.sales,
	}, nil
}

func (p *stubProvider) Normalize(payload *provider.RawPayload) (provider.NormalizeResult, error) {
	rows := make([]models.MarketData, len(p.rows))
	copy(rows, p.rows)
	for i := range rows {
		rows[i].Provider = p.name
		rows[i].StyleID = payload.StyleID
	}
	return provider.NormalizeResult{Rows: rows, Rejected: p.rejected}, nil
}

func TestSyncStyles_UpsertsRowsAndState(t *testing.T) {
	repo := newStubRepo()
	prov := &stubProvider{
		name: "stockx",
		rows: []models.MarketData{
			{SizeKey: "US 9", CurrencyCode: "GBP", Region: "UK"},
			{SizeKey: "US 10", CurrencyCode: "GBP", Region: "UK"},
		},
		rejected: 1,
	}
	svc := &MarketIngestService{
		Repo:      repo,
		Providers: []provider.Provider{prov},
		Settings:  &SystemSettingsService{Repo: repo},
	}

	result, err := svc.SyncStyles(context.Background(), IngestOptions{
		StyleIDs: []string{"dd1391-100", "DD1391-100", " "},
	})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Styles != 1 {
		t.Fatalf("styles=%d want 1 after dedupe", result.Styles)
	}
	if result.Rows != 2 || result.Rejected != 1 || result.Snapshots != 1 {
		t.Fatalf("rows=%d rejected=%d snapshots=%d", result.Rows, result.Rejected, result.Snapshots)
	}
	if len(prov.fetched) != 1 || prov.fetched[0] != "DD1391-100" {
		t.Fatalf("fetched=%v, style ids should be upper-cased and deduped", prov.fetched)
	}

	if len(repo.marketRows) != 2 {
		t.Fatalf("stored rows=%d want 2", len(repo.marketRows))
	}
	for _, row := range repo.marketRows {
		if row.RawSnapshotID == nil || *row.RawSnapshotID == 0 {
			t.Fatalf("rows must reference the pricing snapshot")
		}
	}

	state, _ := repo.GetSyncState(context.Background(), "stockx:DD1391-100")
	if state == nil || state.LastSuccessAt == nil {
		t.Fatalf("per-style sync state missing: %+v", state)
	}
	health := repo.health["stockx"]
	if health.LastSuccessAt == nil || health.Stale || health.ConsecutiveErrors != 0 {
		t.Fatalf("health=%+v", health)
	}
}

func TestSyncStyles_FlexRowsFilteredBySwitch(t *testing.T) {
	repo := newStubRepo()
	repo.setSwitch(FeatureFlexPricing, false)
	prov := &stubProvider{
		name: "alias",
		rows: []models.MarketData{
			{SizeKey: "US 9"},
			{SizeKey: "US 9", IsFlex: true},
			{SizeKey: "US 9", IsConsigned: true},
		},
	}
	svc := &MarketIngestService{
		Repo:      repo,
		Providers: []provider.Provider{prov},
		Settings:  &SystemSettingsService{Repo: repo},
	}

	result, err := svc.SyncStyles(context.Background(), IngestOptions{StyleIDs: []string{"DD1391-100"}})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Rows != 2 {
		t.Fatalf("rows=%d want 2 (flex filtered, consigned kept)", result.Rows)
	}
	for _, row := range repo.marketRows {
		if row.IsFlex {
			t.Fatalf("flex row should have been dropped")
		}
	}
}

func TestSyncStyles_RecordsSalesSnapshot(t *testing.T) {
	repo := newStubRepo()
	prov := &stubProvider{
		name:  "alias",
		rows:  []models.MarketData{{SizeKey: "US 9"}},
		sales: []byte(`{"9":{}}`),
	}
	svc := &MarketIngestService{Repo: repo, Providers: []provider.Provider{prov}}

	result, err := svc.SyncStyles(context.Background(), IngestOptions{StyleIDs: []string{"DD1391-100"}})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Snapshots != 2 {
		t.Fatalf("snapshots=%d want 2 (pricing plus recent_sales)", result.Snapshots)
	}
	types := map[string]int{}
	for _, snap := range repo.snapshots {
		types[snap.SnapshotType]++
	}
	if types["pricing"] != 1 || types["recent_sales"] != 1 {
		t.Fatalf("snapshot types=%v", types)
	}
}

func TestSyncStyles_ProviderErrorDoesNotAbortRun(t *testing.T) {
	repo := newStubRepo()
	bad := &stubProvider{name: "stockx", fetchErr: fmt.Errorf("upstream 503")}
	good := &stubProvider{name: "alias", rows: []models.MarketData{{SizeKey: "US 9"}}}
	svc := &MarketIngestService{Repo: repo, Providers: []provider.Provider{bad, good}}

	result, err := svc.SyncStyles(context.Background(), IngestOptions{StyleIDs: []string{"DD1391-100"}})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Errors != 1 || result.Rows != 1 {
		t.Fatalf("errors=%d rows=%d", result.Errors, result.Rows)
	}

	health := repo.health["stockx"]
	if health.ConsecutiveErrors != 1 || health.Reason == nil {
		t.Fatalf("stockx health=%+v", health)
	}
	if repo.health["alias"].ConsecutiveErrors != 0 {
		t.Fatalf("alias health should be clean")
	}
}

func TestSyncStyles_MaxStylesCap(t *testing.T) {
	repo := newStubRepo()
	prov := &stubProvider{name: "stockx", rows: []models.MarketData{{SizeKey: "US 9"}}}
	svc := &MarketIngestService{
		Repo:            repo,
		Providers:       []provider.Provider{prov},
		MaxStylesPerRun: 2,
	}

	result, err := svc.SyncStyles(context.Background(), IngestOptions{
		StyleIDs: []string{"A1", "B2", "C3", "D4"},
	})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Styles != 2 {
		t.Fatalf("styles=%d want 2", result.Styles)
	}
}

func TestSyncStyles_ProviderFilter(t *testing.T) {
	repo := newStubRepo()
	stockx := &stubProvider{name: "stockx", rows: []models.MarketData{{SizeKey: "US 9"}}}
	alias := &stubProvider{name: "alias", rows: []models.MarketData{{SizeKey: "US 9"}}}
	svc := &MarketIngestService{Repo: repo, Providers: []provider.Provider{stockx, alias}}

	_, err := svc.SyncStyles(context.Background(), IngestOptions{
		StyleIDs:  []string{"DD1391-100"},
		Providers: []string{"Alias"},
	})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if len(stockx.fetched) != 0 {
		t.Fatalf("stockx should not have been called")
	}
	if len(alias.fetched) != 1 {
		t.Fatalf("alias fetched=%v", alias.fetched)
	}
}

func TestSyncWatchlist_DisabledByFeatureSwitch(t *testing.T) {
	repo := newStubRepo()
	repo.setSwitch(FeatureMarketSync, false)
	prov := &stubProvider{name: "stockx"}
	svc := &MarketIngestService{
		Repo:      repo,
		Providers: []provider.Provider{prov},
		Settings:  &SystemSettingsService{Repo: repo},
	}

	result, err := svc.SyncWatchlist(context.Background())
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if !result.Skipped {
		t.Fatalf("run should be skipped when the switch is off")
	}
	if len(prov.fetched) != 0 {
		t.Fatalf("no fetches expected, got %v", prov.fetched)
	}
}

func TestSyncWatchlist_MergesWatchedAndActive(t *testing.T) {
	repo := newStubRepo()
	repo.watched = []string{"DD1391-100", "DZ5485-612"}
	repo.active = []string{"dd1391-100", "CT8532-104"}
	prov := &stubProvider{name: "stockx", rows: []models.MarketData{{SizeKey: "US 9"}}}
	svc := &MarketIngestService{Repo: repo, Providers: []provider.Provider{prov}}

	result, err := svc.SyncWatchlist(context.Background())
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Styles != 3 {
		t.Fatalf("styles=%d want 3 after merge and dedupe", result.Styles)
	}

	state, _ := repo.GetSyncState(context.Background(), "watchlist")
	if state == nil || state.LastSuccessAt == nil {
		t.Fatalf("watchlist sync state missing: %+v", state)
	}
}

func TestHealthSweep_MarksStale(t *testing.T) {
	repo := newStubRepo()
	old := time.Now().UTC().Add(-2 * time.Hour)
	repo.health["stockx"] = models.ProviderHealth{Provider: "stockx", LastSuccessAt: &old}
	svc := &MarketIngestService{Repo: repo, StaleAfter: time.Hour}

	if err := svc.HealthSweep(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	health := repo.health["stockx"]
	if !health.Stale {
		t.Fatalf("provider should be stale after %v without success", svc.StaleAfter)
	}
	if health.DataAgeSeconds < 7000 {
		t.Fatalf("data_age_seconds=%d", health.DataAgeSeconds)
	}
}

func TestMergeStyleIDs(t *testing.T) {
	got := mergeStyleIDs([]string{"b2", "A1"}, []string{"a1", "", "C3"})
	want := []string{"A1", "B2", "C3"}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

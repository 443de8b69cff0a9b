package service

import (
	"context"
	"testing"
)

func TestEnsureDefaultSwitches_InsertOnly(t *testing.T) {
	repo := newStubRepo()
	repo.setSwitch(FeatureMarketSync, false)

	svc := &SystemSettingsService{Repo: repo}
	if err := svc.EnsureDefaultSwitches(context.Background()); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	if len(repo.settings) != len(DefaultFeatureSwitches()) {
		t.Fatalf("settings=%d want %d", len(repo.settings), len(DefaultFeatureSwitches()))
	}
	// An operator's OFF must survive a restart.
	if svc.IsEnabled(context.Background(), FeatureMarketSync, true) {
		t.Fatalf("explicit OFF must not be upgraded to the default")
	}
	if !svc.IsEnabled(context.Background(), FeatureStream, false) {
		t.Fatalf("missing switches should be seeded as ON")
	}
}

func TestIsEnabled_Fallbacks(t *testing.T) {
	svc := &SystemSettingsService{Repo: newStubRepo()}
	if !svc.IsEnabled(context.Background(), "feature.unknown", true) {
		t.Fatalf("missing key should return fallback")
	}
	if svc.IsEnabled(context.Background(), "", true) == false {
		t.Fatalf("blank key should return fallback")
	}

	var nilSvc *SystemSettingsService
	if !nilSvc.IsEnabled(context.Background(), FeatureMarketSync, true) {
		t.Fatalf("nil service should return fallback")
	}
}

func TestSetEnabled_RoundTrip(t *testing.T) {
	repo := newStubRepo()
	svc := &SystemSettingsService{Repo: repo}

	if err := svc.SetEnabled(context.Background(), FeatureFlexPricing, false); err != nil {
		t.Fatalf("set: %v", err)
	}
	if svc.IsEnabled(context.Background(), FeatureFlexPricing, true) {
		t.Fatalf("switch should read back as OFF")
	}
	if err := svc.SetEnabled(context.Background(), FeatureFlexPricing, true); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !svc.IsEnabled(context.Background(), FeatureFlexPricing, false) {
		t.Fatalf("switch should read back as ON")
	}
}

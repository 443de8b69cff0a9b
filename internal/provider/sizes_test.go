package provider

import "testing"

func TestNormalizeSizeKey_AliasNumeric(t *testing.T) {
	got := NormalizeSizeKey("us", "8.5")
	if got != "US 8.5" {
		t.Fatalf("got %q want US 8.5", got)
	}
}

func TestNormalizeSizeKey_PrefixedLabel(t *testing.T) {
	got := NormalizeSizeKey("", "UK 10")
	if got != "UK 10" {
		t.Fatalf("got %q want UK 10", got)
	}
}

func TestNormalizeSizeKey_TrailingZero(t *testing.T) {
	got := NormalizeSizeKey("us", "9.0")
	if got != "US 9" {
		t.Fatalf("got %q want US 9", got)
	}
}

func TestNormalizeSizeKey_WomensSuffix(t *testing.T) {
	got := NormalizeSizeKey("us", "7.5W")
	if got != "US 7.5W" {
		t.Fatalf("got %q want US 7.5W", got)
	}
}

func TestNormalizeSizeKey_NonNumeric(t *testing.T) {
	got := NormalizeSizeKey("us", "xl")
	if got != "XL" {
		t.Fatalf("got %q want XL", got)
	}
}

func TestNormalizeSizeKey_Empty(t *testing.T) {
	if got := NormalizeSizeKey("us", "  "); got != "" {
		t.Fatalf("got %q want empty", got)
	}
}

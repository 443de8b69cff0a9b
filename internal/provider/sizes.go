package provider

import (
	"strconv"
	"strings"
)

// NormalizeSizeKey converts a provider-native size label into the canonical
// key stored in market data rows: "US 8", "US 8.5", "UK 10", or the
// upper-cased label for non-numeric sizes ("XL"). Alias sends bare numbers
// plus a size_unit; StockX sends labels that may already carry the system
// prefix.
func NormalizeSizeKey(unit, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	system := strings.ToUpper(strings.TrimSpace(unit))
	if system == "" {
		system = "US"
	}

	upper := strings.ToUpper(raw)
	for _, prefix := range []string{"US", "UK", "EU", "JP", "CM"} {
		if strings.HasPrefix(upper, prefix) {
			system = prefix
			raw = strings.TrimSpace(raw[len(prefix):])
			break
		}
	}

	num, err := strconv.ParseFloat(strings.TrimSuffix(raw, "W"), 64)
	if err != nil {
		return strings.ToUpper(raw)
	}

	label := strconv.FormatFloat(num, 'f', -1, 64)
	if strings.HasSuffix(strings.ToUpper(raw), "W") {
		label += "W"
	}
	return system + " " + label
}

package service

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"soletrack/internal/models"
	"soletrack/internal/repository"
)

func TestWriteSalesCSV(t *testing.T) {
	repo := newStubRepo()
	repo.listSalesResult = []models.Sale{
		{
			StyleID:     "DD1391-100",
			SizeKey:     "US 9",
			Platform:    "stockx",
			SoldPrice:   decimal.NewFromInt(200),
			Fees:        decimal.NewFromInt(18),
			ShippingOut: decimal.NewFromInt(4),
			Payout:      decimal.NewFromInt(178),
			Margin:      decimal.NewFromInt(63),
			Currency:    "GBP",
			SoldAt:      time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
		},
	}

	var buf strings.Builder
	svc := &ExportService{Repo: repo}
	if err := svc.WriteSalesCSV(context.Background(), &buf, repository.ListSalesParams{}); err != nil {
		t.Fatalf("write: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records=%d want header plus one row", len(records))
	}
	if records[0][0] != "sold_at" || records[0][8] != "margin" {
		t.Fatalf("header=%v", records[0])
	}
	row := records[1]
	if row[0] != "2026-05-01T10:00:00Z" {
		t.Fatalf("sold_at=%q", row[0])
	}
	if row[4] != "200.00" || row[8] != "63.00" {
		t.Fatalf("row=%v", row)
	}
}

func TestWriteTaxReportCSV(t *testing.T) {
	repo := newStubRepo()
	repo.listSalesResult = []models.Sale{
		{
			StyleID:   "DD1391-100",
			SizeKey:   "US 9",
			Platform:  "stockx",
			SoldPrice: decimal.NewFromInt(200),
			Margin:    decimal.NewFromInt(63),
			Currency:  "GBP",
			SoldAt:    time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	repo.salesSummary = repository.SalesSummary{
		Count:        1,
		TotalRevenue: decimal.NewFromInt(200),
		TotalMargin:  decimal.NewFromInt(63),
	}
	repo.expensesSum = decimal.NewFromInt(20)

	var buf strings.Builder
	svc := &ExportService{Repo: repo}
	if err := svc.WriteTaxReportCSV(context.Background(), &buf, 2025); err != nil {
		t.Fatalf("write: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	// header + 1 detail row + 5 totals rows
	if len(records) != 7 {
		t.Fatalf("records=%d want 7", len(records))
	}
	if records[1][0] != "2025-26" {
		t.Fatalf("tax year label=%q", records[1][0])
	}

	totals := map[string]string{}
	for _, record := range records[2:] {
		totals[record[4]] = record[5]
	}
	if totals["total_margin"] != "63.00" {
		t.Fatalf("total_margin=%q", totals["total_margin"])
	}
	if totals["total_expenses"] != "20.00" {
		t.Fatalf("total_expenses=%q", totals["total_expenses"])
	}
	if totals["net_profit"] != "43.00" {
		t.Fatalf("net_profit=%q", totals["net_profit"])
	}
}

func TestTaxYearLabel(t *testing.T) {
	if got := taxYearLabel(2025); got != "2025-26" {
		t.Fatalf("got %q", got)
	}
	if got := taxYearLabel(1999); got != "1999-00" {
		t.Fatalf("got %q", got)
	}
}

package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"soletrack/internal/repository"
)

// ExportService streams CSV reports for bookkeeping. Numbers are written
// with two decimal places, dates as ISO 8601.
type ExportService struct {
	Repo repository.Repository
}

func (s *ExportService) WriteSalesCSV(ctx context.Context, w io.Writer, params repository.ListSalesParams) error {
	if s == nil || s.Repo == nil {
		return fmt.Errorf("export service not configured")
	}
	if params.Limit <= 0 {
		params.Limit = 1000
	}
	sales, err := s.Repo.ListSales(ctx, params)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"sold_at", "style_id", "size", "platform",
		"sold_price", "fees", "shipping_out", "payout", "margin", "currency",
	}); err != nil {
		return err
	}
	for _, sale := range sales {
		record := []string{
			sale.SoldAt.UTC().Format(time.RFC3339),
			sale.StyleID,
			sale.SizeKey,
			sale.Platform,
			sale.SoldPrice.StringFixed(2),
			sale.Fees.StringFixed(2),
			sale.ShippingOut.StringFixed(2),
			sale.Payout.StringFixed(2),
			sale.Margin.StringFixed(2),
			sale.Currency,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *ExportService) WriteExpensesCSV(ctx context.Context, w io.Writer, params repository.ListExpensesParams) error {
	if s == nil || s.Repo == nil {
		return fmt.Errorf("export service not configured")
	}
	if params.Limit <= 0 {
		params.Limit = 1000
	}
	expenses, err := s.Repo.ListExpenses(ctx, params)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"incurred_at", "label", "category", "amount", "currency"}); err != nil {
		return err
	}
	for _, expense := range expenses {
		record := []string{
			expense.IncurredAt.UTC().Format("2006-01-02"),
			expense.Label,
			expense.Category,
			expense.Amount.StringFixed(2),
			expense.Currency,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTaxReportCSV emits the per-sale detail for one UK tax year followed
// by a totals block including deductible expenses.
func (s *ExportService) WriteTaxReportCSV(ctx context.Context, w io.Writer, startYear int) error {
	if s == nil || s.Repo == nil {
		return fmt.Errorf("export service not configured")
	}
	since, until := TaxYearBounds(startYear)
	sales, err := s.Repo.ListSales(ctx, repository.ListSalesParams{
		Since: &since,
		Until: &until,
		Limit: 1000,
		Asc:   boolPtrTrue(),
	})
	if err != nil {
		return err
	}
	summary, err := s.Repo.SalesSummary(ctx, &since, &until)
	if err != nil {
		return err
	}
	expenses, err := s.Repo.SumExpenses(ctx, &since, &until)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"tax_year", "sold_at", "style_id", "size", "platform",
		"sold_price", "fees", "shipping_out", "margin", "currency",
	}); err != nil {
		return err
	}
	label := taxYearLabel(startYear)
	for _, sale := range sales {
		record := []string{
			label,
			sale.SoldAt.UTC().Format(time.RFC3339),
			sale.StyleID,
			sale.SizeKey,
			sale.Platform,
			sale.SoldPrice.StringFixed(2),
			sale.Fees.StringFixed(2),
			sale.ShippingOut.StringFixed(2),
			sale.Margin.StringFixed(2),
			sale.Currency,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	netProfit := summary.TotalMargin.Sub(expenses)
	totals := [][]string{
		{"", "", "", "", "total_sales", strconv.FormatInt(summary.Count, 10), "", "", "", ""},
		{"", "", "", "", "total_revenue", summary.TotalRevenue.StringFixed(2), "", "", "", ""},
		{"", "", "", "", "total_margin", summary.TotalMargin.StringFixed(2), "", "", "", ""},
		{"", "", "", "", "total_expenses", expenses.StringFixed(2), "", "", "", ""},
		{"", "", "", "", "net_profit", netProfit.StringFixed(2), "", "", "", ""},
	}
	for _, record := range totals {
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func taxYearLabel(startYear int) string {
	return fmt.Sprintf("%d-%02d", startYear, (startYear+1)%100)
}

func boolPtrTrue() *bool {
	v := true
	return &v
}

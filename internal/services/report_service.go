package services

import (
	"context"
	"sort"
	"time"

	"github.com/celtec/pos-api/internal/repository"
)

// Report grouping constants
const (
	GroupByDay   = "day"
	GroupByMonth = "month"
)

// SalesReportRow aggregates the sales of one period
type SalesReportRow struct {
	Period   string  `json:"period"`
	Count    int     `json:"count"`
	Gross    float64 `json:"gross"`
	Discount float64 `json:"discount"`
	Tax      float64 `json:"tax"`
	Net      float64 `json:"net"`
}

// SalesReport is the grouped sales summary for a date range
type SalesReport struct {
	GroupBy string           `json:"group_by"`
	Rows    []SalesReportRow `json:"rows"`
	Totals  SalesReportRow   `json:"totals"`
}

// ExpenseReportRow aggregates the expenses of one category
type ExpenseReportRow struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Total    float64 `json:"total"`
}

// ExpenseReport is the per-category expense summary for a date range
type ExpenseReport struct {
	Rows  []ExpenseReportRow `json:"rows"`
	Total float64            `json:"total"`
}

// ProfitAndLossReport summarizes profitability for a date range.
// Tax is collected on behalf of the state and excluded from profit.
type ProfitAndLossReport struct {
	From        *time.Time `json:"from,omitempty"`
	To          *time.Time `json:"to,omitempty"`
	SaleCount   int        `json:"sale_count"`
	Revenue     float64    `json:"revenue"`
	Discounts   float64    `json:"discounts"`
	NetRevenue  float64    `json:"net_revenue"`
	COGS        float64    `json:"cogs"`
	GrossProfit float64    `json:"gross_profit"`
	Expenses    float64    `json:"expenses"`
	NetProfit   float64    `json:"net_profit"`
}

// InventoryReportRow describes the stock position of one product
type InventoryReportRow struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Brand     string  `json:"brand"`
	Model     string  `json:"model"`
	Category  string  `json:"category"`
	TrackIMEI bool    `json:"track_imei"`
	Units     int     `json:"units"`
	CostValue float64 `json:"cost_value"`
	SaleValue float64 `json:"sale_value"`
	LowStock  bool    `json:"low_stock"`
}

// InventoryReport is the current stock valuation snapshot
type InventoryReport struct {
	Rows          []InventoryReportRow `json:"rows"`
	TotalUnits    int                  `json:"total_units"`
	CostValue     float64              `json:"cost_value"`
	SaleValue     float64              `json:"sale_value"`
	LowStockCount int                  `json:"low_stock_count"`
	IMEIByStatus  map[string]int       `json:"imei_by_status"`
}

// ReportService builds management reports. Each report is one bulk read
// followed by in-memory aggregation, so every figure in a response comes
// from the same snapshot of the range.
type ReportService struct {
	saleRepo    repository.SaleRepository
	expenseRepo repository.ExpenseRepository
	productRepo repository.ProductRepository
}

// NewReportService creates a new report service
func NewReportService(
	saleRepo repository.SaleRepository,
	expenseRepo repository.ExpenseRepository,
	productRepo repository.ProductRepository,
) *ReportService {
	return &ReportService{
		saleRepo:    saleRepo,
		expenseRepo: expenseRepo,
		productRepo: productRepo,
	}
}

// SalesReport groups sales in [from, to] by day or month. A zero from or
// to leaves that side of the range open.
func (s *ReportService) SalesReport(ctx context.Context, from, to time.Time, groupBy string) (*SalesReport, error) {
	if groupBy != GroupByMonth {
		groupBy = GroupByDay
	}
	layout := "2006-01-02"
	if groupBy == GroupByMonth {
		layout = "2006-01"
	}

	sales, err := s.saleRepo.FindInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byPeriod := make(map[string]*SalesReportRow)
	report := &SalesReport{GroupBy: groupBy}

	for i := range sales {
		sale := &sales[i]
		key := sale.CreatedAt.Format(layout)
		row, ok := byPeriod[key]
		if !ok {
			row = &SalesReportRow{Period: key}
			byPeriod[key] = row
		}
		row.Count++
		row.Gross += sale.Subtotal
		row.Discount += sale.Discount
		row.Tax += sale.Tax
		row.Net += sale.Net()

		report.Totals.Count++
		report.Totals.Gross += sale.Subtotal
		report.Totals.Discount += sale.Discount
		report.Totals.Tax += sale.Tax
		report.Totals.Net += sale.Net()
	}

	report.Rows = make([]SalesReportRow, 0, len(byPeriod))
	for _, row := range byPeriod {
		report.Rows = append(report.Rows, *row)
	}
	sort.Slice(report.Rows, func(i, j int) bool {
		return report.Rows[i].Period < report.Rows[j].Period
	})

	return report, nil
}

// ExpenseReport groups expenses in [from, to] by category
func (s *ReportService) ExpenseReport(ctx context.Context, from, to time.Time) (*ExpenseReport, error) {
	expenses, err := s.expenseRepo.FindInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string]*ExpenseReportRow)
	report := &ExpenseReport{}

	for i := range expenses {
		expense := &expenses[i]
		name := expense.Category.Name
		if name == "" {
			name = "Sin categoría"
		}
		row, ok := byCategory[name]
		if !ok {
			row = &ExpenseReportRow{Category: name}
			byCategory[name] = row
		}
		row.Count++
		row.Total += expense.Amount
		report.Total += expense.Amount
	}

	report.Rows = make([]ExpenseReportRow, 0, len(byCategory))
	for _, row := range byCategory {
		report.Rows = append(report.Rows, *row)
	}
	sort.Slice(report.Rows, func(i, j int) bool {
		return report.Rows[i].Total > report.Rows[j].Total
	})

	return report, nil
}

// ProfitAndLoss computes net profit for [from, to] as
// revenue - discounts - cost of goods sold - expenses. Item cost comes
// from the unit cost snapshots taken at sale time.
func (s *ReportService) ProfitAndLoss(ctx context.Context, from, to time.Time) (*ProfitAndLossReport, error) {
	sales, err := s.saleRepo.FindInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenseRepo.FindInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	report := &ProfitAndLossReport{}
	if !from.IsZero() {
		report.From = &from
	}
	if !to.IsZero() {
		report.To = &to
	}

	for i := range sales {
		sale := &sales[i]
		report.SaleCount++
		report.Revenue += sale.Subtotal
		report.Discounts += sale.Discount
		report.COGS += sale.COGS()
	}
	for i := range expenses {
		report.Expenses += expenses[i].Amount
	}

	report.NetRevenue = report.Revenue - report.Discounts
	report.GrossProfit = report.NetRevenue - report.COGS
	report.NetProfit = report.GrossProfit - report.Expenses

	return report, nil
}

// InventoryReport values current stock at cost and sale price and breaks
// down serialized units by status
func (s *ReportService) InventoryReport(ctx context.Context) (*InventoryReport, error) {
	products, err := s.productRepo.FindAllWithStock(ctx)
	if err != nil {
		return nil, err
	}

	report := &InventoryReport{
		IMEIByStatus: make(map[string]int),
	}

	report.Rows = make([]InventoryReportRow, 0, len(products))
	for i := range products {
		product := &products[i]
		units := product.InStockUnits()

		row := InventoryReportRow{
			ProductID: product.ID,
			Name:      product.Name,
			Brand:     product.Brand,
			Model:     product.Model,
			Category:  product.Category.Name,
			TrackIMEI: product.TrackIMEI,
			Units:     units,
			CostValue: float64(units) * product.CostPrice,
			SaleValue: float64(units) * product.SalePrice,
			LowStock:  product.IsLowStock(),
		}
		report.Rows = append(report.Rows, row)

		report.TotalUnits += units
		report.CostValue += row.CostValue
		report.SaleValue += row.SaleValue
		if row.LowStock {
			report.LowStockCount++
		}
		for _, unit := range product.IMEIs {
			report.IMEIByStatus[unit.Status]++
		}
	}

	sort.Slice(report.Rows, func(i, j int) bool {
		return report.Rows[i].Name < report.Rows[j].Name
	})

	return report, nil
}

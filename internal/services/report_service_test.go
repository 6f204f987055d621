package services

import (
	"context"
	"testing"
	"time"

	"github.com/celtec/pos-api/internal/models"
	"github.com/celtec/pos-api/internal/repository"
	"github.com/stretchr/testify/assert"
)

type mockSaleRepo struct {
	repository.SaleRepository
	mockFindByID    func(ctx context.Context, id uint) (*models.Sale, error)
	mockCreate      func(ctx context.Context, sale *models.Sale) error
	mockFindInRange func(ctx context.Context, from, to time.Time) ([]models.Sale, error)
}

func (m *mockSaleRepo) FindByID(ctx context.Context, id uint) (*models.Sale, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockSaleRepo) Create(ctx context.Context, sale *models.Sale) error {
	return m.mockCreate(ctx, sale)
}

func (m *mockSaleRepo) FindInRange(ctx context.Context, from, to time.Time) ([]models.Sale, error) {
	return m.mockFindInRange(ctx, from, to)
}

type mockExpenseRepo struct {
	repository.ExpenseRepository
	mockFindInRange func(ctx context.Context, from, to time.Time) ([]models.Expense, error)
}

func (m *mockExpenseRepo) FindInRange(ctx context.Context, from, to time.Time) ([]models.Expense, error) {
	return m.mockFindInRange(ctx, from, to)
}

type mockProductRepo struct {
	repository.ProductRepository
	mockFindByID         func(ctx context.Context, id uint) (*models.Product, error)
	mockFindAllWithStock func(ctx context.Context) ([]models.Product, error)
}

func (m *mockProductRepo) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockProductRepo) FindAllWithStock(ctx context.Context) ([]models.Product, error) {
	return m.mockFindAllWithStock(ctx)
}

func saleAt(day string, subtotal, discount, tax float64) models.Sale {
	created, _ := time.Parse("2006-01-02", day)
	return models.Sale{
		Subtotal:  subtotal,
		Discount:  discount,
		Tax:       tax,
		Total:     subtotal - discount + tax,
		CreatedAt: created,
	}
}

func TestReportService_SalesReport_GroupsByDay(t *testing.T) {
	saleRepo := &mockSaleRepo{}
	service := NewReportService(saleRepo, nil, nil)

	saleRepo.mockFindInRange = func(ctx context.Context, from, to time.Time) ([]models.Sale, error) {
		return []models.Sale{
			saleAt("2026-03-02", 1000, 100, 150),
			saleAt("2026-03-01", 500, 0, 75),
			saleAt("2026-03-02", 2000, 0, 300),
		}, nil
	}

	report, err := service.SalesReport(context.Background(), time.Time{}, time.Time{}, GroupByDay)
	assert.NoError(t, err)
	assert.Equal(t, GroupByDay, report.GroupBy)
	assert.Len(t, report.Rows, 2)

	// Rows come back in period order
	assert.Equal(t, "2026-03-01", report.Rows[0].Period)
	assert.Equal(t, 1, report.Rows[0].Count)
	assert.Equal(t, 500.0, report.Rows[0].Gross)

	assert.Equal(t, "2026-03-02", report.Rows[1].Period)
	assert.Equal(t, 2, report.Rows[1].Count)
	assert.Equal(t, 3000.0, report.Rows[1].Gross)
	assert.Equal(t, 100.0, report.Rows[1].Discount)
	assert.Equal(t, 2900.0, report.Rows[1].Net)

	assert.Equal(t, 3, report.Totals.Count)
	assert.Equal(t, 3500.0, report.Totals.Gross)
	assert.Equal(t, 3400.0, report.Totals.Net)
	assert.Equal(t, 525.0, report.Totals.Tax)
}

func TestReportService_SalesReport_GroupsByMonth(t *testing.T) {
	saleRepo := &mockSaleRepo{}
	service := NewReportService(saleRepo, nil, nil)

	saleRepo.mockFindInRange = func(ctx context.Context, from, to time.Time) ([]models.Sale, error) {
		return []models.Sale{
			saleAt("2026-01-15", 100, 0, 15),
			saleAt("2026-02-20", 200, 0, 30),
			saleAt("2026-01-31", 300, 0, 45),
		}, nil
	}

	report, err := service.SalesReport(context.Background(), time.Time{}, time.Time{}, GroupByMonth)
	assert.NoError(t, err)
	assert.Len(t, report.Rows, 2)
	assert.Equal(t, "2026-01", report.Rows[0].Period)
	assert.Equal(t, 400.0, report.Rows[0].Gross)
	assert.Equal(t, "2026-02", report.Rows[1].Period)
}

func TestReportService_SalesReport_UnknownGroupingFallsBackToDay(t *testing.T) {
	saleRepo := &mockSaleRepo{}
	service := NewReportService(saleRepo, nil, nil)

	saleRepo.mockFindInRange = func(ctx context.Context, from, to time.Time) ([]models.Sale, error) {
		return nil, nil
	}

	report, err := service.SalesReport(context.Background(), time.Time{}, time.Time{}, "week")
	assert.NoError(t, err)
	assert.Equal(t, GroupByDay, report.GroupBy)
}

func TestReportService_ExpenseReport_GroupsByCategory(t *testing.T) {
	expenseRepo := &mockExpenseRepo{}
	service := NewReportService(nil, expenseRepo, nil)

	expenseRepo.mockFindInRange = func(ctx context.Context, from, to time.Time) ([]models.Expense, error) {
		return []models.Expense{
			{Amount: 500, Category: models.ExpenseCategory{Name: "Alquiler"}},
			{Amount: 120, Category: models.ExpenseCategory{Name: "Servicios"}},
			{Amount: 80, Category: models.ExpenseCategory{Name: "Servicios"}},
			{Amount: 50},
		}, nil
	}

	report, err := service.ExpenseReport(context.Background(), time.Time{}, time.Time{})
	assert.NoError(t, err)
	assert.Equal(t, 750.0, report.Total)
	assert.Len(t, report.Rows, 3)

	// Rows come back by total, highest first
	assert.Equal(t, "Alquiler", report.Rows[0].Category)
	assert.Equal(t, "Servicios", report.Rows[1].Category)
	assert.Equal(t, 2, report.Rows[1].Count)
	assert.Equal(t, 200.0, report.Rows[1].Total)
	assert.Equal(t, "Sin categoría", report.Rows[2].Category)
}

func TestReportService_ProfitAndLoss(t *testing.T) {
	saleRepo := &mockSaleRepo{}
	expenseRepo := &mockExpenseRepo{}
	service := NewReportService(saleRepo, expenseRepo, nil)

	saleRepo.mockFindInRange = func(ctx context.Context, from, to time.Time) ([]models.Sale, error) {
		return []models.Sale{
			{
				Subtotal: 10000,
				Discount: 500,
				Tax:      1500,
				Items: []models.SaleItem{
					{Quantity: 2, UnitCost: 3000},
				},
			},
			{
				Subtotal: 2000,
				Items: []models.SaleItem{
					{Quantity: 1, UnitCost: 1200},
				},
			},
		}, nil
	}
	expenseRepo.mockFindInRange = func(ctx context.Context, from, to time.Time) ([]models.Expense, error) {
		return []models.Expense{{Amount: 800}, {Amount: 200}}, nil
	}

	report, err := service.ProfitAndLoss(context.Background(), time.Time{}, time.Time{})
	assert.NoError(t, err)
	assert.Equal(t, 2, report.SaleCount)
	assert.Equal(t, 12000.0, report.Revenue)
	assert.Equal(t, 500.0, report.Discounts)
	assert.Equal(t, 11500.0, report.NetRevenue)
	assert.Equal(t, 7200.0, report.COGS)
	assert.Equal(t, 4300.0, report.GrossProfit)
	assert.Equal(t, 1000.0, report.Expenses)
	assert.Equal(t, 3300.0, report.NetProfit)

	// Tax is collected for the state, not earned
	assert.NotContains(t, []float64{report.NetProfit}, 1500.0)

	// Open range leaves the bounds off the report
	assert.Nil(t, report.From)
	assert.Nil(t, report.To)
}

func TestReportService_InventoryReport(t *testing.T) {
	productRepo := &mockProductRepo{}
	service := NewReportService(nil, nil, productRepo)

	productRepo.mockFindAllWithStock = func(ctx context.Context) ([]models.Product, error) {
		return []models.Product{
			{
				ID:        2,
				Name:      "iPhone 13",
				TrackIMEI: true,
				CostPrice: 8000,
				SalePrice: 11000,
				IMEIs: []models.IMEI{
					{Status: models.IMEIStatusInStock},
					{Status: models.IMEIStatusInStock},
					{Status: models.IMEIStatusSold},
					{Status: models.IMEIStatusDefective},
				},
			},
			{
				ID:        1,
				Name:      "Cargador USB-C",
				TrackIMEI: false,
				Quantity:  40,
				CostPrice: 50,
				SalePrice: 120,
			},
		}, nil
	}

	report, err := service.InventoryReport(context.Background())
	assert.NoError(t, err)
	assert.Len(t, report.Rows, 2)

	// Rows come back by product name
	assert.Equal(t, "Cargador USB-C", report.Rows[0].Name)
	assert.Equal(t, 40, report.Rows[0].Units)
	assert.False(t, report.Rows[0].LowStock)

	assert.Equal(t, "iPhone 13", report.Rows[1].Name)
	assert.Equal(t, 2, report.Rows[1].Units)
	assert.True(t, report.Rows[1].LowStock)
	assert.Equal(t, 16000.0, report.Rows[1].CostValue)
	assert.Equal(t, 22000.0, report.Rows[1].SaleValue)

	assert.Equal(t, 42, report.TotalUnits)
	assert.Equal(t, 1, report.LowStockCount)
	assert.Equal(t, 2, report.IMEIByStatus[models.IMEIStatusInStock])
	assert.Equal(t, 1, report.IMEIByStatus[models.IMEIStatusSold])
	assert.Equal(t, 1, report.IMEIByStatus[models.IMEIStatusDefective])
}

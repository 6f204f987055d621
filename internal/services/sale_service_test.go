package services

import (
	"context"
	"testing"

	"github.com/celtec/pos-api/internal/jobs"
	"github.com/celtec/pos-api/internal/models"
	"github.com/celtec/pos-api/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func newSaleServiceForTest(saleRepo repository.SaleRepository, productRepo repository.ProductRepository, imeiRepo repository.IMEIRepository, customerRepo repository.CustomerRepository, worker *jobs.Worker) *SaleService {
	return NewSaleService(saleRepo, productRepo, imeiRepo, customerRepo, NewNotificationService(nil, &mockAdminRepo{}), nil, worker)
}

func accessoryProduct(id uint, price float64) *models.Product {
	return &models.Product{ID: id, Name: "Cargador USB-C", SalePrice: price, CostPrice: price / 2, Quantity: 10}
}

func TestSaleService_Create_InvalidPaymentMethodIsValidation(t *testing.T) {
	service := newSaleServiceForTest(nil, nil, nil, nil, nil)

	_, err := service.Create(context.Background(), &SaleInput{
		PaymentMethod: "bitcoin",
		Items:         []SaleItemInput{{ProductID: 1, Quantity: 1}},
	}, 1)

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, err.Error(), "método de pago inválido")
}

func TestSaleService_Create_TrackedProductRequiresIMEI(t *testing.T) {
	productRepo := &mockProductRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Product, error) {
			return trackedProduct(id), nil
		},
	}
	service := newSaleServiceForTest(nil, productRepo, nil, nil, nil)

	_, err := service.Create(context.Background(), &SaleInput{
		PaymentMethod: models.PaymentMethodCash,
		Items:         []SaleItemInput{{ProductID: 1, Quantity: 1}},
	}, 1)

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, err.Error(), "requiere un IMEI")
}

func TestSaleService_Create_IMEIMustMatchProduct(t *testing.T) {
	productRepo := &mockProductRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Product, error) {
			return trackedProduct(id), nil
		},
	}
	imeiRepo := &mockIMEIRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.IMEI, error) {
			return &models.IMEI{ID: id, ProductID: 99, IMEI: "350000000000001"}, nil
		},
	}
	service := newSaleServiceForTest(nil, productRepo, imeiRepo, nil, nil)

	imeiID := uint(5)
	_, err := service.Create(context.Background(), &SaleInput{
		PaymentMethod: models.PaymentMethodCash,
		Items:         []SaleItemInput{{ProductID: 1, IMEIID: &imeiID}},
	}, 1)

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, err.Error(), "no pertenece al producto")
}

func TestSaleService_Create_FinancedSaleCarriesLedger(t *testing.T) {
	worker := jobs.NewWorker(1)
	defer worker.Shutdown()

	var captured *models.Sale
	saleRepo := &mockSaleRepo{
		mockCreate: func(ctx context.Context, sale *models.Sale) error {
			captured = sale
			sale.ID = 7
			return nil
		},
	}
	productRepo := &mockProductRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Product, error) {
			return accessoryProduct(id, 6000), nil
		},
	}
	customerRepo := &mockCustomerRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Customer, error) {
			return &models.Customer{ID: id}, nil
		},
	}
	service := newSaleServiceForTest(saleRepo, productRepo, nil, customerRepo, worker)

	customerID := uint(3)
	sale, err := service.Create(context.Background(), &SaleInput{
		CustomerID:    &customerID,
		PaymentMethod: models.PaymentMethodInstallment,
		Items:         []SaleItemInput{{ProductID: 1, Quantity: 1}},
		DownPayment:   1000,
		TotalMonths:   10,
	}, 1)

	assert.NoError(t, err)
	// The ledger reaches the repository attached to the sale, so both rows
	// commit in the same transaction.
	assert.NotNil(t, captured)
	assert.NotNil(t, captured.Installment)
	assert.True(t, captured.Installment.TotalAmount.Equal(decimal.NewFromInt(6000)))
	assert.True(t, captured.Installment.DownPayment.Equal(decimal.NewFromInt(1000)))
	assert.True(t, captured.Installment.Remaining.Equal(decimal.NewFromInt(5000)))
	assert.True(t, captured.Installment.MonthlyAmount.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, models.InstallmentStatusActive, captured.Installment.Status)
	assert.Equal(t, uint(3), captured.Installment.CustomerID)
	assert.NotNil(t, sale.Installment)
}

func TestSaleService_Create_CashSaleHasNoLedger(t *testing.T) {
	worker := jobs.NewWorker(1)
	defer worker.Shutdown()

	var captured *models.Sale
	saleRepo := &mockSaleRepo{
		mockCreate: func(ctx context.Context, sale *models.Sale) error {
			captured = sale
			return nil
		},
	}
	productRepo := &mockProductRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Product, error) {
			return accessoryProduct(id, 250), nil
		},
	}
	service := newSaleServiceForTest(saleRepo, productRepo, nil, nil, worker)

	_, err := service.Create(context.Background(), &SaleInput{
		PaymentMethod: models.PaymentMethodCash,
		Items:         []SaleItemInput{{ProductID: 1, Quantity: 2}},
	}, 1)

	assert.NoError(t, err)
	assert.Nil(t, captured.Installment)
}

func TestSaleService_Create_FailedLedgerInsertFailsSale(t *testing.T) {
	saleRepo := &mockSaleRepo{
		mockCreate: func(ctx context.Context, sale *models.Sale) error {
			return gorm.ErrDuplicatedKey
		},
	}
	productRepo := &mockProductRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Product, error) {
			return accessoryProduct(id, 6000), nil
		},
	}
	customerRepo := &mockCustomerRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Customer, error) {
			return &models.Customer{ID: id}, nil
		},
	}
	service := newSaleServiceForTest(saleRepo, productRepo, nil, customerRepo, nil)

	customerID := uint(3)
	sale, err := service.Create(context.Background(), &SaleInput{
		CustomerID:    &customerID,
		PaymentMethod: models.PaymentMethodInstallment,
		Items:         []SaleItemInput{{ProductID: 1, Quantity: 1}},
		DownPayment:   1000,
		TotalMonths:   10,
	}, 1)

	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Nil(t, sale)
}

func TestSaleService_Create_OutOfStock(t *testing.T) {
	saleRepo := &mockSaleRepo{
		mockCreate: func(ctx context.Context, sale *models.Sale) error {
			return repository.ErrInsufficientStock
		},
	}
	productRepo := &mockProductRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Product, error) {
			return accessoryProduct(id, 250), nil
		},
	}
	service := newSaleServiceForTest(saleRepo, productRepo, nil, nil, nil)

	_, err := service.Create(context.Background(), &SaleInput{
		PaymentMethod: models.PaymentMethodCash,
		Items:         []SaleItemInput{{ProductID: 1, Quantity: 99}},
	}, 1)

	assert.ErrorIs(t, err, ErrOutOfStock)
}

package services

import (
	"context"
	"testing"

	"github.com/celtec/pos-api/internal/config"
	"github.com/celtec/pos-api/internal/jobs"
	"github.com/celtec/pos-api/internal/models"
	"github.com/celtec/pos-api/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type mockInstallmentRepo struct {
	repository.InstallmentRepository
	mockFindByID     func(ctx context.Context, id uint) (*models.Installment, error)
	mockCreate       func(ctx context.Context, installment *models.Installment) error
	mockApplyPayment func(ctx context.Context, installmentID uint, payment *models.InstallmentPayment) (*models.Installment, error)
}

func (m *mockInstallmentRepo) FindByID(ctx context.Context, id uint) (*models.Installment, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockInstallmentRepo) Create(ctx context.Context, installment *models.Installment) error {
	return m.mockCreate(ctx, installment)
}

func (m *mockInstallmentRepo) ApplyPayment(ctx context.Context, installmentID uint, payment *models.InstallmentPayment) (*models.Installment, error) {
	return m.mockApplyPayment(ctx, installmentID, payment)
}

// mockAdminRepo backs NotifyAdmins in side-channel jobs; no admins means
// no notifications get written.
type mockAdminRepo struct {
	repository.UserRepository
}

func (m *mockAdminRepo) FindAdmins(ctx context.Context) ([]models.User, error) {
	return nil, nil
}

func newInstallmentServiceForTest(repo repository.InstallmentRepository, saleRepo repository.SaleRepository, worker *jobs.Worker) *InstallmentService {
	notificationSvc := NewNotificationService(nil, &mockAdminRepo{})
	emailSvc := NewEmailService(&config.Config{})
	return NewInstallmentService(repo, saleRepo, nil, notificationSvc, emailSvc, nil, worker)
}

func TestInstallmentService_Create_Validation(t *testing.T) {
	service := newInstallmentServiceForTest(nil, nil, nil)

	cases := []struct {
		name        string
		installment models.Installment
	}{
		{"zero total", models.Installment{TotalAmount: decimal.Zero, MonthlyAmount: decimal.NewFromInt(100), TotalMonths: 6}},
		{"zero monthly", models.Installment{TotalAmount: decimal.NewFromInt(1000), MonthlyAmount: decimal.Zero, TotalMonths: 6}},
		{"negative down payment", models.Installment{TotalAmount: decimal.NewFromInt(1000), MonthlyAmount: decimal.NewFromInt(100), DownPayment: decimal.NewFromInt(-1), TotalMonths: 6}},
		{"no months", models.Installment{TotalAmount: decimal.NewFromInt(1000), MonthlyAmount: decimal.NewFromInt(100), TotalMonths: 0}},
		{"down payment above total", models.Installment{TotalAmount: decimal.NewFromInt(1000), MonthlyAmount: decimal.NewFromInt(100), DownPayment: decimal.NewFromInt(1500), TotalMonths: 6}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inst := tc.installment
			err := service.Create(context.Background(), &inst, 1)
			assert.Error(t, err)
		})
	}
}

func TestInstallmentService_Create_OpensLedger(t *testing.T) {
	repo := &mockInstallmentRepo{}
	saleRepo := &mockSaleRepo{}
	worker := jobs.NewWorker(1)
	defer worker.Shutdown()
	service := newInstallmentServiceForTest(repo, saleRepo, worker)

	customerID := uint(7)
	saleRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Sale, error) {
		return &models.Sale{ID: id, CustomerID: &customerID}, nil
	}
	var created *models.Installment
	repo.mockCreate = func(ctx context.Context, installment *models.Installment) error {
		created = installment
		return nil
	}
	repo.mockFindByID = func(ctx context.Context, id uint) (*models.Installment, error) {
		return created, nil
	}

	inst := &models.Installment{
		SaleID:        3,
		TotalAmount:   decimal.NewFromInt(12000),
		DownPayment:   decimal.NewFromInt(2000),
		MonthlyAmount: decimal.NewFromInt(1000),
		TotalMonths:   10,
	}
	err := service.Create(context.Background(), inst, 1)
	assert.NoError(t, err)
	assert.NotNil(t, created)
	assert.Equal(t, customerID, created.CustomerID)
	assert.Equal(t, models.InstallmentStatusActive, created.Status)
	assert.True(t, created.Remaining.Equal(decimal.NewFromInt(10000)))
}

func TestInstallmentService_Create_SaleWithoutCustomer(t *testing.T) {
	saleRepo := &mockSaleRepo{}
	service := newInstallmentServiceForTest(nil, saleRepo, nil)

	saleRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Sale, error) {
		return &models.Sale{ID: id}, nil
	}

	inst := &models.Installment{
		SaleID:        3,
		TotalAmount:   decimal.NewFromInt(1000),
		MonthlyAmount: decimal.NewFromInt(100),
		TotalMonths:   10,
	}
	err := service.Create(context.Background(), inst, 1)
	assert.Error(t, err)
	assert.Equal(t, "la venta no tiene cliente asociado", err.Error())
}

func TestInstallmentService_Create_SecondPlanForSale(t *testing.T) {
	repo := &mockInstallmentRepo{}
	saleRepo := &mockSaleRepo{}
	service := newInstallmentServiceForTest(repo, saleRepo, nil)

	customerID := uint(7)
	saleRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Sale, error) {
		return &models.Sale{ID: id, CustomerID: &customerID}, nil
	}
	repo.mockCreate = func(ctx context.Context, installment *models.Installment) error {
		return gorm.ErrDuplicatedKey
	}

	inst := &models.Installment{
		SaleID:        3,
		TotalAmount:   decimal.NewFromInt(1000),
		MonthlyAmount: decimal.NewFromInt(100),
		TotalMonths:   10,
	}
	err := service.Create(context.Background(), inst, 1)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestInstallmentService_AddPayment_RejectsNonPositiveAmount(t *testing.T) {
	service := newInstallmentServiceForTest(nil, nil, nil)

	_, _, err := service.AddPayment(context.Background(), 1, decimal.Zero, nil, 1)
	assert.Error(t, err)

	_, _, err = service.AddPayment(context.Background(), 1, decimal.NewFromInt(-50), nil, 1)
	assert.Error(t, err)
}

func TestInstallmentService_AddPayment_MapsRepositoryErrors(t *testing.T) {
	repo := &mockInstallmentRepo{}
	service := newInstallmentServiceForTest(repo, nil, nil)

	repo.mockApplyPayment = func(ctx context.Context, installmentID uint, payment *models.InstallmentPayment) (*models.Installment, error) {
		return nil, gorm.ErrRecordNotFound
	}
	_, _, err := service.AddPayment(context.Background(), 9, decimal.NewFromInt(100), nil, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	repo.mockApplyPayment = func(ctx context.Context, installmentID uint, payment *models.InstallmentPayment) (*models.Installment, error) {
		return nil, repository.ErrInstallmentNotActive
	}
	_, _, err = service.AddPayment(context.Background(), 9, decimal.NewFromInt(100), nil, 1)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestInstallmentService_AddPayment_AppliesPayment(t *testing.T) {
	repo := &mockInstallmentRepo{}
	worker := jobs.NewWorker(1)
	defer worker.Shutdown()
	service := newInstallmentServiceForTest(repo, nil, worker)

	repo.mockApplyPayment = func(ctx context.Context, installmentID uint, payment *models.InstallmentPayment) (*models.Installment, error) {
		return &models.Installment{
			ID:        installmentID,
			Remaining: decimal.NewFromInt(400),
			Status:    models.InstallmentStatusActive,
		}, nil
	}
	repo.mockFindByID = func(ctx context.Context, id uint) (*models.Installment, error) {
		return &models.Installment{ID: id, Customer: models.Customer{FullName: "Ana"}}, nil
	}

	receivedBy := uint(4)
	installment, payment, err := service.AddPayment(context.Background(), 9, decimal.NewFromInt(600), nil, receivedBy)
	assert.NoError(t, err)
	assert.True(t, installment.Remaining.Equal(decimal.NewFromInt(400)))
	assert.True(t, payment.Amount.Equal(decimal.NewFromInt(600)))
	assert.Equal(t, &receivedBy, payment.ReceivedByID)
}

func TestInstallment_ApplyPayment_CompletesAtZero(t *testing.T) {
	inst := &models.Installment{
		Remaining: decimal.NewFromInt(300),
		Status:    models.InstallmentStatusActive,
	}

	inst.ApplyPayment(decimal.NewFromInt(100))
	assert.Equal(t, models.InstallmentStatusActive, inst.Status)
	assert.True(t, inst.Remaining.Equal(decimal.NewFromInt(200)))

	// Overpayment clamps at zero and closes the plan
	inst.ApplyPayment(decimal.NewFromInt(250))
	assert.Equal(t, models.InstallmentStatusCompleted, inst.Status)
	assert.True(t, inst.Remaining.IsZero())
	assert.NotNil(t, inst.CompletedAt)
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/celtec/pos-api/internal/config"
	"github.com/celtec/pos-api/internal/jobs"
	"github.com/celtec/pos-api/internal/models"
	"github.com/celtec/pos-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type mockRepairRepo struct {
	repository.RepairRepository
	mockFindByID     func(ctx context.Context, id uint) (*models.RepairOrder, error)
	mockCreate       func(ctx context.Context, order *models.RepairOrder) error
	mockUpdate       func(ctx context.Context, order *models.RepairOrder) error
	mockLastTicketNo func(ctx context.Context, prefix string) (string, error)
}

func (m *mockRepairRepo) FindByID(ctx context.Context, id uint) (*models.RepairOrder, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockRepairRepo) Create(ctx context.Context, order *models.RepairOrder) error {
	return m.mockCreate(ctx, order)
}

func (m *mockRepairRepo) Update(ctx context.Context, order *models.RepairOrder) error {
	return m.mockUpdate(ctx, order)
}

func (m *mockRepairRepo) LastTicketNo(ctx context.Context, prefix string) (string, error) {
	return m.mockLastTicketNo(ctx, prefix)
}

type mockCustomerRepo struct {
	repository.CustomerRepository
	mockFindByID func(ctx context.Context, id uint) (*models.Customer, error)
}

func (m *mockCustomerRepo) FindByID(ctx context.Context, id uint) (*models.Customer, error) {
	return m.mockFindByID(ctx, id)
}

func newRepairServiceForTest(repo repository.RepairRepository, customerRepo repository.CustomerRepository, worker *jobs.Worker) *RepairService {
	notificationSvc := NewNotificationService(nil, &mockAdminRepo{})
	emailSvc := NewEmailService(&config.Config{})
	return NewRepairService(repo, customerRepo, notificationSvc, emailSvc, nil, worker)
}

func TestRepairService_NextTicketNo(t *testing.T) {
	repo := &mockRepairRepo{}
	service := newRepairServiceForTest(repo, nil, nil)
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	repo.mockLastTicketNo = func(ctx context.Context, prefix string) (string, error) {
		assert.Equal(t, "RPR-20260315-", prefix)
		return "", nil
	}
	ticket, err := service.nextTicketNo(context.Background(), now)
	assert.NoError(t, err)
	assert.Equal(t, "RPR-20260315-0001", ticket)

	repo.mockLastTicketNo = func(ctx context.Context, prefix string) (string, error) {
		return "RPR-20260315-0041", nil
	}
	ticket, err = service.nextTicketNo(context.Background(), now)
	assert.NoError(t, err)
	assert.Equal(t, "RPR-20260315-0042", ticket)
}

func TestRepairService_NextTicketNo_SequenceRestartsPerDay(t *testing.T) {
	repo := &mockRepairRepo{}
	service := newRepairServiceForTest(repo, nil, nil)

	// No ticket carries the new day's prefix yet
	repo.mockLastTicketNo = func(ctx context.Context, prefix string) (string, error) {
		assert.Equal(t, "RPR-20260316-", prefix)
		return "", nil
	}
	ticket, err := service.nextTicketNo(context.Background(), time.Date(2026, 3, 16, 0, 5, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.Equal(t, "RPR-20260316-0001", ticket)
}

func TestRepairService_Create_CustomerNotFound(t *testing.T) {
	customerRepo := &mockCustomerRepo{}
	service := newRepairServiceForTest(nil, customerRepo, nil)

	customerRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Customer, error) {
		return nil, gorm.ErrRecordNotFound
	}

	order := &models.RepairOrder{CustomerID: 99, DeviceDesc: "Samsung A52", Issue: "No enciende"}
	err := service.Create(context.Background(), order, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepairService_Create_RetriesOnTicketCollision(t *testing.T) {
	repo := &mockRepairRepo{}
	customerRepo := &mockCustomerRepo{}
	worker := jobs.NewWorker(1)
	defer worker.Shutdown()
	service := newRepairServiceForTest(repo, customerRepo, worker)

	customerRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Customer, error) {
		return &models.Customer{ID: id, FullName: "Ana"}, nil
	}

	// Another order grabs the same number concurrently; the sequence moves
	// forward between attempts.
	seq := 0
	repo.mockLastTicketNo = func(ctx context.Context, prefix string) (string, error) {
		seq++
		if seq == 1 {
			return "", nil
		}
		return prefix + "0001", nil
	}
	attempts := 0
	repo.mockCreate = func(ctx context.Context, order *models.RepairOrder) error {
		attempts++
		if attempts == 1 {
			return gorm.ErrDuplicatedKey
		}
		return nil
	}

	order := &models.RepairOrder{CustomerID: 1, DeviceDesc: "iPhone 11", Issue: "Pantalla rota"}
	err := service.Create(context.Background(), order, 1)
	assert.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, models.RepairStatusReceived, order.Status)
	assert.Contains(t, order.TicketNo, "-0002")
}

func TestRepairService_Update_ClosedOrder(t *testing.T) {
	repo := &mockRepairRepo{}
	service := newRepairServiceForTest(repo, nil, nil)

	repo.mockFindByID = func(ctx context.Context, id uint) (*models.RepairOrder, error) {
		return &models.RepairOrder{ID: id, Status: models.RepairStatusDelivered}, nil
	}

	_, err := service.Update(context.Background(), 1, "desc", "issue", nil, nil, 1)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestRepairService_UpdateStatus_InvalidTarget(t *testing.T) {
	service := newRepairServiceForTest(nil, nil, nil)

	_, err := service.UpdateStatus(context.Background(), 1, "melted", 1)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestRepairService_UpdateStatus_RejectsSkippedSteps(t *testing.T) {
	repo := &mockRepairRepo{}
	service := newRepairServiceForTest(repo, nil, nil)

	repo.mockFindByID = func(ctx context.Context, id uint) (*models.RepairOrder, error) {
		return &models.RepairOrder{ID: id, Status: models.RepairStatusReceived}, nil
	}

	// received cannot jump straight to delivered
	_, err := service.UpdateStatus(context.Background(), 1, models.RepairStatusDelivered, 1)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestRepairService_UpdateStatus_CompletedStampsTime(t *testing.T) {
	repo := &mockRepairRepo{}
	worker := jobs.NewWorker(1)
	defer worker.Shutdown()
	service := newRepairServiceForTest(repo, nil, worker)

	repo.mockFindByID = func(ctx context.Context, id uint) (*models.RepairOrder, error) {
		return &models.RepairOrder{ID: id, TicketNo: "RPR-20260315-0003", Status: models.RepairStatusRepairing}, nil
	}
	var updated *models.RepairOrder
	repo.mockUpdate = func(ctx context.Context, order *models.RepairOrder) error {
		updated = order
		return nil
	}

	order, err := service.UpdateStatus(context.Background(), 3, models.RepairStatusCompleted, 1)
	assert.NoError(t, err)
	assert.Equal(t, models.RepairStatusCompleted, order.Status)
	assert.NotNil(t, order.CompletedAt)
	assert.Equal(t, order, updated)
}

func TestRepairService_UpdateStatus_CancelFromAnyOpenState(t *testing.T) {
	repo := &mockRepairRepo{}
	worker := jobs.NewWorker(1)
	defer worker.Shutdown()
	service := newRepairServiceForTest(repo, nil, worker)

	repo.mockUpdate = func(ctx context.Context, order *models.RepairOrder) error { return nil }

	for _, status := range []string{
		models.RepairStatusReceived,
		models.RepairStatusDiagnosing,
		models.RepairStatusWaitingParts,
		models.RepairStatusRepairing,
		models.RepairStatusCompleted,
	} {
		repo.mockFindByID = func(ctx context.Context, id uint) (*models.RepairOrder, error) {
			return &models.RepairOrder{ID: id, Status: status}, nil
		}
		order, err := service.UpdateStatus(context.Background(), 1, models.RepairStatusCancelled, 1)
		assert.NoError(t, err, "cancel from %s", status)
		assert.Equal(t, models.RepairStatusCancelled, order.Status)
	}
}

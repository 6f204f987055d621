package services

import (
	"context"
	"testing"

	"github.com/celtec/pos-api/internal/jobs"
	"github.com/celtec/pos-api/internal/models"
	"github.com/celtec/pos-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type mockTradeInRepo struct {
	repository.TradeInRepository
	mockFindByID func(ctx context.Context, id uint) (*models.TradeIn, error)
	mockCreate   func(ctx context.Context, tradeIn *models.TradeIn) error
	mockUpdate   func(ctx context.Context, tradeIn *models.TradeIn) error
	mockAccept   func(ctx context.Context, id uint) (*models.TradeIn, error)
}

func (m *mockTradeInRepo) FindByID(ctx context.Context, id uint) (*models.TradeIn, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockTradeInRepo) Create(ctx context.Context, tradeIn *models.TradeIn) error {
	return m.mockCreate(ctx, tradeIn)
}

func (m *mockTradeInRepo) Update(ctx context.Context, tradeIn *models.TradeIn) error {
	return m.mockUpdate(ctx, tradeIn)
}

func (m *mockTradeInRepo) Accept(ctx context.Context, id uint) (*models.TradeIn, error) {
	return m.mockAccept(ctx, id)
}

func newTradeInServiceForTest(repo repository.TradeInRepository, worker *jobs.Worker) *TradeInService {
	return NewTradeInService(repo, NewNotificationService(nil, &mockAdminRepo{}), nil, worker)
}

func TestTradeInService_Create_RejectsNonPositiveOffer(t *testing.T) {
	service := newTradeInServiceForTest(nil, nil)

	err := service.Create(context.Background(), &models.TradeIn{DeviceDesc: "Moto G8", OfferAmount: 0}, 1)
	assert.EqualError(t, err, "el monto de la oferta debe ser mayor que cero")

	err = service.Create(context.Background(), &models.TradeIn{DeviceDesc: "Moto G8", OfferAmount: -50}, 1)
	assert.Error(t, err)
}

func TestTradeInService_Create_StartsPending(t *testing.T) {
	repo := &mockTradeInRepo{}
	worker := jobs.NewWorker(1)
	defer worker.Shutdown()
	service := newTradeInServiceForTest(repo, worker)

	var created *models.TradeIn
	repo.mockCreate = func(ctx context.Context, tradeIn *models.TradeIn) error {
		created = tradeIn
		return nil
	}

	err := service.Create(context.Background(), &models.TradeIn{DeviceDesc: "iPhone XR", OfferAmount: 2500}, 1)
	assert.NoError(t, err)
	assert.Equal(t, models.TradeInStatusPending, created.Status)
}

func TestTradeInService_Accept_MapsRepositoryErrors(t *testing.T) {
	repo := &mockTradeInRepo{}
	service := newTradeInServiceForTest(repo, nil)

	repo.mockAccept = func(ctx context.Context, id uint) (*models.TradeIn, error) {
		return nil, gorm.ErrRecordNotFound
	}
	_, err := service.Accept(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	repo.mockAccept = func(ctx context.Context, id uint) (*models.TradeIn, error) {
		return nil, repository.ErrTradeInNotPending
	}
	_, err = service.Accept(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestTradeInService_Accept(t *testing.T) {
	repo := &mockTradeInRepo{}
	worker := jobs.NewWorker(1)
	defer worker.Shutdown()
	service := newTradeInServiceForTest(repo, worker)

	repo.mockAccept = func(ctx context.Context, id uint) (*models.TradeIn, error) {
		return &models.TradeIn{ID: id, DeviceDesc: "iPhone XR", OfferAmount: 2500, Status: models.TradeInStatusAccepted}, nil
	}

	tradeIn, err := service.Accept(context.Background(), 4, 1)
	assert.NoError(t, err)
	assert.Equal(t, models.TradeInStatusAccepted, tradeIn.Status)
}

func TestTradeInService_Reject_OnlyFromPending(t *testing.T) {
	repo := &mockTradeInRepo{}
	worker := jobs.NewWorker(1)
	defer worker.Shutdown()
	service := newTradeInServiceForTest(repo, worker)

	repo.mockFindByID = func(ctx context.Context, id uint) (*models.TradeIn, error) {
		return &models.TradeIn{ID: id, Status: models.TradeInStatusAccepted}, nil
	}
	_, err := service.Reject(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrInvalidState)

	repo.mockFindByID = func(ctx context.Context, id uint) (*models.TradeIn, error) {
		return &models.TradeIn{ID: id, Status: models.TradeInStatusPending}, nil
	}
	var updated *models.TradeIn
	repo.mockUpdate = func(ctx context.Context, tradeIn *models.TradeIn) error {
		updated = tradeIn
		return nil
	}
	tradeIn, err := service.Reject(context.Background(), 1, 1)
	assert.NoError(t, err)
	assert.Equal(t, models.TradeInStatusRejected, tradeIn.Status)
	assert.Equal(t, tradeIn, updated)
}

func TestTradeInService_MarkResold_OnlyFromAccepted(t *testing.T) {
	repo := &mockTradeInRepo{}
	worker := jobs.NewWorker(1)
	defer worker.Shutdown()
	service := newTradeInServiceForTest(repo, worker)

	repo.mockFindByID = func(ctx context.Context, id uint) (*models.TradeIn, error) {
		return &models.TradeIn{ID: id, Status: models.TradeInStatusPending}, nil
	}
	_, err := service.MarkResold(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrInvalidState)

	repo.mockFindByID = func(ctx context.Context, id uint) (*models.TradeIn, error) {
		return &models.TradeIn{ID: id, Status: models.TradeInStatusAccepted}, nil
	}
	repo.mockUpdate = func(ctx context.Context, tradeIn *models.TradeIn) error { return nil }
	tradeIn, err := service.MarkResold(context.Background(), 1, 1)
	assert.NoError(t, err)
	assert.Equal(t, models.TradeInStatusResold, tradeIn.Status)
}

func TestTradeInService_Create_AuditFailureDoesNotFailCreate(t *testing.T) {
	repo := &mockTradeInRepo{}
	worker := jobs.NewWorker(1)
	defer worker.Shutdown()
	service := NewTradeInService(repo, NewNotificationService(nil, &mockAdminRepo{}), brokenAuditService(t), worker)

	repo.mockCreate = func(ctx context.Context, tradeIn *models.TradeIn) error { return nil }

	err := service.Create(context.Background(), &models.TradeIn{DeviceDesc: "iPhone XR", OfferAmount: 2500}, 1)
	assert.NoError(t, err)
}

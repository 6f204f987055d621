package services

import (
	"context"
	"testing"

	"github.com/celtec/pos-api/internal/models"
	"github.com/celtec/pos-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type mockIMEIRepo struct {
	repository.IMEIRepository
	mockFindByID     func(ctx context.Context, id uint) (*models.IMEI, error)
	mockFindExisting func(ctx context.Context, codes []string) ([]string, error)
	mockCreateBatch  func(ctx context.Context, units []models.IMEI) error
	mockUpdate       func(ctx context.Context, unit *models.IMEI) error
	mockDelete       func(ctx context.Context, id uint) error
}

func (m *mockIMEIRepo) FindByID(ctx context.Context, id uint) (*models.IMEI, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockIMEIRepo) FindExisting(ctx context.Context, codes []string) ([]string, error) {
	return m.mockFindExisting(ctx, codes)
}

func (m *mockIMEIRepo) CreateBatch(ctx context.Context, units []models.IMEI) error {
	return m.mockCreateBatch(ctx, units)
}

func (m *mockIMEIRepo) Update(ctx context.Context, unit *models.IMEI) error {
	return m.mockUpdate(ctx, unit)
}

func (m *mockIMEIRepo) Delete(ctx context.Context, id uint) error {
	return m.mockDelete(ctx, id)
}

func newCatalogServiceForTest(productRepo repository.ProductRepository, imeiRepo repository.IMEIRepository) *CatalogService {
	return NewCatalogService(nil, productRepo, imeiRepo, NewNotificationService(nil, &mockAdminRepo{}), nil)
}

func trackedProduct(id uint) *models.Product {
	return &models.Product{ID: id, Name: "iPhone 13", TrackIMEI: true}
}

func TestCatalogService_BulkCreateIMEIs_NonTrackedProduct(t *testing.T) {
	productRepo := &mockProductRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Product, error) {
			return &models.Product{ID: id, Name: "Cargador USB-C", TrackIMEI: false}, nil
		},
	}
	service := newCatalogServiceForTest(productRepo, nil)

	_, err := service.BulkCreateIMEIs(context.Background(), 1, []string{"350000000000001"}, 1)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestCatalogService_BulkCreateIMEIs_ReportsDuplicates(t *testing.T) {
	productRepo := &mockProductRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Product, error) {
			return trackedProduct(id), nil
		},
	}
	imeiRepo := &mockIMEIRepo{
		mockFindExisting: func(ctx context.Context, codes []string) ([]string, error) {
			return []string{"350000000000003"}, nil
		},
	}
	service := newCatalogServiceForTest(productRepo, imeiRepo)

	// 0002 repeats inside the batch, 0003 already exists in stock
	codes := []string{"350000000000001", "350000000000002", "350000000000002", "350000000000003"}
	duplicates, err := service.BulkCreateIMEIs(context.Background(), 1, codes, 1)
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.ElementsMatch(t, []string{"350000000000002", "350000000000003"}, duplicates)
}

func TestCatalogService_BulkCreateIMEIs(t *testing.T) {
	productRepo := &mockProductRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Product, error) {
			return trackedProduct(id), nil
		},
	}
	var batch []models.IMEI
	imeiRepo := &mockIMEIRepo{
		mockFindExisting: func(ctx context.Context, codes []string) ([]string, error) {
			return nil, nil
		},
		mockCreateBatch: func(ctx context.Context, units []models.IMEI) error {
			batch = units
			return nil
		},
	}
	service := newCatalogServiceForTest(productRepo, imeiRepo)

	duplicates, err := service.BulkCreateIMEIs(context.Background(), 5, []string{"350000000000001", "350000000000002"}, 1)
	assert.NoError(t, err)
	assert.Empty(t, duplicates)
	assert.Len(t, batch, 2)
	for _, unit := range batch {
		assert.Equal(t, uint(5), unit.ProductID)
		assert.Equal(t, models.IMEIStatusInStock, unit.Status)
	}
}

func TestCatalogService_BulkCreateIMEIs_ConcurrentInsertCollision(t *testing.T) {
	productRepo := &mockProductRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Product, error) {
			return trackedProduct(id), nil
		},
	}
	imeiRepo := &mockIMEIRepo{
		mockFindExisting: func(ctx context.Context, codes []string) ([]string, error) {
			return nil, nil
		},
		mockCreateBatch: func(ctx context.Context, units []models.IMEI) error {
			return gorm.ErrDuplicatedKey
		},
	}
	service := newCatalogServiceForTest(productRepo, imeiRepo)

	_, err := service.BulkCreateIMEIs(context.Background(), 1, []string{"350000000000001"}, 1)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestCatalogService_UpdateIMEIStatus(t *testing.T) {
	imeiRepo := &mockIMEIRepo{}
	service := newCatalogServiceForTest(nil, imeiRepo)

	_, err := service.UpdateIMEIStatus(context.Background(), 1, "lost", 1)
	assert.ErrorIs(t, err, ErrInvalidState)

	imeiRepo.mockFindByID = func(ctx context.Context, id uint) (*models.IMEI, error) {
		return &models.IMEI{ID: id, IMEI: "350000000000001", Status: models.IMEIStatusInStock}, nil
	}
	var updated *models.IMEI
	imeiRepo.mockUpdate = func(ctx context.Context, unit *models.IMEI) error {
		updated = unit
		return nil
	}

	unit, err := service.UpdateIMEIStatus(context.Background(), 1, models.IMEIStatusDefective, 1)
	assert.NoError(t, err)
	assert.Equal(t, models.IMEIStatusDefective, unit.Status)
	assert.Equal(t, unit, updated)
}

func TestCatalogService_DeleteIMEI_SoldUnitIsHistory(t *testing.T) {
	imeiRepo := &mockIMEIRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.IMEI, error) {
			return &models.IMEI{ID: id, IMEI: "350000000000001", Status: models.IMEIStatusSold}, nil
		},
	}
	service := newCatalogServiceForTest(nil, imeiRepo)

	err := service.DeleteIMEI(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrHasDependencies)
}

func TestCatalogService_DeleteIMEI(t *testing.T) {
	deleted := false
	imeiRepo := &mockIMEIRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.IMEI, error) {
			return &models.IMEI{ID: id, IMEI: "350000000000001", Status: models.IMEIStatusInStock}, nil
		},
		mockDelete: func(ctx context.Context, id uint) error {
			deleted = true
			return nil
		},
	}
	service := newCatalogServiceForTest(nil, imeiRepo)

	err := service.DeleteIMEI(context.Background(), 1, 1)
	assert.NoError(t, err)
	assert.True(t, deleted)
}

func TestCatalogService_CheckLowStock_NoLowProducts(t *testing.T) {
	productRepo := &mockProductRepo{
		mockFindAllWithStock: func(ctx context.Context) ([]models.Product, error) {
			return []models.Product{{ID: 1, Name: "iPhone 13", Quantity: 20}}, nil
		},
	}
	service := newCatalogServiceForTest(productRepo, nil)

	err := service.CheckLowStock(context.Background())
	assert.NoError(t, err)
}

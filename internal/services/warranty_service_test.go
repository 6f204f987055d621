package services

import (
	"context"
	"testing"
	"time"

	"github.com/celtec/pos-api/internal/models"
	"github.com/celtec/pos-api/internal/repository"
	"github.com/stretchr/testify/assert"
)

type mockWarrantyRepo struct {
	repository.WarrantyRepository
	mockFindByID func(ctx context.Context, id uint) (*models.Warranty, error)
	mockCreate   func(ctx context.Context, warranty *models.Warranty) error
	mockUpdate   func(ctx context.Context, warranty *models.Warranty) error
}

func (m *mockWarrantyRepo) FindByID(ctx context.Context, id uint) (*models.Warranty, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockWarrantyRepo) Create(ctx context.Context, warranty *models.Warranty) error {
	return m.mockCreate(ctx, warranty)
}

func (m *mockWarrantyRepo) Update(ctx context.Context, warranty *models.Warranty) error {
	return m.mockUpdate(ctx, warranty)
}

func shopWarranty() *models.Warranty {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return &models.Warranty{
		ProductID: 1,
		Type:      models.WarrantyTypeShop,
		StartDate: start,
		EndDate:   start.AddDate(0, 6, 0),
	}
}

func TestWarrantyService_Create_InvalidTypeIsValidation(t *testing.T) {
	service := NewWarrantyService(nil, nil, nil)

	warranty := shopWarranty()
	warranty.Type = "promo"
	err := service.Create(context.Background(), warranty, 1)

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, err.Error(), "tipo de garantía inválido")
}

func TestWarrantyService_Update_InvalidTypeIsValidation(t *testing.T) {
	service := NewWarrantyService(nil, nil, nil)

	warranty := shopWarranty()
	warranty.ID = 4
	warranty.Type = "promo"
	err := service.Update(context.Background(), warranty, 1)

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestWarrantyService_Create_EndBeforeStartIsValidation(t *testing.T) {
	service := NewWarrantyService(nil, nil, nil)

	warranty := shopWarranty()
	warranty.EndDate = warranty.StartDate.AddDate(0, 0, -1)
	err := service.Create(context.Background(), warranty, 1)

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestWarrantyService_Create_SetsActiveStatus(t *testing.T) {
	repo := &mockWarrantyRepo{
		mockCreate: func(ctx context.Context, warranty *models.Warranty) error {
			return nil
		},
	}
	productRepo := &mockProductRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Product, error) {
			return trackedProduct(id), nil
		},
	}
	service := NewWarrantyService(repo, productRepo, nil)

	warranty := shopWarranty()
	err := service.Create(context.Background(), warranty, 1)

	assert.NoError(t, err)
	assert.Equal(t, models.WarrantyStatusActive, warranty.Status)
}

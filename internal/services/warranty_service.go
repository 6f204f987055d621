package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/celtec/pos-api/internal/models"
	"github.com/celtec/pos-api/internal/repository"
	"gorm.io/gorm"
)

// WarrantyService handles warranty records. Status is admin-settable
// directly; there is no automatic expiry sweep.
type WarrantyService struct {
	repo        repository.WarrantyRepository
	productRepo repository.ProductRepository
	auditSvc    *AuditService
}

func NewWarrantyService(repo repository.WarrantyRepository, productRepo repository.ProductRepository, auditSvc *AuditService) *WarrantyService {
	return &WarrantyService{repo: repo, productRepo: productRepo, auditSvc: auditSvc}
}

func (s *WarrantyService) FindByID(ctx context.Context, id uint) (*models.Warranty, error) {
	warranty, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return warranty, nil
}

func (s *WarrantyService) List(ctx context.Context, query *repository.ListQuery) ([]models.Warranty, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *WarrantyService) Create(ctx context.Context, warranty *models.Warranty, actorID uint) error {
	if !models.ValidWarrantyType(warranty.Type) {
		return NewValidationError(fmt.Sprintf("tipo de garantía inválido: %s", warranty.Type))
	}
	if warranty.EndDate.Before(warranty.StartDate) {
		return NewValidationError("la fecha de fin no puede ser anterior a la de inicio")
	}
	if _, err := s.productRepo.FindByID(ctx, warranty.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	warranty.Status = models.WarrantyStatusActive
	if err := s.repo.Create(ctx, warranty); err != nil {
		return err
	}
	s.auditSvc.Record(ctx, actorID, "CREATE", "Warranty", warranty.ID,
		fmt.Sprintf("Garantía %s registrada para producto #%d", warranty.Type, warranty.ProductID), "", "")
	return nil
}

func (s *WarrantyService) Update(ctx context.Context, warranty *models.Warranty, actorID uint) error {
	if !models.ValidWarrantyType(warranty.Type) {
		return NewValidationError(fmt.Sprintf("tipo de garantía inválido: %s", warranty.Type))
	}
	if warranty.EndDate.Before(warranty.StartDate) {
		return NewValidationError("la fecha de fin no puede ser anterior a la de inicio")
	}
	if err := s.repo.Update(ctx, warranty); err != nil {
		return err
	}
	s.auditSvc.Record(ctx, actorID, "UPDATE", "Warranty", warranty.ID,
		fmt.Sprintf("Garantía #%d actualizada", warranty.ID), "", "")
	return nil
}

// UpdateStatus sets the warranty status after validating enum membership.
func (s *WarrantyService) UpdateStatus(ctx context.Context, id uint, status string, actorID uint) (*models.Warranty, error) {
	if !models.ValidWarrantyStatus(status) {
		return nil, ErrInvalidState
	}
	warranty, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := warranty.Status
	warranty.Status = status
	if err := s.repo.Update(ctx, warranty); err != nil {
		return nil, err
	}
	s.auditSvc.Record(ctx, actorID, "UPDATE_STATUS", "Warranty", warranty.ID,
		fmt.Sprintf("Garantía #%d: %s -> %s", warranty.ID, previous, status), "", "")
	return warranty, nil
}

func (s *WarrantyService) Delete(ctx context.Context, id uint, actorID uint) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.auditSvc.Record(ctx, actorID, "DELETE", "Warranty", id, "Garantía eliminada", "", "")
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/celtec/pos-api/internal/models"
	"github.com/celtec/pos-api/internal/repository"
	"gorm.io/gorm"
)

// CustomerService handles customer-related business logic
type CustomerService struct {
	repo     repository.CustomerRepository
	auditSvc *AuditService
}

func NewCustomerService(repo repository.CustomerRepository, auditSvc *AuditService) *CustomerService {
	return &CustomerService{repo: repo, auditSvc: auditSvc}
}

func (s *CustomerService) FindByID(ctx context.Context, id uint) (*models.Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) List(ctx context.Context, query *repository.ListQuery) ([]models.Customer, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *CustomerService) Create(ctx context.Context, customer *models.Customer, actorID uint) error {
	if err := s.repo.Create(ctx, customer); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	s.auditSvc.Record(ctx, actorID, "CREATE", "Customer", customer.ID,
		fmt.Sprintf("Cliente creado: %s (%s)", customer.FullName, customer.Phone), "", "")
	return nil
}

func (s *CustomerService) Update(ctx context.Context, customer *models.Customer, actorID uint) error {
	if err := s.repo.Update(ctx, customer); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	s.auditSvc.Record(ctx, actorID, "UPDATE", "Customer", customer.ID,
		fmt.Sprintf("Cliente actualizado: %s", customer.FullName), "", "")
	return nil
}

func (s *CustomerService) Delete(ctx context.Context, id uint, actorID uint) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.auditSvc.Record(ctx, actorID, "DELETE", "Customer", id, "Cliente eliminado (soft delete)", "", "")
	return nil
}

func (s *CustomerService) Restore(ctx context.Context, id uint, actorID uint) error {
	if err := s.repo.Restore(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.auditSvc.Record(ctx, actorID, "RESTORE", "Customer", id, "Cliente restaurado", "", "")
	return nil
}

// SupplierService handles supplier-related business logic
type SupplierService struct {
	repo     repository.SupplierRepository
	auditSvc *AuditService
}

func NewSupplierService(repo repository.SupplierRepository, auditSvc *AuditService) *SupplierService {
	return &SupplierService{repo: repo, auditSvc: auditSvc}
}

func (s *SupplierService) FindByID(ctx context.Context, id uint) (*models.Supplier, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return supplier, nil
}

func (s *SupplierService) List(ctx context.Context, query *repository.ListQuery) ([]models.Supplier, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *SupplierService) Create(ctx context.Context, supplier *models.Supplier, actorID uint) error {
	if err := s.repo.Create(ctx, supplier); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	s.auditSvc.Record(ctx, actorID, "CREATE", "Supplier", supplier.ID,
		fmt.Sprintf("Proveedor creado: %s", supplier.Name), "", "")
	return nil
}

func (s *SupplierService) Update(ctx context.Context, supplier *models.Supplier, actorID uint) error {
	if err := s.repo.Update(ctx, supplier); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	s.auditSvc.Record(ctx, actorID, "UPDATE", "Supplier", supplier.ID,
		fmt.Sprintf("Proveedor actualizado: %s", supplier.Name), "", "")
	return nil
}

func (s *SupplierService) Delete(ctx context.Context, id uint, actorID uint) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.auditSvc.Record(ctx, actorID, "DELETE", "Supplier", id, "Proveedor eliminado (soft delete)", "", "")
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/celtec/pos-api/internal/models"
	"github.com/celtec/pos-api/internal/repository"
	"gorm.io/gorm"
)

// ExpenseService handles operating expenses and their categories
type ExpenseService struct {
	repo         repository.ExpenseRepository
	categoryRepo repository.ExpenseCategoryRepository
	auditSvc     *AuditService
}

func NewExpenseService(repo repository.ExpenseRepository, categoryRepo repository.ExpenseCategoryRepository, auditSvc *AuditService) *ExpenseService {
	return &ExpenseService{repo: repo, categoryRepo: categoryRepo, auditSvc: auditSvc}
}

// --- Expense categories ---

func (s *ExpenseService) FindCategoryByID(ctx context.Context, id uint) (*models.ExpenseCategory, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *ExpenseService) ListCategories(ctx context.Context, query *repository.ListQuery) ([]models.ExpenseCategory, int64, error) {
	return s.categoryRepo.List(ctx, query)
}

func (s *ExpenseService) CreateCategory(ctx context.Context, category *models.ExpenseCategory, actorID uint) error {
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	s.auditSvc.Record(ctx, actorID, "CREATE", "ExpenseCategory", category.ID,
		fmt.Sprintf("Categoría de gasto creada: %s", category.Name), "", "")
	return nil
}

func (s *ExpenseService) UpdateCategory(ctx context.Context, category *models.ExpenseCategory, actorID uint) error {
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	s.auditSvc.Record(ctx, actorID, "UPDATE", "ExpenseCategory", category.ID,
		fmt.Sprintf("Categoría de gasto actualizada: %s", category.Name), "", "")
	return nil
}

// DeleteCategory refuses to delete a category that still has expenses.
func (s *ExpenseService) DeleteCategory(ctx context.Context, id uint, actorID uint) error {
	if _, err := s.FindCategoryByID(ctx, id); err != nil {
		return err
	}
	count, err := s.categoryRepo.CountExpenses(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrHasDependencies
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.auditSvc.Record(ctx, actorID, "DELETE", "ExpenseCategory", id, "Categoría de gasto eliminada", "", "")
	return nil
}

// --- Expenses ---

func (s *ExpenseService) FindByID(ctx context.Context, id uint) (*models.Expense, error) {
	expense, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return expense, nil
}

func (s *ExpenseService) List(ctx context.Context, query *repository.ListQuery) ([]models.Expense, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *ExpenseService) Create(ctx context.Context, expense *models.Expense, actorID uint) error {
	if expense.Amount <= 0 {
		return NewValidationError("el monto del gasto debe ser mayor que cero")
	}
	if _, err := s.FindCategoryByID(ctx, expense.CategoryID); err != nil {
		return err
	}
	expense.RecordedByID = &actorID

	if err := s.repo.Create(ctx, expense); err != nil {
		return err
	}
	s.auditSvc.Record(ctx, actorID, "CREATE", "Expense", expense.ID,
		fmt.Sprintf("Gasto registrado: L%.2f", expense.Amount), "", "")
	return nil
}

func (s *ExpenseService) Update(ctx context.Context, expense *models.Expense, actorID uint) error {
	if expense.Amount <= 0 {
		return NewValidationError("el monto del gasto debe ser mayor que cero")
	}
	if err := s.repo.Update(ctx, expense); err != nil {
		return err
	}
	s.auditSvc.Record(ctx, actorID, "UPDATE", "Expense", expense.ID,
		fmt.Sprintf("Gasto actualizado: L%.2f", expense.Amount), "", "")
	return nil
}

func (s *ExpenseService) Delete(ctx context.Context, id uint, actorID uint) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.auditSvc.Record(ctx, actorID, "DELETE", "Expense", id, "Gasto eliminado", "", "")
	return nil
}

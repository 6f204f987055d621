package repository

import (
	"context"
	"time"

	"github.com/celtec/pos-api/internal/models"
	"gorm.io/gorm"
)

// ExpenseCategoryRepository defines the interface for expense category data access
type ExpenseCategoryRepository interface {
	FindByID(ctx context.Context, id uint) (*models.ExpenseCategory, error)
	Create(ctx context.Context, category *models.ExpenseCategory) error
	Update(ctx context.Context, category *models.ExpenseCategory) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.ExpenseCategory, int64, error)
	CountExpenses(ctx context.Context, id uint) (int64, error)
}

type expenseCategoryRepository struct {
	db *gorm.DB
}

// NewExpenseCategoryRepository creates a new expense category repository
func NewExpenseCategoryRepository(db *gorm.DB) ExpenseCategoryRepository {
	return &expenseCategoryRepository{db: db}
}

func (r *expenseCategoryRepository) FindByID(ctx context.Context, id uint) (*models.ExpenseCategory, error) {
	var category models.ExpenseCategory
	err := r.db.WithContext(ctx).First(&category, id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *expenseCategoryRepository) Create(ctx context.Context, category *models.ExpenseCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *expenseCategoryRepository) Update(ctx context.Context, category *models.ExpenseCategory) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *expenseCategoryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.ExpenseCategory{}, id).Error
}

func (r *expenseCategoryRepository) List(ctx context.Context, query *ListQuery) ([]models.ExpenseCategory, int64, error) {
	var categories []models.ExpenseCategory
	var total int64

	db := r.db.WithContext(ctx).Model(&models.ExpenseCategory{})

	if query.Search != "" {
		db = db.Where("name ILIKE ?", "%"+query.Search+"%")
	}

	db.Count(&total)
	db = db.Order("name ASC")

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&categories).Error
	return categories, total, err
}

func (r *expenseCategoryRepository) CountExpenses(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Expense{}).
		Where("category_id = ?", id).
		Count(&count).Error
	return count, err
}

// ExpenseRepository defines the interface for expense data access
type ExpenseRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Expense, error)
	Create(ctx context.Context, expense *models.Expense) error
	Update(ctx context.Context, expense *models.Expense) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Expense, int64, error)
	FindInRange(ctx context.Context, from, to time.Time) ([]models.Expense, error)
}

type expenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) FindByID(ctx context.Context, id uint) (*models.Expense, error) {
	var expense models.Expense
	err := r.db.WithContext(ctx).Preload("Category").First(&expense, id).Error
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *expenseRepository) Update(ctx context.Context, expense *models.Expense) error {
	return r.db.WithContext(ctx).Save(expense).Error
}

func (r *expenseRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Expense{}, id).Error
}

func (r *expenseRepository) List(ctx context.Context, query *ListQuery) ([]models.Expense, int64, error) {
	var expenses []models.Expense
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Expense{})

	if query.Filters["category_id"] != "" {
		db = db.Where("category_id = ?", query.Filters["category_id"])
	}
	if val := query.Filters["start_date"]; val != "" {
		db = db.Where("date >= ?", val)
	}
	if val := query.Filters["end_date"]; val != "" {
		db = db.Where("date <= ?", val)
	}

	if query.Search != "" {
		db = db.Where("description ILIKE ?", "%"+query.Search+"%")
	}

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = db.Order("date DESC")

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Preload("Category").Find(&expenses).Error
	return expenses, total, err
}

// FindInRange loads expenses with categories for in-memory report aggregation
func (r *expenseRepository) FindInRange(ctx context.Context, from, to time.Time) ([]models.Expense, error) {
	var expenses []models.Expense
	db := r.db.WithContext(ctx).Preload("Category")
	if !from.IsZero() {
		db = db.Where("date >= ?", from)
	}
	if !to.IsZero() {
		db = db.Where("date <= ?", to)
	}
	err := db.Order("date ASC").Find(&expenses).Error
	return expenses, err
}

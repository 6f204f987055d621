package repository

import (
	"context"
	"errors"

	"github.com/celtec/pos-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInstallmentNotActive is returned when a payment is applied to a
// completed installment.
var ErrInstallmentNotActive = errors.New("installment is not active")

// InstallmentRepository defines the interface for installment data access
type InstallmentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Installment, error)
	FindBySale(ctx context.Context, saleID uint) (*models.Installment, error)
	Create(ctx context.Context, installment *models.Installment) error
	List(ctx context.Context, query *ListQuery) ([]models.Installment, int64, error)
	ApplyPayment(ctx context.Context, installmentID uint, payment *models.InstallmentPayment) (*models.Installment, error)
	FindDelinquent(ctx context.Context, olderThanDays int) ([]models.Installment, error)
	FindByCustomer(ctx context.Context, customerID uint) ([]models.Installment, error)
	MarkReminderSent(ctx context.Context, installmentIDs []uint) error
	FindPayment(ctx context.Context, paymentID uint) (*models.InstallmentPayment, error)
	UpdatePayment(ctx context.Context, payment *models.InstallmentPayment) error
}

type installmentRepository struct {
	db *gorm.DB
}

// NewInstallmentRepository creates a new installment repository
func NewInstallmentRepository(db *gorm.DB) InstallmentRepository {
	return &installmentRepository{db: db}
}

func (r *installmentRepository) FindByID(ctx context.Context, id uint) (*models.Installment, error) {
	var installment models.Installment
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&installment, id).Error
	if err != nil {
		return nil, err
	}
	return &installment, nil
}

func (r *installmentRepository) FindBySale(ctx context.Context, saleID uint) (*models.Installment, error) {
	var installment models.Installment
	err := r.db.WithContext(ctx).
		Where("sale_id = ?", saleID).
		First(&installment).Error
	if err != nil {
		return nil, err
	}
	return &installment, nil
}

func (r *installmentRepository) FindByCustomer(ctx context.Context, customerID uint) ([]models.Installment, error) {
	var installments []models.Installment
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Preload("Sale.Items.Product").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Order("created_at ASC").
		Find(&installments).Error
	return installments, err
}

func (r *installmentRepository) Create(ctx context.Context, installment *models.Installment) error {
	return r.db.WithContext(ctx).Create(installment).Error
}

func (r *installmentRepository) List(ctx context.Context, query *ListQuery) ([]models.Installment, int64, error) {
	var installments []models.Installment
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Installment{})

	if query.Filters["status"] != "" {
		db = db.Where("installments.status = ?", query.Filters["status"])
	}
	if query.Filters["customer_id"] != "" {
		db = db.Where("installments.customer_id = ?", query.Filters["customer_id"])
	}

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Joins("LEFT JOIN customers ON customers.id = installments.customer_id").
			Where("customers.full_name ILIKE ? OR customers.phone ILIKE ?", search, search)
	}

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = db.Order("installments.created_at DESC")

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.
		Select("installments.*").
		Preload("Customer").
		Find(&installments).Error
	return installments, total, err
}

// ApplyPayment appends the payment record and updates the installment
// balance in a single transaction. The installment row is locked for the
// duration so concurrent payments serialize; either both writes commit or
// neither does.
func (r *installmentRepository) ApplyPayment(ctx context.Context, installmentID uint, payment *models.InstallmentPayment) (*models.Installment, error) {
	var installment models.Installment

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&installment, installmentID).Error; err != nil {
			return err
		}

		if !installment.MayAddPayment() {
			return ErrInstallmentNotActive
		}

		payment.InstallmentID = installment.ID
		if err := tx.Create(payment).Error; err != nil {
			return err
		}

		installment.ApplyPayment(payment.Amount)
		return tx.Save(&installment).Error
	})
	if err != nil {
		return nil, err
	}

	return &installment, nil
}

// FindDelinquent returns active installments with no payment recorded in the
// last olderThanDays days, for the overdue reminder job. Installments
// reminded within the last 7 days are excluded to avoid spamming.
func (r *installmentRepository) FindDelinquent(ctx context.Context, olderThanDays int) ([]models.Installment, error) {
	var installments []models.Installment
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Sale.Items.Product").
		Where("installments.status = ?", models.InstallmentStatusActive).
		Where("installments.start_date < CURRENT_DATE - (? * INTERVAL '1 day')", olderThanDays).
		Where("NOT EXISTS (SELECT 1 FROM installment_payments p WHERE p.installment_id = installments.id AND p.created_at > CURRENT_TIMESTAMP - (? * INTERVAL '1 day'))", olderThanDays).
		Where("(installments.reminder_sent_at IS NULL OR installments.reminder_sent_at < CURRENT_TIMESTAMP - INTERVAL '7 days')").
		Find(&installments).Error
	return installments, err
}

// MarkReminderSent sets reminder_sent_at to now for the given installment IDs.
func (r *installmentRepository) MarkReminderSent(ctx context.Context, installmentIDs []uint) error {
	if len(installmentIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Installment{}).
		Where("id IN ?", installmentIDs).
		Update("reminder_sent_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}

func (r *installmentRepository) FindPayment(ctx context.Context, paymentID uint) (*models.InstallmentPayment, error) {
	var payment models.InstallmentPayment
	err := r.db.WithContext(ctx).First(&payment, paymentID).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *installmentRepository) UpdatePayment(ctx context.Context, payment *models.InstallmentPayment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

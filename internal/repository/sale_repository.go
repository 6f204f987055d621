package repository

import (
	"context"
	"errors"
	"time"

	"github.com/celtec/pos-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sale stock errors surfaced from the create transaction
var (
	ErrIMEIUnavailable   = errors.New("imei unit is not in stock")
	ErrInsufficientStock = errors.New("insufficient product stock")
)

// SaleRepository defines the interface for sale data access
type SaleRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Sale, error)
	Create(ctx context.Context, sale *models.Sale) error
	List(ctx context.Context, query *ListQuery) ([]models.Sale, int64, error)
	FindInRange(ctx context.Context, from, to time.Time) ([]models.Sale, error)
}

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) FindByID(ctx context.Context, id uint) (*models.Sale, error) {
	var sale models.Sale
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Seller").
		Preload("Items.Product").
		Preload("Items.IMEI").
		Preload("Installment").
		First(&sale, id).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// Create persists the sale and applies its stock effects in one transaction:
// every sold IMEI unit flips to sold, accessory quantities are decremented
// and, for financed sales, the attached installment ledger is written. A unit
// that is not in_stock, a quantity underflow or a failed ledger insert rolls
// everything back.
func (r *saleRepository) Create(ctx context.Context, sale *models.Sale) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Items ride along as associations; the ledger is inserted
		// explicitly once the sale has its ID.
		if err := tx.Omit("Installment").Create(sale).Error; err != nil {
			return err
		}

		for _, item := range sale.Items {
			if item.IMEIID != nil {
				var unit models.IMEI
				if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
					First(&unit, *item.IMEIID).Error; err != nil {
					return err
				}
				if unit.Status != models.IMEIStatusInStock {
					return ErrIMEIUnavailable
				}
				if err := tx.Model(&unit).Update("status", models.IMEIStatusSold).Error; err != nil {
					return err
				}
				continue
			}

			// Guarded decrement so concurrent sales cannot drive quantity negative
			result := tx.Model(&models.Product{}).
				Where("id = ? AND track_imei = false AND quantity >= ?", item.ProductID, item.Quantity).
				Update("quantity", gorm.Expr("quantity - ?", item.Quantity))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrInsufficientStock
			}
		}

		if sale.Installment != nil {
			sale.Installment.SaleID = sale.ID
			if err := tx.Create(sale.Installment).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *saleRepository) List(ctx context.Context, query *ListQuery) ([]models.Sale, int64, error) {
	var sales []models.Sale
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Sale{})

	if query.Filters["customer_id"] != "" {
		db = db.Where("sales.customer_id = ?", query.Filters["customer_id"])
	}
	if query.Filters["payment_method"] != "" {
		db = db.Where("sales.payment_method = ?", query.Filters["payment_method"])
	}
	if val := query.Filters["start_date"]; val != "" {
		db = db.Where("sales.created_at >= ?", val)
	}
	if val := query.Filters["end_date"]; val != "" {
		// Include the full day if only date is provided
		if len(val) == 10 {
			val += " 23:59:59"
		}
		db = db.Where("sales.created_at <= ?", val)
	}

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Joins("LEFT JOIN customers ON customers.id = sales.customer_id").
			Where("sales.guid ILIKE ? OR customers.full_name ILIKE ? OR customers.phone ILIKE ?",
				search, search, search)
	}

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = db.Order("sales.created_at DESC")

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.
		Select("sales.*").
		Preload("Customer").
		Preload("Seller").
		Preload("Items.Product").
		Find(&sales).Error
	return sales, total, err
}

// FindInRange loads sales with items for in-memory report aggregation
func (r *saleRepository) FindInRange(ctx context.Context, from, to time.Time) ([]models.Sale, error) {
	var sales []models.Sale
	db := r.db.WithContext(ctx).Preload("Items")
	if !from.IsZero() {
		db = db.Where("created_at >= ?", from)
	}
	if !to.IsZero() {
		db = db.Where("created_at <= ?", to)
	}
	err := db.Order("created_at ASC").Find(&sales).Error
	return sales, err
}

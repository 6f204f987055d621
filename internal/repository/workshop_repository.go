package repository

import (
	"context"
	"errors"

	"github.com/celtec/pos-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrTradeInNotPending is returned when accepting a trade-in that already
// left the pending state.
var ErrTradeInNotPending = errors.New("trade-in is not pending")

// RepairRepository defines the interface for repair order data access
type RepairRepository interface {
	FindByID(ctx context.Context, id uint) (*models.RepairOrder, error)
	Create(ctx context.Context, order *models.RepairOrder) error
	Update(ctx context.Context, order *models.RepairOrder) error
	List(ctx context.Context, query *ListQuery) ([]models.RepairOrder, int64, error)
	LastTicketNo(ctx context.Context, prefix string) (string, error)
}

type repairRepository struct {
	db *gorm.DB
}

// NewRepairRepository creates a new repair order repository
func NewRepairRepository(db *gorm.DB) RepairRepository {
	return &repairRepository{db: db}
}

func (r *repairRepository) FindByID(ctx context.Context, id uint) (*models.RepairOrder, error) {
	var order models.RepairOrder
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("IMEI").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repairRepository) Create(ctx context.Context, order *models.RepairOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repairRepository) Update(ctx context.Context, order *models.RepairOrder) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *repairRepository) List(ctx context.Context, query *ListQuery) ([]models.RepairOrder, int64, error) {
	var orders []models.RepairOrder
	var total int64

	db := r.db.WithContext(ctx).Model(&models.RepairOrder{})

	if query.Filters["status"] != "" {
		db = db.Where("repair_orders.status = ?", query.Filters["status"])
	}
	if query.Filters["customer_id"] != "" {
		db = db.Where("repair_orders.customer_id = ?", query.Filters["customer_id"])
	}

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Joins("LEFT JOIN customers ON customers.id = repair_orders.customer_id").
			Where("repair_orders.ticket_no ILIKE ? OR repair_orders.device_desc ILIKE ? OR customers.full_name ILIKE ?",
				search, search, search)
	}

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = db.Order("repair_orders.created_at DESC")

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.
		Select("repair_orders.*").
		Preload("Customer").
		Preload("IMEI").
		Find(&orders).Error
	return orders, total, err
}

// LastTicketNo returns the highest ticket number with the given prefix,
// relying on zero-padded counters ordering lexicographically. Empty string
// when no ticket exists for the prefix.
func (r *repairRepository) LastTicketNo(ctx context.Context, prefix string) (string, error) {
	var order models.RepairOrder
	err := r.db.WithContext(ctx).
		Where("ticket_no LIKE ?", prefix+"%").
		Order("ticket_no DESC").
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return order.TicketNo, nil
}

// TradeInRepository defines the interface for trade-in data access
type TradeInRepository interface {
	FindByID(ctx context.Context, id uint) (*models.TradeIn, error)
	Create(ctx context.Context, tradeIn *models.TradeIn) error
	Update(ctx context.Context, tradeIn *models.TradeIn) error
	List(ctx context.Context, query *ListQuery) ([]models.TradeIn, int64, error)
	Accept(ctx context.Context, id uint) (*models.TradeIn, error)
}

type tradeInRepository struct {
	db *gorm.DB
}

// NewTradeInRepository creates a new trade-in repository
func NewTradeInRepository(db *gorm.DB) TradeInRepository {
	return &tradeInRepository{db: db}
}

func (r *tradeInRepository) FindByID(ctx context.Context, id uint) (*models.TradeIn, error) {
	var tradeIn models.TradeIn
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("IMEI").
		Preload("Product").
		First(&tradeIn, id).Error
	if err != nil {
		return nil, err
	}
	return &tradeIn, nil
}

func (r *tradeInRepository) Create(ctx context.Context, tradeIn *models.TradeIn) error {
	return r.db.WithContext(ctx).Create(tradeIn).Error
}

func (r *tradeInRepository) Update(ctx context.Context, tradeIn *models.TradeIn) error {
	return r.db.WithContext(ctx).Save(tradeIn).Error
}

func (r *tradeInRepository) List(ctx context.Context, query *ListQuery) ([]models.TradeIn, int64, error) {
	var tradeIns []models.TradeIn
	var total int64

	db := r.db.WithContext(ctx).Model(&models.TradeIn{})

	if query.Filters["status"] != "" {
		db = db.Where("trade_ins.status = ?", query.Filters["status"])
	}

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Joins("LEFT JOIN customers ON customers.id = trade_ins.customer_id").
			Where("trade_ins.device_desc ILIKE ? OR customers.full_name ILIKE ?", search, search)
	}

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = db.Order("trade_ins.created_at DESC")

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.
		Select("trade_ins.*").
		Preload("Customer").
		Preload("IMEI").
		Find(&tradeIns).Error
	return tradeIns, total, err
}

// Accept flips a pending trade-in to accepted and, when it references an
// IMEI unit, marks that unit traded_in. Both writes commit together or not
// at all. The trade-in row is checked first so a vanished record fails with
// not-found before the IMEI is touched.
func (r *tradeInRepository) Accept(ctx context.Context, id uint) (*models.TradeIn, error) {
	var tradeIn models.TradeIn

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&tradeIn, id).Error; err != nil {
			return err
		}

		if !tradeIn.MayAccept() {
			return ErrTradeInNotPending
		}

		tradeIn.Status = models.TradeInStatusAccepted
		if err := tx.Save(&tradeIn).Error; err != nil {
			return err
		}

		if tradeIn.IMEIID != nil {
			if err := tx.Model(&models.IMEI{}).
				Where("id = ?", *tradeIn.IMEIID).
				Update("status", models.IMEIStatusTradedIn).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &tradeIn, nil
}

// WarrantyRepository defines the interface for warranty data access
type WarrantyRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Warranty, error)
	Create(ctx context.Context, warranty *models.Warranty) error
	Update(ctx context.Context, warranty *models.Warranty) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Warranty, int64, error)
}

type warrantyRepository struct {
	db *gorm.DB
}

// NewWarrantyRepository creates a new warranty repository
func NewWarrantyRepository(db *gorm.DB) WarrantyRepository {
	return &warrantyRepository{db: db}
}

func (r *warrantyRepository) FindByID(ctx context.Context, id uint) (*models.Warranty, error) {
	var warranty models.Warranty
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("IMEI").
		Preload("Customer").
		First(&warranty, id).Error
	if err != nil {
		return nil, err
	}
	return &warranty, nil
}

func (r *warrantyRepository) Create(ctx context.Context, warranty *models.Warranty) error {
	return r.db.WithContext(ctx).Create(warranty).Error
}

func (r *warrantyRepository) Update(ctx context.Context, warranty *models.Warranty) error {
	return r.db.WithContext(ctx).Save(warranty).Error
}

func (r *warrantyRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Warranty{}, id).Error
}

func (r *warrantyRepository) List(ctx context.Context, query *ListQuery) ([]models.Warranty, int64, error) {
	var warranties []models.Warranty
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Warranty{})

	if query.Filters["status"] != "" {
		db = db.Where("warranties.status = ?", query.Filters["status"])
	}
	if query.Filters["type"] != "" {
		db = db.Where("warranties.type = ?", query.Filters["type"])
	}
	if query.Filters["product_id"] != "" {
		db = db.Where("warranties.product_id = ?", query.Filters["product_id"])
	}

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Joins("LEFT JOIN customers ON customers.id = warranties.customer_id").
			Joins("LEFT JOIN products ON products.id = warranties.product_id").
			Where("customers.full_name ILIKE ? OR products.name ILIKE ?", search, search)
	}

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = db.Order("warranties.created_at DESC")

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.
		Select("warranties.*").
		Preload("Product").
		Preload("Customer").
		Find(&warranties).Error
	return warranties, total, err
}

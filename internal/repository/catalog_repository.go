package repository

import (
	"context"

	"github.com/celtec/pos-api/internal/models"
	"gorm.io/gorm"
)

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Category, int64, error)
	CountProducts(ctx context.Context, id uint) (int64, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) FindByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).First(&category, id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Category{}, id).Error
}

func (r *categoryRepository) List(ctx context.Context, query *ListQuery) ([]models.Category, int64, error) {
	var categories []models.Category
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Category{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("name ILIKE ?", search)
	}

	db.Count(&total)
	db = db.Order("name ASC")

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&categories).Error
	return categories, total, err
}

func (r *categoryRepository) CountProducts(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("category_id = ?", id).
		Count(&count).Error
	return count, err
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Product, int64, error)
	FindAllWithStock(ctx context.Context) ([]models.Product, error)
	CountSoldIMEIs(ctx context.Context, id uint) (int64, error)
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Supplier").
		Preload("IMEIs").
		First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, id).Error
}

func (r *productRepository) List(ctx context.Context, query *ListQuery) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Product{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("name ILIKE ? OR brand ILIKE ? OR model ILIKE ?", search, search, search)
	}

	if query.Filters["category_id"] != "" {
		db = db.Where("category_id = ?", query.Filters["category_id"])
	}
	if query.Filters["supplier_id"] != "" {
		db = db.Where("supplier_id = ?", query.Filters["supplier_id"])
	}

	// Count total using a separate session so the main query is not altered by Count()
	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("name ASC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Preload("Category").Preload("IMEIs").Find(&products).Error
	return products, total, err
}

// FindAllWithStock loads the whole catalog with IMEIs for the inventory report
func (r *productRepository) FindAllWithStock(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("IMEIs").
		Find(&products).Error
	return products, err
}

func (r *productRepository) CountSoldIMEIs(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.IMEI{}).
		Where("product_id = ? AND status = ?", id, models.IMEIStatusSold).
		Count(&count).Error
	return count, err
}

// IMEIRepository defines the interface for IMEI stock unit data access
type IMEIRepository interface {
	FindByID(ctx context.Context, id uint) (*models.IMEI, error)
	FindByCode(ctx context.Context, code string) (*models.IMEI, error)
	FindExisting(ctx context.Context, codes []string) ([]string, error)
	Create(ctx context.Context, unit *models.IMEI) error
	CreateBatch(ctx context.Context, units []models.IMEI) error
	Update(ctx context.Context, unit *models.IMEI) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.IMEI, int64, error)
}

type imeiRepository struct {
	db *gorm.DB
}

// NewIMEIRepository creates a new IMEI repository
func NewIMEIRepository(db *gorm.DB) IMEIRepository {
	return &imeiRepository{db: db}
}

func (r *imeiRepository) FindByID(ctx context.Context, id uint) (*models.IMEI, error) {
	var unit models.IMEI
	err := r.db.WithContext(ctx).Preload("Product").First(&unit, id).Error
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *imeiRepository) FindByCode(ctx context.Context, code string) (*models.IMEI, error) {
	var unit models.IMEI
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("imei = ?", code).
		First(&unit).Error
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

// FindExisting returns the subset of codes already present in stock
func (r *imeiRepository) FindExisting(ctx context.Context, codes []string) ([]string, error) {
	var existing []string
	err := r.db.WithContext(ctx).
		Model(&models.IMEI{}).
		Where("imei IN ?", codes).
		Pluck("imei", &existing).Error
	return existing, err
}

func (r *imeiRepository) Create(ctx context.Context, unit *models.IMEI) error {
	return r.db.WithContext(ctx).Create(unit).Error
}

// CreateBatch inserts all units atomically: one duplicate rolls back the
// whole batch.
func (r *imeiRepository) CreateBatch(ctx context.Context, units []models.IMEI) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&units).Error
	})
}

func (r *imeiRepository) Update(ctx context.Context, unit *models.IMEI) error {
	return r.db.WithContext(ctx).Save(unit).Error
}

func (r *imeiRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.IMEI{}, id).Error
}

func (r *imeiRepository) List(ctx context.Context, query *ListQuery) ([]models.IMEI, int64, error) {
	var units []models.IMEI
	var total int64

	db := r.db.WithContext(ctx).Model(&models.IMEI{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("imei ILIKE ?", search)
	}

	if query.Filters["product_id"] != "" {
		db = db.Where("product_id = ?", query.Filters["product_id"])
	}
	if query.Filters["status"] != "" {
		db = db.Where("status = ?", query.Filters["status"])
	}

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = db.Order("created_at DESC")

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Preload("Product").Find(&units).Error
	return units, total, err
}

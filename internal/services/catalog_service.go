package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/celtec/pos-api/internal/models"
	"github.com/celtec/pos-api/internal/repository"
	"gorm.io/gorm"
)

// CatalogService handles categories, products and IMEI-tracked stock units
type CatalogService struct {
	categoryRepo    repository.CategoryRepository
	productRepo     repository.ProductRepository
	imeiRepo        repository.IMEIRepository
	notificationSvc *NotificationService
	auditSvc        *AuditService
}

func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	imeiRepo repository.IMEIRepository,
	notificationSvc *NotificationService,
	auditSvc *AuditService,
) *CatalogService {
	return &CatalogService{
		categoryRepo:    categoryRepo,
		productRepo:     productRepo,
		imeiRepo:        imeiRepo,
		notificationSvc: notificationSvc,
		auditSvc:        auditSvc,
	}
}

// --- Categories ---

func (s *CatalogService) FindCategoryByID(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) ListCategories(ctx context.Context, query *repository.ListQuery) ([]models.Category, int64, error) {
	return s.categoryRepo.List(ctx, query)
}

func (s *CatalogService) CreateCategory(ctx context.Context, category *models.Category, actorID uint) error {
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	s.auditSvc.Record(ctx, actorID, "CREATE", "Category", category.ID,
		fmt.Sprintf("Categoría creada: %s", category.Name), "", "")
	return nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, category *models.Category, actorID uint) error {
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	s.auditSvc.Record(ctx, actorID, "UPDATE", "Category", category.ID,
		fmt.Sprintf("Categoría actualizada: %s", category.Name), "", "")
	return nil
}

// DeleteCategory refuses to delete a category that still has products.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uint, actorID uint) error {
	if _, err := s.FindCategoryByID(ctx, id); err != nil {
		return err
	}
	count, err := s.categoryRepo.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrHasDependencies
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.auditSvc.Record(ctx, actorID, "DELETE", "Category", id, "Categoría eliminada", "", "")
	return nil
}

// --- Products ---

func (s *CatalogService) FindProductByID(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, query *repository.ListQuery) ([]models.Product, int64, error) {
	return s.productRepo.List(ctx, query)
}

func (s *CatalogService) CreateProduct(ctx context.Context, product *models.Product, actorID uint) error {
	if _, err := s.FindCategoryByID(ctx, product.CategoryID); err != nil {
		return err
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return err
	}
	s.auditSvc.Record(ctx, actorID, "CREATE", "Product", product.ID,
		fmt.Sprintf("Producto creado: %s %s %s", product.Brand, product.Model, product.Name), "", "")
	return nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, product *models.Product, actorID uint) error {
	if err := s.productRepo.Update(ctx, product); err != nil {
		return err
	}
	s.auditSvc.Record(ctx, actorID, "UPDATE", "Product", product.ID,
		fmt.Sprintf("Producto actualizado: %s", product.Name), "", "")
	return nil
}

// DeleteProduct refuses to delete a product that already has sold units,
// since sale history references it.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint, actorID uint) error {
	if _, err := s.FindProductByID(ctx, id); err != nil {
		return err
	}
	sold, err := s.productRepo.CountSoldIMEIs(ctx, id)
	if err != nil {
		return err
	}
	if sold > 0 {
		return ErrHasDependencies
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.auditSvc.Record(ctx, actorID, "DELETE", "Product", id, "Producto eliminado", "", "")
	return nil
}

// --- IMEI units ---

func (s *CatalogService) FindIMEIByID(ctx context.Context, id uint) (*models.IMEI, error) {
	unit, err := s.imeiRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return unit, nil
}

func (s *CatalogService) ListIMEIs(ctx context.Context, query *repository.ListQuery) ([]models.IMEI, int64, error) {
	return s.imeiRepo.List(ctx, query)
}

func (s *CatalogService) CreateIMEI(ctx context.Context, unit *models.IMEI, actorID uint) error {
	product, err := s.FindProductByID(ctx, unit.ProductID)
	if err != nil {
		return err
	}
	if !product.TrackIMEI {
		return ErrInvalidState
	}
	if err := s.imeiRepo.Create(ctx, unit); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	s.auditSvc.Record(ctx, actorID, "CREATE", "IMEI", unit.ID,
		fmt.Sprintf("IMEI registrado: %s (producto #%d)", unit.IMEI, unit.ProductID), "", "")
	return nil
}

// BulkCreateIMEIs registers a batch of units for a product. The whole batch
// is rejected when any code already exists; the returned slice names the
// offending codes so the caller can fix the upload.
func (s *CatalogService) BulkCreateIMEIs(ctx context.Context, productID uint, codes []string, actorID uint) ([]string, error) {
	product, err := s.FindProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.TrackIMEI {
		return nil, ErrInvalidState
	}

	// Reject in-batch repeats as duplicates too
	seen := make(map[string]bool, len(codes))
	var duplicates []string
	for _, code := range codes {
		if seen[code] {
			duplicates = append(duplicates, code)
		}
		seen[code] = true
	}

	existing, err := s.imeiRepo.FindExisting(ctx, codes)
	if err != nil {
		return nil, err
	}
	duplicates = append(duplicates, existing...)
	if len(duplicates) > 0 {
		return duplicates, ErrDuplicate
	}

	units := make([]models.IMEI, 0, len(codes))
	for _, code := range codes {
		units = append(units, models.IMEI{
			ProductID: productID,
			IMEI:      code,
			Status:    models.IMEIStatusInStock,
		})
	}
	if err := s.imeiRepo.CreateBatch(ctx, units); err != nil {
		// Concurrent insert can still slip past the pre-check
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, err
	}

	s.auditSvc.Record(ctx, actorID, "BULK_CREATE", "IMEI", productID,
		fmt.Sprintf("%d IMEIs registrados para producto #%d", len(codes), productID), "", "")
	return nil, nil
}

// UpdateIMEIStatus moves a unit to any valid status. Transitions are
// deliberately unrestricted so staff can correct mistakes.
func (s *CatalogService) UpdateIMEIStatus(ctx context.Context, id uint, status string, actorID uint) (*models.IMEI, error) {
	if !models.ValidIMEIStatus(status) {
		return nil, ErrInvalidState
	}
	unit, err := s.FindIMEIByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := unit.Status
	unit.Status = status
	if err := s.imeiRepo.Update(ctx, unit); err != nil {
		return nil, err
	}
	s.auditSvc.Record(ctx, actorID, "UPDATE_STATUS", "IMEI", unit.ID,
		fmt.Sprintf("IMEI %s: %s -> %s", unit.IMEI, previous, status), "", "")
	return unit, nil
}

// DeleteIMEI refuses to delete sold units; they are part of sale history.
func (s *CatalogService) DeleteIMEI(ctx context.Context, id uint, actorID uint) error {
	unit, err := s.FindIMEIByID(ctx, id)
	if err != nil {
		return err
	}
	if !unit.MayDelete() {
		return ErrHasDependencies
	}
	if err := s.imeiRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.auditSvc.Record(ctx, actorID, "DELETE", "IMEI", id,
		fmt.Sprintf("IMEI eliminado: %s", unit.IMEI), "", "")
	return nil
}

// CheckLowStock notifies admins about products at or below the restock
// threshold. Intended to run daily.
func (s *CatalogService) CheckLowStock(ctx context.Context) error {
	products, err := s.productRepo.FindAllWithStock(ctx)
	if err != nil {
		return err
	}

	var low []models.Product
	for _, p := range products {
		if p.IsLowStock() {
			low = append(low, p)
		}
	}
	if len(low) == 0 {
		return nil
	}

	msg := fmt.Sprintf("%d producto(s) con stock bajo:\n", len(low))
	for _, p := range low {
		msg += fmt.Sprintf("- %s %s %s: %d unidad(es)\n", p.Brand, p.Model, p.Name, p.InStockUnits())
	}
	return s.notificationSvc.NotifyAdmins(ctx, "Stock bajo", msg, models.NotificationTypeLowStock)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/celtec/pos-api/internal/jobs"
	"github.com/celtec/pos-api/internal/models"
	"github.com/celtec/pos-api/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleItemInput is one line of a sale request
type SaleItemInput struct {
	ProductID uint  `json:"product_id" binding:"required"`
	IMEIID    *uint `json:"imei_id"`
	Quantity  int   `json:"quantity"`
}

// SaleInput is the request payload for creating a sale
type SaleInput struct {
	CustomerID    *uint           `json:"customer_id"`
	PaymentMethod string          `json:"payment_method" binding:"required"`
	Discount      float64         `json:"discount"`
	Tax           float64         `json:"tax"`
	Note          *string         `json:"note"`
	Items         []SaleItemInput `json:"items" binding:"required"`

	// Installment terms, required when payment_method is installment
	DownPayment float64 `json:"down_payment"`
	TotalMonths int     `json:"total_months"`
}

// SaleService handles point-of-sale transactions
type SaleService struct {
	repo            repository.SaleRepository
	productRepo     repository.ProductRepository
	imeiRepo        repository.IMEIRepository
	customerRepo    repository.CustomerRepository
	notificationSvc *NotificationService
	auditSvc        *AuditService
	worker          *jobs.Worker
}

func NewSaleService(
	repo repository.SaleRepository,
	productRepo repository.ProductRepository,
	imeiRepo repository.IMEIRepository,
	customerRepo repository.CustomerRepository,
	notificationSvc *NotificationService,
	auditSvc *AuditService,
	worker *jobs.Worker,
) *SaleService {
	return &SaleService{
		repo:            repo,
		productRepo:     productRepo,
		imeiRepo:        imeiRepo,
		customerRepo:    customerRepo,
		notificationSvc: notificationSvc,
		auditSvc:        auditSvc,
		worker:          worker,
	}
}

func (s *SaleService) FindByID(ctx context.Context, id uint) (*models.Sale, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sale, nil
}

func (s *SaleService) List(ctx context.Context, query *repository.ListQuery) ([]models.Sale, int64, error) {
	return s.repo.List(ctx, query)
}

func validPaymentMethod(m string) bool {
	switch m {
	case models.PaymentMethodCash, models.PaymentMethodCard, models.PaymentMethodTransfer, models.PaymentMethodInstallment:
		return true
	}
	return false
}

// Create registers a sale: it snapshots prices and costs per line, marks
// sold IMEI units and decrements accessory stock atomically, and opens the
// installment ledger when the sale is financed.
func (s *SaleService) Create(ctx context.Context, input *SaleInput, sellerID uint) (*models.Sale, error) {
	if !validPaymentMethod(input.PaymentMethod) {
		return nil, NewValidationError(fmt.Sprintf("método de pago inválido: %s", input.PaymentMethod))
	}
	if len(input.Items) == 0 {
		return nil, NewValidationError("la venta requiere al menos un artículo")
	}
	if input.Discount < 0 || input.Tax < 0 {
		return nil, NewValidationError("descuento e impuesto no pueden ser negativos")
	}

	if input.CustomerID != nil {
		if _, err := s.customerRepo.FindByID(ctx, *input.CustomerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
	}

	// Installment sales require a customer to attach the ledger to
	if input.PaymentMethod == models.PaymentMethodInstallment {
		if input.CustomerID == nil {
			return nil, NewValidationError("una venta a plazos requiere cliente")
		}
		if input.TotalMonths < 1 {
			return nil, NewValidationError("total_months debe ser al menos 1")
		}
		if input.DownPayment < 0 {
			return nil, NewValidationError("la prima no puede ser negativa")
		}
	}

	var subtotal float64
	items := make([]models.SaleItem, 0, len(input.Items))
	for _, in := range input.Items {
		product, err := s.productRepo.FindByID(ctx, in.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}

		qty := in.Quantity
		if qty <= 0 {
			qty = 1
		}

		if product.TrackIMEI {
			if in.IMEIID == nil {
				return nil, NewValidationError(fmt.Sprintf("el producto %s requiere un IMEI", product.Name))
			}
			unit, err := s.imeiRepo.FindByID(ctx, *in.IMEIID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, ErrNotFound
				}
				return nil, err
			}
			if unit.ProductID != product.ID {
				return nil, NewValidationError(fmt.Sprintf("el IMEI %s no pertenece al producto %s", unit.IMEI, product.Name))
			}
			// One unit per serialized line
			qty = 1
		}

		items = append(items, models.SaleItem{
			ProductID: product.ID,
			IMEIID:    in.IMEIID,
			Quantity:  qty,
			UnitPrice: product.SalePrice,
			UnitCost:  product.CostPrice,
		})
		subtotal += product.SalePrice * float64(qty)
	}

	if input.Discount > subtotal {
		return nil, NewValidationError("el descuento no puede exceder el subtotal")
	}

	sale := &models.Sale{
		GUID:          uuid.New().String(),
		CustomerID:    input.CustomerID,
		SellerID:      sellerID,
		Subtotal:      subtotal,
		Discount:      input.Discount,
		Tax:           input.Tax,
		Total:         subtotal - input.Discount + input.Tax,
		PaymentMethod: input.PaymentMethod,
		Note:          input.Note,
		Items:         items,
	}

	// Financed sales carry their ledger into the repository so the sale and
	// the installment commit or roll back together.
	if input.PaymentMethod == models.PaymentMethodInstallment {
		if input.DownPayment > sale.Total {
			return nil, NewValidationError("la prima no puede exceder el total")
		}
		total := decimal.NewFromFloat(sale.Total)
		down := decimal.NewFromFloat(input.DownPayment)
		remaining := total.Sub(down)
		monthly := remaining.DivRound(decimal.NewFromInt(int64(input.TotalMonths)), 2)

		sale.Installment = &models.Installment{
			CustomerID:    *input.CustomerID,
			TotalAmount:   total,
			DownPayment:   down,
			Remaining:     remaining,
			MonthlyAmount: monthly,
			TotalMonths:   input.TotalMonths,
			Status:        models.InstallmentStatusActive,
			StartDate:     time.Now(),
		}
	}

	if err := s.repo.Create(ctx, sale); err != nil {
		if errors.Is(err, repository.ErrIMEIUnavailable) || errors.Is(err, repository.ErrInsufficientStock) {
			return nil, ErrOutOfStock
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, err
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.auditSvc.Log(ctx, sellerID, "CREATE", "Sale", sale.ID,
			fmt.Sprintf("Venta %s por L%.2f (%s)", sale.GUID, sale.Total, sale.PaymentMethod), "", "")
	})

	return sale, nil
}

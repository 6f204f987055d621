package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/celtec/pos-api/internal/jobs"
	"github.com/celtec/pos-api/internal/models"
	"github.com/celtec/pos-api/internal/repository"
	"github.com/celtec/pos-api/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InstallmentService handles installment plans and their payment ledger
type InstallmentService struct {
	repo            repository.InstallmentRepository
	saleRepo        repository.SaleRepository
	customerRepo    repository.CustomerRepository
	notificationSvc *NotificationService
	emailSvc        *EmailService
	auditSvc        *AuditService
	worker          *jobs.Worker
}

func NewInstallmentService(
	repo repository.InstallmentRepository,
	saleRepo repository.SaleRepository,
	customerRepo repository.CustomerRepository,
	notificationSvc *NotificationService,
	emailSvc *EmailService,
	auditSvc *AuditService,
	worker *jobs.Worker,
) *InstallmentService {
	return &InstallmentService{
		repo:            repo,
		saleRepo:        saleRepo,
		customerRepo:    customerRepo,
		notificationSvc: notificationSvc,
		emailSvc:        emailSvc,
		auditSvc:        auditSvc,
		worker:          worker,
	}
}

func (s *InstallmentService) FindByID(ctx context.Context, id uint) (*models.Installment, error) {
	installment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return installment, nil
}

func (s *InstallmentService) FindBySale(ctx context.Context, saleID uint) (*models.Installment, error) {
	installment, err := s.repo.FindBySale(ctx, saleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return installment, nil
}

func (s *InstallmentService) List(ctx context.Context, query *repository.ListQuery) ([]models.Installment, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *InstallmentService) FindPayment(ctx context.Context, paymentID uint) (*models.InstallmentPayment, error) {
	payment, err := s.repo.FindPayment(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return payment, nil
}

// UpdateReceiptPath records the stored file path of a payment receipt
func (s *InstallmentService) UpdateReceiptPath(ctx context.Context, paymentID uint, path string) error {
	payment, err := s.repo.FindPayment(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	payment.ReceiptPath = &path
	return s.repo.UpdatePayment(ctx, payment)
}

// Create opens an installment ledger for an existing sale. A sale can carry
// at most one plan; the unique index on sale_id backs that up under
// concurrency.
func (s *InstallmentService) Create(ctx context.Context, installment *models.Installment, actorID uint) error {
	if installment.TotalAmount.Sign() <= 0 {
		return NewValidationError("total_amount debe ser mayor que cero")
	}
	if installment.MonthlyAmount.Sign() <= 0 {
		return NewValidationError("monthly_amount debe ser mayor que cero")
	}
	if installment.DownPayment.Sign() < 0 {
		return NewValidationError("down_payment no puede ser negativa")
	}
	if installment.TotalMonths < 1 {
		return NewValidationError("total_months debe ser al menos 1")
	}
	if installment.DownPayment.GreaterThan(installment.TotalAmount) {
		return NewValidationError("down_payment no puede exceder total_amount")
	}

	sale, err := s.saleRepo.FindByID(ctx, installment.SaleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if sale.CustomerID == nil {
		return NewValidationError("la venta no tiene cliente asociado")
	}

	installment.CustomerID = *sale.CustomerID
	installment.Remaining = installment.TotalAmount.Sub(installment.DownPayment)
	installment.Status = models.InstallmentStatusActive

	if err := s.repo.Create(ctx, installment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.auditSvc.Log(ctx, actorID, "CREATE", "Installment", installment.ID,
			fmt.Sprintf("Plan de pagos abierto para venta #%d: L%s en %d meses",
				installment.SaleID, installment.TotalAmount.StringFixed(2), installment.TotalMonths), "", "")
	})
	return nil
}

// AddPayment applies a payment to an active installment. The balance update
// and the ledger append commit atomically in the repository; side-channels
// fire after the commit and never roll it back.
func (s *InstallmentService) AddPayment(ctx context.Context, installmentID uint, amount decimal.Decimal, note *string, receivedByID uint) (*models.Installment, *models.InstallmentPayment, error) {
	if amount.Sign() <= 0 {
		return nil, nil, NewValidationError("el monto del pago debe ser mayor que cero")
	}

	payment := &models.InstallmentPayment{
		Amount:       amount,
		Note:         note,
		ReceivedByID: &receivedByID,
	}

	installment, err := s.repo.ApplyPayment(ctx, installmentID, payment)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		if errors.Is(err, repository.ErrInstallmentNotActive) {
			return nil, nil, ErrInvalidState
		}
		return nil, nil, err
	}

	completed := installment.Status == models.InstallmentStatusCompleted

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		full, err := s.repo.FindByID(ctx, installment.ID)
		if err != nil {
			return err
		}

		if err := s.emailSvc.SendInstallmentReceipt(ctx, full, payment); err != nil {
			logger.Warn(fmt.Sprintf("Failed to send receipt for installment %d: %v", full.ID, err))
		}

		if completed {
			if err := s.notificationSvc.NotifyAdmins(ctx, "Plan completado",
				fmt.Sprintf("El cliente %s terminó de pagar su plan #%d", full.Customer.FullName, full.ID),
				models.NotificationTypeInstallmentClosed); err != nil {
				return err
			}
			return s.emailSvc.SendInstallmentCompleted(ctx, full)
		}

		return s.notificationSvc.NotifyAdmins(ctx, "Pago recibido",
			fmt.Sprintf("Pago de L%s aplicado al plan #%d; saldo L%s",
				amount.StringFixed(2), full.ID, full.Remaining.StringFixed(2)),
			models.NotificationTypeInstallmentPaid)
	})

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.auditSvc.Log(ctx, receivedByID, "ADD_PAYMENT", "Installment", installment.ID,
			fmt.Sprintf("Pago de L%s aplicado; saldo restante L%s",
				amount.StringFixed(2), installment.Remaining.StringFixed(2)), "", "")
	})

	return installment, payment, nil
}

// CheckOverdueInstallments finds active plans with no recent payment,
// notifies admins and emails each customer one reminder. Intended to run
// hourly; the per-installment reminder timestamp keeps emails to at most one
// per week.
func (s *InstallmentService) CheckOverdueInstallments(ctx context.Context) error {
	delinquent, err := s.repo.FindDelinquent(ctx, 30)
	if err != nil {
		return fmt.Errorf("find delinquent installments: %w", err)
	}
	if len(delinquent) == 0 {
		return nil
	}

	byCustomer := make(map[uint][]models.Installment)
	for _, inst := range delinquent {
		byCustomer[inst.CustomerID] = append(byCustomer[inst.CustomerID], inst)
	}

	sent := 0
	for customerID, insts := range byCustomer {
		customer := &insts[0].Customer
		if customer.ID == 0 {
			continue
		}
		if err := s.emailSvc.SendOverdueInstallments(ctx, customer, insts); err != nil {
			logger.Warn(fmt.Sprintf("[Overdue check] Failed to email customer %d: %v", customerID, err))
			continue
		}
		ids := make([]uint, 0, len(insts))
		for _, inst := range insts {
			ids = append(ids, inst.ID)
		}
		if err := s.repo.MarkReminderSent(ctx, ids); err != nil {
			logger.Warn(fmt.Sprintf("[Overdue check] Failed to mark reminders for customer %d: %v", customerID, err))
		}
		sent++
	}

	msg := fmt.Sprintf("%d plan(es) de pago sin abonos en los últimos 30 días", len(delinquent))
	if err := s.notificationSvc.NotifyAdmins(ctx, "Cuotas vencidas", msg, models.NotificationTypeInstallmentOverdue); err != nil {
		return err
	}

	logger.Info(fmt.Sprintf("[Overdue check] %d delinquent installment(s), %d reminder email(s) sent", len(delinquent), sent))
	return nil
}

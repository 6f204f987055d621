package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/celtec/pos-api/internal/jobs"
	"github.com/celtec/pos-api/internal/models"
	"github.com/celtec/pos-api/internal/repository"
	"github.com/celtec/pos-api/internal/statemachine"
	"gorm.io/gorm"
)

// TradeInService handles customer device part exchanges
type TradeInService struct {
	repo            repository.TradeInRepository
	notificationSvc *NotificationService
	auditSvc        *AuditService
	worker          *jobs.Worker
}

func NewTradeInService(
	repo repository.TradeInRepository,
	notificationSvc *NotificationService,
	auditSvc *AuditService,
	worker *jobs.Worker,
) *TradeInService {
	return &TradeInService{
		repo:            repo,
		notificationSvc: notificationSvc,
		auditSvc:        auditSvc,
		worker:          worker,
	}
}

func (s *TradeInService) FindByID(ctx context.Context, id uint) (*models.TradeIn, error) {
	tradeIn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return tradeIn, nil
}

func (s *TradeInService) List(ctx context.Context, query *repository.ListQuery) ([]models.TradeIn, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *TradeInService) Create(ctx context.Context, tradeIn *models.TradeIn, actorID uint) error {
	if tradeIn.OfferAmount <= 0 {
		return NewValidationError("el monto de la oferta debe ser mayor que cero")
	}
	tradeIn.Status = models.TradeInStatusPending

	if err := s.repo.Create(ctx, tradeIn); err != nil {
		return err
	}
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.auditSvc.Log(ctx, actorID, "CREATE", "TradeIn", tradeIn.ID,
			fmt.Sprintf("Permuta registrada: %s por L%.2f", tradeIn.DeviceDesc, tradeIn.OfferAmount), "", "")
	})
	return nil
}

// Accept takes the device in: the trade-in and its linked IMEI unit (if any)
// change together in one transaction inside the repository.
func (s *TradeInService) Accept(ctx context.Context, id uint, actorID uint) (*models.TradeIn, error) {
	tradeIn, err := s.repo.Accept(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		if errors.Is(err, repository.ErrTradeInNotPending) {
			return nil, ErrInvalidState
		}
		return nil, err
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyAdmins(ctx, "Permuta aceptada",
			fmt.Sprintf("Permuta #%d aceptada por L%.2f", tradeIn.ID, tradeIn.OfferAmount),
			models.NotificationTypeTradeInAccepted)
	})

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.auditSvc.Log(ctx, actorID, "ACCEPT", "TradeIn", tradeIn.ID,
			fmt.Sprintf("Permuta aceptada: %s", tradeIn.DeviceDesc), "", "")
	})
	return tradeIn, nil
}

func (s *TradeInService) Reject(ctx context.Context, id uint, actorID uint) (*models.TradeIn, error) {
	tradeIn, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	machine := statemachine.NewTradeInFSM(tradeIn)
	if err := machine.Reject(ctx); err != nil {
		return nil, ErrInvalidState
	}

	if err := s.repo.Update(ctx, tradeIn); err != nil {
		return nil, err
	}
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.auditSvc.Log(ctx, actorID, "REJECT", "TradeIn", tradeIn.ID,
			fmt.Sprintf("Permuta rechazada: %s", tradeIn.DeviceDesc), "", "")
	})
	return tradeIn, nil
}

// MarkResold closes the loop once the accepted device leaves the shop again.
func (s *TradeInService) MarkResold(ctx context.Context, id uint, actorID uint) (*models.TradeIn, error) {
	tradeIn, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	machine := statemachine.NewTradeInFSM(tradeIn)
	if err := machine.Resell(ctx); err != nil {
		return nil, ErrInvalidState
	}

	if err := s.repo.Update(ctx, tradeIn); err != nil {
		return nil, err
	}
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.auditSvc.Log(ctx, actorID, "RESELL", "TradeIn", tradeIn.ID,
			fmt.Sprintf("Equipo de permuta revendido: %s", tradeIn.DeviceDesc), "", "")
	})
	return tradeIn, nil
}

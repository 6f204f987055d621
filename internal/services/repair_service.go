package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/celtec/pos-api/internal/jobs"
	"github.com/celtec/pos-api/internal/models"
	"github.com/celtec/pos-api/internal/repository"
	"github.com/celtec/pos-api/internal/statemachine"
	"github.com/celtec/pos-api/pkg/logger"
	"gorm.io/gorm"
)

const ticketPrefix = "RPR"

// RepairService handles workshop repair orders
type RepairService struct {
	repo            repository.RepairRepository
	customerRepo    repository.CustomerRepository
	notificationSvc *NotificationService
	emailSvc        *EmailService
	auditSvc        *AuditService
	worker          *jobs.Worker
}

func NewRepairService(
	repo repository.RepairRepository,
	customerRepo repository.CustomerRepository,
	notificationSvc *NotificationService,
	emailSvc *EmailService,
	auditSvc *AuditService,
	worker *jobs.Worker,
) *RepairService {
	return &RepairService{
		repo:            repo,
		customerRepo:    customerRepo,
		notificationSvc: notificationSvc,
		emailSvc:        emailSvc,
		auditSvc:        auditSvc,
		worker:          worker,
	}
}

func (s *RepairService) FindByID(ctx context.Context, id uint) (*models.RepairOrder, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *RepairService) List(ctx context.Context, query *repository.ListQuery) ([]models.RepairOrder, int64, error) {
	return s.repo.List(ctx, query)
}

// Create opens a repair ticket. The ticket number carries the intake date
// and a per-day counter; the unique index on ticket_no catches two orders
// racing for the same number, in which case we regenerate and retry.
func (s *RepairService) Create(ctx context.Context, order *models.RepairOrder, actorID uint) error {
	if _, err := s.customerRepo.FindByID(ctx, order.CustomerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	order.Status = models.RepairStatusReceived

	var err error
	for attempt := 0; attempt < 3; attempt++ {
		order.TicketNo, err = s.nextTicketNo(ctx, time.Now())
		if err != nil {
			return err
		}
		err = s.repo.Create(ctx, order)
		if err == nil {
			break
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		logger.Warn(fmt.Sprintf("Ticket %s already taken, retrying (%d)", order.TicketNo, attempt+1))
	}
	if err != nil {
		return err
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.auditSvc.Log(ctx, actorID, "CREATE", "RepairOrder", order.ID,
			fmt.Sprintf("Orden de reparación %s abierta: %s", order.TicketNo, order.DeviceDesc), "", "")
	})
	return nil
}

// nextTicketNo builds RPR-YYYYMMDD-NNNN, continuing today's sequence.
func (s *RepairService) nextTicketNo(ctx context.Context, now time.Time) (string, error) {
	prefix := fmt.Sprintf("%s-%s-", ticketPrefix, now.Format("20060102"))

	last, err := s.repo.LastTicketNo(ctx, prefix)
	if err != nil {
		return "", err
	}

	seq := 1
	if last != "" {
		if n, err := strconv.Atoi(strings.TrimPrefix(last, prefix)); err == nil {
			seq = n + 1
		}
	}

	return fmt.Sprintf("%s%04d", prefix, seq), nil
}

// Update edits the order's descriptive fields. Status changes go through
// UpdateStatus only.
func (s *RepairService) Update(ctx context.Context, id uint, deviceDesc, issue string, diagnosis *string, repairCost *float64, actorID uint) (*models.RepairOrder, error) {
	order, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.IsClosed() {
		return nil, ErrInvalidState
	}

	if deviceDesc != "" {
		order.DeviceDesc = deviceDesc
	}
	if issue != "" {
		order.Issue = issue
	}
	if diagnosis != nil {
		order.Diagnosis = diagnosis
	}
	if repairCost != nil {
		order.RepairCost = repairCost
	}

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.auditSvc.Log(ctx, actorID, "UPDATE", "RepairOrder", order.ID,
			fmt.Sprintf("Orden %s actualizada", order.TicketNo), "", "")
	})
	return order, nil
}

// UpdateStatus moves the order through the workshop flow. completed stamps
// completed_at and notifies the customer their device is ready.
func (s *RepairService) UpdateStatus(ctx context.Context, id uint, target string, actorID uint) (*models.RepairOrder, error) {
	if !models.ValidRepairStatus(target) {
		return nil, ErrInvalidState
	}

	order, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := order.Status
	machine := statemachine.NewRepairFSM(order)
	if err := machine.TransitionTo(ctx, target); err != nil {
		return nil, ErrInvalidState
	}

	if order.Status == models.RepairStatusCompleted {
		now := time.Now()
		order.CompletedAt = &now
	}

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}

	if order.Status == models.RepairStatusCompleted {
		s.worker.EnqueueAsync(func(ctx context.Context) error {
			if err := s.notificationSvc.NotifyAdmins(ctx, "Reparación completada",
				fmt.Sprintf("Orden %s lista para entrega", order.TicketNo),
				models.NotificationTypeRepairCompleted); err != nil {
				return err
			}
			return s.emailSvc.SendRepairReady(ctx, order)
		})
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.auditSvc.Log(ctx, actorID, "UPDATE_STATUS", "RepairOrder", order.ID,
			fmt.Sprintf("Orden %s: %s -> %s", order.TicketNo, previous, order.Status), "", "")
	})
	return order, nil
}

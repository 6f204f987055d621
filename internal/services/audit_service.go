package services

import (
	"context"
	"fmt"

	"github.com/celtec/pos-api/internal/models"
	"github.com/celtec/pos-api/pkg/logger"
	"gorm.io/gorm"
)

type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Log records an audit entry. It is a no-op when audit storage is not
// configured.
func (s *AuditService) Log(ctx context.Context, userID uint, action, entity string, entityID uint, details, ip, userAgent string) error {
	if s == nil || s.db == nil {
		return nil
	}
	logEntry := &models.AuditLog{
		UserID:    userID,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Details:   details,
		IPAddress: ip,
		UserAgent: userAgent,
	}
	return s.db.Create(logEntry).Error
}

// Record writes an audit entry and swallows storage failures. An operation
// that already committed must not be reported as failed because the audit
// insert did.
func (s *AuditService) Record(ctx context.Context, userID uint, action, entity string, entityID uint, details, ip, userAgent string) {
	if err := s.Log(ctx, userID, action, entity, entityID, details, ip, userAgent); err != nil {
		logger.Warn(fmt.Sprintf("[Audit] %s %s#%d: %v", action, entity, entityID, err))
	}
}

// List retrieves audit logs with filters
func (s *AuditService) List(ctx context.Context, limit, offset int) ([]models.AuditLog, int64, error) {
	var logs []models.AuditLog
	var total int64

	if err := s.db.Model(&models.AuditLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	result := s.db.Preload("User").Order("created_at desc").Limit(limit).Offset(offset).Find(&logs)
	return logs, total, result.Error
}

package services

import (
	"github.com/celtec/pos-api/internal/config"
	"github.com/celtec/pos-api/internal/jobs"
	"github.com/celtec/pos-api/internal/repository"
	"gorm.io/gorm"
)

// Services holds all service instances
type Services struct {
	Auth         *AuthService
	User         *UserService
	Customer     *CustomerService
	Supplier     *SupplierService
	Catalog      *CatalogService
	Sale         *SaleService
	Installment  *InstallmentService
	Expense      *ExpenseService
	Repair       *RepairService
	TradeIn      *TradeInService
	Warranty     *WarrantyService
	Report       *ReportService
	Export       *ExportService
	Notification *NotificationService
	Audit        *AuditService
	Email        *EmailService
	Job          *JobService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, cfg *config.Config, db *gorm.DB) *Services {
	notificationSvc := NewNotificationService(repos.Notification, repos.User)
	emailSvc := NewEmailService(cfg)
	auditSvc := NewAuditService(db)

	reportSvc := NewReportService(repos.Sale, repos.Expense, repos.Product)

	return &Services{
		Auth:         NewAuthService(repos.User, repos.RefreshToken, cfg),
		User:         NewUserService(repos.User, emailSvc, auditSvc),
		Customer:     NewCustomerService(repos.Customer, auditSvc),
		Supplier:     NewSupplierService(repos.Supplier, auditSvc),
		Catalog:      NewCatalogService(repos.Category, repos.Product, repos.IMEI, notificationSvc, auditSvc),
		Sale:         NewSaleService(repos.Sale, repos.Product, repos.IMEI, repos.Customer, notificationSvc, auditSvc, worker),
		Installment:  NewInstallmentService(repos.Installment, repos.Sale, repos.Customer, notificationSvc, emailSvc, auditSvc, worker),
		Expense:      NewExpenseService(repos.Expense, repos.ExpenseCategory, auditSvc),
		Repair:       NewRepairService(repos.Repair, repos.Customer, notificationSvc, emailSvc, auditSvc, worker),
		TradeIn:      NewTradeInService(repos.TradeIn, notificationSvc, auditSvc, worker),
		Warranty:     NewWarrantyService(repos.Warranty, repos.Product, auditSvc),
		Report:       reportSvc,
		Export:       NewExportService(reportSvc, repos.Customer, repos.Installment, repos.Repair),
		Notification: notificationSvc,
		Audit:        auditSvc,
		Email:        emailSvc,
		Job:          NewJobService(worker),
	}
}

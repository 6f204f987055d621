package handlers

import (
	"errors"
	"net/http"

	"github.com/celtec/pos-api/internal/services"
	"github.com/celtec/pos-api/internal/storage"
	"github.com/celtec/pos-api/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Handlers holds all handler instances
type Handlers struct {
	Health       *HealthHandler
	Auth         *AuthHandler
	User         *UserHandler
	Customer     *CustomerHandler
	Supplier     *SupplierHandler
	Category     *CategoryHandler
	Product      *ProductHandler
	IMEI         *IMEIHandler
	Sale         *SaleHandler
	Installment  *InstallmentHandler
	Expense      *ExpenseHandler
	Repair       *RepairHandler
	TradeIn      *TradeInHandler
	Warranty     *WarrantyHandler
	Report       *ReportHandler
	Notification *NotificationHandler
	Audit        *AuditHandler
	Job          *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services, storage *storage.LocalStorage) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(),
		Auth:         NewAuthHandler(svcs.Auth),
		User:         NewUserHandler(svcs.User),
		Customer:     NewCustomerHandler(svcs.Customer),
		Supplier:     NewSupplierHandler(svcs.Supplier),
		Category:     NewCategoryHandler(svcs.Catalog),
		Product:      NewProductHandler(svcs.Catalog),
		IMEI:         NewIMEIHandler(svcs.Catalog),
		Sale:         NewSaleHandler(svcs.Sale),
		Installment:  NewInstallmentHandler(svcs.Installment, storage),
		Expense:      NewExpenseHandler(svcs.Expense),
		Repair:       NewRepairHandler(svcs.Repair, svcs.Export),
		TradeIn:      NewTradeInHandler(svcs.TradeIn),
		Warranty:     NewWarrantyHandler(svcs.Warranty),
		Report:       NewReportHandler(svcs.Report, svcs.Export),
		Notification: NewNotificationHandler(svcs.Notification),
		Audit:        NewAuditHandler(svcs.Audit),
		Job:          NewJobHandler(svcs.Job),
	}
}

// respondServiceError translates service sentinel errors to HTTP status
// codes. Anything unclassified is an internal failure: logged, generic
// message to the caller.
func respondServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrDuplicate),
		errors.Is(err, services.ErrHasDependencies),
		errors.Is(err, services.ErrOutOfStock):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidState):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("service error: " + err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error interno del servidor"})
	}
}

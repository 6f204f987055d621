package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/celtec/pos-api/internal/middleware"
	"github.com/celtec/pos-api/internal/models"
	"github.com/celtec/pos-api/internal/services"
	"github.com/celtec/pos-api/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type InstallmentHandler struct {
	installmentService *services.InstallmentService
	storage            *storage.LocalStorage
}

func NewInstallmentHandler(installmentService *services.InstallmentService, storage *storage.LocalStorage) *InstallmentHandler {
	return &InstallmentHandler{installmentService: installmentService, storage: storage}
}

// @Summary List Installments
// @Description Get a paginated list of installment plans
// @Tags Installments
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param q query string false "Search by customer name"
// @Param status query string false "Filter by status"
// @Param customer_id query int false "Filter by customer"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /installments [get]
func (h *InstallmentHandler) Index(c *gin.Context) {
	query := listQuery(c)
	query.Filters["status"] = c.Query("status")
	query.Filters["customer_id"] = c.Query("customer_id")

	installments, total, err := h.installmentService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, listEnvelope(installments, total, query))
}

// @Summary Get Installment
// @Description Get an installment plan with its payment history
// @Tags Installments
// @Produce json
// @Param installment_id path int true "Installment ID"
// @Success 200 {object} models.Installment
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /installments/{installment_id} [get]
func (h *InstallmentHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("installment_id"), 10, 32)
	installment, err := h.installmentService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plan de pagos no encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"installment": installment})
}

type CreateInstallmentRequest struct {
	SaleID        uint            `json:"sale_id" binding:"required"`
	TotalAmount   decimal.Decimal `json:"total_amount" binding:"required"`
	DownPayment   decimal.Decimal `json:"down_payment"`
	MonthlyAmount decimal.Decimal `json:"monthly_amount" binding:"required"`
	TotalMonths   int             `json:"total_months" binding:"required,min=1"`
	StartDate     *time.Time      `json:"start_date"`
}

// @Summary Create Installment
// @Description Open an installment plan for an existing sale
// @Tags Installments
// @Accept json
// @Produce json
// @Param request body CreateInstallmentRequest true "Installment Data"
// @Success 201 {object} models.Installment
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /installments [post]
func (h *InstallmentHandler) Create(c *gin.Context) {
	var req CreateInstallmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	installment := &models.Installment{
		SaleID:        req.SaleID,
		TotalAmount:   req.TotalAmount,
		DownPayment:   req.DownPayment,
		MonthlyAmount: req.MonthlyAmount,
		TotalMonths:   req.TotalMonths,
		StartDate:     time.Now(),
	}
	if req.StartDate != nil {
		installment.StartDate = *req.StartDate
	}

	actorID := middleware.GetUserID(c)
	if err := h.installmentService.Create(c.Request.Context(), installment, actorID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"installment": installment, "message": "Plan de pagos creado exitosamente"})
}

type AddPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Note   *string         `json:"note"`
}

// @Summary Add Payment
// @Description Apply a payment to an active installment plan
// @Tags Installments
// @Accept json
// @Produce json
// @Param installment_id path int true "Installment ID"
// @Param request body AddPaymentRequest true "Payment Data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /installments/{installment_id}/payments [post]
func (h *InstallmentHandler) AddPayment(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("installment_id"), 10, 32)
	var req AddPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	receivedByID := middleware.GetUserID(c)
	installment, payment, err := h.installmentService.AddPayment(c.Request.Context(), uint(id), req.Amount, req.Note, receivedByID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"installment": installment,
		"payment":     payment,
		"message":     "Pago registrado exitosamente",
	})
}

// @Summary Upload Payment Receipt
// @Description Attach a receipt file (PDF or image) to a payment
// @Tags Installments
// @Accept multipart/form-data
// @Produce json
// @Param installment_id path int true "Installment ID"
// @Param payment_id path int true "Payment ID"
// @Param receipt formData file true "Receipt File"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /installments/{installment_id}/payments/{payment_id}/receipt [post]
func (h *InstallmentHandler) UploadReceipt(c *gin.Context) {
	paymentID, _ := strconv.ParseUint(c.Param("payment_id"), 10, 32)

	if _, err := h.installmentService.FindPayment(c.Request.Context(), uint(paymentID)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pago no encontrado"})
		return
	}

	file, header, err := c.Request.FormFile("receipt")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Archivo requerido"})
		return
	}
	defer file.Close()

	if c.Request.ContentLength > 0 && c.Request.ContentLength > storage.MaxFileSize() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Archivo demasiado grande"})
		return
	}
	if !storage.IsValidContentType(header.Header.Get("Content-Type")) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tipo de archivo inválido"})
		return
	}

	path, err := h.storage.Upload(file, header, "receipts")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al guardar archivo"})
		return
	}

	if err := h.installmentService.UpdateReceiptPath(c.Request.Context(), uint(paymentID), path); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comprobante subido exitosamente"})
}

// @Summary Download Payment Receipt
// @Description Download the receipt file attached to a payment
// @Tags Installments
// @Produce application/octet-stream
// @Param installment_id path int true "Installment ID"
// @Param payment_id path int true "Payment ID"
// @Success 200 {file} file "receipt"
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /installments/{installment_id}/payments/{payment_id}/receipt [get]
func (h *InstallmentHandler) DownloadReceipt(c *gin.Context) {
	paymentID, _ := strconv.ParseUint(c.Param("payment_id"), 10, 32)

	payment, err := h.installmentService.FindPayment(c.Request.Context(), uint(paymentID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pago no encontrado"})
		return
	}
	if payment.ReceiptPath == nil || !h.storage.Exists(*payment.ReceiptPath) {
		c.JSON(http.StatusNotFound, gin.H{"error": "El pago no tiene comprobante"})
		return
	}

	fullPath, err := h.storage.SafeFullPath(*payment.ReceiptPath)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ruta de archivo inválida"})
		return
	}

	c.FileAttachment(fullPath, fmt.Sprintf("comprobante_%d%s", payment.ID, filepath.Ext(*payment.ReceiptPath)))
}

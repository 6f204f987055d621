package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/celtec/pos-api/internal/middleware"
	"github.com/celtec/pos-api/internal/models"
	"github.com/celtec/pos-api/internal/services"
	"github.com/gin-gonic/gin"
)

type RepairHandler struct {
	repairService *services.RepairService
	exportService *services.ExportService
}

func NewRepairHandler(repairService *services.RepairService, exportService *services.ExportService) *RepairHandler {
	return &RepairHandler{repairService: repairService, exportService: exportService}
}

// @Summary List Repair Orders
// @Description Get a paginated list of repair orders
// @Tags Repairs
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Param customer_id query int false "Filter by customer"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /repairs [get]
func (h *RepairHandler) Index(c *gin.Context) {
	query := listQuery(c)
	query.Filters["status"] = c.Query("status")
	query.Filters["customer_id"] = c.Query("customer_id")

	repairs, total, err := h.repairService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, listEnvelope(repairs, total, query))
}

// @Summary Get Repair Order
// @Description Get a repair order by ID
// @Tags Repairs
// @Produce json
// @Param repair_id path int true "Repair Order ID"
// @Success 200 {object} models.RepairOrder
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /repairs/{repair_id} [get]
func (h *RepairHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("repair_id"), 10, 32)
	repair, err := h.repairService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Orden de reparación no encontrada"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"repair": repair})
}

type CreateRepairRequest struct {
	CustomerID uint    `json:"customer_id" binding:"required"`
	IMEIID     *uint   `json:"imei_id"`
	DeviceDesc string  `json:"device_desc" binding:"required"`
	Issue      string  `json:"issue" binding:"required"`
	Diagnosis  *string `json:"diagnosis"`
}

// @Summary Create Repair Order
// @Description Open a repair order. A ticket number is assigned automatically.
// @Tags Repairs
// @Accept json
// @Produce json
// @Param request body CreateRepairRequest true "Repair Data"
// @Success 201 {object} models.RepairOrder
// @Security BearerAuth
// @Router /repairs [post]
func (h *RepairHandler) Create(c *gin.Context) {
	var req CreateRepairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	repair := &models.RepairOrder{
		CustomerID: req.CustomerID,
		IMEIID:     req.IMEIID,
		DeviceDesc: req.DeviceDesc,
		Issue:      req.Issue,
		Diagnosis:  req.Diagnosis,
	}

	actorID := middleware.GetUserID(c)
	if err := h.repairService.Create(c.Request.Context(), repair, actorID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"repair": repair, "message": "Orden de reparación creada exitosamente"})
}

type UpdateRepairRequest struct {
	Status     string   `json:"status"`
	DeviceDesc string   `json:"device_desc"`
	Issue      string   `json:"issue"`
	Diagnosis  *string  `json:"diagnosis"`
	RepairCost *float64 `json:"repair_cost"`
}

// @Summary Update Repair Order
// @Description Update the diagnosis and cost of a repair order, optionally moving its status
// @Tags Repairs
// @Accept json
// @Produce json
// @Param repair_id path int true "Repair Order ID"
// @Param request body UpdateRepairRequest true "Repair Data"
// @Success 200 {object} models.RepairOrder
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /repairs/{repair_id} [put]
func (h *RepairHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("repair_id"), 10, 32)
	var req UpdateRepairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID := middleware.GetUserID(c)
	var repair *models.RepairOrder
	var err error

	if req.DeviceDesc != "" || req.Issue != "" || req.Diagnosis != nil || req.RepairCost != nil {
		repair, err = h.repairService.Update(c.Request.Context(), uint(id), req.DeviceDesc, req.Issue, req.Diagnosis, req.RepairCost, actorID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
	}
	if req.Status != "" {
		repair, err = h.repairService.UpdateStatus(c.Request.Context(), uint(id), req.Status, actorID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
	}
	if repair == nil {
		repair, err = h.repairService.FindByID(c.Request.Context(), uint(id))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Orden de reparación no encontrada"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"repair": repair, "message": "Orden actualizada exitosamente"})
}

type UpdateRepairStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// @Summary Update Repair Status
// @Description Move a repair order to the next workflow state
// @Tags Repairs
// @Accept json
// @Produce json
// @Param repair_id path int true "Repair Order ID"
// @Param request body UpdateRepairStatusRequest true "Target Status"
// @Success 200 {object} models.RepairOrder
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /repairs/{repair_id}/status [put]
func (h *RepairHandler) UpdateStatus(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("repair_id"), 10, 32)
	var req UpdateRepairStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID := middleware.GetUserID(c)
	repair, err := h.repairService.UpdateStatus(c.Request.Context(), uint(id), req.Status, actorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"repair": repair, "message": "Estado actualizado exitosamente"})
}

// @Summary Repair Ticket PDF
// @Description Download the printable intake ticket for a repair order
// @Tags Repairs
// @Produce application/pdf
// @Param repair_id path int true "Repair Order ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /repairs/{repair_id}/ticket [get]
func (h *RepairHandler) TicketPDF(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("repair_id"), 10, 32)
	data, filename, err := h.exportService.RepairTicketPDF(c.Request.Context(), uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", data)
}

type TradeInHandler struct {
	tradeInService *services.TradeInService
}

func NewTradeInHandler(tradeInService *services.TradeInService) *TradeInHandler {
	return &TradeInHandler{tradeInService: tradeInService}
}

// @Summary List Trade-Ins
// @Description Get a paginated list of trade-in offers
// @Tags TradeIns
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /trade-ins [get]
func (h *TradeInHandler) Index(c *gin.Context) {
	query := listQuery(c)
	query.Filters["status"] = c.Query("status")
	query.Filters["customer_id"] = c.Query("customer_id")

	tradeIns, total, err := h.tradeInService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, listEnvelope(tradeIns, total, query))
}

// @Summary Get Trade-In
// @Description Get a trade-in offer by ID
// @Tags TradeIns
// @Produce json
// @Param trade_in_id path int true "Trade-In ID"
// @Success 200 {object} models.TradeIn
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /trade-ins/{trade_in_id} [get]
func (h *TradeInHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("trade_in_id"), 10, 32)
	tradeIn, err := h.tradeInService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recepción de equipo no encontrada"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trade_in": tradeIn})
}

type CreateTradeInRequest struct {
	CustomerID  *uint   `json:"customer_id"`
	DeviceDesc  string  `json:"device_desc" binding:"required"`
	OfferAmount float64 `json:"offer_amount" binding:"required"`
	Note        *string `json:"note"`
}

// @Summary Create Trade-In
// @Description Register a trade-in offer for a customer device
// @Tags TradeIns
// @Accept json
// @Produce json
// @Param request body CreateTradeInRequest true "Trade-In Data"
// @Success 201 {object} models.TradeIn
// @Security BearerAuth
// @Router /trade-ins [post]
func (h *TradeInHandler) Create(c *gin.Context) {
	var req CreateTradeInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tradeIn := &models.TradeIn{
		CustomerID:  req.CustomerID,
		DeviceDesc:  req.DeviceDesc,
		OfferAmount: req.OfferAmount,
		Note:        req.Note,
	}

	actorID := middleware.GetUserID(c)
	if err := h.tradeInService.Create(c.Request.Context(), tradeIn, actorID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"trade_in": tradeIn, "message": "Recepción registrada exitosamente"})
}

type UpdateTradeInStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// @Summary Update Trade-In Status
// @Description Move a trade-in to accepted, rejected or resold
// @Tags TradeIns
// @Accept json
// @Produce json
// @Param trade_in_id path int true "Trade-In ID"
// @Param request body UpdateTradeInStatusRequest true "Target Status"
// @Success 200 {object} models.TradeIn
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /trade-ins/{trade_in_id} [put]
func (h *TradeInHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("trade_in_id"), 10, 32)
	var req UpdateTradeInStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID := middleware.GetUserID(c)
	var tradeIn *models.TradeIn
	var err error
	switch req.Status {
	case models.TradeInStatusAccepted:
		tradeIn, err = h.tradeInService.Accept(c.Request.Context(), uint(id), actorID)
	case models.TradeInStatusRejected:
		tradeIn, err = h.tradeInService.Reject(c.Request.Context(), uint(id), actorID)
	case models.TradeInStatusResold:
		tradeIn, err = h.tradeInService.MarkResold(c.Request.Context(), uint(id), actorID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Estado de recepción inválido"})
		return
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trade_in": tradeIn, "message": "Estado actualizado exitosamente"})
}

// @Summary Accept Trade-In
// @Description Accept a pending trade-in. The device enters inventory.
// @Tags TradeIns
// @Produce json
// @Param trade_in_id path int true "Trade-In ID"
// @Success 200 {object} models.TradeIn
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /trade-ins/{trade_in_id}/accept [post]
func (h *TradeInHandler) Accept(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("trade_in_id"), 10, 32)
	actorID := middleware.GetUserID(c)
	tradeIn, err := h.tradeInService.Accept(c.Request.Context(), uint(id), actorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trade_in": tradeIn, "message": "Recepción aceptada"})
}

// @Summary Reject Trade-In
// @Description Reject a pending trade-in offer
// @Tags TradeIns
// @Produce json
// @Param trade_in_id path int true "Trade-In ID"
// @Success 200 {object} models.TradeIn
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /trade-ins/{trade_in_id}/reject [post]
func (h *TradeInHandler) Reject(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("trade_in_id"), 10, 32)
	actorID := middleware.GetUserID(c)
	tradeIn, err := h.tradeInService.Reject(c.Request.Context(), uint(id), actorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trade_in": tradeIn, "message": "Recepción rechazada"})
}

// @Summary Mark Trade-In as Resold
// @Description Mark an accepted trade-in device as resold
// @Tags TradeIns
// @Produce json
// @Param trade_in_id path int true "Trade-In ID"
// @Success 200 {object} models.TradeIn
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /trade-ins/{trade_in_id}/resell [post]
func (h *TradeInHandler) Resell(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("trade_in_id"), 10, 32)
	actorID := middleware.GetUserID(c)
	tradeIn, err := h.tradeInService.MarkResold(c.Request.Context(), uint(id), actorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trade_in": tradeIn, "message": "Equipo marcado como revendido"})
}

type WarrantyHandler struct {
	warrantyService *services.WarrantyService
}

func NewWarrantyHandler(warrantyService *services.WarrantyService) *WarrantyHandler {
	return &WarrantyHandler{warrantyService: warrantyService}
}

// @Summary List Warranties
// @Description Get a paginated list of warranties
// @Tags Warranties
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Param product_id query int false "Filter by product"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /warranties [get]
func (h *WarrantyHandler) Index(c *gin.Context) {
	query := listQuery(c)
	query.Filters["status"] = c.Query("status")
	query.Filters["product_id"] = c.Query("product_id")
	query.Filters["customer_id"] = c.Query("customer_id")

	warranties, total, err := h.warrantyService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, listEnvelope(warranties, total, query))
}

// @Summary Get Warranty
// @Description Get a warranty by ID
// @Tags Warranties
// @Produce json
// @Param warranty_id path int true "Warranty ID"
// @Success 200 {object} models.Warranty
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /warranties/{warranty_id} [get]
func (h *WarrantyHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("warranty_id"), 10, 32)
	warranty, err := h.warrantyService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Garantía no encontrada"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"warranty": warranty})
}

type WarrantyRequest struct {
	ProductID  uint       `json:"product_id" binding:"required"`
	IMEIID     *uint      `json:"imei_id"`
	CustomerID *uint      `json:"customer_id"`
	Type       string     `json:"type" binding:"required"`
	StartDate  *time.Time `json:"start_date"`
	EndDate    time.Time  `json:"end_date" binding:"required"`
	Note       *string    `json:"note"`
}

// @Summary Create Warranty
// @Description Register a warranty for a sold product
// @Tags Warranties
// @Accept json
// @Produce json
// @Param request body WarrantyRequest true "Warranty Data"
// @Success 201 {object} models.Warranty
// @Security BearerAuth
// @Router /warranties [post]
func (h *WarrantyHandler) Create(c *gin.Context) {
	var req WarrantyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	warranty := &models.Warranty{
		ProductID:  req.ProductID,
		IMEIID:     req.IMEIID,
		CustomerID: req.CustomerID,
		Type:       req.Type,
		StartDate:  time.Now(),
		EndDate:    req.EndDate,
		Note:       req.Note,
	}
	if req.StartDate != nil {
		warranty.StartDate = *req.StartDate
	}

	actorID := middleware.GetUserID(c)
	if err := h.warrantyService.Create(c.Request.Context(), warranty, actorID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"warranty": warranty, "message": "Garantía registrada exitosamente"})
}

type UpdateWarrantyRequest struct {
	Status    string     `json:"status"`
	Type      string     `json:"type"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Note      *string    `json:"note"`
}

// @Summary Update Warranty
// @Description Update the coverage period, note or status of a warranty
// @Tags Warranties
// @Accept json
// @Produce json
// @Param warranty_id path int true "Warranty ID"
// @Param request body UpdateWarrantyRequest true "Warranty Data"
// @Success 200 {object} models.Warranty
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /warranties/{warranty_id} [put]
func (h *WarrantyHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("warranty_id"), 10, 32)
	warranty, err := h.warrantyService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Garantía no encontrada"})
		return
	}

	var req UpdateWarrantyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Type != "" {
		warranty.Type = req.Type
	}
	if req.StartDate != nil {
		warranty.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		warranty.EndDate = *req.EndDate
	}
	if req.Note != nil {
		warranty.Note = req.Note
	}

	actorID := middleware.GetUserID(c)
	if err := h.warrantyService.Update(c.Request.Context(), warranty, actorID); err != nil {
		respondServiceError(c, err)
		return
	}

	if req.Status != "" {
		warranty, err = h.warrantyService.UpdateStatus(c.Request.Context(), uint(id), req.Status, actorID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"warranty": warranty, "message": "Garantía actualizada exitosamente"})
}

type UpdateWarrantyStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// @Summary Update Warranty Status
// @Description Mark a warranty as claimed, voided or expired
// @Tags Warranties
// @Accept json
// @Produce json
// @Param warranty_id path int true "Warranty ID"
// @Param request body UpdateWarrantyStatusRequest true "Target Status"
// @Success 200 {object} models.Warranty
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /warranties/{warranty_id}/status [put]
func (h *WarrantyHandler) UpdateStatus(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("warranty_id"), 10, 32)
	var req UpdateWarrantyStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID := middleware.GetUserID(c)
	warranty, err := h.warrantyService.UpdateStatus(c.Request.Context(), uint(id), req.Status, actorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"warranty": warranty, "message": "Estado actualizado exitosamente"})
}

// @Summary Delete Warranty
// @Description Delete a warranty record
// @Tags Warranties
// @Produce json
// @Param warranty_id path int true "Warranty ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /warranties/{warranty_id} [delete]
func (h *WarrantyHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("warranty_id"), 10, 32)
	actorID := middleware.GetUserID(c)
	if err := h.warrantyService.Delete(c.Request.Context(), uint(id), actorID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Garantía eliminada exitosamente"})
}

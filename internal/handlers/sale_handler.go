package handlers

import (
	"net/http"
	"strconv"

	"github.com/celtec/pos-api/internal/middleware"
	"github.com/celtec/pos-api/internal/models"
	"github.com/celtec/pos-api/internal/services"
	"github.com/gin-gonic/gin"
)

type SaleHandler struct {
	saleService *services.SaleService
}

func NewSaleHandler(saleService *services.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// @Summary List Sales
// @Description Get a paginated list of sales
// @Tags Sales
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param q query string false "Search by customer name or GUID"
// @Param customer_id query int false "Filter by customer"
// @Param payment_method query string false "Filter by payment method"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /sales [get]
func (h *SaleHandler) Index(c *gin.Context) {
	query := listQuery(c)
	query.Filters["customer_id"] = c.Query("customer_id")
	query.Filters["payment_method"] = c.Query("payment_method")

	sales, total, err := h.saleService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []models.SaleResponse
	for i := range sales {
		responses = append(responses, sales[i].ToResponse())
	}

	c.JSON(http.StatusOK, listEnvelope(responses, total, query))
}

// @Summary Get Sale
// @Description Get a sale by ID with line items
// @Tags Sales
// @Produce json
// @Param sale_id path int true "Sale ID"
// @Success 200 {object} models.SaleResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /sales/{sale_id} [get]
func (h *SaleHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("sale_id"), 10, 32)
	sale, err := h.saleService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Venta no encontrada"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sale": sale.ToResponse()})
}

// @Summary Create Sale
// @Description Register a sale. IMEI-tracked items reserve the unit and
// @Description non-tracked items decrement stock atomically. A sale paid
// @Description by installment also opens its financing plan.
// @Tags Sales
// @Accept json
// @Produce json
// @Param request body services.SaleInput true "Sale Data"
// @Success 201 {object} models.SaleResponse
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /sales [post]
func (h *SaleHandler) Create(c *gin.Context) {
	var input services.SaleInput
	if err := BindNestedOrFlat(c, "sale", &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sellerID := middleware.GetUserID(c)
	sale, err := h.saleService.Create(c.Request.Context(), &input, sellerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"sale": sale.ToResponse(), "message": "Venta registrada exitosamente"})
}

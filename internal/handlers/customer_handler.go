package handlers

import (
	"net/http"
	"strconv"

	"github.com/celtec/pos-api/internal/middleware"
	"github.com/celtec/pos-api/internal/models"
	"github.com/celtec/pos-api/internal/services"
	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	customerService *services.CustomerService
}

func NewCustomerHandler(customerService *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// @Summary List Customers
// @Description Get a paginated list of customers
// @Tags Customers
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param q query string false "Search by name or phone"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /customers [get]
func (h *CustomerHandler) Index(c *gin.Context) {
	query := listQuery(c)

	customers, total, err := h.customerService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, listEnvelope(customers, total, query))
}

// @Summary Get Customer
// @Description Get a customer by ID
// @Tags Customers
// @Accept json
// @Produce json
// @Param customer_id path int true "Customer ID"
// @Success 200 {object} models.Customer
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /customers/{customer_id} [get]
func (h *CustomerHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("customer_id"), 10, 32)
	customer, err := h.customerService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cliente no encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

type CustomerRequest struct {
	FullName string  `json:"full_name" binding:"required"`
	Phone    string  `json:"phone" binding:"required"`
	Email    *string `json:"email"`
	Address  *string `json:"address"`
	Note     *string `json:"note"`
}

// @Summary Create Customer
// @Description Create a new customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body CustomerRequest true "Customer Data"
// @Success 201 {object} models.Customer
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var req CustomerRequest
	if err := BindNestedOrFlat(c, "customer", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer := &models.Customer{
		FullName: req.FullName,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
		Note:     req.Note,
	}

	actorID := middleware.GetUserID(c)
	if err := h.customerService.Create(c.Request.Context(), customer, actorID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"customer": customer, "message": "Cliente creado exitosamente"})
}

// @Summary Update Customer
// @Description Update an existing customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param customer_id path int true "Customer ID"
// @Param request body CustomerRequest true "Customer Data"
// @Success 200 {object} models.Customer
// @Security BearerAuth
// @Router /customers/{customer_id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("customer_id"), 10, 32)
	customer, err := h.customerService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cliente no encontrado"})
		return
	}

	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer.FullName = req.FullName
	customer.Phone = req.Phone
	customer.Email = req.Email
	customer.Address = req.Address
	customer.Note = req.Note

	actorID := middleware.GetUserID(c)
	if err := h.customerService.Update(c.Request.Context(), customer, actorID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"customer": customer, "message": "Cliente actualizado exitosamente"})
}

// @Summary Delete Customer
// @Description Soft delete a customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param customer_id path int true "Customer ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /customers/{customer_id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("customer_id"), 10, 32)
	actorID := middleware.GetUserID(c)
	if err := h.customerService.Delete(c.Request.Context(), uint(id), actorID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cliente eliminado exitosamente"})
}

// @Summary Restore Customer
// @Description Restore a soft deleted customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param customer_id path int true "Customer ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /customers/{customer_id}/restore [post]
func (h *CustomerHandler) Restore(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("customer_id"), 10, 32)
	actorID := middleware.GetUserID(c)
	if err := h.customerService.Restore(c.Request.Context(), uint(id), actorID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cliente restaurado exitosamente"})
}

type SupplierHandler struct {
	supplierService *services.SupplierService
}

func NewSupplierHandler(supplierService *services.SupplierService) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService}
}

// @Summary List Suppliers
// @Description Get a paginated list of suppliers
// @Tags Suppliers
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param q query string false "Search by name or phone"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /suppliers [get]
func (h *SupplierHandler) Index(c *gin.Context) {
	query := listQuery(c)

	suppliers, total, err := h.supplierService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, listEnvelope(suppliers, total, query))
}

// @Summary Get Supplier
// @Description Get a supplier by ID
// @Tags Suppliers
// @Accept json
// @Produce json
// @Param supplier_id path int true "Supplier ID"
// @Success 200 {object} models.Supplier
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /suppliers/{supplier_id} [get]
func (h *SupplierHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("supplier_id"), 10, 32)
	supplier, err := h.supplierService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Proveedor no encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"supplier": supplier})
}

type SupplierRequest struct {
	Name        string  `json:"name" binding:"required"`
	Phone       string  `json:"phone" binding:"required"`
	Email       *string `json:"email"`
	Address     *string `json:"address"`
	ContactName *string `json:"contact_name"`
	Note        *string `json:"note"`
}

// @Summary Create Supplier
// @Description Create a new supplier
// @Tags Suppliers
// @Accept json
// @Produce json
// @Param request body SupplierRequest true "Supplier Data"
// @Success 201 {object} models.Supplier
// @Security BearerAuth
// @Router /suppliers [post]
func (h *SupplierHandler) Create(c *gin.Context) {
	var req SupplierRequest
	if err := BindNestedOrFlat(c, "supplier", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	supplier := &models.Supplier{
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		ContactName: req.ContactName,
		Note:        req.Note,
	}

	actorID := middleware.GetUserID(c)
	if err := h.supplierService.Create(c.Request.Context(), supplier, actorID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"supplier": supplier, "message": "Proveedor creado exitosamente"})
}

// @Summary Update Supplier
// @Description Update an existing supplier
// @Tags Suppliers
// @Accept json
// @Produce json
// @Param supplier_id path int true "Supplier ID"
// @Param request body SupplierRequest true "Supplier Data"
// @Success 200 {object} models.Supplier
// @Security BearerAuth
// @Router /suppliers/{supplier_id} [put]
func (h *SupplierHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("supplier_id"), 10, 32)
	supplier, err := h.supplierService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Proveedor no encontrado"})
		return
	}

	var req SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	supplier.Name = req.Name
	supplier.Phone = req.Phone
	supplier.Email = req.Email
	supplier.Address = req.Address
	supplier.ContactName = req.ContactName
	supplier.Note = req.Note

	actorID := middleware.GetUserID(c)
	if err := h.supplierService.Update(c.Request.Context(), supplier, actorID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"supplier": supplier, "message": "Proveedor actualizado exitosamente"})
}

// @Summary Delete Supplier
// @Description Soft delete a supplier
// @Tags Suppliers
// @Accept json
// @Produce json
// @Param supplier_id path int true "Supplier ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /suppliers/{supplier_id} [delete]
func (h *SupplierHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("supplier_id"), 10, 32)
	actorID := middleware.GetUserID(c)
	if err := h.supplierService.Delete(c.Request.Context(), uint(id), actorID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Proveedor eliminado exitosamente"})
}

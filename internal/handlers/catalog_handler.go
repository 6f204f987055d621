package handlers

import (
	"net/http"
	"strconv"

	"github.com/celtec/pos-api/internal/middleware"
	"github.com/celtec/pos-api/internal/models"
	"github.com/celtec/pos-api/internal/services"
	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	catalogService *services.CatalogService
}

func NewCategoryHandler(catalogService *services.CatalogService) *CategoryHandler {
	return &CategoryHandler{catalogService: catalogService}
}

// @Summary List Categories
// @Description Get a paginated list of product categories
// @Tags Catalog
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param q query string false "Search by name"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /categories [get]
func (h *CategoryHandler) Index(c *gin.Context) {
	query := listQuery(c)

	categories, total, err := h.catalogService.ListCategories(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, listEnvelope(categories, total, query))
}

// @Summary Get Category
// @Description Get a category by ID
// @Tags Catalog
// @Produce json
// @Param category_id path int true "Category ID"
// @Success 200 {object} models.Category
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /categories/{category_id} [get]
func (h *CategoryHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("category_id"), 10, 32)
	category, err := h.catalogService.FindCategoryByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Categoría no encontrada"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category})
}

type CategoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

// @Summary Create Category
// @Description Create a new product category
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body CategoryRequest true "Category Data"
// @Success 201 {object} models.Category
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := &models.Category{Name: req.Name, Description: req.Description}
	actorID := middleware.GetUserID(c)
	if err := h.catalogService.CreateCategory(c.Request.Context(), category, actorID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"category": category, "message": "Categoría creada exitosamente"})
}

// @Summary Update Category
// @Description Update a product category
// @Tags Catalog
// @Accept json
// @Produce json
// @Param category_id path int true "Category ID"
// @Param request body CategoryRequest true "Category Data"
// @Success 200 {object} models.Category
// @Security BearerAuth
// @Router /categories/{category_id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("category_id"), 10, 32)
	category, err := h.catalogService.FindCategoryByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Categoría no encontrada"})
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category.Name = req.Name
	category.Description = req.Description

	actorID := middleware.GetUserID(c)
	if err := h.catalogService.UpdateCategory(c.Request.Context(), category, actorID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category, "message": "Categoría actualizada exitosamente"})
}

// @Summary Delete Category
// @Description Delete a category. Fails if products reference it.
// @Tags Catalog
// @Produce json
// @Param category_id path int true "Category ID"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /categories/{category_id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("category_id"), 10, 32)
	actorID := middleware.GetUserID(c)
	if err := h.catalogService.DeleteCategory(c.Request.Context(), uint(id), actorID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Categoría eliminada exitosamente"})
}

type ProductHandler struct {
	catalogService *services.CatalogService
}

func NewProductHandler(catalogService *services.CatalogService) *ProductHandler {
	return &ProductHandler{catalogService: catalogService}
}

// @Summary List Products
// @Description Get a paginated list of products
// @Tags Catalog
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param q query string false "Search by name, brand or model"
// @Param category_id query int false "Filter by category"
// @Param track_imei query bool false "Filter by IMEI tracking"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /products [get]
func (h *ProductHandler) Index(c *gin.Context) {
	query := listQuery(c)
	query.Filters["category_id"] = c.Query("category_id")
	query.Filters["track_imei"] = c.Query("track_imei")

	products, total, err := h.catalogService.ListProducts(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, listEnvelope(products, total, query))
}

// @Summary Get Product
// @Description Get a product by ID
// @Tags Catalog
// @Produce json
// @Param product_id path int true "Product ID"
// @Success 200 {object} models.Product
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /products/{product_id} [get]
func (h *ProductHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("product_id"), 10, 32)
	product, err := h.catalogService.FindProductByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Producto no encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

type ProductRequest struct {
	CategoryID uint    `json:"category_id" binding:"required"`
	SupplierID *uint   `json:"supplier_id"`
	Name       string  `json:"name" binding:"required"`
	Brand      string  `json:"brand"`
	Model      string  `json:"model"`
	CostPrice  float64 `json:"cost_price" binding:"min=0"`
	SalePrice  float64 `json:"sale_price" binding:"min=0"`
	TrackIMEI  bool    `json:"track_imei"`
	Quantity   int     `json:"quantity" binding:"min=0"`
}

// @Summary Create Product
// @Description Create a new product
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body ProductRequest true "Product Data"
// @Success 201 {object} models.Product
// @Security BearerAuth
// @Router /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product := &models.Product{
		CategoryID: req.CategoryID,
		SupplierID: req.SupplierID,
		Name:       req.Name,
		Brand:      req.Brand,
		Model:      req.Model,
		CostPrice:  req.CostPrice,
		SalePrice:  req.SalePrice,
		TrackIMEI:  req.TrackIMEI,
		Quantity:   req.Quantity,
	}

	actorID := middleware.GetUserID(c)
	if err := h.catalogService.CreateProduct(c.Request.Context(), product, actorID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": product, "message": "Producto creado exitosamente"})
}

// @Summary Update Product
// @Description Update an existing product
// @Tags Catalog
// @Accept json
// @Produce json
// @Param product_id path int true "Product ID"
// @Param request body ProductRequest true "Product Data"
// @Success 200 {object} models.Product
// @Security BearerAuth
// @Router /products/{product_id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("product_id"), 10, 32)
	product, err := h.catalogService.FindProductByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Producto no encontrado"})
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product.CategoryID = req.CategoryID
	product.SupplierID = req.SupplierID
	product.Name = req.Name
	product.Brand = req.Brand
	product.Model = req.Model
	product.CostPrice = req.CostPrice
	product.SalePrice = req.SalePrice
	product.TrackIMEI = req.TrackIMEI
	product.Quantity = req.Quantity

	actorID := middleware.GetUserID(c)
	if err := h.catalogService.UpdateProduct(c.Request.Context(), product, actorID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product, "message": "Producto actualizado exitosamente"})
}

// @Summary Delete Product
// @Description Delete a product. Fails if sold units exist.
// @Tags Catalog
// @Produce json
// @Param product_id path int true "Product ID"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /products/{product_id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("product_id"), 10, 32)
	actorID := middleware.GetUserID(c)
	if err := h.catalogService.DeleteProduct(c.Request.Context(), uint(id), actorID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Producto eliminado exitosamente"})
}

type IMEIHandler struct {
	catalogService *services.CatalogService
}

func NewIMEIHandler(catalogService *services.CatalogService) *IMEIHandler {
	return &IMEIHandler{catalogService: catalogService}
}

// @Summary List IMEIs
// @Description Get a paginated list of serialized stock units
// @Tags Catalog
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param q query string false "Search by IMEI code"
// @Param product_id query int false "Filter by product"
// @Param status query string false "Filter by status"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /imeis [get]
func (h *IMEIHandler) Index(c *gin.Context) {
	query := listQuery(c)
	query.Filters["product_id"] = c.Query("product_id")
	query.Filters["status"] = c.Query("status")

	units, total, err := h.catalogService.ListIMEIs(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, listEnvelope(units, total, query))
}

// @Summary Get IMEI
// @Description Get a serialized stock unit by ID
// @Tags Catalog
// @Produce json
// @Param imei_id path int true "IMEI ID"
// @Success 200 {object} models.IMEI
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /imeis/{imei_id} [get]
func (h *IMEIHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("imei_id"), 10, 32)
	unit, err := h.catalogService.FindIMEIByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "IMEI no encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"imei": unit})
}

type CreateIMEIRequest struct {
	ProductID uint    `json:"product_id" binding:"required"`
	IMEI      string  `json:"imei" binding:"required"`
	Note      *string `json:"note"`
}

// @Summary Create IMEI
// @Description Register a single serialized unit for an IMEI-tracked product
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body CreateIMEIRequest true "IMEI Data"
// @Success 201 {object} models.IMEI
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /imeis [post]
func (h *IMEIHandler) Create(c *gin.Context) {
	var req CreateIMEIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	unit := &models.IMEI{
		ProductID: req.ProductID,
		IMEI:      req.IMEI,
		Note:      req.Note,
	}

	actorID := middleware.GetUserID(c)
	if err := h.catalogService.CreateIMEI(c.Request.Context(), unit, actorID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"imei": unit, "message": "IMEI registrado exitosamente"})
}

type BulkCreateIMEIRequest struct {
	ProductID uint     `json:"product_id" binding:"required"`
	IMEIs     []string `json:"imeis" binding:"required,min=1"`
}

// @Summary Bulk Create IMEIs
// @Description Register several serialized units at once. The whole batch
// @Description is rejected when any code is already registered.
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body BulkCreateIMEIRequest true "IMEI Batch"
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Security BearerAuth
// @Router /imeis/bulk [post]
func (h *IMEIHandler) BulkCreate(c *gin.Context) {
	var req BulkCreateIMEIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID := middleware.GetUserID(c)
	duplicates, err := h.catalogService.BulkCreateIMEIs(c.Request.Context(), req.ProductID, req.IMEIs, actorID)
	if err != nil {
		if len(duplicates) > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "duplicates": duplicates})
			return
		}
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "IMEIs registrados exitosamente", "count": len(req.IMEIs)})
}

type UpdateIMEIStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// @Summary Update IMEI Status
// @Description Set the status of a serialized unit
// @Tags Catalog
// @Accept json
// @Produce json
// @Param imei_id path int true "IMEI ID"
// @Param request body UpdateIMEIStatusRequest true "New Status"
// @Success 200 {object} models.IMEI
// @Security BearerAuth
// @Router /imeis/{imei_id}/status [put]
func (h *IMEIHandler) UpdateStatus(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("imei_id"), 10, 32)
	var req UpdateIMEIStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID := middleware.GetUserID(c)
	unit, err := h.catalogService.UpdateIMEIStatus(c.Request.Context(), uint(id), req.Status, actorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"imei": unit, "message": "Estado actualizado"})
}

// @Summary Delete IMEI
// @Description Remove a serialized unit. Sold units cannot be removed.
// @Tags Catalog
// @Produce json
// @Param imei_id path int true "IMEI ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /imeis/{imei_id} [delete]
func (h *IMEIHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("imei_id"), 10, 32)
	actorID := middleware.GetUserID(c)
	if err := h.catalogService.DeleteIMEI(c.Request.Context(), uint(id), actorID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "IMEI eliminado exitosamente"})
}

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

type ExpenseHandler struct {
	expenseService *services.ExpenseService
}

func NewExpenseHandler(expenseService *services.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// @Summary List Expense Categories
// @Description Get a paginated list of expense categories
// @Tags Expenses
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /expense_categories [get]
func (h *ExpenseHandler) IndexCategories(c *gin.Context) {
	query := listQuery(c)

	categories, total, err := h.expenseService.ListCategories(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, listEnvelope(categories, total, query))
}

type ExpenseCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// @Summary Create Expense Category
// @Description Create a new expense category
// @Tags Expenses
// @Accept json
// @Produce json
// @Param request body ExpenseCategoryRequest true "Category Data"
// @Success 201 {object} models.ExpenseCategory
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /expense_categories [post]
func (h *ExpenseHandler) CreateCategory(c *gin.Context) {
	var req ExpenseCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := &models.ExpenseCategory{Name: req.Name}
	actorID := middleware.GetUserID(c)
	if err := h.expenseService.CreateCategory(c.Request.Context(), category, actorID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"expense_category": category, "message": "Categoría de gasto creada exitosamente"})
}

// @Summary Update Expense Category
// @Description Rename an expense category
// @Tags Expenses
// @Accept json
// @Produce json
// @Param category_id path int true "Category ID"
// @Param request body ExpenseCategoryRequest true "Category Data"
// @Success 200 {object} models.ExpenseCategory
// @Security BearerAuth
// @Router /expense_categories/{category_id} [put]
func (h *ExpenseHandler) UpdateCategory(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("category_id"), 10, 32)
	category, err := h.expenseService.FindCategoryByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Categoría no encontrada"})
		return
	}

	var req ExpenseCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category.Name = req.Name
	actorID := middleware.GetUserID(c)
	if err := h.expenseService.UpdateCategory(c.Request.Context(), category, actorID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense_category": category, "message": "Categoría actualizada exitosamente"})
}

// @Summary Delete Expense Category
// @Description Delete an expense category. Fails if expenses reference it.
// @Tags Expenses
// @Produce json
// @Param category_id path int true "Category ID"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /expense_categories/{category_id} [delete]
func (h *ExpenseHandler) DeleteCategory(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("category_id"), 10, 32)
	actorID := middleware.GetUserID(c)
	if err := h.expenseService.DeleteCategory(c.Request.Context(), uint(id), actorID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Categoría eliminada exitosamente"})
}

// @Summary List Expenses
// @Description Get a paginated list of expenses
// @Tags Expenses
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param category_id query int false "Filter by category"
// @Param start_date query string false "Filter from date (YYYY-MM-DD)"
// @Param end_date query string false "Filter to date (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /expenses [get]
func (h *ExpenseHandler) Index(c *gin.Context) {
	query := listQuery(c)
	query.Filters["category_id"] = c.Query("category_id")
	query.Filters["start_date"] = c.Query("start_date")
	query.Filters["end_date"] = c.Query("end_date")

	expenses, total, err := h.expenseService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, listEnvelope(expenses, total, query))
}

// @Summary Get Expense
// @Description Get an expense by ID
// @Tags Expenses
// @Produce json
// @Param expense_id path int true "Expense ID"
// @Success 200 {object} models.Expense
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /expenses/{expense_id} [get]
func (h *ExpenseHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("expense_id"), 10, 32)
	expense, err := h.expenseService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Gasto no encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

type ExpenseRequest struct {
	CategoryID  uint       `json:"category_id" binding:"required"`
	Amount      float64    `json:"amount" binding:"required"`
	Date        *time.Time `json:"date"`
	Description *string    `json:"description"`
}

// @Summary Create Expense
// @Description Register an operating expense
// @Tags Expenses
// @Accept json
// @Produce json
// @Param request body ExpenseRequest true "Expense Data"
// @Success 201 {object} models.Expense
// @Security BearerAuth
// @Router /expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expense := &models.Expense{
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Date:        time.Now(),
		Description: req.Description,
	}
	if req.Date != nil {
		expense.Date = *req.Date
	}

	actorID := middleware.GetUserID(c)
	if err := h.expenseService.Create(c.Request.Context(), expense, actorID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"expense": expense, "message": "Gasto registrado exitosamente"})
}

// @Summary Update Expense
// @Description Update an existing expense
// @Tags Expenses
// @Accept json
// @Produce json
// @Param expense_id path int true "Expense ID"
// @Param request body ExpenseRequest true "Expense Data"
// @Success 200 {object} models.Expense
// @Security BearerAuth
// @Router /expenses/{expense_id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("expense_id"), 10, 32)
	expense, err := h.expenseService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Gasto no encontrado"})
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expense.CategoryID = req.CategoryID
	expense.Amount = req.Amount
	expense.Description = req.Description
	if req.Date != nil {
		expense.Date = *req.Date
	}

	actorID := middleware.GetUserID(c)
	if err := h.expenseService.Update(c.Request.Context(), expense, actorID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense, "message": "Gasto actualizado exitosamente"})
}

// @Summary Delete Expense
// @Description Delete an expense
// @Tags Expenses
// @Produce json
// @Param expense_id path int true "Expense ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /expenses/{expense_id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("expense_id"), 10, 32)
	actorID := middleware.GetUserID(c)
	if err := h.expenseService.Delete(c.Request.Context(), uint(id), actorID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Gasto eliminado exitosamente"})
}

package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/celtec/pos-api/internal/services"
	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService *services.ReportService
	exportService *services.ExportService
}

func NewReportHandler(reportService *services.ReportService, exportService *services.ExportService) *ReportHandler {
	return &ReportHandler{reportService: reportService, exportService: exportService}
}

// parseDateRange reads from/to query params. from defaults to 30 days ago,
// to defaults to the end of today.
func parseDateRange(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Fecha 'from' inválida, use YYYY-MM-DD"})
			return from, to, false
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Fecha 'to' inválida, use YYYY-MM-DD"})
			return from, to, false
		}
		// Make the range inclusive of the whole end day.
		to = parsed.AddDate(0, 0, 1).Add(-time.Second)
	}
	return from, to, true
}

// @Summary Sales Report
// @Description Sales totals grouped by day or month for a date range
// @Tags Reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param group_by query string false "Grouping: day or month" default(day)
// @Success 200 {object} services.SalesReport
// @Security BearerAuth
// @Router /reports/sales [get]
func (h *ReportHandler) Sales(c *gin.Context) {
	from, to, ok := parseDateRange(c)
	if !ok {
		return
	}
	groupBy := c.DefaultQuery("group_by", services.GroupByDay)

	report, err := h.reportService.SalesReport(c.Request.Context(), from, to, groupBy)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

// @Summary Expense Report
// @Description Expense totals grouped by category for a date range
// @Tags Reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} services.ExpenseReport
// @Security BearerAuth
// @Router /reports/expenses [get]
func (h *ReportHandler) Expenses(c *gin.Context) {
	from, to, ok := parseDateRange(c)
	if !ok {
		return
	}

	report, err := h.reportService.ExpenseReport(c.Request.Context(), from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

// @Summary Profit and Loss Report
// @Description Revenue, cost of goods and expenses netted over a date range
// @Tags Reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} services.ProfitAndLossReport
// @Security BearerAuth
// @Router /reports/profit-loss [get]
func (h *ReportHandler) ProfitAndLoss(c *gin.Context) {
	from, to, ok := parseDateRange(c)
	if !ok {
		return
	}

	report, err := h.reportService.ProfitAndLoss(c.Request.Context(), from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

// @Summary Inventory Report
// @Description Current stock levels, valuation and IMEI status breakdown
// @Tags Reports
// @Produce json
// @Success 200 {object} services.InventoryReport
// @Security BearerAuth
// @Router /reports/inventory [get]
func (h *ReportHandler) Inventory(c *gin.Context) {
	report, err := h.reportService.InventoryReport(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

// @Summary Sales Report CSV
// @Description Download the sales report as a CSV file
// @Tags Reports
// @Produce text/csv
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param group_by query string false "Grouping: day or month" default(day)
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /reports/sales/csv [get]
func (h *ReportHandler) SalesCSV(c *gin.Context) {
	from, to, ok := parseDateRange(c)
	if !ok {
		return
	}
	groupBy := c.DefaultQuery("group_by", services.GroupByDay)

	data, filename, err := h.exportService.SalesCSV(c.Request.Context(), from, to, groupBy)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", data)
}

// @Summary Sales Report XLSX
// @Description Download the sales report as an Excel workbook
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param group_by query string false "Grouping: day or month" default(day)
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /reports/sales/xlsx [get]
func (h *ReportHandler) SalesXLSX(c *gin.Context) {
	from, to, ok := parseDateRange(c)
	if !ok {
		return
	}
	groupBy := c.DefaultQuery("group_by", services.GroupByDay)

	data, filename, err := h.exportService.SalesXLSX(c.Request.Context(), from, to, groupBy)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// @Summary Inventory Report XLSX
// @Description Download the inventory report as an Excel workbook
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /reports/inventory/xlsx [get]
func (h *ReportHandler) InventoryXLSX(c *gin.Context) {
	data, filename, err := h.exportService.InventoryXLSX(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// @Summary Profit and Loss PDF
// @Description Download the profit and loss statement as a PDF
// @Tags Reports
// @Produce application/pdf
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /reports/profit-loss/pdf [get]
func (h *ReportHandler) ProfitAndLossPDF(c *gin.Context) {
	from, to, ok := parseDateRange(c)
	if !ok {
		return
	}

	data, filename, err := h.exportService.ProfitAndLossPDF(c.Request.Context(), from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", data)
}

// @Summary Customer Statement PDF
// @Description Download a customer's installment account statement as a PDF
// @Tags Reports
// @Produce application/pdf
// @Param customer_id path int true "Customer ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /reports/customers/{customer_id}/statement [get]
func (h *ReportHandler) CustomerStatementPDF(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("customer_id"), 10, 32)
	data, filename, err := h.exportService.CustomerStatementPDF(c.Request.Context(), uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", data)
}

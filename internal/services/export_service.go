package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/celtec/pos-api/internal/models"
	"github.com/celtec/pos-api/internal/repository"
)

// ExportService renders reports as downloadable files. CSV and XLSX
// exports reuse the aggregations from ReportService; PDF exports are
// built with gofpdf, except the customer statement which renders an
// HTML template through wkhtmltopdf.
type ExportService struct {
	reportSvc       *ReportService
	customerRepo    repository.CustomerRepository
	installmentRepo repository.InstallmentRepository
	repairRepo      repository.RepairRepository
}

// NewExportService creates a new export service
func NewExportService(
	reportSvc *ReportService,
	customerRepo repository.CustomerRepository,
	installmentRepo repository.InstallmentRepository,
	repairRepo repository.RepairRepository,
) *ExportService {
	return &ExportService{
		reportSvc:       reportSvc,
		customerRepo:    customerRepo,
		installmentRepo: installmentRepo,
		repairRepo:      repairRepo,
	}
}

// SalesCSV exports the grouped sales report as CSV
func (s *ExportService) SalesCSV(ctx context.Context, from, to time.Time, groupBy string) ([]byte, string, error) {
	report, err := s.reportSvc.SalesReport(ctx, from, to, groupBy)
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write([]string{"Reporte de Ventas", time.Now().Format("2006-01-02 15:04")})
	_ = writer.Write([]string{""})
	_ = writer.Write([]string{"Período", "Ventas", "Bruto", "Descuento", "Impuesto", "Neto"})

	for _, row := range report.Rows {
		_ = writer.Write([]string{
			row.Period,
			fmt.Sprintf("%d", row.Count),
			fmt.Sprintf("%.2f", row.Gross),
			fmt.Sprintf("%.2f", row.Discount),
			fmt.Sprintf("%.2f", row.Tax),
			fmt.Sprintf("%.2f", row.Net),
		})
	}

	_ = writer.Write([]string{""})
	_ = writer.Write([]string{
		"Total",
		fmt.Sprintf("%d", report.Totals.Count),
		fmt.Sprintf("%.2f", report.Totals.Gross),
		fmt.Sprintf("%.2f", report.Totals.Discount),
		fmt.Sprintf("%.2f", report.Totals.Tax),
		fmt.Sprintf("%.2f", report.Totals.Net),
	})

	writer.Flush()

	filename := fmt.Sprintf("ventas_%s.csv", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// SalesXLSX exports the grouped sales report as an Excel workbook
func (s *ExportService) SalesXLSX(ctx context.Context, from, to time.Time, groupBy string) ([]byte, string, error) {
	report, err := s.reportSvc.SalesReport(ctx, from, to, groupBy)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Ventas"
	_ = f.SetSheetName("Sheet1", sheet)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	_ = f.SetCellValue(sheet, "A1", "Reporte de Ventas")
	_ = f.SetCellStyle(sheet, "A1", "A1", titleStyle)

	headers := []string{"Período", "Ventas", "Bruto", "Descuento", "Impuesto", "Neto"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		_ = f.SetCellValue(sheet, cell, h)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	rowNum := 4
	for _, row := range report.Rows {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), row.Period)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), row.Count)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", rowNum), row.Gross)
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", rowNum), row.Discount)
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", rowNum), row.Tax)
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", rowNum), row.Net)
		rowNum++
	}

	rowNum++
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), "Total")
	_ = f.SetCellStyle(sheet, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("A%d", rowNum), headerStyle)
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), report.Totals.Count)
	_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", rowNum), report.Totals.Gross)
	_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", rowNum), report.Totals.Discount)
	_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", rowNum), report.Totals.Tax)
	_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", rowNum), report.Totals.Net)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("ventas_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// InventoryXLSX exports the current stock valuation as an Excel workbook
func (s *ExportService) InventoryXLSX(ctx context.Context) ([]byte, string, error) {
	report, err := s.reportSvc.InventoryReport(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Inventario"
	_ = f.SetSheetName("Sheet1", sheet)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	lowStockStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "#CC0000", Bold: true},
	})

	_ = f.SetCellValue(sheet, "A1", "Reporte de Inventario")
	_ = f.SetCellStyle(sheet, "A1", "A1", titleStyle)
	_ = f.SetCellValue(sheet, "A2", time.Now().Format("2006-01-02 15:04"))

	headers := []string{"Producto", "Marca", "Modelo", "Categoría", "Unidades", "Valor Costo", "Valor Venta", "Stock Bajo"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 4)
		_ = f.SetCellValue(sheet, cell, h)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	rowNum := 5
	for _, row := range report.Rows {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), row.Name)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), row.Brand)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", rowNum), row.Model)
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", rowNum), row.Category)
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", rowNum), row.Units)
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", rowNum), row.CostValue)
		_ = f.SetCellValue(sheet, fmt.Sprintf("G%d", rowNum), row.SaleValue)
		if row.LowStock {
			_ = f.SetCellValue(sheet, fmt.Sprintf("H%d", rowNum), "Sí")
			_ = f.SetCellStyle(sheet, fmt.Sprintf("H%d", rowNum), fmt.Sprintf("H%d", rowNum), lowStockStyle)
		} else {
			_ = f.SetCellValue(sheet, fmt.Sprintf("H%d", rowNum), "No")
		}
		rowNum++
	}

	rowNum++
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), "Total")
	_ = f.SetCellStyle(sheet, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("A%d", rowNum), headerStyle)
	_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", rowNum), report.TotalUnits)
	_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", rowNum), report.CostValue)
	_ = f.SetCellValue(sheet, fmt.Sprintf("G%d", rowNum), report.SaleValue)

	// IMEI breakdown on a second sheet
	imeiSheet := "IMEIs"
	_, _ = f.NewSheet(imeiSheet)
	_ = f.SetCellValue(imeiSheet, "A1", "Unidades por Estado")
	_ = f.SetCellStyle(imeiSheet, "A1", "A1", titleStyle)
	_ = f.SetCellValue(imeiSheet, "A3", "Estado")
	_ = f.SetCellValue(imeiSheet, "B3", "Cantidad")
	imeiRow := 4
	for _, status := range models.IMEIStatuses {
		if count, ok := report.IMEIByStatus[status]; ok {
			_ = f.SetCellValue(imeiSheet, fmt.Sprintf("A%d", imeiRow), status)
			_ = f.SetCellValue(imeiSheet, fmt.Sprintf("B%d", imeiRow), count)
			imeiRow++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("inventario_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ProfitAndLossPDF exports the profit and loss statement as PDF
func (s *ExportService) ProfitAndLossPDF(ctx context.Context, from, to time.Time) ([]byte, string, error) {
	report, err := s.reportSvc.ProfitAndLoss(ctx, from, to)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Estado de Resultados")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	rangeStr := "Todo el historial"
	if report.From != nil || report.To != nil {
		fromStr, toStr := "inicio", "hoy"
		if report.From != nil {
			fromStr = report.From.Format("02/01/2006")
		}
		if report.To != nil {
			toStr = report.To.Format("02/01/2006")
		}
		rangeStr = fmt.Sprintf("Del %s al %s", fromStr, toStr)
	}
	pdf.Cell(40, 10, rangeStr)
	pdf.Ln(12)

	line := func(label string, amount float64) {
		pdf.Cell(70, 8, label)
		pdf.CellFormat(40, 8, fmt.Sprintf("L %.2f", amount), "", 0, "R", false, 0, "")
		pdf.Ln(8)
	}

	pdf.SetFont("Arial", "", 10)
	line("Ingresos brutos:", report.Revenue)
	line("Descuentos:", -report.Discounts)
	pdf.SetFont("Arial", "B", 10)
	line("Ingresos netos:", report.NetRevenue)
	pdf.SetFont("Arial", "", 10)
	line("Costo de ventas:", -report.COGS)
	pdf.SetFont("Arial", "B", 10)
	line("Utilidad bruta:", report.GrossProfit)
	pdf.SetFont("Arial", "", 10)
	line("Gastos:", -report.Expenses)

	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 12)
	line("Utilidad neta:", report.NetProfit)

	pdf.Ln(4)
	pdf.SetFont("Arial", "I", 8)
	pdf.Cell(40, 8, fmt.Sprintf("Ventas incluidas: %d. Generado el %s.", report.SaleCount, time.Now().Format("02/01/2006 15:04")))

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("estado_resultados_%s.pdf", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// RepairTicketPDF renders the printable workshop ticket for a repair order
func (s *ExportService) RepairTicketPDF(ctx context.Context, repairID uint) ([]byte, string, error) {
	order, err := s.repairRepo.FindByID(ctx, repairID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Orden de Reparacion")
	pdf.Ln(8)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, order.TicketNo)
	pdf.Ln(12)

	field := func(label, value string) {
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(45, 8, label)
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 8, value, "", "L", false)
	}

	field("Cliente:", order.Customer.FullName)
	field("Telefono:", order.Customer.Phone)
	field("Equipo:", order.DeviceDesc)
	if order.IMEI != nil {
		field("IMEI:", order.IMEI.IMEI)
	}
	field("Falla reportada:", order.Issue)
	if order.Diagnosis != nil {
		field("Diagnostico:", *order.Diagnosis)
	}
	if order.RepairCost != nil {
		field("Costo:", fmt.Sprintf("L %.2f", *order.RepairCost))
	}
	field("Estado:", order.Status)
	field("Recibido:", order.CreatedAt.Format("02/01/2006 15:04"))
	if order.CompletedAt != nil {
		field("Completado:", order.CompletedAt.Format("02/01/2006 15:04"))
	}

	pdf.Ln(16)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(80, 8, "_______________________")
	pdf.Cell(80, 8, "_______________________")
	pdf.Ln(6)
	pdf.Cell(80, 8, "Firma del cliente")
	pdf.Cell(80, 8, "Firma del tecnico")

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("orden_%s.pdf", order.TicketNo)
	return buf.Bytes(), filename, nil
}

// statementPlan is the per-plan block of the customer statement template
type statementPlan struct {
	ID          uint
	Product     string
	Total       string
	DownPayment string
	Paid        string
	Remaining   string
	Status      string
	StartDate   string
	Payments    []statementPayment
}

type statementPayment struct {
	Date   string
	Amount string
	Note   string
}

// CustomerStatementPDF renders the account statement of a customer with
// every installment plan and its payment history
func (s *ExportService) CustomerStatementPDF(ctx context.Context, customerID uint) ([]byte, string, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}

	installments, err := s.installmentRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, "", err
	}

	plans := make([]statementPlan, 0, len(installments))
	for i := range installments {
		inst := &installments[i]

		productName := "Venta"
		if len(inst.Sale.Items) > 0 {
			productName = inst.Sale.Items[0].Product.Name
		}

		plan := statementPlan{
			ID:          inst.ID,
			Product:     productName,
			Total:       "L " + inst.TotalAmount.StringFixed(2),
			DownPayment: "L " + inst.DownPayment.StringFixed(2),
			Paid:        "L " + inst.PaidSoFar().StringFixed(2),
			Remaining:   "L " + inst.Remaining.StringFixed(2),
			Status:      inst.Status,
			StartDate:   inst.StartDate.Format("02/01/2006"),
		}
		for _, p := range inst.Payments {
			note := ""
			if p.Note != nil {
				note = *p.Note
			}
			plan.Payments = append(plan.Payments, statementPayment{
				Date:   p.CreatedAt.Format("02/01/2006"),
				Amount: "L " + p.Amount.StringFixed(2),
				Note:   note,
			})
		}
		plans = append(plans, plan)
	}

	data := struct {
		Customer *models.Customer
		Date     string
		Plans    []statementPlan
	}{
		Customer: customer,
		Date:     time.Now().Format("02/01/2006"),
		Plans:    plans,
	}

	pdfBuf, err := s.generatePDF("customer_statement.html", data)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("estado_cuenta_%d_%s.pdf", customer.ID, time.Now().Format("2006-01-02"))
	return pdfBuf.Bytes(), filename, nil
}

func (s *ExportService) generatePDF(templateName string, data interface{}) (*bytes.Buffer, error) {
	tmplPath := fmt.Sprintf("internal/services/templates/reports/%s", templateName)
	if _, err := os.Stat(tmplPath); os.IsNotExist(err) {
		tmplPath = fmt.Sprintf("templates/reports/%s", templateName)
	}

	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s (path: %s): %w", templateName, tmplPath, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create pdf generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(buf.Bytes()))
	page.EnableLocalFileAccess.Set(true)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create pdf: %w", err)
	}

	return pdfg.Buffer(), nil
}

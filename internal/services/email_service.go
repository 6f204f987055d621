package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/celtec/pos-api/internal/config"
	"github.com/celtec/pos-api/internal/models"
	"github.com/celtec/pos-api/pkg/logger"
	"github.com/resend/resend-go/v2"
)

//go:embed templates/email/*.html
var emailTemplates embed.FS

type EmailService struct {
	config       *config.Config
	resendClient *resend.Client
}

func NewEmailService(cfg *config.Config) *EmailService {
	client := resend.NewClient(cfg.ResendAPIKey)
	return &EmailService{
		config:       cfg,
		resendClient: client,
	}
}

func (s *EmailService) SendAccountCreated(ctx context.Context, user *models.User) error {
	data := struct {
		Name   string
		AppURL string
	}{
		Name:   user.FullName,
		AppURL: s.config.AppURL,
	}

	body, err := s.renderTemplate("account_created.html", data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{user.Email},
		Subject: "¡Bienvenido a CelTec POS!",
		Html:    body,
	}
	_, err = s.resendClient.Emails.Send(params)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to send email to %s: %v", user.Email, err))
		return err
	}

	logger.Info(fmt.Sprintf("📧 [Email Sent] To: %s | Subject: ¡Bienvenido a CelTec POS!", user.Email))
	return nil
}

// SendInstallmentReceipt confirms a received installment payment to the
// customer. Customers without an email address are skipped silently.
func (s *EmailService) SendInstallmentReceipt(ctx context.Context, installment *models.Installment, payment *models.InstallmentPayment) error {
	if installment.Customer.Email == nil || *installment.Customer.Email == "" {
		return nil
	}

	data := struct {
		Name       string
		Amount     string
		PaidSoFar  string
		Remaining  string
		ReceivedAt string
		AppURL     string
	}{
		Name:       installment.Customer.FullName,
		Amount:     "L" + payment.Amount.StringFixed(2),
		PaidSoFar:  "L" + installment.PaidSoFar().StringFixed(2),
		Remaining:  "L" + installment.Remaining.StringFixed(2),
		ReceivedAt: payment.CreatedAt.Format("02/01/2006 15:04"),
		AppURL:     s.config.AppURL,
	}

	body, err := s.renderTemplate("installment_receipt.html", data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{*installment.Customer.Email},
		Subject: "Pago Recibido",
		Html:    body,
	}
	_, err = s.resendClient.Emails.Send(params)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to send email to %s: %v", *installment.Customer.Email, err))
		return err
	}

	logger.Info(fmt.Sprintf("📧 [Email Sent] To: %s | Subject: Pago Recibido", *installment.Customer.Email))
	return nil
}

// SendInstallmentCompleted congratulates the customer when the plan is paid off.
func (s *EmailService) SendInstallmentCompleted(ctx context.Context, installment *models.Installment) error {
	if installment.Customer.Email == nil || *installment.Customer.Email == "" {
		return nil
	}

	data := struct {
		Name        string
		TotalAmount string
		CompletedAt string
		AppURL      string
	}{
		Name:        installment.Customer.FullName,
		TotalAmount: "L" + installment.TotalAmount.StringFixed(2),
		CompletedAt: installment.CompletedAt.Format("02/01/2006"),
		AppURL:      s.config.AppURL,
	}

	body, err := s.renderTemplate("installment_completed.html", data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{*installment.Customer.Email},
		Subject: "Plan de Pagos Completado",
		Html:    body,
	}
	_, err = s.resendClient.Emails.Send(params)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to send email to %s: %v", *installment.Customer.Email, err))
		return err
	}

	logger.Info(fmt.Sprintf("📧 [Email Sent] To: %s | Subject: Plan de Pagos Completado", *installment.Customer.Email))
	return nil
}

type OverdueInstallmentData struct {
	Product   string
	Monthly   string
	Remaining string
}

// SendOverdueInstallments reminds a customer of plans with no recent payment.
func (s *EmailService) SendOverdueInstallments(ctx context.Context, customer *models.Customer, installments []models.Installment) error {
	if customer.Email == nil || *customer.Email == "" {
		return nil
	}

	var rows []OverdueInstallmentData
	for _, inst := range installments {
		product := ""
		if len(inst.Sale.Items) > 0 {
			product = inst.Sale.Items[0].Product.Name
		}
		rows = append(rows, OverdueInstallmentData{
			Product:   product,
			Monthly:   "L" + inst.MonthlyAmount.StringFixed(2),
			Remaining: "L" + inst.Remaining.StringFixed(2),
		})
	}

	data := struct {
		Name         string
		Installments []OverdueInstallmentData
		AppURL       string
	}{
		Name:         customer.FullName,
		Installments: rows,
		AppURL:       s.config.AppURL,
	}

	body, err := s.renderTemplate("overdue_installment.html", data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{*customer.Email},
		Subject: fmt.Sprintf("Cuotas Pendientes (%d planes)", len(installments)),
		Html:    body,
	}
	_, err = s.resendClient.Emails.Send(params)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to send email to %s: %v", *customer.Email, err))
		return err
	}

	logger.Info(fmt.Sprintf("📧 [Email Sent] To: %s | Subject: Cuotas Pendientes (%d planes)", *customer.Email, len(installments)))
	return nil
}

// SendRepairReady tells the customer their device is repaired and can be
// picked up.
func (s *EmailService) SendRepairReady(ctx context.Context, order *models.RepairOrder) error {
	if order.Customer.Email == nil || *order.Customer.Email == "" {
		return nil
	}

	cost := ""
	if order.RepairCost != nil {
		cost = fmt.Sprintf("L%.2f", *order.RepairCost)
	}

	data := struct {
		Name       string
		TicketNo   string
		DeviceDesc string
		Cost       string
		AppURL     string
	}{
		Name:       order.Customer.FullName,
		TicketNo:   order.TicketNo,
		DeviceDesc: order.DeviceDesc,
		Cost:       cost,
		AppURL:     s.config.AppURL,
	}

	body, err := s.renderTemplate("repair_ready.html", data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{*order.Customer.Email},
		Subject: fmt.Sprintf("Reparación Lista - %s", order.TicketNo),
		Html:    body,
	}
	_, err = s.resendClient.Emails.Send(params)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to send email to %s: %v", *order.Customer.Email, err))
		return err
	}

	logger.Info(fmt.Sprintf("📧 [Email Sent] To: %s | Subject: Reparación Lista - %s", *order.Customer.Email, order.TicketNo))
	return nil
}

func (s *EmailService) renderTemplate(name string, data interface{}) (string, error) {
	tmpl, err := template.ParseFS(emailTemplates, "templates/email/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}

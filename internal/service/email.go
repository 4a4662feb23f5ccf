package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"rentacar-backend/internal/logger"
	"rentacar-backend/internal/utils"
)

// sendGridEmailService delivers client notifications through SendGrid.
type sendGridEmailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewSendGridEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &sendGridEmailService{apiKey: apiKey, fromEmail: fromEmail, fromName: fromName}
}

func (s *sendGridEmailService) SendCancellationNotice(ctx context.Context, toEmail, clientName, vehicleLabel, reason string) error {
	subject := "Your rental has been cancelled"
	plainText := fmt.Sprintf("Hello %s,\n\nYour rental of %s was cancelled. Reason: %s.\n\nPlease contact the rental office to rebook.",
		clientName, vehicleLabel, reason)
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Rental Cancelled</h2>
				<p>Hello %s,</p>
				<p>Your rental of <strong>%s</strong> was cancelled.</p>
				<p>Reason: %s.</p>
				<p>Please contact the rental office to rebook.</p>
			</body>
		</html>
	`, clientName, vehicleLabel, reason)
	return s.send(toEmail, clientName, subject, plainText, htmlContent)
}

func (s *sendGridEmailService) SendCheckoutDueReminder(ctx context.Context, toEmail string, rentalID int64, vehicleLabel string, endDate utils.Date) error {
	subject := "Vehicle return overdue"
	plainText := fmt.Sprintf("Your rental of %s ended on %s and is awaiting checkout. Please return the vehicle as soon as possible.",
		vehicleLabel, endDate)
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Return Overdue</h2>
				<p>Your rental of <strong>%s</strong> ended on <strong>%s</strong> and is awaiting checkout.</p>
				<p>Please return the vehicle as soon as possible.</p>
			</body>
		</html>
	`, vehicleLabel, endDate)
	if err := s.send(toEmail, "", subject, plainText, htmlContent); err != nil {
		return fmt.Errorf("reminder for rental %d: %w", rentalID, err)
	}
	return nil
}

func (s *sendGridEmailService) send(to, toName, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

// noopEmailService is used when no SendGrid key is configured; it logs
// instead of sending so local environments still exercise the flow.
type noopEmailService struct{}

func NewNoopEmailService() EmailService {
	return noopEmailService{}
}

func (noopEmailService) SendCancellationNotice(ctx context.Context, toEmail, clientName, vehicleLabel, reason string) error {
	logger.Info("email delivery disabled, skipping cancellation notice", "to", toEmail, "vehicle", vehicleLabel)
	return nil
}

func (noopEmailService) SendCheckoutDueReminder(ctx context.Context, toEmail string, rentalID int64, vehicleLabel string, endDate utils.Date) error {
	logger.Info("email delivery disabled, skipping checkout reminder", "to", toEmail, "rental_id", rentalID)
	return nil
}

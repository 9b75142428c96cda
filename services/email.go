package services

import (
	"fmt"
	"form_forge_app_go/config"
	"form_forge_app_go/models"
	"log"
	"strings"

	"github.com/resend/resend-go/v2"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// SendEmail sends an email using Resend API
func SendEmail(cfg *config.Config, email *Email) error {
	// In development mode, log the email instead of sending
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		return nil
	}

	// Validate configuration
	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	client := resend.NewClient(cfg.ResendAPIKey)

	fromAddress := fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom)

	params := &resend.SendEmailRequest{
		From:    fromAddress,
		To:      email.To,
		Subject: email.Subject,
	}

	// Set body (prefer HTML if available)
	if email.HTMLBody != "" {
		params.Html = email.HTMLBody
	}
	if email.TextBody != "" {
		params.Text = email.TextBody
	}

	if params.Html == "" && params.Text == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %v", err)
	}

	log.Printf("Email sent successfully via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

// SendEmailAsync sends an email asynchronously using a goroutine
// This is the recommended method in handlers to avoid blocking HTTP responses
func SendEmailAsync(cfg *config.Config, email *Email) {
	// Create a copy of the email to avoid race conditions
	emailCopy := &Email{
		To:       append([]string{}, email.To...),
		Subject:  email.Subject,
		HTMLBody: email.HTMLBody,
		TextBody: email.TextBody,
	}

	go func(cfg *config.Config, email *Email) {
		if err := SendEmail(cfg, email); err != nil {
			log.Printf("Error sending async email: %v", err)
		}
	}(cfg, emailCopy)
}

// BuildSubmissionNotificationEmail creates the email sent to a form owner
// when a new response comes in
func BuildSubmissionNotificationEmail(cfg *config.Config, owner *models.User, form *models.Form, answerCount int) *Email {
	resultsURL := fmt.Sprintf("%s/forms/%s/results", strings.TrimRight(cfg.AppURL, "/"), form.ID)

	textBody := fmt.Sprintf(
		"Hi %s,\n\nYour form %q just received a new response with %d answer(s).\n\nView the results here: %s\n",
		owner.Name, form.Name, answerCount, resultsURL,
	)
	htmlBody := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your form <strong>%s</strong> just received a new response with %d answer(s).</p><p><a href=%q>View the results</a></p>",
		owner.Name, form.Name, answerCount, resultsURL,
	)

	return &Email{
		To:       []string{owner.Email},
		Subject:  fmt.Sprintf("New response to %q", form.Name),
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}

// logEmailToConsole logs email details to console in development mode
func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 80)
	log.Printf("\n%s\nEMAIL (Development Mode - Not Actually Sent)\n%s", separator, separator)
	log.Printf("To: %v", email.To)
	log.Printf("Subject: %s", email.Subject)
	log.Printf("\n--- TEXT BODY ---\n%s", email.TextBody)
	log.Printf("%s\n", separator)
}

// truncate truncates a string to a maximum length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

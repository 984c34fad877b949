package mailing

import (
	"fmt"
	"gopkg.in/gomail.v2"
	"html"
	"inventra-backend/entities"
	"inventra-backend/internal/utils"
	"strconv"
	"strings"
)

type MailConfig struct {
	SMTPHost     string
	SMTPPort     string
	SMTPSender   string
	SMTPEmail    string
	SMTPPassword string
}

func LoadMailConfig() MailConfig {
	return MailConfig{
		SMTPHost:     utils.GetConfig("SMTP_HOST"),
		SMTPPort:     utils.GetConfig("SMTP_PORT"),
		SMTPSender:   utils.GetConfig("SMTP_SENDER_NAME"),
		SMTPEmail:    utils.GetConfig("SMTP_AUTH_EMAIL"),
		SMTPPassword: utils.GetConfig("SMTP_AUTH_PASSWORD"),
	}
}

// Configured reports whether enough SMTP settings are present to send mail.
func (m MailConfig) Configured() bool {
	return m.SMTPHost != "" && m.SMTPPort != "" && m.SMTPEmail != ""
}

func SendMail(toEmail string, subject string, body string) error {
	emailConfig := LoadMailConfig()

	mailer := gomail.NewMessage()
	if emailConfig.SMTPSender != "" {
		mailer.SetAddressHeader("From", emailConfig.SMTPEmail, emailConfig.SMTPSender)
	} else {
		mailer.SetHeader("From", emailConfig.SMTPEmail)
	}
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)
	port, err := strconv.Atoi(emailConfig.SMTPPort)
	if err != nil {
		return err
	}
	dialer := gomail.NewDialer(
		emailConfig.SMTPHost,
		port,
		emailConfig.SMTPEmail,
		emailConfig.SMTPPassword,
	)

	return dialer.DialAndSend(mailer)
}

func LowStockSubject(count int) string {
	if count == 1 {
		return "Inventra: 1 item is low on stock"
	}
	return fmt.Sprintf("Inventra: %d items are low on stock", count)
}

// LowStockBody renders the alert listing every item at or below its minimum.
func LowStockBody(items []*entities.InventoryItem) string {
	var b strings.Builder
	b.WriteString("<h2>Low stock</h2>\n<table>\n")
	b.WriteString("<tr><th>Item</th><th>Quantity</th><th>Minimum</th><th>Unit</th></tr>\n")
	for _, item := range items {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%g</td><td>%g</td><td>%s</td></tr>\n",
			html.EscapeString(item.Name), item.Quantity, item.MinQuantity, html.EscapeString(item.Unit.String()))
	}
	b.WriteString("</table>\n")
	return b.String()
}

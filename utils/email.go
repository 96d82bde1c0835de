package utils

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// EmailConfig holds email configuration
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func emailConfigFromEnv() EmailConfig {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	return EmailConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     port,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
}

// SendTrackingEmail mails a customer their tracking reference after checkout.
// refType is "quote" or "order" and only changes the wording.
func SendTrackingEmail(to, name, trackingRef, refType string) error {
	config := emailConfigFromEnv()

	kind := "Order"
	if refType == "quote" {
		kind = "Quote"
	}
	if name == "" {
		name = "there"
	}

	trackURL := fmt.Sprintf("%s/trackorder.html?ref=%s",
		os.Getenv("FRONTEND_URL"), url.QueryEscape(trackingRef))

	m := gomail.NewMessage()
	m.SetHeader("From", config.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Your %s Reference", kind))

	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Thank you for your purchase from Sérac.</p>
		<p>Your tracking reference is <strong>%s</strong>.</p>
		<p>You can track your order here: <a href="%s">Track Order</a></p>
	`, name, trackingRef, trackURL)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}

	return nil
}

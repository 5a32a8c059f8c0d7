package email

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"net/smtp"
)

// Config holds SMTP configuration.
type Config struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

// Service sends invoice mail over SMTP.
type Service struct {
	config Config
}

// NewService creates a new email service.
func NewService(config Config) *Service {
	return &Service{config: config}
}

// InvoiceMail is the data rendered into the invoice notification body.
type InvoiceMail struct {
	InvoiceID   uint
	Client      string
	InvoiceDate string
	Total       string
	CompanyName string
}

// SendInvoice emails the rendered invoice PDF to the recipient as an
// attachment named invoice-{id}.pdf.
func (s *Service) SendInvoice(to string, mail InvoiceMail, pdf []byte) error {
	htmlBody, err := s.renderInvoiceEmail(mail)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("Invoice #%d from %s", mail.InvoiceID, mail.CompanyName)
	filename := fmt.Sprintf("invoice-%d.pdf", mail.InvoiceID)
	message := s.buildMessageWithAttachment(to, subject, htmlBody, filename, pdf)

	return s.sendEmail(to, message)
}

// sendEmail sends a raw message using SMTP.
func (s *Service) sendEmail(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)
	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)

	if err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// buildMessageWithAttachment builds a multipart/mixed message with an HTML
// body part and one base64-encoded PDF attachment.
func (s *Service) buildMessageWithAttachment(to, subject, htmlBody, filename string, attachment []byte) []byte {
	const boundary = "invoice-mail-boundary"

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s <%s>\r\n", s.config.FromName, s.config.FromEmail)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", boundary)

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	buf.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	buf.WriteString(htmlBody)
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	buf.WriteString("Content-Type: application/pdf\r\n")
	buf.WriteString("Content-Transfer-Encoding: base64\r\n")
	fmt.Fprintf(&buf, "Content-Disposition: attachment; filename=%q\r\n\r\n", filename)

	encoded := base64.StdEncoding.EncodeToString(attachment)
	// RFC 2045 line length limit
	for len(encoded) > 76 {
		buf.WriteString(encoded[:76])
		buf.WriteString("\r\n")
		encoded = encoded[76:]
	}
	buf.WriteString(encoded)
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "--%s--\r\n", boundary)
	return buf.Bytes()
}

// renderInvoiceEmail renders the invoice notification template.
func (s *Service) renderInvoiceEmail(mail InvoiceMail) (string, error) {
	tmpl, err := template.New("invoice").Parse(invoiceTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, mail); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// invoiceTemplate is the HTML template for invoice notification emails.
const invoiceTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Invoice #{{.InvoiceID}}</title>
</head>
<body style="font-family: Arial, sans-serif; color: #333;">
    <h2>Invoice #{{.InvoiceID}}</h2>
    <p>Dear {{.Client}},</p>
    <p>
        Please find attached invoice <strong>#{{.InvoiceID}}</strong>
        dated {{.InvoiceDate}} for a total of <strong>{{.Total}}</strong>.
    </p>
    <p>Kind regards,<br>{{.CompanyName}}</p>
</body>
</html>
`

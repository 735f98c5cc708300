package services

import (
	"fmt"
	"log"
	"net/smtp"
	"regexp"
	"strings"

	"github.com/soggypotatoes/shop/app/models"
	"github.com/soggypotatoes/shop/app/utils/format"
)

type MailerConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type Mailer struct {
	config MailerConfig
}

func NewMailer(cfg MailerConfig) *Mailer {
	return &Mailer{
		config: cfg,
	}
}

func (m *Mailer) SendHTMLEmail(to, subject, htmlBody string) error {
	plainBody := htmlToPlainText(htmlBody)

	boundary := "soggy-potatoes-alt"

	headers := map[string]string{
		"From":         m.config.From,
		"To":           to,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": fmt.Sprintf("multipart/alternative; boundary=%q", boundary),
	}

	var msg strings.Builder
	for k, v := range headers {
		fmt.Fprintf(&msg, "%s: %s\r\n", k, v)
	}
	msg.WriteString("\r\n")

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	msg.WriteString(plainBody)
	msg.WriteString("\r\n")

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	msg.WriteString(htmlBody)
	msg.WriteString("\r\n")

	fmt.Fprintf(&msg, "--%s--\r\n", boundary)

	auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	addr := fmt.Sprintf("%s:%s", m.config.Host, m.config.Port)

	if err := smtp.SendMail(addr, auth, m.config.From, []string{to}, []byte(msg.String())); err != nil {
		log.Printf("ERROR: Mailer: failed to send HTML email to %s: %v", to, err)
		return fmt.Errorf("failed to send HTML email: %w", err)
	}

	return nil
}

// SendOrderConfirmation emails the order receipt. Callers treat
// failures as non-fatal: a lost email never rolls back fulfilment.
func (m *Mailer) SendOrderConfirmation(order *models.Order) error {
	if order.Email == "" {
		return nil
	}
	subject := fmt.Sprintf("Order Confirmation - %s", order.OrderNumber)
	return m.SendHTMLEmail(order.Email, subject, BuildOrderConfirmationBody(order))
}

func BuildOrderConfirmationBody(order *models.Order) string {
	var rows strings.Builder
	for _, item := range order.OrderItems {
		fmt.Fprintf(&rows, `<tr><td>%s</td><td style="text-align:center;">%d</td><td style="text-align:right;">%s</td></tr>`,
			item.ProductName, item.Quantity, format.USD(item.TotalPrice()))
	}

	return fmt.Sprintf(`
        <!DOCTYPE html>
        <html>
        <head>
            <meta charset="utf-8">
            <title>Order Confirmation</title>
            <style>
                body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
                .container { max-width: 600px; margin: 20px auto; padding: 20px; border: 1px solid #ddd; border-radius: 5px; }
                .header { background-color: #f8f8f8; padding: 10px 0; text-align: center; border-bottom: 1px solid #ddd; }
                table { width: 100%%; border-collapse: collapse; margin: 20px 0; }
                th, td { padding: 8px; border-bottom: 1px solid #eee; text-align: left; }
                .totals td { border: none; padding: 4px 8px; }
                .footer { font-size: 0.8em; color: #777; text-align: center; margin-top: 20px; border-top: 1px solid #ddd; padding-top: 10px; }
            </style>
        </head>
        <body>
            <div class="container">
                <div class="header">
                    <h2>Thanks for your order, %s!</h2>
                </div>
                <p>Your order <strong>%s</strong> has been confirmed and is now being processed.</p>
                <table>
                    <tr><th>Item</th><th style="text-align:center;">Qty</th><th style="text-align:right;">Price</th></tr>
                    %s
                </table>
                <table class="totals">
                    <tr><td>Subtotal</td><td style="text-align:right;">%s</td></tr>
                    <tr><td>Shipping</td><td style="text-align:right;">%s</td></tr>
                    <tr><td>Tax</td><td style="text-align:right;">%s</td></tr>
                    <tr><td><strong>Total</strong></td><td style="text-align:right;"><strong>%s</strong></td></tr>
                </table>
                <p>Shipping to: %s, %s, %s %s</p>
                <div class="footer">
                    <p>&copy; 2025 Soggy Potatoes. All rights reserved.</p>
                </div>
            </div>
        </body>
        </html>
    `, order.ShippingName, order.OrderNumber, rows.String(),
		format.USD(order.Subtotal), format.USD(order.ShippingCost),
		format.USD(order.Tax), format.USD(order.Total),
		order.ShippingAddress, order.ShippingCity, order.ShippingState, order.ShippingZip)
}

var (
	htmlTagRe        = regexp.MustCompile(`<[^>]*>`)
	blankLinesRe     = regexp.MustCompile(`\n{3,}`)
	trailingSpacesRe = regexp.MustCompile(`[ \t]+\n`)
)

func htmlToPlainText(html string) string {
	text := regexp.MustCompile(`(?s)<style[^>]*>.*?</style>`).ReplaceAllString(html, "")
	text = strings.ReplaceAll(text, "</p>", "\n")
	text = strings.ReplaceAll(text, "</tr>", "\n")
	text = strings.ReplaceAll(text, "<br>", "\n")
	text = htmlTagRe.ReplaceAllString(text, " ")
	text = strings.ReplaceAll(text, "&copy;", "(c)")
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = trailingSpacesRe.ReplaceAllString(text, "\n")
	text = blankLinesRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

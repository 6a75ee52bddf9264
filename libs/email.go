package libs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"pc-store/config"
	"pc-store/i18n"
	"pc-store/models"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/gomail.v2"
)

var ErrSMTPNotConfigured = errors.New("SMTP configuration missing")

type EmailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(cfg *config.Config) (*EmailService, error) {
	if cfg.SMTPHost == "" || cfg.SMTPUser == "" || cfg.SMTPPass == "" {
		return nil, ErrSMTPNotConfigured
	}
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &EmailService{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:   from,
	}, nil
}

// FormatYen renders an amount with the locale's digit grouping.
func FormatYen(lang string, amount int64) string {
	tag := language.English
	if lang == i18n.Japanese {
		tag = language.Japanese
	}
	return message.NewPrinter(tag).Sprintf("¥%d", amount)
}

type confirmationCopy struct {
	Subject, Heading, Intro, Number, Item, Qty, Price string
	Subtotal, Tax, Shipping, Total, ShipTo, Footer    string
}

var confirmationText = map[string]confirmationCopy{
	i18n.English: {
		Subject:  "Order confirmation %s - PC Store",
		Heading:  "Thank you for your order!",
		Intro:    "We have received your order and will let you know when it ships.",
		Number:   "Order number",
		Item:     "Item",
		Qty:      "Qty",
		Price:    "Amount",
		Subtotal: "Subtotal",
		Tax:      "Tax (10%)",
		Shipping: "Shipping",
		Total:    "Total",
		ShipTo:   "Shipping to",
		Footer:   "This is an automated email. Please do not reply.",
	},
	i18n.Japanese: {
		Subject:  "ご注文確認 %s - PC Store",
		Heading:  "ご注文ありがとうございます。",
		Intro:    "ご注文を承りました。発送時に改めてご連絡いたします。",
		Number:   "注文番号",
		Item:     "商品",
		Qty:      "数量",
		Price:    "金額",
		Subtotal: "小計",
		Tax:      "消費税 (10%)",
		Shipping: "送料",
		Total:    "合計",
		ShipTo:   "お届け先",
		Footer:   "このメールは送信専用です。ご返信いただいてもお答えできません。",
	},
}

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
  <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 30px; border-radius: 10px;">
    <h2 style="color: #333;">{{.Copy.Heading}}</h2>
    <p>{{.Copy.Intro}}</p>
    <p><strong>{{.Copy.Number}}:</strong> {{.Order.OrderNumber}}</p>
    <table style="width: 100%; border-collapse: collapse;">
      <tr><th align="left">{{.Copy.Item}}</th><th>{{.Copy.Qty}}</th><th align="right">{{.Copy.Price}}</th></tr>
      {{range .Lines}}<tr><td>{{.Name}}</td><td align="center">{{.Quantity}}</td><td align="right">{{.Amount}}</td></tr>
      {{end}}
    </table>
    <p>{{.Copy.Subtotal}}: {{.Subtotal}}<br>{{.Copy.Tax}}: {{.Tax}}<br>{{.Copy.Shipping}}: {{.Shipping}}</p>
    <p><strong>{{.Copy.Total}}: {{.Total}}</strong></p>
    <p>{{.Copy.ShipTo}}:<br>{{.Order.ShippingAddress.FullName}}<br>〒{{.Order.ShippingAddress.PostalCode}} {{.Order.ShippingAddress.Prefecture}} {{.Order.ShippingAddress.City}}<br>{{.Order.ShippingAddress.AddressLine1}} {{.Order.ShippingAddress.AddressLine2}}</p>
    <p style="color: #666; font-size: 12px;">{{.Copy.Footer}}</p>
  </div>
</body>
</html>`))

type confirmationLine struct {
	Name     string
	Quantity int
	Amount   string
}

// RenderOrderConfirmation returns the subject and HTML body in the order's language.
func RenderOrderConfirmation(order *models.Order) (string, string, error) {
	lang := order.Language
	text, ok := confirmationText[lang]
	if !ok {
		lang = i18n.English
		text = confirmationText[lang]
	}

	lines := make([]confirmationLine, 0, len(order.Items))
	for _, it := range order.Items {
		name := it.ProductName
		if it.VariantName != "" {
			name += " / " + it.VariantName
		}
		lines = append(lines, confirmationLine{Name: name, Quantity: it.Quantity, Amount: FormatYen(lang, it.LineTotal)})
	}

	var body bytes.Buffer
	err := confirmationTemplate.Execute(&body, map[string]any{
		"Lang":     lang,
		"Copy":     text,
		"Order":    order,
		"Lines":    lines,
		"Subtotal": FormatYen(lang, order.Subtotal),
		"Tax":      FormatYen(lang, order.TaxAmount),
		"Shipping": FormatYen(lang, order.ShippingAmount),
		"Total":    FormatYen(lang, order.TotalAmount),
	})
	if err != nil {
		return "", "", fmt.Errorf("render confirmation: %w", err)
	}
	return fmt.Sprintf(text.Subject, order.OrderNumber), body.String(), nil
}

func (s *EmailService) SendOrderConfirmation(ctx context.Context, order *models.Order) error {
	subject, body, err := RenderOrderConfirmation(order)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", order.Email)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

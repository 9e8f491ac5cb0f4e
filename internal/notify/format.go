package notify

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ariefcatur/go-storefront-checkout/internal/orders"
)

var funcs = map[string]any{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"units": func(it orders.LineItem) int { return it.Units() },
	"variant": func(it orders.LineItem) string {
		var parts []string
		for _, p := range []string{it.SelectedSize, it.SelectedColor} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) == 0 {
			return ""
		}
		return " (" + strings.Join(parts, ", ") + ")"
	},
	"stamp": func(t time.Time) string { return t.UTC().Format(time.RFC3339) },
}

var createdAlert = texttemplate.Must(texttemplate.New("created").Funcs(funcs).Parse(
	`[{{.Store}}] New order {{.Order.ID}} | PAYMENT PENDING
Customer: {{.Order.Customer.FullName}} <{{.Order.Customer.Email}}>
Items:
{{range .Order.Items}}- {{units .}} x {{.Name}}{{variant .}} @ {{money .Price}} {{$.Currency}}
{{end}}Subtotal: {{money .Order.Subtotal}} {{.Currency}}
Shipping: {{money .Order.ShippingCost}} {{.Currency}}
Total: {{money .Order.Total}} {{.Currency}}
Delivery: {{.Order.Customer.Address.Street}}, {{.Order.Customer.Address.Zip}} {{.Order.Customer.Address.City}}`))

var paidAlert = texttemplate.Must(texttemplate.New("paid").Funcs(funcs).Parse(
	`[{{.Store}}] Order {{.Confirmation.OrderID}} | PAYMENT CONFIRMED
Transaction: {{.Confirmation.TransactionID}}
Payer: {{with .Confirmation.Payer.Name}}{{.}} {{end}}<{{.Confirmation.Payer.Email}}>
Paid at: {{stamp .Confirmation.PaidAt}}`))

var confirmationEmail = htmltemplate.Must(htmltemplate.New("email").Funcs(funcs).Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif;">
  <h2>Thank you{{with .Confirmation.Payer.Name}}, {{.}}{{end}}!</h2>
  <p>We have received your payment for order <strong>{{.Confirmation.OrderID}}</strong>.</p>
  <p>Transaction id: {{.Confirmation.TransactionID}}<br>
     Paid at: {{stamp .Confirmation.PaidAt}}</p>
  <p>We will let you know as soon as your order ships.</p>
  <p>{{.Store}}</p>
</body>
</html>`))

// Formatter renders alert and email copy.
type Formatter struct {
	StoreName string
	Currency  string
}

func (f Formatter) AlertText(ev orders.Event) (string, error) {
	var buf bytes.Buffer
	var err error
	switch e := ev.(type) {
	case orders.OrderCreated:
		err = createdAlert.Execute(&buf, map[string]any{"Store": f.StoreName, "Currency": f.Currency, "Order": e.Order})
	case orders.OrderPaid:
		err = paidAlert.Execute(&buf, map[string]any{"Store": f.StoreName, "Confirmation": e.Confirmation})
	default:
		return "", fmt.Errorf("no alert format for %s", ev.EventType())
	}
	if err != nil {
		return "", fmt.Errorf("render %s alert: %w", ev.EventType(), err)
	}
	return buf.String(), nil
}

func (f Formatter) ConfirmationEmail(c orders.PaymentConfirmation) (Mail, error) {
	var buf bytes.Buffer
	if err := confirmationEmail.Execute(&buf, map[string]any{"Store": f.StoreName, "Confirmation": c}); err != nil {
		return Mail{}, fmt.Errorf("render confirmation email: %w", err)
	}
	return Mail{
		To:       c.Payer.Email,
		Subject:  fmt.Sprintf("%s: payment confirmed for order %s", f.StoreName, c.OrderID),
		HTMLBody: buf.String(),
	}, nil
}

package notify

import (
	"context"

	"github.com/ariefcatur/go-storefront-checkout/internal/orders"
)

type Mail struct {
	To       string
	Subject  string
	HTMLBody string
}

// Mailer is the mail transport.
type Mailer interface {
	SendMail(ctx context.Context, m Mail) error
}

// EmailChannel sends the payment confirmation to the customer.
type EmailChannel struct {
	Mailer Mailer
	Format Formatter
}

func (c *EmailChannel) Name() string { return "customer-email" }

// Accepts only paid orders with a known payer address; no address means nothing to send.
func (c *EmailChannel) Accepts(ev orders.Event) bool {
	paid, ok := ev.(orders.OrderPaid)
	return ok && c.Mailer != nil && paid.Confirmation.Payer.Email != ""
}

func (c *EmailChannel) Send(ctx context.Context, ev orders.Event) error {
	m, err := c.Format.ConfirmationEmail(ev.(orders.OrderPaid).Confirmation)
	if err != nil {
		return err
	}
	return c.Mailer.SendMail(ctx, m)
}

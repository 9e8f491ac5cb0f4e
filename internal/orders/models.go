package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

type Address struct {
	Street string `json:"street"`
	Zip    string `json:"zip"`
	City   string `json:"city"`
}

type Customer struct {
	FullName string  `json:"fullName"`
	Email    string  `json:"email"`
	Address  Address `json:"address"`
}

// IsZero reports whether the customer carries neither a name nor an email.
func (c *Customer) IsZero() bool {
	return c == nil || (c.FullName == "" && c.Email == "")
}

type LineItem struct {
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	SelectedSize  string          `json:"selectedSize,omitempty"`
	SelectedColor string          `json:"selectedColor,omitempty"`
}

// Units is the quantity used for pricing; an absent quantity counts as one.
func (it LineItem) Units() int {
	if it.Quantity < 1 {
		return 1
	}
	return it.Quantity
}

type Order struct {
	ID           string          `json:"orderId"`
	Customer     Customer        `json:"customer"`
	Items        []LineItem      `json:"items"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	ShippingCost decimal.Decimal `json:"shippingCost"`
	Total        decimal.Decimal `json:"total"`
	Currency     string          `json:"currency"`
	Status       Status          `json:"status"` // lihat status.go
	CreatedAt    time.Time       `json:"createdAt"`
}

// Payer is who paid, as reported by the payment provider.
type Payer struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type PaymentConfirmation struct {
	OrderID       string    `json:"orderId"`
	TransactionID string    `json:"paymentTransactionId"`
	Status        Status    `json:"status"`
	PaidAt        time.Time `json:"paidAt"`
	Payer         Payer     `json:"payer"`
}

package orders

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// pending -> paid only; paid is terminal.
var validNext = map[Status]map[Status]bool{
	StatusPending: {StatusPaid: true},
	StatusPaid:    {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// Confirm builds the confirmation for an order moving from `from` to paid.
func Confirm(orderID, transactionID string, from Status, paidAt time.Time, payer Payer) (PaymentConfirmation, error) {
	if !CanTransition(from, StatusPaid) {
		return PaymentConfirmation{}, fmt.Errorf("order %s: cannot move from %q to %q", orderID, from, StatusPaid)
	}
	return PaymentConfirmation{
		OrderID:       orderID,
		TransactionID: transactionID,
		Status:        StatusPaid,
		PaidAt:        paidAt,
		Payer:         payer,
	}, nil
}

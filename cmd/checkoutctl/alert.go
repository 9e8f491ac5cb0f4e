package main

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ariefcatur/go-storefront-checkout/internal/app"
	"github.com/ariefcatur/go-storefront-checkout/internal/notify"
	"github.com/ariefcatur/go-storefront-checkout/internal/orders"
)

func alertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alert",
		Short: "Send a sample notification through the configured channels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}
			event, _ := cmd.Flags().GetString("event")
			email, _ := cmd.Flags().GetString("email")

			ev, err := sampleEvent(event, email, cfg.Currency, app.Pricing(cfg))
			if err != nil {
				return err
			}
			channels, err := app.DeliveryChannels(cfg, log)
			if err != nil {
				return err
			}
			d := notify.NewDispatcher(log, nil, channels...)
			report := d.Dispatch(cmd.Context(), ev)
			printReport(cmd.OutOrStdout(), report)
			if n := len(report.Failed()); n > 0 {
				return fmt.Errorf("%d of %d channels failed", n, len(report.Results))
			}
			return nil
		},
	}
	cmd.Flags().StringP("event", "e", "created", "Event to send: created or paid")
	cmd.Flags().String("email", "", "Payer email for the paid event")
	return cmd
}

func sampleEvent(kind, email, currency string, pricing orders.Pricing) (orders.Event, error) {
	now := time.Now().UTC()
	id := fmt.Sprintf("ORD-TEST-%d", now.Unix())
	switch kind {
	case "created":
		items := []orders.LineItem{
			{Name: "Sample Hoodie", Price: decimal.RequireFromString("39.90"), Quantity: 1, SelectedSize: "M", SelectedColor: "black"},
			{Name: "Sample Mug", Price: decimal.RequireFromString("12.50"), Quantity: 2},
		}
		q, err := pricing.Compute(items)
		if err != nil {
			return nil, err
		}
		return orders.OrderCreated{Order: orders.Order{
			ID: id,
			Customer: orders.Customer{
				FullName: "Test Customer",
				Email:    "test@example.com",
				Address:  orders.Address{Street: "Teststrasse 1", Zip: "10115", City: "Berlin"},
			},
			Items:        items,
			Subtotal:     q.Subtotal,
			ShippingCost: q.ShippingCost,
			Total:        q.Total,
			Currency:     currency,
			Status:       orders.StatusPending,
			CreatedAt:    now,
		}}, nil
	case "paid":
		return orders.OrderPaid{Confirmation: orders.PaymentConfirmation{
			OrderID:       id,
			TransactionID: "PAY-TEST",
			Status:        orders.StatusPaid,
			PaidAt:        now,
			Payer:         orders.Payer{Name: "Test Customer", Email: email},
		}}, nil
	}
	return nil, fmt.Errorf("unknown event %q, want created or paid", kind)
}

func printReport(w io.Writer, r notify.Report) {
	fmt.Fprintf(w, "%s %s\n", r.EventType, r.OrderID)
	if len(r.Results) == 0 {
		fmt.Fprintln(w, "  no channel configured for this event")
		return
	}
	for _, res := range r.Results {
		status := "ok"
		if res.Err != nil {
			status = "FAILED: " + res.Err.Error()
		}
		fmt.Fprintf(w, "  %-16s %-8s %s\n", res.Channel, res.Duration.Round(time.Millisecond), status)
	}
}

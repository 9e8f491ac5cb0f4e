package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ariefcatur/go-storefront-checkout/internal/app"
	"github.com/ariefcatur/go-storefront-checkout/internal/orders"
)

func quoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a cart with the configured shipping rules",
		Long: `Reads a cart as JSON, either {"items": [...]} or a bare list of items,
and prints subtotal, shipping and total. Use --file - to read stdin.`,
		Args: cobra.NoArgs,
		RunE: runQuote,
	}
	cmd.Flags().StringP("file", "f", "-", "Cart JSON file")
	return cmd
}

func runQuote(cmd *cobra.Command, _ []string) error {
	cfg, _, err := setup(cmd)
	if err != nil {
		return err
	}
	path, _ := cmd.Flags().GetString("file")

	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	items, err := readCart(r)
	if err != nil {
		return err
	}

	q, err := app.Pricing(cfg).Compute(items)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Items:    %d\n", len(items))
	fmt.Fprintf(out, "Subtotal: %s %s\n", q.Subtotal.StringFixed(2), cfg.Currency)
	fmt.Fprintf(out, "Shipping: %s %s\n", q.ShippingCost.StringFixed(2), cfg.Currency)
	fmt.Fprintf(out, "Total:    %s %s\n", q.Total.StringFixed(2), cfg.Currency)
	return nil
}

func readCart(r io.Reader) ([]orders.LineItem, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var items []orders.LineItem
		if err := json.Unmarshal(b, &items); err != nil {
			return nil, fmt.Errorf("cart: %w", err)
		}
		return items, nil
	}
	var cart struct {
		Items []orders.LineItem `json:"items"`
	}
	if err := json.Unmarshal(b, &cart); err != nil {
		return nil, fmt.Errorf("cart: %w", err)
	}
	return cart.Items, nil
}

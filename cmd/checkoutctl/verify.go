package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariefcatur/go-storefront-checkout/internal/app"
)

func verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify [paymentId]",
		Short: "Ask the payment provider whether a payment completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}
			v, err := app.NewVerifier(cfg, log, nil)
			if err != nil {
				return err
			}

			res, err := v.Verify(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Payment:  %s\n", args[0])
			fmt.Fprintf(out, "Verdict:  %s\n", res.Verdict)
			fmt.Fprintf(out, "Status:   %s (raw %q)\n", res.Status, res.RawStatus)
			if res.Payer.Email != "" || res.Payer.Name != "" {
				fmt.Fprintf(out, "Payer:    %s <%s>\n", res.Payer.Name, res.Payer.Email)
			}
			return nil
		},
	}
}

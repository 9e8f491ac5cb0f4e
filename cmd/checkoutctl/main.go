// Command checkoutctl runs checkout operations by hand against the configured
// pricing, payment provider and notification channels.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-storefront-checkout/internal/config"
	"github.com/ariefcatur/go-storefront-checkout/internal/telemetry"
)

var Version = "dev"

func main() {
	_ = godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "checkoutctl",
		Short:         "checkoutctl - storefront checkout operations",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Bool("verbose", false, "Log to stderr")

	root.AddCommand(quoteCmd())
	root.AddCommand(verifyCmd())
	root.AddCommand(alertCmd())
	return root
}

// setup loads config and a logger; logs stay quiet unless --verbose.
func setup(cmd *cobra.Command) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return cfg, zap.NewNop(), nil
	}
	log, err := telemetry.NewLogger("development", "debug")
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, log, nil
}

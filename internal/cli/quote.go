package cli

import (
	"github.com/spf13/cobra"

	"stock-options-api/internal/app"
)

var quoteExpiration string

var quoteCmd = &cobra.Command{
	Use:   "quote SYMBOL",
	Short: "Fetch an option chain and print it as a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Quote(cmd.Context(), app.QuoteOptions{
			Symbol:     args[0],
			Expiration: quoteExpiration,
		})
	},
}

func init() {
	quoteCmd.Flags().StringVar(&quoteExpiration, "expiration", "", "Expiration date (YYYY-MM-DD, defaults to soonest)")
}

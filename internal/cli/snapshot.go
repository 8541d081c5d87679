package cli

import (
	"github.com/spf13/cobra"

	"stock-options-api/internal/app"
)

var (
	snapshotExpiration string
	snapshotCSVPath    string
	snapshotPNGPath    string
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot SYMBOL",
	Short: "Export an option chain as CSV and/or an IV-by-strike PNG chart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Snapshot(cmd.Context(), app.SnapshotOptions{
			Symbol:     args[0],
			Expiration: snapshotExpiration,
			CSVPath:    snapshotCSVPath,
			PNGPath:    snapshotPNGPath,
		})
	},
}

func init() {
	snapshotCmd.Flags().StringVar(&snapshotExpiration, "expiration", "", "Expiration date (YYYY-MM-DD, defaults to soonest)")
	snapshotCmd.Flags().StringVar(&snapshotCSVPath, "csv", "", "Path to write CSV data")
	snapshotCmd.Flags().StringVar(&snapshotPNGPath, "png", "", "Path to write PNG chart")
}

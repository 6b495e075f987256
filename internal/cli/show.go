package cli

import (
	"github.com/spf13/cobra"

	"stock-report-builder/internal/app"
)

var (
	showTicker string
	showLimit  int
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the derived quarterly series for a ticker",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Show(cmd.Context(), app.ShowOptions{
			Ticker: showTicker,
			Limit:  showLimit,
		})
	},
}

func init() {
	showCmd.Flags().StringVar(&showTicker, "ticker", "", "Ticker symbol to inspect")
	showCmd.Flags().IntVar(&showLimit, "limit", 0, "Maximum quarters to print (0 prints all)")
	_ = showCmd.MarkFlagRequired("ticker")
}

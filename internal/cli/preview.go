package cli

import (
	"github.com/spf13/cobra"

	"stock-report-builder/internal/app"
)

var previewFixture string

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Build a report from a JSON fixture instead of the network",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := app.ParseExportFormat(reportFormat)
		if err != nil {
			return err
		}
		return getApp().Preview(cmd.Context(), app.PreviewOptions{
			FixturePath: previewFixture,
			Format:      format,
			OutPath:     reportOut,
			Request:     buildRequest(cmd),
		})
	},
}

func init() {
	registerReportFlags(previewCmd)
	previewCmd.Flags().StringVar(&previewFixture, "fixture", "", "Path to a JSON fixture file")
	_ = previewCmd.MarkFlagRequired("fixture")
}

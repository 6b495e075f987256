package cli

import (
	"github.com/spf13/cobra"

	"stock-report-builder/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := getApp()
		return server.Run(cmd.Context(), a, server.Options{
			Addr:            a.Config.Server.Addr,
			ReadTimeout:     a.Config.Server.ReadTimeout,
			WriteTimeout:    a.Config.Server.WriteTimeout,
			ShutdownTimeout: a.Config.Server.ShutdownTimeout,
		}, a.Logger)
	},
}

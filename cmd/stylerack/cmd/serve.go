package cmd

import (
	"github.com/spf13/cobra"

	"github.com/stylerack/stylerack/internal/server"
)

var (
	serveFlagAddr    string
	serveFlagOrigins []string
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog over HTTP",
	Long: `Serve loads the catalog and exposes it as a read-only JSON API,
plus a refresh endpoint that re-fetches the gallery listing.

Endpoints:
  GET  /healthz
  GET  /api/products        filter with ?style=&tag=&season=&scene=
  GET  /api/products/:id
  GET  /api/facets
  POST /api/refresh`,
	Example: `  stylerack serve
  stylerack serve --addr :9000 --origin https://gallery.example.com`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveFlagAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().StringArrayVar(&serveFlagOrigins, "origin", nil, "allowed CORS origin (repeatable, default: all)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	app, err := refreshed(cmd.Context())
	if err != nil {
		return err
	}

	srv := server.New(app, server.Config{
		Addr:         serveFlagAddr,
		AllowOrigins: serveFlagOrigins,
	})
	return srv.Run(cmd.Context())
}

package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stylerack/stylerack/internal/cmd/output"
	"github.com/stylerack/stylerack/pkg/catalog"
)

// facetsCmd represents the facets command.
var facetsCmd = &cobra.Command{
	Use:   "facets",
	Short: "Show facet values present in the gallery",
	Long: `Facets lists every style, tag, season, and scene value derived from
the current gallery, the same pool the list filters draw from.`,
	RunE: runFacets,
}

func init() {
	rootCmd.AddCommand(facetsCmd)
}

func runFacets(cmd *cobra.Command, _ []string) error {
	app, err := refreshed(cmd.Context())
	if err != nil {
		return err
	}

	all := app.Pool().All()

	if output.Format(flagOutput) == output.FormatTable {
		data := output.Data{Headers: []string{"Facet", "Values"}}
		for _, f := range catalog.Facets() {
			data.Rows = append(data.Rows, []string{
				string(f),
				strings.Join(all[f], ", "),
			})
		}
		return formatter().Format(os.Stdout, data)
	}

	payload := make(map[string][]string, len(all))
	for f, values := range all {
		payload[string(f)] = values
	}
	return formatter().Format(os.Stdout, payload)
}

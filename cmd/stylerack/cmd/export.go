package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stylerack/stylerack/internal/cmd/output"
	"github.com/stylerack/stylerack/pkg/catalog"
)

var (
	exportFlagFormat string
	exportFlagOutput string
)

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the decoded catalog as JSON or YAML",
	Long: `Export fetches a live listing and writes the full decoded catalog,
including resolved image URLs, for consumption by other tools.`,
	Example: `  stylerack export > catalog.json
  stylerack export -f yaml --file catalog.yaml`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFlagFormat, "format", "f", "json", "export format: json or yaml")
	exportCmd.Flags().StringVar(&exportFlagOutput, "file", "", "output file (default: stdout)")
}

func runExport(cmd *cobra.Command, _ []string) error {
	format, err := output.ParseFormat(exportFlagFormat)
	if err != nil {
		return err
	}
	if format != output.FormatJSON && format != output.FormatYAML {
		return fmt.Errorf("export format must be json or yaml, got %q", exportFlagFormat)
	}

	app, err := refreshed(cmd.Context())
	if err != nil {
		return err
	}

	type exportImage struct {
		Path string `json:"path"`
		URL  string `json:"url"`
	}
	type exportProduct struct {
		*catalog.Product
		URLs []exportImage `json:"image_urls"`
	}

	products := app.Catalog().Products()
	out := make([]exportProduct, 0, len(products))
	for _, p := range products {
		urls := make([]exportImage, 0, len(p.Images))
		for _, img := range p.Images {
			urls = append(urls, exportImage{
				Path: img.RemotePath,
				URL:  app.Gateway().FileURL(img.RemotePath),
			})
		}
		out = append(out, exportProduct{Product: p, URLs: urls})
	}

	w := os.Stdout
	if exportFlagOutput != "" {
		f, err := os.Create(exportFlagOutput)
		if err != nil {
			return fmt.Errorf("creating %s: %w", exportFlagOutput, err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	return output.NewFormatter(format).Format(w, out)
}

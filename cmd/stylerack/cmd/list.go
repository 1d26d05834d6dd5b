package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stylerack/stylerack/internal/cmd/output"
	"github.com/stylerack/stylerack/pkg/catalog"
)

var (
	listFlagStyles  []string
	listFlagTags    []string
	listFlagSeasons []string
	listFlagScenes  []string
)

// listCmd represents the list command.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List gallery products",
	Long: `List fetches a live gallery listing and prints the decoded products.

Facet flags narrow the result: values of the same facet are alternatives,
different facets must all match.`,
	Example: `  stylerack list
  stylerack list --season 夏
  stylerack list --style 休闲 --style 运动 --tag 新品
  stylerack list -o json`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringArrayVar(&listFlagStyles, "style", nil, "filter by style (repeatable)")
	listCmd.Flags().StringArrayVar(&listFlagTags, "tag", nil, "filter by tag (repeatable)")
	listCmd.Flags().StringArrayVar(&listFlagSeasons, "season", nil, "filter by season (repeatable)")
	listCmd.Flags().StringArrayVar(&listFlagScenes, "scene", nil, "filter by scene (repeatable)")
}

func runList(cmd *cobra.Command, _ []string) error {
	app, err := refreshed(cmd.Context())
	if err != nil {
		return err
	}

	selections := map[catalog.Facet][]string{
		catalog.FacetStyle:  listFlagStyles,
		catalog.FacetTag:    listFlagTags,
		catalog.FacetSeason: listFlagSeasons,
		catalog.FacetScene:  listFlagScenes,
	}
	for f, values := range selections {
		for _, value := range values {
			app.Filter().Toggle(f, value)
		}
	}

	products := app.FilteredProducts()
	if len(products) == 0 {
		fmt.Fprintln(os.Stderr, "No products matched.")
		return nil
	}

	data := output.Data{
		Headers: []string{"ID", "Name", "Price", "Styles", "Tags", "Seasons", "Scenes", "Images"},
	}
	for _, p := range products {
		data.Rows = append(data.Rows, []string{
			p.ID,
			p.Name,
			p.DisplayPrice(),
			strings.Join(p.Styles, ","),
			strings.Join(p.Tags, ","),
			strings.Join(p.Seasons, ","),
			strings.Join(p.Scenes, ","),
			fmt.Sprintf("%d", len(p.Images)),
		})
	}

	if output.Format(flagOutput) == output.FormatTable {
		return formatter().Format(os.Stdout, data)
	}
	return formatter().Format(os.Stdout, products)
}

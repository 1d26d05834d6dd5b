package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stylerack/stylerack/internal/cmd/output"
)

// showCmd represents the show command.
var showCmd = &cobra.Command{
	Use:   "show <product-id|path>",
	Short: "Show one product with its image URLs",
	Example: `  stylerack show '服装/128-休闲-新品-夏-通勤-连衣裙'
  stylerack show <id> -o yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	app, err := refreshed(cmd.Context())
	if err != nil {
		return err
	}

	p, err := findProduct(app, args[0])
	if err != nil {
		return err
	}

	urls := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		urls = append(urls, app.Gateway().FileURL(img.RemotePath))
	}

	if output.Format(flagOutput) == output.FormatTable {
		data := output.Data{
			Headers: []string{"Property", "Value"},
			Rows: [][]string{
				{"ID", p.ID},
				{"Path", p.Path},
				{"Name", p.Name},
				{"Price", p.DisplayPrice()},
				{"Styles", strings.Join(p.Styles, ", ")},
				{"Tags", strings.Join(p.Tags, ", ")},
				{"Seasons", strings.Join(p.Seasons, ", ")},
				{"Scenes", strings.Join(p.Scenes, ", ")},
				{"Images", strings.Join(urls, "\n")},
			},
		}
		return formatter().Format(os.Stdout, data)
	}

	view := struct {
		ID      string   `json:"id"`
		Path    string   `json:"path"`
		Name    string   `json:"name"`
		Price   int      `json:"price"`
		Styles  []string `json:"styles"`
		Tags    []string `json:"tags"`
		Seasons []string `json:"seasons"`
		Scenes  []string `json:"scenes"`
		Images  []string `json:"images"`
	}{p.ID, p.Path, p.Name, p.Price, p.Styles, p.Tags, p.Seasons, p.Scenes, urls}
	return formatter().Format(os.Stdout, view)
}

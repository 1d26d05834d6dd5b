package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stylerack/stylerack/internal/cmd/output"
	"github.com/stylerack/stylerack/pkg/catalog"
	"github.com/stylerack/stylerack/pkg/session"
)

var (
	uploadFlagTo      string
	uploadFlagName    string
	uploadFlagPrice   int
	uploadFlagStyles  []string
	uploadFlagTags    []string
	uploadFlagSeasons []string
	uploadFlagScenes  []string
)

// uploadCmd represents the upload command.
var uploadCmd = &cobra.Command{
	Use:   "upload <file>...",
	Short: "Upload images into a product",
	Long: `Upload stages local image files and submits them as one batch.

With --to, the files land in an existing product's directory. Without it,
a new product folder is composed from --name, --price, and at least one
value per facet category.

Files upload strictly in numeric-aware filename order, one at a time.
The first failure halts the batch; files already uploaded stay on the
host and the rest are never attempted. Failed uploads are never retried
automatically, as a retry could duplicate the image.`,
	Example: `  stylerack upload --to <product-id> img1.jpg img2.jpg
  stylerack upload --name 连衣裙 --price 128 \
      --style 休闲 --tag 新品 --season 夏 --scene 通勤 img*.jpg`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().StringVar(&uploadFlagTo, "to", "", "existing product ID or path to upload into")
	uploadCmd.Flags().StringVar(&uploadFlagName, "name", "", "new product name")
	uploadCmd.Flags().IntVar(&uploadFlagPrice, "price", -1, "new product price in whole yuan")
	uploadCmd.Flags().StringArrayVar(&uploadFlagStyles, "style", nil, "new product style (repeatable)")
	uploadCmd.Flags().StringArrayVar(&uploadFlagTags, "tag", nil, "new product tag (repeatable)")
	uploadCmd.Flags().StringArrayVar(&uploadFlagSeasons, "season", nil, "new product season (repeatable)")
	uploadCmd.Flags().StringArrayVar(&uploadFlagScenes, "scene", nil, "new product scene (repeatable)")
}

func runUpload(cmd *cobra.Command, args []string) error {
	app, err := refreshed(cmd.Context())
	if err != nil {
		return err
	}
	sess := app.Session()

	if uploadFlagTo != "" {
		p, err := findProduct(app, uploadFlagTo)
		if err != nil {
			return err
		}
		sess.Select(p)
	} else {
		if err := sess.SetName(uploadFlagName); err != nil {
			return err
		}
		if uploadFlagPrice >= 0 {
			if err := sess.SetPrice(uploadFlagPrice); err != nil {
				return err
			}
		}
		selections := map[catalog.Facet][]string{
			catalog.FacetStyle:  uploadFlagStyles,
			catalog.FacetTag:    uploadFlagTags,
			catalog.FacetSeason: uploadFlagSeasons,
			catalog.FacetScene:  uploadFlagScenes,
		}
		for f, values := range selections {
			for _, value := range values {
				if err := sess.AddAdHocTag(app.Pool(), f, value); err != nil {
					return err
				}
			}
		}
	}

	if err := sess.Enqueue(args...); err != nil {
		return err
	}

	result, submitErr := app.SubmitUpload(cmd.Context())
	if result != nil {
		// A fully successful batch clears the queue; the per-file table only
		// matters when something went wrong.
		if entries := sess.Entries(); len(entries) > 0 {
			if err := printBatch(entries); err != nil {
				return err
			}
		}
		fmt.Fprintf(os.Stderr, "Batch %s into %s: %d uploaded, %d failed, %d not attempted\n",
			result.BatchID, result.Folder, result.Succeeded, result.Failed, result.Remaining)
	}
	return submitErr
}

// printBatch renders the per-file outcome of a batch.
func printBatch(entries []session.Entry) error {
	data := output.Data{Headers: []string{"File", "Size", "Type", "Status", "Error"}}
	for _, e := range entries {
		errMsg := ""
		if e.Err != nil {
			errMsg = e.Err.Error()
		}
		data.Rows = append(data.Rows, []string{
			e.Name,
			fmt.Sprintf("%d", e.Size),
			e.ContentType,
			string(e.Status),
			errMsg,
		})
	}
	return output.NewFormatter(output.FormatTable).Format(os.Stdout, data)
}

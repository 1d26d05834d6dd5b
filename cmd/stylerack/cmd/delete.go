package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var deleteFlagYes bool

// deleteCmd represents the delete command.
var deleteCmd = &cobra.Command{
	Use:   "delete <remote-path>",
	Short: "Delete one remote image",
	Long: `Delete removes a single image from the host by its full remote path,
e.g. 服装/128-休闲-新品-夏-通勤-连衣裙/img1.jpg.

Deleting the last image of a product removes the product from the catalog;
the empty directory disappears from future listings on its own.

The operation is irreversible and requires --yes.`,
	Example: `  stylerack delete --yes '服装/128-休闲-新品-夏-通勤-连衣裙/img1.jpg'`,
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().BoolVar(&deleteFlagYes, "yes", false, "confirm the deletion")
}

func runDelete(cmd *cobra.Command, args []string) error {
	app, err := refreshed(cmd.Context())
	if err != nil {
		return err
	}

	result, err := app.DeleteImage(cmd.Context(), args[0], deleteFlagYes)
	if err != nil {
		return err
	}

	if result.ProductRemoved {
		fmt.Fprintf(os.Stderr, "Deleted %s; product %q had no images left and was removed\n",
			args[0], result.Product.Name)
	} else {
		fmt.Fprintf(os.Stderr, "Deleted %s (%d images remain in %q)\n",
			args[0], len(result.Product.Images), result.Product.Name)
	}
	return nil
}

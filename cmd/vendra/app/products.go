package app

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vendra/vendra/cmd/vendra/app/ui"
	"github.com/vendra/vendra/pkg/products"
)

func newProductsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse and manage the product catalog",
	}
	cmd.AddCommand(productsListCmd)
	cmd.AddCommand(productsShowCmd)
	cmd.AddCommand(productsEditCmd)
	cmd.AddCommand(productsRmCmd)
	return cmd
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sellable products",
	RunE:  productsListCmdFunc,
}

var (
	listSearch   string
	listLimit    int
	listCategory int64
	listAll      bool
	listFormat   string
)

func init() {
	productsListCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Match against product name or internal code")
	productsListCmd.Flags().IntVar(&listLimit, "limit", 0, "Page size (default 40)")
	productsListCmd.Flags().Int64Var(&listCategory, "category", 0, "Restrict to a category subtree")
	productsListCmd.Flags().BoolVarP(&listAll, "all", "a", false, "Include archived products")
	productsListCmd.Flags().StringVar(&listFormat, "format", FormatText, "Output format (json or text)")
}

func productsListCmdFunc(cmd *cobra.Command, _ []string) error {
	gw, manager, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	defer manager.SignOut()

	catalog, err := products.NewService(gw).Fetch(cmd.Context(), products.FetchOptions{
		Search:          listSearch,
		Limit:           listLimit,
		CategoryID:      listCategory,
		IncludeInactive: listAll,
	})
	if err != nil {
		return err
	}

	if listFormat == FormatJSON {
		return printJSON(catalog)
	}
	return ui.RenderProductsTable(catalog)
}

var productsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one product in detail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		gw, manager, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer manager.SignOut()

		product, err := products.NewService(gw).Get(cmd.Context(), id)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("product %d not found", id)
		}

		if showFormat == FormatJSON {
			return printJSON(product)
		}
		ui.PrintProductDetail(product)
		return nil
	},
}

var showFormat string

func init() {
	productsShowCmd.Flags().StringVar(&showFormat, "format", FormatText, "Output format (json or text)")
}

var productsEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Update a product",
	Long: `Update a product's fields. Only flags that are set are written. A changed
name is also pushed to the product's variants so translated display names stay
consistent; a failed push is reported but does not undo the update.`,
	Args: cobra.ExactArgs(1),
	RunE: productsEditCmdFunc,
}

var (
	editName        string
	editPrice       float64
	editCode        string
	editDescription string
	editImage       string
)

func init() {
	productsEditCmd.Flags().StringVar(&editName, "name", "", "New product name")
	productsEditCmd.Flags().Float64Var(&editPrice, "price", 0, "New list price")
	productsEditCmd.Flags().StringVar(&editCode, "code", "", "New internal reference, blank clears it")
	productsEditCmd.Flags().StringVar(&editDescription, "description", "", "New sales description, blank clears it")
	productsEditCmd.Flags().StringVar(&editImage, "image", "", "Path to a new product image, blank clears it")
}

func productsEditCmdFunc(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	var changes products.Changes
	if cmd.Flags().Changed("name") {
		changes.Name = &editName
	}
	if cmd.Flags().Changed("price") {
		changes.Price = &editPrice
	}
	if cmd.Flags().Changed("code") {
		changes.Code = &editCode
	}
	if cmd.Flags().Changed("description") {
		changes.Description = &editDescription
	}
	if cmd.Flags().Changed("image") {
		image, err := encodeImage(editImage)
		if err != nil {
			return err
		}
		changes.Image = &image
	}

	gw, manager, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	defer manager.SignOut()

	result, err := products.NewService(gw).Update(cmd.Context(), id, changes)
	if err != nil {
		return err
	}

	if !result.Updated {
		return fmt.Errorf("server rejected the update of product %d", id)
	}
	fmt.Printf("Product %d updated\n", id)
	if result.NameChanged && !result.Propagated {
		fmt.Fprintf(os.Stderr, "Warning: name not propagated to variants: %v\n", result.PropagationErr)
	}
	return nil
}

// encodeImage base64-encodes an image file for the image field; a blank path
// clears the image.
func encodeImage(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path) // #nosec G304 - user-supplied image path
	if err != nil {
		return "", fmt.Errorf("failed to read image file: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

var productsRmCmd = &cobra.Command{
	Use:   "rm <id>...",
	Short: "Delete products",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]int64, 0, len(args))
		for _, arg := range args {
			id, err := parseID(arg)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}

		gw, manager, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer manager.SignOut()

		ok, err := products.NewService(gw).Delete(cmd.Context(), ids)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("server rejected the deletion")
		}
		fmt.Printf("Deleted %d product(s)\n", len(ids))
		return nil
	},
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid product id %q", arg)
	}
	return id, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

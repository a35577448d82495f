package app

import (
	"github.com/spf13/cobra"

	"github.com/vendra/vendra/cmd/vendra/app/ui"
	"github.com/vendra/vendra/pkg/products"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search products interactively",
	Long: `Open an interactive product search. Lookups fire shortly after you stop
typing; results of superseded lookups are discarded so the list always
reflects the latest input.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		gw, manager, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer manager.SignOut()

		return ui.RunProductSearch(cmd.Context(), products.NewService(gw))
	},
}

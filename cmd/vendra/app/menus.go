package app

import (
	"github.com/spf13/cobra"

	"github.com/vendra/vendra/cmd/vendra/app/ui"
	"github.com/vendra/vendra/pkg/menus"
)

var menusCmd = &cobra.Command{
	Use:   "menus",
	Short: "List the server's menu tree",
	RunE: func(cmd *cobra.Command, _ []string) error {
		gw, manager, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer manager.SignOut()

		entries, err := menus.NewService(gw).List(cmd.Context())
		if err != nil {
			return err
		}

		if menusFormat == FormatJSON {
			return printJSON(entries)
		}
		return ui.RenderMenusTable(entries)
	},
}

var menusFormat string

func init() {
	menusCmd.Flags().StringVar(&menusFormat, "format", FormatText, "Output format (json or text)")
}

package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vendra/vendra/pkg/config"
	"github.com/vendra/vendra/pkg/secrets"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the saved connection preset",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := config.LoadOrCreateConfig()
		if err != nil {
			return err
		}
		if !cfg.HasPreset() {
			fmt.Println("No saved connection")
			return nil
		}

		if err := secrets.DeletePassword(cfg.ServerURL, cfg.Username); err != nil {
			return err
		}
		if err := config.ClearPreset(); err != nil {
			return err
		}
		fmt.Println("Signed out")
		return nil
	},
}

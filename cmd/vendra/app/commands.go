// Package app provides the entry point for the vendra command-line application.
package app

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:               "vendra",
	DisableAutoGenTag: true,
	Short:             "Vendra is a storefront and admin client for JSON-RPC ERP servers",
	Long: `Vendra is a command-line storefront and admin client for ERP servers speaking
JSON-RPC 2.0. It signs in against a server, resolves the database from the
address or by discovery, and drives the product catalog, menus, and search
over the object service.`,
	Run: func(cmd *cobra.Command, _ []string) {
		// If no subcommand is provided, print help
		_ = cmd.Help()
	},
}

// NewRootCmd creates a new root command for the vendra CLI.
func NewRootCmd() *cobra.Command {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(newProductsCmd())
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(menusCmd)
	rootCmd.AddCommand(newMoviesCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

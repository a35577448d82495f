package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated profile",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, manager, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer manager.SignOut()

		sess := manager.Current()
		if whoamiFormat == FormatJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(sess)
		}

		fmt.Printf("Server:   %s\n", sess.ServerURL)
		fmt.Printf("Database: %s\n", sess.Database)
		fmt.Printf("User:     %s (uid %d)\n", sess.User.Name, sess.UID)
		fmt.Printf("Email:    %s\n", sess.User.Email)
		return nil
	},
}

var whoamiFormat string

func init() {
	whoamiCmd.Flags().StringVar(&whoamiFormat, "format", FormatText, "Output format (json or text)")
}

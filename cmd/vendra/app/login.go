package app

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vendra/vendra/pkg/config"
	"github.com/vendra/vendra/pkg/secrets"
	"github.com/vendra/vendra/pkg/session"
)

var loginCmd = &cobra.Command{
	Use:   "login [server]",
	Short: "Sign in to a server",
	Long: `Sign in to a server and verify the credentials. The database is taken from
the --database flag, inferred from the server address, or discovered when the
server hosts exactly one database. With --save the connection is stored as
the default preset; the password goes into the system keyring, never into the
config file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: loginCmdFunc,
}

var (
	loginUser          string
	loginDatabase      string
	loginPasswordStdin bool
	loginSave          bool
	loginCACert        string
	loginAllowHTTP     bool
)

func init() {
	loginCmd.Flags().StringVarP(&loginUser, "user", "u", "", "Account to sign in as")
	loginCmd.Flags().StringVarP(&loginDatabase, "database", "d", "", "Database to authenticate against")
	loginCmd.Flags().BoolVar(&loginPasswordStdin, "password-stdin", false, "Read the password from stdin")
	loginCmd.Flags().BoolVar(&loginSave, "save", false, "Save the connection as the default preset")
	loginCmd.Flags().StringVar(&loginCACert, "ca-cert", "", "Path to an extra CA bundle for HTTPS")
	loginCmd.Flags().BoolVar(&loginAllowHTTP, "allow-http", false, "Permit plain-HTTP servers (development only)")
}

func loginCmdFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.LoadOrCreateConfig()
	if err != nil {
		return err
	}

	server := cfg.ServerURL
	if len(args) > 0 {
		server = args[0]
	}
	if server == "" {
		return fmt.Errorf("no server given and no saved preset")
	}

	username := loginUser
	if username == "" {
		username = cfg.Username
	}
	if username == "" {
		return fmt.Errorf("no user given, use --user")
	}

	password, err := readPassword()
	if err != nil {
		return err
	}

	cfg.CACertificatePath = firstNonEmpty(loginCACert, cfg.CACertificatePath)
	cfg.AllowHTTP = cfg.AllowHTTP || loginAllowHTTP

	manager := session.NewManager(managerOptions(cfg)...)
	sess, err := manager.SignIn(ctx, server, username, password, loginDatabase)
	if err != nil {
		return err
	}

	fmt.Printf("Signed in to %s (database %s) as %s\n", sess.ServerURL, sess.Database, sess.User.Name)

	if loginSave {
		if err := config.UpdateConfig(func(c *config.Config) {
			c.ServerURL = sess.ServerURL
			c.Database = sess.Database
			c.Username = sess.Username
			c.CACertificatePath = cfg.CACertificatePath
			c.AllowHTTP = cfg.AllowHTTP
		}); err != nil {
			return err
		}
		if err := secrets.SetPassword(sess.ServerURL, sess.Username, password); err != nil {
			return err
		}
		fmt.Println("Connection saved")
	}
	return nil
}

// readPassword reads the password from stdin when piped or requested, and
// falls back to a hidden terminal prompt.
func readPassword() (string, error) {
	if loginPasswordStdin || !term.IsTerminal(int(syscall.Stdin)) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("failed to read password from stdin: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Print("Password (input will be hidden): ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println("")
	if err != nil {
		return "", fmt.Errorf("failed to read password from terminal: %w", err)
	}
	return string(passwordBytes), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

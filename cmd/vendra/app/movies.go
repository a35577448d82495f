package app

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/vendra/vendra/cmd/vendra/app/ui"
	"github.com/vendra/vendra/pkg/movies"
)

func newMoviesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "movies",
		Short: "Browse the movie catalog",
	}
	cmd.AddCommand(moviesSearchCmd)
	return cmd
}

var moviesSearchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Search movies by name",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		gw, manager, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer manager.SignOut()

		term := strings.Join(args, " ")
		found, err := movies.NewService(gw).Search(cmd.Context(), term, moviesGenre, moviesLimit)
		if err != nil {
			return err
		}

		if moviesFormat == FormatJSON {
			return printJSON(found)
		}
		return ui.RenderMoviesTable(found)
	},
}

var (
	moviesGenre  string
	moviesLimit  int
	moviesFormat string
)

func init() {
	moviesSearchCmd.Flags().StringVar(&moviesGenre, "genre", "", "Restrict to a genre")
	moviesSearchCmd.Flags().IntVar(&moviesLimit, "limit", 0, "Maximum number of results")
	moviesSearchCmd.Flags().StringVar(&moviesFormat, "format", FormatText, "Output format (json or text)")
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Print the list markup for a query",
	Long: `Loads the catalog once and prints the markup the page would show in
its list container for the query. An empty query prints every game.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sh, _, err := newShelf(cfg, logger)
		if err != nil {
			return err
		}

		// A failed load is not a command error: the page shows the notice.
		_ = sh.Load(cmd.Context())

		fmt.Fprintln(cmd.OutOrStdout(), sh.Initial(strings.Join(args, " ")))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

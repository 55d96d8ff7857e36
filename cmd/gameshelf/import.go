package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meur/gameshelf/internal/catalog"
	"github.com/meur/gameshelf/internal/storage"
)

var importDB string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy the configured catalog into a SQLite database",
	Long: `Reads the catalog from catalog.source and replaces the contents of the
SQLite database at --db with it. Serve it afterwards with
catalog.source: sqlite://<path>.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.HasPrefix(cfg.Catalog.Source, "sqlite://") {
			return fmt.Errorf("catalog.source %q is already a SQLite catalog", cfg.Catalog.Source)
		}

		source := catalog.ParseSource(cfg.Catalog.Source, cfg.Catalog.Timeout)
		games, err := source.Fetch(cmd.Context())
		if err != nil {
			return fmt.Errorf("%w: %w", catalog.ErrLoadFailure, err)
		}

		store, err := storage.Open(importDB)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.ReplaceGames(cmd.Context(), games); err != nil {
			return fmt.Errorf("import games: %w", err)
		}

		logger.Info("catalog imported",
			zap.String("source", source.Name()),
			zap.String("db", importDB),
			zap.Int("games", len(games)))
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d games into %s\n", len(games), importDB)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importDB, "db", "./gameshelf.db", "SQLite database path")
	rootCmd.AddCommand(importCmd)
}

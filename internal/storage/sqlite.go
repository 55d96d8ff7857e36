package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/meur/gameshelf/internal/models"
)

// Store handles the SQLite copy of a catalog
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at dbPath and ensures the schema
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate runs database migrations
func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS games (
			position INTEGER PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			platforms TEXT,
			recommended_by TEXT NOT NULL DEFAULT '',
			why TEXT NOT NULL DEFAULT '',
			tags TEXT,
			wiki TEXT NOT NULL DEFAULT '',
			image TEXT NOT NULL DEFAULT ''
		)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// Games returns every game in catalog order
func (s *Store) Games(ctx context.Context) ([]models.Game, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT title, platforms, recommended_by, why, tags, wiki, image
		FROM games ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := []models.Game{}
	for rows.Next() {
		var g models.Game
		var platforms, tags sql.NullString
		err := rows.Scan(&g.Title, &platforms, &g.RecommendedBy, &g.Why, &tags, &g.Wiki, &g.Image)
		if err != nil {
			return nil, err
		}
		if g.Platforms, err = decodeList(platforms); err != nil {
			return nil, fmt.Errorf("platforms of %q: %w", g.Title, err)
		}
		if g.Tags, err = decodeList(tags); err != nil {
			return nil, fmt.Errorf("tags of %q: %w", g.Title, err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// ReplaceGames swaps the stored catalog for games in a single transaction
func (s *Store) ReplaceGames(ctx context.Context, games []models.Game) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM games`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO games (position, title, platforms, recommended_by, why, tags, wiki, image)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, g := range games {
		platforms, _ := json.Marshal(g.Platforms)
		tags, _ := json.Marshal(g.Tags)
		_, err := stmt.ExecContext(ctx, i, g.Title, string(platforms), g.RecommendedBy,
			g.Why, string(tags), g.Wiki, g.Image)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// decodeList reads a JSON string array column; NULL and "null" are empty
func decodeList(col sql.NullString) ([]string, error) {
	if !col.Valid || col.String == "" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(col.String), &list); err != nil {
		return nil, err
	}
	return list, nil
}

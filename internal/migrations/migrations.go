// Package migrations applies the embedded SQL schema files in version order
// and records each applied version in schema_migrations.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/utils"
)

//go:embed sql/*.sql
var files embed.FS

type Migration struct {
	Version string
	Name    string
	SQL     string
}

type Status struct {
	Migration
	Applied bool
}

// Load returns the embedded migrations sorted by version.
func Load() ([]Migration, error) {
	return load(files)
}

func load(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, "sql")
	if err != nil {
		return nil, err
	}
	var out []Migration
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		version, name, ok := strings.Cut(strings.TrimSuffix(e.Name(), ".sql"), "_")
		if !ok {
			return nil, fmt.Errorf("migration %q must be named <version>_<name>.sql", e.Name())
		}
		body, err := fs.ReadFile(fsys, path.Join("sql", e.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, Migration{Version: version, Name: name, SQL: string(body)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

func ensureTable(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version     TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			applied_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	return err
}

func applied(ctx context.Context, pool *pgxpool.Pool) (map[string]bool, error) {
	rows, err := pool.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]bool{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out[v] = true
	}
	return out, rows.Err()
}

// Up applies every pending migration, each in its own transaction, and
// returns the versions it applied.
func Up(ctx context.Context, pool *pgxpool.Pool) ([]string, error) {
	if err := ensureTable(ctx, pool); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}
	list, err := Load()
	if err != nil {
		return nil, err
	}
	done, err := applied(ctx, pool)
	if err != nil {
		return nil, err
	}

	var ran []string
	for _, m := range list {
		if done[m.Version] {
			continue
		}
		err := pool.BeginFunc(ctx, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, m.SQL); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, m.Version, m.Name)
			return err
		})
		if err != nil {
			return ran, fmt.Errorf("migration %s_%s: %w", m.Version, m.Name, err)
		}
		utils.Logger.Infof("Applied migration %s_%s", m.Version, m.Name)
		ran = append(ran, m.Version)
	}
	return ran, nil
}

// StatusAll reports every embedded migration and whether it has been applied.
func StatusAll(ctx context.Context, pool *pgxpool.Pool) ([]Status, error) {
	if err := ensureTable(ctx, pool); err != nil {
		return nil, err
	}
	list, err := Load()
	if err != nil {
		return nil, err
	}
	done, err := applied(ctx, pool)
	if err != nil {
		return nil, err
	}
	out := make([]Status, len(list))
	for i, m := range list {
		out[i] = Status{Migration: m, Applied: done[m.Version]}
	}
	return out, nil
}

package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var (
	loadEnvFunc = godotenv.Load
	openPool    = pgxpool.New
)

var migrationFile = regexp.MustCompile(`^migrations/([0-9]+)_([a-z0-9_]+)\.(up|down)\.sql$`)

// migration pairs the up and down scripts that share a version number.
type migration struct {
	Version int64
	Name    string
	UpSQL   string
	DownSQL string
}

type command struct {
	verb  string
	steps int
}

func main() {
	loadEnvFunc()
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cmd, err := parseArgs(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("bad arguments")
	}

	dsn := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dsn == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}

	ctx := context.Background()
	pool, err := openPool(ctx, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to postgres")
	}
	if pool != nil {
		defer pool.Close()
	}

	if err := run(ctx, pool, cmd); err != nil {
		log.Fatal().Err(err).Str("command", cmd.verb).Msg("migration failed")
	}
}

func parseArgs(args []string) (command, error) {
	if len(args) == 0 {
		return command{}, errors.New("usage: migrate up|down [steps]|status|version")
	}
	cmd := command{verb: args[0], steps: 1}
	switch cmd.verb {
	case "up", "status", "version":
	case "down":
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n <= 0 {
				return command{}, fmt.Errorf("invalid down steps %q", args[1])
			}
			cmd.steps = n
		}
	default:
		return command{}, fmt.Errorf("unknown command %q, want up, down, status or version", cmd.verb)
	}
	return cmd, nil
}

func run(ctx context.Context, pool *pgxpool.Pool, cmd command) error {
	if err := ensureMigrationTable(ctx, pool); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}
	migrations, err := loadMigrations(migrationsFS)
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	switch cmd.verb {
	case "up":
		return runUp(ctx, pool, migrations)
	case "down":
		return runDown(ctx, pool, migrations, cmd.steps)
	case "status":
		return runStatus(ctx, pool, migrations)
	default:
		return runVersion(ctx, pool)
	}
}

func ensureMigrationTable(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version     BIGINT PRIMARY KEY,
    name        TEXT NOT NULL,
    applied_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`)
	return err
}

// loadMigrations reads every embedded script and pairs them by version.
// A version with only one direction is rejected so a rollback can never
// strand the schema.
func loadMigrations(fsys fs.FS) ([]migration, error) {
	paths, err := fs.Glob(fsys, "migrations/*.sql")
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, errors.New("no migration files embedded")
	}

	byVersion := make(map[int64]*migration)
	for _, path := range paths {
		groups := migrationFile.FindStringSubmatch(path)
		if groups == nil {
			return nil, fmt.Errorf("migration filename %s does not match NNN_name.up|down.sql", path)
		}
		version, err := strconv.ParseInt(groups[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("migration version in %s: %w", path, err)
		}
		name, dir := groups[2], groups[3]

		raw, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, err
		}
		sqlText := strings.TrimSpace(string(raw))
		if sqlText == "" {
			return nil, fmt.Errorf("migration %s is empty", path)
		}

		m := byVersion[version]
		if m == nil {
			m = &migration{Version: version, Name: name}
			byVersion[version] = m
		}
		if m.Name != name {
			return nil, fmt.Errorf("version %d named both %s and %s", version, m.Name, name)
		}
		switch dir {
		case "up":
			if m.UpSQL != "" {
				return nil, fmt.Errorf("version %d has two up files", version)
			}
			m.UpSQL = sqlText
		case "down":
			if m.DownSQL != "" {
				return nil, fmt.Errorf("version %d has two down files", version)
			}
			m.DownSQL = sqlText
		}
	}

	out := make([]migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.UpSQL == "" || m.DownSQL == "" {
			return nil, fmt.Errorf("version %d needs both an up and a down file", m.Version)
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

func withTx(ctx context.Context, pool *pgxpool.Pool, fn func(pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func appliedVersions(ctx context.Context, pool *pgxpool.Pool) (map[int64]struct{}, error) {
	rows, err := pool.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int64]struct{})
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = struct{}{}
	}
	return applied, rows.Err()
}

func runUp(ctx context.Context, pool *pgxpool.Pool, migrations []migration) error {
	applied, err := appliedVersions(ctx, pool)
	if err != nil {
		return err
	}

	ran := 0
	for _, m := range migrations {
		if _, ok := applied[m.Version]; ok {
			continue
		}
		err := withTx(ctx, pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, m.UpSQL); err != nil {
				return fmt.Errorf("version %d up: %w", m.Version, err)
			}
			_, err := tx.Exec(ctx,
				`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, m.Version, m.Name)
			return err
		})
		if err != nil {
			return err
		}
		log.Info().Int64("version", m.Version).Str("name", m.Name).Msg("applied")
		ran++
	}
	log.Info().Int("applied", ran).Msg("schema up to date")
	return nil
}

func runDown(ctx context.Context, pool *pgxpool.Pool, migrations []migration, steps int) error {
	byVersion := make(map[int64]migration, len(migrations))
	for _, m := range migrations {
		byVersion[m.Version] = m
	}

	rows, err := pool.Query(ctx,
		`SELECT version FROM schema_migrations ORDER BY version DESC LIMIT $1`, steps)
	if err != nil {
		return err
	}
	defer rows.Close()

	versions := make([]int64, 0, steps)
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return err
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, v := range versions {
		m, ok := byVersion[v]
		if !ok {
			return fmt.Errorf("no migration source for applied version %d", v)
		}
		err := withTx(ctx, pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, m.DownSQL); err != nil {
				return fmt.Errorf("version %d down: %w", m.Version, err)
			}
			_, err := tx.Exec(ctx, `DELETE FROM schema_migrations WHERE version = $1`, m.Version)
			return err
		})
		if err != nil {
			return err
		}
		log.Info().Int64("version", m.Version).Str("name", m.Name).Msg("rolled back")
	}
	log.Info().Int("rolled_back", len(versions)).Msg("down complete")
	return nil
}

func runStatus(ctx context.Context, pool *pgxpool.Pool, migrations []migration) error {
	rows, err := pool.Query(ctx, `SELECT version, applied_at FROM schema_migrations`)
	if err != nil {
		return err
	}
	defer rows.Close()

	appliedAt := make(map[int64]time.Time)
	for rows.Next() {
		var v int64
		var at time.Time
		if err := rows.Scan(&v, &at); err != nil {
			return err
		}
		appliedAt[v] = at
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, m := range migrations {
		if at, ok := appliedAt[m.Version]; ok {
			fmt.Printf("%03d  %-28s applied %s\n", m.Version, m.Name, at.Format(time.RFC3339))
		} else {
			fmt.Printf("%03d  %-28s pending\n", m.Version, m.Name)
		}
	}
	return nil
}

func runVersion(ctx context.Context, pool *pgxpool.Pool) error {
	var version int64
	var name string
	err := pool.QueryRow(ctx,
		`SELECT version, name FROM schema_migrations ORDER BY version DESC LIMIT 1`).Scan(&version, &name)
	if errors.Is(err, pgx.ErrNoRows) {
		log.Info().Msg("no migrations applied")
		return nil
	}
	if err != nil {
		return err
	}
	log.Info().Int64("version", version).Str("name", name).Msg("current version")
	return nil
}

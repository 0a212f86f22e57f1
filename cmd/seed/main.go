package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/lib/pq"
)

// CLI flags
var (
	filePath    = flag.String("file", "", "Path to the fixture YAML (required)")
	dsn         = flag.String("dsn", os.Getenv("DATABASE_URL"), "Postgres DSN (default: env DATABASE_URL)")
	dryRun      = flag.Bool("dry-run", false, "Parse + validate only; no DB writes")
	confirm     = flag.Bool("confirm", false, "Required to perform destructive replace")
	advisoryKey = flag.Int64("advisory-lock", 0, "Optional Postgres advisory lock key (e.g., 424242). 0 = disabled")
)

// Fixture contract: a list of datasets, each with its column inventory,
// optional per-column inference hints, and an optional annotation
// document in the backend's category-grouped shape.

type DatasetYAML struct {
	Name        string                       `yaml:"name"`
	Description string                       `yaml:"description"`
	Maintainer  string                       `yaml:"maintainer"`
	Columns     []string                     `yaml:"columns"`
	Hints       map[string]map[string]string `yaml:"hints"`
	Document    map[string]interface{}       `yaml:"document"`
}

type Fixture struct {
	Datasets []DatasetYAML `yaml:"datasets"`
}

type Counts struct {
	Datasets int64
	Docs     int64
}

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()
	if *filePath == "" {
		fatalf("--file is required")
	}
	if *dsn == "" {
		fatalf("--dsn not provided and DATABASE_URL not set")
	}

	fixture, err := loadFixture(*filePath)
	if err != nil {
		fatalf("fixture error: %v", err)
	}

	if err := validateFixture(fixture); err != nil {
		fatalf("fixture validation failed: %v", err)
	}

	fmt.Printf("Loaded %d datasets from %s\n", len(fixture.Datasets), *filePath)

	if *dryRun {
		printPlan(fixture)
		fmt.Println("Dry run complete. No changes made.")
		return
	}

	if !*confirm {
		fatalf("Refusing to run without --confirm. Add --dry-run to preview.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		fatalf("connect: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		fatalf("ping: %v", err)
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		fatalf("begin tx: %v", err)
	}
	defer func() {
		_ = tx.Rollback() // no-op if already committed
	}()

	// Optional advisory lock to avoid concurrent runs
	if *advisoryKey != 0 {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, *advisoryKey); err != nil {
			fatalf("advisory lock: %v", err)
		}
	}

	before, err := countAll(ctx, tx)
	if err != nil {
		fatalf("pre-count: %v", err)
	}
	fmt.Printf("Before: datasets=%d annotation_docs=%d\n", before.Datasets, before.Docs)

	// Destructive replace (explicit order; no ON DELETE CASCADE assumed)
	if err := wipeDatasets(ctx, tx); err != nil {
		fatalf("wipe data: %v", err)
	}

	if err := insertAll(ctx, tx, fixture); err != nil {
		fatalf("insert data: %v", err)
	}

	after, err := countAll(ctx, tx)
	if err != nil {
		fatalf("post-count: %v", err)
	}
	fmt.Printf("After:  datasets=%d annotation_docs=%d\n", after.Datasets, after.Docs)

	if after.Datasets != int64(len(fixture.Datasets)) {
		fatalf("sanity check failed: datasets=%d fixture=%d", after.Datasets, len(fixture.Datasets))
	}

	if err := tx.Commit(); err != nil {
		fatalf("commit: %v", err)
	}
	fmt.Println("Seed complete ✅")
}

func loadFixture(path string) (Fixture, error) {
	var fixture Fixture

	raw, err := os.ReadFile(path)
	if err != nil {
		return fixture, err
	}
	if err := yaml.Unmarshal(raw, &fixture); err != nil {
		return fixture, fmt.Errorf("parse yaml: %w", err)
	}
	return fixture, nil
}

func validateFixture(fixture Fixture) error {
	if len(fixture.Datasets) == 0 {
		return fmt.Errorf("fixture has no datasets")
	}
	seen := make(map[string]struct{}, len(fixture.Datasets))
	for i, d := range fixture.Datasets {
		if d.Name == "" {
			return fmt.Errorf("dataset %d: name is empty", i+1)
		}
		if _, dup := seen[d.Name]; dup {
			return fmt.Errorf("dataset %d: duplicate name %q", i+1, d.Name)
		}
		seen[d.Name] = struct{}{}
		if len(d.Columns) == 0 {
			return fmt.Errorf("dataset %q: no columns", d.Name)
		}
		columns := make(map[string]struct{}, len(d.Columns))
		for _, c := range d.Columns {
			if c == "" {
				return fmt.Errorf("dataset %q: empty column name", d.Name)
			}
			columns[c] = struct{}{}
		}
		for column := range d.Hints {
			if _, ok := columns[column]; !ok {
				return fmt.Errorf("dataset %q: hint for unknown column %q", d.Name, column)
			}
		}
	}
	return nil
}

func printPlan(fixture Fixture) {
	for _, d := range fixture.Datasets {
		fmt.Printf("  %-30s columns=%d hints=%d document=%v\n",
			d.Name, len(d.Columns), len(d.Hints), d.Document != nil)
	}
}

func countAll(ctx context.Context, tx *sql.Tx) (Counts, error) {
	var c Counts
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM datasets.datasets`).Scan(&c.Datasets); err != nil {
		return c, err
	}
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM datasets.annotation_docs`).Scan(&c.Docs); err != nil {
		return c, err
	}
	return c, nil
}

func wipeDatasets(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		`DELETE FROM datasets.annotation_docs`,
		`DELETE FROM datasets.datasets`,
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", stmt, err)
		}
	}
	return nil
}

func insertAll(ctx context.Context, tx *sql.Tx, fixture Fixture) error {
	now := time.Now()

	for _, d := range fixture.Datasets {
		id := uuid.NewString()

		_, err := tx.ExecContext(ctx, `
			INSERT INTO datasets.datasets (id, name, description, maintainer, columns, published, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, false, $6, $6)`,
			id, d.Name, d.Description, d.Maintainer, pq.Array(d.Columns), now)
		if err != nil {
			return fmt.Errorf("insert dataset %q: %w", d.Name, err)
		}

		if d.Hints == nil && d.Document == nil {
			continue
		}

		document, err := json.Marshal(d.Document)
		if err != nil {
			return fmt.Errorf("dataset %q: encode document: %w", d.Name, err)
		}
		hints, err := json.Marshal(d.Hints)
		if err != nil {
			return fmt.Errorf("dataset %q: encode hints: %w", d.Name, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO datasets.annotation_docs (dataset_id, document, hints, updated_at)
			VALUES ($1, $2, $3, $4)`,
			id, document, hints, now)
		if err != nil {
			return fmt.Errorf("insert annotation doc for %q: %w", d.Name, err)
		}
	}
	return nil
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}

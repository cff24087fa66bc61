package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"socialfeed/internal/config"
	"socialfeed/migrations"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	dbPath := flag.String("db", cfg.DatabasePath, "path to sqlite database")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage(os.Stderr)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *dbPath, args[0], os.Stdout); err != nil {
		log.Error("migrate", "command", args[0], "path", *dbPath, "error", err)
		cancel()
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: migrate [-db path] <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  up          Migrate to the latest version")
	fmt.Fprintln(w, "  up-one      Migrate one version up")
	fmt.Fprintln(w, "  down        Roll back one version")
	fmt.Fprintln(w, "  status      Show migration status")
	fmt.Fprintln(w, "  version     Show current version")
	fmt.Fprintln(w, "  reset       Roll back all migrations")
}

func run(ctx context.Context, dbPath, command string, out io.Writer) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	p, err := migrations.NewProvider(db)
	if err != nil {
		return err
	}

	switch command {
	case "up":
		results, err := p.Up(ctx)
		printResults(out, results)
		return err
	case "up-one":
		res, err := p.UpByOne(ctx)
		if errors.Is(err, goose.ErrNoNextVersion) {
			fmt.Fprintln(out, "no migrations to apply")
			return nil
		}
		printResults(out, []*goose.MigrationResult{res})
		return err
	case "down":
		res, err := p.Down(ctx)
		if errors.Is(err, goose.ErrNoNextVersion) {
			fmt.Fprintln(out, "no migrations to roll back")
			return nil
		}
		printResults(out, []*goose.MigrationResult{res})
		return err
	case "reset":
		results, err := p.DownTo(ctx, 0)
		printResults(out, results)
		return err
	case "status":
		statuses, err := p.Status(ctx)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			fmt.Fprintf(out, "%-10s %s\n", s.State, s.Source.Path)
		}
		return nil
	case "version":
		v, err := p.GetDBVersion(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, v)
		return nil
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func printResults(w io.Writer, results []*goose.MigrationResult) {
	for _, r := range results {
		if r == nil {
			continue
		}
		fmt.Fprintln(w, r)
	}
}

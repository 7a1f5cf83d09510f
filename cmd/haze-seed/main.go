package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/rmax-ai/haze/pkg/content"
	"github.com/rmax-ai/haze/pkg/datasource"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	opts := datasource.Options{Kind: datasource.SQLite}
	var timeout time.Duration

	flagSet := pflag.NewFlagSet("haze-seed", pflag.ContinueOnError)
	flagSet.StringVar(&opts.Kind, "target", opts.Kind, "backend to seed: sqlite|redis")
	flagSet.StringVar(&opts.ContentPath, "content", "", "content YAML file whose datasets are written (default: built-in)")
	flagSet.StringVar(&opts.DBPath, "db", "haze.db", "SQLite database")
	flagSet.StringVar(&opts.RedisAddr, "redis-addr", "127.0.0.1:6379", "Redis address")
	flagSet.DurationVar(&timeout, "timeout", 10*time.Second, "give up after this long")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	page, err := content.Default()
	if opts.ContentPath != "" {
		page, err = content.LoadFile(opts.ContentPath)
	}
	if err != nil {
		return fmt.Errorf("cannot load content: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	seeder, err := datasource.OpenSeeder(ctx, opts)
	if err != nil {
		return err
	}
	defer seeder.Close()

	if err := seeder.Seed(ctx, &page.Datasets); err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}
	logger.Info("datasets seeded",
		"target", datasource.Normalize(opts.Kind),
		"skills", len(page.Datasets.Skills.Nodes),
		"achievements", len(page.Datasets.Achievements.Values),
	)
	return nil
}

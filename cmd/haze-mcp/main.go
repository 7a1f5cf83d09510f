package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/rmax-ai/haze/pkg/content"
	"github.com/rmax-ai/haze/pkg/datasource"
	"github.com/rmax-ai/haze/pkg/mcp"
)

var Version = "v1.0.0"

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
	opts := datasource.Options{
		Kind:        envOr("HAZE_SOURCE", datasource.Embedded),
		ContentPath: os.Getenv("HAZE_CONTENT"),
		DBPath:      envOr("HAZE_DB_PATH", "haze.db"),
		RedisAddr:   envOr("HAZE_REDIS_ADDR", "127.0.0.1:6379"),
	}

	flagSet := pflag.NewFlagSet("haze-mcp", pflag.ContinueOnError)
	flagSet.StringVar(&opts.Kind, "source", opts.Kind, "dataset source: "+strings.Join(datasource.Kinds, "|"))
	flagSet.StringVar(&opts.ContentPath, "content", opts.ContentPath, "content YAML file")
	flagSet.StringVar(&opts.DBPath, "db", opts.DBPath, "SQLite database when --source=sqlite")
	flagSet.StringVar(&opts.RedisAddr, "redis-addr", opts.RedisAddr, "Redis address when --source=redis")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	// stdout carries the protocol.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	page, err := content.Default()
	if opts.ContentPath != "" {
		page, err = content.LoadFile(opts.ContentPath)
	}
	if err != nil {
		return fmt.Errorf("cannot load content: %w", err)
	}

	src, closer, err := datasource.Open(opts)
	if err != nil {
		return err
	}
	defer closer.Close()

	return mcp.NewServer(page, src, Version).Serve()
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/rmax-ai/haze/pkg/audio"
	"github.com/rmax-ai/haze/pkg/clock"
	"github.com/rmax-ai/haze/pkg/content"
	"github.com/rmax-ai/haze/pkg/datasource"
	"github.com/rmax-ai/haze/pkg/metrics"
	"github.com/rmax-ai/haze/pkg/playback"
	"github.com/rmax-ai/haze/pkg/rain"
	"github.com/rmax-ai/haze/pkg/ui"
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
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	page, err := loadContent(cfg.ContentPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		srv := metrics.NewServer(cfg.MetricsAddr)
		go func() {
			if err := srv.Start(); err != nil {
				slog.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := srv.Stop(shutdownCtx); err != nil {
				slog.Error("metrics server shutdown failed", "error", err)
			}
		}()
	}

	src, closer, err := datasource.Open(cfg.SourceOptions())
	if err != nil {
		return fmt.Errorf("failed to open %s source: %w", cfg.Source, err)
	}
	defer closer.Close()

	loader := content.NewLoader(src, content.WithAttemptTimeout(cfg.FetchTimeout))

	var player audio.Player = audio.Silent{}
	if cfg.Sound {
		player = audio.NewSpeaker()
	}

	rainCfg := rain.DefaultConfig()
	rainCfg.FrameInterval = cfg.FrameInterval
	rainCfg.MinWidth = cfg.MinWidth

	var poster ui.Poster
	model := ui.New(ui.Options{
		Content:   page,
		Datasets:  loader.Load(ctx),
		Scheduler: playback.NewScheduler(clock.Real(), poster.Post),
		Rain:      rainCfg,
		NoRain:    cfg.NoRain,
		NoDemo:    cfg.NoDemo,
		Sound:     player,
	})
	defer model.Close()

	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	poster.SetProgram(program)

	slog.Info("page starting", "source", src.Name(), "rain", !cfg.NoRain, "demo", !cfg.NoDemo)
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		err = nil
	}
	slog.Info("page stopped", "error", err)
	return err
}

func loadContent(path string) (*content.Content, error) {
	if path == "" {
		return content.Default()
	}
	c, err := content.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot load content from %s: %w", path, err)
	}
	return c, nil
}

// newLogger writes JSON records to the configured file. The terminal
// belongs to the page, so without a file the records are discarded.
func newLogger(cfg Config) (*slog.Logger, func(), error) {
	var w io.Writer = io.Discard
	closeFn := func() {}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: cfg.Level()})
	return slog.New(handler).With("component", "haze", "session", uuid.NewString()), closeFn, nil
}

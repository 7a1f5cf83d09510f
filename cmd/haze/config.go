package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"

	"github.com/rmax-ai/haze/pkg/datasource"
)

type Config struct {
	Source        string        `env:"HAZE_SOURCE" envDefault:"embedded"`
	ContentPath   string        `env:"HAZE_CONTENT"`
	DBPath        string        `env:"HAZE_DB_PATH" envDefault:"haze.db"`
	RedisAddr     string        `env:"HAZE_REDIS_ADDR" envDefault:"127.0.0.1:6379"`
	FetchTimeout  time.Duration `env:"HAZE_FETCH_TIMEOUT" envDefault:"3s"`
	FrameInterval time.Duration `env:"HAZE_FRAME_INTERVAL" envDefault:"50ms"`
	MinWidth      int           `env:"HAZE_MIN_WIDTH" envDefault:"80"`
	MetricsAddr   string        `env:"HAZE_METRICS_ADDR"`
	LogFile       string        `env:"HAZE_LOG_FILE"`
	LogLevel      string        `env:"HAZE_LOG_LEVEL" envDefault:"info"`
	Sound         bool          `env:"HAZE_SOUND"`
	NoRain        bool          `env:"HAZE_NO_RAIN"`
	NoDemo        bool          `env:"HAZE_NO_DEMO"`
}

// LoadConfig applies defaults, then HAZE_* environment variables, then
// flags.
func LoadConfig(args []string) (Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, fmt.Errorf("failed to get cwd: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	flagSet := pflag.NewFlagSet("haze", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&cfg.Source, "source", cfg.Source, "dataset source: "+strings.Join(datasource.Kinds, "|"))
	flagSet.StringVar(&cfg.ContentPath, "content", cfg.ContentPath, "content YAML file (page text and, with --source=file, datasets)")
	flagSet.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database when --source=sqlite")
	flagSet.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "Redis address when --source=redis")
	flagSet.DurationVar(&cfg.FetchTimeout, "fetch-timeout", cfg.FetchTimeout, "bound on each dataset fetch attempt (0 disables)")
	flagSet.DurationVar(&cfg.FrameInterval, "frame-interval", cfg.FrameInterval, "delay between rain frames")
	flagSet.IntVar(&cfg.MinWidth, "min-width", cfg.MinWidth, "narrowest terminal that still gets rain")
	flagSet.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "serve /metrics and /healthz on this address")
	flagSet.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "write JSON log records to this file")
	flagSet.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug|info|warn|error")
	flagSet.BoolVar(&cfg.Sound, "sound", cfg.Sound, "play a tone when hacker mode activates")
	flagSet.BoolVar(&cfg.NoRain, "no-rain", cfg.NoRain, "draw a static banner instead of the rain")
	flagSet.BoolVar(&cfg.NoDemo, "no-demo", cfg.NoDemo, "do not auto-type the terminal demo")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			flagSet.SetOutput(os.Stdout)
			flagSet.PrintDefaults()
		}
		return Config{}, err
	}
	if extra := flagSet.Args(); len(extra) > 0 {
		return Config{}, fmt.Errorf("unexpected argument: %s", extra[0])
	}

	cfg.Source = datasource.Normalize(cfg.Source)
	cfg.ContentPath = resolvePath(cfg.ContentPath, cwd)
	cfg.DBPath = resolvePath(cfg.DBPath, cwd)
	cfg.LogFile = resolvePath(cfg.LogFile, cwd)
	cfg.MetricsAddr = strings.TrimSpace(cfg.MetricsAddr)

	if cfg.FrameInterval <= 0 {
		return Config{}, errors.New("frame interval must be positive")
	}
	if cfg.FetchTimeout < 0 {
		return Config{}, errors.New("fetch timeout cannot be negative")
	}
	if cfg.MinWidth < 0 {
		return Config{}, errors.New("min width cannot be negative")
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return Config{}, fmt.Errorf("invalid log level: %w", err)
	}
	if err := cfg.SourceOptions().Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// SourceOptions locates the dataset backend.
func (c Config) SourceOptions() datasource.Options {
	return datasource.Options{
		Kind:        c.Source,
		ContentPath: c.ContentPath,
		DBPath:      c.DBPath,
		RedisAddr:   c.RedisAddr,
	}
}

// Level is the parsed log level. LoadConfig has already rejected
// unparsable values.
func (c Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func resolvePath(path string, cwd string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return trimmed
	}
	if filepath.IsAbs(trimmed) {
		return trimmed
	}
	return filepath.Join(cwd, trimmed)
}

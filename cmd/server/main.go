package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/hazyhaar/lexnorm/pkg/api"
	"github.com/hazyhaar/lexnorm/pkg/chassis"
	"github.com/hazyhaar/lexnorm/pkg/importer"
	"github.com/hazyhaar/lexnorm/pkg/lexicon"
	"github.com/hazyhaar/lexnorm/pkg/locale"
	"github.com/jrick/logrotate/rotator"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

type config struct {
	Addr          string        `yaml:"addr"`
	DictsDir      string        `yaml:"dicts_dir"`
	DefaultLocale locale.Locale `yaml:"default_locale"`
	// SourcesDB enables the periodic source URL check when set.
	SourcesDB     string        `yaml:"sources_db"`
	CheckInterval time.Duration `yaml:"check_interval"`
	TLS           tlsConfig     `yaml:"tls"`
	// LogFile, when set, receives a copy of the serve logs, rotated at 10 MiB.
	LogFile string `yaml:"log_file"`
}

// tlsConfig enables the TLS chassis: HTTPS, HTTP/3 and MCP-over-QUIC on Addr.
type tlsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "lexnorm",
		Usage:   "Locale-aware word normalization and dictionary service",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: "config.yaml", EnvVars: []string{"LEXNORM_CONFIG"}, Usage: "path to config file"},
		},
		Commands: []*cli.Command{
			serveCmd(),
			mcpCmd(),
			checkCmd(),
			compileCmd(),
			importCmd(),
			callCmd(),
		},
	}
}

func newLogger() *slog.Logger {
	return newLoggerTo(os.Stderr)
}

func newLoggerTo(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// newFileLogger logs to stderr and to path, keeping three rolled files next
// to it. The returned rotator must be closed on shutdown.
func newFileLogger(path string) (*slog.Logger, *rotator.Rotator, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	r, err := rotator.New(path, 10*1024, false, 3)
	if err != nil {
		return nil, nil, fmt.Errorf("create log rotator: %w", err)
	}
	return newLoggerTo(io.MultiWriter(os.Stderr, r)), r, nil
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP server",
		Action: func(c *cli.Context) error {
			logger := newLogger()
			slog.SetDefault(logger)
			cfg, err := loadConfig(c.String("config"), logger)
			if err != nil {
				return cli.Exit(err, 1)
			}
			if cfg.LogFile != "" {
				var rot *rotator.Rotator
				logger, rot, err = newFileLogger(cfg.LogFile)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer rot.Close()
				slog.SetDefault(logger)
			}
			reg, err := loadRegistry(cfg, logger)
			if err != nil {
				return cli.Exit(err, 1)
			}
			return serve(c.Context, cfg, reg, logger)
		},
	}
}

func serve(parent context.Context, cfg config, reg *lexicon.Registry, logger *slog.Logger) error {
	apiCfg := api.Config{DefaultLocale: cfg.DefaultLocale, Logger: logger}
	router := api.NewRouter(reg, apiCfg)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// SIGHUP: hot reload dictionaries.
	// SIGINT/SIGTERM: graceful shutdown.
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	defer signal.Stop(sighup)
	go reloadOnSignal(ctx, sighup, reg, logger)

	if cfg.SourcesDB != "" && cfg.CheckInterval > 0 {
		sdb, err := importer.OpenSourceDB(cfg.SourcesDB)
		if err != nil {
			return cli.Exit(err, 1)
		}
		defer sdb.Close()
		if err := sdb.Seed(importer.All()); err != nil {
			return cli.Exit(err, 1)
		}
		go importer.NewChecker(sdb, logger, cfg.CheckInterval).Start(ctx)
	}

	errCh := make(chan error, 2)
	var secure *chassis.Server
	if cfg.TLS.Enabled {
		var err error
		secure, err = chassis.New(chassis.Config{
			Addr:      cfg.TLS.Addr,
			CertFile:  cfg.TLS.CertFile,
			KeyFile:   cfg.TLS.KeyFile,
			Handler:   router,
			MCPServer: api.NewMCPServer(reg, apiCfg, version),
			Logger:    logger,
		})
		if err != nil {
			return cli.Exit(err, 1)
		}
		go func() {
			if err := secure.Start(ctx); err != nil {
				errCh <- fmt.Errorf("tls chassis: %w", err)
			}
		}()
	}

	go func() {
		logger.Info("lexnorm listening", "addr", cfg.Addr, "default_locale", cfg.DefaultLocale.String())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
	if secure != nil {
		secure.Stop(shutdownCtx)
	}
	if runErr != nil {
		return cli.Exit(runErr, 1)
	}
	return nil
}

// reloadOnSignal reloads reg on every signal received until ctx is done.
func reloadOnSignal(ctx context.Context, sig <-chan os.Signal, reg *lexicon.Registry, logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sig:
			logger.Info("SIGHUP received, reloading dictionaries")
			if err := reg.Reload(); err != nil {
				logger.Error("reload failed", "error", err)
				continue
			}
			logger.Info("dictionaries reloaded", "count", reg.DictCount(), "entries", reg.TotalEntries())
		}
	}
}

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve the MCP tools over stdio",
		Action: func(c *cli.Context) error {
			// stdout carries JSON-RPC only.
			logger := newLogger()
			slog.SetDefault(logger)
			cfg, err := loadConfig(c.String("config"), logger)
			if err != nil {
				return cli.Exit(err, 1)
			}
			reg, err := loadRegistry(cfg, logger)
			if err != nil {
				return cli.Exit(err, 1)
			}

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			apiCfg := api.Config{DefaultLocale: cfg.DefaultLocale, Logger: logger}
			if err := api.ServeStdio(ctx, reg, apiCfg, version, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
				return cli.Exit(fmt.Errorf("mcp server: %w", err), 1)
			}
			return nil
		},
	}
}

func compileCmd() *cli.Command {
	return &cli.Command{
		Name:      "compile",
		Usage:     "Compile dictionary directories to data.gob",
		ArgsUsage: "<dict-dir>...",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("compile: at least one dictionary directory is required", 1)
			}
			logger := newLogger()
			failed := 0
			for _, dir := range c.Args().Slice() {
				d, err := lexicon.LoadSource(dir)
				if err == nil {
					err = lexicon.SaveGob(d.Entries, filepath.Join(dir, lexicon.GobFile))
				}
				if err != nil {
					logger.Error("compile failed", "dir", dir, "error", err)
					failed++
					continue
				}
				logger.Info("compiled", "dict", d.Manifest.ID, "entries", len(d.Entries), "encoding", d.Locale.Encoding.String())
			}
			if failed > 0 {
				return cli.Exit(fmt.Sprintf("compile: %d of %d failed", failed, c.NArg()), 1)
			}
			return nil
		},
	}
}

func loadRegistry(cfg config, logger *slog.Logger) (*lexicon.Registry, error) {
	reg := lexicon.NewRegistry(cfg.DictsDir)
	if err := reg.Load(); err != nil {
		return nil, fmt.Errorf("load dictionaries: %w", err)
	}
	logger.Info("dictionaries loaded", "count", reg.DictCount(), "entries", reg.TotalEntries())
	return reg, nil
}

// loadConfig reads the config file, falling back to the defaults when it
// does not exist.
func loadConfig(path string, logger *slog.Logger) (config, error) {
	cfg, err := readConfig(path)
	if os.IsNotExist(err) {
		logger.Info("no config file, using defaults", "path", path)
		return cfg, nil
	}
	return cfg, err
}

// readConfig returns the defaults merged with the file at path. On a
// missing file the defaults come back with an error satisfying os.IsNotExist.
func readConfig(path string) (config, error) {
	cfg := config{
		Addr:          ":8420",
		DictsDir:      "dicts",
		DefaultLocale: locale.Root,
		CheckInterval: 24 * time.Hour,
		TLS:           tlsConfig{Addr: ":8443"},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

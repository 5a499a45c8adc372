package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/lqsky7/leetfeedback/internal/catalog"
	"github.com/lqsky7/leetfeedback/internal/config"
	"github.com/lqsky7/leetfeedback/internal/logging"
	"github.com/lqsky7/leetfeedback/internal/server"
	"github.com/lqsky7/leetfeedback/internal/store"
)

func main() {
	cfg := config.DefaultServerConfig()

	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flag.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json)")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Database path (default ~/.leetfeedback/leetfeedback.db)")
	flag.StringVar(&cfg.CatalogPath, "catalog", cfg.CatalogPath, "JSON or YAML problem catalog used to seed an empty database")
	flag.BoolVar(&cfg.Schedule.Jitter, "jitter", cfg.Schedule.Jitter, "Perturb scores so tied problems rotate between requests")
	debug := flag.Bool("debug", false, "Shorthand for --log-level=debug")
	configFile := flag.String("config", "", "Path to YAML server config file")

	flag.Parse()

	// Flags given on the command line win over the config file.
	if *configFile != "" {
		fileCfg, err := config.LoadFile(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		flagCfg := cfg
		cfg = fileCfg
		flag.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "addr":
				cfg.Addr = flagCfg.Addr
			case "log-level":
				cfg.LogLevel = flagCfg.LogLevel
			case "log-format":
				cfg.LogFormat = flagCfg.LogFormat
			case "db":
				cfg.DBPath = flagCfg.DBPath
			case "catalog":
				cfg.CatalogPath = flagCfg.CatalogPath
			case "jitter":
				cfg.Schedule.Jitter = flagCfg.Schedule.Jitter
			}
		})
	}

	if *debug {
		cfg.LogLevel = "debug"
	}

	logger := logging.NewLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	// Resolve database path.
	dbPath := cfg.DBPath
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot determine home directory: %v\n", err)
			os.Exit(1)
		}
		dir := filepath.Join(home, ".leetfeedback")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "cannot create %s: %v\n", dir, err)
			os.Exit(1)
		}
		dbPath = filepath.Join(dir, "leetfeedback.db")
	}

	// Open store and run migrations.
	st, err := store.NewSQLiteStore(dbPath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := st.Migrate(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "migrate database: %v\n", err)
		os.Exit(1)
	}
	logger.Info("database ready", "path", dbPath)

	if err := seedFromCatalog(context.Background(), st, cfg.CatalogPath, logger); err != nil {
		fmt.Fprintf(os.Stderr, "seed database: %v\n", err)
		os.Exit(1)
	}

	srv := server.New(cfg, st, logger)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", "addr", cfg.Addr,
			"target_count", cfg.Schedule.TargetCount, "focus_mode", cfg.Schedule.FocusMode.String())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// seedFromCatalog loads path into st when st holds no problems yet.
func seedFromCatalog(ctx context.Context, st store.Store, path string, logger *slog.Logger) error {
	if path == "" {
		return nil
	}
	n, err := st.CountProblems(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.Info("catalog skipped, database not empty", "catalog", path, "problems", n)
		return nil
	}

	problems, err := catalog.Load(path)
	if err != nil {
		return err
	}
	if err := st.ReplaceProblems(ctx, problems); err != nil {
		return err
	}
	logger.Info("database seeded from catalog", "catalog", path, "problems", len(problems))
	return nil
}

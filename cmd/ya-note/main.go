package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arina0022/ya-note/internal/config"
	"github.com/arina0022/ya-note/internal/router"
	"github.com/arina0022/ya-note/internal/service/notes"
	"github.com/arina0022/ya-note/internal/storage/postgres"
	"github.com/arina0022/ya-note/internal/storage/sqlite"
	"github.com/arina0022/ya-note/pkg/auth"
	"github.com/arina0022/ya-note/pkg/logger/handlers/slogpretty"
	"github.com/arina0022/ya-note/pkg/logger/sl"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

type store interface {
	notes.Store
	router.UserStore
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:          "ya-note",
		Short:        "multi-user note service",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file")
	root.AddCommand(serveCmd(&cfgPath))
	root.AddCommand(migrateCmd(&cfgPath))
	return root
}

func serveCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			log := setupLogger(cfg.Env)
			log.Info("starting note service", slog.String("env", cfg.Env))
			log.Debug("debug log enabled")

			secret := cfg.Auth.Secret
			if secret == "" {
				// only reachable in local env, config validation rejects
				// an empty secret elsewhere
				secret = "local-dev-secret"
			}
			auth.Init(secret, cfg.Auth.TokenTTL)

			st, err := openStorage(cfg.Storage)
			if err != nil {
				log.Error("failed to init storage", sl.Err(err))
				return err
			}
			svc := notes.New(st, notes.TranslitSlugifier{})

			log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))
			srv := &http.Server{
				Addr:         cfg.HTTPServer.Address,
				Handler:      router.New(log, svc, st),
				ReadTimeout:  cfg.HTTPServer.Timeout,
				WriteTimeout: cfg.HTTPServer.Timeout,
				IdleTimeout:  cfg.HTTPServer.IdleTimeout,
			}
			if err := srv.ListenAndServe(); err != nil {
				log.Error("failed to start server", sl.Err(err))
				return err
			}
			return nil
		},
	}
}

func migrateCmd(cfgPath *string) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "apply SQL migrations to the postgres database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			// the sqlite backend bootstraps its own schema on open
			if cfg.Storage.Driver != "postgres" {
				return fmt.Errorf("migrate supports the postgres driver, got %q", cfg.Storage.Driver)
			}
			db, err := sql.Open("postgres", cfg.Storage.DSN)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
			if err != nil {
				return fmt.Errorf("list migrations: %w", err)
			}
			sort.Strings(files)
			for _, f := range files {
				raw, err := os.ReadFile(f)
				if err != nil {
					return fmt.Errorf("read %s: %w", f, err)
				}
				if _, err := db.Exec(string(raw)); err != nil {
					return fmt.Errorf("apply %s: %w", f, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", strings.TrimSuffix(filepath.Base(f), ".sql"))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "migrations", "directory with migration files")
	return cmd
}

func openStorage(cfg config.Storage) (store, error) {
	switch cfg.Driver {
	case "postgres":
		return postgres.New(cfg.DSN)
	case "sqlite":
		return sqlite.New(cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}
	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}
	handler := opts.NewPrettyHandler(os.Stdout)
	return slog.New(handler)
}

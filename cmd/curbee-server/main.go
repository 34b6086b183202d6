package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"github.com/DesignByOnyx/curbee-coding-exercise/internal/config"
	"github.com/DesignByOnyx/curbee-coding-exercise/internal/store/sqlstore"
)

const serviceName = "curbee-server"

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:           serviceName,
		Short:         "Appointment booking API over HTTP and gRPC",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), configFile)
		},
	}
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (yaml, json or toml); env vars still win")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP and gRPC servers",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(cmd.Context(), configFile)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema and exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrate(cmd.Context(), configFile)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", serviceName, version, buildTime)
			},
		},
	)
	return cmd
}

// loadConfig loads configuration and returns a logger at the configured
// level. Load failures are logged before returning.
func loadConfig(configFile string) (config.Config, *slog.Logger, error) {
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	cfg, err := config.Load(configFile)
	if err != nil {
		log.Error("config load failed", slog.Any("err", err))
		return config.Config{}, nil, err
	}

	log = newLogger(parseLogLevel(cfg.LogLevel))
	slog.SetDefault(log)
	return cfg, log, nil
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).With(
		slog.String("service", serviceName),
	)
}

func migrate(ctx context.Context, configFile string) error {
	cfg, log, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	db, err := openStore(log, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := sqlstore.Close(db); err != nil {
			log.Warn("database close failed", slog.Any("err", err))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	if err := sqlstore.Migrate(ctx, db); err != nil {
		log.Error("migration failed", slog.Any("err", err))
		return err
	}
	log.Info("migration complete", slog.String("store_driver", cfg.StoreDriver))
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func databaseLogArgs(cfg config.Config) []any {
	if cfg.StoreDriver != sqlstore.DriverPostgres {
		return []any{
			slog.String("store_driver", cfg.StoreDriver),
			slog.String("sqlite_path", cfg.SQLitePath),
		}
	}

	u, err := url.Parse(cfg.DatabaseURL)
	if err != nil {
		return []any{slog.String("store_driver", cfg.StoreDriver), slog.String("db_url", "invalid")}
	}
	name := strings.TrimPrefix(u.Path, "/")
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "default"
	}
	if host == "" {
		host = "unknown"
	}
	if name == "" {
		name = "unknown"
	}
	return []any{
		slog.String("store_driver", cfg.StoreDriver),
		slog.String("db_host", host),
		slog.String("db_port", port),
		slog.String("db_name", name),
	}
}

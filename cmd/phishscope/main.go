package main

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Lizz6780/phishscope-sentinel/internal/adapters/httpserver"
	"github.com/Lizz6780/phishscope-sentinel/internal/adapters/intel"
	"github.com/Lizz6780/phishscope-sentinel/internal/adapters/mailbox"
	"github.com/Lizz6780/phishscope-sentinel/internal/adapters/reports"
	"github.com/Lizz6780/phishscope-sentinel/internal/adapters/storage"
	"github.com/Lizz6780/phishscope-sentinel/internal/application"
	"github.com/Lizz6780/phishscope-sentinel/internal/config"
	"github.com/Lizz6780/phishscope-sentinel/internal/ports"
)

// version is overridden at release time via -ldflags "-X main.version=...".
var version = "dev"

var cfgFile string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "phishscope",
	Short: "Email phishing triage pipeline",
	Long: `phishscope ingests email messages, extracts detection signals,
scores and classifies each message, maps findings to MITRE ATT&CK
techniques, and persists the result as a browsable incident.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./phishscope.yaml)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// ── scan ─────────────────────────────────────────────────────────────────────

var scanCmd = &cobra.Command{
	Use:   "scan <file.eml>",
	Short: "Triage a single email message",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, cfg, store, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck
		defer store.Close()

		service := buildService(cfg, store, logger)

		incident, err := service.ProcessEmail(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("[OK] %s -> %s (verdict=%s severity=%s risk=%d)\n",
			args[0], incident.FileName, incident.Verdict, incident.Severity, incident.RiskScore)
		return nil
	},
}

// ── batch ────────────────────────────────────────────────────────────────────

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Triage every .eml file in a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, cfg, store, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck
		defer store.Close()

		service := buildService(cfg, store, logger)

		result, err := service.ProcessDirectory(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("[OK] processed %d email(s), %d failed\n", result.Processed, len(result.Failed))
		for _, failed := range result.Failed {
			fmt.Printf("[SKIPPED] %s\n", failed)
		}
		return nil
	},
}

// ── serve ────────────────────────────────────────────────────────────────────

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the operator dashboard API",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, cfg, store, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck
		defer store.Close()

		server := httpserver.NewServer(store, logger)
		return server.Run(cfg.ServerPort)
	},
}

// ── version ──────────────────────────────────────────────────────────────────

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the phishscope version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("phishscope", version)
	},
}

// ── wiring ───────────────────────────────────────────────────────────────────

// setup loads config, creates the logger, connects storage and ensures
// the schema exists.
func setup() (*zap.Logger, *config.Config, *storage.PostgresStore, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, nil, err
	}

	store, err := storage.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := store.InitSchema(); err != nil {
		store.Close()
		return nil, nil, nil, fmt.Errorf("init schema: %w", err)
	}

	return logger, cfg, store, nil
}

// buildService wires the pipeline: eml source, reputation clients (with
// an optional Redis cache in front of VirusTotal), report writer, store.
func buildService(cfg *config.Config, store *storage.PostgresStore, logger *zap.Logger) *application.TriageService {
	var urlChecker ports.URLChecker = intel.NewVirusTotalClient(cfg.VirusTotalAPIKey, cfg.IntelTimeout, logger)

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Warn("invalid redis url, reputation cache disabled", zap.Error(err))
		} else {
			rdb := redis.NewClient(opts)
			if err := rdb.Ping(context.Background()).Err(); err != nil {
				logger.Warn("redis unreachable, reputation cache disabled", zap.Error(err))
			} else {
				urlChecker = intel.NewCachedURLChecker(urlChecker, rdb, cfg.IntelCacheTTL, logger)
				logger.Info("reputation cache enabled",
					zap.Duration("ttl", cfg.IntelCacheTTL))
			}
		}
	}

	ipChecker := intel.NewAbuseIPDBClient(cfg.AbuseIPDBAPIKey, cfg.IntelTimeout, logger)

	return application.NewTriageService(
		mailbox.NewFileSource(),
		urlChecker,
		ipChecker,
		store,
		reports.NewJSONWriter(cfg.ReportsDir),
		cfg.SenderIP,
		logger,
	)
}

package main

import (
	"strings"

	_ "github.com/joho/godotenv/autoload"

	"github.com/feb027/melon-ai-sub001/internal/config"
	"github.com/feb027/melon-ai-sub001/internal/dbmigrate"
	"github.com/feb027/melon-ai-sub001/internal/httpserver"
	"github.com/feb027/melon-ai-sub001/internal/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	printStartupBanner(cfg, log)

	if cfg.RunMigrationsOnStartup {
		dbURL, source, _, err := dbmigrate.SelectDatabaseURL(cfg, true)
		if err != nil {
			log.Fatalf("startup migrations: %v", err)
		}

		log.Infof("startup migrations: command=up using=%s", source)
		if err := dbmigrate.Run("up", dbURL, dbmigrate.DefaultMigrationsDir); err != nil {
			log.Fatalf("startup migrations failed: %v", err)
		}
		log.Info("startup migrations: completed")
	}

	validateProductionConfig(cfg, log)

	server, err := httpserver.New(cfg, log)
	if err != nil {
		log.Fatalf("server init failed: %v", err)
	}
	defer server.Close()

	log.Fatal(server.Start())
}

// printStartupBanner logs a one-time summary of the resolved configuration.
// No secrets are ever printed, only masked indicators ("set" / "not set").
func printStartupBanner(cfg *config.Config, log *logger.Logger) {
	log.Info("========== Melon Analytics API ==========")
	log.Infof("  env              = %s", cfg.Env)
	log.Infof("  port             = %d", cfg.Port)
	log.Infof("  log_level        = %s", cfg.LogLevel)
	log.Infof("  log_format       = %s", cfg.LogFormat)

	// ---- Database ----
	log.Info("---- database ----")
	log.Infof("  runtime_url      = %s", describeDBURL(cfg.DatabaseURL, cfg.DatabaseURLPooled))
	log.Infof("  pooled           = %s", setOrNot(cfg.DatabaseURLPooled))
	log.Infof("  direct           = %s", setOrNot(cfg.DatabaseURLDirect))
	log.Infof("  migrations_on_startup = %t", cfg.RunMigrationsOnStartup)
	if cfg.RunMigrationsOnStartup && cfg.DatabaseURLDirect == "" {
		log.Info("  migrations_via   = (will fail, DATABASE_URL_DIRECT not set)")
	}

	// ---- Blob / S3 ----
	log.Info("---- blob ----")
	log.Infof("  blob_mode        = %s", cfg.Blob.Mode)
	log.Infof("  public_base_url  = %s", cfg.PublicBaseURL)
	if cfg.Blob.Mode != config.BlobModeLocal {
		log.Infof("  s3: %s", cfg.Blob.S3.DiagnosticsSummary())
	}

	// ---- Rate limiting ----
	log.Info("---- rate limit ----")
	if cfg.RateLimitRPS > 0 {
		log.Infof("  rps=%d burst=%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	} else {
		log.Info("  disabled")
	}

	log.Info("=========================================")
}

// validateProductionConfig performs fatal checks that only matter in non-local envs.
func validateProductionConfig(cfg *config.Config, log *logger.Logger) {
	isProd := cfg.Env == "production" || cfg.Env == "staging"

	if cfg.Blob.Mode == config.BlobModeS3 {
		if missing := cfg.Blob.S3.MissingRequired(); len(missing) > 0 {
			log.Fatalf("blob: BLOB_MODE=s3 but S3 config is incomplete, missing: %s", strings.Join(missing, ", "))
		}
	}

	if isProd && cfg.DatabaseURL == "" {
		log.Fatalf("db: no DATABASE_URL configured in %s", cfg.Env)
	}
}

// ---- helpers (no secrets) ----

func setOrNot(v string) string {
	if strings.TrimSpace(v) == "" {
		return "not set"
	}
	return "set"
}

func describeDBURL(runtime, pooled string) string {
	if runtime == "" {
		return "not set (will use in-memory storage)"
	}
	if pooled != "" && runtime == pooled {
		return "set (via DATABASE_URL_POOLED)"
	}
	return "set"
}

package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/secondchance-api/internal/config"
)

// loadAppConfig loads the application configuration from environment variables or config file.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// logConfigSummary logs non-secret configuration details.
func logConfigSummary(cfg *config.Config, logger *slog.Logger) {
	logger.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"asset_backend", cfg.Assets.Backend,
		"tracing_enabled", cfg.Tracing.Endpoint != "",
		"workers", cfg.Tasks.WorkerCount)
	logger.Debug("auth configuration",
		"jwt_secret_present", cfg.Auth.JWTSecret != "",
		"bcrypt_cost", cfg.Auth.BcryptCost,
		"login_failure_status", cfg.Auth.LoginFailureStatus)
}

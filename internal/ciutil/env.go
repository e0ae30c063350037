package ciutil

import (
	"log/slog"
	"net/url"
	"os"
	"strings"
)

// Environment variable names used across the codebase.
const (
	// CI environment detection variables
	EnvCI            = "CI"
	EnvGitHubActions = "GITHUB_ACTIONS"
	EnvGitLabCI      = "GITLAB_CI"
	EnvJenkinsURL    = "JENKINS_URL"
	EnvCircleCI      = "CIRCLECI"

	// Database connection environment variables
	EnvTestDatabaseURL = "SECONDCHANCE_TEST_DATABASE_URL" // preferred
	EnvDatabaseURL     = "DATABASE_URL"
)

// IsCI returns true if the current environment is a CI environment.
func IsCI() bool {
	return os.Getenv(EnvCI) != "" ||
		os.Getenv(EnvGitHubActions) != "" ||
		os.Getenv(EnvGitLabCI) != "" ||
		os.Getenv(EnvJenkinsURL) != "" ||
		os.Getenv(EnvCircleCI) != ""
}

// GetEnvWithFallbacks returns the value of the first non-empty environment variable
// from the provided list. If no environment variables are set, it returns the defaultValue.
// Using anything but the first name logs a warning.
func GetEnvWithFallbacks(envVars []string, defaultValue string, logger *slog.Logger) string {
	for i, envVar := range envVars {
		if val := os.Getenv(envVar); val != "" {
			if i > 0 && logger != nil {
				logger.Warn("using fallback environment variable",
					"used_var", envVar,
					"preferred_var", envVars[0],
					"value", MaskSensitiveValue(val),
				)
			}
			return val
		}
	}
	return defaultValue
}

// MaskSensitiveValue hides the password of database URLs and the middle of
// values that look like keys or tokens, so they can be logged.
func MaskSensitiveValue(value string) string {
	if strings.HasPrefix(value, "postgres://") || strings.HasPrefix(value, "postgresql://") {
		if u, err := url.Parse(value); err == nil {
			return u.Redacted()
		}
		return value
	}

	lower := strings.ToLower(value)
	if len(value) > 8 && (strings.Contains(lower, "key") ||
		strings.Contains(lower, "token") ||
		strings.Contains(lower, "secret")) {
		return value[:4] + "****" + value[len(value)-4:]
	}

	return value
}

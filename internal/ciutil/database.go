package ciutil

import "log/slog"

// GetTestDatabaseURL returns the PostgreSQL URL for integration tests.
// It checks SECONDCHANCE_TEST_DATABASE_URL and then DATABASE_URL, and returns
// "" when neither is set.
func GetTestDatabaseURL(logger *slog.Logger) string {
	return GetEnvWithFallbacks([]string{EnvTestDatabaseURL, EnvDatabaseURL}, "", logger)
}

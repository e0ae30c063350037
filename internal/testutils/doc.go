// Package testutils holds helpers shared by tests across packages: a
// log-capturing slog handler and signed session tokens for authenticated
// requests.
package testutils

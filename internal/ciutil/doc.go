// Package ciutil provides environment helpers for tests and tooling that run
// both locally and in CI.
package ciutil

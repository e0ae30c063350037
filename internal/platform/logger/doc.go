// Package logger provides structured logging for the service on top of
// log/slog. Loggers are configured once at startup and then travel through
// request contexts so that request-scoped attributes such as trace_id are
// attached to every entry written while handling a request.
package logger

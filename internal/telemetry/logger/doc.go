// Package logger provides structured logging for rwmap-bench.
//
// This package wraps log/slog:
//
//   - logger.go: logger construction, levels and the package default
//   - context.go: context propagation of the logger, run ID and worker ID
//
// Features:
//
//   - JSON and text output formats
//   - Runtime log level changes (SetLevel)
//   - Durations rendered as readable strings ("1.5ms")
//   - Context-aware logging for benchmark runs
package logger

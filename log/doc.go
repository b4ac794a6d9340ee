// Package log provides a simplified structured logging interface based
// on [log/slog], extended with a Trace level below Debug.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("rewrite complete", slog.Int("items", n))
//
// # Configuration
//
// Configure a logger at creation time using functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatText),
//		log.WithPretty(false))
//
// # Package Default
//
// A process-wide default logger writes to stderr and is reconfigured by
// the CLI as flags are parsed:
//
//	log.Config(log.WithLevel(log.LevelDebug))
//	log.Error("run failed", slog.Any("error", err))
//
// The zero Logger value is valid and discards all messages, so library
// code can log unconditionally through an optional logger field.
package log

// Package logger provides nil-safe slog attribute helpers for the structured
// loggers injected into every component of the tool.
//
// Helpers return an empty slog.Attr for zero values, so call sites never need
// explicit nil or empty checks:
//
//	log.Error("could not execute order",
//		logger.Command("ADD_ROUTE"),
//		logger.Error(err))
package logger

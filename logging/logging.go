// Package logging wires one package-level structured logger behind an
// atomic pointer, grounded on the serverless-platform repo's
// internal/logging/slog.go: a runtime-adjustable level via a
// *slog.LevelVar and a handler chosen by config format (text or JSON).
package logging

import (
	"log/slog"
	"os"
	"sync/atomic"
)

var (
	logger   atomic.Pointer[slog.Logger]
	levelVar = new(slog.LevelVar)
)

func init() {
	levelVar.Set(slog.LevelInfo)
	logger.Store(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: levelVar})))
}

// Log returns the process-wide logger.
func Log() *slog.Logger {
	return logger.Load()
}

// Configure rebuilds the handler for the given format ("json" or "text")
// and sets the initial level from levelName.
func Configure(format, levelName string) {
	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: levelVar}
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	logger.Store(slog.New(handler))
	SetLevelFromString(levelName)
}

// SetLevel changes the logger's level at runtime.
func SetLevel(level slog.Level) {
	levelVar.Set(level)
}

// SetLevelFromString sets the level from a config/flag string, ignoring
// unrecognized values (the level stays at whatever it was).
func SetLevelFromString(level string) {
	switch level {
	case "debug", "DEBUG":
		levelVar.Set(slog.LevelDebug)
	case "info", "INFO":
		levelVar.Set(slog.LevelInfo)
	case "warn", "WARN", "warning", "WARNING":
		levelVar.Set(slog.LevelWarn)
	case "error", "ERROR":
		levelVar.Set(slog.LevelError)
	}
}

// VerbFields builds the structured fields §4.10 calls for on verb/
// function execution failures: object_id, verb, kind — never a
// formatted string.
func VerbFields(objectID, verb, kind string) []any {
	return []any{"object_id", objectID, "verb", verb, "kind", kind}
}

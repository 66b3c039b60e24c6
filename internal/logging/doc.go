// Package logging assembles the structured slog loggers used across mdeco.
//
// It owns the console and JSON handlers and centralizes level plumbing so the
// CLI and library code emit log lines with the same shape. Prefer these
// constructors over hand-rolled slog setup.
package logging

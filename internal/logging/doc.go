// Package logging assembles structured slog loggers and formatting helpers used
// across corpusmix.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, tags every record of a run with its run identifier, and exposes
// the field keys used for dataset diagnostics. The package also provides a
// no-op logger for tests and wiring code that cannot fail.
package logging

// Package main hosts the corpusmix CLI entrypoint and command graph.
//
// Running corpusmix with no arguments merges every dataset under the
// configured datasets directory into the shared clip pool and merged lists.
// The check command performs the same discovery, validation, loading and
// thresholding without writing anything, and the config commands scaffold
// and validate corpusmix.toml.
//
// Keep this package lean: the pipeline lives in internal/corpus and its
// collaborators. Commands here only resolve configuration, build the logger
// and prober, and render results.
package main

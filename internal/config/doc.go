// Package config loads, normalizes, and validates corpusmix configuration.
//
// Every knob has a default that reproduces the classic layout (datasets/ in,
// mixed_wavs/ and mixed_lists/ out, a 300 second acceptance threshold), so a
// configuration file is never required. When corpusmix.toml exists in the
// working directory, or a path is passed with --config, its values are
// decoded over the defaults, paths are expanded to absolute form, and the
// result is validated before any dataset is touched.
package config

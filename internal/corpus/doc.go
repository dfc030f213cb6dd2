// Package corpus merges loaded datasets into one multi-speaker corpus.
//
// The Aggregator decides, without touching the filesystem, which datasets
// carry enough audio to be kept and hands each accepted one the next
// sequence id. The Writer appends renamed manifest lines and copies clips
// into the shared pool in sequence id order, and WriteModelInfo records the
// accepted datasets in model_info.json. Pipeline ties discovery, validation,
// parallel loading and the sequential write phase together for one run.
package corpus

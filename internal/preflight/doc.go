// Package preflight provides readiness checks for the filesystem paths and
// external binaries a merge run depends on.
//
// The merge command calls RunAll before touching any dataset and
// CheckFreeSpace once the accepted clips are known, so a doomed run stops
// before the pool is half written. The check command prints the same results
// as a table.
package preflight

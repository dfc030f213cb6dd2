// Package manifest reads and writes pipe-delimited transcript manifests.
//
// Input lines have the form "<clip-reference>|<transcript>"; merged output
// lines append the dataset sequence id as a third field and point at the
// renamed clip inside the shared pool.
package manifest

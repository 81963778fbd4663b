// Package location implements the compact location-code grammar attached to
// taxonomy path segments, e.g. "1021PU" for "port side, upper, of section
// 1021".
//
// A code is an optional leading number followed by at most one character per
// letter group (side, vertical, transverse, longitudinal), letters in
// alphabetical order. The set of valid letters is version-specific and loaded
// from the per-release location table, so parsing always goes through a
// Locations instance.
//
// Builder offers incremental construction with per-group validation and
// renders the canonical form: number first, letters sorted alphabetically.
package location

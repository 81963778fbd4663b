// Package localid models the structured vessel identifiers built on top of
// the taxonomy: a naming rule, a release version, a primary (and optional
// secondary) taxonomy path, and an ordered run of codebook-validated
// metadata tags.
//
// Identifiers are assembled through an immutable Builder and parsed by a
// single-pass state machine that accumulates every structural problem it
// finds instead of stopping at the first.
package localid

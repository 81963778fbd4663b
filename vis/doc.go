// Package vis defines the VIS release versions supported by the model and
// the ISO 19848 character-set check shared by codebook values, location
// strings, and identifier segments.
//
// Versions form an ordered sequence. Parsing accepts the canonical "3-4a"
// form; String returns the same form, so Parse(v.String()) == v for every
// defined version.
package vis

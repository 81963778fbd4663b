// Package registry builds and caches the per-release model artifacts:
// taxonomies, location tables, codebook bundles, and the conversion engine.
//
// A Registry is handed a Loader that supplies decoded resource tables and
// builds each artifact at most once, serving later lookups from cache. It
// satisfies the provider interfaces the model packages consume, so a single
// Registry wires taxonomy lookup, identifier parsing, and cross-release
// conversion together.
package registry

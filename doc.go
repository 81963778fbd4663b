// Package vismodel implements the DNV Vessel Information Structure (VIS)
// domain model: the versioned Generic Product Model taxonomy (GMOD), the
// controlled metadata vocabularies (codebooks), physical location codes,
// and the structured Local ID identifiers built on top of them.
//
// # Architecture
//
// The module is layered leaf-first; every layer is an immutable value or an
// immutable per-version model shared safely across goroutines:
//
//	┌─────────────────────────────────────┐
//	│            registry                 │  one model set per VIS version,
//	│   (build-once, read-many access)    │  built from injected DTO loaders
//	└─────────────────────────────────────┘
//	           ↓ hands out
//	┌─────────────────────────────────────┐
//	│   gmod · codebook · location        │  taxonomy tree + traversal,
//	│   (per-version immutable models)    │  vocabularies, location grammar
//	└─────────────────────────────────────┘
//	           ↓ referenced by
//	┌─────────────────────────────────────┐
//	│             localid                 │  /dnv-v2/vis-…  identifiers:
//	│   (parser, builder, formatting)     │  paths + metadata tags
//	└─────────────────────────────────────┘
//
// Package vis carries the version enumeration and the ISO string rules all
// layers share. Package gmod additionally hosts the cross-version conversion
// engine (Versioning), which re-expresses nodes and paths from one released
// VIS version under another by applying per-node conversion rules.
//
// # Quick Start
//
//	loader := myLoader{}                   // supplies decoded VIS resources
//	reg, err := registry.New(loader)
//	if err != nil { ... }
//
//	g, err := reg.Gmod(vis.Version3_4a)
//	path, err := g.ParsePath("621.11i-P/H135")
//
//	id, err := reg.ParseLocalId("/dnv-v2/vis-3-4a/621.11i-P/H135/meta/qty-temperature")
//	fmt.Println(id.PrimaryItem(), id.MetadataTags())
//
// # Concurrency Model
//
// All per-version models (Gmod, Codebooks, Locations, conversion tables) are
// immutable after construction and require no locking for reads. Parsing,
// traversal, and conversion allocate their own working state per call and may
// run fully in parallel. The registry guarantees at-most-once construction of
// each model and publishes it before any reader can observe it.
//
// # Error Handling
//
// The errors package defines the failure families shared by all layers
// (not-found, invalid structure, ambiguity, incompleteness, unknown
// vocabulary, conversion failure, configuration fault). Parse operations
// report every structural problem found in a single pass; TryParse variants
// never fail hard and instead return the accumulated diagnostics.
package vismodel

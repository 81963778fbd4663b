// Package gmod implements the versioned product-model taxonomy: the node
// graph of one release, deterministic depth-first traversal over its
// multi-parent shape, the path grammar rooted at that graph, and the rule
// engine converting nodes and paths between releases.
//
// A Gmod is built once from decoded release data and is immutable
// afterwards; every parse, traversal, and conversion allocates its own
// working state, so one Gmod may serve any number of concurrent callers.
//
// Paths come in two string forms. The short form prints only the leaf
// parents and the target ("632.32i-2/S110"), which is what identifiers
// embed. The full form prints the entire chain from the root and is used
// for interchange. Both parse back to the same Path value.
package gmod

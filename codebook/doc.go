// Package codebook implements the controlled metadata vocabularies attached
// to identifiers: eleven fixed codebooks (quantity, content, position, ...),
// each holding standard values grouped for validation, plus the Tag value
// they produce.
//
// A value absent from a codebook's standard set is still accepted as a
// custom tag, except for the position codebook, which runs the full
// composite-position validation, and the detail codebook, which accepts any
// ISO value as standard. Tag equality is only defined within one codebook;
// comparing tags across codebooks panics.
package codebook

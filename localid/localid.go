package localid

import (
	"hash/fnv"

	"github.com/c360/vismodel/codebook"
	"github.com/c360/vismodel/gmod"
	"github.com/c360/vismodel/vis"
)

// LocalId is a complete, verified identifier. It is a frozen Builder:
// construction goes through Builder.Build, which guarantees a release, a
// primary item, and at least one metadata tag.
type LocalId struct {
	builder Builder
}

// Builder returns the builder this identifier was frozen from, ready for
// derivation.
func (l *LocalId) Builder() Builder { return l.builder }

// Version returns the release the identifier binds to.
func (l *LocalId) Version() vis.Version { return l.builder.version }

// VerboseMode reports whether rendering includes item descriptions.
func (l *LocalId) VerboseMode() bool { return l.builder.verbose }

// PrimaryItem returns the primary taxonomy path.
func (l *LocalId) PrimaryItem() *gmod.Path { return l.builder.primary }

// SecondaryItem returns the secondary taxonomy path, nil when absent.
func (l *LocalId) SecondaryItem() *gmod.Path { return l.builder.secondary }

// Quantity returns the quantity tag and whether it is set.
func (l *LocalId) Quantity() (codebook.Tag, bool) { return l.builder.Quantity() }

// Content returns the content tag and whether it is set.
func (l *LocalId) Content() (codebook.Tag, bool) { return l.builder.Content() }

// Calculation returns the calculation tag and whether it is set.
func (l *LocalId) Calculation() (codebook.Tag, bool) { return l.builder.Calculation() }

// State returns the state tag and whether it is set.
func (l *LocalId) State() (codebook.Tag, bool) { return l.builder.State() }

// Command returns the command tag and whether it is set.
func (l *LocalId) Command() (codebook.Tag, bool) { return l.builder.Command() }

// Type returns the type tag and whether it is set.
func (l *LocalId) Type() (codebook.Tag, bool) { return l.builder.Type() }

// Position returns the position tag and whether it is set.
func (l *LocalId) Position() (codebook.Tag, bool) { return l.builder.Position() }

// Detail returns the detail tag and whether it is set.
func (l *LocalId) Detail() (codebook.Tag, bool) { return l.builder.Detail() }

// MetadataTags returns the present tags in grammar order.
func (l *LocalId) MetadataTags() []codebook.Tag { return l.builder.MetadataTags() }

// HasCustomTag reports whether any tag carries a custom value.
func (l *LocalId) HasCustomTag() bool { return l.builder.HasCustomTag() }

// Equal compares the underlying builders.
func (l *LocalId) Equal(other *LocalId) bool {
	if other == nil {
		return false
	}
	return l.builder.Equal(other.builder)
}

// Hash returns a hash of the rendered identifier, so equal identifiers
// hash alike.
func (l *LocalId) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(l.String()))
	return h.Sum64()
}

// String renders the identifier.
func (l *LocalId) String() string { return l.builder.String() }

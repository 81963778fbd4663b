package localid

import (
	"strings"

	"github.com/c360/vismodel/codebook"
	"github.com/c360/vismodel/errors"
	"github.com/c360/vismodel/gmod"
	"github.com/c360/vismodel/vis"
)

// NamingRule is the fixed leading segment of every identifier.
const NamingRule = "dnv-v2"

// Builder assembles a LocalId piece by piece. The zero value is an empty
// builder; every With/Without method returns a modified copy, so builders
// can be shared and branched freely.
type Builder struct {
	version vis.Version
	verbose bool

	primary   *gmod.Path
	secondary *gmod.Path

	quantity    *codebook.Tag
	content     *codebook.Tag
	calculation *codebook.Tag
	state       *codebook.Tag
	command     *codebook.Tag
	typ         *codebook.Tag
	position    *codebook.Tag
	detail      *codebook.Tag
}

// New returns an empty builder pinned to version.
func New(version vis.Version) Builder {
	return Builder{}.WithVersion(version)
}

// Version returns the release the identifier binds to, VersionInvalid when
// unset.
func (b Builder) Version() vis.Version { return b.version }

// WithVersion pins the builder to a release.
func (b Builder) WithVersion(version vis.Version) Builder {
	b.version = version
	return b
}

// WithoutVersion clears the release.
func (b Builder) WithoutVersion() Builder {
	b.version = vis.VersionInvalid
	return b
}

// VerboseMode reports whether rendering includes the human-readable item
// descriptions.
func (b Builder) VerboseMode() bool { return b.verbose }

// WithVerboseMode toggles description rendering.
func (b Builder) WithVerboseMode(verbose bool) Builder {
	b.verbose = verbose
	return b
}

// PrimaryItem returns the primary taxonomy path, nil when unset.
func (b Builder) PrimaryItem() *gmod.Path { return b.primary }

// WithPrimaryItem sets the primary taxonomy path. A nil item leaves the
// builder unchanged.
func (b Builder) WithPrimaryItem(item *gmod.Path) Builder {
	if item == nil {
		return b
	}
	b.primary = item
	return b
}

// WithoutPrimaryItem clears the primary taxonomy path.
func (b Builder) WithoutPrimaryItem() Builder {
	b.primary = nil
	return b
}

// SecondaryItem returns the secondary taxonomy path, nil when unset.
func (b Builder) SecondaryItem() *gmod.Path { return b.secondary }

// WithSecondaryItem sets the secondary taxonomy path. A nil item leaves
// the builder unchanged.
func (b Builder) WithSecondaryItem(item *gmod.Path) Builder {
	if item == nil {
		return b
	}
	b.secondary = item
	return b
}

// WithoutSecondaryItem clears the secondary taxonomy path.
func (b Builder) WithoutSecondaryItem() Builder {
	b.secondary = nil
	return b
}

// WithMetadataTag stores tag in the slot its codebook owns. Codebooks that
// have no identifier slot are rejected.
func (b Builder) WithMetadataTag(tag codebook.Tag) (Builder, error) {
	slot := b.slotFor(tag.Name())
	if slot == nil {
		return b, errors.UnknownVocabulary("codebook %s has no local id slot", tag.Name())
	}
	t := tag
	*slot = &t
	return b, nil
}

// WithoutMetadataTag clears the slot owned by name. Unknown names are a
// no-op.
func (b Builder) WithoutMetadataTag(name codebook.Name) Builder {
	if slot := b.slotFor(name); slot != nil {
		*slot = nil
	}
	return b
}

// slotFor maps a codebook name to the matching tag field of this copy.
func (b *Builder) slotFor(name codebook.Name) **codebook.Tag {
	switch name {
	case codebook.NameQuantity:
		return &b.quantity
	case codebook.NameContent:
		return &b.content
	case codebook.NameCalculation:
		return &b.calculation
	case codebook.NameState:
		return &b.state
	case codebook.NameCommand:
		return &b.command
	case codebook.NameType:
		return &b.typ
	case codebook.NamePosition:
		return &b.position
	case codebook.NameDetail:
		return &b.detail
	default:
		return nil
	}
}

// Quantity returns the quantity tag and whether it is set.
func (b Builder) Quantity() (codebook.Tag, bool) { return deref(b.quantity) }

// Content returns the content tag and whether it is set.
func (b Builder) Content() (codebook.Tag, bool) { return deref(b.content) }

// Calculation returns the calculation tag and whether it is set.
func (b Builder) Calculation() (codebook.Tag, bool) { return deref(b.calculation) }

// State returns the state tag and whether it is set.
func (b Builder) State() (codebook.Tag, bool) { return deref(b.state) }

// Command returns the command tag and whether it is set.
func (b Builder) Command() (codebook.Tag, bool) { return deref(b.command) }

// Type returns the type tag and whether it is set.
func (b Builder) Type() (codebook.Tag, bool) { return deref(b.typ) }

// Position returns the position tag and whether it is set.
func (b Builder) Position() (codebook.Tag, bool) { return deref(b.position) }

// Detail returns the detail tag and whether it is set.
func (b Builder) Detail() (codebook.Tag, bool) { return deref(b.detail) }

func deref(tag *codebook.Tag) (codebook.Tag, bool) {
	if tag == nil {
		return codebook.Tag{}, false
	}
	return *tag, true
}

// renderOrder lists the tag slots in the order the grammar renders them.
func (b Builder) renderOrder() []*codebook.Tag {
	return []*codebook.Tag{
		b.quantity, b.content, b.calculation, b.state,
		b.command, b.typ, b.position, b.detail,
	}
}

// MetadataTags returns the present tags in grammar order.
func (b Builder) MetadataTags() []codebook.Tag {
	var tags []codebook.Tag
	for _, tag := range b.renderOrder() {
		if tag != nil {
			tags = append(tags, *tag)
		}
	}
	return tags
}

// HasCustomTag reports whether any present tag carries a custom value.
func (b Builder) HasCustomTag() bool {
	for _, tag := range b.renderOrder() {
		if tag != nil && tag.IsCustom() {
			return true
		}
	}
	return false
}

// IsEmptyMetadata reports whether no tag slot is set.
func (b Builder) IsEmptyMetadata() bool {
	for _, tag := range b.renderOrder() {
		if tag != nil {
			return false
		}
	}
	return true
}

// IsEmpty reports whether the builder holds no items and no tags.
func (b Builder) IsEmpty() bool {
	return b.primary == nil && b.secondary == nil && b.IsEmptyMetadata()
}

// IsValid reports whether the builder can produce an identifier: a release,
// a primary item, and at least one metadata tag.
func (b Builder) IsValid() bool {
	return b.version.IsValid() && b.primary != nil && !b.IsEmptyMetadata()
}

// Equal compares release, items, and every tag slot.
func (b Builder) Equal(other Builder) bool {
	if b.version != other.version {
		return false
	}
	if !pathsEqual(b.primary, other.primary) || !pathsEqual(b.secondary, other.secondary) {
		return false
	}
	mine := b.renderOrder()
	theirs := other.renderOrder()
	for i := range mine {
		if !tagsEqual(mine[i], theirs[i]) {
			return false
		}
	}
	return true
}

func pathsEqual(a, b *gmod.Path) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(b)
}

func tagsEqual(a, b *codebook.Tag) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// Build verifies the builder and freezes it into a LocalId.
func (b Builder) Build() (*LocalId, error) {
	if b.IsEmpty() {
		return nil, errors.InvalidStructure("cannot build a local id from an empty builder")
	}
	if !b.IsValid() {
		return nil, errors.Incomplete(
			"local id requires a release, a primary item, and at least one metadata tag")
	}
	return &LocalId{builder: b}, nil
}

// String renders the identifier. An unversioned builder renders empty.
func (b Builder) String() string {
	if !b.version.IsValid() {
		return ""
	}
	var sb strings.Builder
	sb.WriteByte('/')
	sb.WriteString(NamingRule)
	sb.WriteString("/vis-")
	sb.WriteString(b.version.String())
	sb.WriteByte('/')

	appendItems(&sb, b.primary, b.secondary, b.verbose)

	sb.WriteString("meta/")
	for _, tag := range b.renderOrder() {
		if tag != nil {
			tag.Append(&sb, "/")
		}
	}

	out := sb.String()
	return strings.TrimSuffix(out, "/")
}

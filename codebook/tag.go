package codebook

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/c360/vismodel/errors"
	"github.com/c360/vismodel/vis"
)

// Tag is a validated metadata value drawn from one codebook. Tags are
// immutable value objects produced by Codebook.CreateTag.
type Tag struct {
	name   Name
	value  string
	custom bool
}

// CustomTag builds a custom tag directly, bypassing the standard-value
// lookup. Identifier grammars mark such values with a '~' separator. The
// value must be ISO-safe with no surrounding whitespace.
func CustomTag(name Name, value string) (Tag, error) {
	if !name.IsValid() {
		return Tag{}, errors.UnknownVocabulary("codebook name %d", int(name))
	}
	if strings.TrimSpace(value) != value || value == "" || !vis.IsISOString(value) {
		return Tag{}, errors.InvalidStructure("custom %s value %q is not ISO-safe", name, value)
	}
	return Tag{name: name, value: value, custom: true}, nil
}

// Name returns the owning codebook.
func (t Tag) Name() Name { return t.name }

// Value returns the validated value.
func (t Tag) Value() string { return t.value }

// IsCustom reports whether the value is outside the codebook's standard set.
func (t Tag) IsCustom() bool { return t.custom }

// Separator returns the character joining prefix and value in identifier
// strings: '~' for custom tags, '-' for standard ones.
func (t Tag) Separator() byte {
	if t.custom {
		return '~'
	}
	return '-'
}

// String returns the bare value.
func (t Tag) String() string { return t.value }

// Equal compares two tags of the same codebook by value. Comparing tags
// from different codebooks is a programming error and panics.
func (t Tag) Equal(other Tag) bool {
	if t.name != other.name {
		panic(fmt.Sprintf("cannot compare %s tag with %s tag", t.name, other.name))
	}
	return t.value == other.value
}

// Hash returns a value-only hash, so equal tags hash alike regardless of
// custom flag.
func (t Tag) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(t.value))
	return h.Sum64()
}

// Append writes the identifier-segment form "prefix<sep>value<suffix>".
func (t Tag) Append(sb *strings.Builder, suffix string) {
	sb.WriteString(t.name.Prefix())
	sb.WriteByte(t.Separator())
	sb.WriteString(t.value)
	sb.WriteString(suffix)
}

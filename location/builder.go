package location

import (
	"sort"
	"strconv"
	"strings"

	"github.com/c360/vismodel/errors"
	"github.com/c360/vismodel/vis"
)

// Builder constructs a Location incrementally, one component per group.
// Builders are immutable; every With/Without method returns a copy.
type Builder struct {
	version   vis.Version
	codeGroup map[byte]Group

	number       int
	hasNumber    bool
	side         byte
	vertical     byte
	transverse   byte
	longitudinal byte
}

// NewBuilder creates an empty Builder bound to the vocabulary of locs.
func NewBuilder(locs *Locations) Builder {
	return Builder{version: locs.version, codeGroup: locs.codeGroup}
}

// Version returns the release the builder validates against.
func (b Builder) Version() vis.Version { return b.version }

// Number returns the numeric component and whether it is set.
func (b Builder) Number() (int, bool) { return b.number, b.hasNumber }

// WithLocation replays an existing location into the builder, validating
// each component.
func (b Builder) WithLocation(loc Location) (Builder, error) {
	out := b
	s := loc.Value()
	numEnd := 0
	for numEnd < len(s) && s[numEnd] >= '0' && s[numEnd] <= '9' {
		numEnd++
	}
	if numEnd > 0 {
		n, err := strconv.Atoi(s[:numEnd])
		if err != nil {
			return b, errors.InvalidStructure("location %q: numeric part unparseable", s)
		}
		out, err = out.WithNumber(n)
		if err != nil {
			return b, err
		}
	}
	for i := numEnd; i < len(s); i++ {
		var err error
		out, err = out.WithValue(string(s[i]))
		if err != nil {
			return b, err
		}
	}
	return out, nil
}

// WithNumber sets the numeric component. Numbers start at 1.
func (b Builder) WithNumber(n int) (Builder, error) {
	if n < 1 {
		return b, errors.InvalidStructure("location number must be positive, got %d", n)
	}
	out := b
	out.number = n
	out.hasNumber = true
	return out, nil
}

// WithSide sets the side component (P, C, or S).
func (b Builder) WithSide(code string) (Builder, error) {
	return b.withGroupValue(GroupSide, code)
}

// WithVertical sets the vertical component (U, M, or L).
func (b Builder) WithVertical(code string) (Builder, error) {
	return b.withGroupValue(GroupVertical, code)
}

// WithTransverse sets the transverse component (I or O).
func (b Builder) WithTransverse(code string) (Builder, error) {
	return b.withGroupValue(GroupTransverse, code)
}

// WithLongitudinal sets the longitudinal component (F or A).
func (b Builder) WithLongitudinal(code string) (Builder, error) {
	return b.withGroupValue(GroupLongitudinal, code)
}

// WithValue sets a single-letter component, inferring its group from the
// release vocabulary.
func (b Builder) WithValue(code string) (Builder, error) {
	if len(code) != 1 {
		return b, errors.InvalidStructure("location component %q must be a single character", code)
	}
	group, ok := b.codeGroup[code[0]]
	if !ok {
		return b, errors.InvalidStructure("unknown location letter %q for release %s", code, b.version)
	}
	return b.withGroupValue(group, code)
}

func (b Builder) withGroupValue(group Group, code string) (Builder, error) {
	if len(code) != 1 {
		return b, errors.InvalidStructure("location component %q must be a single character", code)
	}
	actual, ok := b.codeGroup[code[0]]
	if !ok || actual != group {
		return b, errors.InvalidStructure("%q is not a valid %s letter", code, group)
	}
	out := b
	switch group {
	case GroupSide:
		out.side = code[0]
	case GroupVertical:
		out.vertical = code[0]
	case GroupTransverse:
		out.transverse = code[0]
	case GroupLongitudinal:
		out.longitudinal = code[0]
	}
	return out, nil
}

// WithoutNumber clears the numeric component.
func (b Builder) WithoutNumber() Builder {
	out := b
	out.number = 0
	out.hasNumber = false
	return out
}

// WithoutValue clears one group's component.
func (b Builder) WithoutValue(group Group) Builder {
	out := b
	switch group {
	case GroupNumber:
		out.number = 0
		out.hasNumber = false
	case GroupSide:
		out.side = 0
	case GroupVertical:
		out.vertical = 0
	case GroupTransverse:
		out.transverse = 0
	case GroupLongitudinal:
		out.longitudinal = 0
	}
	return out
}

// Build renders the canonical form: the number followed by the set letters
// sorted alphabetically.
func (b Builder) Build() Location {
	return Location{value: b.String()}
}

// String renders the canonical form without constructing a Location.
func (b Builder) String() string {
	var letters []string
	for _, c := range []byte{b.side, b.vertical, b.transverse, b.longitudinal} {
		if c != 0 {
			letters = append(letters, string(c))
		}
	}
	sort.Strings(letters)
	var sb strings.Builder
	if b.hasNumber {
		sb.WriteString(strconv.Itoa(b.number))
	}
	sb.WriteString(strings.Join(letters, ""))
	return sb.String()
}

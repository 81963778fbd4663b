package location

import (
	"sort"
	"strings"

	"github.com/c360/vismodel/errors"
	"github.com/c360/vismodel/vis"
)

// Group partitions location codes by the axis they describe.
type Group int

const (
	// GroupNumber is the numeric section component.
	GroupNumber Group = iota
	// GroupSide covers port, centre, and starboard.
	GroupSide
	// GroupVertical covers upper, middle, and lower.
	GroupVertical
	// GroupTransverse covers inside and outside.
	GroupTransverse
	// GroupLongitudinal covers fore and aft.
	GroupLongitudinal
)

const groupCount = 5

// String returns the group name.
func (g Group) String() string {
	switch g {
	case GroupNumber:
		return "number"
	case GroupSide:
		return "side"
	case GroupVertical:
		return "vertical"
	case GroupTransverse:
		return "transverse"
	case GroupLongitudinal:
		return "longitudinal"
	default:
		return "unknown"
	}
}

// groupForCode classifies a single-character location code.
func groupForCode(code string) (Group, bool) {
	if len(code) != 1 {
		return 0, false
	}
	switch code[0] {
	case 'N':
		return GroupNumber, true
	case 'P', 'C', 'S':
		return GroupSide, true
	case 'U', 'M', 'L':
		return GroupVertical, true
	case 'I', 'O':
		return GroupTransverse, true
	case 'F', 'A':
		return GroupLongitudinal, true
	default:
		return 0, false
	}
}

// Location is a validated location code. The zero value is the empty
// location, which attaches to no path segment.
type Location struct {
	value string
}

// Value returns the raw code string.
func (l Location) Value() string { return l.value }

// String returns the raw code string.
func (l Location) String() string { return l.value }

// IsEmpty reports whether the location carries no code.
func (l Location) IsEmpty() bool { return l.value == "" }

// Equal reports code equality.
func (l Location) Equal(other Location) bool { return l.value == other.value }

// RelativeLocation describes one code from the per-release location table.
type RelativeLocation struct {
	Code       string
	Name       string
	Definition string
	Location   Location
}

// Locations holds the location vocabulary of one release and parses codes
// against it. Immutable after construction.
type Locations struct {
	version   vis.Version
	groups    map[Group][]RelativeLocation
	codeGroup map[byte]Group
	relative  []RelativeLocation
}

// NewLocations builds the vocabulary from decoded table data.
func NewLocations(version vis.Version, dto DTO) (*Locations, error) {
	if err := dto.Validate(); err != nil {
		return nil, errors.Wrap(err, "location", "NewLocations", "validate table")
	}
	l := &Locations{
		version:   version,
		groups:    make(map[Group][]RelativeLocation),
		codeGroup: make(map[byte]Group),
	}
	for _, item := range dto.Items {
		group, ok := groupForCode(item.Code)
		if !ok {
			return nil, errors.ConfigurationFault("unsupported location code %q in %s table", item.Code, version)
		}
		rl := RelativeLocation{
			Code:       item.Code,
			Name:       item.Name,
			Definition: item.Definition,
			Location:   Location{value: item.Code},
		}
		l.relative = append(l.relative, rl)
		l.groups[group] = append(l.groups[group], rl)
		if group != GroupNumber {
			l.codeGroup[item.Code[0]] = group
		}
	}
	return l, nil
}

// Version returns the release this vocabulary belongs to.
func (l *Locations) Version() vis.Version { return l.version }

// RelativeLocations returns a copy of the full table.
func (l *Locations) RelativeLocations() []RelativeLocation {
	out := make([]RelativeLocation, len(l.relative))
	copy(out, l.relative)
	return out
}

// GroupMembers returns the codes of one group.
func (l *Locations) GroupMembers(g Group) []RelativeLocation {
	out := make([]RelativeLocation, len(l.groups[g]))
	copy(out, l.groups[g])
	return out
}

// Parse validates a code string, returning every structural problem found.
func (l *Locations) Parse(s string) (Location, error) {
	loc, ok, errs := l.TryParseWithErrors(s)
	if !ok {
		return Location{}, errors.InvalidStructure("location %q: %s", s, errs.Error())
	}
	return loc, nil
}

// TryParse validates a code string without error detail.
func (l *Locations) TryParse(s string) (Location, bool) {
	loc, ok, _ := l.TryParseWithErrors(s)
	return loc, ok
}

// TryParseWithErrors validates a code string and returns the accumulated
// diagnostics whether or not parsing succeeded.
func (l *Locations) TryParseWithErrors(s string) (Location, bool, Errors) {
	var errs Errors
	if strings.TrimSpace(s) == "" {
		errs = errs.add(ResultNullOrWhiteSpace, "location is empty or whitespace")
		return Location{}, false, errs
	}

	prevDigit := -1
	digitStart := -1
	prevLetter := byte(0)
	seen := make(map[Group]byte, groupCount)

	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch >= '0' && ch <= '9' {
			if digitStart < 0 && i != 0 {
				errs = errs.add(ResultInvalid,
					"numeric part must come before location letters in %q", s)
				return Location{}, false, errs
			}
			if prevDigit >= 0 && prevDigit != i-1 {
				errs = errs.add(ResultInvalid,
					"numeric part must be contiguous in %q", s)
				return Location{}, false, errs
			}
			if digitStart < 0 {
				digitStart = i
			}
			prevDigit = i
			continue
		}

		group, ok := l.codeGroup[ch]
		if !ok {
			errs = errs.add(ResultInvalidCode,
				"unknown location letter(s) %s in %q", unknownLetters(s, l.codeGroup), s)
			return Location{}, false, errs
		}
		if prev, dup := seen[group]; dup && prev != ch {
			errs = errs.add(ResultInvalid,
				"multiple %s letters %q and %q in %q", group, string(prev), string(ch), s)
			return Location{}, false, errs
		}
		if prevLetter != 0 && ch < prevLetter {
			errs = errs.add(ResultInvalidOrder,
				"location letters must be alphabetical, %q before %q in %q",
				string(prevLetter), string(ch), s)
			return Location{}, false, errs
		}
		prevLetter = ch
		seen[group] = ch
	}

	return Location{value: s}, true, errs
}

func unknownLetters(s string, known map[byte]Group) string {
	var letters []string
	seen := make(map[byte]bool)
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch >= '0' && ch <= '9' {
			continue
		}
		if _, ok := known[ch]; ok || seen[ch] {
			continue
		}
		seen[ch] = true
		letters = append(letters, string(ch))
	}
	sort.Strings(letters)
	return strings.Join(letters, ",")
}

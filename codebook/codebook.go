package codebook

import (
	"sort"
	"strings"

	"github.com/c360/vismodel/errors"
	"github.com/c360/vismodel/vis"
)

// PositionValidation classifies the outcome of position-value validation.
// Values at or above PositionValid indicate an acceptable position.
type PositionValidation int

const (
	// PositionInvalid covers empty, padded, or non-ISO values.
	PositionInvalid PositionValidation = iota
	// PositionInvalidOrder marks composite values whose parts break the
	// number-last or alphabetical ordering rules.
	PositionInvalidOrder
	// PositionInvalidGrouping marks composite values drawing two parts from
	// the same vocabulary group.
	PositionInvalidGrouping
	// PositionValid marks values fully covered by the standard set.
	PositionValid PositionValidation = 100
	// PositionCustom marks acceptable values outside the standard set.
	PositionCustom PositionValidation = 101
)

// IsValid reports whether the outcome allows tag creation.
func (p PositionValidation) IsValid() bool { return p >= PositionValid }

// String returns the outcome name.
func (p PositionValidation) String() string {
	switch p {
	case PositionInvalid:
		return "invalid"
	case PositionInvalidOrder:
		return "invalid-order"
	case PositionInvalidGrouping:
		return "invalid-grouping"
	case PositionValid:
		return "valid"
	case PositionCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// defaultGroup is the table group that exempts values from the
// one-part-per-group rule in composite positions.
const defaultGroup = "DEFAULT_GROUP"

// numberValue is the table placeholder standing in for any numeric part.
const numberValue = "<number>"

// Codebook is one controlled vocabulary: its standard values, their groups,
// and the validation rules for creating tags against it. Immutable after
// construction.
type Codebook struct {
	name           Name
	groupByValue   map[string]string
	standardValues map[string]struct{}
	groups         map[string]struct{}
	valuesByGroup  map[string][]string
}

// FromDTO builds a Codebook from decoded table data.
func FromDTO(dto DTO) (*Codebook, error) {
	if err := dto.Validate(); err != nil {
		return nil, errors.Wrap(err, "codebook", "FromDTO", "validate table")
	}
	name, ok := namesByTableKey[dto.Name]
	if !ok {
		return nil, errors.UnknownVocabulary("codebook table name %q", dto.Name)
	}

	cb := &Codebook{
		name:           name,
		groupByValue:   make(map[string]string),
		standardValues: make(map[string]struct{}),
		groups:         make(map[string]struct{}),
		valuesByGroup:  make(map[string][]string),
	}
	for group, values := range dto.Values {
		g := strings.TrimSpace(group)
		for _, value := range values {
			v := strings.TrimSpace(value)
			cb.valuesByGroup[g] = append(cb.valuesByGroup[g], v)
			if v == numberValue {
				continue
			}
			cb.groupByValue[v] = g
			cb.standardValues[v] = struct{}{}
			cb.groups[g] = struct{}{}
		}
	}
	for _, values := range cb.valuesByGroup {
		sort.Strings(values)
	}
	return cb, nil
}

// namesByTableKey maps the table file's codebook names onto the enum.
var namesByTableKey = map[string]Name{
	"quantities":          NameQuantity,
	"contents":            NameContent,
	"calculations":        NameCalculation,
	"states":              NameState,
	"commands":            NameCommand,
	"types":               NameType,
	"functional_services": NameFunctionalServices,
	"maintenance_category": NameMaintenanceCategory,
	"activity_type":       NameActivityType,
	"positions":           NamePosition,
	"detail":              NameDetail,
}

// Name returns the codebook's identity.
func (c *Codebook) Name() Name { return c.name }

// HasStandardValue reports membership in the standard set. For the position
// codebook, any all-digit value counts as standard.
func (c *Codebook) HasStandardValue(value string) bool {
	if c.name == NamePosition && isDigits(value) {
		return true
	}
	_, ok := c.standardValues[value]
	return ok
}

// HasGroup reports whether the codebook defines the named group.
func (c *Codebook) HasGroup(group string) bool {
	_, ok := c.groups[group]
	return ok
}

// StandardValues returns the standard set in sorted order.
func (c *Codebook) StandardValues() []string {
	out := make([]string, 0, len(c.standardValues))
	for v := range c.standardValues {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// GroupValues returns a sorted copy of one group's table values, placeholder
// entries included, and whether the group exists in the table.
func (c *Codebook) GroupValues(group string) ([]string, bool) {
	values, ok := c.valuesByGroup[group]
	if !ok {
		return nil, false
	}
	out := make([]string, len(values))
	copy(out, values)
	return out, true
}

// Groups returns the group names in sorted order.
func (c *Codebook) Groups() []string {
	out := make([]string, 0, len(c.groups))
	for g := range c.groups {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// TryCreateTag validates value and returns the tag plus an ok flag.
// Unrecognized values become custom tags except where the codebook's rules
// reject them outright.
func (c *Codebook) TryCreateTag(value string) (Tag, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return Tag{}, false
	}

	custom := false
	if c.name == NamePosition {
		switch outcome := c.ValidatePosition(value); {
		case !outcome.IsValid():
			return Tag{}, false
		case outcome == PositionCustom:
			custom = true
		}
	} else {
		if !vis.IsISOString(value) {
			return Tag{}, false
		}
		if c.name != NameDetail {
			if _, ok := c.standardValues[value]; !ok {
				custom = true
			}
		}
	}

	return Tag{name: c.name, value: v, custom: custom}, true
}

// CreateTag is TryCreateTag returning an error instead of a flag.
func (c *Codebook) CreateTag(value string) (Tag, error) {
	tag, ok := c.TryCreateTag(value)
	if !ok {
		return Tag{}, errors.UnknownVocabulary("value %q rejected by %s codebook", value, c.name)
	}
	return tag, nil
}

// ValidatePosition checks a position value against the codebook's rules:
// standard and all-digit parts are valid, unknown single parts are custom,
// and hyphen-joined composites must keep numbers last, letters sorted, and
// at most one part per group.
func (c *Codebook) ValidatePosition(position string) PositionValidation {
	trimmed := strings.TrimSpace(position)
	if trimmed == "" || trimmed != position || !vis.IsISOString(position) {
		return PositionInvalid
	}

	if _, ok := c.standardValues[position]; ok {
		return PositionValid
	}
	if isDigits(position) {
		return PositionValid
	}
	if !strings.Contains(position, "-") {
		return PositionCustom
	}

	parts := strings.Split(position, "-")
	outcomes := make([]PositionValidation, len(parts))
	worstIsFatal := false
	for i, part := range parts {
		outcomes[i] = c.ValidatePosition(part)
		if !outcomes[i].IsValid() {
			worstIsFatal = true
		}
	}
	if worstIsFatal {
		return maxOutcome(outcomes)
	}

	for i, part := range parts {
		if isDigits(part) && i < len(parts)-1 {
			return PositionInvalidOrder
		}
	}
	var letterParts []string
	for _, part := range parts {
		if !isDigits(part) {
			letterParts = append(letterParts, part)
		}
	}
	if !sort.StringsAreSorted(letterParts) {
		return PositionInvalidOrder
	}

	allStandard := true
	for _, o := range outcomes {
		if o != PositionValid {
			allStandard = false
			break
		}
	}
	if allStandard {
		groups := make([]string, len(parts))
		hasDefault := false
		for i, part := range parts {
			if isDigits(part) {
				groups[i] = numberValue
				continue
			}
			groups[i] = c.groupByValue[part]
			if groups[i] == defaultGroup {
				hasDefault = true
			}
		}
		if !hasDefault && hasDuplicates(groups) {
			return PositionInvalidGrouping
		}
	}

	return maxOutcome(outcomes)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func maxOutcome(outcomes []PositionValidation) PositionValidation {
	max := outcomes[0]
	for _, o := range outcomes[1:] {
		if o > max {
			max = o
		}
	}
	return max
}

func hasDuplicates(values []string) bool {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			return true
		}
		seen[v] = struct{}{}
	}
	return false
}

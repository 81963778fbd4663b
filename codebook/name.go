package codebook

import (
	"github.com/c360/vismodel/errors"
)

// Name identifies one of the eleven fixed codebooks. The zero value is
// invalid.
type Name int

const (
	// NameQuantity is the physical-quantity vocabulary (prefix "qty").
	NameQuantity Name = iota + 1
	// NameContent is the content/medium vocabulary (prefix "cnt").
	NameContent
	// NameCalculation is the calculation-method vocabulary (prefix "calc").
	NameCalculation
	// NameState is the state vocabulary (prefix "state").
	NameState
	// NameCommand is the command vocabulary (prefix "cmd").
	NameCommand
	// NameType is the type vocabulary (prefix "type").
	NameType
	// NameFunctionalServices is the functional-services vocabulary
	// (prefix "funct.svc").
	NameFunctionalServices
	// NameMaintenanceCategory is the maintenance-category vocabulary
	// (prefix "maint.cat").
	NameMaintenanceCategory
	// NameActivityType is the activity-type vocabulary (prefix "act.type").
	NameActivityType
	// NamePosition is the position vocabulary (prefix "pos").
	NamePosition
	// NameDetail is the free-form detail vocabulary (prefix "detail").
	NameDetail
)

// NameCount is the number of defined codebooks.
const NameCount = 11

// AllNames returns every codebook name in enum order.
func AllNames() []Name {
	return []Name{
		NameQuantity, NameContent, NameCalculation, NameState, NameCommand,
		NameType, NameFunctionalServices, NameMaintenanceCategory,
		NameActivityType, NamePosition, NameDetail,
	}
}

var namePrefixes = map[Name]string{
	NameQuantity:            "qty",
	NameContent:             "cnt",
	NameCalculation:         "calc",
	NameState:               "state",
	NameCommand:             "cmd",
	NameType:                "type",
	NameFunctionalServices:  "funct.svc",
	NameMaintenanceCategory: "maint.cat",
	NameActivityType:        "act.type",
	NamePosition:            "pos",
	NameDetail:              "detail",
}

var namesByPrefix = func() map[string]Name {
	m := make(map[string]Name, len(namePrefixes))
	for n, p := range namePrefixes {
		m[p] = n
	}
	return m
}()

// String returns the codebook name in readable form.
func (n Name) String() string {
	switch n {
	case NameQuantity:
		return "quantity"
	case NameContent:
		return "content"
	case NameCalculation:
		return "calculation"
	case NameState:
		return "state"
	case NameCommand:
		return "command"
	case NameType:
		return "type"
	case NameFunctionalServices:
		return "functional-services"
	case NameMaintenanceCategory:
		return "maintenance-category"
	case NameActivityType:
		return "activity-type"
	case NamePosition:
		return "position"
	case NameDetail:
		return "detail"
	default:
		return "unknown"
	}
}

// IsValid reports whether n is a defined codebook name.
func (n Name) IsValid() bool {
	_, ok := namePrefixes[n]
	return ok
}

// Prefix returns the short identifier-segment prefix for n, e.g. "qty".
// Panics for undefined names; the set is closed.
func (n Name) Prefix() string {
	p, ok := namePrefixes[n]
	if !ok {
		panic(errors.UnknownVocabulary("codebook name %d has no prefix", int(n)))
	}
	return p
}

// NameFromPrefix maps a short prefix back to its codebook name.
func NameFromPrefix(prefix string) (Name, error) {
	if n, ok := namesByPrefix[prefix]; ok {
		return n, nil
	}
	return 0, errors.UnknownVocabulary("codebook prefix %q", prefix)
}

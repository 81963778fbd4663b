// Package errors provides the standardized error families shared by all
// vismodel packages. It defines one sentinel per failure kind, helpers for
// consistent wrapping, and errors.Is-based predicates for classification.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an error into one of the model's failure families.
type Kind int

const (
	// KindUnknown is returned for errors that carry no known sentinel.
	KindUnknown Kind = iota
	// KindNotFound marks lookups of unknown node codes or versions.
	KindNotFound
	// KindInvalidStructure marks malformed path/identifier/location strings.
	KindInvalidStructure
	// KindAmbiguous marks path segments with no deterministic child selection.
	KindAmbiguous
	// KindIncomplete marks identifiers missing required parts.
	KindIncomplete
	// KindUnknownVocabulary marks unrecognized codebook prefixes or values.
	KindUnknownVocabulary
	// KindConversionFailure marks cross-version conversions that cannot complete.
	KindConversionFailure
	// KindConfigurationFault marks structural inconsistencies in loaded data.
	KindConfigurationFault
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not-found"
	case KindInvalidStructure:
		return "invalid-structure"
	case KindAmbiguous:
		return "ambiguous"
	case KindIncomplete:
		return "incomplete"
	case KindUnknownVocabulary:
		return "unknown-vocabulary"
	case KindConversionFailure:
		return "conversion-failure"
	case KindConfigurationFault:
		return "configuration-fault"
	default:
		return "unknown"
	}
}

// Sentinel errors for the failure families defined by the model.
var (
	// ErrNotFound indicates an unknown node code or VIS version.
	ErrNotFound = errors.New("not found")
	// ErrInvalidStructure indicates a malformed path, identifier, or location string.
	ErrInvalidStructure = errors.New("invalid structure")
	// ErrAmbiguous indicates a path that cannot be resolved deterministically.
	ErrAmbiguous = errors.New("ambiguous path")
	// ErrIncomplete indicates a structurally valid but incomplete identifier
	// (missing primary item, zero metadata tags).
	ErrIncomplete = errors.New("incomplete identifier")
	// ErrUnknownVocabulary indicates an unrecognized codebook prefix, or a
	// non-standard value in a codebook that forbids custom values.
	ErrUnknownVocabulary = errors.New("unknown vocabulary")
	// ErrConversionFailure indicates a cross-version conversion with no
	// applicable rule and no stable identity, or a post-conversion
	// consistency check that failed. Non-retryable without fixing input data.
	ErrConversionFailure = errors.New("conversion failure")
	// ErrConfigurationFault indicates structurally inconsistent model data,
	// e.g. a traversal revisit limit exceeded due to malformed relations.
	// Non-retryable without fixing the underlying data.
	ErrConfigurationFault = errors.New("configuration fault")
)

// New returns an error that formats as the given text.
// Re-exported so callers never need both this package and stdlib errors.
func New(text string) error { return errors.New(text) }

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool { return errors.As(err, target) }

// Wrap annotates err with the component and operation that observed it,
// following the pattern "component.operation: action failed: err".
func Wrap(err error, component, operation, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, operation, action, err)
}

// NotFound builds a KindNotFound error with a formatted message.
func NotFound(format string, args ...any) error {
	return kindError(ErrNotFound, format, args...)
}

// InvalidStructure builds a KindInvalidStructure error with a formatted message.
func InvalidStructure(format string, args ...any) error {
	return kindError(ErrInvalidStructure, format, args...)
}

// Ambiguous builds a KindAmbiguous error with a formatted message.
func Ambiguous(format string, args ...any) error {
	return kindError(ErrAmbiguous, format, args...)
}

// Incomplete builds a KindIncomplete error with a formatted message.
func Incomplete(format string, args ...any) error {
	return kindError(ErrIncomplete, format, args...)
}

// UnknownVocabulary builds a KindUnknownVocabulary error with a formatted message.
func UnknownVocabulary(format string, args ...any) error {
	return kindError(ErrUnknownVocabulary, format, args...)
}

// ConversionFailure builds a KindConversionFailure error with a formatted message.
func ConversionFailure(format string, args ...any) error {
	return kindError(ErrConversionFailure, format, args...)
}

// ConfigurationFault builds a KindConfigurationFault error with a formatted message.
func ConfigurationFault(format string, args ...any) error {
	return kindError(ErrConfigurationFault, format, args...)
}

func kindError(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}

// IsNotFound reports whether err belongs to the not-found family.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsInvalidStructure reports whether err belongs to the invalid-structure family.
func IsInvalidStructure(err error) bool { return errors.Is(err, ErrInvalidStructure) }

// IsAmbiguous reports whether err belongs to the ambiguous family.
func IsAmbiguous(err error) bool { return errors.Is(err, ErrAmbiguous) }

// IsIncomplete reports whether err belongs to the incomplete family.
func IsIncomplete(err error) bool { return errors.Is(err, ErrIncomplete) }

// IsUnknownVocabulary reports whether err belongs to the unknown-vocabulary family.
func IsUnknownVocabulary(err error) bool { return errors.Is(err, ErrUnknownVocabulary) }

// IsConversionFailure reports whether err belongs to the conversion-failure family.
func IsConversionFailure(err error) bool { return errors.Is(err, ErrConversionFailure) }

// IsConfigurationFault reports whether err belongs to the configuration-fault family.
func IsConfigurationFault(err error) bool { return errors.Is(err, ErrConfigurationFault) }

// Classify returns the Kind for an error by walking its chain.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case IsNotFound(err):
		return KindNotFound
	case IsInvalidStructure(err):
		return KindInvalidStructure
	case IsAmbiguous(err):
		return KindAmbiguous
	case IsIncomplete(err):
		return KindIncomplete
	case IsUnknownVocabulary(err):
		return KindUnknownVocabulary
	case IsConversionFailure(err):
		return KindConversionFailure
	case IsConfigurationFault(err):
		return KindConfigurationFault
	default:
		return KindUnknown
	}
}

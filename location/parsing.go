package location

import (
	"fmt"
	"strings"
)

// ValidationResult identifies the failure class of one parsing diagnostic.
type ValidationResult int

const (
	// ResultInvalid covers structural violations such as trailing digits.
	ResultInvalid ValidationResult = iota
	// ResultInvalidCode marks letters outside the release vocabulary.
	ResultInvalidCode
	// ResultInvalidOrder marks letters that break canonical ordering.
	ResultInvalidOrder
	// ResultNullOrWhiteSpace marks empty or all-whitespace input.
	ResultNullOrWhiteSpace
)

// String returns the diagnostic class name.
func (r ValidationResult) String() string {
	switch r {
	case ResultInvalid:
		return "invalid"
	case ResultInvalidCode:
		return "invalid-code"
	case ResultInvalidOrder:
		return "invalid-order"
	case ResultNullOrWhiteSpace:
		return "null-or-whitespace"
	default:
		return "unknown"
	}
}

// Issue is one accumulated parsing diagnostic.
type Issue struct {
	Result  ValidationResult
	Message string
}

// Errors accumulates parsing diagnostics across a single parse pass.
type Errors []Issue

func (e Errors) add(result ValidationResult, format string, args ...any) Errors {
	return append(e, Issue{Result: result, Message: fmt.Sprintf(format, args...)})
}

// HasErrors reports whether any diagnostic was recorded.
func (e Errors) HasErrors() bool { return len(e) > 0 }

// Error joins all diagnostics into one message.
func (e Errors) Error() string {
	if len(e) == 0 {
		return ""
	}
	parts := make([]string, len(e))
	for i, issue := range e {
		parts[i] = fmt.Sprintf("%s: %s", issue.Result, issue.Message)
	}
	return strings.Join(parts, "; ")
}

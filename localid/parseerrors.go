package localid

import "strings"

// Issue is one recorded parsing problem with the state that produced it.
type Issue struct {
	State   ParsingState
	Message string
}

// ParseErrors accumulates every problem found during one parse. A nil or
// empty slice means the input parsed cleanly.
type ParseErrors []Issue

// HasErrors reports whether any problem was recorded.
func (e ParseErrors) HasErrors() bool { return len(e) > 0 }

// Has reports whether a problem was recorded in the given state.
func (e ParseErrors) Has(state ParsingState) bool {
	for _, issue := range e {
		if issue.State == state {
			return true
		}
	}
	return false
}

// Error renders all problems, one per line.
func (e ParseErrors) Error() string {
	if len(e) == 0 {
		return "success"
	}
	var sb strings.Builder
	sb.WriteString("parsing errors:")
	for _, issue := range e {
		sb.WriteString("\n\t")
		sb.WriteString(issue.State.String())
		sb.WriteString(" - ")
		sb.WriteString(issue.Message)
	}
	return sb.String()
}

// errorBuilder collects issues during one parse run.
type errorBuilder struct {
	issues ParseErrors
}

// add records a problem. An empty message falls back to the state's
// predefined description.
func (b *errorBuilder) add(state ParsingState, message string) {
	if message == "" {
		if predefined, ok := predefinedMessages[state]; ok {
			message = predefined
		} else {
			message = "error in state " + state.String()
		}
	}
	b.issues = append(b.issues, Issue{State: state, Message: message})
}

func (b *errorBuilder) hasErrors() bool { return len(b.issues) > 0 }

func (b *errorBuilder) build() ParseErrors { return b.issues }

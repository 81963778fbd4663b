package localid

// ParsingState identifies the segment of the identifier grammar the parser
// was consuming when it recorded an error. The metadata states are ordered
// the way the grammar orders their prefixes.
type ParsingState int

const (
	StateNamingRule ParsingState = iota
	StateVisVersion
	StatePrimaryItem
	StateSecondaryItemPrefix
	StateSecondaryItem
	StateItemDescription
	StateMetaQuantity
	StateMetaContent
	StateMetaCalculation
	StateMetaState
	StateMetaCommand
	StateMetaType
	StateMetaPosition
	StateMetaDetail
	StateStop

	// Terminal error states. These never drive the machine; they only
	// attribute errors that have no grammar segment.
	StateEmpty
	StateFormatting
	StateCompleteness
)

// String returns the state name.
func (s ParsingState) String() string {
	switch s {
	case StateNamingRule:
		return "NamingRule"
	case StateVisVersion:
		return "VisVersion"
	case StatePrimaryItem:
		return "PrimaryItem"
	case StateSecondaryItemPrefix:
		return "SecondaryItemPrefix"
	case StateSecondaryItem:
		return "SecondaryItem"
	case StateItemDescription:
		return "ItemDescription"
	case StateMetaQuantity:
		return "MetaQuantity"
	case StateMetaContent:
		return "MetaContent"
	case StateMetaCalculation:
		return "MetaCalculation"
	case StateMetaState:
		return "MetaState"
	case StateMetaCommand:
		return "MetaCommand"
	case StateMetaType:
		return "MetaType"
	case StateMetaPosition:
		return "MetaPosition"
	case StateMetaDetail:
		return "MetaDetail"
	case StateStop:
		return "Stop"
	case StateEmpty:
		return "Empty"
	case StateFormatting:
		return "Formatting"
	case StateCompleteness:
		return "Completeness"
	default:
		return "Unknown"
	}
}

var predefinedMessages = map[ParsingState]string{
	StateNamingRule:      "missing or invalid naming rule",
	StateVisVersion:      "missing or invalid vis version",
	StatePrimaryItem:     "invalid or missing primary item, local ids require at least a primary item and one metadata tag",
	StateSecondaryItem:   "invalid secondary item",
	StateItemDescription: "missing or invalid /meta prefix",
	StateMetaQuantity:    "invalid metadata tag: quantity",
	StateMetaContent:     "invalid metadata tag: content",
	StateMetaCalculation: "invalid metadata tag: calculation",
	StateMetaState:       "invalid metadata tag: state",
	StateMetaCommand:     "invalid metadata tag: command",
	StateMetaType:        "invalid metadata tag: type",
	StateMetaPosition:    "invalid metadata tag: position",
	StateMetaDetail:      "invalid metadata tag: detail",
	StateEmpty:           "missing primary path or metadata",
}

var metaPrefixStates = map[string]ParsingState{
	"qty":    StateMetaQuantity,
	"cnt":    StateMetaContent,
	"calc":   StateMetaCalculation,
	"state":  StateMetaState,
	"cmd":    StateMetaCommand,
	"type":   StateMetaType,
	"pos":    StateMetaPosition,
	"detail": StateMetaDetail,
}

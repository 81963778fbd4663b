package localid

import (
	"fmt"
	"strings"

	"github.com/c360/vismodel/codebook"
	"github.com/c360/vismodel/errors"
	"github.com/c360/vismodel/gmod"
	"github.com/c360/vismodel/vis"
)

// Resolver hands out the loaded taxonomy and vocabularies of a release.
// The registry implements it; tests may supply fixtures.
type Resolver interface {
	Gmod(version vis.Version) (*gmod.Gmod, error)
	Codebooks(version vis.Version) (*codebook.Codebooks, error)
}

// Parser parses identifier strings against the releases a Resolver can
// load. Safe for concurrent use.
type Parser struct {
	resolver Resolver
}

// NewParser returns a parser resolving releases through resolver.
func NewParser(resolver Resolver) *Parser {
	return &Parser{resolver: resolver}
}

// Parse parses and verifies an identifier, failing with every accumulated
// problem when the input is not a valid local id.
func (p *Parser) Parse(s string) (*LocalId, error) {
	builder, errs, ok := p.TryParse(s)
	if !ok {
		msg := "unparseable input"
		if errs.HasErrors() {
			msg = errs.Error()
		}
		return nil, errors.InvalidStructure("local id %q: %s", s, msg)
	}
	return builder.Build()
}

// TryParse runs the state machine over s, returning the assembled builder,
// every problem found, and whether the input parsed cleanly. The builder is
// only meaningful when ok is true.
func (p *Parser) TryParse(s string) (Builder, ParseErrors, bool) {
	var eb errorBuilder
	builder, ok := p.tryParseInternal(s, &eb)
	return builder, eb.build(), ok
}

var metaStateBooks = map[ParsingState]codebook.Name{
	StateMetaQuantity:    codebook.NameQuantity,
	StateMetaContent:     codebook.NameContent,
	StateMetaCalculation: codebook.NameCalculation,
	StateMetaState:       codebook.NameState,
	StateMetaCommand:     codebook.NameCommand,
	StateMetaType:        codebook.NameType,
	StateMetaPosition:    codebook.NamePosition,
	StateMetaDetail:      codebook.NameDetail,
}

func (p *Parser) tryParseInternal(s string, eb *errorBuilder) (Builder, bool) {
	if s == "" {
		return Builder{}, false
	}
	if s[0] != '/' {
		eb.add(StateFormatting, "invalid format: missing '/' as first character")
		return Builder{}, false
	}

	var (
		version          vis.Version
		g                *gmod.Gmod
		books            *codebook.Codebooks
		primary          *gmod.Path
		secondary        *gmod.Path
		verbose          bool
		invalidSecondary bool
	)
	tags := make(map[ParsingState]*codebook.Tag)
	primaryStart := -1
	secondaryStart := -1

	i := 1
	state := StateNamingRule

parseLoop:
	for state <= StateMetaDetail {
		start := i
		if start > len(s) {
			start = len(s)
		}
		segment := s[start:]
		if slash := strings.IndexByte(segment, '/'); slash != -1 {
			segment = segment[:slash]
		}

		switch state {
		case StateNamingRule:
			if segment == "" {
				eb.add(StateNamingRule, "")
				state++
				continue
			}
			if segment != NamingRule {
				eb.add(StateNamingRule, "")
				return Builder{}, false
			}
			i = advancePosition(i, segment)
			state++

		case StateVisVersion:
			if segment == "" {
				eb.add(StateVisVersion, "")
				state++
				continue
			}
			if !strings.HasPrefix(segment, "vis-") {
				eb.add(StateVisVersion, "")
				return Builder{}, false
			}
			parsed, err := vis.Parse(strings.TrimPrefix(segment, "vis-"))
			if err != nil {
				eb.add(StateVisVersion, "")
				return Builder{}, false
			}
			version = parsed
			if g, err = p.resolver.Gmod(version); err != nil {
				eb.add(StateVisVersion, fmt.Sprintf("release %s unavailable", version))
				return Builder{}, false
			}
			if books, err = p.resolver.Codebooks(version); err != nil {
				eb.add(StateVisVersion, fmt.Sprintf("release %s unavailable", version))
				return Builder{}, false
			}
			i = advancePosition(i, segment)
			state++

		case StatePrimaryItem:
			if g == nil {
				return Builder{}, false
			}
			if segment == "" {
				if primaryStart != -1 {
					path := s[primaryStart : i-1]
					if parsed, ok := g.TryParsePath(path); ok {
						primary = parsed
					} else {
						eb.add(StatePrimaryItem, fmt.Sprintf("invalid path in primary item: %s", path))
					}
				} else {
					eb.add(StatePrimaryItem, "")
				}
				eb.add(StatePrimaryItem, "invalid or missing '/meta' prefix after primary item")
				state++
				continue
			}

			code := segment
			if dash := strings.IndexByte(segment, '-'); dash != -1 {
				code = segment[:dash]
			}

			if primaryStart == -1 {
				// Only the first node is checked here; the full path parse
				// at the state transition covers the rest.
				if _, ok := g.TryNode(code); !ok {
					eb.add(StatePrimaryItem, fmt.Sprintf("invalid start node in primary item: %s", code))
				}
				primaryStart = i
				i = advancePosition(i, segment)
				continue
			}

			nextState := state
			switch {
			case strings.HasPrefix(segment, "sec"):
				nextState = StateSecondaryItem
			case strings.HasPrefix(segment, "meta"):
				nextState = StateMetaQuantity
			case segment[0] == '~':
				nextState = StateItemDescription
			}
			if nextState != state {
				path := s[primaryStart : i-1]
				if parsed, ok := g.TryParsePath(path); ok {
					primary = parsed
				} else {
					eb.add(StatePrimaryItem, fmt.Sprintf("invalid path in primary item: %s", path))
				}
				if nextState != StateItemDescription {
					i = advancePosition(i, segment)
				}
				state = nextState
				continue
			}

			if _, ok := g.TryNode(code); !ok {
				eb.add(StatePrimaryItem, fmt.Sprintf("invalid node in primary item: %s", code))

				nextIdx, endIdx := nextStateIndexes(s, state)
				if nextIdx == -1 {
					eb.add(StatePrimaryItem, "invalid or missing '/meta' prefix after primary item")
					return Builder{}, false
				}
				switch rest := s[nextIdx+1:]; {
				case strings.HasPrefix(rest, "sec"):
					state = StateSecondaryItem
				case strings.HasPrefix(rest, "meta"):
					state = StateMetaQuantity
				case strings.HasPrefix(rest, "~"):
					state = StateItemDescription
				default:
					eb.add(StatePrimaryItem, "inconsistent parsing state")
					return Builder{}, false
				}
				eb.add(StatePrimaryItem,
					fmt.Sprintf("invalid path: last part in primary item: %s", s[i:nextIdx]))
				i = endIdx
				continue
			}
			i = advancePosition(i, segment)

		case StateSecondaryItem:
			if g == nil {
				return Builder{}, false
			}
			if segment == "" {
				// Leave the missing '/meta' detection to the end logic when
				// the item already failed.
				if invalidSecondary {
					break parseLoop
				}
				state++
				continue
			}

			code := segment
			if dash := strings.IndexByte(segment, '-'); dash != -1 {
				code = segment[:dash]
			}

			if secondaryStart == -1 {
				if _, ok := g.TryNode(code); !ok {
					eb.add(StateSecondaryItem, fmt.Sprintf("invalid start node in secondary item: %s", code))
				}
				secondaryStart = i
				i = advancePosition(i, segment)
				continue
			}

			nextState := state
			switch {
			case strings.HasPrefix(segment, "meta"):
				nextState = StateMetaQuantity
			case segment[0] == '~':
				nextState = StateItemDescription
			}
			if nextState != state {
				path := s[secondaryStart : i-1]
				if parsed, ok := g.TryParsePath(path); ok {
					secondary = parsed
				} else {
					invalidSecondary = true
					eb.add(StateSecondaryItem, fmt.Sprintf("invalid path in secondary item: %s", path))
					if _, endIdx := nextStateIndexes(s, state); endIdx != -1 {
						i = endIdx
						state = nextState
						continue
					}
				}
				if nextState != StateItemDescription {
					i = advancePosition(i, segment)
				}
				state = nextState
				continue
			}

			if _, ok := g.TryNode(code); !ok {
				invalidSecondary = true
				eb.add(StateSecondaryItem, fmt.Sprintf("invalid node in secondary item: %s", code))

				nextIdx, endIdx := nextStateIndexes(s, state)
				if nextIdx == -1 {
					eb.add(StateSecondaryItem, "invalid or missing '/meta' prefix after secondary item")
					return Builder{}, false
				}
				eb.add(StateSecondaryItem,
					fmt.Sprintf("invalid path: last part in secondary item: %s", s[i:nextIdx]))
				switch rest := s[nextIdx+1:]; {
				case strings.HasPrefix(rest, "meta"):
					state = StateMetaQuantity
				case strings.HasPrefix(rest, "~"):
					state = StateItemDescription
				default:
					eb.add(StateSecondaryItem, "inconsistent parsing state")
					return Builder{}, false
				}
				i = endIdx
				continue
			}
			i = advancePosition(i, segment)

		case StateItemDescription:
			if segment == "" {
				state++
				continue
			}
			verbose = true
			metaIdx := strings.Index(s, "/meta")
			if metaIdx == -1 || metaIdx+len("/meta") < i {
				eb.add(StateItemDescription, "")
				return Builder{}, false
			}
			// Swallow everything up to and including "/meta" in one step.
			i = advancePosition(i, s[i:metaIdx+len("/meta")])
			state++

		case StateMetaQuantity, StateMetaContent, StateMetaCalculation, StateMetaState,
			StateMetaCommand, StateMetaType, StateMetaPosition, StateMetaDetail:
			if segment == "" {
				state++
				continue
			}
			entryState := state
			ok, newI, newState, tag := p.parseMetaTag(
				metaStateBooks[state], state, i, segment, tags[state], books, eb)
			if !ok {
				return Builder{}, false
			}
			i, state = newI, newState
			tags[entryState] = tag

		default:
			i = advancePosition(i, segment)
			state++
		}
	}

	if !version.IsValid() {
		return Builder{}, false
	}

	builder := New(version).
		WithPrimaryItem(primary).
		WithSecondaryItem(secondary).
		WithVerboseMode(verbose)
	for _, tag := range tags {
		if tag == nil {
			continue
		}
		withTag, err := builder.WithMetadataTag(*tag)
		if err != nil {
			return Builder{}, false
		}
		builder = withTag
	}

	if builder.IsEmptyMetadata() {
		eb.add(StateCompleteness, "no metadata tags specified, local ids require at least one metadata tag")
	}

	ok := !eb.hasErrors() && !invalidSecondary
	return builder, ok
}

// parseMetaTag consumes one "<prefix><sep><value>" segment in a metadata
// state. A segment carrying a later prefix switches state without
// consuming; an earlier or unknown prefix fails the parse.
func (p *Parser) parseMetaTag(
	name codebook.Name,
	state ParsingState,
	i int,
	segment string,
	existing *codebook.Tag,
	books *codebook.Codebooks,
	eb *errorBuilder,
) (bool, int, ParsingState, *codebook.Tag) {
	if books == nil {
		return false, i, state, nil
	}

	dash := strings.IndexByte(segment, '-')
	tilde := strings.IndexByte(segment, '~')
	prefixIdx := dash
	if dash == -1 {
		prefixIdx = tilde
	}
	if prefixIdx == -1 {
		eb.add(state, fmt.Sprintf("invalid metadata tag: missing prefix '-' or '~' in %s", segment))
		return true, advancePosition(i, segment), state + 1, existing
	}

	prefix := segment[:prefixIdx]
	actualState, known := metaPrefixStates[prefix]
	if !known || actualState < state {
		eb.add(state, fmt.Sprintf("invalid metadata tag: unknown prefix %s", prefix))
		return false, i, state, existing
	}
	if actualState > state {
		return true, i, actualState, existing
	}

	value := segment[prefixIdx+1:]
	if value == "" {
		eb.add(state, fmt.Sprintf("invalid %s metadata tag: missing value", name))
		return false, i, state, existing
	}

	customSyntax := prefixIdx == tilde
	var (
		tag  codebook.Tag
		made bool
	)
	if customSyntax {
		if !vis.IsISOString(value) {
			eb.add(state, fmt.Sprintf(
				"invalid custom %s metadata tag: not a valid ISO string: %s", name, value))
			return false, advancePosition(i, segment), state + 1, existing
		}
		custom, err := codebook.CustomTag(name, value)
		tag, made = custom, err == nil
	} else {
		tag, made = books.TryCreateTag(name, value)
	}

	if !made {
		if customSyntax {
			eb.add(state, fmt.Sprintf(
				"invalid custom %s metadata tag: failed to create %s", name, value))
		} else {
			eb.add(state, fmt.Sprintf(
				"invalid %s metadata tag: %s, tag may not exist in codebook", name, value))
		}
		return true, advancePosition(i, segment), state + 1, nil
	}

	if prefixIdx == dash && tag.Separator() == '~' {
		eb.add(state, fmt.Sprintf(
			"invalid %s metadata tag: %s, use prefix '~' for custom values", name, value))
	}

	return true, advancePosition(i, segment), state + 1, &tag
}

// nextStateIndexes finds where the next grammar section starts, so the
// parser can resynchronize after an invalid item segment. Returns the
// marker index and the position just past it, or -1 when absent.
func nextStateIndexes(s string, state ParsingState) (int, int) {
	customIdx := strings.IndexByte(s, '~')
	endOfCustom := -1
	if customIdx != -1 {
		endOfCustom = customIdx + 2
	}
	metaIdx := strings.Index(s, "/meta")
	endOfMeta := -1
	if metaIdx != -1 {
		endOfMeta = metaIdx + len("/meta") + 1
	}

	if state == StatePrimaryItem {
		if secIdx := strings.Index(s, "/sec"); secIdx != -1 {
			return secIdx, secIdx + len("/sec") + 1
		}
	}
	if state == StatePrimaryItem || state == StateSecondaryItem {
		if customIdx != -1 {
			return customIdx, endOfCustom
		}
	}
	return metaIdx, endOfMeta
}

func advancePosition(i int, segment string) int {
	return i + len(segment) + 1
}

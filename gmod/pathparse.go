package gmod

import (
	"strings"

	"github.com/c360/vismodel/errors"
	"github.com/c360/vismodel/location"
)

// pathToken is one parsed "code" or "code-location" segment.
type pathToken struct {
	code        string
	location    location.Location
	hasLocation bool
}

// ParsePath parses the short path form: "/"-separated code segments, each
// optionally suffixed "-<location>". The first segment anchors a traversal
// that resolves the remaining segments and completes the chain upward to
// the root; a chain that cannot complete through single-parent links fails
// as ambiguous.
func (g *Gmod) ParsePath(s string) (*Path, error) {
	path, err := g.parsePathInternal(s)
	if err != nil {
		return nil, errors.Wrap(err, "gmod", "ParsePath", "parse "+s)
	}
	return path, nil
}

// TryParsePath is ParsePath without error detail.
func (g *Gmod) TryParsePath(s string) (*Path, bool) {
	path, err := g.parsePathInternal(s)
	return path, err == nil
}

func (g *Gmod) parsePathInternal(s string) (*Path, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "/")
	if trimmed == "" {
		return nil, errors.InvalidStructure("path is empty")
	}

	var tokens []pathToken
	for _, segment := range strings.Split(trimmed, "/") {
		token, err := g.parseSegment(segment)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}

	baseNode, ok := g.nodes[tokens[0].code]
	if !ok {
		return nil, errors.NotFound("base node %q in gmod %s", tokens[0].code, g.version)
	}

	ctx := &pathParseContext{
		gmod:      g,
		remaining: tokens[1:],
		toFind:    tokens[0],
		locations: make(map[string]location.Location),
	}

	completed, err := g.TraverseFrom(baseNode, ctx.handle)
	if err != nil {
		return nil, err
	}
	if ctx.err != nil {
		return nil, ctx.err
	}
	if completed || ctx.path == nil {
		return nil, errors.NotFound("no path found for %q in gmod %s", s, g.version)
	}
	return ctx.path, nil
}

func (g *Gmod) parseSegment(segment string) (pathToken, error) {
	if segment == "" {
		return pathToken{}, errors.InvalidStructure("empty path segment")
	}
	dash := strings.IndexByte(segment, '-')
	if dash == -1 {
		if _, ok := g.nodes[segment]; !ok {
			return pathToken{}, errors.NotFound("node %q in gmod %s", segment, g.version)
		}
		return pathToken{code: segment}, nil
	}

	code := segment[:dash]
	locStr := segment[dash+1:]
	if _, ok := g.nodes[code]; !ok {
		return pathToken{}, errors.NotFound("node %q from segment %q in gmod %s", code, segment, g.version)
	}
	loc, ok := g.locations.TryParse(locStr)
	if !ok {
		return pathToken{}, errors.InvalidStructure(
			"location %q in segment %q for gmod %s", locStr, segment, g.version)
	}
	return pathToken{code: code, location: loc, hasLocation: true}, nil
}

// pathParseContext resolves the token list against the graph during one
// traversal from the base node.
type pathParseContext struct {
	gmod      *Gmod
	remaining []pathToken
	toFind    pathToken
	locations map[string]location.Location
	path      *Path
	err       error
}

func (ctx *pathParseContext) handle(parents []*Node, current *Node) HandlerResult {
	found := current.code == ctx.toFind.code

	if !found && current.IsLeafNode() {
		return SkipSubtree
	}
	if !found {
		return Continue
	}

	if ctx.toFind.hasLocation {
		ctx.locations[ctx.toFind.code] = ctx.toFind.location
	}

	if len(ctx.remaining) > 0 {
		ctx.toFind = ctx.remaining[0]
		ctx.remaining = ctx.remaining[1:]
		return Continue
	}

	// All tokens matched. Assemble the chain seen during traversal, then
	// complete it upward to the root through single-parent links.
	pathParents := make([]*Node, 0, len(parents)+8)
	for _, parent := range parents {
		if loc, ok := ctx.locations[parent.code]; ok {
			pathParents = append(pathParents, parent.WithLocation(loc))
		} else {
			pathParents = append(pathParents, parent)
		}
	}
	endNode := current
	if ctx.toFind.hasLocation {
		endNode = current.WithLocation(ctx.toFind.location)
	}

	var startNode *Node
	if len(pathParents) > 0 {
		if len(pathParents[0].parents) == 1 {
			startNode = pathParents[0].parents[0]
		}
	} else if len(endNode.parents) == 1 {
		startNode = endNode.parents[0]
	}
	if startNode == nil || len(startNode.parents) > 1 {
		ctx.err = errors.Ambiguous(
			"cannot complete path upward from %q through multi-parent links", current.code)
		return Stop
	}

	for len(startNode.parents) == 1 {
		pathParents = append([]*Node{startNode}, pathParents...)
		startNode = startNode.parents[0]
		if len(startNode.parents) > 1 {
			ctx.err = errors.Ambiguous(
				"cannot complete path upward from %q through multi-parent links", startNode.code)
			return Stop
		}
	}
	pathParents = append([]*Node{ctx.gmod.root}, pathParents...)

	// Spread each set's location over all its members.
	visitor := newLocationSetsVisitor()
	for i := 0; i <= len(pathParents); i++ {
		n := nodeAtDepth(pathParents, endNode, i)
		set, err := visitor.visit(n, i, pathParents, endNode)
		if err != nil {
			ctx.err = err
			return Stop
		}
		if set == nil {
			if !n.location.IsEmpty() {
				ctx.err = errors.InvalidStructure(
					"node %q carries a location but is not individualizable here", n.code)
				return Stop
			}
			continue
		}
		if set.start == set.end {
			continue
		}
		for j := set.start; j <= set.end; j++ {
			if j < len(pathParents) {
				pathParents[j] = pathParents[j].WithLocation(set.location)
			} else {
				endNode = endNode.WithLocation(set.location)
			}
		}
	}

	path, err := NewPath(pathParents, endNode)
	if err != nil {
		ctx.err = err
		return Stop
	}
	ctx.path = path
	return Stop
}

// ParseFullPath parses the full path form: every node from the root,
// "/"-separated, each optionally suffixed "-<location>". Location spread
// across individualizable sets is verified for consistency rather than
// inferred.
func (g *Gmod) ParseFullPath(s string) (*Path, error) {
	path, err := g.parseFullPathInternal(s)
	if err != nil {
		return nil, errors.Wrap(err, "gmod", "ParseFullPath", "parse "+s)
	}
	return path, nil
}

// TryParseFullPath is ParseFullPath without error detail.
func (g *Gmod) TryParseFullPath(s string) (*Path, bool) {
	path, err := g.parseFullPathInternal(s)
	return path, err == nil
}

func (g *Gmod) parseFullPathInternal(s string) (*Path, error) {
	if strings.TrimSpace(s) == "" {
		return nil, errors.InvalidStructure("path is empty")
	}
	if !strings.HasPrefix(s, g.root.code) {
		return nil, errors.InvalidStructure("full path must start with %q", g.root.code)
	}

	var nodes []*Node
	for _, segment := range strings.Split(s, "/") {
		token, err := g.parseSegment(segment)
		if err != nil {
			return nil, err
		}
		node := g.nodes[token.code]
		if token.hasLocation {
			node = node.WithLocation(token.location)
		}
		nodes = append(nodes, node)
	}
	if len(nodes) < 2 {
		return nil, errors.InvalidStructure("full path %q has no target below the root", s)
	}

	endNode := nodes[len(nodes)-1]
	parents := nodes[:len(nodes)-1]
	if ok, _ := ValidatePathChain(parents, endNode); !ok {
		return nil, errors.InvalidStructure("node sequence in %q is not a valid chain", s)
	}

	visitor := newLocationSetsVisitor()
	prevNonNullLocation := -1
	var sets [][2]int
	for i := 0; i <= len(parents); i++ {
		n := nodeAtDepth(parents, endNode, i)
		set, err := visitor.visit(n, i, parents, endNode)
		if err != nil {
			return nil, err
		}
		if set == nil {
			if prevNonNullLocation == -1 && !n.location.IsEmpty() {
				prevNonNullLocation = i
			}
			continue
		}
		if prevNonNullLocation != -1 {
			for j := prevNonNullLocation; j < set.start; j++ {
				if pn := nodeAtDepth(parents, endNode, j); !pn.location.IsEmpty() {
					return nil, errors.InvalidStructure(
						"node %q outside any individualizable set carries a location", pn.code)
				}
			}
		}
		prevNonNullLocation = -1
		sets = append(sets, [2]int{set.start, set.end})
		if set.start == set.end || set.location.IsEmpty() {
			continue
		}
		for j := set.start; j <= set.end; j++ {
			if j < len(parents) {
				parents[j] = parents[j].WithLocation(set.location)
			} else {
				endNode = endNode.WithLocation(set.location)
			}
		}
	}

	currentSet := [2]int{-1, -1}
	currentSetIndex := 0
	for i := 0; i <= len(parents); i++ {
		for currentSetIndex < len(sets) && currentSet[1] < i {
			currentSet = sets[currentSetIndex]
			currentSetIndex++
		}
		insideSet := i >= currentSet[0] && i <= currentSet[1]
		n := nodeAtDepth(parents, endNode, i)

		expected := endNode
		if currentSet[1] != -1 && currentSet[1] < len(parents) {
			expected = parents[currentSet[1]]
		}

		if insideSet {
			if !n.location.Equal(expected.location) {
				return nil, errors.InvalidStructure(
					"node %q individualized differently from its set", n.code)
			}
		} else if !n.location.IsEmpty() {
			return nil, errors.InvalidStructure(
				"node %q outside any individualizable set carries a location", n.code)
		}
	}

	return NewPathUnchecked(parents, endNode), nil
}

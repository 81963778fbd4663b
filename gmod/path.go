package gmod

import (
	"strings"

	"github.com/c360/vismodel/errors"
	"github.com/c360/vismodel/vis"
)

// Path is a validated root-to-target route through the taxonomy. The
// parents run from the root to the target's direct parent; the target is
// held separately. Paths are value objects: mutating operations return
// copies.
type Path struct {
	parents []*Node
	node    *Node
}

// NewPath builds a verified path: the first parent must be the release
// root, every consecutive pair must be a parent-child edge, and the
// individualizable-set structure must be consistent.
func NewPath(parents []*Node, node *Node) (*Path, error) {
	if len(parents) == 0 {
		return nil, errors.InvalidStructure(
			"path has no parents and %q is not the root", node.code)
	}
	if !parents[0].IsRoot() {
		return nil, errors.InvalidStructure(
			"path must start at %q, got %q", RootCode, parents[0].code)
	}
	for i := 0; i < len(parents); i++ {
		child := node
		if i+1 < len(parents) {
			child = parents[i+1]
		}
		if !parents[i].IsChild(child.code) {
			return nil, errors.InvalidStructure(
				"%q is not a child of %q", child.code, parents[i].code)
		}
	}

	visitor := newLocationSetsVisitor()
	for i := 0; i <= len(parents); i++ {
		if _, err := visitor.visit(nodeAtDepth(parents, node, i), i, parents, node); err != nil {
			return nil, err
		}
	}

	return &Path{parents: parents, node: node}, nil
}

// NewPathUnchecked builds a path without verification. For trusted internal
// callers holding traversal-derived chains only.
func NewPathUnchecked(parents []*Node, node *Node) *Path {
	return &Path{parents: parents, node: node}
}

// ValidatePathChain checks root anchoring and adjacency, returning the
// parent index of the first missing link, or -1.
func ValidatePathChain(parents []*Node, node *Node) (bool, int) {
	if len(parents) == 0 {
		return false, -1
	}
	if !parents[0].IsRoot() {
		return false, -1
	}
	for i := 0; i < len(parents); i++ {
		child := node
		if i+1 < len(parents) {
			child = parents[i+1]
		}
		if !parents[i].IsChild(child.code) {
			return false, i
		}
	}
	return true, -1
}

// Parents returns the parent chain. Callers must not mutate it.
func (p *Path) Parents() []*Node { return p.parents }

// Node returns the path target.
func (p *Path) Node() *Node { return p.node }

// Version returns the release the path belongs to.
func (p *Path) Version() vis.Version { return p.node.version }

// Length counts the parents plus the target.
func (p *Path) Length() int { return len(p.parents) + 1 }

// NodeAt returns the node at a depth, the target being the deepest.
func (p *Path) NodeAt(depth int) *Node {
	if depth < len(p.parents) {
		return p.parents[depth]
	}
	return p.node
}

func (p *Path) setNodeAt(depth int, node *Node) {
	if depth < len(p.parents) {
		p.parents[depth] = node
	} else {
		p.node = node
	}
}

func (p *Path) clone() *Path {
	parents := make([]*Node, len(p.parents))
	copy(parents, p.parents)
	return &Path{parents: parents, node: p.node}
}

// IsMappable reports whether the target accepts direct sensor mapping.
func (p *Path) IsMappable() bool { return p.node.IsMappable() }

// Equal compares paths node by node.
func (p *Path) Equal(other *Path) bool {
	if other == nil {
		return false
	}
	if len(p.parents) != len(other.parents) {
		return false
	}
	for i := range p.parents {
		if !p.parents[i].Equal(other.parents[i]) {
			return false
		}
	}
	return p.node.Equal(other.node)
}

// WithoutLocations strips every location from the path.
func (p *Path) WithoutLocations() *Path {
	parents := make([]*Node, len(p.parents))
	for i, parent := range p.parents {
		parents[i] = parent.WithoutLocation()
	}
	return &Path{parents: parents, node: p.node.WithoutLocation()}
}

// String renders the short form: leaf parents plus the target, joined by
// "/", each with its location suffix.
func (p *Path) String() string {
	var parts []string
	for _, parent := range p.parents {
		if parent.IsLeafNode() {
			parts = append(parts, parent.String())
		}
	}
	parts = append(parts, p.node.String())
	return strings.Join(parts, "/")
}

// FullPathString renders every node from the root.
func (p *Path) FullPathString() string {
	parts := make([]string, 0, p.Length())
	for i := 0; i < p.Length(); i++ {
		parts = append(parts, p.NodeAt(i).String())
	}
	return strings.Join(parts, "/")
}

// IndividualizableSets returns every individualizable run in the path.
func (p *Path) IndividualizableSets() ([]*IndividualizableSet, error) {
	visitor := newLocationSetsVisitor()
	var result []*IndividualizableSet
	for i := 0; i < p.Length(); i++ {
		set, err := visitor.visit(p.NodeAt(i), i, p.parents, p.node)
		if err != nil {
			return nil, err
		}
		if set == nil {
			continue
		}
		indices := make([]int, 0, set.end-set.start+1)
		for j := set.start; j <= set.end; j++ {
			indices = append(indices, j)
		}
		indivSet, err := newIndividualizableSet(indices, p)
		if err != nil {
			return nil, err
		}
		result = append(result, indivSet)
	}
	return result, nil
}

// IsIndividualizable reports whether any node in the path may carry a
// location.
func (p *Path) IsIndividualizable() bool {
	visitor := newLocationSetsVisitor()
	for i := 0; i < p.Length(); i++ {
		set, err := visitor.visit(p.NodeAt(i), i, p.parents, p.node)
		if err != nil {
			return false
		}
		if set != nil {
			return true
		}
	}
	return false
}

// NormalAssignmentName resolves the assignment-name override declared by
// the node at depth for the deepest matching descendant.
func (p *Path) NormalAssignmentName(depth int) (string, bool) {
	names := p.NodeAt(depth).metadata.NormalAssignmentNames
	if len(names) == 0 {
		return "", false
	}
	for i := p.Length() - 1; i >= 0; i-- {
		if name, ok := names[p.NodeAt(i).code]; ok && name != "" {
			return name, true
		}
	}
	return "", false
}

// CommonName pairs a depth with the display name resolved for that node.
type CommonName struct {
	Depth int
	Name  string
}

// CommonNames resolves the display name of each short-path node, applying
// assignment-name overrides from descendants.
func (p *Path) CommonNames() []CommonName {
	var out []CommonName
	for depth := 0; depth < p.Length(); depth++ {
		node := p.NodeAt(depth)
		isTarget := depth == len(p.parents)
		if !(node.IsLeafNode() || isTarget) || !node.IsFunctionNode() {
			continue
		}

		name := node.metadata.CommonName
		if name == "" {
			name = node.metadata.Name
		}
		if names := node.metadata.NormalAssignmentNames; len(names) > 0 {
			if assignment, ok := names[p.node.code]; ok && assignment != "" {
				name = assignment
			}
			for i := len(p.parents) - 1; i >= depth; i-- {
				if assignment, ok := names[p.parents[i].code]; ok && assignment != "" {
					name = assignment
				}
			}
		}
		out = append(out, CommonName{Depth: depth, Name: name})
	}
	return out
}

// VerboseString renders the short-path common names with spaces and
// non-ISO characters collapsed to spaceDelimiter, each followed by its
// location and endDelimiter.
func (p *Path) VerboseString(spaceDelimiter, endDelimiter string) string {
	var sb strings.Builder
	names := p.CommonNames()
	for idx, cn := range names {
		appendNormalizedName(&sb, cn.Name, spaceDelimiter)
		if loc := p.NodeAt(cn.Depth).location; !loc.IsEmpty() {
			sb.WriteString(spaceDelimiter)
			sb.WriteString(loc.Value())
		}
		if idx != len(names)-1 {
			sb.WriteString(endDelimiter)
		}
	}
	return sb.String()
}

// appendNormalizedName lowers a display name into the identifier charset:
// slashes drop, spaces and non-ISO characters become delim, and repeated
// separators collapse.
func appendNormalizedName(sb *strings.Builder, name, delim string) {
	prev := ""
	for _, ch := range name {
		if ch == '/' {
			continue
		}
		if prev == " " && ch == ' ' {
			continue
		}
		current := string(ch)
		if ch == ' ' || !vis.IsISOString(current) {
			current = delim
		}
		if current == "." && prev == "." {
			continue
		}
		sb.WriteString(current)
		prev = current
	}
}

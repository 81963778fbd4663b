package gmod

import (
	"strings"

	"github.com/c360/vismodel/errors"
	"github.com/c360/vismodel/location"
)

// nodeSet is one individualizable run inside a path: the inclusive depth
// range plus the location shared by its members.
type nodeSet struct {
	start    int
	end      int
	location location.Location
}

// locationSetsVisitor scans a path depth by depth and reports each
// individualizable set exactly once, at the depth where the set closes.
// One visitor instance serves one scan; state carries across visits.
type locationSetsVisitor struct {
	currentParentStart int
}

func newLocationSetsVisitor() *locationSetsVisitor {
	return &locationSetsVisitor{currentParentStart: -1}
}

func (v *locationSetsVisitor) visit(node *Node, i int, parents []*Node, target *Node) (*nodeSet, error) {
	isParent := IsPotentialParentType(node.metadata.Type)
	isTargetNode := i == len(parents)

	if v.currentParentStart == -1 {
		if isParent {
			v.currentParentStart = i
		}
		if node.IsIndividualizable(isTargetNode, false) {
			return &nodeSet{start: i, end: i, location: node.location}, nil
		}
		return nil, nil
	}

	var set *nodeSet
	if isParent || isTargetNode {
		if v.currentParentStart+1 == i {
			if node.IsIndividualizable(isTargetNode, false) {
				set = &nodeSet{start: i, end: i, location: node.location}
			}
		} else {
			collected, err := v.collect(parents, target, i)
			if err != nil {
				return nil, err
			}
			set = collected
		}
		v.currentParentStart = i
		if set != nil && hasLeafInSet(set, parents, target) {
			return set, nil
		}
	}

	if isTargetNode && node.IsIndividualizable(isTargetNode, false) {
		return &nodeSet{start: i, end: i, location: node.location}, nil
	}
	return nil, nil
}

func (v *locationSetsVisitor) collect(parents []*Node, target *Node, i int) (*nodeSet, error) {
	var set *nodeSet
	skippedOne := -1
	hasComposition := false

	for j := v.currentParentStart + 1; j <= i; j++ {
		setNode := nodeAtDepth(parents, target, j)
		if !setNode.IsIndividualizable(j == len(parents), true) {
			if set != nil {
				skippedOne = j
			}
			continue
		}

		if set != nil && !set.location.IsEmpty() && !setNode.location.IsEmpty() &&
			!set.location.Equal(setNode.location) {
			return nil, errors.InvalidStructure(
				"different locations %q and %q in one individualizable set",
				set.location, setNode.location)
		}
		if skippedOne != -1 {
			return nil, errors.InvalidStructure(
				"individualizable set interrupted at %q", setNode.code)
		}

		if setNode.IsFunctionComposition() {
			hasComposition = true
		}

		if set == nil {
			set = &nodeSet{start: j, end: j, location: setNode.location}
		} else {
			if set.location.IsEmpty() {
				set.location = setNode.location
			}
			set.end = j
		}
	}

	if set != nil && set.start == set.end && hasComposition {
		set = nil
	}
	return set, nil
}

func hasLeafInSet(set *nodeSet, parents []*Node, target *Node) bool {
	for j := set.start; j <= set.end; j++ {
		setNode := nodeAtDepth(parents, target, j)
		if setNode.IsLeafNode() || j == len(parents) {
			return true
		}
	}
	return false
}

func nodeAtDepth(parents []*Node, target *Node, depth int) *Node {
	if depth < len(parents) {
		return parents[depth]
	}
	return target
}

// IndividualizableSet is a run of path nodes that individualize together:
// assigning a location to the set assigns it to every member.
type IndividualizableSet struct {
	indices []int
	path    *Path
}

func newIndividualizableSet(indices []int, path *Path) (*IndividualizableSet, error) {
	if len(indices) == 0 {
		return nil, errors.InvalidStructure("individualizable set cannot be empty")
	}
	for _, i := range indices {
		if !path.NodeAt(i).IsIndividualizable(i == path.Length()-1, len(indices) > 1) {
			return nil, errors.InvalidStructure(
				"node %q at depth %d is not individualizable", path.NodeAt(i).code, i)
		}
	}
	first := path.NodeAt(indices[0]).location
	for _, i := range indices[1:] {
		if !path.NodeAt(i).location.Equal(first) {
			return nil, errors.InvalidStructure("individualizable set members carry different locations")
		}
	}
	partOfShort := false
	for _, i := range indices {
		if i == path.Length()-1 || path.NodeAt(i).IsLeafNode() {
			partOfShort = true
			break
		}
	}
	if !partOfShort {
		return nil, errors.InvalidStructure("individualizable set has no node on the short path")
	}

	return &IndividualizableSet{indices: indices, path: path.clone()}, nil
}

// Nodes returns the member nodes.
func (s *IndividualizableSet) Nodes() []*Node {
	out := make([]*Node, len(s.indices))
	for i, idx := range s.indices {
		out[i] = s.path.NodeAt(idx)
	}
	return out
}

// NodeIndices returns the member depths.
func (s *IndividualizableSet) NodeIndices() []int {
	out := make([]int, len(s.indices))
	copy(out, s.indices)
	return out
}

// Location returns the set's current location.
func (s *IndividualizableSet) Location() location.Location {
	return s.path.NodeAt(s.indices[0]).location
}

// WithLocation assigns loc to every member.
func (s *IndividualizableSet) WithLocation(loc location.Location) *IndividualizableSet {
	for _, i := range s.indices {
		s.path.setNodeAt(i, s.path.NodeAt(i).WithLocation(loc))
	}
	return s
}

// WithoutLocation clears every member's location.
func (s *IndividualizableSet) WithoutLocation() *IndividualizableSet {
	for _, i := range s.indices {
		s.path.setNodeAt(i, s.path.NodeAt(i).WithoutLocation())
	}
	return s
}

// Build returns the path carrying the set's assignments.
func (s *IndividualizableSet) Build() *Path { return s.path }

// String prints the members that appear in the short path form.
func (s *IndividualizableSet) String() string {
	var parts []string
	for i, idx := range s.indices {
		node := s.path.NodeAt(idx)
		if node.IsLeafNode() || i == len(s.indices)-1 {
			parts = append(parts, node.String())
		}
	}
	return strings.Join(parts, "/")
}

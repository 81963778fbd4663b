package gmod

import (
	"github.com/c360/vismodel/errors"
	"github.com/c360/vismodel/location"
	"github.com/c360/vismodel/vis"
)

// Gmod is the taxonomy graph of one release: every node, the code index,
// and the root. It also carries the release's location vocabulary so path
// parsing can resolve per-segment locations. Immutable after New.
type Gmod struct {
	version   vis.Version
	root      *Node
	nodes     map[string]*Node
	locations *location.Locations
}

// New builds the graph from decoded release data. Every relation must
// reference loaded codes and the root node must be present.
func New(version vis.Version, dto DTO, locations *location.Locations) (*Gmod, error) {
	if err := dto.Validate(); err != nil {
		return nil, errors.Wrap(err, "gmod", "New", "validate taxonomy")
	}
	if locations == nil {
		return nil, errors.ConfigurationFault("gmod %s built without location vocabulary", version)
	}
	if locations.Version() != version {
		return nil, errors.ConfigurationFault(
			"gmod version %s does not match location vocabulary version %s",
			version, locations.Version())
	}

	nodes := make(map[string]*Node, len(dto.Items))
	for _, item := range dto.Items {
		if err := item.Validate(); err != nil {
			return nil, errors.Wrap(err, "gmod", "New", "validate node")
		}
		if _, dup := nodes[item.Code]; dup {
			return nil, errors.ConfigurationFault("duplicate node code %q in %s", item.Code, version)
		}
		nodes[item.Code] = newNode(version, item)
	}

	for _, rel := range dto.Relations {
		parent, ok := nodes[rel[0]]
		if !ok {
			return nil, errors.ConfigurationFault("relation references unknown parent %q", rel[0])
		}
		child, ok := nodes[rel[1]]
		if !ok {
			return nil, errors.ConfigurationFault("relation references unknown child %q", rel[1])
		}
		parent.addChild(child)
		child.addParent(parent)
	}

	root, ok := nodes[RootCode]
	if !ok {
		return nil, errors.ConfigurationFault("root node %q missing in %s", RootCode, version)
	}

	return &Gmod{
		version:   version,
		root:      root,
		nodes:     nodes,
		locations: locations,
	}, nil
}

// Version returns the release of this graph.
func (g *Gmod) Version() vis.Version { return g.version }

// RootNode returns the release root.
func (g *Gmod) RootNode() *Node { return g.root }

// Locations returns the release's location vocabulary.
func (g *Gmod) Locations() *location.Locations { return g.locations }

// Node looks a node up by code.
func (g *Gmod) Node(code string) (*Node, error) {
	node, ok := g.nodes[code]
	if !ok {
		return nil, errors.NotFound("node %q in gmod %s", code, g.version)
	}
	return node, nil
}

// TryNode looks a node up by code without error detail.
func (g *Gmod) TryNode(code string) (*Node, bool) {
	node, ok := g.nodes[code]
	return node, ok
}

// NodeCount returns the number of loaded nodes.
func (g *Gmod) NodeCount() int { return len(g.nodes) }

// EachNode calls fn for every loaded node. fn returning false stops
// iteration. Order is unspecified.
func (g *Gmod) EachNode(fn func(*Node) bool) {
	for _, node := range g.nodes {
		if !fn(node) {
			return
		}
	}
}

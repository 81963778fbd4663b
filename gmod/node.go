package gmod

import (
	"strings"

	"github.com/c360/vismodel/location"
	"github.com/c360/vismodel/vis"
)

// RootCode is the code of every release's root node.
const RootCode = "VE"

const (
	categoryAsset           = "ASSET"
	categoryProduct         = "PRODUCT"
	categoryAssetFunction   = "ASSET FUNCTION"
	categoryProductFunction = "PRODUCT FUNCTION"

	typeType        = "TYPE"
	typeSelection   = "SELECTION"
	typeGroup       = "GROUP"
	typeLeaf        = "LEAF"
	typeComposition = "COMPOSITION"
)

// Metadata carries the descriptive fields of a node. Immutable value.
type Metadata struct {
	Category              string
	Type                  string
	Name                  string
	CommonName            string
	Definition            string
	CommonDefinition      string
	InstallSubstructure   *bool
	NormalAssignmentNames map[string]string
}

// FullType joins category and type, e.g. "ASSET FUNCTION LEAF".
func (m Metadata) FullType() string { return m.Category + " " + m.Type }

// Node is one taxonomy node. Equality is by code, category, type, and
// location. Nodes are immutable once the owning Gmod is built; the
// With/Without methods return copies sharing the adjacency slices.
type Node struct {
	version  vis.Version
	code     string
	metadata Metadata
	location location.Location
	children []*Node
	parents  []*Node
}

func newNode(version vis.Version, dto NodeDTO) *Node {
	names := dto.NormalAssignmentNames
	if names == nil {
		names = map[string]string{}
	}
	return &Node{
		version: version,
		code:    dto.Code,
		metadata: Metadata{
			Category:              dto.Category,
			Type:                  dto.Type,
			Name:                  dto.Name,
			CommonName:            dto.CommonName,
			Definition:            dto.Definition,
			CommonDefinition:      dto.CommonDefinition,
			InstallSubstructure:   dto.InstallSubstructure,
			NormalAssignmentNames: names,
		},
	}
}

// Code returns the node's unique code within its release.
func (n *Node) Code() string { return n.code }

// Version returns the owning release.
func (n *Node) Version() vis.Version { return n.version }

// Metadata returns the descriptive fields.
func (n *Node) Metadata() Metadata { return n.metadata }

// Location returns the individualization attached to this node instance.
func (n *Node) Location() location.Location { return n.location }

// Children returns the child adjacency in load order. Callers must not
// mutate the returned slice.
func (n *Node) Children() []*Node { return n.children }

// Parents returns the parent adjacency in load order. Callers must not
// mutate the returned slice.
func (n *Node) Parents() []*Node { return n.parents }

// WithLocation returns a copy of the node carrying loc.
func (n *Node) WithLocation(loc location.Location) *Node {
	out := *n
	out.location = loc
	return &out
}

// WithoutLocation returns a copy of the node with no location.
func (n *Node) WithoutLocation() *Node {
	if n.location.IsEmpty() {
		return n
	}
	out := *n
	out.location = location.Location{}
	return &out
}

// Equal compares code, category, type, and location.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	return n.code == other.code &&
		n.metadata.Category == other.metadata.Category &&
		n.metadata.Type == other.metadata.Type &&
		n.location.Equal(other.location)
}

// String returns "code" or "code-location".
func (n *Node) String() string {
	if n.location.IsEmpty() {
		return n.code
	}
	return n.code + "-" + n.location.Value()
}

func (n *Node) addChild(child *Node) {
	for _, c := range n.children {
		if c.code == child.code {
			return
		}
	}
	n.children = append(n.children, child)
}

func (n *Node) addParent(parent *Node) {
	for _, p := range n.parents {
		if p.code == parent.code {
			return
		}
	}
	n.parents = append(n.parents, parent)
}

// IsChild reports whether code names a direct child.
func (n *Node) IsChild(code string) bool {
	for _, c := range n.children {
		if c.code == code {
			return true
		}
	}
	return false
}

// IsRoot reports whether this is the release root.
func (n *Node) IsRoot() bool { return n.code == RootCode }

// IsLeafNode reports whether the node is a function leaf.
func (n *Node) IsLeafNode() bool { return IsLeafType(n.metadata.FullType()) }

// IsFunctionNode reports whether the node is neither a product nor an asset
// type.
func (n *Node) IsFunctionNode() bool {
	return n.metadata.Category != categoryProduct && n.metadata.Type != "ASSET"
}

// IsAssetFunctionNode reports whether the node's category is ASSET FUNCTION.
func (n *Node) IsAssetFunctionNode() bool {
	return n.metadata.Category == categoryAssetFunction
}

// IsProductSelection reports whether the node is a product selection.
func (n *Node) IsProductSelection() bool {
	return n.metadata.Category == categoryProduct && n.metadata.Type == typeSelection
}

// IsProductType reports whether the node is a product type.
func (n *Node) IsProductType() bool {
	return n.metadata.Category == categoryProduct && n.metadata.Type == typeType
}

// IsAsset reports whether the node is an asset type or selection.
func (n *Node) IsAsset() bool {
	return n.metadata.Category == categoryAsset &&
		(n.metadata.Type == typeType || n.metadata.Type == typeSelection)
}

// IsFunctionComposition reports whether the node is a function composition.
func (n *Node) IsFunctionComposition() bool {
	return (n.metadata.Category == categoryAssetFunction ||
		n.metadata.Category == categoryProductFunction) &&
		n.metadata.Type == typeComposition
}

// IsIndividualizable reports whether the node may carry a location. Group,
// selection, product-type, and asset-type nodes never can; function
// compositions only when their code ends in 'i' or they sit inside an
// individualizable set or are the path target.
func (n *Node) IsIndividualizable(isTarget, isInSet bool) bool {
	switch {
	case n.metadata.Type == typeGroup || n.metadata.Type == typeSelection:
		return false
	case n.IsProductType():
		return false
	case n.metadata.Category == categoryAsset && n.metadata.Type == typeType:
		return false
	case n.IsFunctionComposition():
		return strings.HasSuffix(n.code, "i") || isInSet || isTarget
	default:
		return true
	}
}

// IsMappable reports whether sensor values may map onto the node directly.
func (n *Node) IsMappable() bool {
	if n.ProductType() != nil || n.ProductSelection() != nil ||
		n.IsProductSelection() || n.IsAsset() {
		return false
	}
	last := n.code[len(n.code)-1]
	return last != 'a' && last != 's'
}

// ProductType returns the single product-type child of a function node,
// or nil.
func (n *Node) ProductType() *Node {
	if len(n.children) != 1 {
		return nil
	}
	child := n.children[0]
	if strings.Contains(n.metadata.Category, "FUNCTION") && child.IsProductType() {
		return child
	}
	return nil
}

// ProductSelection returns the single product-selection child of a function
// node, or nil.
func (n *Node) ProductSelection() *Node {
	if len(n.children) != 1 {
		return nil
	}
	child := n.children[0]
	if strings.Contains(n.metadata.Category, "FUNCTION") &&
		strings.Contains(child.metadata.Category, categoryProduct) &&
		child.metadata.Type == typeSelection {
		return child
	}
	return nil
}

// IsLeafType reports whether a full type string names a function leaf.
func IsLeafType(fullType string) bool {
	return fullType == "ASSET FUNCTION LEAF" || fullType == "PRODUCT FUNCTION LEAF"
}

// IsPotentialParentType reports whether a type string can scope an
// individualizable set.
func IsPotentialParentType(typ string) bool {
	return typ == typeSelection || typ == typeGroup || typ == typeLeaf
}

// IsFunctionCategory reports whether a category string names a function
// node.
func IsFunctionCategory(category string) bool {
	return category != categoryProduct && category != categoryAsset
}

// IsProductTypeAssignment reports whether child is the product-type
// assignment of parent.
func IsProductTypeAssignment(parent, child *Node) bool {
	if parent == nil || child == nil {
		return false
	}
	if !strings.Contains(parent.metadata.Category, "FUNCTION") {
		return false
	}
	return child.metadata.Category == categoryProduct && child.metadata.Type == typeType
}

// IsProductSelectionAssignment reports whether child is the
// product-selection assignment of parent.
func IsProductSelectionAssignment(parent, child *Node) bool {
	if parent == nil || child == nil {
		return false
	}
	if !strings.Contains(parent.metadata.Category, "FUNCTION") {
		return false
	}
	return strings.Contains(child.metadata.Category, categoryProduct) &&
		child.metadata.Type == typeSelection
}

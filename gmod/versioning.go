package gmod

import (
	"github.com/c360/vismodel/errors"
	"github.com/c360/vismodel/vis"
)

// ConversionType names one operation a conversion rule may carry.
type ConversionType int

const (
	// ConversionChangeCode retargets the node to a new code.
	ConversionChangeCode ConversionType = iota
	// ConversionMerge folds the node into another.
	ConversionMerge
	// ConversionMove relocates the node in the tree.
	ConversionMove
	// ConversionAssignmentChange swaps the node's normal assignment.
	ConversionAssignmentChange
	// ConversionAssignmentDelete removes the node's normal assignment.
	ConversionAssignmentDelete
)

var conversionTypesByName = map[string]ConversionType{
	"changeCode":       ConversionChangeCode,
	"merge":            ConversionMerge,
	"move":             ConversionMove,
	"assignmentChange": ConversionAssignmentChange,
	"assignmentDelete": ConversionAssignmentDelete,
}

// String returns the rule-table spelling.
func (c ConversionType) String() string {
	switch c {
	case ConversionChangeCode:
		return "changeCode"
	case ConversionMerge:
		return "merge"
	case ConversionMove:
		return "move"
	case ConversionAssignmentChange:
		return "assignmentChange"
	case ConversionAssignmentDelete:
		return "assignmentDelete"
	default:
		return "unknown"
	}
}

// NodeConversion is one immutable migration rule for a source code.
type NodeConversion struct {
	Operations       map[ConversionType]struct{}
	Source           string
	Target           string
	OldAssignment    string
	NewAssignment    string
	DeleteAssignment bool
}

// versioningNode holds the rule table migrating into one target release.
type versioningNode struct {
	version vis.Version
	changes map[string]NodeConversion
}

func newVersioningNode(version vis.Version, items map[string]NodeConversionDTO) (versioningNode, error) {
	node := versioningNode{
		version: version,
		changes: make(map[string]NodeConversion, len(items)),
	}
	for code, dto := range items {
		ops := make(map[ConversionType]struct{}, len(dto.Operations))
		for _, op := range dto.Operations {
			ct, ok := conversionTypesByName[op]
			if !ok {
				return versioningNode{}, errors.ConfigurationFault(
					"conversion type %q on rule %q for %s", op, code, version)
			}
			ops[ct] = struct{}{}
		}
		node.changes[code] = NodeConversion{
			Operations:       ops,
			Source:           dto.Source,
			Target:           dto.Target,
			OldAssignment:    dto.OldAssignment,
			NewAssignment:    dto.NewAssignment,
			DeleteAssignment: dto.DeleteAssignment,
		}
	}
	return node, nil
}

// Provider hands out the loaded taxonomy of a release. The registry
// implements it; tests may supply a fixed map.
type Provider interface {
	Gmod(version vis.Version) (*Gmod, error)
}

// Versioning converts nodes and paths between releases by walking the
// pairwise rule tables. Immutable after NewVersioning.
type Versioning struct {
	provider Provider
	tables   map[vis.Version]versioningNode
}

// NewVersioning builds the conversion engine from decoded rule tables,
// keyed by the target release's canonical version string.
func NewVersioning(provider Provider, dtos map[string]VersioningDTO) (*Versioning, error) {
	if provider == nil {
		return nil, errors.ConfigurationFault("versioning built without gmod provider")
	}
	v := &Versioning{
		provider: provider,
		tables:   make(map[vis.Version]versioningNode, len(dtos)),
	}
	for versionStr, dto := range dtos {
		version, err := vis.Parse(versionStr)
		if err != nil {
			return nil, errors.Wrap(err, "gmod", "NewVersioning", "parse table version")
		}
		node, err := newVersioningNode(version, dto.Items)
		if err != nil {
			return nil, err
		}
		v.tables[version] = node
	}
	return v, nil
}

// RuleFor returns the rule migrating code into targetVersion, if any.
func (v *Versioning) RuleFor(targetVersion vis.Version, code string) (NodeConversion, bool) {
	table, ok := v.tables[targetVersion]
	if !ok {
		return NodeConversion{}, false
	}
	change, ok := table.changes[code]
	return change, ok
}

// ConvertNode re-expresses a node under targetVersion, hopping release by
// release through the rule tables. A code with no rule is assumed stable
// and looked up directly; absence in the target fails the conversion.
// Converting to the node's own version returns it unchanged.
func (v *Versioning) ConvertNode(sourceVersion vis.Version, node *Node, targetVersion vis.Version) (*Node, error) {
	if err := validateVersionPair(sourceVersion, targetVersion); err != nil {
		return nil, err
	}
	if sourceVersion == targetVersion {
		return node, nil
	}

	current := node
	source := sourceVersion
	for source < targetVersion {
		next, ok := source.Next()
		if !ok {
			return nil, errors.ConversionFailure("no release after %s", source)
		}
		converted, err := v.convertNodeStep(current, next)
		if err != nil {
			return nil, err
		}
		current = converted
		source = next
	}
	return current, nil
}

func (v *Versioning) convertNodeStep(node *Node, targetVersion vis.Version) (*Node, error) {
	nextCode := node.code
	if change, ok := v.RuleFor(targetVersion, node.code); ok && change.Target != "" {
		nextCode = change.Target
	}

	targetGmod, err := v.provider.Gmod(targetVersion)
	if err != nil {
		return nil, errors.Wrap(err, "gmod", "ConvertNode", "load target gmod")
	}
	targetNode, ok := targetGmod.TryNode(nextCode)
	if !ok {
		return nil, errors.ConversionFailure(
			"node %q has no counterpart %q in %s", node.code, nextCode, targetVersion)
	}

	if !node.location.IsEmpty() {
		return targetNode.WithLocation(node.location), nil
	}
	return targetNode, nil
}

// ConvertPath re-expresses a path under targetVersion. Every node converts
// forward first; when the plainly converted sequence is no longer a valid
// chain, the path is rebuilt through the target graph. The result is always
// re-validated, so a returned path is valid under the target release.
func (v *Versioning) ConvertPath(sourceVersion vis.Version, path *Path, targetVersion vis.Version) (*Path, error) {
	if err := validateVersionPair(sourceVersion, targetVersion); err != nil {
		return nil, err
	}
	if sourceVersion == targetVersion {
		return path, nil
	}

	targetEndNode, err := v.ConvertNode(sourceVersion, path.node, targetVersion)
	if err != nil {
		return nil, err
	}
	if targetEndNode.IsRoot() {
		return NewPathUnchecked(nil, targetEndNode), nil
	}

	targetGmod, err := v.provider.Gmod(targetVersion)
	if err != nil {
		return nil, errors.Wrap(err, "gmod", "ConvertPath", "load target gmod")
	}

	type nodePair struct {
		source *Node
		target *Node
	}
	qualifying := make([]nodePair, 0, path.Length())
	for i := 0; i < path.Length(); i++ {
		sourceNode := path.NodeAt(i)
		targetNode, err := v.ConvertNode(sourceVersion, sourceNode, targetVersion)
		if err != nil {
			return nil, errors.Wrap(err, "gmod", "ConvertPath", "convert node "+sourceNode.code)
		}
		qualifying = append(qualifying, nodePair{source: sourceNode, target: targetNode})
	}

	// Plain node-by-node conversion first.
	plainParents := make([]*Node, 0, len(qualifying)-1)
	for _, qn := range qualifying[:len(qualifying)-1] {
		plainParents = append(plainParents, qn.target)
	}
	if ok, _ := ValidatePathChain(plainParents, targetEndNode); ok {
		return NewPathUnchecked(plainParents, targetEndNode), nil
	}

	// Structure changed between releases; rebuild through the target graph.
	var built []*Node
	for i := 0; i < len(qualifying); {
		qn := qualifying[i]

		if i > 0 && qn.target.code == qualifying[i-1].target.code {
			if pt := qn.source.ProductType(); pt != nil && !pt.Equal(qualifying[i-1].target.ProductType()) {
				return nil, errors.ConversionFailure(
					"merged nodes %q disagree on normal assignment", qn.target.code)
			}
			if err := reconcileMergedLocation(built, qn.target); err != nil {
				return nil, err
			}
			i++
			continue
		}

		codeChanged := qn.source.code != qn.target.code
		sourceAssignment := qn.source.ProductType()
		targetAssignment := qn.target.ProductType()
		assignmentChanged := normalAssignmentChanged(sourceAssignment, targetAssignment)

		switch {
		case codeChanged:
			built, err = v.addToPath(targetGmod, built, qn.target)
			if err != nil {
				return nil, err
			}
		case assignmentChanged:
			built, err = v.addToPath(targetGmod, built, qn.target)
			if err != nil {
				return nil, err
			}
			deleted := sourceAssignment != nil && targetAssignment == nil
			if deleted {
				if qn.target.code == targetEndNode.code && i+1 < len(qualifying) {
					next := qualifying[i+1].target
					if next.code != qn.target.code {
						return nil, errors.ConversionFailure(
							"normal assignment of end node %q was deleted", qn.target.code)
					}
				}
				i++
				continue
			}
			if qn.target.code != targetEndNode.code && targetAssignment != nil {
				built, err = v.addToPath(targetGmod, built, targetAssignment)
				if err != nil {
					return nil, err
				}
				if sourceAssignment != nil && sourceAssignment.code != targetAssignment.code {
					if i+1 < len(qualifying) && qualifying[i+1].source.code != sourceAssignment.code {
						return nil, errors.ConversionFailure(
							"expected old assignment %q after %q", sourceAssignment.code, qn.target.code)
					}
					i++ // the old assignment node is consumed by the swap
				}
			}
		default:
			built, err = v.addToPath(targetGmod, built, qn.target)
			if err != nil {
				return nil, err
			}
		}

		if len(built) > 0 && built[len(built)-1].code == targetEndNode.code {
			break
		}
		i++
	}

	return v.finalizePath(built, path)
}

// reconcileMergedLocation folds the location of a merged duplicate back
// into the already-built occurrence of its code.
func reconcileMergedLocation(built []*Node, target *Node) error {
	if target.location.IsEmpty() {
		return nil
	}
	for idx, n := range built {
		if n.code != target.code {
			continue
		}
		if !n.location.IsEmpty() && !n.location.Equal(target.location) {
			return errors.ConversionFailure(
				"colliding locations on merged node %q", target.code)
		}
		if !n.IsIndividualizable(false, false) {
			return errors.ConversionFailure(
				"merged node %q cannot carry a location", n.code)
		}
		if n.location.IsEmpty() {
			built[idx] = n.WithLocation(target.location)
		}
		return nil
	}
	return nil
}

func normalAssignmentChanged(source, target *Node) bool {
	switch {
	case source == nil && target == nil:
		return false
	case source == nil || target == nil:
		return true
	default:
		return source.code != target.code
	}
}

// addToPath appends node, backtracking and filling intermediate nodes so
// consecutive entries always form parent-child edges in the target graph.
func (v *Versioning) addToPath(targetGmod *Gmod, path []*Node, node *Node) ([]*Node, error) {
	if len(path) == 0 {
		return append(path, node), nil
	}
	if path[len(path)-1].IsChild(node.code) {
		return append(path, node), nil
	}

	for j := len(path) - 1; j >= 0; j-- {
		currentParents := path[:j+1]
		exists, remaining, err := pathExistsBetween(targetGmod, currentParents, node)
		if err != nil {
			return nil, err
		}
		if !exists {
			hasOtherAssetFunction := false
			for _, n := range currentParents {
				if n.IsAssetFunctionNode() && n.code != path[j].code {
					hasOtherAssetFunction = true
					break
				}
			}
			if !hasOtherAssetFunction {
				return nil, errors.ConversionFailure(
					"cannot connect %q without removing the last asset function node", node.code)
			}
			path = append(path[:j], path[j+1:]...)
			continue
		}

		for _, r := range remaining {
			if !node.location.IsEmpty() && r.IsIndividualizable(false, true) {
				path = append(path, r.WithLocation(node.location))
			} else {
				path = append(path, r)
			}
		}
		break
	}

	return append(path, node), nil
}

// pathExistsBetween checks whether to is reachable below the deepest asset
// function node of fromPath, returning the intermediate parents between
// fromPath and to.
func pathExistsBetween(g *Gmod, fromPath []*Node, to *Node) (bool, []*Node, error) {
	start := g.root
	for i := len(fromPath) - 1; i >= 0; i-- {
		if fromPath[i].IsAssetFunctionNode() {
			start = fromPath[i]
			break
		}
	}

	var (
		found     bool
		remaining []*Node
		fatal     error
	)
	_, err := g.TraverseFrom(start, func(parents []*Node, node *Node) HandlerResult {
		if node.code != to.code {
			return Continue
		}

		chain := make([]*Node, len(parents))
		copy(chain, parents)
		for len(chain) > 0 && !chain[0].IsRoot() {
			head := chain[0]
			if len(head.parents) != 1 {
				fatal = errors.ConversionFailure(
					"node %q has %d parents while completing chain", head.code, len(head.parents))
				return Stop
			}
			chain = append([]*Node{head.parents[0]}, chain...)
		}

		inChain := func(code string) bool {
			for _, n := range chain {
				if n.code == code {
					return true
				}
			}
			return false
		}
		for _, qn := range fromPath {
			if !inChain(qn.code) {
				return Continue
			}
		}

		remaining = remaining[:0]
		for _, n := range chain {
			used := false
			for _, qn := range fromPath {
				if qn.code == n.code {
					used = true
					break
				}
			}
			if !used {
				remaining = append(remaining, n)
			}
		}
		found = true
		return Stop
	})
	if err != nil {
		return false, nil, err
	}
	if fatal != nil {
		return false, nil, fatal
	}
	return found, remaining, nil
}

// finalizePath spreads set locations over the rebuilt sequence and
// re-validates the chain.
func (v *Versioning) finalizePath(built []*Node, sourcePath *Path) (*Path, error) {
	if len(built) == 0 {
		return nil, errors.ConversionFailure("no path produced for %s", sourcePath)
	}
	parents := built[:len(built)-1]
	finalNode := built[len(built)-1]

	visitor := newLocationSetsVisitor()
	for i := 0; i <= len(parents); i++ {
		n := nodeAtDepth(parents, finalNode, i)
		set, err := visitor.visit(n, i, parents, finalNode)
		if err != nil {
			return nil, errors.Wrap(err, "gmod", "ConvertPath", "verify sets")
		}
		if set == nil {
			if !n.location.IsEmpty() {
				break
			}
			continue
		}
		if set.start == set.end || set.location.IsEmpty() {
			continue
		}
		for j := set.start; j <= set.end; j++ {
			if j < len(parents) {
				parents[j] = parents[j].WithLocation(set.location)
			} else {
				finalNode = finalNode.WithLocation(set.location)
			}
		}
	}

	if ok, _ := ValidatePathChain(parents, finalNode); !ok {
		return nil, errors.ConversionFailure("converted sequence for %s is not a valid chain", sourcePath)
	}
	return NewPath(parents, finalNode)
}

func validateVersionPair(source, target vis.Version) error {
	if !source.IsValid() {
		return errors.NotFound("source version %d", int(source))
	}
	if !target.IsValid() {
		return errors.NotFound("target version %d", int(target))
	}
	if source > target {
		return errors.ConversionFailure(
			"source version %s is newer than target version %s", source, target)
	}
	return nil
}

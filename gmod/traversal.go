package gmod

import (
	"github.com/c360/vismodel/errors"
)

// HandlerResult steers a traversal from inside the visitor.
type HandlerResult int

const (
	// Continue descends into the node's children.
	Continue HandlerResult = iota
	// SkipSubtree moves on to the node's siblings.
	SkipSubtree
	// Stop aborts the whole traversal.
	Stop
)

// Handler visits one node with its current ancestor chain. The parents
// slice is reused between calls; copy it if it must outlive the call.
// The handler must not mutate the Gmod being traversed.
type Handler func(parents []*Node, node *Node) HandlerResult

// DefaultMaxOccurrence is how many times one code may appear in a single
// ancestor chain before its subtree is skipped.
const DefaultMaxOccurrence = 1

// TraversalOption adjusts traversal behavior.
type TraversalOption func(*traversalConfig)

type traversalConfig struct {
	maxOccurrence int
}

// WithMaxOccurrence raises the per-chain revisit limit. Reaching the limit
// skips the subtree; exceeding it (possible only with malformed relation
// data) fails the traversal with a configuration fault.
func WithMaxOccurrence(n int) TraversalOption {
	return func(c *traversalConfig) { c.maxOccurrence = n }
}

// Traverse walks the graph depth-first from the root. It returns true when
// every reachable node was offered to the handler, false when the handler
// stopped it early.
func (g *Gmod) Traverse(handler Handler, opts ...TraversalOption) (bool, error) {
	return g.TraverseFrom(g.root, handler, opts...)
}

// TraverseFrom is Traverse starting at an arbitrary node.
func (g *Gmod) TraverseFrom(start *Node, handler Handler, opts ...TraversalOption) (bool, error) {
	cfg := traversalConfig{maxOccurrence: DefaultMaxOccurrence}
	for _, opt := range opts {
		opt(&cfg)
	}

	parents := newParentStack()

	type frame struct {
		node     *Node
		childIdx int
		entered  bool
	}
	stack := []frame{{node: start}}

	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		node := f.node

		if !f.entered {
			f.entered = true

			sub := node.metadata.InstallSubstructure
			if sub != nil && !*sub {
				stack = stack[:len(stack)-1]
				continue
			}

			switch handler(parents.nodes, node) {
			case Stop:
				return false, nil
			case SkipSubtree:
				stack = stack[:len(stack)-1]
				continue
			}

			if !IsProductSelectionAssignment(parents.last(), node) {
				occ := parents.occurrences(node)
				if occ == cfg.maxOccurrence {
					stack = stack[:len(stack)-1]
					continue
				}
				if occ > cfg.maxOccurrence {
					return false, errors.ConfigurationFault(
						"node %q occurred %d times in one chain, limit %d",
						node.code, occ, cfg.maxOccurrence)
				}
			}

			parents.push(node)
		}

		if f.childIdx < len(node.children) {
			child := node.children[f.childIdx]
			f.childIdx++
			stack = append(stack, frame{node: child})
			continue
		}

		parents.pop()
		stack = stack[:len(stack)-1]
	}

	return true, nil
}

// parentStack tracks the ancestor chain plus per-code occurrence counts
// during one traversal.
type parentStack struct {
	nodes       []*Node
	occurrenceN map[string]int
}

func newParentStack() *parentStack {
	return &parentStack{occurrenceN: make(map[string]int)}
}

func (p *parentStack) push(node *Node) {
	p.nodes = append(p.nodes, node)
	p.occurrenceN[node.code]++
}

func (p *parentStack) pop() {
	if len(p.nodes) == 0 {
		return
	}
	node := p.nodes[len(p.nodes)-1]
	p.nodes = p.nodes[:len(p.nodes)-1]
	if p.occurrenceN[node.code] <= 1 {
		delete(p.occurrenceN, node.code)
	} else {
		p.occurrenceN[node.code]--
	}
}

func (p *parentStack) last() *Node {
	if len(p.nodes) == 0 {
		return nil
	}
	return p.nodes[len(p.nodes)-1]
}

func (p *parentStack) occurrences(node *Node) int {
	return p.occurrenceN[node.code]
}

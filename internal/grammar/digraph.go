// Package grammar ports DIGRAPH<T>/REP_GRAPH from
// inference/sampling/graph.h: a small directed graph over node
// identities, used to decide which token types may legally follow the
// last emitted token during constrained generation.
package grammar

import (
	"fmt"

	"github.com/schollz/miditok/internal/midierr"
)

// Digraph is a generic directed graph over comparable node keys,
// ported from graph.h's DIGRAPH<T> template.
type Digraph[T comparable] struct {
	edges   map[T]map[T]bool
	inEdges map[T]map[T]bool

	traversalStarted bool
	currentNode      T
	hasCurrent       bool
}

// NewDigraph returns an empty graph.
func NewDigraph[T comparable]() *Digraph[T] {
	return &Digraph[T]{edges: map[T]map[T]bool{}, inEdges: map[T]map[T]bool{}}
}

// AddNode registers v with no edges, if not already present.
func (g *Digraph[T]) AddNode(v T) {
	if _, ok := g.edges[v]; !ok {
		g.edges[v] = map[T]bool{}
	}
	if _, ok := g.inEdges[v]; !ok {
		g.inEdges[v] = map[T]bool{}
	}
}

// AddEdge adds a directed edge u->v, creating both endpoints if
// needed.
func (g *Digraph[T]) AddEdge(u, v T) {
	g.AddNode(u)
	g.AddNode(v)
	g.edges[u][v] = true
	g.inEdges[v][u] = true
}

// AddPath adds a chain of edges v0->v1->...->vn-1.
func (g *Digraph[T]) AddPath(path []T) {
	for i := 0; i+1 < len(path); i++ {
		g.AddEdge(path[i], path[i+1])
	}
}

// HasNode reports whether v was ever added.
func (g *Digraph[T]) HasNode(v T) bool {
	_, ok := g.edges[v]
	return ok
}

// GetNextNodes returns v's direct successors, ported from
// DIGRAPH::get_next_nodes (throws on a missing node).
func (g *Digraph[T]) GetNextNodes(v T) ([]T, error) {
	next, ok := g.edges[v]
	if !ok {
		return nil, fmt.Errorf("invalid node in digraph: %v", v)
	}
	out := make([]T, 0, len(next))
	for n := range next {
		out = append(out, n)
	}
	return out, nil
}

// GetPreviousNodes returns v's direct predecessors.
func (g *Digraph[T]) GetPreviousNodes(v T) ([]T, error) {
	prev, ok := g.inEdges[v]
	if !ok {
		return nil, fmt.Errorf("invalid node in digraph: %v", v)
	}
	out := make([]T, 0, len(prev))
	for n := range prev {
		out = append(out, n)
	}
	return out, nil
}

// removeEdgesToNode erases v from every other node's edge/in-edge
// sets, ported from DIGRAPH::remove_edges_to_node.
func (g *Digraph[T]) removeEdgesToNode(v T) {
	for u := range g.inEdges[v] {
		delete(g.edges[u], v)
	}
	for u := range g.edges[v] {
		delete(g.inEdges[u], v)
	}
}

// RemoveNode removes v, rerouting every predecessor directly to every
// successor so paths through v still exist, ported from
// DIGRAPH::remove_node.
func (g *Digraph[T]) RemoveNode(v T) {
	preds, _ := g.GetPreviousNodes(v)
	succs, _ := g.GetNextNodes(v)
	for _, pre := range preds {
		for _, post := range succs {
			if pre != v && post != v {
				g.AddEdge(pre, post)
			}
		}
	}
	g.removeEdgesToNode(v)
	delete(g.edges, v)
	delete(g.inEdges, v)
}

// RemoveNodes removes every node in vs, rerouting around each as it
// goes, ported from DIGRAPH::remove_nodes.
func (g *Digraph[T]) RemoveNodes(vs []T) {
	for _, v := range vs {
		if g.HasNode(v) {
			g.RemoveNode(v)
		}
	}
}

// RemoveNodesWithoutConnecting removes every node in vs without
// rerouting predecessors to successors, ported from
// DIGRAPH::remove_nodes_wo_connecting.
func (g *Digraph[T]) RemoveNodesWithoutConnecting(vs []T) {
	for _, v := range vs {
		if !g.HasNode(v) {
			continue
		}
		g.removeEdgesToNode(v)
		delete(g.edges, v)
		delete(g.inEdges, v)
	}
}

// CheckPath reports whether there is a path from u to v of at most
// maxDepth edges, ported from DIGRAPH::check_path.
func (g *Digraph[T]) CheckPath(u, v T, depth, maxDepth int) bool {
	if u == v {
		return true
	}
	if depth >= maxDepth {
		return false
	}
	next, ok := g.edges[u]
	if !ok {
		return false
	}
	for n := range next {
		if g.CheckPath(n, v, depth+1, maxDepth) {
			return true
		}
	}
	return false
}

// Traverse validates and commits a move to node, ported from
// DIGRAPH::traverse: the first call after construction always
// succeeds (traversalStarted latch); subsequent calls require a path
// of length <= 1 (a direct edge) from the current node.
func (g *Digraph[T]) Traverse(node T) error {
	if !g.traversalStarted {
		g.traversalStarted = true
		g.currentNode = node
		g.hasCurrent = true
		return nil
	}
	if !g.CheckPath(g.currentNode, node, 0, 1) {
		return midierr.Wrap(midierr.ErrGrammarViolation, "invalid path in digraph from %v to %v", g.currentNode, node)
	}
	g.currentNode = node
	return nil
}

// Skip validates and commits a longer move to node (up to 20 edges
// away), without requiring Traverse's direct-edge constraint, ported
// from DIGRAPH::skip.
func (g *Digraph[T]) Skip(node T) error {
	if !g.traversalStarted {
		return midierr.Wrap(midierr.ErrGrammarViolation, "cannot skip before traversal started")
	}
	if !g.CheckPath(g.currentNode, node, 0, 20) {
		return midierr.Wrap(midierr.ErrGrammarViolation, "invalid path in digraph from %v to %v", g.currentNode, node)
	}
	g.currentNode = node
	return nil
}

// CurrentNode returns the node Traverse/Skip last committed to.
func (g *Digraph[T]) CurrentNode() (T, bool) {
	return g.currentNode, g.hasCurrent
}

// SetCurrentNode force-sets the current node without validating a
// path, used to seed bar-infill traversal at (FILL_IN_END,0) the way
// REP_GRAPH::initialize_bar_infilling does.
func (g *Digraph[T]) SetCurrentNode(node T) {
	g.currentNode = node
	g.hasCurrent = true
	g.traversalStarted = true
}

// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package gmod

// TraversalResult is a handler's verdict on one visited node.
type TraversalResult int

const (
	// TraversalStop aborts the entire traversal immediately, through all
	// recursion levels.
	TraversalStop TraversalResult = iota

	// TraversalSkipSubtree records the visit but does not descend into
	// the node's children. Sibling traversal continues normally.
	TraversalSkipSubtree

	// TraversalContinue descends into the node's children.
	TraversalContinue
)

// String returns the string representation of the result.
func (r TraversalResult) String() string {
	switch r {
	case TraversalStop:
		return "stop"
	case TraversalSkipSubtree:
		return "skip-subtree"
	case TraversalContinue:
		return "continue"
	default:
		return "unknown"
	}
}

// TraversalHandler is called once per visited node.
//
// parents holds the active path from the traversal start to the node's
// immediate parent, in that order. The slice is reused between invocations;
// copy it if it must outlive the call. node points into the taxonomy arena
// and MUST NOT be mutated.
type TraversalHandler func(parents []*GmodNode, node *GmodNode) TraversalResult

// TraversalHandlerWithState is a TraversalHandler threading a caller-supplied
// state value through every invocation.
type TraversalHandlerWithState[S any] func(state S, parents []*GmodNode, node *GmodNode) TraversalResult

// initialPathCapacity sizes the per-call path buffers. Real taxonomies
// rarely nest deeper than this, so traversal usually allocates exactly once.
const initialPathCapacity = 16

// traversalContext carries the state of one traversal call.
//
// path holds the arena indices currently on the active start-to-parent
// chain and doubles as the cycle-detection set. Membership is a linear
// scan; for the shallow paths a taxonomy produces that beats hashing by a
// wide margin. parents mirrors path as arena pointers for handler calls.
type traversalContext struct {
	path    []int
	parents []*GmodNode
	handler TraversalHandler
}

func newTraversalContext(handler TraversalHandler) *traversalContext {
	return &traversalContext{
		path:    make([]int, 0, initialPathCapacity),
		parents: make([]*GmodNode, 0, initialPathCapacity),
		handler: handler,
	}
}

func (tc *traversalContext) onPath(index int) bool {
	for _, i := range tc.path {
		if i == index {
			return true
		}
	}
	return false
}

func (tc *traversalContext) push(index int, node *GmodNode) {
	tc.path = append(tc.path, index)
	tc.parents = append(tc.parents, node)
}

func (tc *traversalContext) pop() {
	tc.path = tc.path[:len(tc.path)-1]
	tc.parents = tc.parents[:len(tc.parents)-1]
}

// Traverse runs a depth-first traversal over the graph from the root.
//
// Description:
//
//	Visitation order is deterministic depth-first in definition edge
//	order. Cycle tracking is scoped to the active path, not global: a node
//	reachable through two different parents is visited once per distinct
//	path that reaches it, so handlers accumulating results must
//	deduplicate by code themselves if deduplication is wanted. A node
//	already on the active path is treated as handled and not re-visited,
//	which bounds recursion on any back-edge cycle.
//
// Outputs:
//
//	bool - True when no handler invocation returned TraversalStop; false
//	       when the traversal was aborted early.
//
// Thread Safety: read-only on the taxonomy; each call owns its path state,
// so concurrent traversals are independent.
func (g *Gmod) Traverse(handler TraversalHandler) bool {
	return g.TraverseFrom(g.RootNode(), handler)
}

// TraverseFrom runs Traverse starting at an arbitrary node. The active-path
// context starts empty: the start node is treated as a fresh root for cycle
// tracking, and its handler invocation sees no parents.
func (g *Gmod) TraverseFrom(from *GmodNode, handler TraversalHandler) bool {
	tc := newTraversalContext(handler)
	return g.traverseNode(tc, g.nodeIndex(from)) != TraversalStop
}

// TraverseWithState runs Traverse threading a state value through every
// handler invocation, for collecting results without shared captures. It is
// a package function because methods cannot declare type parameters.
func TraverseWithState[S any](g *Gmod, state S, handler TraversalHandlerWithState[S]) bool {
	return TraverseWithStateFrom(g, state, g.RootNode(), handler)
}

// TraverseWithStateFrom combines TraverseWithState and TraverseFrom.
func TraverseWithStateFrom[S any](g *Gmod, state S, from *GmodNode, handler TraversalHandlerWithState[S]) bool {
	return g.TraverseFrom(from, func(parents []*GmodNode, node *GmodNode) TraversalResult {
		return handler(state, parents, node)
	})
}

// traverseNode visits one node and, on TraversalContinue, its subtree.
//
// The handler runs before the node joins the active path; Stop and
// SkipSubtree therefore return without any push. Stop propagates unwound
// through every level, while SkipSubtree only tells the caller not to have
// descended, so the sibling loop keeps going.
func (g *Gmod) traverseNode(tc *traversalContext, index int) TraversalResult {
	if tc.onPath(index) {
		return TraversalContinue
	}

	node := &g.nodes[index]
	result := tc.handler(tc.parents, node)
	if result == TraversalStop || result == TraversalSkipSubtree {
		return result
	}

	tc.push(index, node)
	for _, child := range g.children[index] {
		if g.traverseNode(tc, child) == TraversalStop {
			return TraversalStop
		}
	}
	tc.pop()

	return TraversalContinue
}

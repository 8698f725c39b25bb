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

import (
	"fmt"
	"strings"
)

// Path is a root-to-node chain through the taxonomy.
//
// Unlike a bare node, a Path pins down which of a node's possible parent
// chains is meant, which matters in diamond shapes. Paths hold arena
// pointers and MUST NOT be mutated through them.
type Path struct {
	// Parents is the chain from the root to the node's immediate parent,
	// in that order. Empty only when Node is the root itself.
	Parents []*GmodNode

	// Node is the path target.
	Node *GmodNode
}

// Len returns the number of nodes on the path, target included.
func (p Path) Len() int {
	return len(p.Parents) + 1
}

// String returns the path codes joined by "/", e.g. "VE/400a/410/411/411.1".
func (p Path) String() string {
	var sb strings.Builder
	for _, parent := range p.Parents {
		sb.WriteString(parent.String())
		sb.WriteByte('/')
	}
	sb.WriteString(p.Node.String())
	return sb.String()
}

// Validate checks that the path is a parent-to-child chain from the root of
// the given taxonomy.
func (p Path) Validate(g *Gmod) error {
	if p.Node == nil {
		return fmt.Errorf("%w: missing target node", ErrInvalidPath)
	}
	if len(p.Parents) == 0 {
		if !p.Node.IsRoot() {
			return fmt.Errorf("%w: no parents and %q is not the root", ErrInvalidPath, p.Node.Code)
		}
		return nil
	}
	if !p.Parents[0].IsRoot() {
		return fmt.Errorf("%w: first parent must be the root, got %q", ErrInvalidPath, p.Parents[0].Code)
	}

	chain := append(append(make([]*GmodNode, 0, p.Len()), p.Parents...), p.Node)
	for i := 0; i+1 < len(chain); i++ {
		if !g.isChild(chain[i], chain[i+1]) {
			return fmt.Errorf("%w: %q is not a child of %q", ErrInvalidPath, chain[i+1].Code, chain[i].Code)
		}
	}
	return nil
}

// ParseFullPath parses a full path string such as "VE/400a/410/411/411.1".
//
// Every code must resolve in this taxonomy and consecutive codes must be
// connected parent to child, starting at the root. Location qualifiers are
// not parsed.
func (g *Gmod) ParseFullPath(s string) (Path, error) {
	if s == "" {
		return Path{}, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	codes := strings.Split(s, "/")
	nodes := make([]*GmodNode, len(codes))
	for i, code := range codes {
		node, ok := g.Node(code)
		if !ok {
			return Path{}, fmt.Errorf("%w: %q", ErrNodeNotFound, code)
		}
		nodes[i] = node
	}

	path := Path{Parents: nodes[:len(nodes)-1], Node: nodes[len(nodes)-1]}
	if err := path.Validate(g); err != nil {
		return Path{}, err
	}
	return path, nil
}

// isChild reports whether child hangs directly under parent.
func (g *Gmod) isChild(parent, child *GmodNode) bool {
	childIndex := g.nodeIndex(child)
	for _, index := range g.children[g.nodeIndex(parent)] {
		if index == childIndex {
			return true
		}
	}
	return false
}

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
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/AleutianAI/AleutianVIS/resource"
)

// Gmod is an immutable taxonomy graph for one schema release.
//
// Description:
//
//	Nodes are stored in a single arena slice in definition order; each node
//	is identified internally by its dense arena index. Adjacency is kept as
//	per-index lists of arena indices, symmetric between children and
//	parents. The graph is rooted at code "VE", which has no parents.
//
// Thread Safety: immutable after New; safe for concurrent use.
type Gmod struct {
	version VisVersion

	// nodes is the arena. The backing array is never resized after New,
	// so pointers into it remain valid for the life of the Gmod.
	nodes []GmodNode

	// index maps node code to arena index. Total over nodes.
	index map[string]int

	// children and parents hold adjacency per arena index, in definition
	// edge order. An edge appears in children[p] iff mirrored in
	// parents[c].
	children [][]int
	parents  [][]int
}

// Options configures taxonomy construction.
type Options struct {
	// Logger receives build diagnostics.
	// Default: slog.Default()
	Logger *slog.Logger
}

// DefaultOptions returns the default construction configuration.
func DefaultOptions() Options {
	return Options{Logger: slog.Default()}
}

// Option is a functional option for New.
type Option func(*Options)

// WithLogger sets the build diagnostics logger. Nil is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// New builds a taxonomy from a definition structure.
//
// Description:
//
//	Allocates one arena slot per node record in definition order, then
//	resolves every relation pair through the code index and records it in
//	both adjacency directions.
//
// Inputs:
//
//	ctx - Carries the trace span for the build.
//	dto - The decoded definition. Assumed pre-filtered and structurally
//	      valid; a relation naming an unknown code panics, since that
//	      indicates a corrupt definition no retry can fix.
//
// Outputs:
//
//	*Gmod - The immutable taxonomy.
//	error - Non-nil only when the release tag is not a known version.
func New(ctx context.Context, dto *resource.GmodDto, opts ...Option) (*Gmod, error) {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	ctx, span := startBuildSpan(ctx, dto.VisRelease)
	defer span.End()

	version, err := ParseVisVersion(dto.VisRelease)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	g := &Gmod{
		version:  version,
		nodes:    make([]GmodNode, 0, len(dto.Items)),
		index:    make(map[string]int, len(dto.Items)),
		children: make([][]int, len(dto.Items)),
		parents:  make([][]int, len(dto.Items)),
	}

	for i, item := range dto.Items {
		g.index[item.Code] = i
		g.nodes = append(g.nodes, GmodNode{
			Code: item.Code,
			Metadata: GmodNodeMetadata{
				Category:              item.Category,
				Type:                  item.Type,
				Name:                  item.Name,
				CommonName:            item.CommonName,
				Definition:            item.Definition,
				CommonDefinition:      item.CommonDefinition,
				InstallSubstructure:   item.InstallSubstructure,
				NormalAssignmentNames: item.NormalAssignmentNames,
			},
		})
	}

	for _, rel := range dto.Relations {
		if len(rel) != 2 {
			panic(fmt.Sprintf("gmod: malformed relation %v in release %s", rel, dto.VisRelease))
		}
		parent, ok := g.index[rel[0]]
		if !ok {
			panic(fmt.Sprintf("gmod: relation parent %q is not a node in release %s", rel[0], dto.VisRelease))
		}
		child, ok := g.index[rel[1]]
		if !ok {
			panic(fmt.Sprintf("gmod: relation child %q is not a node in release %s", rel[1], dto.VisRelease))
		}
		g.children[parent] = append(g.children[parent], child)
		g.parents[child] = append(g.parents[child], parent)
	}

	duration := time.Since(start)
	recordBuild(ctx, version, duration)
	setBuildSpanResult(span, len(g.nodes), len(dto.Relations))
	options.Logger.Debug("built gmod",
		"version", version.String(),
		"nodes", len(g.nodes),
		"edges", len(dto.Relations),
		"duration", duration)

	return g, nil
}

// Version returns the schema release this taxonomy represents.
func (g *Gmod) Version() VisVersion {
	return g.version
}

// Len returns the number of nodes.
func (g *Gmod) Len() int {
	return len(g.nodes)
}

// RootNode returns the root node. Construction guarantees its presence for
// any valid definition; a missing root panics.
func (g *Gmod) RootNode() *GmodNode {
	index, ok := g.index[rootCode]
	if !ok {
		panic("gmod: taxonomy has no root node " + rootCode)
	}
	return &g.nodes[index]
}

// Node returns the node with the given code, or false when no such code
// exists.
func (g *Gmod) Node(code string) (*GmodNode, bool) {
	index, ok := g.index[code]
	if !ok {
		return nil, false
	}
	return &g.nodes[index], true
}

// nodeIndex resolves a node to its arena index. Passing a node that does
// not belong to this taxonomy is a programming error and panics.
func (g *Gmod) nodeIndex(node *GmodNode) int {
	index, ok := g.index[node.Code]
	if !ok {
		panic(fmt.Sprintf("gmod: node %q is not part of this taxonomy", node.Code))
	}
	return index
}

// Parents returns the node's parents in definition edge order.
func (g *Gmod) Parents(node *GmodNode) []*GmodNode {
	return g.resolve(g.parents[g.nodeIndex(node)])
}

// Children returns the node's children in definition edge order.
func (g *Gmod) Children(node *GmodNode) []*GmodNode {
	return g.resolve(g.children[g.nodeIndex(node)])
}

// resolve maps arena indices to arena pointers.
func (g *Gmod) resolve(indices []int) []*GmodNode {
	nodes := make([]*GmodNode, len(indices))
	for i, index := range indices {
		nodes[i] = &g.nodes[index]
	}
	return nodes
}

// IsProductTypeAssignment reports whether child is a concrete product type
// assigned to the function node parent. Either side being nil is not an
// assignment.
func IsProductTypeAssignment(parent, child *GmodNode) bool {
	if parent == nil || child == nil {
		return false
	}
	if !strings.Contains(parent.Metadata.Category, categoryFunctionInfix) {
		return false
	}
	return child.Metadata.Category == categoryProduct && child.Metadata.Type == typeType
}

// IsProductSelectionAssignment reports whether child is a product selection
// assigned to the function node parent. Selection groups, unlike exact
// product types, may be composite categories, so the child's category only
// has to contain "PRODUCT".
func IsProductSelectionAssignment(parent, child *GmodNode) bool {
	if parent == nil || child == nil {
		return false
	}
	if !strings.Contains(parent.Metadata.Category, categoryFunctionInfix) {
		return false
	}
	return strings.Contains(child.Metadata.Category, categoryProduct) && child.Metadata.Type == typeSelection
}

// ProductType returns the product type assigned to a function node.
//
// A function node delegates to exactly one concrete product type when it has
// a single child whose category is "PRODUCT" and whose type is "TYPE". The
// second return is false when the node carries no such assignment.
func (g *Gmod) ProductType(node *GmodNode) (*GmodNode, bool) {
	children := g.children[g.nodeIndex(node)]
	if len(children) != 1 {
		return nil, false
	}
	child := &g.nodes[children[0]]
	if !IsProductTypeAssignment(node, child) {
		return nil, false
	}
	return child, true
}

// ProductSelection returns the product selection assigned to a function
// node. The shape matches ProductType, with the selection rule applied to
// the single child.
func (g *Gmod) ProductSelection(node *GmodNode) (*GmodNode, bool) {
	children := g.children[g.nodeIndex(node)]
	if len(children) != 1 {
		return nil, false
	}
	child := &g.nodes[children[0]]
	if !IsProductSelectionAssignment(node, child) {
		return nil, false
	}
	return child, true
}

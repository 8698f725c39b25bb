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

// rootCode is the canonical code of the taxonomy root node.
const rootCode = "VE"

// Metadata category and type literals used by the classification rules.
const (
	categoryAsset         = "ASSET"
	categoryProduct       = "PRODUCT"
	categoryAssetFunction = "ASSET FUNCTION"
	categoryFunctionInfix = "FUNCTION"

	typeType      = "TYPE"
	typeSelection = "SELECTION"

	fullTypeAssetFunctionLeaf   = "ASSET FUNCTION LEAF"
	fullTypeProductFunctionLeaf = "PRODUCT FUNCTION LEAF"
)

// GmodNodeMetadata holds the descriptive, non-structural fields of a node.
// None of these affect graph shape.
type GmodNodeMetadata struct {
	// Category classifies the node, e.g. "ASSET FUNCTION" or "PRODUCT".
	Category string

	// Type refines the category, e.g. "GROUP", "LEAF", "TYPE", "SELECTION".
	Type string

	// Name is the display name.
	Name string

	// CommonName is the colloquial name, when one exists.
	CommonName string

	// Definition is the formal definition text.
	Definition string

	// CommonDefinition is the colloquial definition text.
	CommonDefinition string

	// InstallSubstructure reports whether the node's substructure is
	// installed by default. Nil when the release does not specify it.
	InstallSubstructure *bool

	// NormalAssignmentNames maps child product codes to the name the
	// product normally carries under this node.
	NormalAssignmentNames map[string]string
}

// FullType joins category and type, e.g. "ASSET FUNCTION LEAF".
func (m GmodNodeMetadata) FullType() string {
	return m.Category + " " + m.Type
}

// GmodNode is a single taxonomy node.
//
// Nodes are immutable values. Pointers handed out by a Gmod reference its
// arena and MUST NOT be mutated; use WithLocation or WithoutLocation to
// derive modified copies. A node's identity for lookup purposes is its Code
// alone, regardless of Location.
type GmodNode struct {
	// Code is the unique taxonomy identifier, e.g. "411.1".
	Code string

	// Location is an optional instance qualifier, empty by default. It
	// distinguishes physical instances ("411.1-2") without changing the
	// node's structural identity.
	Location string

	// Metadata carries the descriptive fields.
	Metadata GmodNodeMetadata
}

// WithLocation returns a copy of the node carrying the given location.
// The receiver is unchanged; metadata is shared between the copies.
func (n *GmodNode) WithLocation(location string) GmodNode {
	clone := *n
	clone.Location = location
	return clone
}

// WithoutLocation returns a copy of the node with no location qualifier.
func (n *GmodNode) WithoutLocation() GmodNode {
	clone := *n
	clone.Location = ""
	return clone
}

// String returns the code, suffixed with the location when set.
func (n *GmodNode) String() string {
	if n.Location == "" {
		return n.Code
	}
	return n.Code + "-" + n.Location
}

// IsRoot reports whether the node is the taxonomy root.
func (n *GmodNode) IsRoot() bool {
	return n.Code == rootCode
}

// IsLeafNode reports whether the node is a function leaf.
func (n *GmodNode) IsLeafNode() bool {
	fullType := n.Metadata.FullType()
	return fullType == fullTypeAssetFunctionLeaf || fullType == fullTypeProductFunctionLeaf
}

// IsFunctionNode reports whether the node is a function rather than a
// product or the asset itself.
func (n *GmodNode) IsFunctionNode() bool {
	return n.Metadata.Category != categoryProduct && n.Metadata.Category != categoryAsset
}

// IsAssetFunctionNode reports whether the node is an asset function.
func (n *GmodNode) IsAssetFunctionNode() bool {
	return n.Metadata.Category == categoryAssetFunction
}

// IsProductType reports whether the node itself is a concrete product type.
func (n *GmodNode) IsProductType() bool {
	return n.Metadata.Category == categoryProduct && n.Metadata.Type == typeType
}

// IsProductSelection reports whether the node itself is a product selection
// group.
func (n *GmodNode) IsProductSelection() bool {
	return n.Metadata.Category == categoryProduct && n.Metadata.Type == typeSelection
}

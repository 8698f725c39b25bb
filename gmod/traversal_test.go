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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianVIS/resource"
)

// Helper function to create a definition containing cycles.
//
//	VE → A → B → C
//	     ↑ \      |
//	     |  D ⟲   |
//	     +--------+
//
// C closes a back edge onto A, and D carries a self loop.
func createCycleGmod(t *testing.T) *Gmod {
	dto := &resource.GmodDto{
		VisRelease: "3-4a",
		Items: []resource.GmodNodeDto{
			{Category: "ASSET", Type: "TYPE", Code: "VE"},
			{Category: "ASSET FUNCTION", Type: "GROUP", Code: "A"},
			{Category: "ASSET FUNCTION", Type: "GROUP", Code: "B"},
			{Category: "ASSET FUNCTION", Type: "GROUP", Code: "C"},
			{Category: "ASSET FUNCTION", Type: "GROUP", Code: "D"},
		},
		Relations: [][]string{
			{"VE", "A"},
			{"A", "B"}, {"A", "D"},
			{"B", "C"},
			{"C", "A"},
			{"D", "D"},
		},
	}

	g, err := New(context.Background(), dto)
	require.NoError(t, err)
	return g
}

func TestTraverse_VisitsEveryPath(t *testing.T) {
	g := createTestGmod(t)

	// 18 nodes, plus one extra visit each for the CS1 subtree (CS1, C102,
	// C103) reached again through the 421 side of the diamond.
	expected := []string{
		"VE",
		"400a",
		"410",
		"411",
		"411.1", "C101",
		"411.2", "CS1", "C102", "C103",
		"412", "C104",
		"420",
		"421", "CS1", "C102", "C103",
		"600a",
		"610",
		"611", "E101",
	}

	var visited []string
	completed := g.Traverse(func(parents []*GmodNode, node *GmodNode) TraversalResult {
		if len(parents) == 0 {
			assert.True(t, node.IsRoot(), "only the root is visited without parents")
		} else {
			assert.True(t, parents[0].IsRoot(), "parent chain must start at the root")
			assert.True(t, g.isChild(parents[len(parents)-1], node),
				"%s visited under %s without an edge", node.Code, parents[len(parents)-1].Code)
		}
		for i := 0; i+1 < len(parents); i++ {
			assert.True(t, g.isChild(parents[i], parents[i+1]),
				"parent chain broken between %s and %s", parents[i].Code, parents[i+1].Code)
		}

		visited = append(visited, node.Code)
		return TraversalContinue
	})

	assert.True(t, completed)
	assert.Equal(t, expected, visited)
}

func TestTraverse_DiamondVisitedOncePerPath(t *testing.T) {
	g := createTestGmod(t)

	// The parents slice is reused between handler calls, so each chain is
	// copied before the handler returns.
	var chains []string
	completed := g.Traverse(func(parents []*GmodNode, node *GmodNode) TraversalResult {
		if node.Code == "CS1" {
			chain := Path{
				Parents: append([]*GmodNode(nil), parents...),
				Node:    node,
			}
			chains = append(chains, chain.String())
		}
		return TraversalContinue
	})

	assert.True(t, completed)
	assert.Equal(t, []string{
		"VE/400a/410/411/411.2/CS1",
		"VE/400a/420/421/CS1",
	}, chains)
}

func TestTraverse_SkipSubtree(t *testing.T) {
	g := createTestGmod(t)

	// Skipping 411 suppresses its subtree on that path, but CS1 is still
	// reached once through 421.
	expected := []string{
		"VE",
		"400a",
		"410",
		"411",
		"412", "C104",
		"420",
		"421", "CS1", "C102", "C103",
		"600a",
		"610",
		"611", "E101",
	}

	var visited []string
	completed := g.Traverse(func(parents []*GmodNode, node *GmodNode) TraversalResult {
		visited = append(visited, node.Code)
		if node.Code == "411" {
			return TraversalSkipSubtree
		}
		return TraversalContinue
	})

	assert.True(t, completed, "skipping a subtree must not abort the traversal")
	assert.Equal(t, expected, visited)
}

func TestTraverse_StopShortCircuits(t *testing.T) {
	g := createTestGmod(t)

	var visited []string
	completed := g.Traverse(func(parents []*GmodNode, node *GmodNode) TraversalResult {
		visited = append(visited, node.Code)
		if node.Code == "411" {
			return TraversalStop
		}
		return TraversalContinue
	})

	assert.False(t, completed)
	assert.Equal(t, []string{"VE", "400a", "410", "411"}, visited)
}

func TestTraverse_StopAfterCount(t *testing.T) {
	g := createTestGmod(t)

	stopAfter := 5
	count := 0
	completed := g.Traverse(func(parents []*GmodNode, node *GmodNode) TraversalResult {
		count++
		if count == stopAfter {
			return TraversalStop
		}
		return TraversalContinue
	})

	assert.False(t, completed)
	assert.Equal(t, stopAfter, count)
}

func TestTraverse_CycleTerminates(t *testing.T) {
	g := createCycleGmod(t)

	var visited []string
	completed := g.Traverse(func(parents []*GmodNode, node *GmodNode) TraversalResult {
		visited = append(visited, node.Code)
		return TraversalContinue
	})

	// The back edge C→A and the self loop D→D are both cut where the
	// target is already on the active path.
	assert.True(t, completed)
	assert.Equal(t, []string{"VE", "A", "B", "C", "D"}, visited)
}

func TestTraverseFrom_SubtreeOnly(t *testing.T) {
	g := createTestGmod(t)

	start, ok := g.Node("410")
	require.True(t, ok)

	var visited []string
	completed := g.TraverseFrom(start, func(parents []*GmodNode, node *GmodNode) TraversalResult {
		if len(parents) == 0 {
			assert.Equal(t, "410", node.Code)
		} else {
			assert.Equal(t, "410", parents[0].Code, "parent chain must start at the traversal origin")
		}
		visited = append(visited, node.Code)
		return TraversalContinue
	})

	assert.True(t, completed)
	assert.Equal(t, []string{
		"410",
		"411", "411.1", "C101", "411.2", "CS1", "C102", "C103",
		"412", "C104",
	}, visited)
}

func TestTraverseFrom_PathContextStartsFresh(t *testing.T) {
	g := createTestGmod(t)

	// CS1 has two parents in the graph, but as a traversal origin it is
	// visited with an empty chain.
	start, ok := g.Node("CS1")
	require.True(t, ok)

	var visited []string
	completed := g.TraverseFrom(start, func(parents []*GmodNode, node *GmodNode) TraversalResult {
		if node.Code == "CS1" {
			assert.Empty(t, parents)
		}
		visited = append(visited, node.Code)
		return TraversalContinue
	})

	assert.True(t, completed)
	assert.Equal(t, []string{"CS1", "C102", "C103"}, visited)
}

func TestTraverseFrom_ForeignNodePanics(t *testing.T) {
	g := createTestGmod(t)

	assert.Panics(t, func() {
		g.TraverseFrom(&GmodNode{Code: "QQQ"}, func(parents []*GmodNode, node *GmodNode) TraversalResult {
			return TraversalContinue
		})
	})
}

func TestTraverseWithState(t *testing.T) {
	g := createTestGmod(t)

	type counter struct {
		visits int
		leaves int
	}

	state := &counter{}
	completed := TraverseWithState(g, state, func(s *counter, parents []*GmodNode, node *GmodNode) TraversalResult {
		s.visits++
		if s != state {
			t.Fatal("handler must receive the caller's state value")
		}
		if node.IsLeafNode() {
			s.leaves++
		}
		return TraversalContinue
	})

	assert.True(t, completed)
	assert.Equal(t, 21, state.visits)
	// The five function leaves are each visited once; the diamond revisit
	// repeats product nodes only, and products are never function leaves.
	assert.Equal(t, 5, state.leaves)
}

func TestTraverseWithStateFrom(t *testing.T) {
	g := createTestGmod(t)

	start, ok := g.Node("600a")
	require.True(t, ok)

	var visited []string
	completed := TraverseWithStateFrom(g, &visited, start,
		func(state *[]string, parents []*GmodNode, node *GmodNode) TraversalResult {
			*state = append(*state, node.Code)
			return TraversalContinue
		})

	assert.True(t, completed)
	assert.Equal(t, []string{"600a", "610", "611", "E101"}, visited)
}

func TestTraverseWithState_StopPropagates(t *testing.T) {
	g := createTestGmod(t)

	visits := 0
	completed := TraverseWithState(g, &visits, func(state *int, parents []*GmodNode, node *GmodNode) TraversalResult {
		*state++
		return TraversalStop
	})

	assert.False(t, completed)
	assert.Equal(t, 1, visits)
}

func TestTraversalResult_String(t *testing.T) {
	assert.Equal(t, "stop", TraversalStop.String())
	assert.Equal(t, "skip-subtree", TraversalSkipSubtree.String())
	assert.Equal(t, "continue", TraversalContinue.String())
	assert.Equal(t, "unknown", TraversalResult(42).String())
}

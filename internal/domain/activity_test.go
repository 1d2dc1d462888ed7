package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestBuildTree(t *testing.T) {
	nodes := []*ActivityNode{
		{ID: "p1", Name: "Structure", Level: LevelPhase},
		{ID: "s1", ParentID: strPtr("p1"), Name: "Foundations", Level: LevelStage},
		{ID: "a1", ParentID: strPtr("s1"), Name: "Excavation", Level: LevelActivity},
		{ID: "a2", ParentID: strPtr("s1"), Name: "Footings", Level: LevelActivity},
	}

	tree := BuildTree(nodes)

	require.Len(t, tree.Roots, 1)
	assert.Equal(t, "p1", tree.Roots[0].ID)
	assert.Len(t, tree.Children["s1"], 2)
	assert.True(t, tree.HasHierarchy())
}

func TestBuildTree_FlatPlan(t *testing.T) {
	nodes := []*ActivityNode{
		{ID: "a1", Name: "Demolition", Level: LevelActivity},
		{ID: "a2", Name: "Cleanup", Level: LevelActivity},
	}

	tree := BuildTree(nodes)

	assert.Len(t, tree.Roots, 2)
	assert.False(t, tree.HasHierarchy())
}

func TestWalk_PostOrder(t *testing.T) {
	nodes := []*ActivityNode{
		{ID: "p1", Level: LevelPhase},
		{ID: "s1", ParentID: strPtr("p1"), Level: LevelStage},
		{ID: "a1", ParentID: strPtr("s1"), Level: LevelActivity},
	}

	var order []string
	BuildTree(nodes).Walk(func(n *ActivityNode) {
		order = append(order, n.ID)
	})

	assert.Equal(t, []string{"a1", "s1", "p1"}, order)
}

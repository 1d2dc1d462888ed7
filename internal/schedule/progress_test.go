package schedule

import (
	"testing"

	"github.com/mfigueroa/sitework/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestComputeTree_WeightedMean(t *testing.T) {
	// Phase with two stages of weight 2 and 1 at 80% and 20%:
	// (2*80 + 1*20) / 3 = 60.
	nodes := []ProgressNode{
		{ID: "p", Level: domain.LevelPhase, Weight: 100},
		{ID: "s1", ParentID: strPtr("p"), Level: domain.LevelStage, Weight: 2, UnitProgress: []float64{80}},
		{ID: "s2", ParentID: strPtr("p"), Level: domain.LevelStage, Weight: 1, UnitProgress: []float64{20}},
	}

	result := ComputeTree(nodes)

	assert.Equal(t, 80.0, result.Nodes["s1"])
	assert.Equal(t, 20.0, result.Nodes["s2"])
	assert.Equal(t, 60.0, result.Nodes["p"])
	assert.Equal(t, 60.0, result.Overall)
}

func TestComputeTree_LeafAveragesUnits(t *testing.T) {
	nodes := []ProgressNode{
		{ID: "p", Level: domain.LevelPhase, Weight: 100},
		{ID: "s", ParentID: strPtr("p"), Level: domain.LevelStage, Weight: 1},
		{ID: "a", ParentID: strPtr("s"), Level: domain.LevelActivity, Weight: 1,
			UnitProgress: []float64{100, 50, 0}},
	}

	result := ComputeTree(nodes)

	assert.Equal(t, 50.0, result.Nodes["a"], "leaf is the mean of its unit activities")
	assert.Equal(t, 50.0, result.Overall)
}

func TestComputeTree_NoUnitsIsZero(t *testing.T) {
	nodes := []ProgressNode{
		{ID: "a", Level: domain.LevelActivity, Weight: 1},
	}

	result := ComputeTree(nodes)

	assert.Equal(t, 0.0, result.Nodes["a"])
}

func TestComputeTree_ZeroChildWeightIsZero(t *testing.T) {
	nodes := []ProgressNode{
		{ID: "p", Level: domain.LevelPhase, Weight: 100},
		{ID: "s", ParentID: strPtr("p"), Level: domain.LevelStage, Weight: 0, UnitProgress: []float64{90}},
	}

	result := ComputeTree(nodes)

	assert.Equal(t, 0.0, result.Nodes["p"], "zero total child weight yields zero, not NaN")
}

func TestComputeTree_RoundsEveryLevel(t *testing.T) {
	nodes := []ProgressNode{
		{ID: "p", Level: domain.LevelPhase, Weight: 100},
		{ID: "a1", ParentID: strPtr("p"), Level: domain.LevelActivity, Weight: 1,
			UnitProgress: []float64{33.333, 33.333, 33.333}},
		{ID: "a2", ParentID: strPtr("p"), Level: domain.LevelActivity, Weight: 2,
			UnitProgress: []float64{10}},
	}

	result := ComputeTree(nodes)

	assert.Equal(t, 33.33, result.Nodes["a1"])
	// (1*33.33 + 2*10) / 3 = 17.776... -> 17.78
	assert.Equal(t, 17.78, result.Nodes["p"])
}

func TestComputeFlat_SingleLevelWeightedMean(t *testing.T) {
	nodes := []ProgressNode{
		{ID: "a", Level: domain.LevelActivity, Weight: 3, UnitProgress: []float64{100}},
		{ID: "b", Level: domain.LevelActivity, Weight: 1, UnitProgress: []float64{0}},
	}

	result := ComputeFlat(nodes)

	assert.Equal(t, 100.0, result.Nodes["a"])
	assert.Equal(t, 0.0, result.Nodes["b"])
	assert.Equal(t, 75.0, result.Overall)
}

func TestCompute_DispatchesOnHierarchy(t *testing.T) {
	flat := []ProgressNode{
		{ID: "a", Level: domain.LevelActivity, Weight: 1, UnitProgress: []float64{40}},
	}
	tree := []ProgressNode{
		{ID: "p", Level: domain.LevelPhase, Weight: 100},
		{ID: "a", ParentID: strPtr("p"), Level: domain.LevelActivity, Weight: 1, UnitProgress: []float64{40}},
	}

	assert.Equal(t, 40.0, Compute(flat).Overall)
	assert.Equal(t, 40.0, Compute(tree).Overall)
}

func TestCompute_Idempotent(t *testing.T) {
	nodes := []ProgressNode{
		{ID: "p1", Level: domain.LevelPhase, Weight: 60},
		{ID: "p2", Level: domain.LevelPhase, Weight: 40},
		{ID: "s1", ParentID: strPtr("p1"), Level: domain.LevelStage, Weight: 1},
		{ID: "a1", ParentID: strPtr("s1"), Level: domain.LevelActivity, Weight: 2, UnitProgress: []float64{75, 25}},
		{ID: "a2", ParentID: strPtr("s1"), Level: domain.LevelActivity, Weight: 1, UnitProgress: []float64{10}},
		{ID: "s2", ParentID: strPtr("p2"), Level: domain.LevelStage, Weight: 1},
		{ID: "a3", ParentID: strPtr("s2"), Level: domain.LevelActivity, Weight: 1, UnitProgress: []float64{100}},
	}

	first := Compute(nodes)
	second := Compute(nodes)

	require.Equal(t, first.Overall, second.Overall)
	assert.Equal(t, first.Nodes, second.Nodes)
}

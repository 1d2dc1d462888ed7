package schedule

import (
	"math"

	"github.com/mfigueroa/sitework/internal/domain"
)

// ProgressNode is one arena row of the activity tree handed to the progress
// aggregator: identity, parent link, stored weight, and (for leaves) the
// progress values of the attached unit activities.
type ProgressNode struct {
	ID           string
	ParentID     *string
	Level        domain.Level
	Weight       float64
	UnitProgress []float64
}

// ProgressResult carries the computed 0-100 percentage per node plus the
// root-weighted overall percentage.
type ProgressResult struct {
	Nodes   map[string]float64
	Overall float64
}

// Compute selects the aggregation strategy: hierarchical when any PHASE or
// STAGE node is present, flat single-level weighted mean otherwise.
func Compute(nodes []ProgressNode) ProgressResult {
	for _, n := range nodes {
		if n.Level == domain.LevelPhase || n.Level == domain.LevelStage {
			return ComputeTree(nodes)
		}
	}
	return ComputeFlat(nodes)
}

// ComputeTree aggregates progress bottom-up: a leaf's progress is the mean of
// its unit progress values, a parent's is the weight-normalized mean of its
// children. Rounding to two decimals is applied at every level so drift never
// compounds upward. The overall value applies the same weighted mean once
// more across the root nodes.
func ComputeTree(nodes []ProgressNode) ProgressResult {
	children := make(map[string][]ProgressNode)
	var roots []ProgressNode
	for _, n := range nodes {
		if n.ParentID == nil {
			roots = append(roots, n)
			continue
		}
		children[*n.ParentID] = append(children[*n.ParentID], n)
	}

	result := ProgressResult{Nodes: make(map[string]float64, len(nodes))}

	// Post-order walk; recursion depth is bounded by the 3-level hierarchy.
	var visit func(n ProgressNode) float64
	visit = func(n ProgressNode) float64 {
		kids := children[n.ID]
		var pct float64
		if len(kids) == 0 {
			pct = round2(mean(n.UnitProgress))
		} else {
			var weighted, totalWeight float64
			for _, c := range kids {
				weighted += c.Weight * visit(c)
				totalWeight += c.Weight
			}
			if totalWeight > 0 {
				pct = round2(weighted / totalWeight)
			}
		}
		result.Nodes[n.ID] = pct
		return pct
	}

	var weighted, totalWeight float64
	for _, r := range roots {
		weighted += r.Weight * visit(r)
		totalWeight += r.Weight
	}
	if totalWeight > 0 {
		result.Overall = round2(weighted / totalWeight)
	}
	return result
}

// ComputeFlat is the legacy single-level aggregation for plans with no
// PHASE/STAGE nodes: every activity's progress is the mean of its unit
// progress values and the overall is their weighted mean.
func ComputeFlat(nodes []ProgressNode) ProgressResult {
	result := ProgressResult{Nodes: make(map[string]float64, len(nodes))}

	var weighted, totalWeight float64
	for _, n := range nodes {
		pct := round2(mean(n.UnitProgress))
		result.Nodes[n.ID] = pct
		weighted += n.Weight * pct
		totalWeight += n.Weight
	}
	if totalWeight > 0 {
		result.Overall = round2(weighted / totalWeight)
	}
	return result
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

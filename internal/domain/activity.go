package domain

import "time"

// ActivityNode is one row of the three-level plan hierarchy
// (PHASE > STAGE > ACTIVITY). Nodes are stored flat; parent/child
// adjacency is rebuilt from ParentID when a tree view is needed.
type ActivityNode struct {
	ID           string
	ProjectID    string
	ParentID     *string
	Name         string
	Level        Level
	OrderIndex   int
	Weight       float64 // phase: percentage of total; stage: 1; activity: relative weight among siblings
	DurationDays *int
	DependsOn    []string // sibling-scope dependency names, only meaningful among activities of one phase
	Scope        ActivityScope
	Color        *string
	PlannedStart *time.Time
	PlannedEnd   *time.Time
	Status       ActivityStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsLeaf reports whether the node sits at the ACTIVITY level.
func (n *ActivityNode) IsLeaf() bool {
	return n.Level == LevelActivity
}

// ActivityTree indexes a flat node set by ID with parent->children adjacency.
type ActivityTree struct {
	Nodes    map[string]*ActivityNode
	Children map[string][]*ActivityNode
	Roots    []*ActivityNode
}

// BuildTree builds the adjacency index from a flat node list. Children and
// roots keep the repository's order_index ordering, so callers may rely on
// sibling sequence without re-sorting.
func BuildTree(nodes []*ActivityNode) *ActivityTree {
	t := &ActivityTree{
		Nodes:    make(map[string]*ActivityNode, len(nodes)),
		Children: make(map[string][]*ActivityNode),
	}
	for _, n := range nodes {
		t.Nodes[n.ID] = n
	}
	for _, n := range nodes {
		if n.ParentID == nil {
			t.Roots = append(t.Roots, n)
			continue
		}
		t.Children[*n.ParentID] = append(t.Children[*n.ParentID], n)
	}
	return t
}

// HasHierarchy reports whether any PHASE or STAGE node is present.
// Legacy flat plans carry only ACTIVITY rows.
func (t *ActivityTree) HasHierarchy() bool {
	for _, n := range t.Nodes {
		if n.Level == LevelPhase || n.Level == LevelStage {
			return true
		}
	}
	return false
}

// Walk visits the tree in post-order: children before their parent.
func (t *ActivityTree) Walk(fn func(n *ActivityNode)) {
	var visit func(n *ActivityNode)
	visit = func(n *ActivityNode) {
		for _, c := range t.Children[n.ID] {
			visit(c)
		}
		fn(n)
	}
	for _, r := range t.Roots {
		visit(r)
	}
}

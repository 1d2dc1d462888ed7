package schedule

// SequenceItem is one named item with by-name dependencies on other items in
// the same batch.
type SequenceItem struct {
	Name      string
	DependsOn []string
}

// Sequence orders items so every dependency appears before its dependents
// (Kahn's algorithm). Ties among simultaneously-ready items break by
// declaration order. Ordering is best-effort, never fatal: items left
// unemitted by a cycle or a dangling dependency reference are appended in
// their declared order.
func Sequence(items []SequenceItem) []SequenceItem {
	if len(items) <= 1 {
		return items
	}

	index := make(map[string]int, len(items))
	for i, it := range items {
		index[it.Name] = i
	}

	inDegree := make([]int, len(items))
	successors := make(map[int][]int, len(items))
	for i, it := range items {
		inDegree[i] = len(it.DependsOn)
		for _, dep := range it.DependsOn {
			if j, ok := index[dep]; ok {
				successors[j] = append(successors[j], i)
			}
		}
	}

	var queue []int
	for i := range items {
		if inDegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	ordered := make([]SequenceItem, 0, len(items))
	emitted := make([]bool, len(items))
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		ordered = append(ordered, items[i])
		emitted[i] = true
		for _, succ := range successors[i] {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				queue = append(queue, succ)
			}
		}
	}

	// Cycle or dangling reference: fall back to declaration order for the rest.
	for i, it := range items {
		if !emitted[i] {
			ordered = append(ordered, it)
		}
	}
	return ordered
}

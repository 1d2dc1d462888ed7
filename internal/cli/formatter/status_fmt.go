package formatter

import (
	"fmt"
	"strings"

	"github.com/mfigueroa/sitework/internal/contract"
)

// FormatProgressReport renders a project's progress as a header, an overall
// bar, and the activity tree with per-node bars.
func FormatProgressReport(report *contract.ProgressReport) string {
	var b strings.Builder

	b.WriteString(Header(fmt.Sprintf("%s [%s]", report.ProjectName, report.ProjectShortID)))
	b.WriteString("\n\n")
	b.WriteString(StatusBadge(report.ProjectStatus))
	b.WriteString("  ")
	b.WriteString(RenderProgress(report.Overall, 24))
	b.WriteString("\n\n")
	b.WriteString(RenderTree(progressTreeItems(report.Rows)))

	return b.String()
}

func progressTreeItems(rows []contract.ProgressRow) []TreeItem {
	items := make([]TreeItem, 0, len(rows))
	for i, row := range rows {
		item := TreeItem{
			Title:  row.Name,
			Level:  levelDepth(row.Level),
			IsLast: isLastSibling(rows, i),
			Status: row.Status,
			Detail: RenderProgress(row.Progress, 12),
		}
		if row.PlannedStart != nil && row.PlannedEnd != nil {
			item.Title = fmt.Sprintf("%s %s", row.Name,
				Dim(fmt.Sprintf("(%s → %s)", row.PlannedStart.Format("Jan 02"), row.PlannedEnd.Format("Jan 02"))))
		}
		items = append(items, item)
	}
	return items
}

func levelDepth(level string) int {
	switch level {
	case "PHASE":
		return 0
	case "STAGE":
		return 1
	default:
		return 2
	}
}

// isLastSibling reports whether no later row shares this row's parent.
func isLastSibling(rows []contract.ProgressRow, i int) bool {
	for j := i + 1; j < len(rows); j++ {
		if sameParent(rows[i].ParentID, rows[j].ParentID) {
			return false
		}
	}
	return true
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
